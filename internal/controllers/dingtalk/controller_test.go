package dingtalk_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/isometry/ask-relay/internal/controllers/dingtalk"
	"github.com/isometry/ask-relay/internal/models"
	"github.com/isometry/ask-relay/internal/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "SECtest"

var fixedClock = func() time.Time { return time.UnixMilli(1700000000000) }

type received struct {
	Query       url.Values
	ContentType string
	Message     models.TextMessage
}

func newWebhookServer(t *testing.T, status int, body string, got *received) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		got.Query = r.URL.Query()
		got.ContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got.Message)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestController_Send(t *testing.T) {
	testCases := []struct {
		Name           string
		Status         int
		Body           string
		ExpectError    bool
		ExpectedStatus int
	}{
		{
			Name:   "accepted",
			Status: http.StatusOK,
			Body:   `{"errcode":0,"errmsg":"ok"}`,
		},
		{
			Name:           "rejected_errcode",
			Status:         http.StatusOK,
			Body:           `{"errcode":1,"errmsg":"bad token"}`,
			ExpectError:    true,
			ExpectedStatus: http.StatusOK,
		},
		{
			Name:           "missing_errcode",
			Status:         http.StatusOK,
			Body:           `{"errmsg":"ok"}`,
			ExpectError:    true,
			ExpectedStatus: http.StatusOK,
		},
		{
			Name:           "not_json",
			Status:         http.StatusOK,
			Body:           `<html>ok</html>`,
			ExpectError:    true,
			ExpectedStatus: http.StatusOK,
		},
		{
			Name:           "http_failure",
			Status:         http.StatusBadGateway,
			Body:           `{"errcode":0}`,
			ExpectError:    true,
			ExpectedStatus: http.StatusBadGateway,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			var got received
			srv := newWebhookServer(t, tc.Status, tc.Body, &got)
			defer srv.Close()

			ctl := dingtalk.NewController(dingtalk.WithClock(fixedClock))
			err := ctl.Send(context.Background(), srv.URL+"/robot/send?access_token=abc", testSecret, "Hi there!")

			assert.Equal(t, "abc", got.Query.Get("access_token"))
			assert.Equal(t, "1700000000000", got.Query.Get("timestamp"))
			expectedSign, _ := url.QueryUnescape(dingtalk.Sign([]byte(testSecret), 1700000000000))
			assert.Equal(t, expectedSign, got.Query.Get("sign"))
			assert.Equal(t, "application/json; charset=utf-8", got.ContentType)
			assert.Equal(t, models.NewTextMessage("Hi there!"), got.Message)

			if !tc.ExpectError {
				assert.NoError(t, err)
				return
			}
			var deliveryErr *relay.DeliveryError
			require.ErrorAs(t, err, &deliveryErr)
			assert.Equal(t, tc.ExpectedStatus, deliveryErr.StatusCode)
			assert.Equal(t, tc.Body, deliveryErr.Body)
			assert.NotContains(t, err.Error(), testSecret)
		})
	}
}

func TestController_SendTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctl := dingtalk.NewController(dingtalk.WithTimeout(50 * time.Millisecond))
	err := ctl.Send(context.Background(), srv.URL+"?access_token=secret-token", testSecret, "hello")

	var deliveryErr *relay.DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotContains(t, err.Error(), "secret-token")
}

func TestController_SendInvalidURL(t *testing.T) {
	ctl := dingtalk.NewController()
	err := ctl.Send(context.Background(), "://bad\x7f?access_token=secret-token", testSecret, "hello")

	var deliveryErr *relay.DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.NotContains(t, err.Error(), "secret-token")
}
