package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/isometry/ask-relay/internal/controllers/openai"
	"github.com/isometry/ask-relay/internal/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestController_Complete(t *testing.T) {
	testCases := []struct {
		Name           string
		Status         int
		Body           string
		Expected       string
		ExpectedStatus int
		ExpectError    bool
	}{
		{
			Name:     "answer_trimmed",
			Status:   http.StatusOK,
			Body:     `{"choices":[{"message":{"role":"assistant","content":" Hi there! "}}]}`,
			Expected: "Hi there!",
		},
		{
			Name:     "no_choices",
			Status:   http.StatusOK,
			Body:     `{"choices":[]}`,
			Expected: openai.NoContentPlaceholder,
		},
		{
			Name:     "empty_content",
			Status:   http.StatusOK,
			Body:     `{"choices":[{"message":{"role":"assistant","content":"   "}}]}`,
			Expected: openai.NoContentPlaceholder,
		},
		{
			Name:           "server_error_text_body",
			Status:         http.StatusInternalServerError,
			Body:           `upstream exploded`,
			ExpectedStatus: http.StatusInternalServerError,
			ExpectError:    true,
		},
		{
			Name:           "unauthorized_json_body",
			Status:         http.StatusUnauthorized,
			Body:           `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			ExpectedStatus: http.StatusUnauthorized,
			ExpectError:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			var (
				received chatRequest
				auth     string
				path     string
			)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				auth = r.Header.Get("Authorization")
				path = r.URL.Path
				_ = json.NewDecoder(r.Body).Decode(&received)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.Status)
				_, _ = w.Write([]byte(tc.Body))
			}))
			defer srv.Close()

			ctl := openai.NewController(openai.WithBaseURL(srv.URL + "/v1"))
			answer, err := ctl.Complete(context.Background(), "sk-test", "hello")

			assert.Equal(t, "Bearer sk-test", auth)
			assert.Equal(t, "/v1/chat/completions", path)
			assert.Equal(t, openai.DefaultModel, received.Model)
			assert.InDelta(t, openai.DefaultTemperature, received.Temperature, 0.0001)
			require.Len(t, received.Messages, 2)
			assert.Equal(t, "system", received.Messages[0].Role)
			assert.Equal(t, openai.DefaultSystemPrompt, received.Messages[0].Content)
			assert.Equal(t, "user", received.Messages[1].Role)
			assert.Equal(t, "hello", received.Messages[1].Content)

			if tc.ExpectError {
				var upstreamErr *relay.UpstreamError
				require.ErrorAs(t, err, &upstreamErr)
				assert.Equal(t, tc.ExpectedStatus, upstreamErr.StatusCode)
				assert.Equal(t, tc.Body, upstreamErr.Body)
				assert.Contains(t, err.Error(), strconv.Itoa(tc.ExpectedStatus))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, answer)
		})
	}
}

func TestController_CompleteTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctl := openai.NewController(
		openai.WithBaseURL(srv.URL+"/v1"),
		openai.WithTimeout(50*time.Millisecond))
	_, err := ctl.Complete(context.Background(), "sk-test", "hello")

	var upstreamErr *relay.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Zero(t, upstreamErr.StatusCode)
	assert.Contains(t, err.Error(), "openai request failed")
}

func TestController_CompleteOptions(t *testing.T) {
	testCases := []struct {
		Name                string
		Temperature         float32
		ExpectedTemperature float64
	}{
		{
			Name:                "low_temperature",
			Temperature:         0.2,
			ExpectedTemperature: 0.2,
		},
		{
			Name:                "zero_temperature_is_sent",
			Temperature:         0,
			ExpectedTemperature: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			var body []byte
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ = io.ReadAll(r.Body)
				_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
			}))
			defer srv.Close()

			ctl := openai.NewController(
				openai.WithBaseURL(srv.URL),
				openai.WithModel("gpt-4.1-mini"),
				openai.WithSystemPrompt("Answer briefly."),
				openai.WithTemperature(tc.Temperature))
			answer, err := ctl.Complete(context.Background(), "sk-test", "hello")

			require.NoError(t, err)
			assert.Equal(t, "ok", answer)

			var (
				received chatRequest
				raw      map[string]json.RawMessage
			)
			require.NoError(t, json.Unmarshal(body, &received))
			require.NoError(t, json.Unmarshal(body, &raw))
			assert.Equal(t, "gpt-4.1-mini", received.Model)
			assert.Equal(t, "Answer briefly.", received.Messages[0].Content)

			require.Contains(t, raw, "temperature")
			assert.InDelta(t, tc.ExpectedTemperature, received.Temperature, 0.0001)
		})
	}
}

func TestController_CompleteKeepsInjectedClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("gateway down\n"))
	}))
	defer srv.Close()

	client := &http.Client{Timeout: time.Second}
	ctl := openai.NewController(openai.WithBaseURL(srv.URL), openai.WithHTTPClient(client))
	_, err := ctl.Complete(context.Background(), "sk-test", "hello")

	var upstreamErr *relay.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusBadGateway, upstreamErr.StatusCode)
	assert.Equal(t, "gateway down", upstreamErr.Body)
	assert.Nil(t, client.Transport)
}
