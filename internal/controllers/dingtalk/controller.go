// Package dingtalk provides the Controller that delivers signed text messages to a DingTalk robot webhook.
package dingtalk

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/isometry/ask-relay/internal/helpers"
	"github.com/isometry/ask-relay/internal/models"
	"github.com/isometry/ask-relay/internal/relay"
	"github.com/pkg/errors"
)

// Controller delivers messages. Webhook and secret are supplied per call.
type Controller struct {
	logger     *slog.Logger
	timeout    time.Duration
	httpClient *http.Client
	now        func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// NewController initializes a Controller, applying defaults for every unset option.
func NewController(opts ...Option) *Controller {
	_inst := &Controller{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.logger = _inst.logger.With("controller", "dingtalk")
	if _inst.httpClient == nil {
		_inst.httpClient = &http.Client{Transport: &loggingRoundTripper{logger: _inst.logger}}
	}
	if _inst.now == nil {
		_inst.now = time.Now
	}
	return _inst
}

// Send posts message as a text message to webhook, signed with secret at the current time.
// Only an HTTP 2xx response carrying errcode 0 counts as delivered; anything else is a *relay.DeliveryError.
func (c *Controller) Send(ctx context.Context, webhook, secret, message string) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(models.NewTextMessage(message))
	if err != nil {
		return &relay.DeliveryError{Cause: errors.Wrap(err, "failed to encode message")}
	}

	signedURL := SignedURL(webhook, []byte(secret), c.now().UnixMilli())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signedURL, bytes.NewReader(payload))
	if err != nil {
		// the URL embeds the access token, so the cause is not kept
		return &relay.DeliveryError{Cause: errors.New("invalid webhook URL")}
	}
	req.Header.Set("Content-Type", helpers.ContentTypeJSON)

	c.logger.Debug("delivering message...", slog.Int("length", len([]rune(message))))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &relay.DeliveryError{Cause: stripURL(err)}
	}
	defer func() { _ = resp.Body.Close() }()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return &relay.DeliveryError{StatusCode: resp.StatusCode, Cause: errors.Wrap(err, "failed to read response")}
	}
	body := string(out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &relay.DeliveryError{StatusCode: resp.StatusCode, Body: body}
	}

	var result models.WebhookResult
	if err = json.Unmarshal(out, &result); err != nil {
		return &relay.DeliveryError{StatusCode: resp.StatusCode, Body: body, Cause: err}
	}
	if result.ErrCode == nil || *result.ErrCode != 0 {
		return &relay.DeliveryError{StatusCode: resp.StatusCode, Body: body}
	}

	c.logger.Debug("message delivered")
	return nil
}

// stripURL drops the request URL, which carries the access token and signature, from transport errors.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

type loggingRoundTripper struct {
	logger *slog.Logger
}

// RoundTrip logs the request method and the response status at trace level.
func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	l.logger.Log(req.Context(), slog.Level(-8), "sending request", slog.String("method", req.Method), slog.String("host", req.URL.Host))
	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		l.logger.Log(req.Context(), slog.Level(-8), "request failed", slog.Any("error", err))
		return resp, err
	}
	l.logger.Log(req.Context(), slog.Level(-8), "received response", slog.String("status", resp.Status))
	return resp, nil
}
