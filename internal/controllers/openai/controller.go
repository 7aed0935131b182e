// Package openai provides the Controller that obtains answers from an OpenAI-compatible chat-completion API.
package openai

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/isometry/ask-relay/internal/helpers"
	"github.com/isometry/ask-relay/internal/relay"
	"github.com/pkg/errors"
	goopenai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL is the public OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the chat model used when none is configured.
	DefaultModel = "gpt-4o-mini"
	// DefaultSystemPrompt frames the assistant for group chat use.
	DefaultSystemPrompt = "You are a helpful assistant for a DingTalk group."
	// DefaultTemperature keeps answers fairly deterministic.
	DefaultTemperature = 0.6
	// NoContentPlaceholder replaces an empty answer.
	NoContentPlaceholder = "(no content)"
)

// Controller issues chat-completion calls. It holds no credentials; the API key is supplied per call.
type Controller struct {
	logger       *slog.Logger
	baseURL      string
	model        string
	systemPrompt string
	temperature  float32
	timeout      time.Duration
	httpClient   *http.Client
}

// Option configures a Controller.
type Option func(*Controller)

// NewController initializes a Controller, applying defaults for every unset option.
func NewController(opts ...Option) *Controller {
	_inst := &Controller{
		baseURL:      DefaultBaseURL,
		model:        DefaultModel,
		systemPrompt: DefaultSystemPrompt,
		temperature:  DefaultTemperature,
	}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.logger = _inst.logger.With("controller", "openai")
	if _inst.httpClient == nil {
		_inst.httpClient = &http.Client{Timeout: _inst.timeout}
	}
	client := *_inst.httpClient
	client.Transport = &errorBodyTransport{base: client.Transport}
	_inst.httpClient = &client
	return _inst
}

// Complete sends the system instruction and prompt, and returns the first choice's trimmed content.
// An empty answer is replaced by NoContentPlaceholder; any failed call is an *relay.UpstreamError.
func (c *Controller) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	recorder := &errorBody{}
	ctx = context.WithValue(ctx, errorBodyKey{}, recorder)

	// temperature is omitted from the request when zero, which the API reads as its own default
	temperature := c.temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = c.baseURL
	cfg.HTTPClient = c.httpClient
	client := goopenai.NewClientWithConfig(cfg)

	c.logger.Debug("requesting chat completion...", slog.String("model", c.model), slog.Int("promptLength", len([]rune(prompt))))
	resp, err := client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: c.systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		c.logger.Warn("chat completion failed", slog.Any("error", err))
		return "", upstreamError(err, recorder.raw)
	}

	var answer string
	if len(resp.Choices) > 0 {
		answer = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	if answer == "" {
		c.logger.Info("chat completion returned no content")
		return NoContentPlaceholder, nil
	}
	return answer, nil
}

// upstreamError maps a go-openai error to an *relay.UpstreamError, preferring the raw response body over the
// decoded API message.
func upstreamError(err error, raw []byte) error {
	var (
		apiErr *goopenai.APIError
		reqErr *goopenai.RequestError
	)
	body := strings.TrimSpace(string(raw))
	switch {
	case errors.As(err, &apiErr):
		if body == "" {
			body = apiErr.Message
		}
		return &relay.UpstreamError{StatusCode: apiErr.HTTPStatusCode, Body: body, Cause: err}
	case errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0:
		if body == "" {
			body = reqErr.Error()
		}
		return &relay.UpstreamError{StatusCode: reqErr.HTTPStatusCode, Body: body, Cause: err}
	default:
		return &relay.UpstreamError{Cause: err}
	}
}

type errorBodyKey struct{}

// errorBody receives the raw body of a failed completion call.
type errorBody struct {
	raw []byte
}

// errorBodyTransport copies non-2xx response bodies into the errorBody found in the request context.
type errorBodyTransport struct {
	base http.RoundTripper
}

func (t *errorBodyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil || (resp.StatusCode >= 200 && resp.StatusCode <= 299) {
		return resp, err
	}
	recorder, ok := req.Context().Value(errorBodyKey{}).(*errorBody)
	if !ok {
		return resp, nil
	}
	raw, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read error response")
	}
	recorder.raw = raw
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	return resp, nil
}
