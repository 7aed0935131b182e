package openai

import (
	"log/slog"
	"net/http"
	"time"
)

// WithLogger sets the logger for the Controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithBaseURL points the Controller at an OpenAI-compatible API root. Empty values keep the default.
func WithBaseURL(baseURL string) Option {
	return func(c *Controller) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithModel selects the chat model. Empty values keep the default.
func WithModel(model string) Option {
	return func(c *Controller) {
		if model != "" {
			c.model = model
		}
	}
}

// WithSystemPrompt replaces the system instruction. Empty values keep the default.
func WithSystemPrompt(prompt string) Option {
	return func(c *Controller) {
		if prompt != "" {
			c.systemPrompt = prompt
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float32) Option {
	return func(c *Controller) {
		c.temperature = temperature
	}
}

// WithTimeout bounds each completion call. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the HTTP client used for completion calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) {
		c.httpClient = client
	}
}
