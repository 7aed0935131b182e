package dingtalk

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

// WithTimeout bounds each delivery. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the HTTP client used for deliveries.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) {
		c.httpClient = client
	}
}

// WithClock replaces the clock used to timestamp signatures.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}
