package handler

import (
	"context"
	"log/slog"

	"github.com/isometry/ask-relay/internal/handler/processor"
	"github.com/isometry/ask-relay/internal/relay"
	"github.com/isometry/ask-relay/internal/validation"
)

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithContext sets the context used to initialise the handler's controllers.
func WithContext(ctx context.Context) Option {
	return func(h *Handler) {
		h.ctx = ctx
	}
}

// WithCredentialsSource selects where credentials are read from: "env" or "ssm".
func WithCredentialsSource(source string) Option {
	return func(h *Handler) {
		h.credentialsSource = source
	}
}

// WithCredentials sets the credentials used by the "env" source.
func WithCredentials(creds relay.Credentials) Option {
	return func(h *Handler) {
		h.credentials = creds
	}
}

// WithSSMKey sets the SSM parameter holding the credentials document.
func WithSSMKey(key string) Option {
	return func(h *Handler) {
		h.ssmKey = key
	}
}

// WithSecretGetter overrides the AWS controller used by the "ssm" source.
func WithSecretGetter(getter SecretGetter) Option {
	return func(h *Handler) {
		h.secretGetter = getter
	}
}

// WithInboundSecret enables signature verification of inbound requests. An empty secret disables it.
func WithInboundSecret(secret string) Option {
	return func(h *Handler) {
		h.inboundSecret = validation.NewInboundSecret(secret)
	}
}

// WithMaxPromptLength bounds the prompt length in characters. Non-positive values keep the default.
func WithMaxPromptLength(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxPromptLength = n
		}
	}
}

// WithCompleter sets the completion client.
func WithCompleter(completer processor.Completer) Option {
	return func(h *Handler) {
		h.completer = completer
	}
}

// WithSender sets the webhook client.
func WithSender(sender processor.Sender) Option {
	return func(h *Handler) {
		h.sender = sender
	}
}
