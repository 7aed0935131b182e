// Package processor provides the relay pipeline as a chain of processors sharing a relay.Bus.
package processor

import (
	"context"
	"log/slog"

	"github.com/isometry/ask-relay/internal/relay"
)

// Processor is an interface that defines a method to process a request.
type Processor interface {
	SetLogger(logger *slog.Logger)
	Process(ctx context.Context, bus *relay.Bus) error
}

// Completer obtains an answer for a prompt.
type Completer interface {
	Complete(ctx context.Context, apiKey, prompt string) (string, error)
}

// Sender delivers a message to a signed webhook.
type Sender interface {
	Send(ctx context.Context, webhook, secret, message string) error
}

// CredentialsSource resolves the credentials for the current request.
type CredentialsSource interface {
	RetrieveCredentials(ctx context.Context) (*relay.Credentials, error)
}

// Process runs processors in order and stops at the first error, which moves the bus to relay.Errored.
func Process(ctx context.Context, logger *slog.Logger, bus *relay.Bus, processors ...Processor) error {
	for _, p := range processors {
		p.SetLogger(logger)
		if err := p.Process(ctx, bus); err != nil {
			bus.Fail(err)
			logger.Warn("relay failed", slog.Any("bus", bus), slog.Any("error", err))
			return err
		}
	}
	return nil
}
