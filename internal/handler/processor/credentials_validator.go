package processor

import (
	"context"
	"log/slog"

	"github.com/isometry/ask-relay/internal/helpers"
	"github.com/isometry/ask-relay/internal/relay"
)

type credentialsValidatorProcessor struct {
	logger *slog.Logger
	source CredentialsSource
}

// NewCredentialsValidatorProcessor resolves credentials into the bus and fails when any is missing.
func NewCredentialsValidatorProcessor(source CredentialsSource) Processor {
	return &credentialsValidatorProcessor{source: source, logger: helpers.NewNoopLogger()}
}

func (p *credentialsValidatorProcessor) SetLogger(logger *slog.Logger) {
	p.logger = logger.WithGroup("processor:credentials")
}

func (p *credentialsValidatorProcessor) Process(ctx context.Context, bus *relay.Bus) error {
	creds, err := p.source.RetrieveCredentials(ctx)
	if err != nil {
		p.logger.Error("failed to retrieve credentials", slog.Any("error", err))
		return &relay.ConfigurationError{Cause: err}
	}
	bus.Credentials = creds
	if missing := creds.Missing(); len(missing) > 0 {
		helpers.OnceAMinute.Do(func() {
			p.logger.Warn("relay credentials are incomplete", slog.Any("need", missing))
		})
		return &relay.ConfigurationError{Need: missing}
	}
	return nil
}
