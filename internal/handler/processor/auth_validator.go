package processor

import (
	"context"
	"log/slog"

	"github.com/isometry/ask-relay/internal/helpers"
	"github.com/isometry/ask-relay/internal/relay"
	"github.com/isometry/ask-relay/internal/validation"
)

type authValidatorProcessor struct {
	logger *slog.Logger
	secret *validation.InboundSecret
}

// NewAuthValidatorProcessor verifies the inbound request signature. A nil secret disables the check.
func NewAuthValidatorProcessor(secret *validation.InboundSecret) Processor {
	return &authValidatorProcessor{secret: secret, logger: helpers.NewNoopLogger()}
}

func (p *authValidatorProcessor) SetLogger(logger *slog.Logger) {
	p.logger = logger.WithGroup("processor:auth")
}

func (p *authValidatorProcessor) Process(_ context.Context, bus *relay.Bus) error {
	if p.secret == nil {
		p.logger.Debug("inbound signature check disabled")
		return nil
	}
	if err := p.secret.ValidateSignature(bus.Request.Body, bus.Request.Headers); err != nil {
		p.logger.Warn("validating signature", slog.Any("error", err))
		return &relay.AuthenticationError{Cause: err}
	}
	p.logger.Debug("request signature is valid")
	return nil
}
