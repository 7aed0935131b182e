package processor

import (
	"context"
	"log/slog"

	"github.com/isometry/ask-relay/internal/helpers"
	"github.com/isometry/ask-relay/internal/relay"
	"github.com/isometry/ask-relay/internal/validation"
)

type promptExtractorProcessor struct {
	logger    *slog.Logger
	maxLength int
}

// NewPromptExtractorProcessor reads the prompt into the bus, keeping at most maxLength characters.
func NewPromptExtractorProcessor(maxLength int) Processor {
	return &promptExtractorProcessor{maxLength: maxLength, logger: helpers.NewNoopLogger()}
}

func (p *promptExtractorProcessor) SetLogger(logger *slog.Logger) {
	p.logger = logger.WithGroup("processor:prompt")
}

func (p *promptExtractorProcessor) Process(_ context.Context, bus *relay.Bus) error {
	prompt := validation.ExtractPrompt(bus.Request, p.maxLength)
	if prompt == "" {
		p.logger.Info("rejecting request without prompt", slog.String("method", bus.Request.Method))
		return &relay.ValidationError{Message: relay.PromptRequiredMessage}
	}
	bus.Prompt = prompt
	return bus.Advance(relay.PromptExtracted)
}
