package processor

import (
	"context"
	"log/slog"

	"github.com/isometry/ask-relay/internal/helpers"
	"github.com/isometry/ask-relay/internal/relay"
)

type completionProcessor struct {
	logger    *slog.Logger
	completer Completer
}

// NewCompletionProcessor asks completer for an answer to the bus prompt.
func NewCompletionProcessor(completer Completer) Processor {
	return &completionProcessor{completer: completer, logger: helpers.NewNoopLogger()}
}

func (p *completionProcessor) SetLogger(logger *slog.Logger) {
	p.logger = logger.WithGroup("processor:completion")
}

func (p *completionProcessor) Process(ctx context.Context, bus *relay.Bus) error {
	if p.completer == nil {
		return relay.NewInternalError("completer is nil")
	}
	answer, err := p.completer.Complete(ctx, bus.Credentials.OpenAIAPIKey, bus.Prompt)
	if err != nil {
		return err
	}
	bus.Answer = answer
	p.logger.Debug("answer obtained", slog.Int("answerLength", len([]rune(answer))))
	return bus.Advance(relay.AnswerObtained)
}
