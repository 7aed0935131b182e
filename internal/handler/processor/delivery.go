package processor

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/isometry/ask-relay/internal/helpers"
	"github.com/isometry/ask-relay/internal/models"
	"github.com/isometry/ask-relay/internal/relay"
)

type deliveryProcessor struct {
	logger *slog.Logger
	sender Sender
}

// NewDeliveryProcessor posts the bus answer to the group webhook and sets the success response.
func NewDeliveryProcessor(sender Sender) Processor {
	return &deliveryProcessor{sender: sender, logger: helpers.NewNoopLogger()}
}

func (p *deliveryProcessor) SetLogger(logger *slog.Logger) {
	p.logger = logger.WithGroup("processor:delivery")
}

func (p *deliveryProcessor) Process(ctx context.Context, bus *relay.Bus) error {
	if p.sender == nil {
		return relay.NewInternalError("sender is nil")
	}
	if err := p.sender.Send(ctx, bus.Credentials.DingTalkWebhook, bus.Credentials.DingTalkSecret, bus.Answer); err != nil {
		return err
	}
	if err := bus.Advance(relay.Delivered); err != nil {
		return err
	}
	bus.Response = helpers.JSONResponse(http.StatusOK, models.Answer{OK: true, Answer: bus.Answer})
	p.logger.Info("answer delivered")
	return nil
}
