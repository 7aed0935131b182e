// Package handler wires the relay pipeline: authenticate, extract prompt, resolve credentials, complete, deliver.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	awsctl "github.com/isometry/ask-relay/internal/controllers/aws"
	"github.com/isometry/ask-relay/internal/controllers/dingtalk"
	"github.com/isometry/ask-relay/internal/controllers/openai"
	"github.com/isometry/ask-relay/internal/handler/processor"
	"github.com/isometry/ask-relay/internal/helpers"
	"github.com/isometry/ask-relay/internal/models"
	"github.com/isometry/ask-relay/internal/relay"
	"github.com/isometry/ask-relay/internal/validation"
	"github.com/pkg/errors"
)

const (
	// CredentialsSourceEnv reads credentials from the static configuration.
	CredentialsSourceEnv = "env"
	// CredentialsSourceSSM reads credentials from a JSON document stored in an SSM parameter.
	CredentialsSourceSSM = "ssm"
)

// SecretGetter retrieves a secret value by key.
type SecretGetter interface {
	GetSecret(ctx context.Context, key string, encrypted bool) (string, error)
}

type Option func(*Handler)

// Handler relays prompts to the completion API and delivers the answers to the group webhook.
// It is safe for concurrent use.
type Handler struct {
	ctx    context.Context
	logger *slog.Logger

	credentialsSource string
	credentials       relay.Credentials
	ssmKey            string
	secretGetter      SecretGetter

	inboundSecret   *validation.InboundSecret
	maxPromptLength int

	completer processor.Completer
	sender    processor.Sender

	mu            sync.Mutex
	cachedSecrets *relay.Credentials
}

// NewRelayHandler creates a Handler. Unset controllers are created with their defaults.
func NewRelayHandler(options ...Option) (*Handler, error) {
	_inst := &Handler{
		logger:            helpers.NewNoopLogger(),
		credentialsSource: CredentialsSourceEnv,
		maxPromptLength:   validation.DefaultMaxPromptLength,
	}
	for _, opt := range options {
		opt(_inst)
	}

	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	_inst.credentialsSource = strings.ToLower(strings.TrimSpace(_inst.credentialsSource))

	switch _inst.credentialsSource {
	case CredentialsSourceEnv:
	case CredentialsSourceSSM:
		if _inst.ssmKey == "" {
			return nil, errors.New("credentials source ssm requires an SSM key")
		}
		if _inst.secretGetter == nil {
			awsCtl, err := awsctl.NewController(
				awsctl.WithLogger(_inst.logger.With("component", "aws-controller")),
				awsctl.WithContext(_inst.ctx))
			if err != nil {
				return nil, errors.Wrap(err, "failed to create AWS controller")
			}
			_inst.secretGetter = awsCtl
		}
	default:
		return nil, fmt.Errorf("unsupported credentials source: %s", _inst.credentialsSource)
	}

	if _inst.completer == nil {
		_inst.completer = openai.NewController(openai.WithLogger(_inst.logger.With("component", "openai-controller")))
	}
	if _inst.sender == nil {
		_inst.sender = dingtalk.NewController(dingtalk.WithLogger(_inst.logger.With("component", "dingtalk-controller")))
	}

	return _inst, nil
}

// RetrieveCredentials resolves the credentials for a request. SSM documents are cached once complete.
func (h *Handler) RetrieveCredentials(ctx context.Context) (*relay.Credentials, error) {
	if h.credentialsSource != CredentialsSourceSSM {
		creds := h.credentials
		return &creds, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cachedSecrets != nil {
		creds := *h.cachedSecrets
		return &creds, nil
	}

	h.logger.Debug("retrieving credentials from SSM...", slog.String("key", h.ssmKey))
	document, err := h.secretGetter.GetSecret(ctx, h.ssmKey, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to retrieve credentials")
	}
	var creds relay.Credentials
	if err = json.Unmarshal([]byte(document), &creds); err != nil {
		return nil, errors.Wrap(err, "failed to decode credentials document")
	}
	if creds.Complete() {
		cached := creds
		h.cachedSecrets = &cached
	}
	return &creds, nil
}

// Process runs req through the relay pipeline and returns the resulting bus.
// The bus always holds a response, whether the relay succeeded or not.
func (h *Handler) Process(ctx context.Context, req models.Request) *relay.Bus {
	bus := relay.NewBus(req)
	logger := h.logger.With(slog.String("requestId", uuid.NewString()), slog.String("method", req.Method))
	logger.Info("processing request...")

	err := processor.Process(ctx, logger, bus,
		processor.NewAuthValidatorProcessor(h.inboundSecret),
		processor.NewPromptExtractorProcessor(h.maxPromptLength),
		processor.NewCredentialsValidatorProcessor(h),
		processor.NewCompletionProcessor(h.completer),
		processor.NewDeliveryProcessor(h.sender),
	)
	if err == nil {
		logger.Info("relay complete", slog.Any("bus", bus))
	}
	return bus
}
