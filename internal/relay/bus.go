// Package relay provides the per-request state carried through the prompt relay pipeline.
package relay

import (
	"log/slog"

	"github.com/isometry/ask-relay/internal/models"
)

// State is a step of the relay state machine.
type State int

const (
	// Idle is the state of a request that has not been processed yet.
	Idle State = iota
	// PromptExtracted is reached once a non-empty prompt was read from the request.
	PromptExtracted
	// AnswerObtained is reached once the completion API answered.
	AnswerObtained
	// Delivered is the terminal success state.
	Delivered
	// Errored is the terminal failure state, reachable from any other state.
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PromptExtracted:
		return "prompt-extracted"
	case AnswerObtained:
		return "answer-obtained"
	case Delivered:
		return "delivered"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Bus carries a single request through the processor chain.
type Bus struct {
	Request     models.Request
	Credentials *Credentials
	Prompt      string
	Answer      string
	State       State
	Response    models.Response
	Error       error
}

// NewBus creates an idle Bus for req.
func NewBus(req models.Request) *Bus {
	return &Bus{Request: req, State: Idle}
}

// Advance moves the bus one step forward. Skipping or revisiting a state is an InternalError.
func (b *Bus) Advance(to State) error {
	if b.State == Errored || b.State == Delivered || to != b.State+1 || to == Errored {
		return NewInternalError("illegal transition %s -> %s", b.State, to)
	}
	b.State = to
	return nil
}

// Fail moves the bus to Errored and records err with its response.
func (b *Bus) Fail(err error) {
	b.State = Errored
	b.Error = err
	b.Response = ResponseForError(err, b.Credentials.Secrets()...)
}

// LogValue omits the prompt and answer bodies, which may be long.
func (b *Bus) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("method", b.Request.Method),
		slog.String("state", b.State.String()),
		slog.Int("promptLength", len([]rune(b.Prompt))),
		slog.Int("answerLength", len([]rune(b.Answer))),
		slog.Int("status", b.Response.StatusCode),
	)
}
