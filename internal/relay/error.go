package relay

import (
	"fmt"
	"net/http"

	"github.com/isometry/ask-relay/internal/helpers"
	"github.com/isometry/ask-relay/internal/models"
	"github.com/pkg/errors"
)

// PromptRequiredMessage is returned to callers that did not supply a prompt.
const PromptRequiredMessage = `prompt required. Use ?prompt=hello or POST {"prompt":"..."}`

// ValidationError reports bad or missing client input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthenticationError reports an inbound request whose signature could not be verified.
type AuthenticationError struct {
	Cause error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Cause)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Cause
}

// ConfigurationError reports missing or unreadable operator configuration.
// Need lists the missing settings by name, never by value.
type ConfigurationError struct {
	Need  []string
	Cause error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %v", e.Cause)
	}
	return fmt.Sprintf("missing configuration: %v", e.Need)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// UpstreamError reports a failed chat-completion call. StatusCode is zero for transport failures.
type UpstreamError struct {
	StatusCode int
	Body       string
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("openai request failed: %v", e.Cause)
	}
	return fmt.Sprintf("openai HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// DeliveryError reports a webhook delivery the chat service did not accept. Body is the raw response.
type DeliveryError struct {
	StatusCode int
	Body       string
	Cause      error
}

func (e *DeliveryError) Error() string {
	switch {
	case e.Cause != nil && e.Body == "":
		return fmt.Sprintf("dingtalk request failed: %v", e.Cause)
	case e.StatusCode < 200 || e.StatusCode > 299:
		return fmt.Sprintf("dingtalk HTTP %d: %s", e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("dingtalk rejected message: %s", e.Body)
	}
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

// InternalError reports a programming fault inside the relay.
type InternalError struct {
	Cause error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("relay error: %v", e.Cause)
}

// NewInternalError creates an InternalError from a format string.
func NewInternalError(format string, args ...any) error {
	return &InternalError{Cause: errors.Errorf(format, args...)}
}

// ResponseForError converts err into the JSON response returned to the caller.
// Every secret is redacted from the detail string.
func ResponseForError(err error, secrets ...string) models.Response {
	var (
		validationErr *ValidationError
		authErr       *AuthenticationError
		configErr     *ConfigurationError
	)
	switch {
	case errors.As(err, &validationErr):
		return helpers.JSONResponse(http.StatusBadRequest, models.Failure{Error: validationErr.Message})
	case errors.As(err, &authErr):
		return helpers.JSONResponse(http.StatusForbidden, models.Failure{Error: "invalid signature"})
	case errors.As(err, &configErr) && len(configErr.Need) > 0:
		return helpers.JSONResponse(http.StatusInternalServerError, models.Failure{Error: "Missing env vars", Need: configErr.Need})
	default:
		return helpers.JSONResponse(http.StatusInternalServerError, models.Failure{
			Error:  "server error",
			Detail: helpers.Redact(err.Error(), secrets...),
		})
	}
}
