// Package validation provides inbound request checks: webhook-style signature verification and prompt extraction.
package validation

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/go-github/v84/github"
	"github.com/isometry/ask-relay/internal/helpers"
	"github.com/isometry/ask-relay/internal/models"
)

// DefaultMaxPromptLength is the number of characters kept from an inbound prompt.
const DefaultMaxPromptLength = 4000

// PromptField is both the query parameter and the JSON body field carrying the prompt.
const PromptField = "prompt"

// InboundSecret is the shared secret callers use to sign relay requests.
type InboundSecret string

// NewInboundSecret returns nil for an empty secret, which disables verification.
func NewInboundSecret(secret string) *InboundSecret {
	if secret == "" {
		return nil
	}
	s := InboundSecret(secret)
	return &s
}

// ValidateSignature validates the HMAC-SHA256 signature of the raw request body.
// Headers are expected with lower-case keys.
func (s *InboundSecret) ValidateSignature(body []byte, headers map[string]string) error {
	if s == nil {
		return errors.New("missing inbound secret")
	}
	signature, found := headers[strings.ToLower(github.SHA256SignatureHeader)]
	if !found {
		return errors.New("missing HMAC-SHA256 signature")
	}
	return github.ValidateSignature(signature, body, []byte(*s))
}

// ExtractPrompt reads the prompt from the query string of read-style requests and from the JSON body otherwise.
// Undecodable bodies yield an empty prompt. The result is trimmed, then cut to maxLength characters.
func ExtractPrompt(req models.Request, maxLength int) string {
	var raw string
	if req.IsReadStyle() {
		raw = req.Query[PromptField]
	} else {
		var body map[string]json.RawMessage
		if err := json.Unmarshal(req.Body, &body); err == nil {
			_ = json.Unmarshal(body[PromptField], &raw)
		}
	}
	return helpers.Truncate(strings.TrimSpace(raw), maxLength)
}
