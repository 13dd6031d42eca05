package ai

import (
	"context"
	"errors"
	"strings"
)

// ExplanationMaxTokens bounds the length of a generated explanation.
const ExplanationMaxTokens = 150

// WarningMarker prefixes every explanation that was not produced by a model.
const WarningMarker = "⚠️"

// SystemInstruction is sent with every explanation request.
const SystemInstruction = "You are a helpful assistant that explains Indian government schemes in simple, non-legal language. Be concise and clear."

var (
	// ErrNotConfigured is returned when provider credentials are missing.
	ErrNotConfigured = errors.New("ai provider is not configured")
	// ErrBadStatus wraps non-success responses from a provider.
	ErrBadStatus = errors.New("unexpected response status")
	// ErrMalformedResponse is returned when a provider reply cannot be read.
	ErrMalformedResponse = errors.New("malformed provider response")
	// ErrTransport wraps network failures while talking to a provider.
	ErrTransport = errors.New("provider request failed")
)

// Generator produces a completion for a single prompt.
type Generator interface {
	Provider() string
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// MatchResult is what a user sees for a scheme: an explanation and a score.
type MatchResult struct {
	Explanation string `json:"explanation"`
	Score       int    `json:"score"`
}

// Fallback is true when the explanation carries the warning marker.
func (r MatchResult) Fallback() bool {
	return strings.HasPrefix(r.Explanation, WarningMarker)
}
