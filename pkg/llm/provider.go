// Package llm defines the chat-completion provider used for optional
// AI summaries.
package llm

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrDisabled is returned by Disabled.
var ErrDisabled = errors.New("completion provider not configured")

// Provider is the interface all completion providers must implement
type Provider interface {
	Enabled() bool
	Name() string
	Model() string

	// Ping checks credentials and returns a short status line.
	Ping(ctx context.Context) (string, error)

	// Complete sends a system instruction and a user prompt and returns the
	// trimmed reply. An empty reply is reported as ErrEmptyReply.
	Complete(ctx context.Context, req *Request) (string, error)
}

// ErrEmptyReply is returned when the provider answered without content.
var ErrEmptyReply = errors.New("empty completion")

// Request represents a request to the LLM
type Request struct {
	SystemPrompt string
	Prompt       string
	MaxTokens    int     // 0 = provider default
	Temperature  float64 // used only when HasTemperature
	// HasTemperature distinguishes an explicit 0 from the default.
	HasTemperature bool
}

// Disabled stands in when no provider is configured.
type Disabled struct{}

var _ Provider = Disabled{}

func (Disabled) Enabled() bool { return false }
func (Disabled) Name() string  { return "disabled" }
func (Disabled) Model() string { return "" }
func (Disabled) Ping(context.Context) (string, error) {
	return "", ErrDisabled
}
func (Disabled) Complete(context.Context, *Request) (string, error) {
	return "", ErrDisabled
}
