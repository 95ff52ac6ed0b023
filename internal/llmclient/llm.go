// Package llmclient wraps the text-generation services behind one interface.
package llmclient

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the service answers without content.
var ErrEmptyResponse = errors.New("llmclient: empty response from model")

// Client is the generation contract used by the workflow stages:
// one system prompt in, one response text out. Clients do not retry and
// add no timeout of their own; errors propagate to the calling stage.
type Client interface {
	Name() string
	Generate(ctx context.Context, systemPrompt string) (string, error)
	Close() error
}

// PermanentError marks an error that will not resolve with another call,
// such as a prompt exceeding the model's context window.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}
