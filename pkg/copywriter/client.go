// Package copywriter talks to the external natural-language generation
// service used by the content pipeline. Every client makes a single,
// blocking attempt per call; retries and fallbacks belong to the caller.
package copywriter

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the service answers without content.
var ErrEmptyResponse = errors.New("copywriter: empty completion")

// Request is one prompt sent to the service.
type Request struct {
	System string
	Prompt string
	// JSON asks the service for a single JSON object.
	JSON bool
	// Temperature overrides the client default when non-zero.
	Temperature float64
}

// Client completes a prompt and returns the raw text answer.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, req Request) (string, error)

// Complete implements Client.
func (f ClientFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
