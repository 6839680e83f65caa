package compose

import (
	"errors"
	"fmt"
)

// ErrUnknownTemplate is matched by errors.Is for every UnknownTemplateError.
var ErrUnknownTemplate = errors.New("compose: unknown template")

// UnknownTemplateError reports a compose or inspect request for a template id
// the spec store does not hold.
type UnknownTemplateError struct {
	TemplateID string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("compose: unknown template %q", e.TemplateID)
}

// Is lets errors.Is match ErrUnknownTemplate.
func (e *UnknownTemplateError) Is(target error) bool {
	return target == ErrUnknownTemplate
}

// RenderError wraps a renderer failure for one section.
type RenderError struct {
	TemplateID string
	Index      int
	Type       string
	Err        error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("compose: template %q section %d (%s): %v", e.TemplateID, e.Index, e.Type, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
