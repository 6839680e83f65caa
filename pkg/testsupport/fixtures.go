package testsupport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-landing/pkg/copywriter"
	"github.com/goliatone/go-landing/pkg/overrides"
	"github.com/goliatone/go-landing/pkg/spec"
)

// MustSpec returns a built-in template spec by id.
func MustSpec(t *testing.T, id string) spec.TemplateSpec {
	t.Helper()

	store, err := spec.LoadFS(spec.EmbeddedFS())
	if err != nil {
		t.Fatalf("load embedded specs: %v", err)
	}
	tpl, ok := store.Get(id)
	if !ok {
		t.Fatalf("template %q not embedded", id)
	}
	return tpl
}

// MustLoadOverrides reads and parses an overrides fixture.
func MustLoadOverrides(t *testing.T, path string) *overrides.ContentOverrides {
	t.Helper()

	patch, err := LoadOverrides(path)
	if err != nil {
		t.Fatalf("load overrides: %v", err)
	}
	return patch
}

// LoadOverrides parses an overrides fixture without requiring testing.T.
func LoadOverrides(path string) (*overrides.ContentOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read overrides: %w", err)
	}
	patch, err := overrides.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: parse overrides: %w", err)
	}
	return patch, nil
}

// StubClient is a copywriter.Client that answers from a queue and records
// every request. Once the queue is drained the last answer repeats.
type StubClient struct {
	mu       sync.Mutex
	answers  []StubAnswer
	requests []copywriter.Request
}

// StubAnswer is one canned reply.
type StubAnswer struct {
	Text string
	Err  error
}

// NewStubClient queues answers in order.
func NewStubClient(answers ...StubAnswer) *StubClient {
	return &StubClient{answers: answers}
}

// Complete implements copywriter.Client.
func (s *StubClient) Complete(ctx context.Context, req copywriter.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.answers) == 0 {
		return "", fmt.Errorf("testsupport: no stub answer queued")
	}
	answer := s.answers[0]
	if len(s.answers) > 1 {
		s.answers = s.answers[1:]
	}
	return answer.Text, answer.Err
}

// Requests returns the recorded requests.
func (s *StubClient) Requests() []copywriter.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]copywriter.Request(nil), s.requests...)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
