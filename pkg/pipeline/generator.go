package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-landing/pkg/copywriter"
	"github.com/goliatone/go-landing/pkg/render/template"
)

// DefaultTimeout bounds each call to the generation service.
const DefaultTimeout = 45 * time.Second

var errNoClient = errors.New("pipeline: generation client not configured")

// Option customises a Generator.
type Option func(*Generator)

// WithTimeout sets the per-call timeout. Non-positive values keep the default.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Generator) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for degradations.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithPromptRenderer replaces the built-in prompt templates. The renderer must
// provide "draft" and "enhance".
func WithPromptRenderer(renderer template.TemplateRenderer) Option {
	return func(g *Generator) {
		g.prompts = renderer
	}
}

// Generator runs the draft and enhance stages against a copywriter client.
// Both stages always return usable overrides: failures are logged and
// replaced by fallbacks.
type Generator struct {
	client  copywriter.Client
	logger  *zap.Logger
	timeout time.Duration
	prompts template.TemplateRenderer
}

// New constructs a Generator. A nil client makes every stage fall back.
func New(client copywriter.Client, options ...Option) *Generator {
	g := &Generator{
		client:  client,
		logger:  zap.NewNop(),
		timeout: DefaultTimeout,
	}
	for _, opt := range options {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// call makes a single attempt and returns the decoded JSON object.
func (g *Generator) call(ctx context.Context, stage Stage, system, prompt string) (map[string]any, error) {
	if g.client == nil {
		return nil, errNoClient
	}
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	started := time.Now()
	text, err := g.client.Complete(callCtx, copywriter.Request{System: system, Prompt: prompt, JSON: true})
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s call: %w", stage, err)
	}
	payload, err := decodeResponse(text)
	if err != nil {
		return nil, err
	}
	if err := checkContract(stage, payload); err != nil {
		g.logger.Debug("Response deviates from contract",
			zap.String("stage", string(stage)),
			zap.Error(err))
	}
	g.logger.Debug("Generation stage answered",
		zap.String("stage", string(stage)),
		zap.Duration("elapsed", time.Since(started)))
	return payload, nil
}
