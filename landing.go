// Package landing is the entry point for composing landing pages from
// template specs, per-request overrides and generated copy.
package landing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-landing/pkg/assets"
	"github.com/goliatone/go-landing/pkg/compose"
	"github.com/goliatone/go-landing/pkg/overrides"
	"github.com/goliatone/go-landing/pkg/pipeline"
)

// ComposeRequest asks for one page. Overrides is decoded strictly; a shape
// mismatch is reported through ComposeResponse.Error.
type ComposeRequest struct {
	TemplateID        string          `json:"templateId"`
	Overrides         json.RawMessage `json:"overrides,omitempty"`
	AllowRemoteAssets *bool           `json:"allowRemoteAssets,omitempty"`
	IncludeCredits    bool            `json:"includeCredits,omitempty"`
	ThemeVariant      string          `json:"themeVariant,omitempty"`
}

// ComposeResponse carries either the page markup or an error message.
type ComposeResponse struct {
	HTML       string          `json:"html,omitempty"`
	Error      string          `json:"error,omitempty"`
	TemplateID string          `json:"templateId,omitempty"`
	Credits    []assets.Credit `json:"credits,omitempty"`
	// Overrides holds the generated content for GeneratePage responses.
	Overrides *overrides.ContentOverrides `json:"overrides,omitempty"`
}

// InspectRequest asks for a spec with its assets resolved.
type InspectRequest struct {
	TemplateID        string `json:"templateId"`
	AllowRemoteAssets *bool  `json:"allowRemoteAssets,omitempty"`
}

// GenerateRequest asks for a full draft, enhance and compose run.
type GenerateRequest struct {
	TemplateID        string                 `json:"templateId"`
	Brief             pipeline.BusinessBrief `json:"brief"`
	AllowRemoteAssets *bool                  `json:"allowRemoteAssets,omitempty"`
	IncludeCredits    bool                   `json:"includeCredits,omitempty"`
	ThemeVariant      string                 `json:"themeVariant,omitempty"`
}

// Option configures a Service.
type Option func(*Service)

// WithComposer sets the composer. Defaults to compose.New().
func WithComposer(composer *compose.Composer) Option {
	return func(s *Service) {
		s.composer = composer
	}
}

// WithGenerator sets the content generator. Defaults to a generator without
// a client, which always produces brief-derived fallback copy.
func WithGenerator(generator *pipeline.Generator) Option {
	return func(s *Service) {
		s.generator = generator
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConcurrency bounds ComposeAll. Non-positive values keep the default.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// Service serves compose, inspect and generate requests. It is safe for
// concurrent use.
type Service struct {
	composer    *compose.Composer
	generator   *pipeline.Generator
	logger      *zap.Logger
	concurrency int
}

// NewService constructs a Service, filling unset collaborators with defaults.
func NewService(options ...Option) *Service {
	s := &Service{logger: zap.NewNop(), concurrency: 4}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.composer == nil {
		s.composer = compose.New(compose.WithLogger(s.logger))
	}
	if s.generator == nil {
		s.generator = pipeline.New(nil, pipeline.WithLogger(s.logger))
	}
	return s
}

// Composer exposes the underlying composer.
func (s *Service) Composer() *compose.Composer {
	return s.composer
}

// Compose renders one page. Errors never escape: they are reported in the
// response.
func (s *Service) Compose(ctx context.Context, req ComposeRequest) ComposeResponse {
	patch, err := overrides.Parse(req.Overrides)
	if err != nil {
		return errorResponse(req.TemplateID, err)
	}
	result, err := s.composer.Compose(ctx, req.TemplateID, patch, compose.Options{
		AllowRemoteAssets: req.AllowRemoteAssets,
		IncludeCredits:    req.IncludeCredits,
		ThemeVariant:      req.ThemeVariant,
	})
	if err != nil {
		s.logger.Debug("Compose failed", zap.String("template_id", req.TemplateID), zap.Error(err))
		return errorResponse(req.TemplateID, err)
	}
	return ComposeResponse{HTML: result.HTML, TemplateID: result.TemplateID, Credits: result.Credits}
}

// Inspect returns the spec for a template with every asset resolved.
func (s *Service) Inspect(ctx context.Context, req InspectRequest) (compose.SpecView, error) {
	return s.composer.Inspect(ctx, req.TemplateID, compose.Options{AllowRemoteAssets: req.AllowRemoteAssets})
}

// GeneratePage runs draft generation, enhancement and composition in order.
// Generation problems degrade to fallback copy; only unknown templates,
// invalid briefs and render failures are reported as errors.
func (s *Service) GeneratePage(ctx context.Context, req GenerateRequest) ComposeResponse {
	logger := s.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("template_id", req.TemplateID))

	tpl, err := s.composer.Spec(req.TemplateID)
	if err != nil {
		return errorResponse(req.TemplateID, err)
	}
	brief := req.Brief.Normalized()
	if err := brief.Validate(); err != nil {
		logger.Info("Rejected brief", zap.Error(err))
		return errorResponse(req.TemplateID, err)
	}

	logger.Info("Generating draft")
	draft := s.generator.Generate(ctx, brief, tpl)
	logger.Info("Enhancing draft")
	final := s.generator.Enhance(ctx, brief, tpl, draft)

	result, err := s.composer.Compose(ctx, tpl.TemplateID, final, compose.Options{
		AllowRemoteAssets: req.AllowRemoteAssets,
		IncludeCredits:    req.IncludeCredits,
		ThemeVariant:      req.ThemeVariant,
	})
	if err != nil {
		logger.Warn("Compose failed", zap.Error(err))
		return errorResponse(req.TemplateID, err)
	}
	logger.Info("Page generated", zap.Int("sections", len(result.Sections)))
	return ComposeResponse{
		HTML:       result.HTML,
		TemplateID: result.TemplateID,
		Credits:    result.Credits,
		Overrides:  final,
	}
}

// ComposeAll composes every template in ids with default content, or every
// known template when ids is empty. It stops at the first error.
func (s *Service) ComposeAll(ctx context.Context, ids []string, opts compose.Options) (map[string]compose.Result, error) {
	if len(ids) == 0 {
		all, err := s.composer.TemplateIDs()
		if err != nil {
			return nil, err
		}
		ids = all
	}

	var (
		mu      sync.Mutex
		results = make(map[string]compose.Result, len(ids))
	)
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)
	for _, id := range ids {
		group.Go(func() error {
			result, err := s.composer.Compose(gctx, id, nil, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			results[id] = result
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("landing: compose all: %w", err)
	}
	return results, nil
}

func errorResponse(templateID string, err error) ComposeResponse {
	msg := err.Error()
	var shape *overrides.MergeShapeError
	if errors.As(err, &shape) {
		msg = "invalid overrides: " + msg
	}
	return ComposeResponse{TemplateID: templateID, Error: msg}
}
