package compose

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-landing/pkg/assets"
	"github.com/goliatone/go-landing/pkg/overrides"
	"github.com/goliatone/go-landing/pkg/render/template"
	"github.com/goliatone/go-landing/pkg/render/template/gotemplate"
	"github.com/goliatone/go-landing/pkg/sections"
	"github.com/goliatone/go-landing/pkg/spec"
)

const documentTemplate = "document"

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// SpecSource provides template specs by id. *spec.Store satisfies it.
type SpecSource interface {
	Get(templateID string) (spec.TemplateSpec, bool)
	IDs() []string
}

// AssetResolver resolves logical asset ids. *assets.Resolver satisfies it.
type AssetResolver interface {
	Resolve(ctx context.Context, id string, opts assets.ResolveOptions) assets.Resolution
	AttributionsFor(ctx context.Context, ids []string) []assets.Credit
}

// Option customises the composer.
type Option func(*Composer)

// WithSpecStore sets the spec source. Defaults to the embedded templates.
func WithSpecStore(store SpecSource) Option {
	return func(c *Composer) {
		c.specs = store
	}
}

// WithRegistry sets the section registry. Defaults to
// sections.NewDefaultRegistry.
func WithRegistry(registry *sections.Registry) Option {
	return func(c *Composer) {
		c.registry = registry
	}
}

// WithResolver sets the asset resolver. Defaults to a resolver over the
// embedded manifests.
func WithResolver(resolver AssetResolver) Option {
	return func(c *Composer) {
		c.resolver = resolver
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTemplateRenderer replaces the engine used for the document shell. The
// renderer must provide a "document" template.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(c *Composer) {
		c.templates = renderer
	}
}

// WithThemeSelector sets the go-theme selector used to resolve spec.theme.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(c *Composer) {
		c.themes = selector
	}
}

// WithThemeManifests registers manifests on the default ThemeCatalog. It is
// ignored when a custom selector is configured.
func WithThemeManifests(manifests ...*theme.Manifest) Option {
	return func(c *Composer) {
		c.manifests = append(c.manifests, manifests...)
	}
}

// WithAllowRemoteAssets sets the default for Options.AllowRemoteAssets.
func WithAllowRemoteAssets(allow bool) Option {
	return func(c *Composer) {
		c.allowRemote = allow
	}
}

// WithLabeler replaces DefaultLabeler for form fields without a label.
func WithLabeler(labeler func(string) string) Option {
	return func(c *Composer) {
		if labeler != nil {
			c.labeler = labeler
		}
	}
}

// Options tune a single compose call.
type Options struct {
	// AllowRemoteAssets overrides the composer default when set. When false
	// demo assets only resolve to local fallbacks or placeholders.
	AllowRemoteAssets *bool
	// IncludeCredits appends a credit footer for demo assets in use.
	IncludeCredits bool
	// Category selects the placeholder directory; spec.category when empty.
	Category string
	// ThemeVariant selects a variant of the spec theme.
	ThemeVariant string
	// Lang is the document language; "en" when empty.
	Lang string
}

// RenderedSection records one section that made it into the page.
type RenderedSection struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
}

// Result is the composed page.
type Result struct {
	HTML       string            `json:"html"`
	TemplateID string            `json:"templateId"`
	Sections   []RenderedSection `json:"sections"`
	Credits    []assets.Credit   `json:"credits,omitempty"`
	// AssetIDs lists the effective asset ids in section order.
	AssetIDs []string `json:"assetIds,omitempty"`
}

// Composer merges a spec, optional overrides and resolved assets into the
// final page markup. It holds no per-request state.
type Composer struct {
	specs       SpecSource
	registry    *sections.Registry
	resolver    AssetResolver
	logger      *zap.Logger
	templates   template.TemplateRenderer
	themes      theme.ThemeSelector
	manifests   []*theme.Manifest
	allowRemote bool
	labeler     func(string) string

	initOnce sync.Once
	initErr  error
}

// New constructs a Composer. Missing dependencies are filled with the
// built-in implementations.
func New(options ...Option) *Composer {
	c := &Composer{
		logger:      zap.NewNop(),
		allowRemote: true,
		labeler:     DefaultLabeler,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Composer) init() error {
	c.initOnce.Do(func() {
		if c.registry == nil {
			c.registry = sections.NewDefaultRegistry()
		}
		if c.resolver == nil {
			c.resolver = assets.NewResolver(assets.WithLogger(c.logger))
		}
		if c.specs == nil {
			store, err := spec.LoadFS(spec.EmbeddedFS(), spec.WithSectionTypes(c.registry.Has))
			if err != nil {
				c.initErr = fmt.Errorf("compose: load embedded specs: %w", err)
				return
			}
			c.specs = store
		}
		if c.themes == nil {
			manifests := c.manifests
			if len(manifests) == 0 {
				manifests = DefaultThemes()
			}
			catalog, err := NewThemeCatalog(manifests...)
			if err != nil {
				c.initErr = err
				return
			}
			c.themes = catalog
		}
		if c.templates == nil {
			sub, err := fs.Sub(embeddedTemplates, "templates")
			if err != nil {
				c.initErr = fmt.Errorf("compose: templates: %w", err)
				return
			}
			engine, err := gotemplate.New(gotemplate.WithFS(sub))
			if err != nil {
				c.initErr = fmt.Errorf("compose: template engine: %w", err)
				return
			}
			c.templates = engine
		}
	})
	return c.initErr
}

// Registry exposes the section registry so callers can validate specs
// against it.
func (c *Composer) Registry() (*sections.Registry, error) {
	if err := c.init(); err != nil {
		return nil, err
	}
	return c.registry, nil
}

// TemplateIDs lists the known template ids.
func (c *Composer) TemplateIDs() ([]string, error) {
	if err := c.init(); err != nil {
		return nil, err
	}
	return c.specs.IDs(), nil
}

// Spec returns a copy of the spec registered under templateID.
func (c *Composer) Spec(templateID string) (spec.TemplateSpec, error) {
	if err := c.init(); err != nil {
		return spec.TemplateSpec{}, err
	}
	tpl, ok := c.specs.Get(templateID)
	if !ok {
		return spec.TemplateSpec{}, &UnknownTemplateError{TemplateID: templateID}
	}
	return tpl, nil
}

// Compose renders templateID with the given overrides. Unknown templates
// yield an UnknownTemplateError. Missing props and unresolvable assets
// degrade to defaults and placeholders.
func (c *Composer) Compose(ctx context.Context, templateID string, patch *overrides.ContentOverrides, opts Options) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("compose: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := c.init(); err != nil {
		return Result{}, err
	}

	tpl, ok := c.specs.Get(templateID)
	if !ok {
		return Result{}, &UnknownTemplateError{TemplateID: templateID}
	}

	assetOpts := c.assetOptions(tpl, opts)
	result := Result{TemplateID: tpl.TemplateID}
	var (
		markup   []string
		demoUsed []string
		formHTML *string
		types    []string
	)

	for idx, section := range tpl.Sections {
		entry, _ := patch.Section(idx)
		if entry.Omit {
			c.logger.Debug("Section omitted", zap.String("template_id", tpl.TemplateID), zap.Int("index", idx))
			continue
		}

		props := sections.Props(overrides.ShallowMerge(tpl.SectionProps(idx), entry.Props))
		ids := c.injectAssets(ctx, tpl, patch, props, assetOpts, opts.IncludeCredits)
		for _, res := range ids {
			result.AssetIDs = append(result.AssetIDs, res.id)
			if res.resolution.Origin == assets.OriginManifest {
				demoUsed = append(demoUsed, res.id)
			}
		}

		props[sections.RuntimeTemplateID] = tpl.TemplateID
		props[sections.RuntimeSectionIndex] = idx
		if props.Bool("formSlot", false) {
			if formHTML == nil {
				rendered := c.renderForm(tpl.TemplateID, tpl.Form, patch, props.String("buttonText", ""))
				formHTML = &rendered
			}
			props[sections.RuntimeFormHTML] = *formHTML
		}

		html, err := c.registry.Render(section.Type, props)
		if err != nil {
			return Result{}, &RenderError{TemplateID: tpl.TemplateID, Index: idx, Type: section.Type, Err: err}
		}
		markup = append(markup, html)
		types = append(types, section.Type)
		result.Sections = append(result.Sections, RenderedSection{Index: idx, Type: section.Type})
	}

	if opts.IncludeCredits && len(demoUsed) > 0 {
		result.Credits = c.resolver.AttributionsFor(ctx, demoUsed)
	}

	html, err := c.renderShell(tpl, patch, opts, markup, types, result.Credits)
	if err != nil {
		return Result{}, err
	}
	result.HTML = html
	return result, nil
}

func (c *Composer) assetOptions(tpl spec.TemplateSpec, opts Options) assets.ResolveOptions {
	allowRemote := c.allowRemote
	if opts.AllowRemoteAssets != nil {
		allowRemote = *opts.AllowRemoteAssets
	}
	category := strings.TrimSpace(opts.Category)
	if category == "" {
		category = string(tpl.Category)
	}
	return assets.ResolveOptions{Category: category, AllowRemote: allowRemote}
}

type resolvedAsset struct {
	prop       string
	key        string
	id         string
	resolution assets.Resolution
}

// injectAssets resolves every asset prop and writes the runtime fields the
// renderers read. props must be a fresh map owned by the caller.
func (c *Composer) injectAssets(ctx context.Context, tpl spec.TemplateSpec, patch *overrides.ContentOverrides, props sections.Props, base assets.ResolveOptions, credits bool) []resolvedAsset {
	keys := make([]string, 0, len(props))
	for key := range props {
		if sections.IsAssetProp(key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	var out []resolvedAsset
	for _, prop := range keys {
		logical := props.String(prop, "")
		if logical == "" {
			continue
		}
		id, fallback := effectiveAsset(tpl, patch, logical)
		opts := base
		opts.Fallback = fallback
		res := c.resolver.Resolve(ctx, id, opts)

		props[sections.RuntimeSrc(prop)] = res.Src
		if fallback != "" {
			fb := c.resolver.Resolve(ctx, fallback, assets.ResolveOptions{Category: base.Category, AllowRemote: base.AllowRemote})
			if fb.Src != res.Src {
				props[sections.RuntimeFallback(prop)] = fb.Src
			}
		}
		if alt := altText(patch, props, logical, prop); alt != "" {
			props[sections.RuntimeAlt(prop)] = alt
		}
		if credits && res.Attribution != nil {
			props[sections.RuntimeCredit(prop)] = res.Attribution.Line()
		}
		out = append(out, resolvedAsset{prop: prop, key: logical, id: id, resolution: res})
	}
	return out
}

// effectiveAsset applies the override-then-spec-then-literal rule for a
// logical asset key and returns the id with its declared fallback.
func effectiveAsset(tpl spec.TemplateSpec, patch *overrides.ContentOverrides, key string) (string, string) {
	id := key
	if value, ok := patch.Asset(key); ok {
		id = value
	} else if value := strings.TrimSpace(tpl.Assets[key]); value != "" {
		id = value
	}
	fallback := strings.TrimSpace(tpl.Assets["fallback"+upperFirst(key)+"Id"])
	return id, fallback
}

func altText(patch *overrides.ContentOverrides, props sections.Props, key, prop string) string {
	if alt := strings.TrimSpace(patch.AltText(key)); alt != "" {
		return alt
	}
	if alt := strings.TrimSpace(patch.AltText(prop)); alt != "" {
		return alt
	}
	return props.String(prop+"Alt", "")
}
