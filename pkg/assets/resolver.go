package assets

import (
	"context"
	"embed"
	"io/fs"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed manifests/*.json
var embeddedManifests embed.FS

// EmbeddedSource serves the manifests compiled into the binary.
func EmbeddedSource() Source {
	sub, err := fs.Sub(embeddedManifests, "manifests")
	if err != nil {
		panic(err)
	}
	return NewFSSource("embedded", sub)
}

// DefaultPlaceholderPrefix is where local placeholder images live.
const DefaultPlaceholderPrefix = "/assets/placeholders"

// Origin records which step of the resolution chain produced a source.
type Origin string

const (
	OriginLiteral     Origin = "literal"
	OriginManifest    Origin = "manifest"
	OriginFallback    Origin = "fallback"
	OriginPlaceholder Origin = "placeholder"
)

// Resolution is the outcome of resolving one asset id. Src is never empty.
type Resolution struct {
	Src         string       `json:"src"`
	Attribution *Attribution `json:"attribution,omitempty"`
	Origin      Origin       `json:"origin"`
}

// ResolveOptions tunes a single resolution.
type ResolveOptions struct {
	// Fallback is used when a demo id cannot be resolved.
	Fallback string
	// Category selects the placeholder directory; "generic" when empty.
	Category string
	// AllowRemote permits remote demo URLs. When false a demo id only ever
	// yields a local fallback or placeholder.
	AllowRemote bool
}

// Credit pairs a demo asset id with its attribution.
type Credit struct {
	AssetID string `json:"assetId"`
	Attribution
}

// manifestCache is shared by every resolver for the life of the process.
// Entries are keyed by source|styleId and populated on miss; concurrent
// first loads store equivalent values.
var manifestCache sync.Map

// Option configures a Resolver.
type Option func(*Resolver)

// WithSource sets the manifest source. Defaults to EmbeddedSource.
func WithSource(source Source) Option {
	return func(r *Resolver) {
		if source != nil {
			r.source = source
		}
	}
}

// WithLogger sets the logger used to report degraded resolutions.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPlaceholderPrefix overrides DefaultPlaceholderPrefix.
func WithPlaceholderPrefix(prefix string) Option {
	return func(r *Resolver) {
		if trimmed := strings.TrimRight(strings.TrimSpace(prefix), "/"); trimmed != "" {
			r.placeholderPrefix = trimmed
		}
	}
}

// Resolver turns logical asset identifiers into concrete URLs. It never
// returns an error; failures degrade along the fallback chain.
type Resolver struct {
	source            Source
	logger            *zap.Logger
	placeholderPrefix string
}

// NewResolver constructs a Resolver.
func NewResolver(options ...Option) *Resolver {
	r := &Resolver{
		logger:            zap.NewNop(),
		placeholderPrefix: DefaultPlaceholderPrefix,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.source == nil {
		r.source = EmbeddedSource()
	}
	return r
}

// Resolve maps id to a concrete source. Non-demo ids pass through unchanged.
// Demo ids are looked up in their style manifest, then fall back to
// opts.Fallback, then to a deterministic placeholder path.
func (r *Resolver) Resolve(ctx context.Context, id string, opts ResolveOptions) Resolution {
	id = strings.TrimSpace(id)
	if id == "" {
		return r.fallback(ctx, "", DemoID{}, false, opts)
	}
	if !IsDemoID(id) {
		return Resolution{Src: id, Origin: OriginLiteral}
	}

	demo, ok := ParseDemoID(id)
	if !ok {
		r.logger.Debug("Malformed demo asset id", zap.String("asset_id", id))
		return r.fallback(ctx, id, DemoID{}, false, opts)
	}
	if !opts.AllowRemote {
		return r.fallback(ctx, id, demo, true, opts)
	}

	manifest, ok := r.manifest(ctx, demo.StyleID)
	if !ok {
		return r.fallback(ctx, id, demo, true, opts)
	}
	entry, ok := manifest.Lookup(id)
	if !ok {
		r.logger.Debug("Demo asset missing from manifest",
			zap.String("asset_id", id),
			zap.String("style_id", demo.StyleID))
		return r.fallback(ctx, id, demo, true, opts)
	}
	return Resolution{Src: entry.URL, Attribution: entry.Attribution(), Origin: OriginManifest}
}

// AttributionsFor returns the credits for every resolvable demo id in ids,
// deduplicated and in input order. Non-demo and unresolvable ids are skipped.
func (r *Resolver) AttributionsFor(ctx context.Context, ids []string) []Credit {
	seen := make(map[string]struct{}, len(ids))
	var credits []Credit
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		demo, ok := ParseDemoID(id)
		if !ok {
			continue
		}
		manifest, ok := r.manifest(ctx, demo.StyleID)
		if !ok {
			continue
		}
		entry, ok := manifest.Lookup(id)
		if !ok {
			continue
		}
		if attribution := entry.Attribution(); attribution != nil {
			credits = append(credits, Credit{AssetID: id, Attribution: *attribution})
		}
	}
	return credits
}

// Warm loads the manifests for the given style ids concurrently. It returns
// the first load error; successfully loaded manifests stay cached either way.
func (r *Resolver) Warm(ctx context.Context, styleIDs []string) error {
	group, gctx := errgroup.WithContext(ctx)
	for _, styleID := range styleIDs {
		group.Go(func() error {
			_, err := r.loadManifest(gctx, styleID)
			return err
		})
	}
	return group.Wait()
}

// Placeholder returns the deterministic local placeholder path for id.
func (r *Resolver) Placeholder(id, category string) string {
	category = sanitizeSegment(category)
	if category == "" {
		category = "generic"
	}
	name := ""
	if demo, ok := ParseDemoID(id); ok {
		name = sanitizeSegment(demo.Role)
	}
	if name == "" {
		name = sanitizeSegment(id)
	}
	if name == "" {
		name = "asset"
	}
	return r.placeholderPrefix + "/" + category + "/" + name + ".svg"
}

func (r *Resolver) fallback(ctx context.Context, id string, demo DemoID, parsed bool, opts ResolveOptions) Resolution {
	if fallback := strings.TrimSpace(opts.Fallback); fallback != "" && fallback != id {
		switch {
		case IsDemoID(fallback):
			return r.Resolve(ctx, fallback, ResolveOptions{Category: opts.Category, AllowRemote: opts.AllowRemote})
		case opts.AllowRemote || isLocalPath(fallback):
			return Resolution{Src: fallback, Origin: OriginFallback}
		}
	}
	name := id
	if parsed {
		name = demo.Raw
	}
	return Resolution{Src: r.Placeholder(name, opts.Category), Origin: OriginPlaceholder}
}

func (r *Resolver) manifest(ctx context.Context, styleID string) (Manifest, bool) {
	manifest, err := r.loadManifest(ctx, styleID)
	if err != nil {
		r.logger.Warn("Demo manifest unavailable",
			zap.String("style_id", styleID),
			zap.String("source", r.source.Name()),
			zap.Error(err))
		return Manifest{}, false
	}
	return manifest, true
}

func (r *Resolver) loadManifest(ctx context.Context, styleID string) (Manifest, error) {
	key := r.source.Name() + "|" + styleID
	if cached, ok := manifestCache.Load(key); ok {
		return cached.(Manifest), nil
	}
	data, err := r.source.Load(ctx, styleID)
	if err != nil {
		return Manifest{}, err
	}
	manifest, err := DecodeManifest(styleID, data)
	if err != nil {
		return Manifest{}, err
	}
	manifestCache.Store(key, manifest)
	return manifest, nil
}

func isLocalPath(src string) bool {
	lower := strings.ToLower(src)
	if strings.HasPrefix(lower, "//") {
		return false
	}
	return !strings.Contains(lower, "://") && !strings.HasPrefix(lower, "data:")
}

func sanitizeSegment(raw string) string {
	var builder strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
			lastDash = false
		case !lastDash && builder.Len() > 0:
			builder.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(builder.String(), "-")
}
