package compose

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// ThemeCatalog resolves spec themes through a go-theme registry and
// selector. Theme names match case-insensitively.
type ThemeCatalog struct {
	registry *theme.MemoryRegistry
	selector theme.Selector

	mu    sync.RWMutex
	names map[string]string
}

var _ theme.ThemeSelector = (*ThemeCatalog)(nil)

// NewThemeCatalog registers the provided manifests.
func NewThemeCatalog(manifests ...*theme.Manifest) (*ThemeCatalog, error) {
	registry := theme.NewRegistry()
	catalog := &ThemeCatalog{
		registry: registry,
		selector: theme.Selector{Registry: registry},
		names:    make(map[string]string),
	}
	for _, manifest := range manifests {
		if err := catalog.Register(manifest); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// Register validates and stores a manifest. A later manifest with the same
// name and version replaces the earlier one.
func (c *ThemeCatalog) Register(manifest *theme.Manifest) error {
	if err := c.registry.Register(manifest); err != nil {
		name := ""
		if manifest != nil {
			name = manifest.Name
		}
		return fmt.Errorf("compose: register theme %q: %w", name, err)
	}
	c.mu.Lock()
	c.names[strings.ToLower(strings.TrimSpace(manifest.Name))] = manifest.Name
	c.mu.Unlock()
	return nil
}

// Names lists registered theme names.
func (c *ThemeCatalog) Names() []string {
	names := make([]string, 0)
	for _, ref := range c.registry.List() {
		if !slices.Contains(names, ref.Name) {
			names = append(names, ref.Name)
		}
	}
	slices.Sort(names)
	return names
}

// Select implements theme.ThemeSelector. Unknown variants fall back to the
// base tokens and report an empty variant.
func (c *ThemeCatalog) Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error) {
	c.mu.RLock()
	canonical, ok := c.names[strings.ToLower(strings.TrimSpace(name))]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("compose: theme %q not registered", name)
	}
	selection, err := c.selector.Select(canonical, strings.TrimSpace(variant), opts...)
	if err != nil {
		return nil, fmt.Errorf("compose: select theme %q: %w", name, err)
	}
	if _, ok := selection.Manifest.Variants[selection.Variant]; !ok {
		selection.Variant = ""
	}
	return selection, nil
}

// themeStylesheet returns the theme stylesheet URL, preferring the manifest
// "stylesheet" asset over the /themes/{theme}.css convention.
func themeStylesheet(themeName string, selection *theme.Selection) string {
	if selection != nil {
		if href, ok := selection.Asset("stylesheet"); ok {
			if !strings.Contains(href, "://") && !strings.HasPrefix(href, "/") {
				href = "/" + href
			}
			return href
		}
	}
	return "/themes/" + themeSlug(themeName) + ".css"
}

type cssVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// sortedCSSVars lists the selection's CSS variables by name. go-theme keys
// keep the token's dots; the shell's cssvar filter normalizes them.
func sortedCSSVars(selection *theme.Selection) []cssVar {
	if selection == nil {
		return nil
	}
	vars := selection.CSSVariables("")
	out := make([]cssVar, 0, len(vars))
	for name, value := range vars {
		if value = cssValue(value); value == "" || strings.Trim(name, "-.") == "" {
			continue
		}
		out = append(out, cssVar{Name: name, Value: value})
	}
	slices.SortFunc(out, func(a, b cssVar) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// cssValue drops characters that could close the declaration or the style
// element.
func cssValue(value string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '{', '}', ';', '\\':
			return -1
		}
		return r
	}, value))
}

func themeSlug(name string) string {
	parts := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	if len(parts) == 0 {
		return "default"
	}
	return strings.Join(parts, "-")
}

// DefaultThemes returns the manifests for the built-in template themes.
func DefaultThemes() []*theme.Manifest {
	return []*theme.Manifest{
		{
			Name:    "modern-light",
			Version: "1.0.0",
			Tokens: map[string]string{
				"color.background": "#ffffff",
				"color.surface":    "#f5f7fb",
				"color.text":       "#0f172a",
				"color.muted":      "#475569",
				"color.primary":    "#2563eb",
				"color.accent":     "#7c3aed",
				"font.body":        `"Inter", system-ui, sans-serif`,
				"font.heading":     `"Inter", system-ui, sans-serif`,
				"radius":           "12px",
			},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{
					"color.background": "#0b1120",
					"color.surface":    "#111827",
					"color.text":       "#e2e8f0",
					"color.muted":      "#94a3b8",
				}},
			},
		},
		{
			Name:    "warm-local",
			Version: "1.0.0",
			Tokens: map[string]string{
				"color.background": "#fffaf3",
				"color.surface":    "#fdf0dc",
				"color.text":       "#3b2a1a",
				"color.muted":      "#7a6250",
				"color.primary":    "#c2410c",
				"color.accent":     "#15803d",
				"font.body":        `"Source Sans 3", Georgia, serif`,
				"font.heading":     `"Merriweather", Georgia, serif`,
				"radius":           "8px",
			},
		},
		{
			Name:    "bold-dark",
			Version: "1.0.0",
			Tokens: map[string]string{
				"color.background": "#09090b",
				"color.surface":    "#18181b",
				"color.text":       "#fafafa",
				"color.muted":      "#a1a1aa",
				"color.primary":    "#f43f5e",
				"color.accent":     "#facc15",
				"font.body":        `"Space Grotesk", system-ui, sans-serif`,
				"font.heading":     `"Space Grotesk", system-ui, sans-serif`,
				"radius":           "4px",
			},
			Variants: map[string]theme.Variant{
				"light": {Tokens: map[string]string{
					"color.background": "#fafafa",
					"color.surface":    "#f4f4f5",
					"color.text":       "#09090b",
				}},
			},
		},
	}
}
