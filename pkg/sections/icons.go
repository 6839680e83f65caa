package sections

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sahilm/fuzzy"
)

// DefaultIcon is used when an icon name cannot be matched to the vocabulary.
const DefaultIcon = "check"

const iconSVGOpen = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" width="24" height="24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true" focusable="false">`

var (
	iconMu    sync.RWMutex
	iconPaths = map[string]string{
		"check":    `<polyline points="20 6 9 17 4 12"></polyline>`,
		"star":     `<polygon points="12 2 15.09 8.26 22 9.27 17 14.14 18.18 21.02 12 17.77 5.82 21.02 7 14.14 2 9.27 8.91 8.26 12 2"></polygon>`,
		"shield":   `<path d="M12 22s8-4 8-10V5l-8-3-8 3v7c0 6 8 10 8 10z"></path>`,
		"clock":    `<circle cx="12" cy="12" r="10"></circle><polyline points="12 6 12 12 16 14"></polyline>`,
		"bolt":     `<polygon points="13 2 3 14 12 14 11 22 21 10 12 10 13 2"></polygon>`,
		"heart":    `<path d="M20.8 4.6a5.5 5.5 0 0 0-7.8 0L12 5.7l-1-1.1a5.5 5.5 0 0 0-7.8 7.8L12 21.2l8.8-8.8a5.5 5.5 0 0 0 0-7.8z"></path>`,
		"chart":    `<line x1="18" y1="20" x2="18" y2="10"></line><line x1="12" y1="20" x2="12" y2="4"></line><line x1="6" y1="20" x2="6" y2="14"></line>`,
		"users":    `<path d="M17 21v-2a4 4 0 0 0-4-4H5a4 4 0 0 0-4 4v2"></path><circle cx="9" cy="7" r="4"></circle><path d="M23 21v-2a4 4 0 0 0-3-3.9"></path>`,
		"phone":    `<path d="M22 16.9v3a2 2 0 0 1-2.2 2 19.8 19.8 0 0 1-8.6-3.1 19.5 19.5 0 0 1-6-6A19.8 19.8 0 0 1 2.1 4.2 2 2 0 0 1 4.1 2h3a2 2 0 0 1 2 1.7c.1.9.4 1.8.7 2.7a2 2 0 0 1-.5 2.1L8 9.8a16 16 0 0 0 6 6l1.3-1.3a2 2 0 0 1 2.1-.4c.9.3 1.8.6 2.7.7a2 2 0 0 1 1.7 2z"></path>`,
		"mail":     `<rect x="2" y="4" width="20" height="16" rx="2"></rect><polyline points="22 6 12 13 2 6"></polyline>`,
		"map-pin":  `<path d="M21 10c0 7-9 13-9 13s-9-6-9-13a9 9 0 0 1 18 0z"></path><circle cx="12" cy="10" r="3"></circle>`,
		"sparkles": `<path d="M12 3l1.9 5.1L19 10l-5.1 1.9L12 17l-1.9-5.1L5 10l5.1-1.9z"></path>`,
		"rocket":   `<path d="M4.5 16.5c-1.5 1.3-2 5-2 5s3.7-.5 5-2c.7-.8.7-2.1-.1-2.9a2.2 2.2 0 0 0-2.9-.1z"></path><path d="M12 15l-3-3a22 22 0 0 1 2-3.9A12.9 12.9 0 0 1 22 2c0 2.7-.8 7.5-6 11a22.4 22.4 0 0 1-4 2z"></path>`,
		"award":    `<circle cx="12" cy="8" r="7"></circle><polyline points="8.2 13.9 7 23 12 20 17 23 15.8 13.9"></polyline>`,
		"leaf":     `<path d="M11 20A7 7 0 0 1 9.8 6.1C15.5 5 17 4.5 19 2c1 2 2 4.2 2 8 0 5.5-4.8 10-10 10z"></path><path d="M2 21c0-3 1.9-5.4 5.1-6"></path>`,
		"tool":     `<path d="M14.7 6.3a1 1 0 0 0 0 1.4l1.6 1.6a1 1 0 0 0 1.4 0l3.8-3.8a6 6 0 0 1-7.9 7.9l-6.9 6.9a2.1 2.1 0 0 1-3-3l6.9-6.9a6 6 0 0 1 7.9-7.9l-3.8 3.8z"></path>`,
	}
	iconAliases = map[string]string{
		"checkmark": "check",
		"tick":      "check",
		"security":  "shield",
		"secure":    "shield",
		"lock":      "shield",
		"time":      "clock",
		"fast":      "bolt",
		"speed":     "bolt",
		"lightning": "bolt",
		"love":      "heart",
		"growth":    "chart",
		"analytics": "chart",
		"team":      "users",
		"people":    "users",
		"community": "users",
		"call":      "phone",
		"email":     "mail",
		"location":  "map-pin",
		"pin":       "map-pin",
		"magic":     "sparkles",
		"launch":    "rocket",
		"trophy":    "award",
		"quality":   "award",
		"eco":       "leaf",
		"wrench":    "tool",
		"repair":    "tool",
	}
	iconPolicyOnce sync.Once
	iconPolicy     *bluemonday.Policy
)

// Icons returns the icon vocabulary, sorted.
func Icons() []string {
	iconMu.RLock()
	defer iconMu.RUnlock()
	names := make([]string, 0, len(iconPaths))
	for name := range iconPaths {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NormalizeIcon maps an arbitrary icon name onto the vocabulary. Exact names
// and known aliases win, then the closest fuzzy match, then a vocabulary word
// contained in the name. Anything else becomes DefaultIcon.
func NormalizeIcon(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "_", "-")
	if key == "" {
		return DefaultIcon
	}

	vocabulary := Icons()
	if slices.Contains(vocabulary, key) {
		return key
	}
	if alias, ok := iconAliases[key]; ok {
		return alias
	}
	if matches := fuzzy.Find(key, vocabulary); len(matches) > 0 {
		return matches[0].Str
	}
	for _, candidate := range vocabulary {
		if strings.Contains(key, candidate) {
			return candidate
		}
	}
	for alias, target := range iconAliases {
		if strings.Contains(key, alias) {
			return target
		}
	}
	return DefaultIcon
}

// RegisterIcon adds or replaces an icon using raw SVG markup. The markup is
// sanitised and only the inner shapes are kept.
func RegisterIcon(name, svg string) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return fmt.Errorf("sections: icon name is required")
	}
	cleaned := sanitizeIconMarkup(svg)
	if cleaned == "" {
		return fmt.Errorf("sections: icon %q has no usable markup", key)
	}
	cleaned = stripSVGWrapper(cleaned)

	iconMu.Lock()
	defer iconMu.Unlock()
	iconPaths[key] = cleaned
	return nil
}

// IconSVG returns the inline SVG for an icon name, normalising it first.
func IconSVG(name string) string {
	key := NormalizeIcon(name)
	iconMu.RLock()
	paths := iconPaths[key]
	iconMu.RUnlock()
	return iconSVGOpen + paths + `</svg>`
}

func stripSVGWrapper(markup string) string {
	trimmed := strings.TrimSpace(markup)
	if !strings.HasPrefix(trimmed, "<svg") {
		return trimmed
	}
	if end := strings.Index(trimmed, ">"); end >= 0 {
		trimmed = trimmed[end+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "</svg>")
	return strings.TrimSpace(trimmed)
}

func sanitizeIconMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(iconSanitizer().Sanitize(trimmed))
}

func iconSanitizer() *bluemonday.Policy {
	iconPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements(
			"svg", "g", "path", "circle", "rect", "line", "polyline", "polygon", "ellipse",
		)
		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke", "stroke-width",
			"stroke-linecap", "stroke-linejoin", "aria-hidden", "focusable",
		).OnElements("svg")
		for _, el := range []string{"path", "circle", "rect", "line", "polyline", "polygon", "ellipse"} {
			policy.AllowAttrs(
				"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
				"points", "rx", "ry", "fill", "stroke", "stroke-width",
			).OnElements(el)
		}
		iconPolicy = policy
	})
	return iconPolicy
}
