package sections

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Props is the effective property bag handed to a renderer. Every accessor
// returns the supplied default when the key is missing or has the wrong type.
type Props map[string]any

// Runtime field names injected by the composer.
const (
	RuntimeFormHTML     = "_formHtml"
	RuntimeTemplateID   = "_templateId"
	RuntimeSectionIndex = "_sectionIndex"
)

// RuntimeSrc names the runtime field carrying the resolved URL for prop.
func RuntimeSrc(prop string) string { return "_" + prop + "Src" }

// RuntimeFallback names the runtime field carrying the fallback URL for prop.
func RuntimeFallback(prop string) string { return "_" + prop + "FallbackSrc" }

// RuntimeAlt names the runtime field carrying alt text for prop.
func RuntimeAlt(prop string) string { return "_" + prop + "Alt" }

// RuntimeCredit names the runtime field carrying the attribution line for prop.
func RuntimeCredit(prop string) string { return "_" + prop + "Credit" }

// IsAssetProp reports whether a prop key references an asset by convention.
func IsAssetProp(key string) bool {
	if strings.HasPrefix(key, "_") {
		return false
	}
	return strings.HasSuffix(key, "Asset") || strings.HasSuffix(key, "Image")
}

// String returns a trimmed string prop. Numbers and booleans are formatted.
func (p Props) String(key, def string) string {
	switch v := p[key].(type) {
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	}
	return def
}

// Bool returns a boolean prop, accepting "true"/"false" strings.
func (p Props) Bool(key string, def bool) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return def
}

// Int returns an integer prop, rounding floats and parsing numeric strings.
func (p Props) Int(key string, def int) int {
	if value, ok := ToInt(p[key]); ok {
		return value
	}
	return def
}

// List returns a list prop. Typed string slices are widened to []any.
func (p Props) List(key string) []any {
	switch v := p[key].(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = item
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = item
		}
		return out
	}
	return nil
}

// Strings returns the non-empty string items of a list prop.
func (p Props) Strings(key string) []string {
	var out []string
	for _, item := range p.List(key) {
		if s, ok := item.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// Items returns the object items of a list prop as Props.
func (p Props) Items(key string) []Props {
	var out []Props
	for _, item := range p.List(key) {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Props(m))
		}
	}
	return out
}

// ToInt converts loosely typed numeric values.
func ToInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(math.Round(v)), true
	case float32:
		return int(math.Round(float64(v))), true
	case json.Number:
		if n, err := v.Float64(); err == nil {
			return int(math.Round(n)), true
		}
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return int(math.Round(n)), true
		}
	}
	return 0, false
}

// ClampRating bounds a rating to [1,5].
func ClampRating(value int) int {
	switch {
	case value < 1:
		return 1
	case value > 5:
		return 5
	default:
		return value
	}
}

func stringOf(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
