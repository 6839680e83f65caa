package assets

import "strings"

// DemoPrefix marks an asset identifier that must be resolved through a
// style manifest.
const DemoPrefix = "demo-"

// DemoID is a decoded demo asset identifier of the form
// demo-{styleId}-{role}-{seq}. The style id may itself contain dashes.
type DemoID struct {
	Raw     string
	StyleID string
	Role    string
	Seq     string
}

// IsDemoID reports whether id uses the reserved demo prefix. It does not
// check that the identifier is well formed.
func IsDemoID(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), DemoPrefix)
}

// ParseDemoID decodes a demo identifier. Identifiers with fewer than four
// dash-separated segments, or with any empty segment, are malformed.
func ParseDemoID(id string) (DemoID, bool) {
	id = strings.TrimSpace(id)
	if !IsDemoID(id) {
		return DemoID{}, false
	}
	parts := strings.Split(id, "-")
	if len(parts) < 4 {
		return DemoID{}, false
	}
	for _, part := range parts {
		if part == "" {
			return DemoID{}, false
		}
	}
	n := len(parts)
	return DemoID{
		Raw:     id,
		StyleID: strings.Join(parts[1:n-2], "-"),
		Role:    parts[n-2],
		Seq:     parts[n-1],
	}, true
}
