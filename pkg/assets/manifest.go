package assets

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Attribution is the credit record a demo asset carries.
type Attribution struct {
	SourcePageURL  string `json:"sourcePageUrl,omitempty"`
	Text           string `json:"attributionText,omitempty"`
	URL            string `json:"attributionUrl,omitempty"`
	LicenseSummary string `json:"licenseSummary,omitempty"`
}

// Line renders the attribution as a single human-readable credit line.
func (a Attribution) Line() string {
	parts := make([]string, 0, 2)
	if text := strings.TrimSpace(a.Text); text != "" {
		parts = append(parts, text)
	}
	if license := strings.TrimSpace(a.LicenseSummary); license != "" {
		parts = append(parts, license)
	}
	return strings.Join(parts, " · ")
}

// Entry is one manifest record.
type Entry struct {
	Role            string `json:"role"`
	URL             string `json:"url"`
	SourcePageURL   string `json:"sourcePageUrl,omitempty"`
	AttributionText string `json:"attributionText,omitempty"`
	AttributionURL  string `json:"attributionUrl,omitempty"`
	LicenseSummary  string `json:"licenseSummary,omitempty"`
}

// Attribution returns the entry credit, or nil when the entry carries none.
func (e Entry) Attribution() *Attribution {
	if e.SourcePageURL == "" && e.AttributionText == "" && e.AttributionURL == "" && e.LicenseSummary == "" {
		return nil
	}
	return &Attribution{
		SourcePageURL:  e.SourcePageURL,
		Text:           e.AttributionText,
		URL:            e.AttributionURL,
		LicenseSummary: e.LicenseSummary,
	}
}

// Manifest maps full demo asset ids to their records for one style.
type Manifest struct {
	StyleID string
	Assets  map[string]Entry
}

// Lookup returns the entry for a full demo id.
func (m Manifest) Lookup(id string) (Entry, bool) {
	entry, ok := m.Assets[strings.TrimSpace(id)]
	if !ok || strings.TrimSpace(entry.URL) == "" {
		return Entry{}, false
	}
	return entry, true
}

// DecodeManifest parses a manifest document. Both the wrapped form
// {"assets": {...}} and a bare id-to-entry map are accepted.
func DecodeManifest(styleID string, data []byte) (Manifest, error) {
	var wrapped struct {
		Assets map[string]Entry `json:"assets"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Assets != nil {
		return Manifest{StyleID: styleID, Assets: wrapped.Assets}, nil
	}

	var bare map[string]Entry
	if err := json.Unmarshal(data, &bare); err != nil {
		return Manifest{}, fmt.Errorf("assets: decode manifest %q: %w", styleID, err)
	}
	if bare == nil {
		bare = map[string]Entry{}
	}
	return Manifest{StyleID: styleID, Assets: bare}, nil
}
