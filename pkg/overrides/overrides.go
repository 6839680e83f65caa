// Package overrides models the per-request content patch applied on top of a
// template spec and the shallow merge used to apply it.
package overrides

import (
	"encoding/json"
	"maps"
	"strings"
)

// OmitKey marks a section override that removes the section entirely.
const OmitKey = "_omit"

// RuntimePrefix marks prop keys the composer injects at render time. Override
// props never carry them.
const RuntimePrefix = "_"

// ContentOverrides is the per-request patch produced by the generation
// pipeline or supplied by a caller.
type ContentOverrides struct {
	// Sections is aligned by index with the spec sections. Entries beyond the
	// spec length are ignored.
	Sections      []SectionOverride        `json:"sections,omitempty"`
	Assets        map[string]string        `json:"assets,omitempty"`
	Meta          Meta                     `json:"meta,omitzero"`
	FormOverrides map[string]FieldOverride `json:"formOverrides,omitempty"`
	// ImageHints carries free-text image search hints per asset slot for any
	// downstream image sourcing step. The composer ignores them.
	ImageHints map[string]string `json:"imageHints,omitempty"`
}

// Meta overrides page level metadata.
type Meta struct {
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Tagline     string            `json:"tagline,omitempty"`
	AltText     map[string]string `json:"altText,omitempty"`
}

// IsZero reports whether no metadata is set.
func (m Meta) IsZero() bool {
	return m.Title == "" && m.Description == "" && m.Tagline == "" && len(m.AltText) == 0
}

// FieldOverride relabels a form field.
type FieldOverride struct {
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// SectionOverride is one entry of ContentOverrides.Sections. The zero value
// means "no override" and encodes as JSON null.
type SectionOverride struct {
	Omit  bool
	Props map[string]any
}

// IsZero reports whether the entry leaves the section untouched.
func (s SectionOverride) IsZero() bool {
	return !s.Omit && s.Props == nil
}

// MarshalJSON encodes the entry as null, an omission marker, or a props object.
func (s SectionOverride) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return []byte("null"), nil
	}
	payload := make(map[string]any, len(s.Props)+1)
	maps.Copy(payload, s.Props)
	if s.Omit {
		payload[OmitKey] = true
	}
	return json.Marshal(payload)
}

// UnmarshalJSON decodes an entry using the same rules as Parse.
func (s *SectionOverride) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := parseSection(raw, "/sections/0")
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Section returns the override for index i. Indexes beyond the slice report
// false, as do null entries.
func (o *ContentOverrides) Section(i int) (SectionOverride, bool) {
	if o == nil || i < 0 || i >= len(o.Sections) {
		return SectionOverride{}, false
	}
	entry := o.Sections[i]
	return entry, !entry.IsZero()
}

// SetSection stores props for index i, growing Sections with null entries.
func (o *ContentOverrides) SetSection(i int, props map[string]any) {
	o.grow(i)
	o.Sections[i] = SectionOverride{Omit: o.Sections[i].Omit, Props: props}
}

// OmitSection marks index i as omitted, keeping any props already present.
func (o *ContentOverrides) OmitSection(i int) {
	o.grow(i)
	o.Sections[i].Omit = true
}

func (o *ContentOverrides) grow(i int) {
	if i < 0 {
		return
	}
	for len(o.Sections) <= i {
		o.Sections = append(o.Sections, SectionOverride{})
	}
}

// AltText returns the alt text override for an asset key.
func (o *ContentOverrides) AltText(key string) string {
	if o == nil {
		return ""
	}
	return o.Meta.AltText[key]
}

// Asset returns the asset override for a logical key.
func (o *ContentOverrides) Asset(key string) (string, bool) {
	if o == nil {
		return "", false
	}
	value, ok := o.Assets[key]
	return value, ok && value != ""
}

// Field returns the form override for a field name.
func (o *ContentOverrides) Field(name string) (FieldOverride, bool) {
	if o == nil {
		return FieldOverride{}, false
	}
	field, ok := o.FormOverrides[name]
	return field, ok
}

// Clone returns a deep copy. Section props are copied recursively so the
// clone can be edited without touching the original.
func (o *ContentOverrides) Clone() *ContentOverrides {
	if o == nil {
		return nil
	}
	out := &ContentOverrides{
		Assets:        maps.Clone(o.Assets),
		FormOverrides: maps.Clone(o.FormOverrides),
		ImageHints:    maps.Clone(o.ImageHints),
		Meta: Meta{
			Title:       o.Meta.Title,
			Description: o.Meta.Description,
			Tagline:     o.Meta.Tagline,
			AltText:     maps.Clone(o.Meta.AltText),
		},
	}
	if o.Sections != nil {
		out.Sections = make([]SectionOverride, len(o.Sections))
		for idx, entry := range o.Sections {
			out.Sections[idx] = SectionOverride{Omit: entry.Omit, Props: deepCopyMap(entry.Props)}
		}
	}
	return out
}

// ShallowMerge returns a new map holding defaults with every key of override
// replacing the default of the same name. Lists and nested objects are
// replaced wholesale, never combined. Override keys with RuntimePrefix are
// dropped. Neither input is modified.
func ShallowMerge(defaults, override map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(override))
	for key, value := range defaults {
		merged[key] = value
	}
	for key, value := range override {
		if strings.HasPrefix(key, RuntimePrefix) {
			continue
		}
		merged[key] = value
	}
	return merged
}

func deepCopyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = deepCopyValue(value)
	}
	return out
}

func deepCopyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return deepCopyMap(v)
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = deepCopyValue(item)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}
