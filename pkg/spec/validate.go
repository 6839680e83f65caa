package spec

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationResult reports every problem found in a spec document. Valid is
// true iff Errors is empty.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateOption customises validation.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	sectionTypes func(string) bool
}

// WithSectionTypes supplies the lookup used to check that every section type
// has a registered renderer. Typically sections.Registry.Has.
func WithSectionTypes(known func(string) bool) ValidateOption {
	return func(cfg *validateConfig) {
		cfg.sectionTypes = known
	}
}

// Validate checks a decoded spec document (the generic value produced by JSON
// or YAML decoding) and collects every violation instead of stopping at the
// first one. It never panics on malformed input.
func Validate(raw any, options ...ValidateOption) ValidationResult {
	cfg := validateConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	v := &collector{}
	doc, ok := raw.(map[string]any)
	if !ok {
		v.add("spec: must be an object")
		return v.result()
	}

	for _, key := range []string{"templateId", "version", "theme"} {
		requireString(v, doc, key, key)
	}

	if value, ok := requireString(v, doc, "category", "category"); ok && !Category(value).Valid() {
		v.addf("category: %q is not one of %s", value, joinEnum(knownCategories))
	}
	if value, ok := requireString(v, doc, "goal", "goal"); ok && !Goal(value).Valid() {
		v.addf("goal: %q is not one of %s", value, joinEnum(knownGoals))
	}

	validateSections(v, doc["sections"], cfg)
	validateAssets(v, doc["assets"])
	validateForm(v, doc["form"])
	validateMetadata(v, doc["metadata"])

	return v.result()
}

// ValidateSpec validates an already typed spec by round-tripping it through
// its JSON representation.
func ValidateSpec(s TemplateSpec, options ...ValidateOption) ValidationResult {
	payload, err := json.Marshal(s)
	if err != nil {
		return ValidationResult{Errors: []string{fmt.Sprintf("spec: encode: %v", err)}}
	}
	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return ValidationResult{Errors: []string{fmt.Sprintf("spec: decode: %v", err)}}
	}
	return Validate(raw, options...)
}

func validateSections(v *collector, value any, cfg validateConfig) {
	if value == nil {
		v.add("sections: required list")
		return
	}
	items, ok := value.([]any)
	if !ok {
		v.add("sections: must be a list")
		return
	}
	if len(items) == 0 {
		v.add("sections: must contain at least one section")
		return
	}
	for idx, item := range items {
		path := fmt.Sprintf("sections[%d]", idx)
		section, ok := item.(map[string]any)
		if !ok {
			v.addf("%s: must be an object", path)
			continue
		}
		sectionType, ok := section["type"].(string)
		switch {
		case !ok:
			v.addf("%s.type: must be a string", path)
		case strings.TrimSpace(sectionType) == "":
			v.addf("%s.type: must not be empty", path)
		case cfg.sectionTypes != nil && !cfg.sectionTypes(sectionType):
			v.addf("%s.type: no renderer registered for %q", path, sectionType)
		}
		if _, ok := section["props"].(map[string]any); !ok {
			v.addf("%s.props: must be an object", path)
		}
	}
}

func validateAssets(v *collector, value any) {
	if value == nil {
		v.add("assets: required object")
		return
	}
	assets, ok := value.(map[string]any)
	if !ok {
		v.add("assets: must be an object")
		return
	}
	for _, key := range sortedKeys(assets) {
		if _, ok := assets[key].(string); !ok {
			v.addf("assets.%s: must be a string", key)
		}
	}
}

func validateForm(v *collector, value any) {
	if value == nil {
		v.add("form: required list")
		return
	}
	items, ok := value.([]any)
	if !ok {
		v.add("form: must be a list")
		return
	}
	for idx, item := range items {
		path := fmt.Sprintf("form[%d]", idx)
		field, ok := item.(map[string]any)
		if !ok {
			v.addf("%s: must be an object", path)
			continue
		}
		requireString(v, field, "name", path+".name")
		requireString(v, field, "type", path+".type")
		if _, ok := field["required"].(bool); !ok {
			v.addf("%s.required: must be a boolean", path)
		}
		for _, key := range []string{"label", "placeholder"} {
			if raw, present := field[key]; present && raw != nil {
				if _, ok := raw.(string); !ok {
					v.addf("%s.%s: must be a string", path, key)
				}
			}
		}
		if raw, present := field["options"]; present && raw != nil {
			opts, ok := raw.([]any)
			if !ok {
				v.addf("%s.options: must be a list", path)
				continue
			}
			for optIdx, opt := range opts {
				if _, ok := opt.(string); !ok {
					v.addf("%s.options[%d]: must be a string", path, optIdx)
				}
			}
		}
	}
}

func validateMetadata(v *collector, value any) {
	if value == nil {
		v.add("metadata: required object")
		return
	}
	meta, ok := value.(map[string]any)
	if !ok {
		v.add("metadata: must be an object")
		return
	}
	if _, ok := meta["name"].(string); !ok {
		v.add("metadata.name: must be a string")
	}
	if _, ok := meta["description"].(string); !ok {
		v.add("metadata.description: must be a string")
	}
	if _, ok := meta["tags"].([]any); !ok {
		v.add("metadata.tags: must be a list")
	}
}

func requireString(v *collector, doc map[string]any, key, path string) (string, bool) {
	raw, present := doc[key]
	if !present || raw == nil {
		v.addf("%s: required string", path)
		return "", false
	}
	value, ok := raw.(string)
	if !ok {
		v.addf("%s: must be a string", path)
		return "", false
	}
	if strings.TrimSpace(value) == "" {
		v.addf("%s: must not be empty", path)
		return "", false
	}
	return value, true
}

type collector struct {
	errors []string
}

func (c *collector) add(msg string) {
	c.errors = append(c.errors, msg)
}

func (c *collector) addf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *collector) result() ValidationResult {
	return ValidationResult{Valid: len(c.errors) == 0, Errors: c.errors}
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for idx, value := range values {
		parts[idx] = string(value)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
