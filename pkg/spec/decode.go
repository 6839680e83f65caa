package spec

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidationError is returned when a spec document fails validation at load
// time. It carries every violation found.
type ValidationError struct {
	TemplateID string
	Source     string
	Errors     []string
}

func (e *ValidationError) Error() string {
	subject := e.TemplateID
	if subject == "" {
		subject = e.Source
	}
	return fmt.Sprintf("spec: %s is invalid: %s", subject, strings.Join(e.Errors, "; "))
}

// Decode parses a JSON or YAML spec document, validates it and returns the
// typed spec. Validation failures are reported as *ValidationError.
func Decode(data []byte, source string, options ...ValidateOption) (TemplateSpec, error) {
	raw, err := parseRaw(data, source)
	if err != nil {
		return TemplateSpec{}, err
	}

	result := Validate(raw, options...)
	if !result.Valid {
		id, _ := raw.(map[string]any)["templateId"].(string)
		return TemplateSpec{}, &ValidationError{TemplateID: id, Source: source, Errors: result.Errors}
	}

	payload, err := json.Marshal(raw)
	if err != nil {
		return TemplateSpec{}, fmt.Errorf("spec: encode %s: %w", source, err)
	}
	var out TemplateSpec
	if err := json.Unmarshal(payload, &out); err != nil {
		return TemplateSpec{}, fmt.Errorf("spec: decode %s: %w", source, err)
	}
	return out, nil
}

func parseRaw(data []byte, source string) (any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("spec: file %s is empty", source)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err == nil {
		return raw, nil
	}

	raw = nil
	if err := yaml.Unmarshal(data, &raw); err == nil {
		if _, ok := raw.(map[string]any); ok {
			return raw, nil
		}
	}

	return nil, fmt.Errorf("spec: parse %s: invalid JSON or YAML", source)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
