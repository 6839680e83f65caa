package overrides

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MergeShapeError reports an overrides document that does not follow the
// documented shape. Path is a JSON pointer to the offending value.
type MergeShapeError struct {
	Path   string
	Reason string
}

func (e *MergeShapeError) Error() string {
	return fmt.Sprintf("overrides: %s: %s", e.Path, e.Reason)
}

func shapeError(path, format string, args ...any) *MergeShapeError {
	return &MergeShapeError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Parse decodes an overrides document. Empty input and JSON null yield nil
// overrides. Unknown top-level keys are ignored; known keys with the wrong
// shape produce a *MergeShapeError.
func Parse(data []byte) (*ContentOverrides, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, shapeError("/", "invalid JSON: %v", err)
	}
	return FromValue(raw)
}

// FromValue converts an already decoded generic document into overrides
// using the same rules as Parse.
func FromValue(raw any) (*ContentOverrides, error) {
	if raw == nil {
		return nil, nil
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, shapeError("/", "must be an object")
	}

	out := &ContentOverrides{}
	if value, present := doc["sections"]; present && value != nil {
		items, ok := value.([]any)
		if !ok {
			return nil, shapeError("/sections", "must be an array")
		}
		out.Sections = make([]SectionOverride, len(items))
		for idx, item := range items {
			entry, err := parseSection(item, "/sections/"+strconv.Itoa(idx))
			if err != nil {
				return nil, err
			}
			out.Sections[idx] = entry
		}
	}

	var err error
	if out.Assets, err = stringMap(doc["assets"], "/assets"); err != nil {
		return nil, err
	}
	if out.ImageHints, err = stringMap(doc["imageHints"], "/imageHints"); err != nil {
		return nil, err
	}
	if out.Meta, err = parseMeta(doc["meta"]); err != nil {
		return nil, err
	}
	if out.FormOverrides, err = parseFormOverrides(doc["formOverrides"]); err != nil {
		return nil, err
	}
	return out, nil
}

func parseSection(item any, path string) (SectionOverride, error) {
	if item == nil {
		return SectionOverride{}, nil
	}
	props, ok := item.(map[string]any)
	if !ok {
		return SectionOverride{}, shapeError(path, "must be an object or null")
	}

	var entry SectionOverride
	for key, value := range props {
		if key == OmitKey {
			omit, ok := value.(bool)
			if !ok {
				return SectionOverride{}, shapeError(path+"/"+OmitKey, "must be a boolean")
			}
			entry.Omit = omit
			continue
		}
		if strings.HasPrefix(key, RuntimePrefix) {
			return SectionOverride{}, shapeError(path+"/"+key, "keys starting with %q are reserved", RuntimePrefix)
		}
		if entry.Props == nil {
			entry.Props = make(map[string]any, len(props))
		}
		entry.Props[key] = value
	}
	return entry, nil
}

func parseMeta(value any) (Meta, error) {
	if value == nil {
		return Meta{}, nil
	}
	doc, ok := value.(map[string]any)
	if !ok {
		return Meta{}, shapeError("/meta", "must be an object")
	}

	var meta Meta
	for key, target := range map[string]*string{
		"title":       &meta.Title,
		"description": &meta.Description,
		"tagline":     &meta.Tagline,
	} {
		raw, present := doc[key]
		if !present || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return Meta{}, shapeError("/meta/"+key, "must be a string")
		}
		*target = strings.TrimSpace(s)
	}

	alt, err := stringMap(doc["altText"], "/meta/altText")
	if err != nil {
		return Meta{}, err
	}
	meta.AltText = alt
	return meta, nil
}

func parseFormOverrides(value any) (map[string]FieldOverride, error) {
	if value == nil {
		return nil, nil
	}
	doc, ok := value.(map[string]any)
	if !ok {
		return nil, shapeError("/formOverrides", "must be an object")
	}

	out := make(map[string]FieldOverride, len(doc))
	for name, raw := range doc {
		path := "/formOverrides/" + escapePointer(name)
		field, ok := raw.(map[string]any)
		if !ok {
			return nil, shapeError(path, "must be an object")
		}
		var override FieldOverride
		for key, target := range map[string]*string{"label": &override.Label, "placeholder": &override.Placeholder} {
			rawValue, present := field[key]
			if !present || rawValue == nil {
				continue
			}
			s, ok := rawValue.(string)
			if !ok {
				return nil, shapeError(path+"/"+key, "must be a string")
			}
			*target = strings.TrimSpace(s)
		}
		out[name] = override
	}
	return out, nil
}

func stringMap(value any, path string) (map[string]string, error) {
	if value == nil {
		return nil, nil
	}
	doc, ok := value.(map[string]any)
	if !ok {
		return nil, shapeError(path, "must be an object")
	}
	out := make(map[string]string, len(doc))
	for key, raw := range doc {
		s, ok := raw.(string)
		if !ok {
			return nil, shapeError(path+"/"+escapePointer(key), "must be a string")
		}
		out[key] = s
	}
	return out, nil
}

func escapePointer(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}
