package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"
)

var errNoJSONObject = errors.New("pipeline: no JSON object in response")

// decodeResponse extracts the first JSON object from a model answer, which
// may be wrapped in prose or a fenced code block.
func decodeResponse(text string) (map[string]any, error) {
	candidate := jsonObject(text)
	if candidate == "" {
		return nil, errNoJSONObject
	}
	var root any
	if err := json.Unmarshal([]byte(candidate), &root); err != nil {
		return nil, fmt.Errorf("pipeline: decode response: %w", err)
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, errNoJSONObject
	}
	return obj, nil
}

// jsonObject returns the first balanced {...} span, ignoring braces inside
// JSON strings.
func jsonObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// lookup returns the value at key, searching the top level first and then
// any depth, so payloads wrapped in an envelope object still parse.
func lookup(root map[string]any, key string) (any, bool) {
	if value, ok := root[key]; ok {
		return value, true
	}
	expr, err := jp.ParseString("$.." + key)
	if err != nil {
		return nil, false
	}
	results := expr.Get(root)
	if len(results) == 0 {
		return nil, false
	}
	return results[0], true
}
