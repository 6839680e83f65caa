//go:build property
// +build property

package overrides

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func toAnyMap(src map[string]int) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}

// TestShallowMergeProperties checks the merge law over random prop maps.
func TestShallowMergeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	keys := gen.OneConstOf("a", "b", "c", "d", "services", "headline")
	props := gen.MapOf(keys, gen.IntRange(0, 100))

	properties.Property("override keys win, other defaults survive", prop.ForAll(
		func(defaults, override map[string]int) bool {
			merged := ShallowMerge(toAnyMap(defaults), toAnyMap(override))
			for key, value := range override {
				if merged[key] != value {
					return false
				}
			}
			for key, value := range defaults {
				if _, replaced := override[key]; !replaced && merged[key] != value {
					return false
				}
			}
			return len(merged) <= len(defaults)+len(override)
		},
		props, props,
	))

	properties.Property("empty override is identity", prop.ForAll(
		func(defaults map[string]int) bool {
			merged := ShallowMerge(toAnyMap(defaults), nil)
			if len(merged) != len(defaults) {
				return false
			}
			for key, value := range defaults {
				if merged[key] != value {
					return false
				}
			}
			return true
		},
		props,
	))

	properties.Property("inputs are never mutated", prop.ForAll(
		func(defaults, override map[string]int) bool {
			d := toAnyMap(defaults)
			o := toAnyMap(override)
			merged := ShallowMerge(d, o)
			merged["__added"] = true
			_, inDefaults := d["__added"]
			_, inOverride := o["__added"]
			return len(d) == len(defaults) && len(o) == len(override) && !inDefaults && !inOverride
		},
		props, props,
	))

	properties.TestingRun(t)
}
