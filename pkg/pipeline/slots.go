package pipeline

import (
	"slices"
	"strings"

	"github.com/goliatone/go-landing/pkg/sections"
	"github.com/goliatone/go-landing/pkg/spec"
)

// assetSlots lists the logical asset keys referenced by the spec sections,
// in section order and deduplicated.
func assetSlots(tpl spec.TemplateSpec) []string {
	var slots []string
	for _, section := range tpl.Sections {
		props := sections.Props(section.Props)
		keys := make([]string, 0, len(props))
		for key := range props {
			if sections.IsAssetProp(key) {
				keys = append(keys, key)
			}
		}
		slices.Sort(keys)
		for _, key := range keys {
			slot := props.String(key, "")
			if slot == "" || slices.Contains(slots, slot) {
				continue
			}
			slots = append(slots, slot)
		}
	}
	return slots
}

// defaultCount is the length of the first default list found under prop for
// sections of sectionType, or def when the spec declares none.
func defaultCount(tpl spec.TemplateSpec, sectionType, prop string, def int) int {
	for _, idx := range tpl.SectionIndexes(sectionType) {
		if items := sections.Props(tpl.Sections[idx].Props).List(prop); len(items) > 0 {
			return len(items)
		}
	}
	return def
}

func applyImages(out map[string]string, slots, images []string) map[string]string {
	for i, image := range images {
		if i >= len(slots) {
			break
		}
		if image = strings.TrimSpace(image); image == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[slots[i]] = image
	}
	return out
}
