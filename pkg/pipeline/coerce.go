package pipeline

import (
	"html"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-landing/pkg/sections"
)

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

func textPolicy() *bluemonday.Policy {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}

// cleanText strips markup from generated copy and collapses whitespace.
// Non-string values are rejected.
func cleanText(value any) (string, bool) {
	raw, ok := value.(string)
	if !ok {
		return "", false
	}
	text := html.UnescapeString(textPolicy().Sanitize(raw))
	text = strings.Join(strings.Fields(text), " ")
	return text, text != ""
}

func asObject(value any) (map[string]any, bool) {
	obj, ok := value.(map[string]any)
	return obj, ok
}

func asList(value any) ([]any, bool) {
	list, ok := value.([]any)
	return list, ok
}

// listShape describes a list-valued prop of a section.
type listShape struct {
	prop string
	// response is the draft response key holding the list.
	response string
	fields   []string
	item     func(raw any) (map[string]any, bool)
}

// sectionShape lists the copy fields of a section archetype.
type sectionShape struct {
	// response is the draft response key for the section object.
	response string
	scalars  []string
	list     *listShape
	// strings names a list-of-strings prop.
	strings string
}

var shapes = map[string]sectionShape{
	"hero": {
		response: "hero",
		scalars:  []string{"eyebrow", "headline", "subheadline", "ctaText", "trustBadge"},
	},
	"trust-badges": {
		scalars: []string{"title"},
		list:    &listShape{prop: "badges", response: "trustBadges", fields: []string{"label", "icon"}, item: badgeItem},
	},
	"services": {
		scalars: []string{"title", "subtitle"},
		list:    &listShape{prop: "services", response: "services", fields: []string{"icon", "title", "description", "benefit"}, item: serviceItem},
	},
	"showcase": {
		response: "showcase",
		scalars:  []string{"title", "subtitle", "primaryCaption", "secondaryCaption"},
	},
	"testimonials": {
		scalars: []string{"title"},
		list:    &listShape{prop: "testimonials", response: "testimonials", fields: []string{"quote", "name", "title", "rating", "highlight"}, item: testimonialItem},
	},
	"cta": {
		response: "cta",
		scalars:  []string{"headline", "subheadline", "buttonText", "urgency", "guarantee"},
		strings:  "nextSteps",
	},
}

// sectionAliases maps response keys that name a section type differently.
var sectionAliases = map[string][]string{
	"trust-badges": {"trustBadges", "trust_badges", "badges"},
	"cta":          {"callToAction"},
}

func scalarFields(obj map[string]any, fields []string) map[string]any {
	out := make(map[string]any)
	for _, field := range fields {
		if text, ok := cleanText(obj[field]); ok {
			out[field] = text
		}
	}
	return out
}

func stringList(value any) []any {
	list, ok := asList(value)
	if !ok {
		return nil
	}
	var out []any
	for _, entry := range list {
		if text, ok := cleanText(entry); ok {
			out = append(out, text)
		}
	}
	return out
}

func badgeItem(raw any) (map[string]any, bool) {
	if text, ok := cleanText(raw); ok {
		return map[string]any{"label": text}, true
	}
	obj, ok := asObject(raw)
	if !ok {
		return nil, false
	}
	label, ok := cleanText(obj["label"])
	if !ok {
		return nil, false
	}
	item := map[string]any{"label": label}
	if icon, ok := cleanText(obj["icon"]); ok {
		item["icon"] = sections.NormalizeIcon(icon)
	}
	return item, true
}

func serviceItem(raw any) (map[string]any, bool) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, false
	}
	item := scalarFields(obj, []string{"title", "description", "benefit"})
	if _, ok := item["title"]; !ok {
		return nil, false
	}
	icon, _ := cleanText(obj["icon"])
	item["icon"] = sections.NormalizeIcon(icon)
	return item, true
}

func testimonialItem(raw any) (map[string]any, bool) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, false
	}
	item := scalarFields(obj, []string{"quote", "name", "title", "highlight"})
	if _, ok := item["quote"]; !ok {
		return nil, false
	}
	rating := 5
	if n, ok := sections.ToInt(obj["rating"]); ok {
		rating = n
	}
	item["rating"] = sections.ClampRating(rating)
	return item, true
}

// polishItem overlays the valid fields of raw onto a copy of base and
// reports how many fields changed. Only the listed item fields are taken.
func polishItem(base map[string]any, raw any, fields []string) (map[string]any, int) {
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]any, len(fields))
	}
	changed := 0
	set := func(field string, value any) {
		if current, ok := out[field]; !ok || current != value {
			changed++
		}
		out[field] = value
	}

	obj, ok := asObject(raw)
	if !ok {
		if text, ok := cleanText(raw); ok && slices.Contains(fields, "label") {
			set("label", text)
		}
		return out, changed
	}
	for _, field := range fields {
		value, present := obj[field]
		if !present {
			continue
		}
		switch field {
		case "icon":
			if icon, ok := cleanText(value); ok {
				set(field, sections.NormalizeIcon(icon))
			}
		case "rating":
			if n, ok := sections.ToInt(value); ok {
				set(field, sections.ClampRating(n))
			}
		default:
			if text, ok := cleanText(value); ok {
				set(field, text)
			}
		}
	}
	return out, changed
}
