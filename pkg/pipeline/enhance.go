package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/goliatone/go-landing/pkg/overrides"
	"github.com/goliatone/go-landing/pkg/sections"
	"github.com/goliatone/go-landing/pkg/spec"
)

// Enhance returns a polished copy of draft. Polished fields are merged onto
// the draft field by field and list items merge by index. Any failure returns
// draft itself, unchanged. A nil draft is treated as empty and the result is
// never nil.
func (g *Generator) Enhance(ctx context.Context, brief BusinessBrief, tpl spec.TemplateSpec, draft *overrides.ContentOverrides) *overrides.ContentOverrides {
	if draft == nil {
		draft = &overrides.ContentOverrides{}
	}
	brief = brief.Normalized()
	logger := g.logger.With(zap.String("template_id", tpl.TemplateID), zap.String("stage", string(StageEnhance)))

	current := effectiveCopy(tpl, draft)
	copyJSON, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		logger.Warn("Enhance skipped", zap.Error(err))
		return draft
	}
	prompt, err := g.renderPrompt("enhance", enhancePromptData{
		Category:    string(tpl.Category),
		Goal:        string(tpl.Goal),
		Brief:       brief,
		CurrentCopy: string(copyJSON),
		AssetSlots:  assetSlots(tpl),
		FormFields:  promptFields(tpl, draft),
		Contract:    contractJSON(StageEnhance),
	})
	if err != nil {
		logger.Warn("Enhance prompt failed, keeping draft", zap.Error(err))
		return draft
	}

	payload, err := g.call(ctx, StageEnhance, enhanceSystemPrompt, prompt)
	if err != nil {
		logger.Warn("Enhance failed, keeping draft", zap.Error(err))
		return draft
	}

	polished, applied := mergeEnhancement(tpl, draft, payload)
	if applied == 0 {
		logger.Warn("Enhance response had no usable content, keeping draft")
		return draft
	}
	return polished
}

// sectionKeys names each section for the enhance exchange. The first section
// of a type is keyed by the type itself and repeats get an ordinal suffix
// ("hero#2"), so polish for one section never lands on another.
func sectionKeys(tpl spec.TemplateSpec) []string {
	keys := make([]string, len(tpl.Sections))
	seen := make(map[string]int)
	for idx, section := range tpl.Sections {
		seen[section.Type]++
		if n := seen[section.Type]; n > 1 {
			keys[idx] = fmt.Sprintf("%s#%d", section.Type, n)
			continue
		}
		keys[idx] = section.Type
	}
	return keys
}

// effectiveCopy is the current copy per section key: spec defaults with
// the draft overrides applied, restricted to copy fields.
func effectiveCopy(tpl spec.TemplateSpec, draft *overrides.ContentOverrides) map[string]map[string]any {
	out := make(map[string]map[string]any)
	keys := sectionKeys(tpl)
	for idx, section := range tpl.Sections {
		shape, ok := shapes[section.Type]
		if !ok {
			continue
		}
		entry, _ := draft.Section(idx)
		if entry.Omit {
			continue
		}
		props := sections.Props(overrides.ShallowMerge(tpl.SectionProps(idx), entry.Props))
		view := make(map[string]any)
		for _, field := range shape.scalars {
			if value := props.String(field, ""); value != "" {
				view[field] = value
			}
		}
		if shape.strings != "" {
			if steps := props.Strings(shape.strings); len(steps) > 0 {
				view[shape.strings] = steps
			}
		}
		if shape.list != nil {
			if items := props.List(shape.list.prop); len(items) > 0 {
				view[shape.list.prop] = items
			}
		}
		if len(view) > 0 {
			out[keys[idx]] = view
		}
	}
	return out
}

func promptFields(tpl spec.TemplateSpec, draft *overrides.ContentOverrides) []promptField {
	fields := make([]promptField, 0, len(tpl.Form))
	for _, field := range tpl.Form {
		view := promptField{Name: field.Name, Type: field.Type, Label: field.Label}
		if override, ok := draft.Field(field.Name); ok && override.Label != "" {
			view.Label = override.Label
		}
		fields = append(fields, view)
	}
	return fields
}

// mergeEnhancement applies an enhance payload to a clone of draft and
// returns the number of fields taken from the payload.
func mergeEnhancement(tpl spec.TemplateSpec, draft *overrides.ContentOverrides, payload map[string]any) (*overrides.ContentOverrides, int) {
	out := draft.Clone()
	if out == nil {
		out = &overrides.ContentOverrides{}
	}
	applied := 0

	if raw, ok := lookup(payload, "sections"); ok {
		if polishedSections, ok := asObject(raw); ok {
			keys := sectionKeys(tpl)
			for idx, section := range tpl.Sections {
				shape, ok := shapes[section.Type]
				if !ok {
					continue
				}
				polished, ok := polishedSection(polishedSections, keys[idx], section.Type)
				if !ok {
					continue
				}
				applied += polishSection(out, tpl, idx, shape, polished)
			}
		}
	}

	if raw, ok := lookup(payload, "seo"); ok {
		if seo, ok := asObject(raw); ok {
			if text, ok := cleanText(seo["title"]); ok {
				out.Meta.Title = text
				applied++
			}
			if text, ok := cleanText(seo["description"]); ok {
				out.Meta.Description = text
				applied++
			}
			if text, ok := cleanText(seo["tagline"]); ok {
				out.Meta.Tagline = text
				applied++
			}
		}
	}

	if raw, ok := lookup(payload, "altText"); ok {
		if altText, ok := asObject(raw); ok {
			slots := assetSlots(tpl)
			for key, value := range altText {
				text, ok := cleanText(value)
				if !ok || !slices.Contains(slots, key) {
					continue
				}
				if out.Meta.AltText == nil {
					out.Meta.AltText = make(map[string]string)
				}
				out.Meta.AltText[key] = text
				applied++
			}
		}
	}

	if raw, ok := lookup(payload, "form"); ok {
		if form, ok := asObject(raw); ok {
			for _, field := range tpl.Form {
				obj, ok := asObject(form[field.Name])
				if !ok {
					continue
				}
				override, _ := out.Field(field.Name)
				changed := false
				if text, ok := cleanText(obj["label"]); ok {
					override.Label = text
					changed = true
				}
				if text, ok := cleanText(obj["placeholder"]); ok {
					override.Placeholder = text
					changed = true
				}
				if !changed {
					continue
				}
				if out.FormOverrides == nil {
					out.FormOverrides = make(map[string]overrides.FieldOverride)
				}
				out.FormOverrides[field.Name] = override
				applied++
			}
		}
	}
	return out, applied
}

// polishedSection finds the polish for one section. Type aliases only apply
// to the first section of a type.
func polishedSection(polished map[string]any, key, sectionType string) (map[string]any, bool) {
	candidates := []string{key}
	if key == sectionType {
		candidates = append(candidates, sectionAliases[sectionType]...)
	}
	for _, key := range candidates {
		if obj, ok := asObject(polished[key]); ok {
			return obj, true
		}
	}
	return nil, false
}

// polishSection merges polished fields onto the override for section idx.
// Omitted sections are left alone.
func polishSection(out *overrides.ContentOverrides, tpl spec.TemplateSpec, idx int, shape sectionShape, polished map[string]any) int {
	entry, _ := out.Section(idx)
	if entry.Omit {
		return 0
	}
	props := maps.Clone(entry.Props)
	if props == nil {
		props = make(map[string]any)
	}
	defaults := sections.Props(tpl.SectionProps(idx))
	applied := 0

	for key, value := range scalarFields(polished, shape.scalars) {
		props[key] = value
		applied++
	}

	if shape.strings != "" {
		if steps := stringList(polished[shape.strings]); len(steps) > 0 {
			base := listOrDefault(props, defaults, shape.strings)
			merged := slices.Clone(base)
			for i := range merged {
				if i < len(steps) {
					merged[i] = steps[i]
					applied++
				}
			}
			if len(base) == 0 {
				merged = steps
				applied += len(steps)
			}
			props[shape.strings] = merged
		}
	}

	if shape.list != nil {
		if items, ok := asList(polished[shape.list.prop]); ok && len(items) > 0 {
			base := listOrDefault(props, defaults, shape.list.prop)
			merged := make([]any, len(base))
			for i, current := range base {
				item, ok := asObject(current)
				if label, isText := current.(string); !ok && isText {
					item = map[string]any{"label": label}
				}
				if i < len(items) {
					polishedItem, changed := polishItem(item, items[i], shape.list.fields)
					applied += changed
					merged[i] = polishedItem
					continue
				}
				merged[i] = current
			}
			props[shape.list.prop] = merged
		}
	}

	if applied > 0 {
		out.SetSection(idx, props)
	}
	return applied
}

// listOrDefault returns the draft list under key, or the spec default list
// when the draft does not override it.
func listOrDefault(props map[string]any, defaults sections.Props, key string) []any {
	if list, ok := asList(props[key]); ok {
		return list
	}
	return defaults.List(key)
}
