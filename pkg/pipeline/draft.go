package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-landing/pkg/overrides"
	"github.com/goliatone/go-landing/pkg/sections"
	"github.com/goliatone/go-landing/pkg/spec"
)

// Generate produces draft overrides for tpl from the brief. It never fails:
// any call, decode or content problem yields the brief-derived fallback.
func (g *Generator) Generate(ctx context.Context, brief BusinessBrief, tpl spec.TemplateSpec) *overrides.ContentOverrides {
	brief = brief.Normalized()
	logger := g.logger.With(zap.String("template_id", tpl.TemplateID), zap.String("stage", string(StageDraft)))
	if err := brief.Validate(); err != nil {
		logger.Warn("Brief incomplete, generating anyway", zap.Error(err))
	}

	prompt, err := g.renderPrompt("draft", g.draftPromptData(brief, tpl))
	if err != nil {
		logger.Warn("Draft prompt failed, using fallback", zap.Error(err))
		return FallbackDraft(brief, tpl)
	}
	payload, err := g.call(ctx, StageDraft, draftSystemPrompt, prompt)
	if err != nil {
		logger.Warn("Draft generation failed, using fallback", zap.Error(err))
		return FallbackDraft(brief, tpl)
	}

	draft, applied := parseDraft(payload, tpl)
	if applied == 0 {
		logger.Warn("Draft response had no usable content, using fallback")
		return FallbackDraft(brief, tpl)
	}
	draft.Assets = applyImages(draft.Assets, assetSlots(tpl), brief.Images)
	if title := firstText(brief.Contact.BusinessName); title != "" {
		draft.Meta.Title = title
	}
	return draft
}

func (g *Generator) draftPromptData(brief BusinessBrief, tpl spec.TemplateSpec) draftPromptData {
	data := draftPromptData{
		TemplateID:       tpl.TemplateID,
		Category:         string(tpl.Category),
		Goal:             string(tpl.Goal),
		Brief:            brief,
		ServiceCount:     defaultCount(tpl, "services", "services", 3),
		TestimonialCount: defaultCount(tpl, "testimonials", "testimonials", 3),
		BadgeCount:       defaultCount(tpl, "trust-badges", "badges", 3),
		StepCount:        defaultCount(tpl, "cta", "nextSteps", 3),
		Icons:            sections.Icons(),
		AssetSlots:       assetSlots(tpl),
		Contract:         contractJSON(StageDraft),
	}
	for idx, section := range tpl.Sections {
		entry := promptSection{Index: idx, Type: section.Type}
		if shape, ok := shapes[section.Type]; ok && shape.list != nil {
			entry.Count = len(sections.Props(section.Props).List(shape.list.prop))
		}
		data.Sections = append(data.Sections, entry)
	}
	return data
}

// parseDraft maps a draft response onto per-section overrides and returns the
// number of fields taken from the payload. The draft response carries one
// object per section type, so every section of that type gets the same draft
// copy; Enhance then polishes repeats individually.
func parseDraft(payload map[string]any, tpl spec.TemplateSpec) (*overrides.ContentOverrides, int) {
	out := &overrides.ContentOverrides{}
	applied := 0

	for idx, section := range tpl.Sections {
		shape, ok := shapes[section.Type]
		if !ok {
			continue
		}
		props := draftSectionProps(payload, shape, tpl, idx)
		if len(props) == 0 {
			continue
		}
		applied += len(props)
		out.SetSection(idx, props)
	}

	if raw, ok := lookup(payload, "imageHints"); ok {
		if hints, ok := asObject(raw); ok {
			for key, value := range hints {
				if text, ok := cleanText(value); ok && strings.TrimSpace(key) != "" {
					if out.ImageHints == nil {
						out.ImageHints = make(map[string]string)
					}
					out.ImageHints[key] = text
				}
			}
		}
	}
	return out, applied
}

func draftSectionProps(payload map[string]any, shape sectionShape, tpl spec.TemplateSpec, idx int) map[string]any {
	props := make(map[string]any)
	if shape.response != "" {
		if raw, ok := lookup(payload, shape.response); ok {
			if obj, ok := asObject(raw); ok {
				for key, value := range scalarFields(obj, shape.scalars) {
					props[key] = value
				}
				if shape.strings != "" {
					if steps := stringList(obj[shape.strings]); len(steps) > 0 {
						props[shape.strings] = steps
					}
				}
			}
		}
	}
	if shape.list != nil {
		raw, ok := lookup(payload, shape.list.response)
		if !ok {
			return props
		}
		list, ok := asList(raw)
		if !ok {
			return props
		}
		limit := len(sections.Props(tpl.Sections[idx].Props).List(shape.list.prop))
		var items []any
		for _, entry := range list {
			if limit > 0 && len(items) == limit {
				break
			}
			if item, ok := shape.list.item(entry); ok {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			props[shape.list.prop] = items
		}
	}
	return props
}

func firstText(values ...string) string {
	for _, value := range values {
		if text, ok := cleanText(value); ok {
			return text
		}
	}
	return ""
}
