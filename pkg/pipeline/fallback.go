package pipeline

import (
	"maps"

	"github.com/goliatone/go-landing/pkg/overrides"
	"github.com/goliatone/go-landing/pkg/spec"
)

// FallbackDraft derives minimal overrides from the literal brief fields. It
// invents no copy: empty brief fields leave spec defaults in place.
func FallbackDraft(brief BusinessBrief, tpl spec.TemplateSpec) *overrides.ContentOverrides {
	brief = brief.Normalized()
	out := &overrides.ContentOverrides{}

	hero := nonEmpty(map[string]string{
		"headline":    brief.ProductService,
		"subheadline": brief.UniqueValue,
		"ctaText":     brief.CTA,
	})
	cta := nonEmpty(map[string]string{
		"headline":    brief.Offer,
		"subheadline": brief.Pricing,
		"buttonText":  brief.CTA,
	})
	for idx, section := range tpl.Sections {
		switch section.Type {
		case "hero":
			if len(hero) > 0 {
				out.SetSection(idx, maps.Clone(hero))
			}
		case "cta":
			if len(cta) > 0 {
				out.SetSection(idx, maps.Clone(cta))
			}
		}
	}

	out.Meta.Title = firstText(brief.Contact.BusinessName, brief.ProductService)
	out.Assets = applyImages(nil, assetSlots(tpl), brief.Images)
	return out
}

func nonEmpty(fields map[string]string) map[string]any {
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		if text, ok := cleanText(value); ok {
			out[key] = text
		}
	}
	return out
}
