package compose

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-landing/pkg/assets"
	"github.com/goliatone/go-landing/pkg/overrides"
	"github.com/goliatone/go-landing/pkg/sections"
	"github.com/goliatone/go-landing/pkg/spec"
)

type shellData struct {
	Lang            string          `json:"lang"`
	Theme           string          `json:"theme"`
	Variant         string          `json:"variant,omitempty"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Tagline         string          `json:"tagline,omitempty"`
	TemplateID      string          `json:"templateId"`
	ThemeStylesheet string          `json:"themeStylesheet"`
	Stylesheets     []string        `json:"stylesheets"`
	CSSVars         []cssVar        `json:"cssVars,omitempty"`
	Sections        []string        `json:"sections"`
	Credits         []assets.Credit `json:"credits,omitempty"`
}

func (c *Composer) renderShell(tpl spec.TemplateSpec, patch *overrides.ContentOverrides, opts Options, markup, types []string, credits []assets.Credit) (string, error) {
	data := shellData{
		Lang:        firstNonEmpty(opts.Lang, "en"),
		Theme:       tpl.Theme,
		Title:       tpl.Metadata.Name,
		Description: tpl.Metadata.Description,
		TemplateID:  tpl.TemplateID,
		Stylesheets: c.registry.Stylesheets(types),
		Sections:    markup,
		Credits:     credits,
	}
	if patch != nil {
		data.Title = firstNonEmpty(patch.Meta.Title, data.Title)
		data.Description = firstNonEmpty(patch.Meta.Description, data.Description)
		data.Tagline = strings.TrimSpace(patch.Meta.Tagline)
	}
	if data.Title == "" {
		data.Title = tpl.TemplateID
	}

	selection, err := c.themes.Select(tpl.Theme, opts.ThemeVariant)
	if err != nil {
		c.logger.Warn("Theme unavailable, using defaults",
			zap.String("template_id", tpl.TemplateID),
			zap.String("theme", tpl.Theme),
			zap.Error(err))
		data.ThemeStylesheet = themeStylesheet(tpl.Theme, nil)
	} else {
		data.Variant = selection.Variant
		data.CSSVars = sortedCSSVars(selection)
		data.ThemeStylesheet = themeStylesheet(tpl.Theme, selection)
	}

	html, err := c.templates.RenderTemplate(documentTemplate, data)
	if err != nil {
		return "", fmt.Errorf("compose: render document for %q: %w", tpl.TemplateID, err)
	}
	return html, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// SpecView is the read-only view returned by Inspect: the spec plus the
// resolution of every declared asset.
type SpecView struct {
	spec.TemplateSpec
	// ResolvedAssets maps each spec asset key to its resolution under the
	// composer defaults.
	ResolvedAssets map[string]assets.Resolution `json:"resolvedAssets"`
	// SectionTypes lists sections in order, flagging unregistered types.
	SectionTypes []SectionInfo `json:"sectionTypes"`
}

// SectionInfo describes one spec section for inspection.
type SectionInfo struct {
	Index      int      `json:"index"`
	Type       string   `json:"type"`
	Registered bool     `json:"registered"`
	AssetProps []string `json:"assetProps,omitempty"`
}

// Inspect returns a copy of the spec with its assets resolved. Unknown ids
// yield an UnknownTemplateError.
func (c *Composer) Inspect(ctx context.Context, templateID string, opts Options) (SpecView, error) {
	if ctx == nil {
		return SpecView{}, errors.New("compose: context is required")
	}
	if err := c.init(); err != nil {
		return SpecView{}, err
	}
	tpl, ok := c.specs.Get(templateID)
	if !ok {
		return SpecView{}, &UnknownTemplateError{TemplateID: templateID}
	}

	base := c.assetOptions(tpl, opts)
	view := SpecView{
		TemplateSpec:   tpl,
		ResolvedAssets: make(map[string]assets.Resolution, len(tpl.Assets)),
	}
	for key := range tpl.Assets {
		if strings.HasPrefix(key, "fallback") && strings.HasSuffix(key, "Id") {
			continue
		}
		id, fallback := effectiveAsset(tpl, nil, key)
		resolveOpts := base
		resolveOpts.Fallback = fallback
		view.ResolvedAssets[key] = c.resolver.Resolve(ctx, id, resolveOpts)
	}
	for idx, section := range tpl.Sections {
		info := SectionInfo{Index: idx, Type: section.Type, Registered: c.registry.Has(section.Type)}
		for key := range section.Props {
			if sections.IsAssetProp(key) {
				info.AssetProps = append(info.AssetProps, key)
			}
		}
		slices.Sort(info.AssetProps)
		view.SectionTypes = append(view.SectionTypes, info)
	}
	return view, nil
}
