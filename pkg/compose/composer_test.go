package compose

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-landing/pkg/overrides"
	"github.com/goliatone/go-landing/pkg/sections"
	"github.com/goliatone/go-landing/pkg/spec"
)

func newTestComposer(t *testing.T, options ...Option) *Composer {
	t.Helper()
	c := New(options...)
	if err := c.init(); err != nil {
		t.Fatalf("init composer: %v", err)
	}
	return c
}

func sectionTypes(result Result) []string {
	out := make([]string, 0, len(result.Sections))
	for _, section := range result.Sections {
		out = append(out, section.Type)
	}
	return out
}

func TestComposePreservesSectionOrder(t *testing.T) {
	c := newTestComposer(t)

	result, err := c.Compose(context.Background(), "saas-lead-gen", nil, Options{})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	want := []string{"hero", "trust-badges", "services", "showcase", "testimonials", "cta"}
	if diff := cmp.Diff(want, sectionTypes(result)); diff != "" {
		t.Fatalf("section order mismatch (-want +got):\n%s", diff)
	}

	last := -1
	for _, typ := range want {
		idx := strings.Index(result.HTML, `data-section="`+typ+`"`)
		if idx < 0 {
			t.Fatalf("section %q missing from html", typ)
		}
		if idx < last {
			t.Fatalf("section %q rendered out of order", typ)
		}
		last = idx
	}
	if !strings.HasPrefix(result.HTML, "<!DOCTYPE html>") {
		t.Fatalf("expected full document, got %q", result.HTML[:40])
	}
	if !strings.Contains(result.HTML, "<title>SaaS lead generation</title>") {
		t.Fatalf("expected metadata name as title")
	}
}

func TestComposeOmitRemovesExactlyOneSection(t *testing.T) {
	c := newTestComposer(t)
	patch := &overrides.ContentOverrides{}
	patch.OmitSection(1)

	result, err := c.Compose(context.Background(), "saas-lead-gen", patch, Options{})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	want := []string{"hero", "services", "showcase", "testimonials", "cta"}
	if diff := cmp.Diff(want, sectionTypes(result)); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(result.HTML, `data-section="trust-badges"`) {
		t.Fatalf("omitted section still rendered")
	}
	if result.Sections[1].Index != 2 {
		t.Fatalf("expected spec index to be kept, got %d", result.Sections[1].Index)
	}
}

func TestComposeShallowMergeReplacesArrays(t *testing.T) {
	c := newTestComposer(t)
	patch := &overrides.ContentOverrides{}
	patch.SetSection(0, map[string]any{"headline": "Launch <faster>"})
	patch.SetSection(2, map[string]any{
		"services": []any{map[string]any{"title": "Only one", "icon": "star"}},
	})

	result, err := c.Compose(context.Background(), "saas-lead-gen", patch, Options{})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if !strings.Contains(result.HTML, "Launch &lt;faster&gt;") {
		t.Fatalf("expected escaped headline override")
	}
	if !strings.Contains(result.HTML, "Replace five tools with one.") {
		t.Fatalf("expected untouched props to keep spec defaults")
	}
	if !strings.Contains(result.HTML, "Only one") || strings.Contains(result.HTML, "Live reporting") {
		t.Fatalf("expected services array to be replaced, not merged")
	}
}

func TestComposeDoesNotMutateSpec(t *testing.T) {
	store, err := spec.LoadFS(spec.EmbeddedFS())
	if err != nil {
		t.Fatalf("load specs: %v", err)
	}
	before, _ := store.Get("saas-lead-gen")

	c := newTestComposer(t, WithSpecStore(store))
	patch := &overrides.ContentOverrides{}
	patch.SetSection(0, map[string]any{"headline": "Changed"})
	if _, err := c.Compose(context.Background(), "saas-lead-gen", patch, Options{IncludeCredits: true}); err != nil {
		t.Fatalf("compose: %v", err)
	}

	after, _ := store.Get("saas-lead-gen")
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("spec mutated (-before +after):\n%s", diff)
	}
}

func TestComposeUnknownTemplate(t *testing.T) {
	c := newTestComposer(t)

	_, err := c.Compose(context.Background(), "nope", nil, Options{})
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
	var unknown *UnknownTemplateError
	if !errors.As(err, &unknown) || unknown.TemplateID != "nope" {
		t.Fatalf("expected UnknownTemplateError for nope, got %#v", err)
	}

	if _, err := c.Inspect(context.Background(), "nope", Options{}); !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("inspect: expected ErrUnknownTemplate, got %v", err)
	}
}

func TestComposeFormOverrides(t *testing.T) {
	c := newTestComposer(t)
	patch := &overrides.ContentOverrides{
		FormOverrides: map[string]overrides.FieldOverride{
			"email": {Label: "Your inbox", Placeholder: "you@example.com"},
		},
	}

	result, err := c.Compose(context.Background(), "saas-lead-gen", patch, Options{})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	for _, want := range []string{
		">Your inbox<",
		`placeholder="you@example.com"`,
		">Full name<",
		`<button type="submit" class="lp-button lp-button--primary">Book my demo</button>`,
	} {
		if !strings.Contains(result.HTML, want) {
			t.Fatalf("expected %q in form markup", want)
		}
	}
	if strings.Contains(result.HTML, ">Work email<") {
		t.Fatalf("spec label should be replaced by override")
	}
}

func TestComposeOfflineNeverEmitsRemoteDemoURLs(t *testing.T) {
	c := newTestComposer(t, WithAllowRemoteAssets(false))

	result, err := c.Compose(context.Background(), "saas-lead-gen", nil, Options{IncludeCredits: true})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if strings.Contains(result.HTML, "images.unsplash.com") {
		t.Fatalf("offline compose leaked a remote url")
	}
	if !strings.Contains(result.HTML, `src="/assets/local/saas/hero.jpg"`) {
		t.Fatalf("expected local hero fallback")
	}
	if !strings.Contains(result.HTML, "/assets/placeholders/saas/showcase.svg") {
		t.Fatalf("expected showcase placeholder")
	}
	if len(result.Credits) != 0 {
		t.Fatalf("no credits expected when no demo asset was used, got %v", result.Credits)
	}
}

func TestComposeCreditsAndAssetOverrides(t *testing.T) {
	c := newTestComposer(t)
	allow := true
	patch := &overrides.ContentOverrides{
		Assets: map[string]string{"showcaseSecondary": "/uploads/team.png"},
		Meta: overrides.Meta{
			AltText: map[string]string{"heroImage": "Team dashboard"},
			Tagline: "Built for marketers",
		},
	}

	result, err := c.Compose(context.Background(), "saas-lead-gen", patch, Options{AllowRemoteAssets: &allow, IncludeCredits: true})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if !strings.Contains(result.HTML, "photo-1551434678-e076c223a692") {
		t.Fatalf("expected manifest hero url")
	}
	if !strings.Contains(result.HTML, `data-fallback-src="/assets/local/saas/hero.jpg"`) {
		t.Fatalf("expected hero fallback hint")
	}
	if !strings.Contains(result.HTML, `alt="Team dashboard"`) {
		t.Fatalf("expected alt text override")
	}
	if !strings.Contains(result.HTML, `src="/uploads/team.png"`) {
		t.Fatalf("expected literal asset override")
	}
	if !strings.Contains(result.HTML, `class="lp-tagline">Built for marketers<`) {
		t.Fatalf("expected tagline in shell")
	}

	var ids []string
	for _, credit := range result.Credits {
		ids = append(ids, credit.AssetID)
	}
	want := []string{"demo-saas-modern-light-hero-01", "demo-saas-modern-light-showcase-01"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("credits mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(result.HTML, `<footer class="lp-credits">`) || !strings.Contains(result.HTML, "Photo by Marvin Meyer on Unsplash") {
		t.Fatalf("expected credits footer")
	}
}

func TestComposeThemeVariables(t *testing.T) {
	c := newTestComposer(t)

	result, err := c.Compose(context.Background(), "saas-lead-gen", nil, Options{ThemeVariant: "dark"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	for _, want := range []string{
		`data-theme="modern-light"`,
		`data-theme-variant="dark"`,
		"--color-background: #0b1120;",
		"--color-primary: #2563eb;",
		`href="/themes/modern-light.css"`,
		`href="/assets/sections/hero.css"`,
	} {
		if !strings.Contains(result.HTML, want) {
			t.Fatalf("expected %q in document", want)
		}
	}
	if strings.Count(result.HTML, `href="/assets/sections/base.css"`) != 1 {
		t.Fatalf("expected base stylesheet once")
	}
}

func TestComposeRenderErrorWrapsSection(t *testing.T) {
	boom := errors.New("boom")
	clone := sections.NewDefaultRegistry().Clone()
	clone.MustRegister("hero", sections.Descriptor{
		Renderer: func(_ *bytes.Buffer, _ sections.Props) error { return boom },
	})

	c := newTestComposer(t, WithRegistry(clone))
	_, err := c.Compose(context.Background(), "saas-lead-gen", nil, Options{})
	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("expected RenderError, got %v", err)
	}
	if renderErr.Index != 0 || renderErr.Type != "hero" || !errors.Is(err, boom) {
		t.Fatalf("unexpected render error %#v", renderErr)
	}
}

func TestInspectResolvesAssets(t *testing.T) {
	c := newTestComposer(t, WithAllowRemoteAssets(false))

	view, err := c.Inspect(context.Background(), "saas-lead-gen", Options{})
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if _, ok := view.ResolvedAssets["fallbackHeroImageId"]; ok {
		t.Fatalf("fallback keys should not be resolved on their own")
	}
	if got := view.ResolvedAssets["heroImage"].Src; got != "/assets/local/saas/hero.jpg" {
		t.Fatalf("unexpected hero src %q", got)
	}
	if len(view.SectionTypes) != len(view.Sections) {
		t.Fatalf("expected one info per section")
	}
	if diff := cmp.Diff([]string{"primaryImage", "secondaryImage"}, view.SectionTypes[3].AssetProps); diff != "" {
		t.Fatalf("asset props mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"fullName":      "Full Name",
		"phone_number":  "Phone Number",
		"preferred-day": "Preferred Day",
		"address2":      "Address 2",
	}
	for input, want := range cases {
		if got := DefaultLabeler(input); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}
