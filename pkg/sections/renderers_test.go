package sections

import (
	"strings"
	"testing"
)

func render(t *testing.T, sectionType string, props Props) string {
	t.Helper()
	out, err := NewDefaultRegistry().Render(sectionType, props)
	if err != nil {
		t.Fatalf("render %s: %v", sectionType, err)
	}
	return out
}

func TestHeroRendersResolvedImage(t *testing.T) {
	out := render(t, "hero", Props{
		"headline":                 "Ship <faster>",
		"ctaText":                  "Try it",
		"heroImage":                "heroImage",
		RuntimeSrc("heroImage"):      "https://cdn.example.com/hero.jpg",
		RuntimeFallback("heroImage"): "/assets/local/hero.jpg",
		RuntimeAlt("heroImage"):      "Team at work",
		RuntimeSectionIndex:        0,
	})

	for _, want := range []string{
		`data-section="hero"`,
		`data-section-index="0"`,
		`Ship &lt;faster&gt;`,
		`src="https://cdn.example.com/hero.jpg"`,
		`data-fallback-src="/assets/local/hero.jpg"`,
		`alt="Team at work"`,
		`>Try it</a>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<faster>") {
		t.Fatalf("headline was not escaped:\n%s", out)
	}
}

func TestHeroDefaultsWithoutProps(t *testing.T) {
	out := render(t, "hero", Props{})
	if !strings.Contains(out, "Grow faster with less effort") {
		t.Fatalf("expected default headline:\n%s", out)
	}
	if strings.Contains(out, "<img") {
		t.Fatalf("no image expected without a resolved source:\n%s", out)
	}
}

func TestTrustBadgesAcceptsStringsAndObjects(t *testing.T) {
	out := render(t, "trust-badges", Props{
		"badges": []any{"SOC 2", map[string]any{"label": "24/7 support", "icon": "phone"}, 42, ""},
	})
	if strings.Count(out, `class="lp-badge"`) != 2 {
		t.Fatalf("expected two badges:\n%s", out)
	}
	if !strings.Contains(out, "24/7 support") || !strings.Contains(out, "SOC 2") {
		t.Fatalf("badge labels missing:\n%s", out)
	}
}

func TestTestimonialsClampRatingAndHighlight(t *testing.T) {
	out := render(t, "testimonials", Props{
		"testimonials": []any{
			map[string]any{"quote": "They saved us hours every week", "name": "Ana", "rating": 9.0, "highlight": "saved us hours"},
			map[string]any{"quote": "Solid", "rating": -3.0},
			map[string]any{"name": "No quote"},
		},
	})
	if !strings.Contains(out, `aria-label="5 out of 5 stars"`) {
		t.Fatalf("rating not clamped to 5:\n%s", out)
	}
	if !strings.Contains(out, `aria-label="1 out of 5 stars"`) {
		t.Fatalf("rating not clamped to 1:\n%s", out)
	}
	if !strings.Contains(out, "They <mark>saved us hours</mark> every week") {
		t.Fatalf("highlight missing:\n%s", out)
	}
	if strings.Count(out, `class="lp-testimonial"`) != 2 {
		t.Fatalf("expected testimonials without quote to be skipped:\n%s", out)
	}
}

func TestServicesNormalizesIcons(t *testing.T) {
	out := render(t, "services", Props{
		"services": []any{map[string]any{"title": "Fast", "icon": "lightning"}},
	})
	if !strings.Contains(out, IconSVG("bolt")) {
		t.Fatalf("expected bolt icon:\n%s", out)
	}
}

func TestShowcaseRendersBothImages(t *testing.T) {
	out := render(t, "showcase", Props{
		RuntimeSrc("primaryImage"):   "/a.jpg",
		RuntimeSrc("secondaryImage"): "/b.jpg",
		RuntimeCredit("primaryImage"): "Photo by Jane",
		"primaryCaption":              "Dashboard",
	})
	if !strings.Contains(out, `src="/a.jpg"`) || !strings.Contains(out, `src="/b.jpg"`) {
		t.Fatalf("expected both images:\n%s", out)
	}
	if !strings.Contains(out, "Photo by Jane") || !strings.Contains(out, "Dashboard") {
		t.Fatalf("expected caption and credit:\n%s", out)
	}
}

func TestCTAInjectsFormOnlyWhenSlotted(t *testing.T) {
	form := `<form class="lp-form"></form>`
	withSlot := render(t, "cta", Props{"formSlot": true, RuntimeFormHTML: form, "nextSteps": []any{"Book", "Meet"}})
	if !strings.Contains(withSlot, form) {
		t.Fatalf("expected form markup:\n%s", withSlot)
	}
	if strings.Count(withSlot, "<li>") != 2 {
		t.Fatalf("expected two next steps:\n%s", withSlot)
	}

	withoutSlot := render(t, "cta", Props{RuntimeFormHTML: form, "buttonText": "Call us"})
	if strings.Contains(withoutSlot, form) {
		t.Fatalf("form must not render without formSlot:\n%s", withoutSlot)
	}
	if !strings.Contains(withoutSlot, ">Call us</a>") {
		t.Fatalf("expected button:\n%s", withoutSlot)
	}
}

func TestUnsafeHrefIsReplaced(t *testing.T) {
	for _, href := range []string{
		"javascript:alert(1)",
		"java\tscript:alert(1)",
		"java\nscript:alert(1)",
		"\x01javascript:alert(1)",
		" JavaScript:alert(1)",
		"data:text/html;base64,PHNjcmlwdD4=",
		"vbscript:msgbox",
	} {
		out := render(t, "hero", Props{"ctaHref": href})
		if strings.Contains(strings.ToLower(out), "script:") || strings.Contains(out, "data:") {
			t.Fatalf("unsafe href %q rendered:\n%s", href, out)
		}
		if !strings.Contains(out, `href="#get-started"`) {
			t.Fatalf("expected fallback href for %q:\n%s", href, out)
		}
	}
}

func TestSafeHrefKeepsAllowedTargets(t *testing.T) {
	for _, href := range []string{
		"https://example.com/signup",
		"http://example.com",
		"mailto:hello@example.com",
		"tel:+15551234",
		"/pricing",
		"#contact",
		"signup?plan=pro",
	} {
		if got := safeHref(href); got != href {
			t.Fatalf("safeHref(%q) = %q", href, got)
		}
	}
}

func TestHighlightQuoteMatchesAcrossCaseAndWidth(t *testing.T) {
	tests := []struct {
		name      string
		quote     string
		highlight string
		want      string
	}{
		{"plain", "They saved us hours", "SAVED us", "They <mark>saved us</mark> hours"},
		{"kelvin sign", "\u212A-rated & fast service", "k-rated", "<mark>\u212A-rated</mark> &amp; fast service"},
		{"multibyte prefix", "Ünïcode café delivered", "CAFÉ", "Ünïcode <mark>café</mark> delivered"},
		{"no match", "Great team", "slow", "Great team"},
		{"empty highlight", "<b>Great</b>", "", "&lt;b&gt;Great&lt;/b&gt;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := highlightQuote(tt.quote, tt.highlight); got != tt.want {
				t.Fatalf("highlightQuote(%q, %q)\nwant: %q\n got: %q", tt.quote, tt.highlight, tt.want, got)
			}
		})
	}
}
