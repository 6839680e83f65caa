package sections

import (
	"html"
	"net/url"
	"strings"
	"unicode"
)

const stylesheetPrefix = "/assets/sections/"

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// landing-page archetypes.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister("hero", Descriptor{
		Renderer:    heroRenderer,
		Stylesheets: []string{stylesheetPrefix + "base.css", stylesheetPrefix + "hero.css"},
	})
	registry.MustRegister("trust-badges", Descriptor{
		Renderer:    trustBadgesRenderer,
		Stylesheets: []string{stylesheetPrefix + "base.css", stylesheetPrefix + "proof.css"},
	})
	registry.MustRegister("services", Descriptor{
		Renderer:    servicesRenderer,
		Stylesheets: []string{stylesheetPrefix + "base.css", stylesheetPrefix + "features.css"},
	})
	registry.MustRegister("showcase", Descriptor{
		Renderer:    showcaseRenderer,
		Stylesheets: []string{stylesheetPrefix + "base.css", stylesheetPrefix + "features.css"},
	})
	registry.MustRegister("testimonials", Descriptor{
		Renderer:    testimonialsRenderer,
		Stylesheets: []string{stylesheetPrefix + "base.css", stylesheetPrefix + "proof.css"},
	})
	registry.MustRegister("cta", Descriptor{
		Renderer:    ctaRenderer,
		Stylesheets: []string{stylesheetPrefix + "base.css", stylesheetPrefix + "cta.css"},
	})

	return registry
}

func openSection(builder *strings.Builder, sectionType string, props Props, classes ...string) {
	builder.WriteString(`<section class="lp-section lp-`)
	builder.WriteString(sectionType)
	if extra := sanitizeClassList(strings.Join(classes, " ")); extra != "" {
		builder.WriteByte(' ')
		builder.WriteString(extra)
	}
	builder.WriteString(`" data-section="`)
	builder.WriteString(sectionType)
	builder.WriteString(`"`)
	if idx, ok := ToInt(props[RuntimeSectionIndex]); ok {
		builder.WriteString(` data-section-index="`)
		builder.WriteString(html.EscapeString(stringOf(idx)))
		builder.WriteString(`"`)
	}
	if anchor := sanitizeAnchor(props.String("anchor", "")); anchor != "" {
		builder.WriteString(` id="`)
		builder.WriteString(anchor)
		builder.WriteString(`"`)
	}
	builder.WriteString(`>`)
}

func writeText(builder *strings.Builder, tag, class, text string) {
	if text == "" {
		return
	}
	builder.WriteString(`<`)
	builder.WriteString(tag)
	if class != "" {
		builder.WriteString(` class="`)
		builder.WriteString(class)
		builder.WriteString(`"`)
	}
	builder.WriteString(`>`)
	builder.WriteString(html.EscapeString(text))
	builder.WriteString(`</`)
	builder.WriteString(tag)
	builder.WriteString(`>`)
}

func writeAttr(builder *strings.Builder, name, value string) {
	builder.WriteByte(' ')
	builder.WriteString(name)
	builder.WriteString(`="`)
	builder.WriteString(html.EscapeString(value))
	builder.WriteString(`"`)
}

// writeImage renders a figure for an asset prop using the runtime fields the
// composer injected. Nothing is written when no source was resolved.
func writeImage(builder *strings.Builder, props Props, prop, class, caption string) {
	src := props.String(RuntimeSrc(prop), "")
	if src == "" {
		return
	}
	builder.WriteString(`<figure class="`)
	builder.WriteString(class)
	builder.WriteString(`">`)
	builder.WriteString(`<img`)
	writeAttr(builder, "src", src)
	writeAttr(builder, "alt", props.String(RuntimeAlt(prop), ""))
	builder.WriteString(` loading="lazy" decoding="async"`)
	if fallback := props.String(RuntimeFallback(prop), ""); fallback != "" && fallback != src {
		writeAttr(builder, "data-fallback-src", fallback)
		builder.WriteString(` onerror="if(this.dataset.fallbackSrc&&this.src!==this.dataset.fallbackSrc){this.src=this.dataset.fallbackSrc}"`)
	}
	builder.WriteString(`>`)
	if caption != "" || props.String(RuntimeCredit(prop), "") != "" {
		builder.WriteString(`<figcaption>`)
		if caption != "" {
			builder.WriteString(html.EscapeString(caption))
		}
		if credit := props.String(RuntimeCredit(prop), ""); credit != "" {
			builder.WriteString(`<small class="lp-credit">`)
			builder.WriteString(html.EscapeString(credit))
			builder.WriteString(`</small>`)
		}
		builder.WriteString(`</figcaption>`)
	}
	builder.WriteString(`</figure>`)
}

func writeButton(builder *strings.Builder, text, href, class string) {
	if text == "" {
		return
	}
	builder.WriteString(`<a`)
	writeAttr(builder, "class", class)
	writeAttr(builder, "href", safeHref(href))
	builder.WriteString(`>`)
	builder.WriteString(html.EscapeString(text))
	builder.WriteString(`</a>`)
}

func safeHref(href string) string {
	const fallback = "#get-started"

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, href)
	if cleaned == "" {
		return fallback
	}
	parsed, err := url.Parse(cleaned)
	if err != nil {
		return fallback
	}
	switch strings.ToLower(parsed.Scheme) {
	case "", "http", "https", "mailto", "tel":
	default:
		return fallback
	}
	if parsed.Scheme == "" && strings.Contains(strings.SplitN(cleaned, "/", 2)[0], ":") {
		return fallback
	}
	return cleaned
}

func sanitizeClassList(raw string) string {
	fields := strings.Fields(raw)
	out := fields[:0]
	for _, field := range fields {
		if isClassToken(field) {
			out = append(out, field)
		}
	}
	return strings.Join(out, " ")
}

func isClassToken(token string) bool {
	for _, r := range token {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == ':', r == '/':
		default:
			return false
		}
	}
	return token != ""
}

func sanitizeAnchor(raw string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			builder.WriteRune(r)
		case r == ' ':
			builder.WriteByte('-')
		}
	}
	return builder.String()
}
