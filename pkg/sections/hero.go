package sections

import (
	"bytes"
	"strings"
)

func heroRenderer(buf *bytes.Buffer, props Props) error {
	var builder strings.Builder
	openSection(&builder, "hero", props, props.String("variant", ""))

	builder.WriteString(`<div class="lp-container lp-hero__grid">`)
	builder.WriteString(`<div class="lp-hero__copy">`)
	writeText(&builder, "p", "lp-eyebrow", props.String("eyebrow", ""))
	writeText(&builder, "h1", "lp-hero__headline", props.String("headline", "Grow faster with less effort"))
	writeText(&builder, "p", "lp-hero__subheadline", props.String("subheadline", ""))
	builder.WriteString(`<div class="lp-hero__actions">`)
	writeButton(&builder, props.String("ctaText", "Get started"), props.String("ctaHref", ""), "lp-button lp-button--primary")
	builder.WriteString(`</div>`)
	if badge := props.String("trustBadge", ""); badge != "" {
		builder.WriteString(`<p class="lp-hero__trust">`)
		builder.WriteString(IconSVG("shield"))
		builder.WriteString(`<span>`)
		builder.WriteString(escape(badge))
		builder.WriteString(`</span></p>`)
	}
	builder.WriteString(`</div>`)

	writeImage(&builder, props, "heroImage", "lp-hero__media", "")
	builder.WriteString(`</div></section>`)

	buf.WriteString(builder.String())
	return nil
}
