package sections

import (
	"bytes"
	"strings"
)

func ctaRenderer(buf *bytes.Buffer, props Props) error {
	var builder strings.Builder
	openSection(&builder, "cta", props)
	builder.WriteString(`<div class="lp-container lp-cta__grid">`)
	builder.WriteString(`<div class="lp-cta__copy">`)
	writeText(&builder, "h2", "lp-cta__headline", props.String("headline", "Ready to get started?"))
	writeText(&builder, "p", "lp-cta__subheadline", props.String("subheadline", ""))
	writeText(&builder, "p", "lp-cta__urgency", props.String("urgency", ""))

	if steps := props.Strings("nextSteps"); len(steps) > 0 {
		builder.WriteString(`<ol class="lp-cta__steps">`)
		for _, step := range steps {
			writeText(&builder, "li", "", step)
		}
		builder.WriteString(`</ol>`)
	}
	if guarantee := props.String("guarantee", ""); guarantee != "" {
		builder.WriteString(`<p class="lp-cta__guarantee">`)
		builder.WriteString(IconSVG("shield"))
		builder.WriteString(`<span>`)
		builder.WriteString(escape(guarantee))
		builder.WriteString(`</span></p>`)
	}
	builder.WriteString(`</div>`)

	// The form markup is produced by the composer and is already escaped.
	formHTML := props.String(RuntimeFormHTML, "")
	switch {
	case props.Bool("formSlot", false) && formHTML != "":
		builder.WriteString(`<div class="lp-cta__form" id="get-started">`)
		builder.WriteString(formHTML)
		builder.WriteString(`</div>`)
	default:
		builder.WriteString(`<div class="lp-cta__actions" id="get-started">`)
		writeButton(&builder, props.String("buttonText", "Get started"), props.String("ctaHref", "#contact"), "lp-button lp-button--primary")
		builder.WriteString(`</div>`)
	}
	builder.WriteString(`</div></section>`)

	buf.WriteString(builder.String())
	return nil
}
