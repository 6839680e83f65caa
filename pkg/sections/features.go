package sections

import (
	"bytes"
	"strings"
)

func servicesRenderer(buf *bytes.Buffer, props Props) error {
	var builder strings.Builder
	openSection(&builder, "services", props)
	builder.WriteString(`<div class="lp-container">`)
	writeText(&builder, "h2", "lp-section__title", props.String("title", "What we offer"))
	writeText(&builder, "p", "lp-section__subtitle", props.String("subtitle", ""))
	builder.WriteString(`<div class="lp-cards">`)
	for _, item := range props.Items("services") {
		title := item.String("title", "")
		if title == "" {
			continue
		}
		builder.WriteString(`<article class="lp-card">`)
		builder.WriteString(`<span class="lp-card__icon">`)
		builder.WriteString(IconSVG(item.String("icon", DefaultIcon)))
		builder.WriteString(`</span>`)
		writeText(&builder, "h3", "lp-card__title", title)
		writeText(&builder, "p", "lp-card__body", item.String("description", ""))
		writeText(&builder, "p", "lp-card__benefit", item.String("benefit", ""))
		builder.WriteString(`</article>`)
	}
	builder.WriteString(`</div></div></section>`)

	buf.WriteString(builder.String())
	return nil
}

func showcaseRenderer(buf *bytes.Buffer, props Props) error {
	var builder strings.Builder
	openSection(&builder, "showcase", props)
	builder.WriteString(`<div class="lp-container">`)
	writeText(&builder, "h2", "lp-section__title", props.String("title", "See it in action"))
	writeText(&builder, "p", "lp-section__subtitle", props.String("subtitle", ""))
	builder.WriteString(`<div class="lp-showcase__grid">`)
	writeImage(&builder, props, "primaryImage", "lp-showcase__primary", props.String("primaryCaption", ""))
	writeImage(&builder, props, "secondaryImage", "lp-showcase__secondary", props.String("secondaryCaption", ""))
	builder.WriteString(`</div></div></section>`)

	buf.WriteString(builder.String())
	return nil
}
