package sections

import (
	"bytes"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"
)

func escape(text string) string {
	return html.EscapeString(text)
}

func trustBadgesRenderer(buf *bytes.Buffer, props Props) error {
	var builder strings.Builder
	openSection(&builder, "trust-badges", props)
	builder.WriteString(`<div class="lp-container">`)
	writeText(&builder, "h2", "lp-section__title", props.String("title", ""))
	builder.WriteString(`<ul class="lp-badges">`)
	for _, item := range props.List("badges") {
		label, icon := badgeParts(item)
		if label == "" {
			continue
		}
		builder.WriteString(`<li class="lp-badge">`)
		builder.WriteString(IconSVG(icon))
		builder.WriteString(`<span>`)
		builder.WriteString(escape(label))
		builder.WriteString(`</span></li>`)
	}
	builder.WriteString(`</ul></div></section>`)

	buf.WriteString(builder.String())
	return nil
}

// badgeParts accepts either a bare label or an object with label and icon.
func badgeParts(item any) (string, string) {
	switch v := item.(type) {
	case string:
		return strings.TrimSpace(v), DefaultIcon
	case map[string]any:
		badge := Props(v)
		label := badge.String("label", badge.String("text", ""))
		return label, badge.String("icon", DefaultIcon)
	}
	return "", ""
}

func testimonialsRenderer(buf *bytes.Buffer, props Props) error {
	var builder strings.Builder
	openSection(&builder, "testimonials", props)
	builder.WriteString(`<div class="lp-container">`)
	writeText(&builder, "h2", "lp-section__title", props.String("title", "What our customers say"))
	builder.WriteString(`<div class="lp-testimonials">`)
	for _, item := range props.Items("testimonials") {
		quote := item.String("quote", "")
		if quote == "" {
			continue
		}
		rating := ClampRating(item.Int("rating", 5))

		builder.WriteString(`<figure class="lp-testimonial">`)
		builder.WriteString(`<div class="lp-rating" aria-label="`)
		builder.WriteString(strconv.Itoa(rating))
		builder.WriteString(` out of 5 stars">`)
		for star := 1; star <= 5; star++ {
			if star <= rating {
				builder.WriteString(`<span class="lp-star lp-star--on">&#9733;</span>`)
			} else {
				builder.WriteString(`<span class="lp-star">&#9734;</span>`)
			}
		}
		builder.WriteString(`</div>`)
		builder.WriteString(`<blockquote class="lp-testimonial__quote">`)
		builder.WriteString(highlightQuote(quote, item.String("highlight", "")))
		builder.WriteString(`</blockquote>`)
		builder.WriteString(`<figcaption class="lp-testimonial__author">`)
		writeText(&builder, "strong", "", item.String("name", "Happy customer"))
		writeText(&builder, "span", "lp-testimonial__role", item.String("title", ""))
		builder.WriteString(`</figcaption></figure>`)
	}
	builder.WriteString(`</div></div></section>`)

	buf.WriteString(builder.String())
	return nil
}

// highlightQuote escapes the quote and wraps the first occurrence of the
// highlight phrase in <mark>. The match is case-insensitive.
func highlightQuote(quote, highlight string) string {
	start, end := foldIndex(quote, highlight)
	if start < 0 {
		return escape(quote)
	}
	return escape(quote[:start]) + "<mark>" + escape(quote[start:end]) + "</mark>" + escape(quote[end:])
}

// foldIndex returns the byte range of the first window of quote that equals
// phrase under simple case folding, or -1, -1.
func foldIndex(quote, phrase string) (int, int) {
	runes := utf8.RuneCountInString(phrase)
	if runes == 0 {
		return -1, -1
	}
	for start := range quote {
		end, count := start, 0
		for count < runes && end < len(quote) {
			_, size := utf8.DecodeRuneInString(quote[end:])
			end += size
			count++
		}
		if count < runes {
			break
		}
		if strings.EqualFold(quote[start:end], phrase) {
			return start, end
		}
	}
	return -1, -1
}
