package compose

import (
	"html"
	"strings"

	"github.com/goliatone/go-landing/pkg/overrides"
	"github.com/goliatone/go-landing/pkg/spec"
)

// renderForm builds the lead form markup for the section that declares a
// form slot. Labels and placeholders from formOverrides win over the spec.
func (c *Composer) renderForm(templateID string, fields []spec.FormField, patch *overrides.ContentOverrides, submitText string) string {
	var builder strings.Builder
	builder.WriteString(`<form class="lp-form" method="post" action="#" data-template="`)
	builder.WriteString(html.EscapeString(templateID))
	builder.WriteString(`" novalidate>`)

	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		label := strings.TrimSpace(field.Label)
		placeholder := strings.TrimSpace(field.Placeholder)
		if override, ok := patch.Field(name); ok {
			if override.Label != "" {
				label = override.Label
			}
			if override.Placeholder != "" {
				placeholder = override.Placeholder
			}
		}
		if label == "" {
			label = c.labeler(name)
		}
		builder.WriteString(buildFieldMarkup(field, name, label, placeholder))
	}

	if submitText == "" {
		submitText = "Submit"
	}
	builder.WriteString(`<button type="submit" class="lp-button lp-button--primary">`)
	builder.WriteString(html.EscapeString(submitText))
	builder.WriteString(`</button></form>`)
	return builder.String()
}

func buildFieldMarkup(field spec.FormField, name, label, placeholder string) string {
	id := "lp-field-" + fieldID(name)
	fieldType := normalizeFieldType(field.Type)

	var builder strings.Builder
	builder.WriteString(`<div class="lp-form__field" data-field-type="`)
	builder.WriteString(fieldType)
	builder.WriteString(`">`)

	if fieldType == spec.FieldCheckbox {
		builder.WriteString(`<label class="lp-form__check" for="`)
		builder.WriteString(id)
		builder.WriteString(`"><input type="checkbox"`)
		writeControlAttrs(&builder, id, name, field.Required)
		builder.WriteString(`><span>`)
		builder.WriteString(html.EscapeString(label))
		builder.WriteString(`</span></label></div>`)
		return builder.String()
	}

	builder.WriteString(`<label class="lp-form__label" for="`)
	builder.WriteString(id)
	builder.WriteString(`">`)
	builder.WriteString(html.EscapeString(label))
	if field.Required {
		builder.WriteString(`<span class="lp-form__required" aria-hidden="true">*</span>`)
	}
	builder.WriteString(`</label>`)

	switch fieldType {
	case spec.FieldTextarea:
		builder.WriteString(`<textarea rows="4"`)
		writeControlAttrs(&builder, id, name, field.Required)
		writePlaceholder(&builder, placeholder)
		builder.WriteString(`></textarea>`)
	case spec.FieldSelect:
		builder.WriteString(`<select`)
		writeControlAttrs(&builder, id, name, field.Required)
		builder.WriteString(`>`)
		if placeholder != "" {
			builder.WriteString(`<option value="" disabled selected>`)
			builder.WriteString(html.EscapeString(placeholder))
			builder.WriteString(`</option>`)
		}
		for _, option := range field.Options {
			builder.WriteString(`<option value="`)
			builder.WriteString(html.EscapeString(option))
			builder.WriteString(`">`)
			builder.WriteString(html.EscapeString(option))
			builder.WriteString(`</option>`)
		}
		builder.WriteString(`</select>`)
	default:
		builder.WriteString(`<input type="`)
		builder.WriteString(fieldType)
		builder.WriteString(`"`)
		writeControlAttrs(&builder, id, name, field.Required)
		writePlaceholder(&builder, placeholder)
		builder.WriteString(`>`)
	}
	builder.WriteString(`</div>`)
	return builder.String()
}

func writeControlAttrs(builder *strings.Builder, id, name string, required bool) {
	builder.WriteString(` id="`)
	builder.WriteString(id)
	builder.WriteString(`" name="`)
	builder.WriteString(html.EscapeString(name))
	builder.WriteString(`"`)
	if required {
		builder.WriteString(` required aria-required="true"`)
	}
}

func writePlaceholder(builder *strings.Builder, placeholder string) {
	if placeholder == "" {
		return
	}
	builder.WriteString(` placeholder="`)
	builder.WriteString(html.EscapeString(placeholder))
	builder.WriteString(`"`)
}

// normalizeFieldType maps unknown field types onto text.
func normalizeFieldType(raw string) string {
	fieldType := strings.ToLower(strings.TrimSpace(raw))
	switch fieldType {
	case spec.FieldText, spec.FieldEmail, spec.FieldTel, spec.FieldTextarea,
		spec.FieldSelect, spec.FieldCheckbox, spec.FieldNumber, spec.FieldURL:
		return fieldType
	default:
		return spec.FieldText
	}
}

func fieldID(name string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteByte('-')
		}
	}
	return builder.String()
}
