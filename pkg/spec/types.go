package spec

import (
	"slices"
	"strings"
)

// Category tags the business domain a template targets.
type Category string

const (
	CategoryLeadGeneration Category = "lead-generation"
	CategoryProduct        Category = "product"
	CategoryEvent          Category = "event"
	CategoryService        Category = "service"
	CategorySaaS           Category = "saas"
	CategoryCourse         Category = "course"
)

// Goal names the conversion objective of a template.
type Goal string

const (
	GoalLeadCapture  Goal = "lead-capture"
	GoalSignup       Goal = "signup"
	GoalPurchase     Goal = "purchase"
	GoalBooking      Goal = "booking"
	GoalRegistration Goal = "registration"
	GoalDownload     Goal = "download"
)

var (
	knownCategories = []Category{
		CategoryLeadGeneration, CategoryProduct, CategoryEvent,
		CategoryService, CategorySaaS, CategoryCourse,
	}
	knownGoals = []Goal{
		GoalLeadCapture, GoalSignup, GoalPurchase,
		GoalBooking, GoalRegistration, GoalDownload,
	}
)

// Categories returns the accepted category tags.
func Categories() []Category {
	return slices.Clone(knownCategories)
}

// Goals returns the accepted goal tags.
func Goals() []Goal {
	return slices.Clone(knownGoals)
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	return slices.Contains(knownCategories, c)
}

// Valid reports whether g is one of the enumerated goals.
func (g Goal) Valid() bool {
	return slices.Contains(knownGoals, g)
}

// Form field types understood by the composer. Unknown types render as text.
const (
	FieldText     = "text"
	FieldEmail    = "email"
	FieldTel      = "tel"
	FieldTextarea = "textarea"
	FieldSelect   = "select"
	FieldCheckbox = "checkbox"
	FieldNumber   = "number"
	FieldURL      = "url"
)

// TemplateSpec is the static, versioned description of one landing page
// template. Values returned by a Store are copies; the stored spec is never
// mutated after load.
type TemplateSpec struct {
	TemplateID string            `json:"templateId" yaml:"templateId"`
	Version    string            `json:"version" yaml:"version"`
	Category   Category          `json:"category" yaml:"category"`
	Goal       Goal              `json:"goal" yaml:"goal"`
	Theme      string            `json:"theme" yaml:"theme"`
	Sections   []Section         `json:"sections" yaml:"sections"`
	Assets     map[string]string `json:"assets" yaml:"assets"`
	Form       []FormField       `json:"form" yaml:"form"`
	Metadata   Metadata          `json:"metadata" yaml:"metadata"`
}

// Section is one ordered block of the page.
type Section struct {
	Type  string         `json:"type" yaml:"type"`
	Props map[string]any `json:"props" yaml:"props"`
}

// FormField describes one lead form control.
type FormField struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Label       string   `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool     `json:"required" yaml:"required"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// Metadata carries catalogue information about the template.
type Metadata struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
}

// SectionProps returns a deep copy of the default props for section i, or nil
// when i is out of range.
func (s TemplateSpec) SectionProps(i int) map[string]any {
	if i < 0 || i >= len(s.Sections) {
		return nil
	}
	return cloneMap(s.Sections[i].Props)
}

// SectionIndexes returns the indexes of every section with the given type, in
// spec order.
func (s TemplateSpec) SectionIndexes(sectionType string) []int {
	target := strings.TrimSpace(sectionType)
	var out []int
	for idx, section := range s.Sections {
		if section.Type == target {
			out = append(out, idx)
		}
	}
	return out
}

// FormField looks up a form field by name.
func (s TemplateSpec) FormField(name string) (FormField, bool) {
	for _, field := range s.Form {
		if field.Name == name {
			return field, true
		}
	}
	return FormField{}, false
}

// Clone returns a deep copy of the spec.
func (s TemplateSpec) Clone() TemplateSpec {
	out := s
	if s.Sections != nil {
		out.Sections = make([]Section, len(s.Sections))
		for idx, section := range s.Sections {
			out.Sections[idx] = Section{Type: section.Type, Props: cloneMap(section.Props)}
		}
	}
	if s.Assets != nil {
		out.Assets = make(map[string]string, len(s.Assets))
		for key, value := range s.Assets {
			out.Assets[key] = value
		}
	}
	if s.Form != nil {
		out.Form = make([]FormField, len(s.Form))
		for idx, field := range s.Form {
			field.Options = slices.Clone(field.Options)
			out.Form[idx] = field
		}
	}
	out.Metadata.Tags = slices.Clone(s.Metadata.Tags)
	return out
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = cloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(v)
	default:
		return v
	}
}
