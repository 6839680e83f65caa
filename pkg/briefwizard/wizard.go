// Package briefwizard collects a pipeline.BusinessBrief interactively.
package briefwizard

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/goliatone/go-landing/pkg/pipeline"
	"github.com/goliatone/go-landing/pkg/spec"
)

// ErrAborted signals the user interrupted the wizard.
var ErrAborted = errors.New("briefwizard: aborted")

// Question is a template-specific prompt whose answer lands in
// BusinessBrief.TemplateAnswers under Key.
type Question struct {
	Key     string
	Message string
	Options []string
}

var categoryQuestions = map[spec.Category][]Question{
	spec.CategorySaaS: {
		{Key: "teamSize", Message: "Typical customer team size?", Options: []string{"1-10", "11-50", "51-200", "200+"}},
		{Key: "integrations", Message: "Key integrations (comma separated)?"},
	},
	spec.CategoryLeadGeneration: {
		{Key: "leadMagnet", Message: "What do visitors get for their details?"},
		{Key: "followUp", Message: "How quickly do you follow up?", Options: []string{"Same day", "Within 48 hours", "This week"}},
	},
	spec.CategoryEvent: {
		{Key: "eventDate", Message: "When is the event?"},
		{Key: "venue", Message: "Where does it take place?"},
	},
	spec.CategoryService: {
		{Key: "serviceArea", Message: "Which area do you serve?"},
	},
	spec.CategoryProduct: {
		{Key: "shipping", Message: "Shipping or delivery details?"},
	},
	spec.CategoryCourse: {
		{Key: "format", Message: "Course format?", Options: []string{"Self-paced", "Live cohort", "Hybrid"}},
		{Key: "duration", Message: "How long does the course run?"},
	},
}

// Questions returns the template-specific questions for category.
func Questions(category spec.Category) []Question {
	return append([]Question(nil), categoryQuestions[category]...)
}

// Run asks for every brief field in order and returns the normalized brief.
// tpl selects the extra template questions; a zero spec asks none.
func Run(ctx context.Context, driver PromptDriver, tpl spec.TemplateSpec) (pipeline.BusinessBrief, error) {
	if driver == nil {
		driver = NewSurveyDriver()
	}
	w := &wizard{ctx: ctx, driver: driver}

	var brief pipeline.BusinessBrief
	if tpl.Metadata.Name != "" {
		w.info(fmt.Sprintf("Building a brief for %q", tpl.Metadata.Name))
	}

	brief.ProductService = w.text("What do you sell?", "Describe the product or service in a sentence or two.")
	brief.Offer = w.input("What is the offer?", "", "e.g. 14-day free trial", nil)
	brief.Pricing = w.input("Pricing?", "", "", nil)
	brief.CTA = w.input("Call to action button text?", "Get started", "", nil)
	brief.UniqueValue = w.text("Why choose you over alternatives?", "")
	brief.CustomerLove = w.text("What do customers love about you?", "")
	brief.Images = splitList(w.input("Image URLs (comma separated, optional)", "", "", nil))

	brief.Contact.BusinessName = w.input("Business name?", "", "", nil)
	brief.Contact.Email = w.input("Contact email?", "", "", optionalEmail)
	brief.Contact.Phone = w.input("Contact phone?", "", "", nil)
	brief.Contact.Website = w.input("Website?", "", "", nil)

	for _, q := range Questions(tpl.Category) {
		answer := w.ask(q)
		if strings.TrimSpace(answer) == "" {
			continue
		}
		if brief.TemplateAnswers == nil {
			brief.TemplateAnswers = make(map[string]string)
		}
		brief.TemplateAnswers[q.Key] = answer
	}
	if w.err != nil {
		return pipeline.BusinessBrief{}, w.err
	}

	brief = brief.Normalized()
	if err := brief.Validate(); err != nil {
		return pipeline.BusinessBrief{}, err
	}
	return brief, nil
}

// wizard keeps the first error and turns later prompts into no-ops.
type wizard struct {
	ctx    context.Context
	driver PromptDriver
	err    error
}

func (w *wizard) input(message, def, help string, validate func(string) error) string {
	if w.err != nil {
		return ""
	}
	out, err := w.driver.Input(w.ctx, InputConfig{Message: message, Default: def, Help: help, Validator: validate})
	w.err = err
	return out
}

func (w *wizard) text(message, help string) string {
	if w.err != nil {
		return ""
	}
	out, err := w.driver.TextArea(w.ctx, TextAreaConfig{Message: message, Help: help})
	w.err = err
	return out
}

func (w *wizard) ask(q Question) string {
	if len(q.Options) == 0 {
		return w.input(q.Message, "", "", nil)
	}
	if w.err != nil {
		return ""
	}
	idx, err := w.driver.Select(w.ctx, SelectConfig{Message: q.Message, Options: q.Options, DefaultIndex: -1})
	if err != nil {
		w.err = err
		return ""
	}
	if idx < 0 || idx >= len(q.Options) {
		return ""
	}
	return q.Options[idx]
}

func (w *wizard) info(msg string) {
	if w.err != nil {
		return
	}
	w.err = w.driver.Info(w.ctx, msg)
}

func optionalEmail(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return errors.New("enter a valid email address")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
