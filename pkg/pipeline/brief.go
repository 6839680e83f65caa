package pipeline

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Contact carries the business contact details collected with a brief.
type Contact struct {
	BusinessName string `json:"businessName,omitempty" yaml:"businessName" validate:"max=120"`
	Email        string `json:"email,omitempty" yaml:"email" validate:"omitempty,email"`
	Phone        string `json:"phone,omitempty" yaml:"phone" validate:"max=40"`
	Website      string `json:"website,omitempty" yaml:"website" validate:"omitempty,url"`
}

// BusinessBrief is the user-supplied description of the business the page is
// generated for.
type BusinessBrief struct {
	ProductService  string            `json:"productService" yaml:"productService" validate:"required,max=600"`
	Offer           string            `json:"offer,omitempty" yaml:"offer" validate:"max=600"`
	Pricing         string            `json:"pricing,omitempty" yaml:"pricing" validate:"max=300"`
	CTA             string            `json:"cta,omitempty" yaml:"cta" validate:"max=80"`
	UniqueValue     string            `json:"uniqueValue,omitempty" yaml:"uniqueValue" validate:"max=600"`
	CustomerLove    string            `json:"customerLove,omitempty" yaml:"customerLove" validate:"max=600"`
	Images          []string          `json:"images,omitempty" yaml:"images" validate:"max=12,dive,required"`
	TemplateAnswers map[string]string `json:"templateAnswers,omitempty" yaml:"templateAnswers"`
	Contact         Contact           `json:"contact" yaml:"contact"`
}

var briefValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// Validate reports missing or oversized brief fields.
func (b BusinessBrief) Validate() error {
	if err := briefValidator().Struct(b); err != nil {
		return fmt.Errorf("pipeline: invalid brief: %w", err)
	}
	return nil
}

// Normalized returns a copy with surrounding whitespace trimmed and empty
// images removed.
func (b BusinessBrief) Normalized() BusinessBrief {
	out := BusinessBrief{
		ProductService: strings.TrimSpace(b.ProductService),
		Offer:          strings.TrimSpace(b.Offer),
		Pricing:        strings.TrimSpace(b.Pricing),
		CTA:            strings.TrimSpace(b.CTA),
		UniqueValue:    strings.TrimSpace(b.UniqueValue),
		CustomerLove:   strings.TrimSpace(b.CustomerLove),
		Contact: Contact{
			BusinessName: strings.TrimSpace(b.Contact.BusinessName),
			Email:        strings.TrimSpace(b.Contact.Email),
			Phone:        strings.TrimSpace(b.Contact.Phone),
			Website:      strings.TrimSpace(b.Contact.Website),
		},
	}
	for _, image := range b.Images {
		if image = strings.TrimSpace(image); image != "" {
			out.Images = append(out.Images, image)
		}
	}
	if len(b.TemplateAnswers) > 0 {
		out.TemplateAnswers = make(map[string]string, len(b.TemplateAnswers))
		for key, value := range b.TemplateAnswers {
			if key, value = strings.TrimSpace(key), strings.TrimSpace(value); key != "" && value != "" {
				out.TemplateAnswers[key] = value
			}
		}
	}
	return out
}
