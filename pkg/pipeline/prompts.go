package pipeline

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/goliatone/go-landing/pkg/render/template"
	"github.com/goliatone/go-landing/pkg/render/template/gotemplate"
)

//go:embed prompts/*.tpl
var promptFiles embed.FS

const (
	draftSystemPrompt   = "You are a senior conversion copywriter. You answer with one JSON object and nothing else."
	enhanceSystemPrompt = "You are an editor who sharpens landing page copy without changing its facts. You answer with one JSON object and nothing else."
)

var defaultPrompts = sync.OnceValues(func() (template.TemplateRenderer, error) {
	sub, err := fs.Sub(promptFiles, "prompts")
	if err != nil {
		return nil, err
	}
	return gotemplate.New(gotemplate.WithFS(sub))
})

type promptSection struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Count int    `json:"count,omitempty"`
}

type draftPromptData struct {
	TemplateID       string          `json:"templateId"`
	Category         string          `json:"category"`
	Goal             string          `json:"goal"`
	Brief            BusinessBrief   `json:"brief"`
	Sections         []promptSection `json:"sections"`
	ServiceCount     int             `json:"serviceCount"`
	TestimonialCount int             `json:"testimonialCount"`
	BadgeCount       int             `json:"badgeCount"`
	StepCount        int             `json:"stepCount"`
	Icons            []string        `json:"icons"`
	AssetSlots       []string        `json:"assetSlots,omitempty"`
	Contract         string          `json:"contract"`
}

type promptField struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
}

type enhancePromptData struct {
	Category    string        `json:"category"`
	Goal        string        `json:"goal"`
	Brief       BusinessBrief `json:"brief"`
	CurrentCopy string        `json:"currentCopy"`
	AssetSlots  []string      `json:"assetSlots,omitempty"`
	FormFields  []promptField `json:"formFields,omitempty"`
	Contract    string        `json:"contract"`
}

func (g *Generator) renderPrompt(name string, data any) (string, error) {
	renderer := g.prompts
	if renderer == nil {
		var err error
		if renderer, err = defaultPrompts(); err != nil {
			return "", fmt.Errorf("pipeline: prompt templates: %w", err)
		}
	}
	out, err := renderer.RenderTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("pipeline: render %s prompt: %w", name, err)
	}
	return out, nil
}
