package copywriter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGenAIModel = "gemini-2.5-flash"

// GenAIClient calls Google's Gemini API through the genai SDK.
type GenAIClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

var _ Client = (*GenAIClient)(nil)

// NewGenAIClient creates a Gemini-backed client.
func NewGenAIClient(ctx context.Context, apiKey, model string, temperature float64) (*GenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("copywriter: genai api key is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultGenAIModel
	}
	if temperature == 0 {
		temperature = defaultTemperature
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("copywriter: create genai client: %w", err)
	}
	return &GenAIClient{client: client, model: model, temperature: float32(temperature)}, nil
}

// Complete sends one GenerateContent request.
func (c *GenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	temperature := c.temperature
	if req.Temperature != 0 {
		temperature = float32(req.Temperature)
	}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}
	if system := strings.TrimSpace(req.System); system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("copywriter: genai generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
