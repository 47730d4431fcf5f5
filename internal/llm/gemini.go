package llm

import (
	"context"
	"errors"
	"fmt"
	"log"

	genai "google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

var ErrEmptyResponse = errors.New("llm: model returned no text")

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient is a thin wrapper around the official genai client. Each
// Generate is exactly one request: no retries, no streaming, no timeout.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("llm: gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: create gemini client: %w", err)
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

// Generate returns the model's text unmodified.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	log.Printf("LLM request (%s): %d bytes", g.model, len(prompt))

	resp, err := g.cli.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("llm: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
