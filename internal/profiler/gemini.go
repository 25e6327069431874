package profiler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Request is one schema-constrained call to the text-generation service.
type Request struct {
	SystemInstruction string
	Prompt            string
	Schema            Schema
}

// Generator sends a request and returns the raw response text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeminiOptions tunes the generative model.
type GeminiOptions struct {
	Model           string
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
	Timeout         time.Duration
}

var errNoContent = errors.New("no content generated")

type GeminiClient struct {
	client *genai.Client
	opts   GeminiOptions
}

func NewGeminiClient(apiKey string, opts GeminiOptions) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		opts:   opts,
	}, nil
}

func (g *GeminiClient) Close() {
	g.client.Close()
}

// Model reports the configured model name.
func (g *GeminiClient) Model() string {
	return g.opts.Model
}

// Generate issues a JSON-mode request constrained by req.Schema.
func (g *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	model := g.client.GenerativeModel(g.opts.Model)
	if g.opts.Temperature > 0 {
		model.SetTemperature(g.opts.Temperature)
	}
	if g.opts.TopP > 0 {
		model.SetTopP(g.opts.TopP)
	}
	if g.opts.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(g.opts.MaxOutputTokens)
	}
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemInstruction)}}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = req.Schema.GenaiSchema()

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", errNoContent
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}
	return builder.String()
}
