// Package gemini implements capture.ModelExtractor on top of the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/eric1207cvb/expense-capture/internal/domain/capture"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

// Generator sends a prompt and returns the model's raw JSON text.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Extractor asks a generative model for candidate records.
type Extractor struct {
	gen    Generator
	logger *slog.Logger
}

// New wraps an existing generator.
func New(gen Generator, logger *slog.Logger) *Extractor {
	return &Extractor{gen: gen, logger: logger}
}

// NewFromAPIKey creates an extractor backed by the Gemini developer API.
func NewFromAPIKey(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Extractor, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return New(&clientGenerator{client: client, model: model}, logger), nil
}

// Extract implements capture.ModelExtractor.
func (e *Extractor) Extract(ctx context.Context, req capture.ModelRequest) ([]capture.Candidate, error) {
	raw, err := e.gen.GenerateJSON(ctx, buildPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("gemini: generate: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("gemini: empty response from model")
	}

	var candidates []capture.Candidate
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &candidates); err != nil {
		return nil, fmt.Errorf("gemini: unmarshal response: %w", err)
	}

	e.logger.Debug("gemini extraction complete", slog.Int("candidates", len(candidates)))
	return candidates, nil
}

func buildPrompt(req capture.ModelRequest) string {
	names := make([]string, len(req.Categories))
	for i, c := range req.Categories {
		names[i] = string(c)
	}

	var b strings.Builder
	b.WriteString("You extract personal expenses from a short note typed or spoken by the user.\n")
	b.WriteString("The note may mix Chinese and English and may mention several purchases.\n\n")
	b.WriteString("Output STRICT JSON only: an array of objects with these fields:\n")
	b.WriteString("- \"description\": short non-empty label of what was bought\n")
	b.WriteString("- \"amount\": number >= 0, the total paid for that purchase\n")
	b.WriteString("- \"date\": string, ISO format \"YYYY-MM-DD\"\n")
	fmt.Fprintf(&b, "- \"category\": exactly one of: %s\n\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "Today is %s. Resolve words like yesterday or 昨天 against it.\n", req.Today)
	b.WriteString("Do NOT wrap the response in code fences.\n\n")
	b.WriteString("Note: ")
	b.WriteString(req.Text)
	return b.String()
}

// cleanModelJSON drops Markdown fences and any text around the JSON array.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}

type clientGenerator struct {
	client *genai.Client
	model  string
}

func (g *clientGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
