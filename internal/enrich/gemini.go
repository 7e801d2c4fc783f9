package enrich

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/utils"
)

// Gemini generates insights and suggestions through the Google Gemini
// API using the official SDK.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

var (
	_ Enricher  = (*Gemini)(nil)
	_ Suggester = (*Gemini)(nil)
)

// NewGemini creates a Gemini-backed enricher.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-3-flash-preview"
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Close closes the client connection
func (g *Gemini) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

// Enrich implements Enricher.
func (g *Gemini) Enrich(ctx context.Context, spot *models.Spot) (*Insight, error) {
	raw, err := g.generate(ctx, enrichPrompt(spot))
	if err != nil {
		return nil, err
	}

	var insight Insight
	if err := json.Unmarshal([]byte(utils.SanitizeJSON(raw)), &insight); err != nil {
		return nil, fmt.Errorf("failed to parse enrichment response: %w", err)
	}
	return &insight, nil
}

// Suggest implements Suggester.
func (g *Gemini) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = 5
	}

	raw, err := g.generate(ctx, suggestPrompt(query, limit))
	if err != nil {
		return nil, err
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(utils.SanitizeJSON(raw)), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion response: %w", err)
	}
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// generate sends a prompt and concatenates the text parts of the first
// candidate.
func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var fullText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText += string(txt)
		}
	}
	return fullText, nil
}
