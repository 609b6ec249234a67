package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/Lllllllleong/docanalyzer/internal/gcp"
	"github.com/Lllllllleong/docanalyzer/internal/models"
)

// VertexAnalyzer implements Analyzer on the JSON-mode Vertex AI models.
type VertexAnalyzer struct {
	vertexClient *gcp.VertexClient
}

func NewVertexAnalyzer(vertexClient *gcp.VertexClient) *VertexAnalyzer {
	return &VertexAnalyzer{vertexClient: vertexClient}
}

type sentimentResponse struct {
	Sentiment string `json:"sentiment"`
}

func (a *VertexAnalyzer) DetectSentiment(ctx context.Context, text, languageCode string) (string, error) {
	prompt := genai.Text(fmt.Sprintf(gcp.SentimentUserPrompt, languageCode, text))
	resp, err := a.vertexClient.SentimentModel.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("sentiment detection call failed: %w", err)
	}

	raw := extractText(resp)
	var parsed sentimentResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", fmt.Errorf("failed to parse sentiment response %q: %w", raw, err)
	}

	label := strings.ToUpper(strings.TrimSpace(parsed.Sentiment))
	switch label {
	case models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral, models.SentimentMixed:
		return label, nil
	}
	return "", fmt.Errorf("sentiment model returned unknown label %q", parsed.Sentiment)
}

func (a *VertexAnalyzer) DetectEntities(ctx context.Context, text, languageCode string) ([]models.Entity, error) {
	prompt := genai.Text(fmt.Sprintf(gcp.EntityUserPrompt, languageCode, text))
	resp, err := a.vertexClient.EntityModel.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("entity detection call failed: %w", err)
	}

	raw := extractText(resp)
	var entities []models.Entity
	if err := json.Unmarshal([]byte(raw), &entities); err != nil {
		return nil, fmt.Errorf("failed to parse entity response: %w", err)
	}
	return entities, nil
}

// extractText concatenates the text parts of a model response.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}

	var content strings.Builder
	var textPartsFound int
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			content.WriteString(string(txt))
			textPartsFound++
		}
	}
	if textPartsFound > 1 {
		slog.Warn("Model response contained multiple text parts; they have been concatenated.", "parts", textPartsFound)
	}
	return strings.TrimSpace(content.String())
}
