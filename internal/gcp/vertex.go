package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

// --- Sentiment Model Prompts ---
const SentimentSystemPrompt = "You are a sentiment classification tool. Classify the overall sentiment of the provided text as exactly one of POSITIVE, NEGATIVE, NEUTRAL or MIXED. You must output your response as a valid JSON object."
const SentimentUserPrompt = `Classify the overall sentiment of the text that follows.

Rules:
1. The result must be exactly one of: "POSITIVE", "NEGATIVE", "NEUTRAL", "MIXED".
2. Output a single JSON object of the form {"sentiment": "<LABEL>"}.
3. Do not include any text before or after the JSON object.

Text (language: %s):

%s`

// --- Entity Model Prompts ---
const EntitySystemPrompt = "You are a named-entity detection tool. Identify the named entities in the provided text. You must output your response as a valid JSON array."
const EntityUserPrompt = `Detect the named entities in the text that follows.

Rules:
1. Create a JSON object for each entity found.
2. Each object must have exactly three keys:
   - "Text": the entity span exactly as it appears in the text.
   - "Type": one of "PERSON", "ORGANIZATION", "LOCATION", "DATE", "QUANTITY", "TITLE", "EVENT", "COMMERCIAL_ITEM", "OTHER".
   - "Score": your confidence in the detection as a number between 0 and 1.
3. Preserve the order in which entities first appear in the text.
4. The final output MUST be a single, valid JSON array of these objects. Do not include any text before or after the JSON array.

Example output format:
[
  {"Text": "Acme Corp", "Type": "ORGANIZATION", "Score": 0.97},
  {"Text": "March 2024", "Type": "DATE", "Score": 0.91}
]

Text (language: %s):

%s`

// VertexClient holds the pre-configured generative models used by the
// analytics layer.
type VertexClient struct {
	SentimentModel *genai.GenerativeModel
	EntityModel    *genai.GenerativeModel
	baseClient     *genai.Client
}

// NewVertexClient creates a new client holding all necessary models.
func NewVertexClient(ctx context.Context, projectID, region string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	// Both models must return machine-parseable JSON, so force the response
	// MIME type and keep the temperature at zero.
	sentimentModel := baseClient.GenerativeModel("gemini-1.5-flash")
	sentimentModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SentimentSystemPrompt)},
	}
	sentimentModel.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}

	entityModel := baseClient.GenerativeModel("gemini-1.5-flash")
	entityModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(EntitySystemPrompt)},
	}
	entityModel.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}

	return &VertexClient{
		SentimentModel: sentimentModel,
		EntityModel:    entityModel,
		baseClient:     baseClient,
	}, nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
