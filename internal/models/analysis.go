package models

// Sentiment labels produced by the analytics collaborator.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
	SentimentMixed    = "MIXED"
)

// Entity is a text span tagged with a semantic type and a confidence score.
// The JSON field names are part of the result blob format and must not change
// without a format version bump.
type Entity struct {
	Text  string  `json:"Text"`
	Type  string  `json:"Type"`
	Score float64 `json:"Score"`
}

// AnalysisResult holds the outcome of analyzing one document's text. It lives
// in memory only; the worker serializes it once into the result blob.
type AnalysisResult struct {
	WordCount int
	Sentiment string
	Entities  []Entity
}
