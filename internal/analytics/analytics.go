// Package analytics wraps the synchronous text-analytics collaborator:
// sentiment classification and named-entity detection over extracted text.
package analytics

import (
	"context"

	"github.com/Lllllllleong/docanalyzer/internal/models"
)

// LanguageCode is the fixed language tag sent with every analytics call.
const LanguageCode = "en"

// Analyzer is the contract the worker requires from the analytics service.
// The two detections are independent calls; either may fail on its own.
type Analyzer interface {
	DetectSentiment(ctx context.Context, text, languageCode string) (string, error)
	DetectEntities(ctx context.Context, text, languageCode string) ([]models.Entity, error)
}
