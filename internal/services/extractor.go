package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/docanalyzer/internal/analytics"
	"github.com/Lllllllleong/docanalyzer/internal/blobstore"
	"github.com/Lllllllleong/docanalyzer/internal/gcp"
	"github.com/Lllllllleong/docanalyzer/internal/models"
	"github.com/Lllllllleong/docanalyzer/internal/ocr"
)

// PlaceholderBody is the full result body written when no text could be
// extracted from an input. It is a single line with no sentiment or entity
// lines following it.
const PlaceholderBody = "No text was extracted from the file."

// StoreFactory resolves the blob store for the bucket named in an event
// record.
type StoreFactory func(bucket string) blobstore.Store

// ExtractorConfig holds all configuration for the extraction worker.
type ExtractorConfig struct {
	ProjectID      string
	VertexAIRegion string
	OCREndpoint    string
	OCRAPIKey      string
	OCRInterval    time.Duration
	OCRMaxWait     time.Duration
	SignedURLTTL   time.Duration
}

// ExtractorFunction holds the dependencies for the extraction logic. One
// instance serves many concurrent invocations; it carries no per-invocation
// state.
type ExtractorFunction struct {
	stores   StoreFactory
	monitor  *ocr.Monitor
	analyzer analytics.Analyzer
	config   ExtractorConfig
}

func loadExtractorConfig() (*ExtractorConfig, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	ocrEndpoint := gcp.GetEnv("OCR_ENDPOINT", "")
	if ocrEndpoint == "" {
		return nil, fmt.Errorf("OCR_ENDPOINT environment variable must be set")
	}

	ocrInterval, err := time.ParseDuration(gcp.GetEnv("OCR_POLL_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid OCR_POLL_INTERVAL: %w", err)
	}
	ocrMaxWait, err := time.ParseDuration(gcp.GetEnv("OCR_MAX_WAIT", "120s"))
	if err != nil {
		return nil, fmt.Errorf("invalid OCR_MAX_WAIT: %w", err)
	}

	return &ExtractorConfig{
		ProjectID:      projectID,
		VertexAIRegion: gcp.GetEnv("VERTEX_AI_REGION", "us-central1"),
		OCREndpoint:    ocrEndpoint,
		OCRAPIKey:      gcp.GetEnv("OCR_API_KEY", ""),
		OCRInterval:    ocrInterval,
		OCRMaxWait:     ocrMaxWait,
		SignedURLTTL:   3600 * time.Second,
	}, nil
}

// NewExtractor creates a fully wired ExtractorFunction from the environment.
func NewExtractor(ctx context.Context) (*ExtractorFunction, error) {
	config, err := loadExtractorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	vertexClient, err := gcp.NewVertexClient(ctx, config.ProjectID, config.VertexAIRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}

	ocrClient, err := ocr.NewHTTPClient(config.OCREndpoint, config.OCRAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ocr client: %w", err)
	}

	stores := func(bucket string) blobstore.Store {
		store, _ := blobstore.NewGCSStore(storageClient, bucket)
		return store
	}

	return NewExtractorWithDeps(
		stores,
		ocr.NewMonitor(ocrClient, ocr.MonitorConfig{PollInterval: config.OCRInterval, MaxWait: config.OCRMaxWait}),
		analytics.NewVertexAnalyzer(vertexClient),
		*config,
	), nil
}

// NewExtractorWithDeps wires an ExtractorFunction from explicit
// dependencies. Tests use it to substitute fakes.
func NewExtractorWithDeps(stores StoreFactory, monitor *ocr.Monitor, analyzer analytics.Analyzer, config ExtractorConfig) *ExtractorFunction {
	if config.SignedURLTTL <= 0 {
		config.SignedURLTTL = 3600 * time.Second
	}
	return &ExtractorFunction{
		stores:   stores,
		monitor:  monitor,
		analyzer: analyzer,
		config:   config,
	}
}

// Process handles one trigger invocation. Each record is handled
// independently: a record's failure is terminal for that record only, is
// logged where it occurs, and never fails the invocation. There is no
// status channel back to the uploader, and retrying here would break the
// per-blob at-most-once result contract.
func (f *ExtractorFunction) Process(ctx context.Context, event models.StorageEvent) {
	if len(event.Records) == 0 {
		slog.Warn("Event contained no object records.")
		return
	}

	for _, record := range event.Records {
		if err := f.processRecord(ctx, record); err != nil {
			slog.Error("Record processing failed.", "bucket", record.Bucket, "key", record.Key, "error", err)
		}
	}
}

func (f *ExtractorFunction) processRecord(ctx context.Context, record models.ObjectRecord) error {
	logCtx := slog.With("bucket", record.Bucket, "key", record.Key)
	logCtx.Info("Processing new object.")

	// A result write is itself a storage event. Recognize our own output or
	// loop forever.
	if models.IsResultKey(record.Key) {
		logCtx.Info("SKIPPING: object is already a derived result.")
		return nil
	}

	store := f.stores(record.Bucket)

	text, err := f.extractText(ctx, logCtx, store, record)
	if err != nil {
		return err
	}

	resultKey := models.DeriveResultKey(record.Key)

	if strings.TrimSpace(text) == "" {
		logCtx.Info("No text found; writing placeholder result.", "resultKey", resultKey)
		if err := store.Put(ctx, resultKey, []byte(PlaceholderBody), "text/plain"); err != nil {
			return fmt.Errorf("failed to write placeholder result: %w", err)
		}
		return nil
	}

	wordCount := len(strings.Fields(text))
	logCtx.Info("Text extracted.", "wordCount", wordCount)

	sentiment, err := f.analyzer.DetectSentiment(ctx, text, analytics.LanguageCode)
	if err != nil {
		return fmt.Errorf("sentiment analysis failed: %w", err)
	}
	entities, err := f.analyzer.DetectEntities(ctx, text, analytics.LanguageCode)
	if err != nil {
		return fmt.Errorf("entity analysis failed: %w", err)
	}
	if entities == nil {
		entities = []models.Entity{}
	}

	entityJSON, err := json.Marshal(entities)
	if err != nil {
		return fmt.Errorf("failed to encode entities: %w", err)
	}

	body := fmt.Sprintf("Word count: %d\nSentiment: %s\nEntities: %s", wordCount, sentiment, entityJSON)
	if err := store.Put(ctx, resultKey, []byte(body), "text/plain"); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	logCtx.Info("Saved result.", "resultKey", resultKey)

	// Courtesy log only. The uploader derives its own signed URL after its
	// poll finds the key.
	if url, err := store.SignedURL(resultKey, f.config.SignedURLTTL); err != nil {
		logCtx.Warn("Could not generate signed URL for result.", "error", err)
	} else {
		logCtx.Info("Result available.", "signedUrl", url)
	}
	return nil
}

// extractText resolves the raw text for a record based on its extension.
// Unrecognized extensions yield empty text, which downstream becomes the
// placeholder result.
func (f *ExtractorFunction) extractText(ctx context.Context, logCtx *slog.Logger, store blobstore.Store, record models.ObjectRecord) (string, error) {
	switch {
	case strings.HasSuffix(record.Key, ".txt"):
		body, err := store.Get(ctx, record.Key)
		if err != nil {
			return "", fmt.Errorf("failed to read text object: %w", err)
		}
		// Best-effort decode: invalid UTF-8 degrades the text, it does not
		// abort the pipeline.
		return strings.ToValidUTF8(string(body), "�"), nil

	case strings.HasSuffix(record.Key, ".pdf"):
		text, err := f.monitor.ExtractText(ctx, record.Bucket, record.Key)
		if err != nil {
			if errors.Is(err, ocr.ErrNoText) {
				return "", fmt.Errorf("text extraction produced nothing usable: %w", err)
			}
			return "", err
		}
		return text, nil

	default:
		logCtx.Info("Unrecognized extension; treating as empty text.")
		return "", nil
	}
}
