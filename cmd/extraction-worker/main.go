package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/Lllllllleong/docanalyzer/internal/models"
	"github.com/Lllllllleong/docanalyzer/internal/services"
)

var (
	extractorInstance *services.ExtractorFunction
	once              sync.Once
	initErr           error
)

func init() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Register the CloudEvent function. The framework routes each storage
	// event here.
	functions.CloudEvent("ProcessDocument", processDocument)
}

// main is required by the Go Functions Framework.
func main() {}

// eventPayload accepts both trigger shapes: a batched records payload and
// the single-object form the storage layer emits per created object.
type eventPayload struct {
	Records []models.ObjectRecord `json:"records"`
	Bucket  string                `json:"bucket"`
	Name    string                `json:"name"`
}

// processDocument is the Cloud Function entry point.
func processDocument(ctx context.Context, e cloudevents.Event) error {
	// One-time initialization of clients across invocations.
	once.Do(func() {
		extractorInstance, initErr = services.NewExtractor(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	var payload eventPayload
	if err := json.Unmarshal(e.Data(), &payload); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	event := models.StorageEvent{Records: payload.Records}
	if len(event.Records) == 0 && payload.Name != "" {
		event.Records = []models.ObjectRecord{{Bucket: payload.Bucket, Key: payload.Name}}
	}

	// Per-record failures are terminal for that record and already logged;
	// the invocation itself always succeeds so the storage layer does not
	// redeliver.
	extractorInstance.Process(ctx, event)
	return nil
}
