package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"github.com/joho/godotenv"

	"github.com/Lllllllleong/docanalyzer/internal/blobstore"
	"github.com/Lllllllleong/docanalyzer/internal/gcp"
	"github.com/Lllllllleong/docanalyzer/internal/handler"
	"github.com/Lllllllleong/docanalyzer/internal/services"
)

type serverConfig struct {
	Port           string
	Bucket         string
	PollInterval   time.Duration
	PollMaxWait    time.Duration
	AllowedOrigins []string
}

func loadConfig() (*serverConfig, error) {
	bucket := gcp.GetEnv("BUCKET_NAME", "")
	if bucket == "" {
		return nil, fmt.Errorf("BUCKET_NAME environment variable must be set")
	}

	pollInterval, err := time.ParseDuration(gcp.GetEnv("POLL_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_INTERVAL: %w", err)
	}
	pollMaxWait, err := time.ParseDuration(gcp.GetEnv("POLL_MAX_WAIT", "300s"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_MAX_WAIT: %w", err)
	}

	var origins []string
	if raw := gcp.GetEnv("ALLOWED_ORIGINS", ""); raw != "" {
		origins = strings.Split(raw, ",")
	}

	return &serverConfig{
		Port:           gcp.GetEnv("PORT", "8080"),
		Bucket:         bucket,
		PollInterval:   pollInterval,
		PollMaxWait:    pollMaxWait,
		AllowedOrigins: origins,
	}, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found or could not be loaded.", "error", err)
	}
	if gcp.GetEnv("LOG_FORMAT", "") == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	config, err := loadConfig()
	if err != nil {
		slog.Error("Failed to load configuration.", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		slog.Error("Failed to create storage client.", "error", err)
		os.Exit(1)
	}
	defer storageClient.Close()

	store, err := blobstore.NewGCSStore(storageClient, config.Bucket)
	if err != nil {
		slog.Error("Failed to create blob store.", "error", err)
		os.Exit(1)
	}

	poller := services.NewResultPoller(store, services.PollerConfig{
		Interval: config.PollInterval,
		MaxWait:  config.PollMaxWait,
	})
	documentHandler := handler.NewDocumentHandler(store, poller)
	router := handler.NewRouter(documentHandler, config.AllowedOrigins)

	server := &http.Server{
		Addr:    ":" + config.Port,
		Handler: router,
		// Each upload request holds its connection open for the full poll
		// budget, so the write timeout must sit above it.
		WriteTimeout: config.PollMaxWait + 30*time.Second,
		ReadTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Upload server listening.", "address", server.Addr, "bucket", config.Bucket)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed.", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error.", "error", err)
	}
	slog.Info("Server exited.")
}
