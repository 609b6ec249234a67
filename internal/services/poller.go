package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Lllllllleong/docanalyzer/internal/blobstore"
	"github.com/Lllllllleong/docanalyzer/internal/models"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultPollMaxWait  = 300 * time.Second
)

// ErrPollTimeout reports that no result appeared within the wait budget.
// It means "processing did not complete in time", not "processing failed":
// the worker may still finish later with no observer.
var ErrPollTimeout = errors.New("poller: timed out waiting for result")

// PollerConfig holds the cadence and budget of one polling session. The
// budget must exceed the OCR monitor's own budget plus analytics latency,
// since the poller sits strictly downstream of the worker's full run.
type PollerConfig struct {
	Interval     time.Duration
	MaxWait      time.Duration
	SignedURLTTL time.Duration
}

// ResultPoller watches the blob store for the derived result of an input
// key. Each call to WaitForResult is an independent session; a single
// poller may serve many concurrent sessions.
type ResultPoller struct {
	store  blobstore.Store
	config PollerConfig
}

func NewResultPoller(store blobstore.Store, config PollerConfig) *ResultPoller {
	if config.Interval <= 0 {
		config.Interval = DefaultPollInterval
	}
	if config.MaxWait <= 0 {
		config.MaxWait = DefaultPollMaxWait
	}
	if config.SignedURLTTL <= 0 {
		config.SignedURLTTL = 3600 * time.Second
	}
	return &ResultPoller{store: store, config: config}
}

// WaitForResult polls for either derived result key of inputKey until one
// exists or the budget elapses. On success it returns the found key and a
// time-limited signed URL for it; on timeout it returns ErrPollTimeout.
func (p *ResultPoller) WaitForResult(ctx context.Context, inputKey string) (string, string, error) {
	candidates := models.CandidateResultKeys(inputKey)
	logCtx := slog.With("inputKey", inputKey)
	logCtx.Info("Waiting for processed result.", "candidates", candidates)

	start := time.Now()
	for time.Since(start) < p.config.MaxWait {
		for _, candidate := range candidates {
			exists, err := p.store.Head(ctx, candidate)
			if err != nil {
				// Transient or permission trouble on a head is not fatal to
				// the session; only the deadline ends an unsuccessful loop.
				logCtx.Warn("Existence check failed.", "candidate", candidate, "error", err)
				continue
			}
			if !exists {
				continue
			}

			// First found wins; no further candidates this round.
			url, err := p.store.SignedURL(candidate, p.config.SignedURLTTL)
			if err != nil {
				logCtx.Warn("Failed to sign URL for found result.", "candidate", candidate, "error", err)
				continue
			}
			logCtx.Info("Found processed result.", "resultKey", candidate)
			return candidate, url, nil
		}

		select {
		case <-time.After(p.config.Interval):
		case <-ctx.Done():
			logCtx.Warn("Polling session cancelled.", "error", ctx.Err())
			return "", "", ctx.Err()
		}
	}

	logCtx.Error("Timed out waiting for processed result.", "maxWait", p.config.MaxWait.String())
	return "", "", ErrPollTimeout
}
