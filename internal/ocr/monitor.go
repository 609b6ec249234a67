package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultMaxWait      = 120 * time.Second
)

// MonitorConfig holds the polling cadence for the job monitor.
type MonitorConfig struct {
	PollInterval time.Duration
	MaxWait      time.Duration
}

// Monitor submits an extraction job and watches it to completion. Every
// failure mode (submission error, FAILED status, budget exhaustion, empty
// output) collapses to ErrNoText for the caller.
type Monitor struct {
	client Client
	config MonitorConfig
}

func NewMonitor(client Client, config MonitorConfig) *Monitor {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.MaxWait <= 0 {
		config.MaxWait = DefaultMaxWait
	}
	return &Monitor{client: client, config: config}
}

// ExtractText runs the full submit/poll/paginate protocol for the document
// at (bucket, key) and returns the space-joined line text.
func (m *Monitor) ExtractText(ctx context.Context, bucket, key string) (string, error) {
	logCtx := slog.With("bucket", bucket, "key", key)

	jobID, err := m.client.StartTextDetection(ctx, bucket, key)
	if err != nil {
		logCtx.Error("Failed to start text detection job.", "error", err)
		return "", fmt.Errorf("start text detection for %s: %w", key, ErrNoText)
	}
	logCtx = logCtx.With("jobId", jobID)
	logCtx.Info("Started text detection job.")

	status, err := m.awaitTerminalStatus(ctx, logCtx, jobID)
	if err != nil {
		return "", err
	}
	if status != StatusSucceeded {
		logCtx.Error("Text detection job did not succeed.", "status", string(status))
		return "", fmt.Errorf("job %s finished with status %s: %w", jobID, status, ErrNoText)
	}

	text, err := m.collectLines(ctx, jobID)
	if err != nil {
		logCtx.Error("Failed to retrieve text detection results.", "error", err)
		return "", fmt.Errorf("collect results of job %s: %w", jobID, ErrNoText)
	}

	// The service saying SUCCEEDED is not the same as usable text coming out.
	if strings.TrimSpace(text) == "" {
		logCtx.Error("Text detection job succeeded but produced no line text.")
		return "", fmt.Errorf("job %s produced no line text: %w", jobID, ErrNoText)
	}

	logCtx.Info("Text detection complete.", "characters", len(text))
	return text, nil
}

// awaitTerminalStatus polls at a fixed interval until the job reports
// SUCCEEDED or FAILED, or the wait budget runs out.
func (m *Monitor) awaitTerminalStatus(ctx context.Context, logCtx *slog.Logger, jobID string) (JobStatus, error) {
	start := time.Now()
	for time.Since(start) < m.config.MaxWait {
		page, err := m.client.GetTextDetection(ctx, jobID, "")
		if err != nil {
			logCtx.Error("Failed to poll job status.", "error", err)
			return "", fmt.Errorf("poll job %s: %w", jobID, ErrNoText)
		}
		logCtx.Info("Polled job status.", "status", string(page.Status))
		if page.Status == StatusSucceeded || page.Status == StatusFailed {
			return page.Status, nil
		}

		select {
		case <-time.After(m.config.PollInterval):
		case <-ctx.Done():
			logCtx.Error("Context cancelled while waiting for job.", "error", ctx.Err())
			return "", fmt.Errorf("wait for job %s: %w", jobID, ErrNoText)
		}
	}

	logCtx.Error("Timed out waiting for text detection job.", "maxWait", m.config.MaxWait.String())
	return "", fmt.Errorf("job %s did not finish within %s: %w", jobID, m.config.MaxWait, ErrNoText)
}

// collectLines pages through the job results and gathers every LINE block,
// in page order then in-page order, joined with single spaces.
func (m *Monitor) collectLines(ctx context.Context, jobID string) (string, error) {
	var lines []string
	nextToken := ""
	for {
		page, err := m.client.GetTextDetection(ctx, jobID, nextToken)
		if err != nil {
			return "", err
		}
		for _, block := range page.Blocks {
			if block.BlockType == BlockTypeLine {
				lines = append(lines, block.Text)
			}
		}
		nextToken = page.NextToken
		if nextToken == "" {
			break
		}
	}
	return strings.Join(lines, " "), nil
}
