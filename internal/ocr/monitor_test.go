package ocr

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockClient scripts the extraction service's responses.
type mockClient struct {
	startFunc func(ctx context.Context, bucket, key string) (string, error)
	getFunc   func(ctx context.Context, jobID, nextToken string) (*ResultPage, error)
}

func (m *mockClient) StartTextDetection(ctx context.Context, bucket, key string) (string, error) {
	return m.startFunc(ctx, bucket, key)
}

func (m *mockClient) GetTextDetection(ctx context.Context, jobID, nextToken string) (*ResultPage, error) {
	return m.getFunc(ctx, jobID, nextToken)
}

func fastConfig() MonitorConfig {
	return MonitorConfig{PollInterval: 5 * time.Millisecond, MaxWait: 100 * time.Millisecond}
}

func TestExtractText_PaginatesAndJoinsLines(t *testing.T) {
	pages := map[string]*ResultPage{
		"": {
			Status:    StatusSucceeded,
			Blocks:    []Block{{BlockType: "LINE", Text: "hello"}, {BlockType: "WORD", Text: "ignored"}},
			NextToken: "page-2",
		},
		"page-2": {
			Status: StatusSucceeded,
			Blocks: []Block{{BlockType: "LINE", Text: "world"}, {BlockType: "LINE", Text: "again"}},
		},
	}
	client := &mockClient{
		startFunc: func(ctx context.Context, bucket, key string) (string, error) { return "job-1", nil },
		getFunc: func(ctx context.Context, jobID, nextToken string) (*ResultPage, error) {
			page, ok := pages[nextToken]
			if !ok {
				t.Fatalf("unexpected page token %q", nextToken)
			}
			return page, nil
		},
	}

	text, err := NewMonitor(client, fastConfig()).ExtractText(context.Background(), "bucket", "uploads/scan.pdf")
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != "hello world again" {
		t.Errorf("joined text = %q; want %q", text, "hello world again")
	}
}

func TestExtractText_WaitsForTerminalStatus(t *testing.T) {
	var polls int
	client := &mockClient{
		startFunc: func(ctx context.Context, bucket, key string) (string, error) { return "job-1", nil },
		getFunc: func(ctx context.Context, jobID, nextToken string) (*ResultPage, error) {
			if nextToken == "" && polls < 3 {
				polls++
				return &ResultPage{Status: StatusInProgress}, nil
			}
			return &ResultPage{Status: StatusSucceeded, Blocks: []Block{{BlockType: "LINE", Text: "done"}}}, nil
		},
	}

	text, err := NewMonitor(client, fastConfig()).ExtractText(context.Background(), "bucket", "uploads/scan.pdf")
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if polls != 3 {
		t.Errorf("expected 3 in-progress polls before success, got %d", polls)
	}
	if text != "done" {
		t.Errorf("joined text = %q; want %q", text, "done")
	}
}

func TestExtractText_FailureModesCollapseToErrNoText(t *testing.T) {
	tests := []struct {
		name   string
		client *mockClient
	}{
		{
			name: "submission error",
			client: &mockClient{
				startFunc: func(ctx context.Context, bucket, key string) (string, error) {
					return "", ErrAccessDenied
				},
			},
		},
		{
			name: "job failed",
			client: &mockClient{
				startFunc: func(ctx context.Context, bucket, key string) (string, error) { return "job-1", nil },
				getFunc: func(ctx context.Context, jobID, nextToken string) (*ResultPage, error) {
					return &ResultPage{Status: StatusFailed}, nil
				},
			},
		},
		{
			name: "poll timeout",
			client: &mockClient{
				startFunc: func(ctx context.Context, bucket, key string) (string, error) { return "job-1", nil },
				getFunc: func(ctx context.Context, jobID, nextToken string) (*ResultPage, error) {
					return &ResultPage{Status: StatusInProgress}, nil
				},
			},
		},
		{
			name: "succeeded without line blocks",
			client: &mockClient{
				startFunc: func(ctx context.Context, bucket, key string) (string, error) { return "job-1", nil },
				getFunc: func(ctx context.Context, jobID, nextToken string) (*ResultPage, error) {
					return &ResultPage{Status: StatusSucceeded, Blocks: []Block{{BlockType: "WORD", Text: "x"}}}, nil
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMonitor(tt.client, fastConfig()).ExtractText(context.Background(), "bucket", "uploads/scan.pdf")
			if !errors.Is(err, ErrNoText) {
				t.Errorf("ExtractText error = %v; want ErrNoText", err)
			}
		})
	}
}
