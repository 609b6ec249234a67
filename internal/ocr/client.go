// Package ocr talks to the asynchronous optical-text-extraction service and
// drives its job protocol: submit, poll to a terminal status, then page
// through the results.
package ocr

import (
	"context"
	"errors"
)

// JobStatus is the state of an extraction job as reported by the service.
type JobStatus string

const (
	StatusInProgress JobStatus = "IN_PROGRESS"
	StatusSucceeded  JobStatus = "SUCCEEDED"
	StatusFailed     JobStatus = "FAILED"
)

// BlockTypeLine marks a line-of-text fragment in a result page. Other block
// types (words, tables) are ignored by this pipeline.
const BlockTypeLine = "LINE"

// Block is one detected fragment within a result page.
type Block struct {
	BlockType string `json:"blockType"`
	Text      string `json:"text"`
}

// ResultPage is one page of an extraction job's output. NextToken is an
// opaque continuation token; empty means this is the last page.
type ResultPage struct {
	Status    JobStatus `json:"status"`
	Blocks    []Block   `json:"blocks"`
	NextToken string    `json:"nextToken,omitempty"`
}

// ErrAccessDenied reports that the service refused the request. Submission
// denial is terminal for the attempt; there is no retry.
var ErrAccessDenied = errors.New("ocr: access denied")

// ErrNoText is the single outcome the caller sees for every extraction
// failure mode. The distinct causes are only visible in logs.
var ErrNoText = errors.New("ocr: no text available")

// Client is the narrow contract of the extraction service.
type Client interface {
	// StartTextDetection submits a job for the document at (bucket, key)
	// and returns the opaque job identifier.
	StartTextDetection(ctx context.Context, bucket, key string) (string, error)

	// GetTextDetection fetches the job's status and, once terminal, one
	// page of results. An empty nextToken requests the first page.
	GetTextDetection(ctx context.Context, jobID, nextToken string) (*ResultPage, error)
}
