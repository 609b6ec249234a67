package models

// These structs define the payloads exchanged between the storage trigger,
// the extraction worker, and the upload server's JSON API.

// ObjectRecord identifies one newly created object in the blob store.
type ObjectRecord struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// StorageEvent is the trigger payload for the extraction worker. A single
// invocation may carry zero or more records; each record is processed
// independently.
type StorageEvent struct {
	Records []ObjectRecord `json:"records"`
}

// EntityGroup is one rendered group of entities sharing a type.
type EntityGroup struct {
	Type  string   `json:"type"`
	Texts []string `json:"texts"`
}

// DocumentReport is the per-file response element of the upload endpoint.
type DocumentReport struct {
	Filename     string        `json:"filename"`
	DocumentType string        `json:"documentType"`
	Status       string        `json:"status"` // "processed" or "timeout"
	ResultKey    string        `json:"resultKey,omitempty"`
	ResultURL    string        `json:"resultUrl,omitempty"`
	WordCount    string        `json:"wordCount,omitempty"`
	Sentiment    string        `json:"sentiment,omitempty"`
	Entities     []EntityGroup `json:"entities,omitempty"`
	Message      string        `json:"message,omitempty"`
}

// UploadResponse is the full response of the upload endpoint.
type UploadResponse struct {
	TraceID   string           `json:"traceId"`
	Documents []DocumentReport `json:"documents"`
}
