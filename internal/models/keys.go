package models

import (
	"path"
	"strings"
)

// Key naming convention. Inputs live under uploads/, derived results under
// processed/. The derived key is a pure function of the input key; the
// worker, poller and renderer all rely on it being reproduced exactly.
const (
	UploadsPrefix   = "uploads/"
	ProcessedPrefix = "processed/"

	resultMarker = "_processed"
)

// UploadKey returns the storage key for a newly uploaded file.
func UploadKey(filename string) string {
	return UploadsPrefix + filename
}

// DeriveResultKey computes the result key for an input key:
// uploads/report.txt -> processed/report_processed.txt,
// uploads/scan.pdf -> processed/scan_processed.pdf.
// The extension is mirrored from the input.
func DeriveResultKey(inputKey string) string {
	base := path.Base(inputKey)
	ext := path.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return ProcessedPrefix + name + resultMarker + ext
}

// CandidateResultKeys returns both result keys an input key may resolve to.
// The caller polling for a result does not know whether the worker took the
// text or the OCR path, so it watches both spellings.
func CandidateResultKeys(inputKey string) []string {
	base := path.Base(inputKey)
	name := strings.TrimSuffix(base, path.Ext(base))
	return []string{
		ProcessedPrefix + name + resultMarker + ".txt",
		ProcessedPrefix + name + resultMarker + ".pdf",
	}
}

// IsResultKey reports whether key already denotes a derived result. Writing
// a result is itself a storage event, so the worker must recognize every key
// DeriveResultKey can produce, whatever the mirrored extension, or it would
// chain placeholder writes off its own output.
func IsResultKey(key string) bool {
	return strings.HasPrefix(key, ProcessedPrefix) || strings.Contains(key, resultMarker)
}
