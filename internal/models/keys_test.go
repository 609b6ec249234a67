package models

import "testing"

func TestDeriveResultKey(t *testing.T) {
	tests := []struct {
		inputKey string
		want     string
	}{
		{"uploads/report.txt", "processed/report_processed.txt"},
		{"uploads/scan.pdf", "processed/scan_processed.pdf"},
		{"uploads/archive.2024.txt", "processed/archive.2024_processed.txt"},
		{"uploads/noext", "processed/noext_processed"},
	}

	for _, tt := range tests {
		if got := DeriveResultKey(tt.inputKey); got != tt.want {
			t.Errorf("DeriveResultKey(%q) = %q; want %q", tt.inputKey, got, tt.want)
		}
	}
}

func TestCandidateResultKeys(t *testing.T) {
	keys := CandidateResultKeys("uploads/report.txt")
	if len(keys) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(keys))
	}
	if keys[0] != "processed/report_processed.txt" || keys[1] != "processed/report_processed.pdf" {
		t.Errorf("unexpected candidates: %v", keys)
	}
}

func TestIsResultKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"processed/report_processed.txt", true},
		{"processed/scan_processed.pdf", true},
		{"processed/photo_processed.jpg", true},
		{"processed/noext_processed", true},
		{"uploads/report_processed.docx", true},
		{"uploads/report.txt", false},
		{"uploads/scan.pdf", false},
		{"uploads/photo.jpg", false},
	}

	for _, tt := range tests {
		if got := IsResultKey(tt.key); got != tt.want {
			t.Errorf("IsResultKey(%q) = %v; want %v", tt.key, got, tt.want)
		}
	}
}

// Every key DeriveResultKey can produce must be recognized as a result key,
// or the worker would reprocess its own output.
func TestIsResultKey_CoversAllDerivedKeys(t *testing.T) {
	inputs := []string{
		"uploads/report.txt",
		"uploads/scan.pdf",
		"uploads/photo.jpg",
		"uploads/noext",
		"uploads/archive.2024.txt",
	}

	for _, inputKey := range inputs {
		derived := DeriveResultKey(inputKey)
		if !IsResultKey(derived) {
			t.Errorf("IsResultKey(%q) = false; the worker would reprocess its own output for %q", derived, inputKey)
		}
	}
}
