package handler

import "strings"

// Document type labels shown to the uploader.
const (
	DocTypeCV      = "CV / Resume"
	DocTypeInvoice = "Invoice"
	DocTypeUnknown = "Unknown"
)

var cvKeywords = []string{"cv", "resume", "curriculum vitae"}

// DetectDocumentType classifies an upload by keyword scan over its raw
// bytes. PDFs are scanned as-is, so only plainly embedded text matches;
// anything inconclusive is Unknown.
func DetectDocumentType(filename string, body []byte) string {
	var text string
	switch {
	case strings.HasSuffix(filename, ".txt"), strings.HasSuffix(filename, ".pdf"):
		text = strings.ToLower(string(body))
	default:
		return DocTypeUnknown
	}

	for _, keyword := range cvKeywords {
		if strings.Contains(text, keyword) {
			return DocTypeCV
		}
	}
	if strings.Contains(text, "invoice") {
		return DocTypeInvoice
	}
	return DocTypeUnknown
}
