package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/sync/errgroup"

	"github.com/Lllllllleong/docanalyzer/internal/blobstore"
	"github.com/Lllllllleong/docanalyzer/internal/metrics"
	"github.com/Lllllllleong/docanalyzer/internal/models"
	"github.com/Lllllllleong/docanalyzer/internal/services"
)

const maxUploadBytes = 32 << 20

// maxFilesPerUpload bounds one request to a single concurrent polling wave,
// so the worst-case request time stays within one poll budget and under the
// server's write timeout.
const maxFilesPerUpload = 10

// Upload outcomes reported per document.
const (
	StatusProcessed = "processed"
	StatusTimeout   = "timeout"
	StatusRejected  = "rejected"
)

// DocumentHandler serves the upload surface: store the file, wait for the
// worker's result to appear, render it back.
type DocumentHandler struct {
	store  blobstore.Store
	poller *services.ResultPoller
}

func NewDocumentHandler(store blobstore.Store, poller *services.ResultPoller) *DocumentHandler {
	return &DocumentHandler{store: store, poller: poller}
}

// Upload accepts one or more .txt/.pdf files as multipart form data under
// the "files" field. Files are stored and polled concurrently; the response
// carries one report per file.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse multipart form")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files provided")
		return
	}
	if len(files) > maxFilesPerUpload {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("too many files; at most %d per request", maxFilesPerUpload))
		return
	}

	traceID := uuid.NewString()
	logCtx := slog.With("traceId", traceID)
	logCtx.Info("Handling upload.", "fileCount", len(files))

	reports := make([]models.DocumentReport, len(files))
	eg, gctx := errgroup.WithContext(r.Context())
	for i, fileHeader := range files {
		eg.Go(func() error {
			reports[i] = h.processUpload(gctx, logCtx, fileHeader)
			return nil
		})
	}
	_ = eg.Wait()

	writeJSON(w, http.StatusOK, models.UploadResponse{TraceID: traceID, Documents: reports})
}

// processUpload runs one file's full session: validate, store, poll, render.
func (h *DocumentHandler) processUpload(ctx context.Context, logCtx *slog.Logger, fileHeader *multipart.FileHeader) models.DocumentReport {
	filename := path.Base(fileHeader.Filename)
	report := models.DocumentReport{Filename: filename}

	body, err := readUpload(fileHeader)
	if err != nil {
		logCtx.Error("Failed to read uploaded file.", "filename", filename, "error", err)
		return rejected(report, "could not read uploaded file")
	}

	if err := validateUpload(filename, body); err != nil {
		logCtx.Warn("Rejected upload.", "filename", filename, "reason", err)
		return rejected(report, err.Error())
	}
	report.DocumentType = DetectDocumentType(filename, body)

	key := models.UploadKey(filename)
	contentType := "text/plain"
	if strings.HasSuffix(filename, ".pdf") {
		contentType = "application/pdf"
	}
	if err := h.store.Put(ctx, key, body, contentType); err != nil {
		logCtx.Error("Failed to store upload.", "key", key, "error", err)
		return rejected(report, "could not store uploaded file")
	}
	logCtx.Info("Stored upload.", "key", key)

	start := time.Now()
	resultKey, url, err := h.poller.WaitForResult(ctx, key)
	if err != nil {
		if errors.Is(err, services.ErrPollTimeout) {
			metrics.RecordUpload(StatusTimeout)
			metrics.ObserveTimeToResult(StatusTimeout, time.Since(start))
			report.Status = StatusTimeout
			report.Message = "processing did not complete in time"
			return report
		}
		logCtx.Error("Polling session failed.", "key", key, "error", err)
		report.Status = StatusTimeout
		report.Message = "processing was interrupted"
		return report
	}
	metrics.RecordUpload(StatusProcessed)
	metrics.ObserveTimeToResult(StatusProcessed, time.Since(start))

	report.Status = StatusProcessed
	report.ResultKey = resultKey
	report.ResultURL = url

	resultBody, err := h.store.Get(ctx, resultKey)
	if err != nil {
		logCtx.Error("Could not read processed result.", "resultKey", resultKey, "error", err)
		report.Message = "result stored but could not be read"
		return report
	}

	rendered := services.RenderResult(string(resultBody))
	if rendered.Raw != "" {
		report.Message = rendered.Raw
		return report
	}
	report.WordCount = rendered.WordCount
	report.Sentiment = rendered.Sentiment
	report.Entities = rendered.Groups
	return report
}

// ListResults returns all processed result keys.
func (h *DocumentHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	keys, err := h.store.List(r.Context(), models.ProcessedPrefix)
	if err != nil {
		slog.Error("Failed to list processed results.", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list results")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"results": keys})
}

func (h *DocumentHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// validateUpload gates what enters the uploads/ prefix: only the two
// supported extensions, and PDF bodies must actually parse as PDF.
func validateUpload(filename string, body []byte) error {
	switch {
	case strings.HasSuffix(filename, ".txt"):
		return nil
	case strings.HasSuffix(filename, ".pdf"):
		cfg := model.NewDefaultConfiguration()
		cfg.ValidationMode = model.ValidationRelaxed
		if _, err := api.PageCount(bytes.NewReader(body), cfg); err != nil {
			return fmt.Errorf("file is not a readable PDF")
		}
		return nil
	default:
		return fmt.Errorf("unsupported file type; only .txt and .pdf are accepted")
	}
}

func rejected(report models.DocumentReport, message string) models.DocumentReport {
	metrics.RecordUpload(StatusRejected)
	report.Status = StatusRejected
	report.Message = message
	return report
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response.", "error", err)
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
