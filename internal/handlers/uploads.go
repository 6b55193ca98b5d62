package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nsharkey/classquest/internal/extract"
)

// UploadResponse carries the extracted text back to the browser so it
// never has to parse documents itself.
type UploadResponse struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Chars    int    `json:"chars"`
}

// UploadsHandler extracts plain text from uploaded lesson documents.
type UploadsHandler struct {
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadsHandler creates a new uploads handler. maxBytes bounds how
// much of a document is scanned.
func NewUploadsHandler(maxBytes int64, logger *slog.Logger) *UploadsHandler {
	return &UploadsHandler{
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// ServeHTTP handles POST /v1/uploads with a multipart "file" field.
func (h *UploadsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		h.encode(w, ErrorResponse{Error: "Method not allowed. Only POST is supported."})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.Warn("Upload missing file field", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		h.encode(w, ErrorResponse{Error: "Expected a multipart upload with a 'file' field."})
		return
	}
	defer func() { _ = file.Close() }()

	text, err := extract.Text(header.Filename, file, h.maxBytes)
	if err != nil {
		h.logger.Warn("Extraction failed",
			"filename", header.Filename,
			"error", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		switch {
		case errors.Is(err, extract.ErrUnsupportedFormat):
			h.encode(w, ErrorResponse{Error: fmt.Sprintf(
				"Unsupported file type. Supported types: %s.",
				strings.Join(extract.SupportedExtensions(), ", "))})
		case errors.Is(err, extract.ErrEmptyDocument):
			h.encode(w, ErrorResponse{Error: "The file contained no readable text."})
		default:
			h.encode(w, ErrorResponse{Error: "Could not read the uploaded file."})
		}
		return
	}

	h.logger.Info("Document extracted",
		"filename", header.Filename,
		"chars", len(text))

	h.encode(w, UploadResponse{
		Filename: header.Filename,
		Content:  text,
		Chars:    len(text),
	})
}

func (h *UploadsHandler) encode(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding upload response", "error", err)
	}
}
