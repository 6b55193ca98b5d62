// Package extract turns uploaded lesson documents into plain text for
// the generation pipeline. Extraction is deliberately shallow: only a
// bounded prefix of a large document is scanned, and the pipeline applies
// its own content budget regardless of the cap here.
package extract

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// DefaultMaxScanBytes bounds how much of an uploaded document is read.
const DefaultMaxScanBytes int64 = 512 * 1024

// ErrUnsupportedFormat indicates the upload's extension is not a
// supported plain-text format.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ErrEmptyDocument indicates extraction produced no usable text.
var ErrEmptyDocument = errors.New("document contained no extractable text")

var supportedExtensions = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
	".csv":      true,
}

// SupportedExtensions lists the accepted upload extensions for error
// messages and client hints.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	return exts
}

// Text reads up to maxBytes of the document and returns its plain text.
// A maxBytes of zero applies DefaultMaxScanBytes.
func Text(filename string, r io.Reader, maxBytes int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !supportedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if maxBytes <= 0 {
		maxBytes = DefaultMaxScanBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}
