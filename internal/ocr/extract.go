// Package ocr extracts text from uploaded receipt documents by
// shelling out to external tools.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Extractor turns an uploaded document into text. Empty text is a
// valid result, not an error.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// TesseractExtractor uses pdftotext for PDFs and tesseract for images.
type TesseractExtractor struct {
	Lang string // tesseract language, e.g. "fin"
}

// NewTesseractExtractor creates an extractor for the given language.
func NewTesseractExtractor(lang string) *TesseractExtractor {
	if lang == "" {
		lang = "eng"
	}
	return &TesseractExtractor{Lang: lang}
}

// Extract runs the extraction tool appropriate for the file type and
// returns its text output.
func (e *TesseractExtractor) Extract(ctx context.Context, path string) (string, error) {
	var cmd *exec.Cmd
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		cmd = exec.CommandContext(ctx, "pdftotext", "-layout", path, "-")
	} else {
		cmd = exec.CommandContext(ctx, "tesseract", path, "stdout", "-l", e.Lang)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run %s: %v: %s", cmd.Args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
