// Package source pulls shorthand text out of uploaded documents. Every
// extractor returns plain lines, one shorthand line per document line or
// block, ready for the assembler.
package source

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Extractor converts a document into shorthand text.
type Extractor interface {
	Extract(r io.Reader, filename string) (string, error)
}

// Options tunes extractors that shell out or need limits.
type Options struct {
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions shorthand can be read from.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the extractor for a filename.
func ForFile(filename string, opts Options) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".csv":
		return &CSVExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Extract picks the extractor for filename and runs it.
func Extract(r io.Reader, filename string, opts Options) (string, error) {
	ex, err := ForFile(filename, opts)
	if err != nil {
		return "", err
	}
	text, err := ex.Extract(r, filename)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filename, err)
	}
	return text, nil
}

// joinLines right-trims each line and drops leading and trailing blank lines.
func joinLines(lines []string) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, strings.TrimRight(l, " \t\r\n"))
	}
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
