// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

// Package extractors provides format-specific document content extraction.
package extractors

import (
	"strings"
	"unicode"

	"github.com/docsift/docsift/pkg/errors"
	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrUnsupportedFormat indicates that no extractor is registered for
	// the detected file format.
	ErrUnsupportedFormat = errors.New("no extractor registered for file format")

	// ErrExtraction indicates failure to extract content from a file.
	ErrExtraction = errors.New("failed to extract file content")
)

// Content is the container for extracted document content.
type Content struct {
	Text       string
	Metadata   map[string]interface{}
	Tables     [][][]string
	Headers    []string
	Footers    []string
	PageCount  int
	Confidence float64
}

// Extractor extracts content from a single file format family.
type Extractor interface {
	// MimeTypes returns the MIME types this extractor can handle.
	MimeTypes() []string

	// Extract extracts content from the raw file data.
	Extract(data []byte) (Content, error)
}

// Registry dispatches files to extractors by sniffed MIME type.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry returns an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string]Extractor),
	}
}

// NewDefaultRegistry returns a registry with all built-in extractors registered.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(NewPDF())
	reg.Register(NewDocx())
	reg.Register(NewXlsx())
	reg.Register(NewPlainText())
	reg.Register(NewCSV())
	return reg
}

// Register registers an extractor for its supported MIME types.
func (r *Registry) Register(e Extractor) {
	for _, mt := range e.MimeTypes() {
		r.extractors[mt] = e
	}
}

// Detect returns the sniffed MIME type of data without parameters.
func (r *Registry) Detect(data []byte) string {
	mt := mimetype.Detect(data)
	return normalizeMime(mt.String())
}

// Get returns the extractor for data together with the detected MIME type.
func (r *Registry) Get(data []byte) (Extractor, string, error) {
	mt := r.Detect(data)
	e, ok := r.extractors[mt]
	if !ok {
		return nil, mt, ErrUnsupportedFormat
	}
	return e, mt, nil
}

// Supported reports whether a MIME type has a registered extractor.
func (r *Registry) Supported(mime string) bool {
	_, ok := r.extractors[normalizeMime(mime)]
	return ok
}

// MimeTypes returns all registered MIME types.
func (r *Registry) MimeTypes() []string {
	mts := make([]string, 0, len(r.extractors))
	for mt := range r.extractors {
		mts = append(mts, mt)
	}
	return mts
}

func normalizeMime(mime string) string {
	if i := strings.IndexByte(mime, ';'); i != -1 {
		mime = mime[:i]
	}
	return strings.TrimSpace(mime)
}

// cleanText collapses whitespace and strips control characters.
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	fields := strings.FieldsFunc(text, unicode.IsSpace)
	return strings.Join(fields, " ")
}

// confidence is a heuristic for extraction quality based on the ratio
// of printable runes.
func confidence(text string) float64 {
	if text == "" {
		return 0
	}
	var valid, total int
	for _, r := range text {
		total++
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			valid++
		}
	}
	return float64(valid) / float64(total)
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
