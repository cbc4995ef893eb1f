// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/docsift/docsift/pkg/errors"
)

var _ Extractor = (*plainTextExtractor)(nil)

type plainTextExtractor struct{}

// NewPlainText returns an extractor for plain text files.
func NewPlainText() Extractor {
	return &plainTextExtractor{}
}

func (e *plainTextExtractor) MimeTypes() []string {
	return []string{"text/plain"}
}

func (e *plainTextExtractor) Extract(data []byte) (Content, error) {
	text := cleanText(string(data))

	return Content{
		Text: text,
		Metadata: map[string]interface{}{
			"line_count": len(nonEmptyLines(string(data))),
			"word_count": len(strings.Fields(text)),
		},
		Confidence: confidence(text),
	}, nil
}

var _ Extractor = (*csvExtractor)(nil)

type csvExtractor struct{}

// NewCSV returns an extractor for CSV files. Rows are exposed as a
// single table so that table-based classification rules apply.
func NewCSV() Extractor {
	return &csvExtractor{}
}

func (e *csvExtractor) MimeTypes() []string {
	return []string{"text/csv"}
}

func (e *csvExtractor) Extract(data []byte) (Content, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return Content{}, errors.Wrap(ErrExtraction, err)
	}

	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(strings.Join(r, " "))
		sb.WriteString("\n")
	}
	text := cleanText(sb.String())

	content := Content{
		Text: text,
		Metadata: map[string]interface{}{
			"row_count": len(rows),
		},
		Confidence: confidence(text),
	}
	if len(rows) > 0 {
		content.Tables = [][][]string{rows}
	}

	return content, nil
}
