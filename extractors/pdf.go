// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"bytes"
	"strings"

	"github.com/docsift/docsift/pkg/errors"
	"github.com/ledongthuc/pdf"
)

var _ Extractor = (*pdfExtractor)(nil)

type pdfExtractor struct{}

// NewPDF returns an extractor for PDF documents.
func NewPDF() Extractor {
	return &pdfExtractor{}
}

func (e *pdfExtractor) MimeTypes() []string {
	return []string{"application/pdf"}
}

func (e *pdfExtractor) Extract(data []byte) (Content, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Content{}, errors.Wrap(ErrExtraction, err)
	}

	var sb strings.Builder
	var headers, footers []string

	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")

		// First and last non-empty lines approximate page header and footer.
		lines := nonEmptyLines(text)
		if len(lines) > 0 {
			headers = append(headers, lines[0])
		}
		if len(lines) > 1 {
			footers = append(footers, lines[len(lines)-1])
		}
	}

	text := cleanText(sb.String())

	return Content{
		Text: text,
		Metadata: map[string]interface{}{
			"page_count": pages,
		},
		Headers:    headers,
		Footers:    footers,
		PageCount:  pages,
		Confidence: confidence(text),
	}, nil
}
