// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/docsift/docsift/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	docxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var _ Extractor = (*docxExtractor)(nil)

type docxExtractor struct{}

// NewDocx returns an extractor for Word documents.
func NewDocx() Extractor {
	return &docxExtractor{}
}

func (e *docxExtractor) MimeTypes() []string {
	return []string{docxMime}
}

func (e *docxExtractor) Extract(data []byte) (Content, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Content{}, errors.Wrap(ErrExtraction, err)
	}

	var (
		paragraphs []string
		tables     [][][]string
		headers    []string
		footers    []string
	)

	for _, f := range zr.File {
		switch {
		case f.Name == "word/document.xml":
			paragraphs, tables, err = parseDocx(f)
			if err != nil {
				return Content{}, errors.Wrap(ErrExtraction, err)
			}
		case strings.HasPrefix(f.Name, "word/header"):
			text, err := parseDocxText(f)
			if err != nil {
				return Content{}, errors.Wrap(ErrExtraction, err)
			}
			headers = append(headers, text...)
		case strings.HasPrefix(f.Name, "word/footer"):
			text, err := parseDocxText(f)
			if err != nil {
				return Content{}, errors.Wrap(ErrExtraction, err)
			}
			footers = append(footers, text...)
		}
	}

	text := cleanText(strings.Join(paragraphs, "\n"))

	return Content{
		Text: text,
		Metadata: map[string]interface{}{
			"paragraph_count": len(paragraphs),
			"table_count":     len(tables),
			"word_count":      len(strings.Fields(text)),
		},
		Tables:     tables,
		Headers:    headers,
		Footers:    footers,
		Confidence: confidence(text),
	}, nil
}

// parseDocx walks the WordprocessingML body collecting paragraph text and
// table cell contents. Table paragraphs are attributed to their cells, not
// to the body text.
func parseDocx(f *zip.File) ([]string, [][][]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	var (
		paragraphs []string
		tables     [][][]string
		table      [][]string
		row        []string

		para, cell strings.Builder
		inTable    bool
		inCell     bool
		inText     bool
	)

	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				inTable = true
				table = nil
			case "tr":
				row = nil
			case "tc":
				inCell = true
				cell.Reset()
			case "t":
				inText = true
			}
		case xml.CharData:
			if !inText {
				continue
			}
			if inCell {
				cell.Write(t)
			} else {
				para.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "tc":
				row = append(row, strings.TrimSpace(cell.String()))
				inCell = false
			case "tr":
				table = append(table, row)
			case "tbl":
				tables = append(tables, table)
				inTable = false
			case "p":
				if !inTable {
					if text := strings.TrimSpace(para.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
				}
				para.Reset()
			}
		}
	}

	return paragraphs, tables, nil
}

func parseDocxText(f *zip.File) ([]string, error) {
	paragraphs, _, err := parseDocx(f)
	return paragraphs, err
}

var _ Extractor = (*xlsxExtractor)(nil)

type xlsxExtractor struct{}

// NewXlsx returns an extractor for Excel workbooks.
func NewXlsx() Extractor {
	return &xlsxExtractor{}
}

func (e *xlsxExtractor) MimeTypes() []string {
	return []string{xlsxMime}
}

func (e *xlsxExtractor) Extract(data []byte) (Content, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Content{}, errors.Wrap(ErrExtraction, err)
	}
	defer wb.Close()

	var (
		tables [][][]string
		sb     strings.Builder
	)

	sheets := wb.GetSheetList()
	for _, sheet := range sheets {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return Content{}, errors.Wrap(ErrExtraction, err)
		}
		if len(rows) == 0 {
			continue
		}
		tables = append(tables, rows)
		for _, r := range rows {
			sb.WriteString(strings.Join(r, " "))
			sb.WriteString("\n")
		}
	}

	text := cleanText(sb.String())

	return Content{
		Text: text,
		Metadata: map[string]interface{}{
			"sheet_count": len(sheets),
			"table_count": len(tables),
		},
		Tables:     tables,
		Confidence: confidence(text),
	}, nil
}
