// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package extractors_test

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/docsift/docsift/extractors"
	"github.com/docsift/docsift/pkg/errors"
)

func TestPlainTextExtract(t *testing.T) {
	e := extractors.NewPlainText()

	content, err := e.Extract([]byte("Invoice Number: INV-001\nBill To: Acme Corp\n"))
	require.NoError(t, err)

	assert.Equal(t, "Invoice Number: INV-001 Bill To: Acme Corp", content.Text)
	assert.Equal(t, 2, content.Metadata["line_count"])
	assert.Equal(t, 7, content.Metadata["word_count"])
	assert.Greater(t, content.Confidence, 0.9)
	assert.Empty(t, content.Tables)
}

func TestCSVExtract(t *testing.T) {
	e := extractors.NewCSV()

	content, err := e.Extract([]byte("Test,Result,Units\nWBC,7.2,K/uL\n"))
	require.NoError(t, err)

	require.Len(t, content.Tables, 1)
	assert.Equal(t, [][]string{{"Test", "Result", "Units"}, {"WBC", "7.2", "K/uL"}}, content.Tables[0])
	assert.Equal(t, 2, content.Metadata["row_count"])
	assert.Contains(t, content.Text, "Test Result Units")
}

func TestCSVExtractMalformed(t *testing.T) {
	e := extractors.NewCSV()

	_, err := e.Extract([]byte("a,\"unterminated\n"))
	assert.True(t, errors.Contains(err, extractors.ErrExtraction))
}

func TestDocxExtract(t *testing.T) {
	e := extractors.NewDocx()

	content, err := e.Extract(buildDocx(t))
	require.NoError(t, err)

	assert.Contains(t, content.Text, "Quarterly Report")
	assert.NotContains(t, content.Text, "Assets")
	require.Len(t, content.Tables, 1)
	assert.Equal(t, [][]string{{"Assets", "Liabilities"}, {"100", "40"}}, content.Tables[0])
	assert.Equal(t, []string{"Confidential"}, content.Headers)
	assert.Equal(t, []string{"Page 1 of 1"}, content.Footers)
	assert.Equal(t, 1, content.Metadata["table_count"])
}

func TestXlsxExtract(t *testing.T) {
	e := extractors.NewXlsx()

	content, err := e.Extract(buildXlsx(t))
	require.NoError(t, err)

	require.Len(t, content.Tables, 1)
	assert.Equal(t, [][]string{{"Code", "Amount"}, {"99213", "120"}}, content.Tables[0])
	assert.Contains(t, content.Text, "Code Amount")
	assert.Equal(t, 1, content.Metadata["sheet_count"])
}

func TestRegistryGet(t *testing.T) {
	reg := extractors.NewDefaultRegistry()

	cases := []struct {
		desc string
		data []byte
		mime string
		err  error
	}{
		{
			desc: "plain text",
			data: []byte("hello world"),
			mime: "text/plain",
		},
		{
			desc: "unsupported format",
			data: []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a},
			mime: "image/png",
			err:  extractors.ErrUnsupportedFormat,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			e, mime, err := reg.Get(tc.data)
			assert.Equal(t, tc.mime, mime)
			if tc.err != nil {
				assert.True(t, errors.Contains(err, tc.err))
				assert.Nil(t, e)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, e)
		})
	}
}

func TestRegistrySupported(t *testing.T) {
	reg := extractors.NewDefaultRegistry()

	assert.True(t, reg.Supported("text/plain"))
	assert.True(t, reg.Supported("text/csv; charset=utf-8"))
	assert.True(t, reg.Supported("application/pdf"))
	assert.False(t, reg.Supported("image/png"))
}

const docxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Quarterly Report</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Assets</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Liabilities</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>100</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>40</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

const docxHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:p><w:r><w:t>Confidential</w:t></w:r></w:p>
</w:hdr>`

const docxFooter = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:ftr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:p><w:r><w:t>Page 1 of 1</w:t></w:r></w:p>
</w:ftr>`

func buildDocx(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string]string{
		"word/document.xml": docxBody,
		"word/header1.xml":  docxHeader,
		"word/footer1.xml":  docxFooter,
	}
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func buildXlsx(t *testing.T) []byte {
	t.Helper()

	wb := excelize.NewFile()
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &[]interface{}{"Code", "Amount"}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A2", &[]interface{}{"99213", "120"}))

	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))
	require.NoError(t, wb.Close())

	return buf.Bytes()
}
