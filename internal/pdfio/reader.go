// Package pdfio converts PDF files into the text+tables payload the
// extraction engine consumes. Text comes from the PDF's text layer via
// go-fitz; tables are recovered heuristically from column-aligned text,
// which is best-effort by design. Image-only PDFs yield empty text.
package pdfio

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/zombor/invoice-extract/internal/invoice"
)

// Reader produces RawDocuments from PDF bytes.
type Reader struct{}

// NewReader creates a new PDF Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read extracts text and tables from every page of the PDF.
func (r *Reader) Read(filename string, data []byte) (invoice.RawDocument, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return invoice.RawDocument{}, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	var text strings.Builder
	var tables []invoice.Table

	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			return invoice.RawDocument{}, fmt.Errorf("extracting text from page %d: %w", n+1, err)
		}
		if pageText == "" {
			continue
		}
		text.WriteString(pageText)
		if !strings.HasSuffix(pageText, "\n") {
			text.WriteString("\n")
		}
		tables = append(tables, tablesFromText(n+1, pageText)...)
	}

	return invoice.RawDocument{
		Text:   text.String(),
		Tables: tables,
	}, nil
}

// cellSplit separates row cells: a tab, or a run of two or more spaces.
var cellSplit = regexp.MustCompile(`\t+| {2,}`)

// tablesFromText recovers tables from page text by grouping consecutive
// lines that split into two or more column-aligned cells. A single such
// line on its own is not treated as a table.
func tablesFromText(page int, text string) []invoice.Table {
	var tables []invoice.Table
	var run []invoice.Row

	flush := func() {
		if len(run) >= 2 {
			tables = append(tables, invoice.Table{Page: page, Rows: run})
		}
		run = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		cells := cellSplit.Split(line, -1)
		if line != "" && len(cells) >= 2 {
			row := make(invoice.Row, len(cells))
			for i, c := range cells {
				row[i] = strings.TrimSpace(c)
			}
			run = append(run, row)
			continue
		}
		flush()
	}
	flush()

	return tables
}
