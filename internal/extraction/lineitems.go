package extraction

import (
	"regexp"
	"strings"

	"github.com/zombor/invoice-extract/internal/invoice"
)

// itemColumn is a semantic line-item column.
type itemColumn int

const (
	colDescription itemColumn = iota
	colQuantity
	colUnitPrice
	colTotal
)

// itemColumns is the order in which header cells are tested against the
// vocabulary. A header cell maps to the first column whose terms it
// contains, so "Unit Price" resolves to unit price, not total.
var itemColumns = []itemColumn{colDescription, colQuantity, colUnitPrice, colTotal}

// headerVocabulary is the controlled set of header terms used to
// classify tables and map their columns.
var headerVocabulary = map[itemColumn][]string{
	colDescription: {"description", "item", "product", "service"},
	colQuantity:    {"qty", "quantity", "qnt"},
	colUnitPrice:   {"price", "rate", "unit"},
	colTotal:       {"amount", "total", "sum"},
}

// matchHeaderCell maps one header cell to a semantic column.
func matchHeaderCell(cell string) (itemColumn, bool) {
	cell = strings.ToLower(strings.TrimSpace(cell))
	if cell == "" {
		return 0, false
	}
	for _, col := range itemColumns {
		for _, term := range headerVocabulary[col] {
			if strings.Contains(cell, term) {
				return col, true
			}
		}
	}
	return 0, false
}

// classifyTable inspects a table's header row and returns the mapping
// from semantic column to cell index. A table qualifies as a line-items
// table when at least two columns are recognized; when several columns
// match the same semantic column, the leftmost wins.
func classifyTable(t invoice.Table) (map[itemColumn]int, bool) {
	header := t.HeaderRow()
	if header == nil {
		return nil, false
	}

	mapping := make(map[itemColumn]int)
	for i, cell := range header {
		col, ok := matchHeaderCell(cell)
		if !ok {
			continue
		}
		if _, taken := mapping[col]; taken {
			continue
		}
		mapping[col] = i
	}

	if len(mapping) < 2 {
		return nil, false
	}
	return mapping, true
}

// cellAt returns the trimmed cell at index i, tolerating ragged rows.
func cellAt(row invoice.Row, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// isBlankRow reports whether every cell in the row is empty.
func isBlankRow(row invoice.Row) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// mapTableItems converts the data rows of one classified table into
// line items. Missing or unparseable cells become nil attributes, never
// a dropped row; fully blank rows are dropped.
func mapTableItems(t invoice.Table, mapping map[itemColumn]int) []invoice.LineItem {
	items := make([]invoice.LineItem, 0, len(t.Rows))
	for _, row := range t.DataRows() {
		if isBlankRow(row) {
			continue
		}

		var item invoice.LineItem
		if i, ok := mapping[colDescription]; ok {
			if cell := cellAt(row, i); cell != "" {
				item.Description = &cell
			}
		}
		if i, ok := mapping[colQuantity]; ok {
			if d, ok := ParseAmount(cellAt(row, i)); ok {
				item.Quantity = d
			}
		}
		if i, ok := mapping[colUnitPrice]; ok {
			if d, ok := ParseAmount(cellAt(row, i)); ok {
				item.UnitPrice = d
			}
		}
		if i, ok := mapping[colTotal]; ok {
			if d, ok := ParseAmount(cellAt(row, i)); ok {
				item.TotalAmount = d
			}
		}
		items = append(items, item)
	}
	return items
}

// mapLineItems classifies every table and concatenates the line items
// of the qualifying ones in table order. Non-qualifying tables simply
// contribute nothing; they stay available verbatim in raw_tables.
func mapLineItems(tables []invoice.Table) []invoice.LineItem {
	items := make([]invoice.LineItem, 0)
	for _, t := range tables {
		mapping, ok := classifyTable(t)
		if !ok {
			continue
		}
		items = append(items, mapTableItems(t, mapping)...)
	}
	return items
}

// textItemLine recognizes a line-item layout that some invoices print
// as plain text rather than a detectable table, e.g.
// "Consulting Services 2 US$500.00 US$1,000.00".
var textItemLine = regexp.MustCompile(`(?m)^([A-Za-z][A-Za-z ]*?)\s+([0-9]+)\s+(?:US)?\$([0-9][0-9,]*\.?[0-9]*)\s+(?:US)?\$([0-9][0-9,]*\.?[0-9]*)\s*$`)

// lineItemsFromText recovers line items directly from text when no
// table qualified.
func lineItemsFromText(text string) []invoice.LineItem {
	items := make([]invoice.LineItem, 0)
	for _, m := range textItemLine.FindAllStringSubmatch(text, -1) {
		description := strings.TrimSpace(m[1])
		item := invoice.LineItem{Description: &description}
		if d, ok := ParseAmount(m[2]); ok {
			item.Quantity = d
		}
		if d, ok := ParseAmount(m[3]); ok {
			item.UnitPrice = d
		}
		if d, ok := ParseAmount(m[4]); ok {
			item.TotalAmount = d
		}
		items = append(items, item)
	}
	return items
}
