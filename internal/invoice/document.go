package invoice

// Row is one row of a table, as an ordered list of cell strings.
// Cells may be empty; rows from malformed PDF tables may have
// differing lengths, and consumers must tolerate that.
type Row []string

// Table is one table recovered from a document page.
type Table struct {
	Page int   `json:"page"`
	Rows []Row `json:"rows"`
}

// RawDocument is the text and tables produced by a PDF-extraction
// collaborator, before any field extraction happens. It is built once
// per input file and treated as read-only afterwards.
type RawDocument struct {
	Text   string  `json:"text"`
	Tables []Table `json:"tables"`
}

// HeaderRow returns the first row of the table, or nil for an empty table.
func (t Table) HeaderRow() Row {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// DataRows returns every row after the header, or nil if the table has
// no data rows.
func (t Table) DataRows() []Row {
	if len(t.Rows) < 2 {
		return nil
	}
	return t.Rows[1:]
}
