package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money fields serialize as JSON numbers, not quoted strings, so
	// "1,500.00" round-trips as 1500.
	decimal.MarshalJSONWithoutQuotes = true
}

// Date is a calendar date with no time-of-day or zone component.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// String returns the date in ISO 8601 form (YYYY-MM-DD).
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", s, err)
	}
	*d = Date{t}
	return nil
}

// VendorInfo holds contact details for the vendor. Any subset of the
// fields may be present; a field that could not be found is nil.
type VendorInfo struct {
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// LineItem is one row of a line-items table. Attributes that were
// missing or unparseable in the source are nil, never placeholder
// values.
type LineItem struct {
	Description *string          `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
}

// DebugInfo carries extraction diagnostics. It is only attached when
// debug output is requested and never changes extraction results.
type DebugInfo struct {
	ExtractedTextLength   int      `json:"extracted_text_length"`
	TablesFound           int      `json:"tables_found"`
	FilenameInvoiceNumber *string  `json:"filename_invoice_number,omitempty"`
	Warnings              []string `json:"warnings,omitempty"`
}

// Record is the structured result of extracting one invoice document.
// Every field that could not be extracted is an explicit null in the
// JSON output, so the schema is stable across all inputs and callers
// can distinguish "not found" from "found empty".
type Record struct {
	ID            string           `json:"id,omitempty"`
	InvoiceNumber *string          `json:"invoice_number"`
	Date          *Date            `json:"date"`
	DueDate       *Date            `json:"due_date"`
	Total         *decimal.Decimal `json:"total"`
	Subtotal      *decimal.Decimal `json:"subtotal"`
	Tax           *decimal.Decimal `json:"tax"`
	VendorName    *string          `json:"vendor_name"`
	CustomerName  *string          `json:"customer_name"`
	VendorInfo    VendorInfo       `json:"vendor_info"`
	LineItems     []LineItem       `json:"line_items"`
	PONumber      *string          `json:"po_number"`
	PaymentTerms  *string          `json:"payment_terms"`
	Currency      *string          `json:"currency"`

	// RawTables is every table recovered from the document, whether or
	// not it qualified as a line-items table. Kept for debugging.
	RawTables []Table `json:"raw_tables"`

	ExtractionDate time.Time `json:"extraction_date"`
	SourceFile     string    `json:"source_file"`

	// StoredFile and ContentType are set by the service when the source
	// document is retained alongside the record.
	StoredFile  string `json:"stored_file,omitempty"`
	ContentType string `json:"content_type,omitempty"`

	Debug *DebugInfo `json:"debug_info,omitempty"`
}

// NewRecord returns a record with the always-present collections
// initialized, so an empty extraction still serializes with
// "line_items": [] and "raw_tables": [].
func NewRecord(sourceFile string, extractedAt time.Time) *Record {
	return &Record{
		LineItems:      []LineItem{},
		RawTables:      []Table{},
		ExtractionDate: extractedAt,
		SourceFile:     sourceFile,
	}
}
