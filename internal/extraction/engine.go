package extraction

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zombor/invoice-extract/internal/invoice"
)

// Engine is the pattern-based extraction backend. It is stateless
// across invocations: extracting one document is a pure function of the
// document and the pattern set, so independent documents can be
// processed concurrently with separate or shared engines.
type Engine struct {
	patterns PatternSet
	clock    invoice.TimeSource
	debug    bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// NewEngine creates an Engine with the default pattern set. Debug mode
// attaches diagnostics to the record; it never changes extraction
// results.
func NewEngine(debug bool) *Engine {
	return NewEngineWithDeps(DefaultPatterns(), debug, realClock{})
}

// NewEngineWithPatterns creates an Engine with a caller-supplied
// pattern set, the extension point for new fields or format variants.
func NewEngineWithPatterns(patterns PatternSet, debug bool) *Engine {
	return NewEngineWithDeps(patterns, debug, realClock{})
}

// NewEngineWithDeps creates an Engine with custom dependencies for testing
func NewEngineWithDeps(patterns PatternSet, debug bool, clock invoice.TimeSource) *Engine {
	return &Engine{
		patterns: patterns,
		clock:    clock,
		debug:    debug,
	}
}

// matchField runs the field's pattern list, tracing the outcome for
// debug visibility.
func (e *Engine) matchField(text string, field Field) (string, bool) {
	value, rank, ok := e.patterns.match(text, field)
	if !ok {
		slog.Debug("no match for field", "field", field)
		return "", false
	}
	slog.Debug("pattern matched", "field", field, "rank", rank, "value", value)
	return value, true
}

// stringField returns the first match for a field, or nil.
func (e *Engine) stringField(text string, field Field) *string {
	value, ok := e.matchField(text, field)
	if !ok {
		return nil
	}
	return &value
}

// amountField matches and parses a monetary field. A match that fails
// to parse degrades to nil, never an error.
func (e *Engine) amountField(text string, field Field) *decimal.Decimal {
	raw, ok := e.matchField(text, field)
	if !ok {
		return nil
	}
	d, ok := ParseAmount(raw)
	if !ok {
		slog.Debug("unparseable amount", "field", field, "raw", raw)
		return nil
	}
	return d
}

// dateField matches and parses a date field. A match that fails to
// parse degrades to nil.
func (e *Engine) dateField(text string, field Field) *invoice.Date {
	raw, ok := e.matchField(text, field)
	if !ok {
		return nil
	}
	d, ok := ParseDate(raw)
	if !ok {
		slog.Debug("unparseable date", "field", field, "raw", raw)
		return nil
	}
	return &d
}

// poNumberField matches the purchase order number. "PO Box 1234" lines
// look like a purchase order reference; a pattern that captures the
// literal word "box" is rejected and the remaining patterns still run,
// so a real reference elsewhere in the document is kept.
func (e *Engine) poNumberField(text string) *string {
	for i, p := range e.patterns[FieldPONumber] {
		value, ok := p.find(text)
		if !ok {
			continue
		}
		if strings.EqualFold(value, "box") {
			slog.Debug("pattern rejected", "field", FieldPONumber, "rank", i+1, "value", value)
			continue
		}
		slog.Debug("pattern matched", "field", FieldPONumber, "rank", i+1, "value", value)
		return &value
	}
	slog.Debug("no match for field", "field", FieldPONumber)
	return nil
}

// filenameInvoiceNumber recognizes invoice numbers embedded in source
// filenames, e.g. "Invoice-4E62BC7A-0001.pdf".
var filenameInvoiceNumber = regexp.MustCompile(`([A-Fa-f0-9]{8}-[0-9]{4})`)

func invoiceNumberFromFilename(sourceFile string) (string, bool) {
	m := filenameInvoiceNumber.FindStringSubmatch(filepath.Base(sourceFile))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// currencySignals is the ordered list of currency markers checked
// against the document text. The first signal found wins.
var currencySignals = []struct {
	re   *regexp.Regexp
	code string
}{
	{regexp.MustCompile(`US\$|USD|\$`), "USD"},
	{regexp.MustCompile(`€|EUR`), "EUR"},
	{regexp.MustCompile(`£|GBP`), "GBP"},
	{regexp.MustCompile(`\bCAD\b`), "CAD"},
}

func detectCurrency(text string) *string {
	for _, s := range currencySignals {
		if s.re.MatchString(text) {
			code := s.code
			return &code
		}
	}
	return nil
}

// Extract runs the full pattern pipeline over one document and returns
// a complete record. Missing or malformed data inside the document
// never fails extraction; affected fields resolve to null.
func (e *Engine) Extract(doc invoice.RawDocument, sourceFile string) *invoice.Record {
	rec := invoice.NewRecord(sourceFile, e.clock.Now())
	rec.RawTables = append(rec.RawTables, doc.Tables...)

	text := NormalizeText(doc.Text)
	var warnings []string
	if text == "" {
		slog.Warn("no text extracted from document", "source_file", sourceFile)
		warnings = append(warnings, "no text extracted")
	}

	rec.InvoiceNumber = e.stringField(text, FieldInvoiceNumber)
	var filenameNumber *string
	if n, ok := invoiceNumberFromFilename(sourceFile); ok {
		filenameNumber = &n
	}
	if rec.InvoiceNumber == nil && filenameNumber != nil {
		slog.Debug("using invoice number from filename", "value", *filenameNumber)
		rec.InvoiceNumber = filenameNumber
	}

	rec.Date = e.dateField(text, FieldDate)
	rec.DueDate = e.dateField(text, FieldDueDate)
	rec.Total = e.amountField(text, FieldTotal)
	rec.Subtotal = e.amountField(text, FieldSubtotal)
	rec.Tax = e.amountField(text, FieldTax)
	rec.VendorName = e.stringField(text, FieldVendorName)
	rec.CustomerName = e.stringField(text, FieldCustomerName)

	rec.VendorInfo = invoice.VendorInfo{
		Email:   e.stringField(text, FieldVendorEmail),
		Phone:   e.stringField(text, FieldVendorPhone),
		Address: e.stringField(text, FieldVendorAddress),
	}

	rec.PONumber = e.poNumberField(text)
	rec.PaymentTerms = e.stringField(text, FieldPaymentTerms)
	rec.Currency = detectCurrency(text)

	items := mapLineItems(doc.Tables)
	if len(items) == 0 && text != "" {
		items = lineItemsFromText(text)
	}
	rec.LineItems = items

	if e.debug {
		rec.Debug = &invoice.DebugInfo{
			ExtractedTextLength:   len(text),
			TablesFound:           len(doc.Tables),
			FilenameInvoiceNumber: filenameNumber,
			Warnings:              warnings,
		}
	}

	return rec
}
