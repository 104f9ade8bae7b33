package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zombor/invoice-extract/internal/extraction"
	"github.com/zombor/invoice-extract/internal/invoice"
)

// invoicePayload mirrors the JSON shape requested from the model.
// Numeric fields are interface{} because models sometimes return
// strings ("1,500.00") where numbers were asked for.
type invoicePayload struct {
	InvoiceNumber *string `json:"invoice_number"`
	Date          *string `json:"date"`
	DueDate       *string `json:"due_date"`
	Total         any     `json:"total"`
	Subtotal      any     `json:"subtotal"`
	Tax           any     `json:"tax"`
	VendorName    *string `json:"vendor_name"`
	CustomerName  *string `json:"customer_name"`
	VendorInfo    struct {
		Email   *string `json:"email"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
	} `json:"vendor_info"`
	LineItems []struct {
		Description *string `json:"description"`
		Quantity    any     `json:"quantity"`
		UnitPrice   any     `json:"unit_price"`
		TotalAmount any     `json:"total_amount"`
	} `json:"line_items"`
	PONumber     *string `json:"po_number"`
	PaymentTerms *string `json:"payment_terms"`
	Currency     *string `json:"currency"`
}

// parseInvoiceJSON parses the JSON response from a model, tolerating
// markdown code fences and surrounding prose.
func parseInvoiceJSON(text string) (*invoicePayload, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON object boundaries - first { and last }
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}

	text = text[startIdx : endIdx+1]

	var payload invoicePayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	return &payload, nil
}

// parseDecimal leniently converts a JSON value into a decimal: numbers
// pass through, strings may carry currency symbols or thousands
// separators, anything else is treated as absent.
func parseDecimal(v any) *decimal.Decimal {
	switch val := v.(type) {
	case float64:
		d := decimal.NewFromFloat(val)
		return &d
	case string:
		if d, ok := extraction.ParseAmount(val); ok {
			return d
		}
		return nil
	case json.Number:
		if d, err := decimal.NewFromString(val.String()); err == nil {
			return &d
		}
		return nil
	default:
		return nil
	}
}

// cleanString trims a string field and maps empty to absent.
func cleanString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// parseDateField converts a model-returned date string to a calendar
// date, nil when absent or unparseable.
func parseDateField(s *string) *invoice.Date {
	s = cleanString(s)
	if s == nil {
		return nil
	}
	d, ok := extraction.ParseDate(*s)
	if !ok {
		return nil
	}
	return &d
}

// record converts the payload into the shared invoice record shape.
func (p *invoicePayload) record(sourceFile string, extractedAt time.Time) *invoice.Record {
	rec := invoice.NewRecord(sourceFile, extractedAt)

	rec.InvoiceNumber = cleanString(p.InvoiceNumber)
	rec.Date = parseDateField(p.Date)
	rec.DueDate = parseDateField(p.DueDate)
	rec.Total = parseDecimal(p.Total)
	rec.Subtotal = parseDecimal(p.Subtotal)
	rec.Tax = parseDecimal(p.Tax)
	rec.VendorName = cleanString(p.VendorName)
	rec.CustomerName = cleanString(p.CustomerName)
	rec.VendorInfo = invoice.VendorInfo{
		Email:   cleanString(p.VendorInfo.Email),
		Phone:   cleanString(p.VendorInfo.Phone),
		Address: cleanString(p.VendorInfo.Address),
	}
	rec.PONumber = cleanString(p.PONumber)
	rec.PaymentTerms = cleanString(p.PaymentTerms)
	rec.Currency = cleanString(p.Currency)

	for _, item := range p.LineItems {
		rec.LineItems = append(rec.LineItems, invoice.LineItem{
			Description: cleanString(item.Description),
			Quantity:    parseDecimal(item.Quantity),
			UnitPrice:   parseDecimal(item.UnitPrice),
			TotalAmount: parseDecimal(item.TotalAmount),
		})
	}

	return rec
}
