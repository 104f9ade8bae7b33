package extraction

import (
	"regexp"
	"strings"
)

// Field names a target of pattern extraction.
type Field string

// Fields recognized by the default pattern set.
const (
	FieldInvoiceNumber Field = "invoice_number"
	FieldDate          Field = "date"
	FieldDueDate       Field = "due_date"
	FieldTotal         Field = "total"
	FieldSubtotal      Field = "subtotal"
	FieldTax           Field = "tax"
	FieldVendorName    Field = "vendor_name"
	FieldCustomerName  Field = "customer_name"
	FieldPONumber      Field = "po_number"
	FieldPaymentTerms  Field = "payment_terms"
	FieldVendorEmail   Field = "vendor_email"
	FieldVendorPhone   Field = "vendor_phone"
	FieldVendorAddress Field = "vendor_address"
)

// Pattern is one declarative recognition rule for a field. A field's
// patterns are tried in list order and the first one that produces a
// non-empty match wins, so author order encodes specificity: labelled
// forms come before bare token forms.
type Pattern struct {
	re *regexp.Regexp
}

// MustPattern compiles expr as a case-insensitive multi-line pattern,
// panicking on an invalid expression. Intended for pattern tables built
// at startup.
func MustPattern(expr string) Pattern {
	return Pattern{re: regexp.MustCompile(`(?im)` + expr)}
}

// find returns the pattern's first capture group (or the whole match if
// the pattern has no groups), trimmed. Empty captures count as no match.
func (p Pattern) find(text string) (string, bool) {
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	value := m[0]
	if len(m) > 1 {
		value = m[1]
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// PatternSet maps each field to its ordered pattern list. Adding a
// field or a format variant means appending patterns here; the matching
// engine never changes.
type PatternSet map[Field][]Pattern

// DefaultPatterns returns the pattern set shipped with the engine.
// Callers may take the result and append to or replace individual field
// lists before constructing an Engine.
func DefaultPatterns() PatternSet {
	return PatternSet{
		FieldInvoiceNumber: {
			MustPattern(`invoice\s*number\s*:?\s*([a-f0-9]{8}[0-9]{4})`),
			MustPattern(`invoice\s*number\s*:?\s*([a-z0-9][a-z0-9\-_]*)`),
			MustPattern(`invoice\s*#?\s*:?\s*([a-z0-9][a-z0-9\-_]*)`),
			MustPattern(`\binv\s*#?\s*:?\s*([a-z0-9][a-z0-9\-_]*)`),
			MustPattern(`#\s*([a-z0-9][a-z0-9\-_]*)`),
			MustPattern(`\bdoc\s*#?\s*:?\s*([a-z0-9][a-z0-9\-_]*)`),
			MustPattern(`\breference\s*#?\s*:?\s*([a-z0-9][a-z0-9\-_]*)`),
			MustPattern(`\b([a-f0-9]{8}[0-9]{4})\b`),
			MustPattern(`\b([a-z0-9]{4}-[a-z0-9]{8}-[a-z0-9]{4})\b`),
		},
		FieldDate: {
			MustPattern(`date\s*of\s*issue\s*:?\s*([a-z]{3,9}\s+[0-9]{1,2},?\s+[0-9]{4})`),
			MustPattern(`invoice\s*date\s*:?\s*([a-z]{3,9}\s+[0-9]{1,2},?\s+[0-9]{4})`),
			MustPattern(`\bdate\s*:?\s*([0-9]{4}-[0-9]{2}-[0-9]{2})`),
			MustPattern(`\bdate\s*:?\s*([0-9]{1,2}[/\-.][0-9]{1,2}[/\-.][0-9]{2,4})`),
			MustPattern(`\b([a-z]{3,9}\s+[0-9]{1,2},?\s+[0-9]{4})\b`),
			MustPattern(`\b([0-9]{4}-[0-9]{2}-[0-9]{2})\b`),
			MustPattern(`\b([0-9]{2}/[0-9]{2}/[0-9]{4})\b`),
			MustPattern(`\b([0-9]{1,2}[/\-.][0-9]{1,2}[/\-.][0-9]{2,4})\b`),
		},
		FieldDueDate: {
			MustPattern(`date\s*due\s*:?\s*([a-z]{3,9}\s+[0-9]{1,2},?\s+[0-9]{4})`),
			MustPattern(`due\s*date\s*:?\s*([a-z]{3,9}\s+[0-9]{1,2},?\s+[0-9]{4})`),
			MustPattern(`due\s*date\s*:?\s*([0-9]{4}-[0-9]{2}-[0-9]{2})`),
			MustPattern(`due\s*date\s*:?\s*([0-9]{1,2}[/\-.][0-9]{1,2}[/\-.][0-9]{2,4})`),
			MustPattern(`payment\s*due\s*:?\s*([0-9]{1,2}[/\-.][0-9]{1,2}[/\-.][0-9]{2,4})`),
			MustPattern(`\bdue\s*:?\s*([a-z]{3,9}\s+[0-9]{1,2},?\s+[0-9]{4})`),
			MustPattern(`\bdue\s*:?\s*([0-9]{1,2}[/\-.][0-9]{1,2}[/\-.][0-9]{2,4})`),
		},
		FieldTotal: {
			MustPattern(`\btotal\s*:?\s*us\$\s*([0-9][0-9,]*\.?[0-9]*)`),
			MustPattern(`\btotal\s*:?\s*\$\s*([0-9][0-9,]*\.?[0-9]*)`),
			MustPattern(`\btotal\s*:?\s*([0-9][0-9,]*\.?[0-9]*)\s*\$`),
			MustPattern(`amount\s*due\s*:?\s*us\$\s*([0-9][0-9,]*\.?[0-9]*)`),
			MustPattern(`amount\s*due\s*:?\s*\$?\s*([0-9][0-9,]*\.?[0-9]*)`),
			MustPattern(`balance\s*due\s*:?\s*\$?\s*([0-9][0-9,]*\.?[0-9]*)`),
			MustPattern(`grand\s*total\s*:?\s*\$?\s*([0-9][0-9,]*\.?[0-9]*)`),
			MustPattern(`\btotal\s*amount\s*:?\s*\$?\s*([0-9][0-9,]*\.?[0-9]*)`),
			MustPattern(`\bnet\s*amount\s*:?\s*\$?\s*([0-9][0-9,]*\.?[0-9]*)`),
			MustPattern(`\btotal\s*:?\s*([0-9][0-9,]*\.?[0-9]*)`),
		},
		FieldSubtotal: {
			MustPattern(`sub\s*-?\s*total\s*:?\s*us\$\s*([0-9][0-9,]*\.?[0-9]*)`),
			MustPattern(`sub\s*-?\s*total\s*:?\s*\$\s*([0-9][0-9,]*\.?[0-9]*)`),
			MustPattern(`sub\s*-?\s*total\s*:?\s*([0-9][0-9,]*\.?[0-9]*)\s*\$`),
			MustPattern(`sub\s*-?\s*total\s*:?\s*([0-9][0-9,]*\.?[0-9]*)`),
		},
		FieldTax: {
			MustPattern(`\btax\s*:?\s*us\$\s*([0-9][0-9,]*\.?[0-9]*)`),
			MustPattern(`\btax\s*:?\s*\$\s*([0-9][0-9,]*\.?[0-9]*)`),
			MustPattern(`\btax\s*:?\s*([0-9][0-9,]*\.?[0-9]*)\s*\$`),
			MustPattern(`sales\s*tax\s*:?\s*\$?\s*([0-9][0-9,]*\.?[0-9]*)`),
			MustPattern(`\bvat\s*:?\s*\$?\s*([0-9][0-9,]*\.?[0-9]*)`),
			MustPattern(`\bgst\s*:?\s*\$?\s*([0-9][0-9,]*\.?[0-9]*)`),
			MustPattern(`\bhst\s*:?\s*\$?\s*([0-9][0-9,]*\.?[0-9]*)`),
		},
		FieldVendorName: {
			MustPattern(`^\s*vendor\s*:?\s*([a-z][a-z0-9&.,'\- ]+)$`),
			MustPattern(`^\s*from\s*:?\s*([a-z][a-z0-9&.,'\- ]+)$`),
			MustPattern(`\bsold\s*by\s*:?\s*([a-z][a-z0-9&.,'\- ]+)`),
			MustPattern(`\bseller\s*:?\s*([a-z][a-z0-9&.,'\- ]+)`),
			MustPattern(`^([a-z][a-z& ]+?)\s+bill\s+to\b`),
		},
		FieldCustomerName: {
			MustPattern(`bill(?:ed)?\s*to\s*:?\s*\n?\s*([a-z][a-z.'\- ]+)`),
			MustPattern(`invoice\s*to\s*:?\s*\n?\s*([a-z][a-z.'\- ]+)`),
			MustPattern(`\bcustomer\s*(?:name)?\s*:?\s*([a-z][a-z.'\- ]+)`),
			MustPattern(`\bclient\s*:?\s*([a-z][a-z.'\- ]+)`),
		},
		FieldPONumber: {
			MustPattern(`\bp\.?o\.?\s*(?:#|no\.?|number)\s*:?\s*([a-z0-9][a-z0-9\-_]*)`),
			MustPattern(`purchase\s*order\s*#?\s*:?\s*([a-z0-9][a-z0-9\-_]*)`),
			MustPattern(`\bp\.?o\.?\s*:?\s*([a-z0-9][a-z0-9\-_]*)`),
			MustPattern(`\border\s*#\s*:?\s*([a-z0-9][a-z0-9\-_]*)`),
		},
		FieldPaymentTerms: {
			MustPattern(`payment\s*terms?\s*:?\s*([a-z0-9][a-z0-9 \-,]*)`),
			MustPattern(`\bterms?\s*:?\s*([a-z0-9][a-z0-9 \-,]*)`),
			MustPattern(`\b(net\s*[0-9]+)\b`),
		},
		FieldVendorEmail: {
			MustPattern(`\b([a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,})\b`),
		},
		FieldVendorPhone: {
			MustPattern(`(?:phone|tel|telephone)\s*:?\s*(\+?[0-9]?[\s.\-]?\(?[0-9]{3}\)?[\s.\-]?[0-9]{3}[\s.\-]?[0-9]{4})`),
			MustPattern(`(\(?[0-9]{3}\)?[\s.\-][0-9]{3}[\s.\-][0-9]{4})`),
		},
		FieldVendorAddress: {
			MustPattern(`^(.*\bp\.?o\.?\s*box\s+[0-9]+.*)$`),
			MustPattern(`^(.*\b[0-9]+\s+[a-z]+\s+(?:st|street|ave|avenue|rd|road|blvd|boulevard|ln|lane|dr|drive|way|suite|ste)\b.*)$`),
		},
	}
}
