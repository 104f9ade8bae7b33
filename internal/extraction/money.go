package extraction

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zombor/invoice-extract/internal/invoice"
)

var nonAmountChars = regexp.MustCompile(`[^0-9.]`)

// ParseAmount converts a matched monetary string into an exact decimal
// value. Currency symbols (prefix or suffix) and thousands separators
// are stripped; "1,500" parses to exactly 1500 with no float rounding.
// Unparseable input reports false.
func ParseAmount(raw string) (*decimal.Decimal, bool) {
	cleaned := nonAmountChars.ReplaceAllString(raw, "")
	if cleaned == "" || cleaned == "." {
		return nil, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil, false
	}
	return &d, true
}

// dateLayouts is the fixed, ordered list of date formats the parser
// attempts, mirroring the pattern variants the matcher recognizes. The
// first layout that parses wins.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"1-2-2006",
	"1.2.2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2006/01/02",
	"1/2/06",
	"1-2-06",
	"1.2.06",
}

// ParseDate converts a matched date string into a calendar date
// independent of time zone. Every layout failing reports false.
func ParseDate(raw string) (invoice.Date, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return invoice.NewDate(t), true
		}
	}
	return invoice.Date{}, false
}
