// Package format renders amounts and dates the way Indian accountants expect:
// rupee amounts with lakh/crore digit grouping and DD/MM/YYYY dates.
package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var enIN = message.NewPrinter(language.MustParse("en-IN"))

// Currency renders an amount as Indian rupees, e.g. ₹1,23,456.78.
func Currency(amount float64) string {
	return enIN.Sprintf("₹%v", number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Number renders a count with Indian digit grouping.
func Number(n float64) string {
	return enIN.Sprintf("%v", number.Decimal(n))
}

// Date renders a canonical YYYY-MM-DD date as DD/MM/YYYY. Non-canonical
// input is returned unchanged so broken dates stay visible.
func Date(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}
