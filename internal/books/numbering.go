package books

import (
	"fmt"
	"strings"
	"time"
)

// FinancialYearOf returns the April-to-March financial year label for a
// canonical date, e.g. "2024-2025" for any date from 2024-04-01 through
// 2025-03-31. The zero label is returned for non-canonical input.
func FinancialYearOf(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return financialYear(t)
}

// CurrentFinancialYear returns the financial year label containing now.
func CurrentFinancialYear(now time.Time) string {
	return financialYear(now)
}

func financialYear(t time.Time) string {
	year := t.Year()
	if t.Month() >= time.April {
		return fmt.Sprintf("%d-%d", year, year+1)
	}
	return fmt.Sprintf("%d-%d", year-1, year)
}

// FormatVoucherNumber renders a voucher number as PREFIX/FY/NNNN with a
// zero-padded four digit sequence.
func FormatVoucherNumber(prefix, financialYear string, seq int) string {
	return fmt.Sprintf("%s/%s/%04d", prefix, financialYear, seq)
}

// NextVoucherNumber computes the next number for a prefix within a financial
// year by counting existing vouchers carrying that prefix and year. Sequences
// are scoped per prefix per financial year, so SAL/2024-2025/0003 and
// PUR/2024-2025/0003 coexist.
func NextVoucherNumber(prefix, financialYear string, existing []Voucher) string {
	seq := 1
	marker := "/" + financialYear + "/"
	for _, v := range existing {
		if strings.HasPrefix(v.Number, prefix+"/") && strings.Contains(v.Number, marker) {
			seq++
		}
	}
	return FormatVoucherNumber(prefix, financialYear, seq)
}
