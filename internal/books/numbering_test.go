package books

import (
	"testing"
	"time"
)

func TestFinancialYearOf(t *testing.T) {
	cases := map[string]string{
		"2024-04-01": "2024-2025",
		"2024-12-31": "2024-2025",
		"2025-03-31": "2024-2025",
		"2025-04-01": "2025-2026",
		"2024-01-15": "2023-2024",
	}
	for date, want := range cases {
		if got := FinancialYearOf(date); got != want {
			t.Errorf("FinancialYearOf(%q) = %q, want %q", date, got, want)
		}
	}
	if got := FinancialYearOf("not-a-date"); got != "" {
		t.Errorf("expected empty label for bad date, got %q", got)
	}
}

func TestCurrentFinancialYear(t *testing.T) {
	march := time.Date(2025, time.March, 31, 23, 0, 0, 0, time.UTC)
	if got := CurrentFinancialYear(march); got != "2024-2025" {
		t.Errorf("March falls in the prior FY, got %q", got)
	}
	april := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	if got := CurrentFinancialYear(april); got != "2025-2026" {
		t.Errorf("April starts the new FY, got %q", got)
	}
}

func TestFormatVoucherNumber(t *testing.T) {
	if got := FormatVoucherNumber("SAL", "2024-2025", 7); got != "SAL/2024-2025/0007" {
		t.Fatalf("unexpected number %q", got)
	}
}

func TestNextVoucherNumberScopedPerPrefixAndYear(t *testing.T) {
	existing := []Voucher{
		{Number: "SAL/2024-2025/0001"},
		{Number: "SAL/2024-2025/0002"},
		{Number: "PUR/2024-2025/0001"},
		{Number: "SAL/2023-2024/0009"},
	}
	if got := NextVoucherNumber("SAL", "2024-2025", existing); got != "SAL/2024-2025/0003" {
		t.Errorf("sales sequence: got %q", got)
	}
	if got := NextVoucherNumber("PUR", "2024-2025", existing); got != "PUR/2024-2025/0002" {
		t.Errorf("purchase sequence: got %q", got)
	}
	if got := NextVoucherNumber("JRN", "2024-2025", existing); got != "JRN/2024-2025/0001" {
		t.Errorf("fresh prefix: got %q", got)
	}
}
