package gst

import (
	"strings"
	"testing"

	_ "github.com/mahesh-atx/capro/testing"
)

func TestWriteGSTR1CSV(t *testing.T) {
	_, ledgers, vouchers := gstr1Fixture()
	ret := BuildGSTR1(ledgers, vouchers, Period{From: "2024-12-01", To: "2024-12-31"})

	var sb strings.Builder
	if err := WriteGSTR1CSV(&sb, ret); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	out := sb.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Header + 4 invoices + grand total row.
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Section,Invoice No") {
		t.Fatalf("bad header: %q", lines[0])
	}
	if !strings.Contains(out, "B2C (Large)") {
		t.Fatal("b2c large bucket missing")
	}
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "Grand Total,3 invoices") {
		t.Fatalf("bad totals row: %q", last)
	}
	if !strings.Contains(last, "501000.00") {
		t.Fatalf("taxable grand total missing: %q", last)
	}
}
