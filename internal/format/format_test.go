package format

import (
	"testing"

	_ "github.com/mahesh-atx/capro/testing"
)

func TestCurrencyLakhGrouping(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "₹0.00"},
		{999, "₹999.00"},
		{1180, "₹1,180.00"},
		{123456.78, "₹1,23,456.78"},
		{12345678.9, "₹1,23,45,678.90"},
	}
	for _, c := range cases {
		if got := Currency(c.in); got != c.want {
			t.Errorf("Currency(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNumber(t *testing.T) {
	if got := Number(250000); got != "2,50,000" {
		t.Fatalf("Number(250000) = %q", got)
	}
}

func TestDate(t *testing.T) {
	if got := Date("2024-12-05"); got != "05/12/2024" {
		t.Fatalf("Date = %q", got)
	}
	// Broken dates pass through untouched.
	if got := Date("05-12-2024"); got != "05-12-2024" {
		t.Fatalf("non-canonical date = %q", got)
	}
	if got := Date(""); got != "" {
		t.Fatalf("empty date = %q", got)
	}
}
