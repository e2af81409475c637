// Package gst derives Indian GST returns from tagged ledgers and vouchers.
// Classification rides on the TaxComponent/TaxFlow tags resolved at ledger
// save time, so a ledger rename cannot silently drop amounts from a return.
package gst

import (
	"github.com/mahesh-atx/capro/internal/books"
	"github.com/mahesh-atx/capro/internal/books/reports"
)

// Period aliases the report period; GST returns filter vouchers the same way.
type Period = reports.Period

// Heads carries one amount per GST tax head. Heads are always computed
// independently: SGST credit can never offset CGST payable.
type Heads struct {
	CGST float64 `json:"cgst"`
	SGST float64 `json:"sgst"`
	IGST float64 `json:"igst"`
	Cess float64 `json:"cess"`
}

func (h *Heads) add(component books.TaxComponent, amount float64) {
	switch component {
	case books.TaxCGST:
		h.CGST += amount
	case books.TaxSGST:
		h.SGST += amount
	case books.TaxIGST:
		h.IGST += amount
	case books.TaxCess:
		h.Cess += amount
	}
}

// Total sums the four heads.
func (h Heads) Total() float64 {
	return h.CGST + h.SGST + h.IGST + h.Cess
}

// Breakup is the split of a taxable amount into GST components.
type Breakup struct {
	CGST  float64 `json:"cgst"`
	SGST  float64 `json:"sgst"`
	IGST  float64 `json:"igst"`
	Total float64 `json:"total"`
}

// SplitRate applies a GST rate to a taxable amount. Intra-state supplies
// split the tax equally into CGST and SGST; inter-state supplies charge IGST.
func SplitRate(amount, rate float64, interState bool) Breakup {
	tax := amount * rate / 100
	if interState {
		return Breakup{IGST: tax, Total: amount + tax}
	}
	half := tax / 2
	return Breakup{CGST: half, SGST: half, Total: amount + tax}
}

// ledgerIndex maps ledger ids for entry classification.
func ledgerIndex(ledgers []books.Ledger) map[string]books.Ledger {
	index := make(map[string]books.Ledger, len(ledgers))
	for _, l := range ledgers {
		index[l.ID.String()] = l
	}
	return index
}
