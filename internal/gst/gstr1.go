package gst

import (
	"github.com/google/uuid"

	"github.com/mahesh-atx/capro/internal/books"
)

// Invoice is one outward supply line in GSTR-1.
type Invoice struct {
	InvoiceNo     string  `json:"invoiceNo"`
	InvoiceDate   string  `json:"invoiceDate"`
	CustomerName  string  `json:"customerName"`
	GSTIN         string  `json:"gstin"`
	PlaceOfSupply string  `json:"placeOfSupply"`
	TaxableValue  float64 `json:"taxableValue"`
	CGST          float64 `json:"cgst"`
	SGST          float64 `json:"sgst"`
	IGST          float64 `json:"igst"`
	Cess          float64 `json:"cess"`
	TotalValue    float64 `json:"totalValue"`
	// InvoiceType is "R" for regular invoices and "D" for debit notes,
	// matching the GSTN upload format.
	InvoiceType string `json:"invoiceType"`
}

// SectionTotals summarises one GSTR-1 bucket.
type SectionTotals struct {
	Count        int     `json:"count"`
	TaxableValue float64 `json:"taxableValue"`
	CGST         float64 `json:"cgst"`
	SGST         float64 `json:"sgst"`
	IGST         float64 `json:"igst"`
	TotalValue   float64 `json:"totalValue"`
}

// Section is a GSTR-1 bucket with its invoices and totals.
type Section struct {
	Items  []Invoice     `json:"items"`
	Totals SectionTotals `json:"totals"`
}

// GSTR1 is the outward-supply return: invoices bucketed into B2B, B2C-Large,
// B2C-Small, exports, nil-rated, and credit/debit notes.
type GSTR1 struct {
	Period           Period        `json:"period"`
	B2B              Section       `json:"b2b"`
	B2CLarge         Section       `json:"b2cLarge"`
	B2CSmall         Section       `json:"b2cSmall"`
	Exports          Section       `json:"exports"`
	NilRated         Section       `json:"nilRated"`
	CreditDebitNotes Section       `json:"creditDebitNotes"`
	GrandTotals      SectionTotals `json:"grandTotals"`
}

// b2cLargeThreshold is the statutory B2C-Large cutoff on taxable value.
// The classification pairs it with a non-zero IGST signal rather than an
// explicit place-of-supply check; preserved as-documented.
const b2cLargeThreshold = 250000

// BuildGSTR1 classifies outward supplies in the period. Sales vouchers land
// in B2B when the party carries a 15-character GSTIN, B2C-Large for
// unregistered inter-state supplies over the threshold, and B2C-Small
// otherwise. Debit and credit notes are bucketed separately.
func BuildGSTR1(ledgers []books.Ledger, vouchers []books.Voucher, period Period) GSTR1 {
	index := ledgerIndex(ledgers)
	out := GSTR1{Period: period}

	for _, v := range vouchers {
		outward := v.Type == books.VoucherSales || v.Type == books.VoucherDebitNote || v.Type == books.VoucherCreditNote
		if !outward || !period.Contains(v.Date) {
			continue
		}

		var party books.Ledger
		if v.PartyLedgerID != uuid.Nil {
			party = index[v.PartyLedgerID.String()]
		}
		registered := len(party.GSTIN) == 15

		inv := Invoice{
			InvoiceNo:     v.Number,
			InvoiceDate:   v.Date,
			CustomerName:  party.Name,
			GSTIN:         party.GSTIN,
			PlaceOfSupply: party.State,
			InvoiceType:   "R",
		}
		if inv.CustomerName == "" {
			inv.CustomerName = "Unknown"
		}
		if v.Type == books.VoucherDebitNote {
			inv.InvoiceType = "D"
		}

		for _, e := range v.Entries {
			ledger, ok := index[e.LedgerID.String()]
			if !ok {
				continue
			}
			if ledger.TaxComponent != books.TaxNone {
				switch ledger.TaxComponent {
				case books.TaxCGST:
					inv.CGST += e.Amount
				case books.TaxSGST:
					inv.SGST += e.Amount
				case books.TaxIGST:
					inv.IGST += e.Amount
				case books.TaxCess:
					inv.Cess += e.Amount
				}
				continue
			}
			if groupType, ok := books.GroupTypeOf(ledger.Group); ok && groupType == books.TypeIncome {
				inv.TaxableValue += e.Amount
			}
		}
		inv.TotalValue = inv.TaxableValue + inv.CGST + inv.SGST + inv.IGST + inv.Cess

		switch {
		case v.Type == books.VoucherDebitNote || v.Type == books.VoucherCreditNote:
			out.CreditDebitNotes.Items = append(out.CreditDebitNotes.Items, inv)
		case registered:
			out.B2B.Items = append(out.B2B.Items, inv)
		case inv.IGST > 0 && inv.TaxableValue > b2cLargeThreshold:
			out.B2CLarge.Items = append(out.B2CLarge.Items, inv)
		default:
			out.B2CSmall.Items = append(out.B2CSmall.Items, inv)
		}
	}

	for _, section := range []*Section{&out.B2B, &out.B2CLarge, &out.B2CSmall, &out.Exports, &out.NilRated, &out.CreditDebitNotes} {
		section.Totals = totalsOf(section.Items)
	}
	supplies := make([]Invoice, 0, len(out.B2B.Items)+len(out.B2CLarge.Items)+len(out.B2CSmall.Items)+len(out.Exports.Items))
	supplies = append(supplies, out.B2B.Items...)
	supplies = append(supplies, out.B2CLarge.Items...)
	supplies = append(supplies, out.B2CSmall.Items...)
	supplies = append(supplies, out.Exports.Items...)
	out.GrandTotals = totalsOf(supplies)
	return out
}

func totalsOf(items []Invoice) SectionTotals {
	t := SectionTotals{Count: len(items)}
	for _, i := range items {
		t.TaxableValue += i.TaxableValue
		t.CGST += i.CGST
		t.SGST += i.SGST
		t.IGST += i.IGST
		t.TotalValue += i.TotalValue
	}
	return t
}
