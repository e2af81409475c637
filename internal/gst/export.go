package gst

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteGSTR1CSV streams the return as CSV in GSTN upload column order, one
// block per bucket.
func WriteGSTR1CSV(w io.Writer, ret GSTR1) error {
	cw := csv.NewWriter(w)
	header := []string{"Section", "Invoice No", "Invoice Date", "Customer", "GSTIN", "Place of Supply", "Type", "Taxable Value", "CGST", "SGST", "IGST", "Cess", "Total"}
	if err := cw.Write(header); err != nil {
		return err
	}

	sections := []struct {
		name    string
		section Section
	}{
		{"B2B", ret.B2B},
		{"B2C (Large)", ret.B2CLarge},
		{"B2C (Small)", ret.B2CSmall},
		{"Exports", ret.Exports},
		{"Nil Rated", ret.NilRated},
		{"Credit/Debit Notes", ret.CreditDebitNotes},
	}
	for _, s := range sections {
		for _, inv := range s.section.Items {
			row := []string{
				s.name,
				inv.InvoiceNo,
				inv.InvoiceDate,
				inv.CustomerName,
				inv.GSTIN,
				inv.PlaceOfSupply,
				inv.InvoiceType,
				amountCell(inv.TaxableValue),
				amountCell(inv.CGST),
				amountCell(inv.SGST),
				amountCell(inv.IGST),
				amountCell(inv.Cess),
				amountCell(inv.TotalValue),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	totals := []string{
		"Grand Total", strconv.Itoa(ret.GrandTotals.Count) + " invoices", "", "", "", "", "",
		amountCell(ret.GrandTotals.TaxableValue),
		amountCell(ret.GrandTotals.CGST),
		amountCell(ret.GrandTotals.SGST),
		amountCell(ret.GrandTotals.IGST),
		"",
		amountCell(ret.GrandTotals.TotalValue),
	}
	if err := cw.Write(totals); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func amountCell(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
