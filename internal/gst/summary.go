package gst

import "github.com/mahesh-atx/capro/internal/books"

// Summary is the dashboard view of a client's GST position: output tax
// collected, input credit accrued, and the net payable.
type Summary struct {
	OutputCGST  float64 `json:"outputCGST"`
	OutputSGST  float64 `json:"outputSGST"`
	OutputIGST  float64 `json:"outputIGST"`
	InputCGST   float64 `json:"inputCGST"`
	InputSGST   float64 `json:"inputSGST"`
	InputIGST   float64 `json:"inputIGST"`
	TotalOutput float64 `json:"totalOutput"`
	TotalInput  float64 `json:"totalInput"`
	NetPayable  float64 `json:"netPayable"`
}

// BuildSummary totals the GST-tagged ledgers: output ledgers contribute
// their credit totals, input ledgers their debit totals.
func BuildSummary(ledgers []books.Ledger, vouchers []books.Voucher) Summary {
	var s Summary
	for _, ledger := range ledgers {
		if ledger.TaxComponent == books.TaxNone {
			continue
		}
		balance := books.BalanceOf(ledger, vouchers)
		switch ledger.TaxFlow {
		case books.FlowOutput:
			switch ledger.TaxComponent {
			case books.TaxCGST:
				s.OutputCGST += balance.CrTotal
			case books.TaxSGST:
				s.OutputSGST += balance.CrTotal
			case books.TaxIGST:
				s.OutputIGST += balance.CrTotal
			}
		case books.FlowInput:
			switch ledger.TaxComponent {
			case books.TaxCGST:
				s.InputCGST += balance.DrTotal
			case books.TaxSGST:
				s.InputSGST += balance.DrTotal
			case books.TaxIGST:
				s.InputIGST += balance.DrTotal
			}
		}
	}
	s.TotalOutput = s.OutputCGST + s.OutputSGST + s.OutputIGST
	s.TotalInput = s.InputCGST + s.InputSGST + s.InputIGST
	s.NetPayable = s.TotalOutput - s.TotalInput
	return s
}
