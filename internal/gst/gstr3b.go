package gst

import (
	"math"

	"github.com/mahesh-atx/capro/internal/books"
)

// OutwardRow is one row of GSTR-3B section 3.1.
type OutwardRow struct {
	TaxableValue float64 `json:"taxableValue"`
	IGST         float64 `json:"igst"`
	CGST         float64 `json:"cgst"`
	SGST         float64 `json:"sgst"`
	Cess         float64 `json:"cess"`
}

// OutwardSupplies is GSTR-3B section 3.1.
type OutwardSupplies struct {
	TaxableOutward      OutwardRow `json:"taxableOutward"`
	ZeroRated           OutwardRow `json:"zeroRated"`
	NilRated            OutwardRow `json:"nilRated"`
	InwardReverseCharge OutwardRow `json:"inwardReverseCharge"`
	NonGST              OutwardRow `json:"nonGST"`
}

// InterStateSupplies is GSTR-3B section 3.2.
type InterStateSupplies struct {
	Unregistered float64 `json:"unreg"`
	Composition  float64 `json:"composition"`
	UIN          float64 `json:"uin"`
}

// EligibleITC is GSTR-3B section 4: input credit available, reversed, and net.
type EligibleITC struct {
	Available  Heads `json:"itcAvailable"`
	Reversed   Heads `json:"itcReversed"`
	Net        Heads `json:"netITC"`
	Ineligible Heads `json:"ineligibleITC"`
}

// InwardExempt is GSTR-3B section 5.
type InwardExempt struct {
	InterState float64 `json:"interState"`
	IntraState float64 `json:"intraState"`
}

// GSTR3B is the monthly summary return: outward tax payable, eligible input
// credit, and payment of tax split between credit and cash.
type GSTR3B struct {
	Period             Period             `json:"period"`
	OutwardSupplies    OutwardSupplies    `json:"outwardSupplies"`
	InterStateSupplies InterStateSupplies `json:"interStateSupplies"`
	EligibleITC        EligibleITC        `json:"eligibleITC"`
	InwardExempt       InwardExempt       `json:"inwardSuppliesExempt"`
	TaxPayable         Heads              `json:"taxPayable"`
	TaxPaidITC         Heads              `json:"taxPaidITC"`
	TaxPaidCash        Heads              `json:"taxPaidCash"`
}

// BuildGSTR3B aggregates the period's vouchers into the statutory layout.
// Sales vouchers feed section 3.1 and the payable; purchase vouchers feed
// eligible ITC. Settlement runs per tax head with no cross-head netting:
// cash payable per head is max(0, payable - min(payable, net ITC)).
func BuildGSTR3B(ledgers []books.Ledger, vouchers []books.Voucher, period Period) GSTR3B {
	index := ledgerIndex(ledgers)
	out := GSTR3B{Period: period}

	for _, v := range vouchers {
		if !period.Contains(v.Date) {
			continue
		}
		for _, e := range v.Entries {
			ledger, ok := index[e.LedgerID.String()]
			if !ok {
				continue
			}
			switch v.Type {
			case books.VoucherSales:
				if ledger.TaxComponent != books.TaxNone && ledger.TaxFlow != books.FlowInput {
					row := &out.OutwardSupplies.TaxableOutward
					switch ledger.TaxComponent {
					case books.TaxCGST:
						row.CGST += e.Amount
					case books.TaxSGST:
						row.SGST += e.Amount
					case books.TaxIGST:
						row.IGST += e.Amount
					case books.TaxCess:
						row.Cess += e.Amount
					}
					out.TaxPayable.add(ledger.TaxComponent, e.Amount)
					continue
				}
				if groupType, ok := books.GroupTypeOf(ledger.Group); ok && groupType == books.TypeIncome && e.Side == books.SideCr {
					out.OutwardSupplies.TaxableOutward.TaxableValue += e.Amount
				}
			case books.VoucherPurchase:
				if ledger.TaxFlow == books.FlowInput {
					out.EligibleITC.Available.add(ledger.TaxComponent, e.Amount)
				}
			}
		}
	}

	out.EligibleITC.Net = Heads{
		CGST: out.EligibleITC.Available.CGST - out.EligibleITC.Reversed.CGST,
		SGST: out.EligibleITC.Available.SGST - out.EligibleITC.Reversed.SGST,
		IGST: out.EligibleITC.Available.IGST - out.EligibleITC.Reversed.IGST,
		Cess: out.EligibleITC.Available.Cess - out.EligibleITC.Reversed.Cess,
	}
	out.TaxPaidITC = Heads{
		CGST: math.Min(out.TaxPayable.CGST, out.EligibleITC.Net.CGST),
		SGST: math.Min(out.TaxPayable.SGST, out.EligibleITC.Net.SGST),
		IGST: math.Min(out.TaxPayable.IGST, out.EligibleITC.Net.IGST),
		Cess: math.Min(out.TaxPayable.Cess, out.EligibleITC.Net.Cess),
	}
	out.TaxPaidCash = Heads{
		CGST: math.Max(0, out.TaxPayable.CGST-out.TaxPaidITC.CGST),
		SGST: math.Max(0, out.TaxPayable.SGST-out.TaxPaidITC.SGST),
		IGST: math.Max(0, out.TaxPayable.IGST-out.TaxPaidITC.IGST),
		Cess: math.Max(0, out.TaxPayable.Cess-out.TaxPaidITC.Cess),
	}
	return out
}
