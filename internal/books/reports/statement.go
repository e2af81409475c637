package reports

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/mahesh-atx/capro/internal/books"
)

// StatementRow is one posting to a ledger with the running balance after it.
type StatementRow struct {
	VoucherID   uuid.UUID         `json:"voucherId"`
	Number      string            `json:"voucherNo"`
	Date        string            `json:"date"`
	Type        books.VoucherType `json:"type"`
	Particulars string            `json:"particulars"`
	Debit       float64           `json:"debit"`
	Credit      float64           `json:"credit"`
	Balance     float64           `json:"balance"`
	BalanceSide books.Side        `json:"balanceType"`
}

// Statement is a ledger account statement over a period: the balance brought
// forward, each posting with a running balance, and the closing position.
type Statement struct {
	LedgerID    uuid.UUID      `json:"ledgerId"`
	LedgerName  string         `json:"ledgerName"`
	Period      Period         `json:"period"`
	Opening     float64        `json:"openingBalance"`
	OpeningSide books.Side     `json:"openingBalanceType"`
	Rows        []StatementRow `json:"rows"`
	Closing     float64        `json:"closingBalance"`
	ClosingSide books.Side     `json:"closingBalanceType"`
}

// BuildStatement derives the account statement for one ledger. Postings
// before the period fold into the balance brought forward; postings inside
// the period appear as rows. Balances are tracked signed (Dr positive) and
// presented as amount plus side.
func BuildStatement(ledger books.Ledger, vouchers []books.Voucher, period Period) Statement {
	signed := ledger.OpeningBalance
	if ledger.OpeningSide == books.SideCr {
		signed = -signed
	}

	type posting struct {
		voucher books.Voucher
		entry   books.Entry
	}
	var inPeriod []posting
	for _, v := range vouchers {
		for _, e := range v.Entries {
			if e.LedgerID != ledger.ID {
				continue
			}
			if period.From != "" && v.Date < period.From {
				if e.Side == books.SideDr {
					signed += e.Amount
				} else {
					signed -= e.Amount
				}
				continue
			}
			if period.Contains(v.Date) {
				inPeriod = append(inPeriod, posting{voucher: v, entry: e})
			}
		}
	}
	sort.SliceStable(inPeriod, func(i, j int) bool {
		if inPeriod[i].voucher.Date != inPeriod[j].voucher.Date {
			return inPeriod[i].voucher.Date < inPeriod[j].voucher.Date
		}
		return inPeriod[i].voucher.Number < inPeriod[j].voucher.Number
	})

	st := Statement{
		LedgerID:    ledger.ID,
		LedgerName:  ledger.Name,
		Period:      period,
		Opening:     math.Abs(signed),
		OpeningSide: sideOf(signed),
		Rows:        make([]StatementRow, 0, len(inPeriod)),
	}
	for _, p := range inPeriod {
		row := StatementRow{
			VoucherID:   p.voucher.ID,
			Number:      p.voucher.Number,
			Date:        p.voucher.Date,
			Type:        p.voucher.Type,
			Particulars: particularsFor(ledger.ID, p.voucher),
		}
		if p.entry.Side == books.SideDr {
			row.Debit = p.entry.Amount
			signed += p.entry.Amount
		} else {
			row.Credit = p.entry.Amount
			signed -= p.entry.Amount
		}
		row.Balance = math.Abs(signed)
		row.BalanceSide = sideOf(signed)
		st.Rows = append(st.Rows, row)
	}
	st.Closing = math.Abs(signed)
	st.ClosingSide = sideOf(signed)
	return st
}

func sideOf(signed float64) books.Side {
	if signed < 0 {
		return books.SideCr
	}
	return books.SideDr
}

// particularsFor names the other side of the transaction: the first entry
// posted to a different ledger, falling back to the narration.
func particularsFor(ledgerID uuid.UUID, v books.Voucher) string {
	for _, e := range v.Entries {
		if e.LedgerID != ledgerID {
			return e.LedgerName
		}
	}
	if v.Narration != "" {
		return v.Narration
	}
	return "-"
}
