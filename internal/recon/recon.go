// Package recon derives a bank reconciliation view from vouchers. The book
// column replays every posting that touches the bank ledger; the bank column
// replays only postings ticked as reconciled against the statement.
package recon

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/mahesh-atx/capro/internal/books"
	"github.com/mahesh-atx/capro/internal/books/reports"
)

// Transaction is one bank-ledger posting presented for ticking.
type Transaction struct {
	ID            string            `json:"id"`
	VoucherID     uuid.UUID         `json:"voucherId"`
	Date          string            `json:"date"`
	VoucherNo     string            `json:"voucherNo"`
	Type          books.VoucherType `json:"type"`
	Particulars   string            `json:"particulars"`
	Debit         float64           `json:"debit"`
	Credit        float64           `json:"credit"`
	ChequeNo      string            `json:"chequeNo,omitempty"`
	ChequeDate    string            `json:"chequeDate,omitempty"`
	IsReconciled  bool              `json:"isReconciled"`
	ReconcileDate string            `json:"reconcileDate,omitempty"`
	Narration     string            `json:"narration,omitempty"`
}

// Balance is an absolute amount with its Dr/Cr interpretation.
type Balance struct {
	Amount float64    `json:"amount"`
	Side   books.Side `json:"type"`
}

// Summary compares the book balance with the reconciled bank balance.
type Summary struct {
	BookBalance          Balance `json:"bookBalance"`
	BankBalance          Balance `json:"bankBalance"`
	UnreconciledDeposits float64 `json:"unreconciledDeposits"`
	UnreconciledPayments float64 `json:"unreconciledPayments"`
	UnreconciledCount    int     `json:"unreconciledCount"`
	ReconciledCount      int     `json:"reconciledCount"`
}

// Transactions extracts the bank ledger's postings from vouchers within the
// period, sorted by date. Particulars show the contra ledger when one exists.
func Transactions(bankLedgerID uuid.UUID, vouchers []books.Voucher, period reports.Period) []Transaction {
	var out []Transaction
	for _, v := range vouchers {
		if !period.Contains(v.Date) {
			continue
		}
		for _, e := range v.Entries {
			if e.LedgerID != bankLedgerID {
				continue
			}
			t := Transaction{
				ID:            v.ID.String() + "-" + e.LedgerID.String(),
				VoucherID:     v.ID,
				Date:          v.Date,
				VoucherNo:     v.Number,
				Type:          v.Type,
				Particulars:   particularsFor(v, bankLedgerID),
				ChequeNo:      v.ChequeNo,
				ChequeDate:    v.ChequeDate,
				IsReconciled:  v.IsReconciled,
				ReconcileDate: v.ReconcileDate,
				Narration:     v.Narration,
			}
			if e.Side == books.SideDr {
				t.Debit = e.Amount
			} else {
				t.Credit = e.Amount
			}
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// BookBalance folds every transaction over the opening balance.
func BookBalance(transactions []Transaction, opening float64, openingSide books.Side) Balance {
	return foldBalance(transactions, opening, openingSide, false)
}

// BankBalance folds only reconciled transactions over the opening balance.
func BankBalance(transactions []Transaction, opening float64, openingSide books.Side) Balance {
	return foldBalance(transactions, opening, openingSide, true)
}

// BuildSummary computes both balances plus the unreconciled breakdown.
func BuildSummary(transactions []Transaction, opening float64, openingSide books.Side) Summary {
	s := Summary{
		BookBalance: BookBalance(transactions, opening, openingSide),
		BankBalance: BankBalance(transactions, opening, openingSide),
	}
	for _, t := range transactions {
		if t.IsReconciled {
			s.ReconciledCount++
			continue
		}
		s.UnreconciledCount++
		s.UnreconciledDeposits += t.Debit
		s.UnreconciledPayments += t.Credit
	}
	return s
}

func foldBalance(transactions []Transaction, opening float64, openingSide books.Side, reconciledOnly bool) Balance {
	balance := opening
	if openingSide == books.SideCr {
		balance = -opening
	}
	for _, t := range transactions {
		if reconciledOnly && !t.IsReconciled {
			continue
		}
		balance += t.Debit - t.Credit
	}
	side := books.SideDr
	if balance < 0 {
		side = books.SideCr
	}
	return Balance{Amount: math.Abs(balance), Side: side}
}

func particularsFor(v books.Voucher, bankLedgerID uuid.UUID) string {
	for _, e := range v.Entries {
		if e.LedgerID != bankLedgerID {
			return e.LedgerName
		}
	}
	if v.Narration != "" {
		return v.Narration
	}
	return "-"
}
