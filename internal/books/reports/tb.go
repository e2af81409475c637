// Package reports derives the statutory statements from ledger and voucher
// data. Every builder is a pure fold over in-memory collections; balances are
// recomputed from scratch on each call.
package reports

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/mahesh-atx/capro/internal/books"
)

// TrialBalanceRow is one non-zero ledger balance, populated on exactly one side.
type TrialBalanceRow struct {
	LedgerID   uuid.UUID `json:"ledgerId"`
	LedgerName string    `json:"ledgerName"`
	Group      string    `json:"group"`
	DrAmount   float64   `json:"drAmount"`
	CrAmount   float64   `json:"crAmount"`
}

// TrialBalance lists all active ledger balances split by side. For books
// posted exclusively through balanced vouchers it balances by construction;
// Balanced=false signals a bypassed save check or corrupted data and is
// surfaced prominently, never corrected.
type TrialBalance struct {
	Rows     []TrialBalanceRow `json:"rows"`
	TotalDr  float64           `json:"totalDr"`
	TotalCr  float64           `json:"totalCr"`
	Balanced bool              `json:"isBalanced"`
}

// BuildTrialBalance emits a row for every ledger with a non-zero balance,
// sorted by ledger name.
func BuildTrialBalance(ledgers []books.Ledger, vouchers []books.Voucher) TrialBalance {
	tb := TrialBalance{Rows: make([]TrialBalanceRow, 0, len(ledgers))}
	for _, ledger := range ledgers {
		balance := books.BalanceOf(ledger, vouchers)
		if balance.Balance == 0 {
			continue
		}
		row := TrialBalanceRow{
			LedgerID:   ledger.ID,
			LedgerName: ledger.Name,
			Group:      ledger.Group,
		}
		if balance.Side == books.SideDr {
			row.DrAmount = balance.Balance
			tb.TotalDr += balance.Balance
		} else {
			row.CrAmount = balance.Balance
			tb.TotalCr += balance.Balance
		}
		tb.Rows = append(tb.Rows, row)
	}
	sort.SliceStable(tb.Rows, func(i, j int) bool {
		return tb.Rows[i].LedgerName < tb.Rows[j].LedgerName
	})
	tb.Balanced = math.Abs(tb.TotalDr-tb.TotalCr) < books.Epsilon
	return tb
}
