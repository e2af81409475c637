package reports

import (
	"github.com/mahesh-atx/capro/internal/books"
)

// LineItem is one statement row: a ledger's name, group, and net balance.
type LineItem struct {
	Name   string  `json:"name"`
	Group  string  `json:"group"`
	Amount float64 `json:"amount"`
}

// ProfitLoss is the income statement: income and expense ledgers with their
// totals. NetProfit is signed; negative denotes a net loss. The sign
// convention feeds the balance sheet and must not change.
type ProfitLoss struct {
	IncomeItems   []LineItem `json:"incomeItems"`
	ExpenseItems  []LineItem `json:"expenseItems"`
	TotalIncome   float64    `json:"totalIncome"`
	TotalExpenses float64    `json:"totalExpenses"`
	NetProfit     float64    `json:"netProfit"`
}

// BuildProfitLoss classifies every non-zero-balance ledger by its group type
// and accumulates income against expenses.
func BuildProfitLoss(ledgers []books.Ledger, vouchers []books.Voucher) ProfitLoss {
	pl := ProfitLoss{
		IncomeItems:  []LineItem{},
		ExpenseItems: []LineItem{},
	}
	for _, ledger := range ledgers {
		groupType, ok := books.GroupTypeOf(ledger.Group)
		if !ok {
			continue
		}
		balance := books.BalanceOf(ledger, vouchers)
		if balance.Balance == 0 {
			continue
		}
		item := LineItem{Name: ledger.Name, Group: ledger.Group, Amount: balance.Balance}
		switch groupType {
		case books.TypeIncome:
			pl.IncomeItems = append(pl.IncomeItems, item)
			pl.TotalIncome += balance.Balance
		case books.TypeExpense:
			pl.ExpenseItems = append(pl.ExpenseItems, item)
			pl.TotalExpenses += balance.Balance
		}
	}
	pl.NetProfit = pl.TotalIncome - pl.TotalExpenses
	return pl
}
