package reports

import (
	"math"

	"github.com/mahesh-atx/capro/internal/books"
)

// BalanceSheet states assets against liabilities plus capital. For correctly
// posted books TotalAssets equals TotalLiabilitiesAndCapital; a mismatch
// indicates an upstream data problem and is left visible in the totals.
type BalanceSheet struct {
	Assets                     []LineItem `json:"assets"`
	Liabilities                []LineItem `json:"liabilities"`
	Capital                    []LineItem `json:"capital"`
	TotalAssets                float64    `json:"totalAssets"`
	TotalLiabilities           float64    `json:"totalLiabilities"`
	TotalCapital               float64    `json:"totalCapital"`
	TotalLiabilitiesAndCapital float64    `json:"totalLiabilitiesAndCapital"`
}

// BuildBalanceSheet buckets non-zero ledger balances into assets,
// liabilities, and capital, then folds the current period's result in as a
// synthetic capital line. The line shows |netProfit| under "Net Profit" or
// "Net Loss", while the signed value accumulates into TotalCapital so a loss
// reduces capital arithmetically.
func BuildBalanceSheet(ledgers []books.Ledger, vouchers []books.Voucher) BalanceSheet {
	bs := BalanceSheet{
		Assets:      []LineItem{},
		Liabilities: []LineItem{},
		Capital:     []LineItem{},
	}
	pl := BuildProfitLoss(ledgers, vouchers)

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
		case books.TypeAsset:
			bs.Assets = append(bs.Assets, item)
			bs.TotalAssets += balance.Balance
		case books.TypeLiability:
			bs.Liabilities = append(bs.Liabilities, item)
			bs.TotalLiabilities += balance.Balance
		case books.TypeCapital:
			bs.Capital = append(bs.Capital, item)
			bs.TotalCapital += balance.Balance
		}
	}

	if pl.NetProfit != 0 {
		name := "Net Profit"
		if pl.NetProfit < 0 {
			name = "Net Loss"
		}
		bs.Capital = append(bs.Capital, LineItem{
			Name:   name,
			Group:  "Profit & Loss A/c",
			Amount: math.Abs(pl.NetProfit),
		})
		bs.TotalCapital += pl.NetProfit
	}

	bs.TotalLiabilitiesAndCapital = bs.TotalLiabilities + bs.TotalCapital
	return bs
}
