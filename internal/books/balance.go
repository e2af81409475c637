package books

import "math"

// LedgerBalance is the aggregated position of one ledger.
type LedgerBalance struct {
	DrTotal float64 `json:"drTotal"`
	CrTotal float64 `json:"crTotal"`
	Balance float64 `json:"balance"`
	Side    Side    `json:"balanceType"`
}

// BalanceOf folds a ledger's opening balance and every matching voucher entry
// into a net balance and side. Balances are always recomputed from the full
// voucher list; there is no cache to go stale. O(V*E) per ledger, which is
// the accepted ceiling at single-practice volumes.
func BalanceOf(ledger Ledger, vouchers []Voucher) LedgerBalance {
	var dr, cr float64
	switch ledger.OpeningSide {
	case SideCr:
		cr = ledger.OpeningBalance
	default:
		dr = ledger.OpeningBalance
	}
	for _, v := range vouchers {
		for _, e := range v.Entries {
			if e.LedgerID != ledger.ID {
				continue
			}
			if e.Side == SideDr {
				dr += e.Amount
			} else {
				cr += e.Amount
			}
		}
	}
	side := SideDr
	if dr < cr {
		side = SideCr
	}
	return LedgerBalance{
		DrTotal: dr,
		CrTotal: cr,
		Balance: math.Abs(dr - cr),
		Side:    side,
	}
}
