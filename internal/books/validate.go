package books

import "math"

// Epsilon absorbs floating-point drift when comparing debit and credit
// totals. Amounts are rupees with paise, so anything under a paisa is noise.
const Epsilon = 0.01

// BalanceResult is the outcome of checking a set of voucher entries.
type BalanceResult struct {
	TotalDr    float64 `json:"totalDr"`
	TotalCr    float64 `json:"totalCr"`
	Difference float64 `json:"difference"`
	Balanced   bool    `json:"isBalanced"`
}

// CheckBalance computes debit and credit totals for a set of entries and
// whether they balance within Epsilon. It never fails: entries with a zero
// amount simply contribute nothing, matching the entry screen which checks
// balance on every keystroke. Callers persisting a voucher must refuse to
// save when Balanced is false and surface Difference to the user.
func CheckBalance(entries []Entry) BalanceResult {
	var dr, cr float64
	for _, e := range entries {
		switch e.Side {
		case SideDr:
			dr += e.Amount
		case SideCr:
			cr += e.Amount
		}
	}
	diff := math.Abs(dr - cr)
	return BalanceResult{
		TotalDr:    dr,
		TotalCr:    cr,
		Difference: diff,
		Balanced:   diff < Epsilon,
	}
}
