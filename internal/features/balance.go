package features

import "github.com/predicon/riskfeatures/internal/bankreport"

// BalanceSignDiff counts forward-filled daily closing-balance days with a
// positive balance versus days at or below zero, and returns the signed
// difference (positive-days minus non-positive-days). The daily closing
// balance is the first reported balance of each calendar day. A large
// positive result indicates a consistently funded account; a large negative
// one, chronic overdraft or zero-balance days. Returns ok=false when the
// account has no transactions.
func BalanceSignDiff(txns []bankreport.Transaction, account string) (int, bool) {
	frame, ok := BuildDailyFrame(txns, account)
	if !ok {
		return 0, false
	}

	diff := 0
	for _, bal := range frame.Balance {
		if bal > 0 {
			diff++
		} else {
			diff--
		}
	}
	return diff, true
}
