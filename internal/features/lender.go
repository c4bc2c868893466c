package features

import (
	"strings"

	"cloud.google.com/go/civil"

	"github.com/predicon/riskfeatures/internal/bankreport"
)

// recencyWindowDays bounds the trailing window that proxies for active
// revolving-loan behavior at underwriting time.
const recencyWindowDays = 30

// LenderVars are the lender-repayment aggregates for one loan. The zero
// value is the explicit no-match record: every field stays 0.0 when no
// transaction memo matches a known lending company.
type LenderVars struct {
	AmountDeb    float64 // all-time debited amount, kept negative
	CountCred    float64
	AmountCred30 float64
	CountDeb     float64
	AmountDeb30  float64
	CountCred30  float64
	CountDeb30   float64
	AmountCred   float64
	UniqCount    float64 // distinct matched lender names
}

// ComputeLenderVars scans the primary account's transactions for memos
// containing a known lender name (case-insensitive substring). The matched
// name per transaction is the one occurring earliest in the memo; when two
// names match at the same position, the first list entry wins, so the
// lender list order is part of the contract. anchor is the report's
// time-added date; days-diff = anchor - posted date, and the 30-day window
// is inclusive. Amounts are rounded to two decimal places before
// aggregation.
func ComputeLenderVars(txns []bankreport.Transaction, account string, lenders []string, anchor civil.Date) LenderVars {
	var v LenderVars

	lowered := make([]string, len(lenders))
	for i, name := range lenders {
		lowered[i] = strings.ToLower(name)
	}

	uniq := make(map[string]struct{})
	for _, t := range bankreport.ForAccount(txns, account) {
		memo := strings.ToLower(t.Memo)
		matched := ""
		bestPos := -1
		for i, name := range lowered {
			if name == "" {
				continue
			}
			if pos := strings.Index(memo, name); pos >= 0 && (bestPos == -1 || pos < bestPos) {
				matched = lenders[i]
				bestPos = pos
			}
		}
		if matched == "" {
			continue
		}
		uniq[matched] = struct{}{}

		amt := round2(t.Amount)
		daysDiff := anchor.DaysSince(t.PostedDate)
		recent := daysDiff <= recencyWindowDays

		if amt > 0 {
			v.AmountCred += amt
			v.CountCred++
			if recent {
				v.AmountCred30 += amt
				v.CountCred30++
			}
		} else if amt < 0 {
			v.AmountDeb += amt
			v.CountDeb++
			if recent {
				v.AmountDeb30 += amt
				v.CountDeb30++
			}
		}
	}
	v.UniqCount = float64(len(uniq))
	return v
}
