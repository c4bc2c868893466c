package bankreport

// MinTransactionSpanDays is the minimum primary-account history, in days,
// required for an applicant to enter feature computation.
const MinTransactionSpanDays = 60

// PrimaryAccount returns the account number with the highest transaction
// count in the parsed table. Ties are broken by first appearance in the
// table, which makes the result deterministic for a given report.
// Returns ok=false when the table is empty.
func PrimaryAccount(txns []Transaction) (string, bool) {
	if len(txns) == 0 {
		return "", false
	}

	counts := make(map[string]int)
	var order []string
	for _, t := range txns {
		if _, ok := counts[t.AccountNumber]; !ok {
			order = append(order, t.AccountNumber)
		}
		counts[t.AccountNumber]++
	}

	best := order[0]
	for _, acct := range order[1:] {
		if counts[acct] > counts[best] {
			best = acct
		}
	}
	return best, true
}

// TransactionDaySpan returns the number of days between the first and last
// posted dates of the given account's transactions. Returns ok=false when the
// account has no transactions in the table.
func TransactionDaySpan(txns []Transaction, account string) (int, bool) {
	acctTxns := ForAccount(txns, account)
	if len(acctTxns) == 0 {
		return 0, false
	}

	first := acctTxns[0].PostedDate
	last := acctTxns[0].PostedDate
	for _, t := range acctTxns[1:] {
		if t.PostedDate.Before(first) {
			first = t.PostedDate
		}
		if t.PostedDate.After(last) {
			last = t.PostedDate
		}
	}
	return last.DaysSince(first), true
}

// Eligible reports whether a primary-account span passes the history gate.
// Exactly 60 days is included; 59 is not.
func Eligible(spanDays int) bool {
	return spanDays >= MinTransactionSpanDays
}
