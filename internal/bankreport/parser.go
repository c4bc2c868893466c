package bankreport

import "strings"

const checkingAccountType = "checking"

// CheckingTransactions extracts the normalized transaction table for all
// qualifying checking accounts in the report.
//
// Accounts are visited in document order. An account is skipped when it has
// no transactions, when its type (trimmed, lowercased) is not "checking", or
// when its account number was already processed; the first occurrence of a
// recurring account number wins. Pending entries are dropped after assembly;
// entries with no pending field are kept.
//
// An empty result is not an error: it means the applicant has no usable
// checking history and downstream stages must produce their zero/sentinel
// records.
func CheckingTransactions(r *Report) []Transaction {
	if r == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var txns []Transaction

	for _, acct := range r.Accounts {
		if len(acct.Transactions) == 0 {
			continue
		}
		if strings.ToLower(strings.TrimSpace(acct.AccountType)) != checkingAccountType {
			continue
		}
		if _, dup := seen[acct.AccountNumber]; dup {
			continue
		}
		seen[acct.AccountNumber] = struct{}{}

		for _, raw := range acct.Transactions {
			t := Transaction{
				AccountNumber: acct.AccountNumber,
				PostedDate:    raw.PostedDate.Date(),
				Amount:        raw.Amount,
				Balance:       raw.Balance,
				Memo:          raw.Memo,
			}
			if len(raw.Contexts) > 0 {
				t.Category = raw.Contexts[0].CategoryName
				t.HasCategory = true
			}
			if raw.Pending != nil {
				t.Pending = *raw.Pending
			}
			txns = append(txns, t)
		}
	}

	// Settled entries only.
	settled := txns[:0]
	for _, t := range txns {
		if !t.Pending {
			settled = append(settled, t)
		}
	}
	return settled
}

// ForAccount filters the transaction table down to a single account,
// preserving order.
func ForAccount(txns []Transaction, account string) []Transaction {
	var out []Transaction
	for _, t := range txns {
		if t.AccountNumber == account {
			out = append(out, t)
		}
	}
	return out
}
