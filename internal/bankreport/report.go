package bankreport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

// Report is one applicant's raw bank-verification report. Reports are decoded
// fresh per invocation and never mutated.
type Report struct {
	Accounts []Account `json:"accounts"`
}

// Account is one account inside a bank report. The account number is an
// identifier but is not guaranteed unique across report versions; the account
// type is matched case- and whitespace-insensitively against "checking".
type Account struct {
	AccountNumber string           `json:"accountNumber"`
	AccountType   string           `json:"accountType"`
	Transactions  []RawTransaction `json:"transactions"`
}

// RawTransaction mirrors the wire shape of a single ledger entry. PostedDate
// arrives as epoch milliseconds, Pending is optional (absent means the entry
// is settled) and Contexts may be empty.
type RawTransaction struct {
	PostedDate EpochMillis    `json:"postedDate"`
	Amount     float64        `json:"amount"`
	Balance    float64        `json:"balance"`
	Memo       string         `json:"memo"`
	Pending    *bool          `json:"pending"`
	Contexts   []ContextEntry `json:"contexts"`
}

// ContextEntry carries the category assigned to a transaction. Only the first
// entry's category name is used.
type ContextEntry struct {
	CategoryName string `json:"categoryName"`
}

// EpochMillis is an epoch-millisecond timestamp that may be encoded as a JSON
// number or as a quoted numeric string, depending on the report version.
type EpochMillis int64

func (e *EpochMillis) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("postedDate is empty")
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		// Some report versions emit fractional milliseconds.
		f, ferr := strconv.ParseFloat(string(data), 64)
		if ferr != nil {
			return fmt.Errorf("postedDate %q: %w", data, err)
		}
		ms = int64(f)
	}
	*e = EpochMillis(ms)
	return nil
}

// Date converts the timestamp to a UTC calendar date.
func (e EpochMillis) Date() civil.Date {
	return civil.DateOf(time.UnixMilli(int64(e)).UTC())
}

// Transaction is a normalized, settled ledger entry attributed to its account.
// Amount is signed: positive is a credit/deposit, negative a debit/withdrawal.
// Balance is the running balance as of this entry.
type Transaction struct {
	AccountNumber string
	PostedDate    civil.Date
	Amount        float64
	Balance       float64
	Memo          string
	Category      string
	HasCategory   bool
	Pending       bool
}

// Decode parses one raw bank report document. A report without an "accounts"
// key is malformed; a report whose accounts list is empty is legitimate and
// simply yields no transactions.
func Decode(raw []byte) (*Report, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("bankreport.Decode: %w", err)
	}
	if _, ok := probe["accounts"]; !ok {
		return nil, fmt.Errorf("bankreport.Decode: missing required key %q", "accounts")
	}

	var r Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("bankreport.Decode: %w", err)
	}
	return &r, nil
}
