package features

import "fmt"

// FeatureSet selects which generation of the calendar feature block a run
// emits. The legacy generation shipped mean-only aggregates with count means
// truncated to whole numbers; the full generation adds median and standard
// deviation for every series. Both subsets are computed from the same frame.
type FeatureSet int

const (
	// FeatureSetLegacy emits the original ten avg_daily_*/avg_weekly_*
	// aggregates.
	FeatureSetLegacy FeatureSet = iota
	// FeatureSetFull emits mean, median and std for all five series at both
	// cadences (30 columns).
	FeatureSetFull
)

// ParseFeatureSet maps a configuration string to a FeatureSet.
func ParseFeatureSet(s string) (FeatureSet, error) {
	switch s {
	case "", "legacy", "mean":
		return FeatureSetLegacy, nil
	case "full":
		return FeatureSetFull, nil
	}
	return 0, fmt.Errorf("unknown feature set %q", s)
}

// LoanFeatureRecord is one row of the output feature table. Optional blocks
// are nil when the applicant had no usable data for that stage; the CSV sink
// emits them as empty cells for the downstream imputation stage. LenderVars
// is special-cased: a report with a primary account but no lender matches
// gets an explicit zero-filled block, never nil.
type LoanFeatureRecord struct {
	LoanID         string
	PrimaryAccount string
	TxnDaySpan     int

	Lender      *LenderVars
	Calendar    *CalendarStats
	BalanceDiff *int
	Income      *IncomeVars

	// Servicing-side metadata joined onto the row.
	LenderApproved *float64
	Decision       string
	Age            *int
	LeadProvider   string
}
