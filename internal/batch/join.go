package batch

import (
	"cloud.google.com/go/civil"

	"github.com/predicon/riskfeatures/internal/features"
)

// positiveScoreThreshold splits model scores into decision labels for the
// model-vs-human comparison: at or below the threshold the model is
// Positive, above it Neutral.
const positiveScoreThreshold = 0.51

// ServicingRow is the loan-servicing metadata joined onto each feature row:
// origination fields for the derived applicant features and the
// lender-approved flag aggregated per loan. LoanID must be canonical.
type ServicingRow struct {
	LoanID          string
	LenderApproved  float64
	Campaign        string
	DateOfBirth     civil.Date
	HasDateOfBirth  bool
	OriginationDate civil.Date
	HasOrigination  bool
	Score           float64
	HasScore        bool
}

// JoinServicing left-joins servicing metadata onto the feature records in
// place. Rows for unknown loans are ignored; records without a servicing row
// keep their null metadata fields for the imputation stage. LenderApproved
// is summed across a loan's history rows before the join, so multiple status
// rows for one loan collapse into a single count.
func JoinServicing(records []features.LoanFeatureRecord, rows []ServicingRow) {
	type agg struct {
		row      ServicingRow
		approved float64
	}
	byLoan := make(map[string]*agg, len(rows))
	for _, r := range rows {
		a, ok := byLoan[r.LoanID]
		if !ok {
			a = &agg{row: r}
			byLoan[r.LoanID] = a
		}
		a.approved += r.LenderApproved
	}

	for i := range records {
		a, ok := byLoan[records[i].LoanID]
		if !ok {
			continue
		}
		approved := a.approved
		records[i].LenderApproved = &approved
		records[i].LeadProvider = features.LeadProvider(a.row.Campaign)
		if a.row.HasDateOfBirth && a.row.HasOrigination {
			age := features.AgeYears(a.row.OriginationDate, a.row.DateOfBirth)
			records[i].Age = &age
		}
		if a.row.HasScore {
			if a.row.Score <= positiveScoreThreshold {
				records[i].Decision = "Positive"
			} else {
				records[i].Decision = "Neutral"
			}
		}
	}
}
