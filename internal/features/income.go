package features

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Income trend labels. "decreasing" is emitted for a raw series that rises
// monotonically and "increasing" for one that falls: the labels are inverted
// relative to their plain meaning. This mirrors the historical scoring model
// inputs; correcting the names would silently shift every downstream model
// feature, so the observed behavior is preserved. See DESIGN.md.
const (
	TrendConst      = "const"
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendIrregular  = "irregular"
)

// IncomeVars characterizes the variability of an applicant's agent-reviewed
// income records. The zero value (with an empty trend label) is the sentinel
// emitted for malformed or missing income data, so batch joins always get a
// row.
type IncomeVars struct {
	LeastRecentIsMin float64 // 1.0 when the record at the minimum-amount index is last
	RollingMean      float64 // 2-period rolling mean over the tail of the series
	Trend            string
	NetFlux          float64 // sum of successive diffs of the reversed series
}

// incomeReview is the agent-entered income section of a bank-verification
// application. Amounts may arrive as plain numbers or comma-formatted
// strings.
type incomeReview struct {
	IncomeReview struct {
		Data struct {
			Sources []incomeSource `json:"sources"`
		} `json:"data"`
	} `json:"incomeReview"`
}

type incomeSource struct {
	SourceName string         `json:"sourceName"`
	Records    []incomeRecord `json:"records"`
}

type incomeRecord struct {
	Date   string       `json:"date"`
	Amount incomeAmount `json:"amount"`
}

type incomeAmount float64

func (a *incomeAmount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	s := strings.ReplaceAll(strings.TrimSpace(string(data)), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*a = incomeAmount(f)
	return nil
}

// IncomeVariability parses the income review JSON for one applicant and
// derives the variability features from the first declared income source.
// Records are assumed to be listed most-recent first, as the review tool
// enters them. Any parse failure yields the sentinel zero record.
func IncomeVariability(raw []byte) IncomeVars {
	var review incomeReview
	if err := json.Unmarshal(raw, &review); err != nil {
		return IncomeVars{}
	}
	sources := review.IncomeReview.Data.Sources
	if len(sources) == 0 || len(sources[0].Records) == 0 {
		return IncomeVars{}
	}

	amounts := make([]float64, len(sources[0].Records))
	for i, rec := range sources[0].Records {
		amounts[i] = float64(rec.Amount)
	}

	return IncomeVars{
		LeastRecentIsMin: leastRecentIsMin(amounts),
		RollingMean:      tailRollingMean(amounts),
		Trend:            trendLabel(amounts),
		NetFlux:          netFlux(amounts),
	}
}

// leastRecentIsMin flags whether the earliest-dated record holds the minimum
// amount. With records listed most-recent first, the earliest record's index
// is approximated by the position of the minimum amount sitting at the tail
// of the series.
func leastRecentIsMin(amounts []float64) float64 {
	argmin := 0
	for i, a := range amounts {
		if a < amounts[argmin] {
			argmin = i
		}
	}
	if argmin == len(amounts)-1 {
		return 1.0
	}
	return 0.0
}

// tailRollingMean is the final value of a 2-period rolling mean, i.e. the
// mean of the two oldest records (the tail of the most-recent-first series).
func tailRollingMean(amounts []float64) float64 {
	if len(amounts) == 1 {
		return amounts[0]
	}
	return (amounts[len(amounts)-2] + amounts[len(amounts)-1]) / 2
}

func trendLabel(amounts []float64) string {
	allEqual := true
	nonDecreasing := true
	nonIncreasing := true
	for i := 1; i < len(amounts); i++ {
		if amounts[i] != amounts[i-1] {
			allEqual = false
		}
		if amounts[i] < amounts[i-1] {
			nonDecreasing = false
		}
		if amounts[i] > amounts[i-1] {
			nonIncreasing = false
		}
	}
	switch {
	case allEqual:
		return TrendConst
	case nonDecreasing:
		// Raw series rises; historical label says the opposite.
		return TrendDecreasing
	case nonIncreasing:
		return TrendIncreasing
	default:
		return TrendIrregular
	}
}

// netFlux reverses the record order (oldest first) and sums the successive
// differences, rounded to two decimal places.
func netFlux(amounts []float64) float64 {
	var flux float64
	for i := len(amounts) - 2; i >= 0; i-- {
		flux += amounts[i] - amounts[i+1]
	}
	return round2(flux)
}
