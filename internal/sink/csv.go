// Package sink writes the finished feature table: a local CSV keyed by loan
// identifier, optionally mirrored to GCS for the downstream imputation and
// scoring stages.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/predicon/riskfeatures/internal/features"
)

var baseColumns = []string{
	"loan_id",
	"primary_account",
	"txn_days_count",
	"LenderAmountDeb",
	"LenderCountCred",
	"LenderAmountCred30",
	"LenderCountDeb",
	"LenderAmountDeb30",
	"LenderCountCred30",
	"LenderCountDeb30",
	"LenderAmountCred",
	"UniqLenderCount",
}

var legacyCalendarColumns = []string{
	"avg_daily_debit",
	"avg_daily_credit",
	"avg_daily_debit_count",
	"avg_daily_credit_count",
	"avg_daily_balance",
	"avg_weekly_debit",
	"avg_weekly_credit",
	"avg_weekly_debit_count",
	"avg_weekly_credit_count",
	"avg_weekly_balance",
}

var tailColumns = []string{
	"diff_pos_neg_days",
	"latest_income_is_lowest",
	"income_rolling_mean",
	"income_trend",
	"income_net_flux",
	"LenderApproved",
	"Decision",
	"Age",
	"LeadProvider",
}

var calendarSeries = []string{"debit_amt", "credit_amt", "credit_count", "debit_count", "balance"}
var calendarStatNames = []string{"mean", "median", "std"}

// Header returns the CSV column set for the given feature generation.
func Header(set features.FeatureSet) []string {
	cols := append([]string{}, baseColumns...)
	if set == features.FeatureSetLegacy {
		cols = append(cols, legacyCalendarColumns...)
	} else {
		for _, cadence := range []string{"daily", "weekly"} {
			for _, series := range calendarSeries {
				for _, stat := range calendarStatNames {
					cols = append(cols, cadence+"_"+series+"_"+stat)
				}
			}
		}
	}
	return append(cols, tailColumns...)
}

// WriteCSV emits the feature table. Missing blocks become empty cells so the
// imputation collaborator sees them as nulls, not zeros.
func WriteCSV(w io.Writer, records []features.LoanFeatureRecord, set features.FeatureSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(set)); err != nil {
		return fmt.Errorf("sink.WriteCSV: writing header: %w", err)
	}
	for i := range records {
		if err := cw.Write(row(&records[i], set)); err != nil {
			return fmt.Errorf("sink.WriteCSV: writing row %s: %w", records[i].LoanID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("sink.WriteCSV: flushing: %w", err)
	}
	return nil
}

// WriteCSVFile writes the feature table to a local path.
func WriteCSVFile(path string, records []features.LoanFeatureRecord, set features.FeatureSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sink.WriteCSVFile: %w", err)
	}
	if err := WriteCSV(f, records, set); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func row(r *features.LoanFeatureRecord, set features.FeatureSet) []string {
	cells := []string{r.LoanID, r.PrimaryAccount, strconv.Itoa(r.TxnDaySpan)}

	if r.Lender != nil {
		cells = append(cells,
			num(r.Lender.AmountDeb),
			num(r.Lender.CountCred),
			num(r.Lender.AmountCred30),
			num(r.Lender.CountDeb),
			num(r.Lender.AmountDeb30),
			num(r.Lender.CountCred30),
			num(r.Lender.CountDeb30),
			num(r.Lender.AmountCred),
			num(r.Lender.UniqCount),
		)
	} else {
		cells = append(cells, empty(9)...)
	}

	cells = append(cells, calendarCells(r.Calendar, set)...)

	if r.BalanceDiff != nil {
		cells = append(cells, strconv.Itoa(*r.BalanceDiff))
	} else {
		cells = append(cells, "")
	}

	if r.Income != nil && r.Income.Trend != "" {
		cells = append(cells,
			num(r.Income.LeastRecentIsMin),
			num(r.Income.RollingMean),
			r.Income.Trend,
			num(r.Income.NetFlux),
		)
	} else {
		cells = append(cells, empty(4)...)
	}

	if r.LenderApproved != nil {
		cells = append(cells, num(*r.LenderApproved))
	} else {
		cells = append(cells, "")
	}
	cells = append(cells, r.Decision)
	if r.Age != nil {
		cells = append(cells, strconv.Itoa(*r.Age))
	} else {
		cells = append(cells, "")
	}
	return append(cells, r.LeadProvider)
}

func calendarCells(c *features.CalendarStats, set features.FeatureSet) []string {
	if set == features.FeatureSetLegacy {
		if c == nil {
			return empty(len(legacyCalendarColumns))
		}
		// The legacy generation truncated count means to whole numbers.
		return []string{
			num(c.Daily.DebitAmt.Mean),
			num(c.Daily.CreditAmt.Mean),
			num(float64(int(c.Daily.DebitCount.Mean))),
			num(float64(int(c.Daily.CreditCount.Mean))),
			num(c.Daily.Balance.Mean),
			num(c.Weekly.DebitAmt.Mean),
			num(c.Weekly.CreditAmt.Mean),
			num(float64(int(c.Weekly.DebitCount.Mean))),
			num(float64(int(c.Weekly.CreditCount.Mean))),
			num(c.Weekly.Balance.Mean),
		}
	}

	if c == nil {
		return empty(len(calendarSeries) * len(calendarStatNames) * 2)
	}
	var cells []string
	for _, cadence := range []features.CadenceStats{c.Daily, c.Weekly} {
		for _, s := range []features.SeriesStats{
			cadence.DebitAmt, cadence.CreditAmt, cadence.CreditCount, cadence.DebitCount, cadence.Balance,
		} {
			cells = append(cells, num(s.Mean), num(s.Median), num(s.Std))
		}
	}
	return cells
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func empty(n int) []string {
	return make([]string, n)
}
