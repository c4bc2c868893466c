package sink

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/predicon/riskfeatures/internal/features"
)

func TestHeader(t *testing.T) {
	legacy := Header(features.FeatureSetLegacy)
	full := Header(features.FeatureSetFull)

	// 3 identity + 9 lender + calendar block + 5 balance/income + 4 servicing.
	if want := 3 + 9 + 10 + 5 + 4; len(legacy) != want {
		t.Errorf("legacy header = %d columns, want %d", len(legacy), want)
	}
	if want := 3 + 9 + 30 + 5 + 4; len(full) != want {
		t.Errorf("full header = %d columns, want %d", len(full), want)
	}
	if legacy[0] != "loan_id" {
		t.Errorf("first column = %q, want loan_id", legacy[0])
	}
}

func TestWriteCSV_RowShapes(t *testing.T) {
	approved := 1.0
	diff := 12
	records := []features.LoanFeatureRecord{
		{
			LoanID:         "123",
			PrimaryAccount: "9001",
			TxnDaySpan:     80,
			Lender:         &features.LenderVars{AmountDeb: -50, UniqCount: 1},
			Calendar: &features.CalendarStats{
				Daily:  features.CadenceStats{Balance: features.SeriesStats{Mean: 400, Median: 400}},
				Weekly: features.CadenceStats{Balance: features.SeriesStats{Mean: 2800}},
			},
			BalanceDiff:    &diff,
			Income:         &features.IncomeVars{Trend: features.TrendConst, RollingMean: 100},
			LenderApproved: &approved,
			Decision:       "Positive",
		},
		// An applicant with nothing but an id: every optional block empty.
		{LoanID: "456"},
	}

	for _, set := range []features.FeatureSet{features.FeatureSetLegacy, features.FeatureSetFull} {
		var buf bytes.Buffer
		if err := WriteCSV(&buf, records, set); err != nil {
			t.Fatalf("WriteCSV() error: %v", err)
		}

		rows, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("reading back CSV: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("CSV = %d rows, want header + 2", len(rows))
		}
		width := len(Header(set))
		for i, row := range rows {
			if len(row) != width {
				t.Errorf("row %d has %d cells, want %d", i, len(row), width)
			}
		}

		if rows[1][0] != "123" || rows[2][0] != "456" {
			t.Errorf("loan ids = %q/%q, want 123/456", rows[1][0], rows[2][0])
		}
		// Null blocks must read back as empty cells, not zeros.
		if got := rows[2][3]; got != "" {
			t.Errorf("empty applicant lender cell = %q, want empty", got)
		}
		if got := rows[2][width-4]; got != "" {
			t.Errorf("empty applicant LenderApproved cell = %q, want empty", got)
		}
	}
}

func TestWriteCSV_IncomeSentinelEmitsEmptyCells(t *testing.T) {
	// A sentinel income block (empty trend label) reads as "no usable
	// income data" and is written as nulls, not zeros, so the imputation
	// stage treats it like a missing block.
	records := []features.LoanFeatureRecord{{
		LoanID: "1",
		Income: &features.IncomeVars{},
	}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records, features.FeatureSetLegacy); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}

	byName := map[string]string{}
	for i, name := range rows[0] {
		byName[name] = rows[1][i]
	}
	for _, col := range []string{"latest_income_is_lowest", "income_rolling_mean", "income_trend", "income_net_flux"} {
		if got := byName[col]; got != "" {
			t.Errorf("%s = %q, want empty cell for sentinel income", col, got)
		}
	}
}

func TestWriteCSV_LegacyTruncatesCountMeans(t *testing.T) {
	records := []features.LoanFeatureRecord{{
		LoanID: "1",
		Calendar: &features.CalendarStats{
			Daily: features.CadenceStats{
				DebitCount:  features.SeriesStats{Mean: 2.9},
				CreditCount: features.SeriesStats{Mean: 1.2},
			},
		},
	}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records, features.FeatureSetLegacy); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}

	header := rows[0]
	byName := map[string]string{}
	for i, name := range header {
		byName[name] = rows[1][i]
	}
	if byName["avg_daily_debit_count"] != "2" {
		t.Errorf("avg_daily_debit_count = %q, want truncated 2", byName["avg_daily_debit_count"])
	}
	if byName["avg_daily_credit_count"] != "1" {
		t.Errorf("avg_daily_credit_count = %q, want truncated 1", byName["avg_daily_credit_count"])
	}
}
