package batch

import (
	"context"
	"fmt"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
)

const (
	day0MS = 1609459200000 // 2021-01-01 UTC
	dayMS  = 86400000
)

var anchorDate = civil.Date{Year: 2021, Month: 3, Day: 15}

// reportWithSpan builds a single-checking-account report whose transactions
// span the given number of days, with a lender repayment memo on the first
// entry.
func reportWithSpan(spanDays int) []byte {
	return []byte(fmt.Sprintf(`{"accounts": [{
		"accountNumber": "9001",
		"accountType": "checking",
		"transactions": [
			{"postedDate": %d, "amount": -55.25, "balance": 400, "memo": "QuickCash repayment"},
			{"postedDate": %d, "amount": 1200, "balance": 1600, "memo": "payroll deposit"}
		]
	}]}`, day0MS, day0MS+int64(spanDays)*dayMS))
}

func testOrchestrator() *Orchestrator {
	return &Orchestrator{
		Workers: 2,
		Lenders: []string{"QuickCash"},
		Log:     zerolog.Nop(),
	}
}

func TestOrchestrator_EligibleApplicant(t *testing.T) {
	apps := []Applicant{{
		LoanID:          "101",
		BankReport:      reportWithSpan(75),
		ReportTimeAdded: anchorDate,
	}}

	records, err := testOrchestrator().Run(context.Background(), apps)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Run() = %d records, want 1", len(records))
	}

	r := records[0]
	if r.LoanID != "101" || r.PrimaryAccount != "9001" || r.TxnDaySpan != 75 {
		t.Errorf("record = %s/%s span %d, want 101/9001 span 75", r.LoanID, r.PrimaryAccount, r.TxnDaySpan)
	}
	if r.Lender == nil || r.Lender.AmountDeb != -55.25 || r.Lender.UniqCount != 1 {
		t.Errorf("lender block = %+v, want matched QuickCash debit -55.25", r.Lender)
	}
	if r.Calendar == nil {
		t.Fatal("calendar block missing")
	}
	if r.Calendar.Daily.Balance.Mean == 0 {
		t.Error("daily balance mean should be non-zero for a funded account")
	}
	if r.BalanceDiff == nil || *r.BalanceDiff != 76 {
		t.Errorf("balance diff = %v, want 76 (every forward-filled day positive)", r.BalanceDiff)
	}
	if r.Income == nil || r.Income.Trend != "" {
		t.Errorf("income block = %+v, want sentinel for missing income JSON", r.Income)
	}
}

func TestOrchestrator_SpanGateBoundary(t *testing.T) {
	apps := []Applicant{
		{LoanID: "59", BankReport: reportWithSpan(59), ReportTimeAdded: anchorDate},
		{LoanID: "60", BankReport: reportWithSpan(60), ReportTimeAdded: anchorDate},
	}

	records, err := testOrchestrator().Run(context.Background(), apps)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Run() = %d records, want 1 (59-day span excluded)", len(records))
	}
	if records[0].LoanID != "60" {
		t.Errorf("surviving record = %s, want 60", records[0].LoanID)
	}
}

func TestOrchestrator_MalformedAndEmptyApplicants(t *testing.T) {
	apps := []Applicant{
		{LoanID: "1", BankReport: []byte(`{{{`), ReportTimeAdded: anchorDate},
		{LoanID: "2", BankReport: []byte(`{"accounts": [{"accountNumber": "s", "accountType": "savings", "transactions": [{"postedDate": 1609459200000, "amount": 1, "balance": 1, "memo": "m"}]}]}`), ReportTimeAdded: anchorDate},
		{LoanID: "3", BankReport: reportWithSpan(90), ReportTimeAdded: anchorDate},
	}

	records, err := testOrchestrator().Run(context.Background(), apps)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	// Malformed and empty applicants are sentinels that never pass the
	// gate; the batch itself must not abort.
	if len(records) != 1 || records[0].LoanID != "3" {
		t.Fatalf("Run() = %+v, want only loan 3", records)
	}
}

func TestOrchestrator_DuplicateLoanIDFirstWins(t *testing.T) {
	apps := []Applicant{
		{LoanID: "7", BankReport: reportWithSpan(80), ReportTimeAdded: anchorDate},
		{LoanID: "7", BankReport: []byte(`{{{`), ReportTimeAdded: anchorDate},
	}

	records, err := testOrchestrator().Run(context.Background(), apps)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(records) != 1 || records[0].PrimaryAccount != "9001" {
		t.Fatalf("Run() = %+v, want the first submission's record", records)
	}
}

func TestForEach_RecoversPanics(t *testing.T) {
	var failed []int
	done := make([]bool, 4)
	forEach(context.Background(), 2, 4, func(i int) {
		if i == 2 {
			panic("boom")
		}
		done[i] = true
	}, func(i int, err error) {
		failed = append(failed, i)
	})

	if len(failed) != 1 || failed[0] != 2 {
		t.Errorf("failed indices = %v, want [2]", failed)
	}
	for _, i := range []int{0, 1, 3} {
		if !done[i] {
			t.Errorf("index %d did not run", i)
		}
	}
}
