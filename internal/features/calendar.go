package features

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/predicon/riskfeatures/internal/bankreport"
)

// DailyFrame is the five resampled series for one account on a contiguous
// daily calendar: flow fields (amounts and counts) are zero-filled on days
// with no transactions, the balance is the first reported balance of each
// day forward-filled across gaps. All slices have equal length; index i is
// the day Start.AddDays(i).
type DailyFrame struct {
	Start       civil.Date
	DebitAmt    []float64
	CreditAmt   []float64
	CreditCount []float64
	DebitCount  []float64
	Balance     []float64
}

// Days returns the calendar length of the frame.
func (f *DailyFrame) Days() int { return len(f.Balance) }

// BuildDailyFrame resamples one account's irregular transaction stream onto
// the daily calendar spanning its observed date range. Debits are amounts
// < 0, credits are amounts >= 0. Returns ok=false when the account has no
// transactions.
func BuildDailyFrame(txns []bankreport.Transaction, account string) (*DailyFrame, bool) {
	acctTxns := bankreport.ForAccount(txns, account)
	if len(acctTxns) == 0 {
		return nil, false
	}

	start := acctTxns[0].PostedDate
	end := acctTxns[0].PostedDate
	for _, t := range acctTxns[1:] {
		if t.PostedDate.Before(start) {
			start = t.PostedDate
		}
		if t.PostedDate.After(end) {
			end = t.PostedDate
		}
	}
	days := end.DaysSince(start) + 1

	f := &DailyFrame{
		Start:       start,
		DebitAmt:    make([]float64, days),
		CreditAmt:   make([]float64, days),
		CreditCount: make([]float64, days),
		DebitCount:  make([]float64, days),
		Balance:     make([]float64, days),
	}

	// First reported balance per day, in input order.
	balanceSeen := make([]bool, days)
	for _, t := range acctTxns {
		i := t.PostedDate.DaysSince(start)
		if t.Amount < 0 {
			f.DebitAmt[i] += t.Amount
			f.DebitCount[i]++
		} else {
			f.CreditAmt[i] += t.Amount
			f.CreditCount[i]++
		}
		if !balanceSeen[i] {
			f.Balance[i] = t.Balance
			balanceSeen[i] = true
		}
	}

	// Forward-fill the balance level; flows stay zero on gap days. Day 0 is
	// the first posted date so it always carries a reported balance.
	for i := 1; i < days; i++ {
		if !balanceSeen[i] {
			f.Balance[i] = f.Balance[i-1]
		}
	}

	return f, true
}

// weeklyFrame re-aggregates the daily frame into calendar weeks ending on
// Sunday. Every series is summed per week, including the balance: summing a
// level quantity across a week is a modeling simplification carried from the
// historical pipeline, kept for feature compatibility.
func weeklyFrame(f *DailyFrame) *DailyFrame {
	w := &DailyFrame{Start: f.Start}

	var wkDebitAmt, wkCreditAmt, wkCreditCount, wkDebitCount, wkBalance float64
	flush := func() {
		w.DebitAmt = append(w.DebitAmt, wkDebitAmt)
		w.CreditAmt = append(w.CreditAmt, wkCreditAmt)
		w.CreditCount = append(w.CreditCount, wkCreditCount)
		w.DebitCount = append(w.DebitCount, wkDebitCount)
		w.Balance = append(w.Balance, wkBalance)
		wkDebitAmt, wkCreditAmt, wkCreditCount, wkDebitCount, wkBalance = 0, 0, 0, 0, 0
	}

	for i := 0; i < f.Days(); i++ {
		day := f.Start.AddDays(i)
		wkDebitAmt += f.DebitAmt[i]
		wkCreditAmt += f.CreditAmt[i]
		wkCreditCount += f.CreditCount[i]
		wkDebitCount += f.DebitCount[i]
		wkBalance += f.Balance[i]
		if day.In(time.UTC).Weekday() == time.Sunday || i == f.Days()-1 {
			flush()
		}
	}
	return w
}

// CadenceStats holds the summary statistics of the five series at one
// cadence.
type CadenceStats struct {
	DebitAmt    SeriesStats
	CreditAmt   SeriesStats
	CreditCount SeriesStats
	DebitCount  SeriesStats
	Balance     SeriesStats
}

// CalendarStats is the full calendar feature block for one loan: five series
// times three statistics times two cadences.
type CalendarStats struct {
	Daily  CadenceStats
	Weekly CadenceStats
}

// Summarize computes mean, median and sample standard deviation for each
// series at daily and weekly cadence.
func Summarize(f *DailyFrame) CalendarStats {
	weekly := weeklyFrame(f)
	return CalendarStats{
		Daily:  cadenceStats(f),
		Weekly: cadenceStats(weekly),
	}
}

func cadenceStats(f *DailyFrame) CadenceStats {
	return CadenceStats{
		DebitAmt:    summarize(f.DebitAmt),
		CreditAmt:   summarize(f.CreditAmt),
		CreditCount: summarize(f.CreditCount),
		DebitCount:  summarize(f.DebitCount),
		Balance:     summarize(f.Balance),
	}
}
