package batch

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/predicon/riskfeatures/internal/bankreport"
	"github.com/predicon/riskfeatures/internal/features"
)

// Applicant is one loan application as pulled from the bank-verification
// store: the raw report blob, the report's time-added anchor, and the
// agent-reviewed income section. LoanID must already be canonical.
type Applicant struct {
	LoanID          string
	BankReport      []byte
	ReportTimeAdded civil.Date
	IncomeReview    []byte
}

// Orchestrator fans the per-applicant feature stages out across a worker
// pool. Stages are full barriers: every applicant finishes stage N before
// stage N+1 starts, mirroring the sequential map-merge structure of the
// batch. The lender list is loaded once and shared read-only.
type Orchestrator struct {
	Workers int
	Lenders []string
	Log     zerolog.Logger
}

// state is the per-applicant scratch carried between stages. The report is
// parsed once in the first stage and the transaction table reused by every
// later stage; the historical pipeline re-parsed the document per stage,
// which the converged implementation deliberately avoids.
type state struct {
	app     Applicant
	txns    []bankreport.Transaction
	primary string
	span    int

	record features.LoanFeatureRecord
	status Status
	reason string
}

// Run executes the full per-applicant pipeline over the batch. Applicants
// whose primary-account span fails the 60-day gate are removed before the
// lender/calendar/balance stages run. Per-applicant failures become sentinel
// records; only a cancelled context is returned as an error.
func (o *Orchestrator) Run(ctx context.Context, apps []Applicant) ([]features.LoanFeatureRecord, error) {
	workers := o.Workers
	if workers < 1 {
		workers = DefaultWorkers()
	}

	states := make([]*state, 0, len(apps))
	seen := make(map[string]struct{}, len(apps))
	for _, app := range apps {
		// First application per loan id wins; re-submissions are dropped.
		if _, dup := seen[app.LoanID]; dup {
			continue
		}
		seen[app.LoanID] = struct{}{}
		states = append(states, &state{
			app:    app,
			record: features.LoanFeatureRecord{LoanID: app.LoanID},
		})
	}

	o.stage(ctx, "primary_account", workers, states, o.primaryStage)

	// Eligibility gate: applicants without 60 days of primary-account
	// history never reach the feature stages.
	eligible := states[:0]
	for _, st := range states {
		if st.status == StatusOK && bankreport.Eligible(st.span) {
			st.record.TxnDaySpan = st.span
			eligible = append(eligible, st)
		}
	}
	o.Log.Info().
		Int("eligible", len(eligible)).
		Int("total", len(seen)).
		Msg("transaction-span gate applied")
	states = eligible

	o.stage(ctx, "lender_vars", workers, states, o.lenderStage)
	o.stage(ctx, "calendar_stats", workers, states, o.calendarStage)
	o.stage(ctx, "balance_vars", workers, states, o.balanceStage)
	o.stage(ctx, "income_variability", workers, states, o.incomeStage)

	records := make([]features.LoanFeatureRecord, len(states))
	for i, st := range states {
		records[i] = st.record
	}
	return records, ctx.Err()
}

// stage runs one fan-out/fan-in barrier and logs its outcome tally.
func (o *Orchestrator) stage(ctx context.Context, name string, workers int, states []*state, fn func(st *state)) {
	forEach(ctx, workers, len(states), func(i int) {
		fn(states[i])
	}, func(i int, err error) {
		states[i].status = StatusFailed
		states[i].reason = err.Error()
		o.Log.Error().
			Str("stage", name).
			Str("loan_id", states[i].app.LoanID).
			Err(err).
			Msg("applicant computation recovered")
	})

	var t tally
	for _, st := range states {
		t.add(st.status)
	}
	o.Log.Info().
		Str("stage", name).
		Int("ok", t.ok).
		Int("empty", t.empty).
		Int("failed", t.failed).
		Msg("stage complete")
}

// primaryStage parses the report, extracts the checking ledger and selects
// the primary account. An unparseable report is a failure; a parseable
// report with no qualifying transactions is empty. Both leave the applicant
// with a null feature row.
func (o *Orchestrator) primaryStage(st *state) {
	report, err := bankreport.Decode(st.app.BankReport)
	if err != nil {
		st.status = StatusFailed
		st.reason = err.Error()
		return
	}

	st.txns = bankreport.CheckingTransactions(report)
	primary, ok := bankreport.PrimaryAccount(st.txns)
	if !ok {
		st.status = StatusEmpty
		st.reason = "no qualifying checking transactions"
		return
	}
	st.primary = primary
	st.record.PrimaryAccount = primary
	st.span, _ = bankreport.TransactionDaySpan(st.txns, primary)
	st.status = StatusOK
}

func (o *Orchestrator) lenderStage(st *state) {
	v := features.ComputeLenderVars(st.txns, st.primary, o.Lenders, st.app.ReportTimeAdded)
	st.record.Lender = &v
}

func (o *Orchestrator) calendarStage(st *state) {
	frame, ok := features.BuildDailyFrame(st.txns, st.primary)
	if !ok {
		return
	}
	stats := features.Summarize(frame)
	st.record.Calendar = &stats
}

func (o *Orchestrator) balanceStage(st *state) {
	diff, ok := features.BalanceSignDiff(st.txns, st.primary)
	if !ok {
		return
	}
	st.record.BalanceDiff = &diff
}

func (o *Orchestrator) incomeStage(st *state) {
	v := features.IncomeVariability(st.app.IncomeReview)
	st.record.Income = &v
}
