// Package bankapp reads the bank-verification application store: loan
// decision metadata, the raw bank-report JSON blob, the account-match flag
// set by verification, and the agent-reviewed income section.
package bankapp

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ApplicationRow is one reviewed loan application. LoanID is the raw store
// value; callers normalize it before any join. BankReport and IncomeReview
// are opaque JSON blobs decoded downstream.
type ApplicationRow struct {
	LoanID               string
	FinalDecision        string
	UnderwritingDecision string
	EnteredDate          time.Time
	BankReport           []byte
	ReportTimeAdded      time.Time
	AccountMatchFlag     []byte
	IncomeReview         []byte
}

// Matched reports whether verification matched the applicant's stated
// account. The flag is stored as a one-byte bit field.
func (r ApplicationRow) Matched() bool {
	return len(r.AccountMatchFlag) > 0 && r.AccountMatchFlag[len(r.AccountMatchFlag)-1] == 0x01
}

// Store wraps the application-store connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New opens a connection pool against the given DSN.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("bankapp.New: empty DSN")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("bankapp.New: parsing config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("bankapp.New: connecting: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// FetchReviewedApplications returns the reviewed applications entered in
// [start, end], with their final decisions, report blobs and income review
// sections. An unreachable store is a batch-level failure and surfaces as an
// error.
func (s *Store) FetchReviewedApplications(ctx context.Context, start, end time.Time) ([]ApplicationRow, error) {
	const query = `
		SELECT
			l.loan_id,
			l.final_decision,
			COALESCE(fd.underwriting_final_decision, ''),
			l.entered_date,
			l.bank_report,
			l.report_time_added,
			l.is_acc_matched,
			COALESCE(l.income_review, '{}')
		FROM loan l
		LEFT JOIN final_decision fd ON l.loan_id = fd.loan_id
		WHERE l.entered_date >= $1 AND l.entered_date <= $2
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("bankapp.FetchReviewedApplications: querying: %w", err)
	}
	defer rows.Close()

	var apps []ApplicationRow
	for rows.Next() {
		var r ApplicationRow
		if err := rows.Scan(
			&r.LoanID,
			&r.FinalDecision,
			&r.UnderwritingDecision,
			&r.EnteredDate,
			&r.BankReport,
			&r.ReportTimeAdded,
			&r.AccountMatchFlag,
			&r.IncomeReview,
		); err != nil {
			return nil, fmt.Errorf("bankapp.FetchReviewedApplications: scanning: %w", err)
		}
		apps = append(apps, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bankapp.FetchReviewedApplications: iterating: %w", err)
	}
	return apps, nil
}
