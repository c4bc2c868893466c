// Package loanstore reads the loan-servicing store: loan history and
// origination metadata used to enrich and evaluate the feature table.
package loanstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"
)

// LoanHistoryRow is one loan-history record. LenderApproved is derived in
// the query from the loan status so callers never re-implement the status
// string comparison.
type LoanHistoryRow struct {
	LoanID          string                 `bigquery:"loan_id"`
	LoanStatus      string                 `bigquery:"loan_status"`
	TimeAdded       bigquery.NullTimestamp `bigquery:"time_added"`
	LenderApproved  int64                  `bigquery:"lender_approved"`
	Campaign        bigquery.NullString    `bigquery:"campaign"`
	DateOfBirth     bigquery.NullDate      `bigquery:"date_of_birth"`
	OriginationDate bigquery.NullDate      `bigquery:"origination_date"`
	Score           bigquery.NullFloat64   `bigquery:"score"`
}

// Client wraps a shared BigQuery client scoped to one project and dataset.
type Client struct {
	bq      *bigquery.Client
	dataset string
}

// NewClient creates a loan-servicing store client. It assumes Application
// Default Credentials are configured.
func NewClient(ctx context.Context, projectID, dataset string) (*Client, error) {
	bq, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loanstore.NewClient: creating client: %w", err)
	}
	return &Client{bq: bq, dataset: dataset}, nil
}

// Close closes the underlying BigQuery client.
func (c *Client) Close() error {
	if c.bq != nil {
		return c.bq.Close()
	}
	return nil
}

// FetchLoanHistory returns loan history rows added on or after the given
// date. An unreachable store aborts the run; this is the one place a batch
// is allowed to fail outright.
func (c *Client) FetchLoanHistory(ctx context.Context, since civil.Date) ([]LoanHistoryRow, error) {
	q := c.bq.Query(fmt.Sprintf(`
		SELECT
			loan_id,
			loan_status,
			time_added,
			(CASE WHEN loan_status = 'Lender Approved' THEN 1 ELSE 0 END) AS lender_approved,
			campaign,
			date_of_birth,
			origination_date,
			score
		FROM `+"`%s.loan_history`"+`
		WHERE time_added >= @since
	`, c.dataset))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "since", Value: since.String()},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("loanstore.FetchLoanHistory: reading query: %w", err)
	}

	var rows []LoanHistoryRow
	for {
		var row LoanHistoryRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loanstore.FetchLoanHistory: iterating: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
