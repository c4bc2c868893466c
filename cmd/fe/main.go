package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/predicon/riskfeatures/internal/batch"
	"github.com/predicon/riskfeatures/internal/config"
	"github.com/predicon/riskfeatures/internal/infra/bankapp"
	"github.com/predicon/riskfeatures/internal/infra/loanstore"
	"github.com/predicon/riskfeatures/internal/logger"
	"github.com/predicon/riskfeatures/internal/sink"
)

func main() {
	// Missing .env is fine: fall back to the process environment.
	_ = godotenv.Load()

	log := logger.New()
	runID := uuid.NewString()
	log = log.With().Str("run_id", runID).Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	lenders, err := config.LoadLenders(cfg.LendersPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load lender list")
	}
	log.Info().
		Int("lenders", len(lenders)).
		Str("start", cfg.Start.String()).
		Str("end", cfg.End.String()).
		Msg("Starting feature run")

	// Cancel the run on interrupt; in-flight applicants finish.
	ctx, cancel := context.WithCancel(logger.WithContext(context.Background(), log))
	defer cancel()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Warn().Msg("Interrupt received, cancelling run")
		cancel()
	}()

	store, err := bankapp.New(ctx, cfg.BankAppDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Bank-verification store unreachable")
	}
	defer store.Close()

	apps, err := store.FetchReviewedApplications(ctx, cfg.Start.In(time.UTC), cfg.End.In(time.UTC))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch applications")
	}
	log.Info().Int("applications", len(apps)).Msg("Applications fetched")

	ls, err := loanstore.NewClient(ctx, cfg.BigQueryProject, cfg.BigQueryDataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Loan-servicing store unreachable")
	}
	defer ls.Close()

	history, err := ls.FetchLoanHistory(ctx, cfg.Start)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch loan history")
	}
	log.Info().Int("history_rows", len(history)).Msg("Loan history fetched")

	orch := &batch.Orchestrator{
		Workers: cfg.Workers,
		Lenders: lenders,
		Log:     log,
	}

	records, err := orch.Run(ctx, toApplicants(apps, log))
	if err != nil {
		log.Fatal().Err(err).Msg("Feature run cancelled")
	}

	batch.JoinServicing(records, toServicingRows(history, log))

	if err := sink.WriteCSVFile(cfg.OutputPath, records, cfg.FeatureSet); err != nil {
		log.Fatal().Err(err).Msg("Failed to write feature table")
	}
	log.Info().Str("path", cfg.OutputPath).Int("rows", len(records)).Msg("Feature table written")

	if cfg.GCSBucket != "" && cfg.GCSObject != "" {
		if err := sink.UploadFeatureTable(ctx, cfg.GCSBucket, cfg.GCSObject, cfg.OutputPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to upload feature table")
		}
		log.Info().Str("bucket", cfg.GCSBucket).Str("object", cfg.GCSObject).Msg("Feature table uploaded")
	}
}

// toApplicants converts application rows to batch inputs: only rows whose
// account-match flag is set are usable, and every loan id is coerced to its
// canonical form before it can reach a join. Rows with malformed ids are
// logged and skipped rather than failing the batch.
func toApplicants(apps []bankapp.ApplicationRow, log zerolog.Logger) []batch.Applicant {
	out := make([]batch.Applicant, 0, len(apps))
	for _, a := range apps {
		if !a.Matched() {
			continue
		}
		loanID, err := batch.CanonicalLoanID(a.LoanID)
		if err != nil {
			log.Warn().Str("loan_id", a.LoanID).Err(err).Msg("Skipping application with malformed loan id")
			continue
		}
		out = append(out, batch.Applicant{
			LoanID:          loanID,
			BankReport:      a.BankReport,
			ReportTimeAdded: civil.DateOf(a.ReportTimeAdded.UTC()),
			IncomeReview:    a.IncomeReview,
		})
	}
	return out
}

// toServicingRows normalizes loan-history identifiers so both sides of the
// final join share the canonical form.
func toServicingRows(history []loanstore.LoanHistoryRow, log zerolog.Logger) []batch.ServicingRow {
	out := make([]batch.ServicingRow, 0, len(history))
	for _, h := range history {
		loanID, err := batch.CanonicalLoanID(h.LoanID)
		if err != nil {
			log.Warn().Str("loan_id", h.LoanID).Err(err).Msg("Skipping history row with malformed loan id")
			continue
		}
		row := batch.ServicingRow{
			LoanID:         loanID,
			LenderApproved: float64(h.LenderApproved),
		}
		if h.Campaign.Valid {
			row.Campaign = h.Campaign.StringVal
		}
		if h.DateOfBirth.Valid {
			row.DateOfBirth = h.DateOfBirth.Date
			row.HasDateOfBirth = true
		}
		if h.OriginationDate.Valid {
			row.OriginationDate = h.OriginationDate.Date
			row.HasOrigination = true
		}
		if h.Score.Valid {
			row.Score = h.Score.Float64
			row.HasScore = true
		}
		out = append(out, row)
	}
	return out
}
