package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"cloud.google.com/go/civil"

	"github.com/predicon/riskfeatures/internal/features"
)

// Config is the process-wide configuration for a feature run. It is loaded
// once in main and passed explicitly; nothing re-reads the environment after
// startup.
type Config struct {
	// BankAppDSN is the Postgres connection string for the
	// bank-verification application store.
	BankAppDSN string

	// BigQueryProject and BigQueryDataset locate the loan-servicing store.
	BigQueryProject string
	BigQueryDataset string

	// LendersPath is the YAML file holding the known lending-company names.
	LendersPath string

	// Start bounds the extraction date range; End defaults to today (UTC).
	Start civil.Date
	End   civil.Date

	// FeatureSet selects the calendar feature generation to emit.
	FeatureSet features.FeatureSet

	// OutputPath is the local feature-table CSV destination.
	OutputPath string

	// GCSBucket/GCSObject, when set, receive a copy of the feature table.
	GCSBucket string
	GCSObject string

	// Workers overrides the stage pool size; 0 means parallelism - 2.
	Workers int
}

// Load reads configuration from the environment. FE_START is required; the
// remaining values have working defaults for a local run.
func Load() (*Config, error) {
	startStr := os.Getenv("FE_START")
	if startStr == "" {
		return nil, fmt.Errorf("config: FE_START is required (YYYY-MM-DD)")
	}
	start, err := civil.ParseDate(startStr)
	if err != nil {
		return nil, fmt.Errorf("config: parsing FE_START: %w", err)
	}

	end := civil.DateOf(time.Now().UTC())
	if endStr := os.Getenv("FE_END"); endStr != "" {
		end, err = civil.ParseDate(endStr)
		if err != nil {
			return nil, fmt.Errorf("config: parsing FE_END: %w", err)
		}
	}

	featureSet, err := features.ParseFeatureSet(os.Getenv("FE_FEATURE_SET"))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	workers := 0
	if w := os.Getenv("FE_WORKERS"); w != "" {
		workers, err = strconv.Atoi(w)
		if err != nil {
			return nil, fmt.Errorf("config: parsing FE_WORKERS: %w", err)
		}
	}

	return &Config{
		BankAppDSN:      os.Getenv("BANKAPP_DATABASE_URL"),
		BigQueryProject: getEnv("BIGQUERY_PROJECT", "predicon-risk"),
		BigQueryDataset: getEnv("BIGQUERY_DATASET", "loan_servicing"),
		LendersPath:     getEnv("FE_LENDERS_PATH", "lenders.yaml"),
		Start:           start,
		End:             end,
		FeatureSet:      featureSet,
		OutputPath:      getEnv("FE_OUTPUT_PATH", "feature_table.csv"),
		GCSBucket:       os.Getenv("FE_GCS_BUCKET"),
		GCSObject:       os.Getenv("FE_GCS_OBJECT"),
		Workers:         workers,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
