// fe-inspect computes the feature blocks for a single bank report JSON file
// and prints them, for debugging extraction issues without a database round
// trip.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cloud.google.com/go/civil"

	"github.com/predicon/riskfeatures/internal/bankreport"
	"github.com/predicon/riskfeatures/internal/config"
	"github.com/predicon/riskfeatures/internal/features"
)

func main() {
	lendersPath := flag.String("lenders", "lenders.yaml", "path to the lending-company list")
	anchorStr := flag.String("anchor", "", "recency anchor date YYYY-MM-DD (default today)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: fe-inspect [flags] report.json\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *lendersPath, *anchorStr); err != nil {
		log.Fatalf("error: %v", err)
	}
}

func run(reportPath, lendersPath, anchorStr string) error {
	raw, err := os.ReadFile(reportPath)
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}

	lenders, err := config.LoadLenders(lendersPath)
	if err != nil {
		return err
	}

	anchor := civil.DateOf(time.Now().UTC())
	if anchorStr != "" {
		anchor, err = civil.ParseDate(anchorStr)
		if err != nil {
			return fmt.Errorf("parsing anchor date: %w", err)
		}
	}

	report, err := bankreport.Decode(raw)
	if err != nil {
		return err
	}
	txns := bankreport.CheckingTransactions(report)
	if len(txns) == 0 {
		return fmt.Errorf("%s has no settled checking transactions", reportPath)
	}

	account, _ := bankreport.PrimaryAccount(txns)
	span, _ := bankreport.TransactionDaySpan(txns, account)
	fmt.Printf("primary account:   %s\n", account)
	fmt.Printf("transaction span:  %d days (eligible: %v)\n", span, bankreport.Eligible(span))

	lv := features.ComputeLenderVars(txns, account, lenders, anchor)
	fmt.Printf("lender vars:       %+v\n", lv)

	if frame, ok := features.BuildDailyFrame(txns, account); ok {
		stats := features.Summarize(frame)
		fmt.Printf("daily stats:       %+v\n", stats.Daily)
		fmt.Printf("weekly stats:      %+v\n", stats.Weekly)
	}

	if diff, ok := features.BalanceSignDiff(txns, account); ok {
		fmt.Printf("pos-neg day diff:  %d\n", diff)
	}
	return nil
}
