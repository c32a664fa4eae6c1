// jobmate-aggregator-service
//
// Real-time job aggregation across five public job-board APIs.
//   - serve:   HTTP API (real-time search, matching, analytics, stored jobs)
//     plus the ingestion/cleanup cron when DATABASE_URL is set
//   - fetch:   one real-time search printed as JSON
//   - ingest:  one scheduler ingestion run into Postgres
//   - cleanup: mark stale postings inactive
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "aggregator",
	Short:         "JobMate job aggregator service",
	Long:          "Fetches job postings from JSearch, Adzuna, Remotive, Arbeitnow and The Muse, normalises them and serves search, matching and analytics over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// .env is optional.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
