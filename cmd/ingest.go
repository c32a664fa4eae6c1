package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jobmate/aggregator-service/internal/model"
	"jobmate/aggregator-service/internal/scheduler"
)

var (
	ingestQuery    string
	ingestLocation string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingestion cycle into Postgres",
	Long:  "Fetch every configured source for the default query list (or --query) and upsert the results. Requires DATABASE_URL.",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestQuery, "query", "", "Ingest a single query instead of the default list")
	ingestCmd.Flags().StringVar(&ingestLocation, "location", "United States", "Location for --query")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	queries := scheduler.DefaultQueries
	if ingestQuery != "" {
		queries = []model.SearchQuery{{Query: ingestQuery, Location: ingestLocation}}
	}

	runs, err := a.worker().RunAll(ctx, queries)
	if encErr := json.NewEncoder(os.Stdout).Encode(runs); encErr != nil && err == nil {
		err = encErr
	}
	return err
}
