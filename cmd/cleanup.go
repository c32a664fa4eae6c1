package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"jobmate/aggregator-service/internal/scheduler"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Mark postings older than JOB_CLEANUP_DAYS inactive",
	RunE:  runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	sched := scheduler.New(a.worker(), a.store, a.cfg.FetchIntervalHours, a.cfg.CleanupDays, a.log)
	n, err := sched.RunCleanup(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "marked %d jobs inactive\n", n)
	return nil
}
