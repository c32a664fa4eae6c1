package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"jobmate/aggregator-service/internal/filter"
	"jobmate/aggregator-service/internal/realtime"
)

var (
	fetchLocation string
	fetchSources  []string
	fetchNoCache  bool
	fetchFilters  filter.FilterSet
	fetchRemote   string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <query>",
	Short: "Run one real-time search and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchLocation, "location", "United States", "Search location")
	fetchCmd.Flags().StringSliceVar(&fetchSources, "source", nil, "Sources to query (default: every enabled source)")
	fetchCmd.Flags().BoolVar(&fetchNoCache, "no-cache", false, "Skip the cache lookup")
	fetchCmd.Flags().StringSliceVar(&fetchFilters.Skills, "skill", nil, "Keep jobs requiring at least one of these skills")
	fetchCmd.Flags().StringSliceVar(&fetchFilters.ExcludeTerms, "exclude", nil, "Drop jobs mentioning any of these terms")
	fetchCmd.Flags().StringVar(&fetchRemote, "remote", "", "Keep only remote (true) or non-remote (false) jobs")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	resp, err := a.svc.Search(ctx, realtime.Request{
		Query:    args[0],
		Location: fetchLocation,
		Sources:  fetchSources,
		UseCache: !fetchNoCache,
	})
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("remote") {
		r := filter.ParseRemote(fetchRemote)
		fetchFilters.Remote = &r
	}
	resp.Jobs = filter.Apply(resp.Jobs, fetchFilters)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
