package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var episodesCmd = &cobra.Command{
	Use:   "episodes <series-title>",
	Short: "List a series' episodes",
	Long: `Resolve and list the episodes of a series in (season, episode) order.

The series is located by searching the catalog; the first series whose
title matches is used.

Examples:
  flix episodes "Breaking Bad"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEpisodesCmd,
}

func init() {
	rootCmd.AddCommand(episodesCmd)
}

func runEpisodesCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	query := strings.Join(args, " ")

	search, err := client.Search(query, "series")
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(search.Results) == 0 {
		return fmt.Errorf("no series found for %q", query)
	}
	series := search.Results[0]

	resp, err := client.Episodes(series)
	if err != nil {
		return fmt.Errorf("episodes failed: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	if len(resp.Episodes) == 0 {
		fmt.Printf("No episodes found for %q.\n", series.Title)
		return nil
	}

	fmt.Printf("%s\n\n", series.Title)
	season := -1
	for _, ep := range resp.Episodes {
		if ep.Season != season {
			season = ep.Season
			fmt.Printf("Season %d\n", season)
		}
		fmt.Printf("  E%02d  %s\n", ep.Episode, ep.Name)
	}
	fmt.Printf("\n%d episodes\n", len(resp.Episodes))
	return nil
}
