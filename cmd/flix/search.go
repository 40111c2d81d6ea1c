package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog",
	Long: `Search titles and synopses across the active catalog source.

Matching is accent- and case-insensitive; results are ranked by
similarity to the query.

Examples:
  flix search matrix
  flix search "breaking bad" --type series`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().String("type", "", "Media type (movie or series)")
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	mediaType, _ := cmd.Flags().GetString("type")
	query := strings.Join(args, " ")

	resp, err := client.Search(query, mediaType)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	if len(resp.Results) == 0 {
		fmt.Printf("No results for %q.\n", query)
		return nil
	}

	for _, it := range resp.Results {
		printItem(it)
	}
	fmt.Printf("\n%d results for %q\n", len(resp.Results), query)
	return nil
}
