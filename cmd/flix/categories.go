package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List catalog categories",
	Long: `List the categories exposed by the active catalog source.

Examples:
  flix categories                # All categories
  flix categories --type movie   # Movie categories only
  flix categories --type series  # Series categories only`,
	Args: cobra.NoArgs,
	RunE: runCategoriesCmd,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.Flags().String("type", "", "Filter by media type (movie or series)")
}

func runCategoriesCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	mediaType, _ := cmd.Flags().GetString("type")

	resp, err := client.Categories(mediaType)
	if err != nil {
		return fmt.Errorf("categories failed: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	if len(resp.Categories) == 0 {
		fmt.Println("No categories found.")
		return nil
	}

	fmt.Print(formatCategories(resp.Categories))
	fmt.Printf("\n%d categories\n", len(resp.Categories))
	return nil
}

// formatCategories renders the table body: type, id, name. The id is
// what 'flix browse --id' takes.
func formatCategories(cats []CategoryResponse) string {
	var b strings.Builder
	for _, c := range cats {
		fmt.Fprintf(&b, "  %-10s %-16s %s\n", c.Type, c.ID, c.Name)
	}
	return b.String()
}
