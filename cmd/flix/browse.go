package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse [category]",
	Short: "Browse items in a category",
	Long: `List the items of a category, one page at a time.

The argument matches the category name as shown by 'flix categories'.
Without an argument, an interactive session opens: pick categories by
number, page with 'm', search with '/query'.

Examples:
  flix browse                         # Interactive session
  flix browse Terror                  # First page of the Terror category
  flix browse Terror --page 2         # Next page
  flix browse Drama --type series     # Series in the Drama category`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowseCmd,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().String("type", "", "Media type (movie or series)")
	browseCmd.Flags().Int("page", 1, "Page number")
	browseCmd.Flags().String("id", "", "Category ID (overrides the name lookup)")
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	mediaType, _ := cmd.Flags().GetString("type")
	page, _ := cmd.Flags().GetInt("page")
	categoryID, _ := cmd.Flags().GetString("id")

	if len(args) == 0 && categoryID == "" {
		return runInteractiveBrowse(client, mediaType)
	}

	categoryName := ""
	if len(args) > 0 {
		categoryName = args[0]
	}
	resp, err := client.Items(categoryID, categoryName, mediaType, page, 0)
	if err != nil {
		return fmt.Errorf("browse failed: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	if len(resp.Items) == 0 {
		fmt.Println("No items found.")
		return nil
	}

	for _, it := range resp.Items {
		printItem(it)
	}

	fmt.Printf("\nPage %d (%d items)", resp.Page, len(resp.Items))
	if resp.HasMore {
		fmt.Printf("  more available: --page %d", resp.Page+1)
	}
	fmt.Println()
	return nil
}

func printItem(it ItemResponse) {
	label := it.Title
	if it.Type == "series" && it.SeasonCount > 0 {
		label = fmt.Sprintf("%s (%d seasons)", it.Title, it.SeasonCount)
	}
	fmt.Printf("  %-8s %s\n", it.Type, label)
	if it.Category != "" {
		fmt.Printf("           %s\n", it.Category)
	}
}
