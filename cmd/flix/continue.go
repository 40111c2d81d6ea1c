package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var continueCmd = &cobra.Command{
	Use:   "continue <user>",
	Short: "Show a user's continue-watching list",
	Long: `List the user's most recent playback positions, newest first.

Only titles with a resumable position are worth resuming in a player;
this lists everything recorded.

Examples:
  flix continue alice
  flix continue alice --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runContinueCmd,
}

func init() {
	rootCmd.AddCommand(continueCmd)
	continueCmd.Flags().Int("limit", 20, "Maximum records to show")
}

func runContinueCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	limit, _ := cmd.Flags().GetInt("limit")

	records, err := client.RecentProgress(args[0], limit)
	if err != nil {
		return fmt.Errorf("progress lookup failed: %w", err)
	}

	if jsonOutput {
		printJSON(records)
		return nil
	}

	if len(records) == 0 {
		fmt.Println("Nothing in progress.")
		return nil
	}

	for _, r := range records {
		pos := formatSeconds(r.PositionSeconds)
		if r.DurationSeconds != nil {
			pos = fmt.Sprintf("%s / %s", pos, formatSeconds(*r.DurationSeconds))
		}
		fmt.Printf("  %-40s %s\n", r.ContentTitle, pos)
	}
	fmt.Printf("\n%d titles in progress\n", len(records))
	return nil
}

func formatSeconds(s int64) string {
	d := time.Duration(s) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}
