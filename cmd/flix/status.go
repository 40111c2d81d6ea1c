package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Server status",
	Long: `Show the server version, the active catalog source, and the number
of live playback sessions.

Examples:
  flix status`,
	Args: cobra.NoArgs,
	RunE: runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	resp, err := client.Status()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	fmt.Printf("flix v%s | Server: %s\n", resp.Version, serverURL)
	fmt.Printf("  Source:   %s\n", resp.Source)
	fmt.Printf("  Sessions: %d\n", resp.Sessions)
	return nil
}
