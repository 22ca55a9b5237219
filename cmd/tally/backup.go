// ABOUTME: Backup command for exporting data to YAML
// ABOUTME: Creates portable backup files for moving a tally between machines

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harper/tally/internal/storage"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a YAML backup of all items",
	Long: `Create a YAML backup file containing all items.

The backup file can be restored with 'tally import'.

Examples:
  tally backup --output tally.yaml
  tally backup -o ~/backups/tally-$(date +%Y%m%d).yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		items := sess.coord.Store().All()
		data, err := storage.ExportToYAML(items)
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}

		if output == "" {
			output = fmt.Sprintf("tally-%s.yaml", time.Now().Format("20060102-150405"))
		}

		if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // 0644 is intentional for backup files
			return fmt.Errorf("failed to write backup: %w", err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Backup created: %s\n", output)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %d items, total %d\n", len(items), sess.coord.Store().Total())
		return nil
	},
}

func init() {
	backupCmd.Flags().StringP("output", "o", "", "output file (default: tally-YYYYMMDD-HHMMSS.yaml)")

	rootCmd.AddCommand(backupCmd)
}
