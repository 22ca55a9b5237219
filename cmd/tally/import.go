// ABOUTME: Import command for restoring data from YAML backup
// ABOUTME: Replaces the current collection with the items in a backup file

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harper/tally/internal/storage"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import items from a YAML backup",
	Long: `Import items from a YAML backup file created with 'tally backup'.

WARNING: This replaces the current items.

Examples:
  tally import tally.yaml
  tally import ~/backups/tally-20241214.yaml --confirm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename) //#nosec G304 -- user-supplied backup path
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		imported, err := storage.ImportFromYAML(data)
		if err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}

		if ok, _ := cmd.Flags().GetBool("confirm"); !ok {
			question := fmt.Sprintf("Replace %d items with %d from '%s'?", sess.coord.Store().Len(), len(imported), filename)
			if !confirm(cmd, question) {
				return nil
			}
		}

		if err := sess.persist.Replace(imported); err != nil {
			return fmt.Errorf("failed to write items: %w", err)
		}
		sess.coord.Start()

		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Import complete")
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %d items, total %d\n", sess.coord.Store().Len(), sess.coord.Store().Total())
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(importCmd)
}
