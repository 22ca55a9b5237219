// ABOUTME: Tally clear command
// ABOUTME: Removes every item and the persisted slot

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/tally/internal/ui"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all items",
	RunE: func(cmd *cobra.Command, args []string) error {
		n := sess.coord.Store().Len()
		if ok, _ := cmd.Flags().GetBool("confirm"); !ok {
			if !confirm(cmd, fmt.Sprintf("Remove all %d items?", n)) {
				return nil
			}
		}

		if err := sess.term.Emit(ui.Event{Kind: ui.ClearAll}); err != nil {
			return err
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Cleared %d items\n", n)
		return nil
	},
}

func init() {
	clearCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(clearCmd)
}
