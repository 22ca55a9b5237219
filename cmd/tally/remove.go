// ABOUTME: Tally remove command
// ABOUTME: Selects an item by id and deletes it

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/tally/internal/ui"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove an item",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		item, err := sess.coord.Store().ByID(id)
		if err != nil {
			return fmt.Errorf("item %s not found", ui.RowKey(id))
		}

		if ok, _ := cmd.Flags().GetBool("confirm"); !ok {
			if !confirm(cmd, fmt.Sprintf("Remove '%s' (%d)?", item.Name, item.Quantity)) {
				return nil
			}
		}

		if err := sess.term.Emit(ui.Event{Kind: ui.RowEdit, ID: id}); err != nil {
			return err
		}
		if err := sess.term.Emit(ui.Event{Kind: ui.SubmitDelete}); err != nil {
			return err
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", item.Name)
		return nil
	},
}

func init() {
	removeCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(removeCmd)
}
