// ABOUTME: Tally edit command
// ABOUTME: Selects an item by id and submits new values for it

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/tally/internal/ui"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id> <name> <quantity>",
	Short: "Change an item's name and quantity",
	Long: `Replace the name and quantity of an existing item. The id is the number
shown in 'tally list' (item-3 and 3 both work).

Examples:
  tally edit 3 apples 5
  tally edit item-3 green apples 5`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		name, quantity := splitArgs(args[1:])

		if err := sess.term.Emit(ui.Event{Kind: ui.RowEdit, ID: id}); err != nil {
			return err
		}
		sess.term.SetForm(name, quantity)
		if err := sess.term.Emit(ui.Event{Kind: ui.SubmitUpdate}); err != nil {
			_ = sess.term.Emit(ui.Event{Kind: ui.CancelEdit})
			return err
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Updated %s\n", ui.RowKey(id))
		return nil
	},
}

// parseID accepts a bare id or a row key such as item-3.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "item-"))
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}

func init() {
	editCmd.Flags().SetInterspersed(false)

	rootCmd.AddCommand(editCmd)
}
