// ABOUTME: Tally add command
// ABOUTME: Fills the form and submits it as a new item

package main

import (
	"strings"

	"github.com/fatih/color"
	"github.com/harper/tally/internal/ui"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:     "add <name> <quantity>",
	Aliases: []string{"a"},
	Short:   "Add an item with a quantity",
	Long: `Add a new item. The last argument is the quantity; everything before it is the name.

Examples:
  tally add apples 3
  tally add green beans 12`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, quantity := splitArgs(args)

		sess.term.SetForm(name, quantity)
		if err := sess.term.Emit(ui.Event{Kind: ui.SubmitAdd}); err != nil {
			return err
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Added %s\n", strings.TrimSpace(name))
		return nil
	},
}

// splitArgs joins all but the last argument as the name.
func splitArgs(args []string) (name, quantity string) {
	return strings.Join(args[:len(args)-1], " "), args[len(args)-1]
}

func init() {
	addCmd.Flags().SetInterspersed(false)

	rootCmd.AddCommand(addCmd)
}
