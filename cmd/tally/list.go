// ABOUTME: Tally list command
// ABOUTME: Draws every tracked item and the total

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all tracked items",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sess.coord.Store().Len() == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No items tracked yet. Use 'tally add' to add one.")
			return nil
		}
		sess.term.Draw()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
