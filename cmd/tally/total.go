// ABOUTME: Tally total command
// ABOUTME: Prints the sum of all quantities

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var totalCmd = &cobra.Command{
	Use:   "total",
	Short: "Print the total quantity",
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		total := sess.coord.Store().Total()
		if quiet {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), total)
			return nil
		}
		sess.term.RenderTotal(total)
		return nil
	},
}

func init() {
	totalCmd.Flags().BoolP("quiet", "q", false, "print only the number")

	rootCmd.AddCommand(totalCmd)
}
