// ABOUTME: Tally shell command
// ABOUTME: Runs the interactive terminal session until quit or EOF

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session",
	Long: `Start an interactive session. Type 'help' for commands.

Example session:
  add> add apples 3
  add> edit 0
  edit> update apples 5
  add> quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sess.term.Draw()
		return sess.term.Run(ctx, cmd.InOrStdin())
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
