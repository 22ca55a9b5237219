// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config and wires slot, store, terminal view and coordinator for each command

package main

import (
	"fmt"
	"io"

	"github.com/harper/tally/internal/app"
	"github.com/harper/tally/internal/config"
	"github.com/harper/tally/internal/items"
	"github.com/harper/tally/internal/logging"
	"github.com/harper/tally/internal/storage"
	"github.com/harper/tally/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// session is everything a command needs to drive the coordinator.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	slot    storage.Slot
	persist *storage.Adapter
	term    *ui.Terminal
	coord   *app.Coordinator
}

var sess *session

var (
	flagBackend  string
	flagDataDir  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Keep a running total of named quantities",
	Long: `
████████╗ █████╗ ██╗     ██╗  ██╗   ██╗
╚══██╔══╝██╔══██╗██║     ██║  ╚██╗ ██╔╝
   ██║   ███████║██║     ██║   ╚████╔╝
   ██║   ██╔══██║██║     ██║    ╚██╔╝
   ██║   ██║  ██║███████╗███████╗██║
   ╚═╝   ╚═╝  ╚═╝╚══════╝╚══════╝╚═╝

      Track items and keep their total

Examples:
  tally add apples 3
  tally list
  tally edit 0 pears 4
  tally shell`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations["session"] == "none" {
			return nil
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := openSession(cfg)
		if err != nil {
			return err
		}
		sess = s
		sess.term.SetOutput(cmd.OutOrStdout())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeSession()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "slot backend (badger, sqlite, charm, file, memory)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/tally)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, nil
}

// openSession opens the configured slot and hydrates the coordinator.
// Hydration draws to io.Discard; callers pick the output afterwards.
func openSession(cfg *config.Config) (*session, error) {
	logger, err := logging.New(cfg.GetLogLevel())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	slot, err := cfg.OpenSlot(logger)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open %s backend: %w", cfg.GetBackend(), err)
	}

	return newSession(cfg, logger, slot), nil
}

func newSession(cfg *config.Config, logger *zap.Logger, slot storage.Slot) *session {
	persist := storage.NewAdapter(slot, cfg.GetSlotKey(), logger)
	term := ui.NewTerminal(io.Discard)
	coord := app.New(items.NewStore(), persist, term, logger)
	coord.Bind(&term.Emitter)
	coord.Start()

	return &session{
		cfg:     cfg,
		logger:  logger,
		slot:    slot,
		persist: persist,
		term:    term,
		coord:   coord,
	}
}

func closeSession() error {
	if sess == nil {
		return nil
	}
	s := sess
	sess = nil
	_ = s.logger.Sync()
	return s.slot.Close()
}

// confirm asks a yes/no question on the command's streams.
func confirm(cmd *cobra.Command, question string) bool {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	var response string
	_, _ = fmt.Fscanln(cmd.InOrStdin(), &response)
	switch response {
	case "y", "Y", "yes", "YES", "Yes":
		return true
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
	return false
}
