// ABOUTME: Migration command for copying the item slot between storage backends
// ABOUTME: Refuses to overwrite existing data unless forced

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/tally/internal/config"
	"github.com/harper/tally/internal/logging"
	"github.com/harper/tally/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between storage backends",
	Long: `Copy the item collection from one backend to another.

The source defaults to the configured backend. Does NOT update the config
file; verify the migration then set "backend" in config.json.

Examples:
  tally migrate --to sqlite
  tally migrate --from sqlite --to badger
  tally migrate --to file --target-dir ~/tally-files --force`,
	Annotations: noSession,
	RunE:        runMigrate,
}

var (
	migrateFrom      string
	migrateTo        string
	migrateTargetDir string
	migrateForce     bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source backend (defaults to the configured backend)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (badger, sqlite, charm, file)")
	migrateCmd.Flags().StringVar(&migrateTargetDir, "target-dir", "", "target data directory (defaults to the current data dir)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "overwrite items already in the target")
	_ = migrateCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sourceBackend := cfg.GetBackend()
	if migrateFrom != "" {
		sourceBackend = migrateFrom
	}
	targetBackend := migrateTo

	if targetBackend == config.BackendMemory || sourceBackend == config.BackendMemory {
		return fmt.Errorf("the memory backend does not persist and cannot be migrated")
	}

	targetCfg := *cfg
	if migrateTargetDir != "" {
		targetCfg.DataDir = config.ExpandPath(migrateTargetDir)
	}
	if targetBackend == sourceBackend && targetCfg.GetDataDir() == cfg.GetDataDir() {
		return fmt.Errorf("target backend %q is the same as the source", targetBackend)
	}

	logger, err := logging.New(cfg.GetLogLevel())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	src, err := cfg.OpenBackend(sourceBackend, logger)
	if err != nil {
		return fmt.Errorf("open source storage (%s): %w", sourceBackend, err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing source storage: %v\n", cerr)
		}
	}()

	dst, err := targetCfg.OpenBackend(targetBackend, logger)
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", targetBackend, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing target storage: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	color.New(color.FgYellow).Fprintln(out, "Migrating tally data:")
	_, _ = fmt.Fprintf(out, "  Source:  %s (%s)\n", sourceBackend, cfg.GetDataDir())
	_, _ = fmt.Fprintf(out, "  Target:  %s (%s)\n", targetBackend, targetCfg.GetDataDir())
	_, _ = fmt.Fprintln(out)

	summary, err := storage.MigrateData(src, dst, cfg.GetSlotKey(), migrateForce)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	color.New(color.FgGreen).Fprintln(out, "Migration complete!")
	_, _ = fmt.Fprintf(out, "  Items: %d (%d bytes)\n", summary.Items, summary.Bytes)
	_, _ = fmt.Fprintln(out)
	color.New(color.FgYellow).Fprintln(out, "Note: config.json was NOT updated. To switch to the new backend, edit:")
	_, _ = fmt.Fprintf(out, "  %s\n", config.GetConfigPath())
	_, _ = fmt.Fprintf(out, "  Set \"backend\": %q", targetBackend)
	if migrateTargetDir != "" {
		_, _ = fmt.Fprintf(out, " and \"data_dir\": %q", migrateTargetDir)
	}
	_, _ = fmt.Fprintln(out)

	return nil
}
