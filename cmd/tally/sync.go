// ABOUTME: Sync subcommand for Charm cloud sync
// ABOUTME: Provides status, now, link, unlink, repair, reset, and wipe commands

package main

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harper/tally/internal/charm"
	"github.com/harper/tally/internal/config"
	"github.com/spf13/cobra"
)

// Sync commands talk to Charm directly and never open the configured slot.
var noSession = map[string]string{"session": "none"}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Manage cloud sync for the charm backend",
	Long: `Sync your items with Charm Cloud using SSH key authentication.
Only applies when the backend is "charm".

Commands:
  status  - Show sync status and user info
  now     - Sync immediately
  link    - Link this device to your Charm account
  unlink  - Unlink this device from your account
  repair  - Repair corrupted database (checkpoint WAL, check integrity, vacuum)
  reset   - Reset local database from cloud (discards local changes)
  wipe    - Permanently delete all data (local and cloud)

Data syncs automatically on every write operation.

Examples:
  tally sync status
  tally sync now
  tally sync repair --force`,
	Annotations: noSession,
}

// charmClient builds a client from the loaded config. Creating it points
// CHARM_HOST at the configured server.
func charmClient() (*config.Config, *charm.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	cc, err := charm.NewClient(cfg.CharmConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("charm client: %w", err)
	}
	return cfg, cc, nil
}

var syncStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show sync status",
	Long:        `Display current sync configuration, user ID, and connection status.`,
	Annotations: noSession,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := charmClient()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		_, _ = fmt.Fprintf(out, "Charm Host: %s\n", cfg.CharmConfig().CharmHost)
		_, _ = fmt.Fprintf(out, "Database:   %s\n", charm.DBName)
		_, _ = fmt.Fprintf(out, "Backend:    %s\n", cfg.GetBackend())
		if cfg.GetBackend() != config.BackendCharm {
			color.New(color.FgYellow).Fprintln(out, "\nThe configured backend does not sync; set \"backend\": \"charm\" to enable it.")
		}

		cc, err := client.NewClientWithDefaults()
		if err != nil {
			color.New(color.FgYellow).Fprintln(out, "\nStatus: Not connected")
			_, _ = fmt.Fprintln(out, "Run 'tally sync link' to connect your account.")
			return nil
		}

		user, err := cc.ID()
		if err != nil {
			color.New(color.FgYellow).Fprintln(out, "\nStatus: Not linked")
			_, _ = fmt.Fprintln(out, "Run 'tally sync link' to connect your account.")
			return nil
		}

		_, _ = fmt.Fprintf(out, "\nUser ID: %s\n", user)
		color.New(color.FgGreen).Fprintln(out, "Status: Connected")
		_, _ = fmt.Fprintln(out, "\nData syncs automatically on every write.")
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:         "now",
	Short:       "Sync with Charm Cloud immediately",
	Annotations: noSession,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cc, err := charmClient()
		if err != nil {
			return err
		}
		if err := cc.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Synced")
		return nil
	},
}

// runCharm runs the charm CLI with the command's streams attached.
func runCharm(cmd *cobra.Command, arg string) error {
	if _, _, err := charmClient(); err != nil {
		return err
	}
	c := exec.Command("charm", arg)
	c.Stdin = cmd.InOrStdin()
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	return c.Run()
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to your Charm account",
	Long: `Link this device to your Charm Cloud account.

This opens the Charm linking flow which authenticates using SSH keys.
If you don't have an account, one will be created automatically.`,
	Annotations: noSession,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Starting Charm link process...")

		if err := runCharm(cmd, "link"); err != nil {
			return fmt.Errorf("failed to run 'charm link': %w\nMake sure the charm CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "\n✓ Device linked successfully")
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Items will now sync automatically with the charm backend.")
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Unlink this device from your Charm account",
	Long: `Unlink this device from your Charm Cloud account.

This will stop syncing data but won't delete local data.`,
	Annotations: noSession,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm(cmd, "unlink"); err != nil {
			return fmt.Errorf("failed to run 'charm unlink': %w", err)
		}

		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "\n✓ Device unlinked")
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Local data is preserved. Sync is disabled.")
		return nil
	},
}

var repairForce bool

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair corrupted database",
	Long: `Attempt to repair a corrupted tally charm database.

Steps performed:
  1. Checkpoint WAL (merge pending writes)
  2. Remove stale SHM file
  3. Run integrity check
  4. Vacuum database

With --force, a failed integrity check falls back to REINDEX recovery and,
as a last resort, a reset from cloud.`,
	Annotations: noSession,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if _, _, err := charmClient(); err != nil {
			return err
		}

		result, err := kv.Repair(charm.DBName, repairForce)
		if err != nil {
			color.New(color.FgRed).Fprintf(out, "✗ Repair failed: %v\n", err)
			if !repairForce {
				_, _ = fmt.Fprintln(out, "\nRun with --force to attempt recovery:")
				_, _ = fmt.Fprintln(out, "  tally sync repair --force")
			}
			return err
		}

		green := color.New(color.FgGreen)
		yellow := color.New(color.FgYellow)
		_, _ = fmt.Fprintln(out, "Repair results:")
		if result.WalCheckpointed {
			green.Fprintln(out, "  ✓ WAL checkpointed")
		}
		if result.ShmRemoved {
			green.Fprintln(out, "  ✓ SHM file removed")
		}
		if result.IntegrityOK {
			green.Fprintln(out, "  ✓ Integrity check passed")
		} else {
			color.New(color.FgRed).Fprintln(out, "  ✗ Integrity check failed")
		}
		if result.Vacuumed {
			green.Fprintln(out, "  ✓ Database vacuumed")
		}
		if result.RecoveryAttempted {
			yellow.Fprintln(out, "  ⚠ Recovery attempted (REINDEX)")
		}
		if result.ResetFromCloud {
			yellow.Fprintln(out, "  ⚠ Reset from cloud")
		}
		if result.Error != nil {
			yellow.Fprintf(out, "  ⚠ Warning: %v\n", result.Error)
		}

		green.Fprintln(out, "\n✓ Repair completed")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local database from cloud",
	Long: `Delete the local charm database and pull fresh data from Charm Cloud.

WARNING: Any local changes not yet synced to cloud will be lost.`,
	Annotations: noSession,
	RunE: func(cmd *cobra.Command, args []string) error {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "WARNING: Any unsynced local changes will be lost.")
		if !confirm(cmd, "Delete the local database and pull from the cloud?") {
			return nil
		}
		if _, _, err := charmClient(); err != nil {
			return err
		}

		if err := kv.Reset(charm.DBName); err != nil {
			return fmt.Errorf("failed to reset: %w", err)
		}

		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Database reset from cloud")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Permanently delete all data (local and cloud)",
	Long: `Permanently delete ALL tally charm data, both local and on Charm Cloud.

This is DESTRUCTIVE and CANNOT be undone. It deletes data from ALL linked devices.`,
	Annotations: noSession,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		red := color.New(color.FgRed)
		red.Fprintln(out, "WARNING: This deletes data from ALL linked devices and cloud backups.")
		red.Fprintln(out, "WARNING: This action CANNOT be undone.")
		_, _ = fmt.Fprint(out, "\nType 'wipe' to confirm: ")

		var confirmation string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &confirmation)
		if strings.TrimSpace(confirmation) != "wipe" {
			_, _ = fmt.Fprintln(out, "Aborted.")
			return nil
		}
		if _, _, err := charmClient(); err != nil {
			return err
		}

		result, err := kv.Wipe(charm.DBName)
		if err != nil {
			return fmt.Errorf("failed to wipe: %w", err)
		}

		green := color.New(color.FgGreen)
		if result.CloudBackupsDeleted > 0 {
			green.Fprintf(out, "✓ Deleted %d cloud backup(s)\n", result.CloudBackupsDeleted)
		}
		if result.LocalFilesDeleted > 0 {
			green.Fprintf(out, "✓ Deleted %d local file(s)\n", result.LocalFilesDeleted)
		}
		if result.Error != nil {
			color.New(color.FgYellow).Fprintf(out, "⚠ Warning: %v\n", result.Error)
		}

		green.Fprintln(out, "✓ All data wiped")
		_, _ = fmt.Fprintln(out, "Run 'tally add' to start tracking again.")
		return nil
	},
}

func init() {
	syncRepairCmd.Flags().BoolVarP(&repairForce, "force", "f", false, "Force recovery even if integrity check fails")

	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)

	rootCmd.AddCommand(syncCmd)
}
