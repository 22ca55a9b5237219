// ABOUTME: Tests for CLI commands
// ABOUTME: Runs add, list, edit, remove, clear, total, export, backup, import and migrate against temp storage

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/tally/internal/config"
	"github.com/harper/tally/internal/models"
	"github.com/harper/tally/internal/storage"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testSession wires a memory-backed session into the global used by commands.
func testSession(t *testing.T, seed ...models.Item) *storage.MemorySlot {
	t.Helper()
	slot := storage.NewMemorySlot()
	if len(seed) > 0 {
		require.NoError(t, storage.NewAdapter(slot, "", nil).Replace(seed))
	}
	sess = newSession(&config.Config{Backend: config.BackendMemory}, zap.NewNop(), slot)
	t.Cleanup(func() {
		_ = closeSession()
	})
	return slot
}

// run executes cmd's RunE with output captured.
func run(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
		cmd.SetIn(nil)
	})
	sess.term.SetOutput(&out)
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

func setFlag(t *testing.T, cmd *cobra.Command, name, value string) {
	t.Helper()
	f := cmd.Flags().Lookup(name)
	require.NotNil(t, f, "flag %s", name)
	old := f.Value.String()
	require.NoError(t, cmd.Flags().Set(name, value))
	t.Cleanup(func() { _ = cmd.Flags().Set(name, old) })
}

func persisted(t *testing.T, slot storage.Slot) []models.Item {
	t.Helper()
	return storage.NewAdapter(slot, "", nil).LoadAll()
}

func TestRootCmd_Metadata(t *testing.T) {
	assert.Equal(t, "tally", rootCmd.Use)
	assert.Contains(t, rootCmd.Long, "Track items")
	for _, name := range []string{"backend", "data-dir", "log-level"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestAddCmd(t *testing.T) {
	slot := testSession(t)

	out, err := run(t, addCmd, "", "green", "beans", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "Added green beans")
	assert.Contains(t, out, "Total:")
	assert.Equal(t, []models.Item{{ID: 0, Name: "green beans", Quantity: 12}}, persisted(t, slot))
}

func TestAddCmd_Invalid(t *testing.T) {
	slot := testSession(t)

	_, err := run(t, addCmd, "", "apples", "lots")
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = run(t, addCmd, "", "apples", "-2")
	assert.ErrorIs(t, err, models.ErrNegativeQuantity)

	assert.Empty(t, persisted(t, slot))
}

func TestListCmd(t *testing.T) {
	testSession(t)
	out, err := run(t, listCmd, "")
	require.NoError(t, err)
	assert.Contains(t, out, "No items tracked yet")

	testSession(t, models.Item{ID: 0, Name: "apples", Quantity: 3}, models.Item{ID: 1, Name: "pears", Quantity: 4})
	out, err = run(t, listCmd, "")
	require.NoError(t, err)
	assert.Contains(t, out, "apples")
	assert.Contains(t, out, "item-1")
	assert.Less(t, strings.Index(out, "apples"), strings.Index(out, "pears"))
}

func TestTotalCmd(t *testing.T) {
	testSession(t, models.Item{ID: 0, Name: "apples", Quantity: 3}, models.Item{ID: 1, Name: "pears", Quantity: 4})
	setFlag(t, totalCmd, "quiet", "true")

	out, err := run(t, totalCmd, "")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestEditCmd(t *testing.T) {
	slot := testSession(t, models.Item{ID: 0, Name: "apples", Quantity: 3}, models.Item{ID: 1, Name: "pears", Quantity: 4})

	out, err := run(t, editCmd, "", "item-1", "ripe", "pears", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated item-1")
	assert.Equal(t, []models.Item{
		{ID: 0, Name: "apples", Quantity: 3},
		{ID: 1, Name: "ripe pears", Quantity: 9},
	}, persisted(t, slot))
	assert.Equal(t, 12, sess.coord.Store().Total())
}

func TestEditCmd_Errors(t *testing.T) {
	testSession(t, models.Item{ID: 0, Name: "apples", Quantity: 3})

	_, err := run(t, editCmd, "", "abc", "x", "1")
	assert.Error(t, err)

	_, err = run(t, editCmd, "", "5", "x", "1")
	assert.Error(t, err)

	_, err = run(t, editCmd, "", "0", "apples", "many")
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)
	_, ok := sess.coord.Store().Current()
	assert.False(t, ok, "failed edit should drop the selection")
}

func TestRemoveCmd(t *testing.T) {
	slot := testSession(t, models.Item{ID: 0, Name: "apples", Quantity: 3}, models.Item{ID: 1, Name: "pears", Quantity: 4})
	setFlag(t, removeCmd, "confirm", "true")

	out, err := run(t, removeCmd, "", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed apples")
	assert.Equal(t, []models.Item{{ID: 1, Name: "pears", Quantity: 4}}, persisted(t, slot))
}

func TestRemoveCmd_Prompt(t *testing.T) {
	slot := testSession(t, models.Item{ID: 0, Name: "apples", Quantity: 3})

	out, err := run(t, removeCmd, "n\n", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	assert.Len(t, persisted(t, slot), 1)

	_, err = run(t, removeCmd, "yes\n", "0")
	require.NoError(t, err)
	assert.Empty(t, persisted(t, slot))
}

func TestRemoveCmd_NotFound(t *testing.T) {
	testSession(t)
	setFlag(t, removeCmd, "confirm", "true")

	_, err := run(t, removeCmd, "", "3")
	assert.Error(t, err)
}

func TestClearCmd(t *testing.T) {
	slot := testSession(t, models.Item{ID: 0, Name: "apples", Quantity: 3})
	setFlag(t, clearCmd, "confirm", "true")

	out, err := run(t, clearCmd, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 1 items")

	_, err = slot.Get(storage.DefaultSlotKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, 0, sess.coord.Store().Len())
}

func TestShellCmd(t *testing.T) {
	slot := testSession(t)

	out, err := run(t, shellCmd, "add apples 3\nadd pears 2\nedit 0\nupdate apples 5\nquit\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Total:")
	assert.Equal(t, []models.Item{
		{ID: 0, Name: "apples", Quantity: 5},
		{ID: 1, Name: "pears", Quantity: 2},
	}, persisted(t, slot))
}

func TestExportCmd(t *testing.T) {
	testSession(t, models.Item{ID: 0, Name: "apples", Quantity: 3})

	setFlag(t, exportCmd, "format", "json")
	out, err := run(t, exportCmd, "")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "apples"`)

	setFlag(t, exportCmd, "format", "markdown")
	out, err = run(t, exportCmd, "")
	require.NoError(t, err)
	assert.Contains(t, out, "**Total:** 3")

	setFlag(t, exportCmd, "format", "geojson")
	_, err = run(t, exportCmd, "")
	assert.Error(t, err)
}

func TestBackupAndImport(t *testing.T) {
	testSession(t, models.Item{ID: 0, Name: "apples", Quantity: 3}, models.Item{ID: 2, Name: "pears", Quantity: 4})
	backupFile := filepath.Join(t.TempDir(), "tally.yaml")
	setFlag(t, backupCmd, "output", backupFile)

	out, err := run(t, backupCmd, "")
	require.NoError(t, err)
	assert.Contains(t, out, "2 items, total 7")

	slot := testSession(t, models.Item{ID: 0, Name: "old", Quantity: 1})
	setFlag(t, importCmd, "confirm", "true")
	_, err = run(t, importCmd, "", backupFile)
	require.NoError(t, err)

	assert.Equal(t, []models.Item{
		{ID: 0, Name: "apples", Quantity: 3},
		{ID: 2, Name: "pears", Quantity: 4},
	}, persisted(t, slot))
	assert.Equal(t, 7, sess.coord.Store().Total())
}

func TestImportCmd_Invalid(t *testing.T) {
	slot := testSession(t, models.Item{ID: 0, Name: "keep", Quantity: 1})
	setFlag(t, importCmd, "confirm", "true")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("version: \"9\"\ntool: other\n"), 0o600))

	_, err := run(t, importCmd, "", bad)
	assert.Error(t, err)
	assert.Len(t, persisted(t, slot), 1)
}

func TestMigrateCmd(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	dataDir := t.TempDir()
	targetDir := t.TempDir()

	src, err := storage.NewFileSlot(filepath.Join(dataDir, "slots"))
	require.NoError(t, err)
	require.NoError(t, storage.NewAdapter(src, "", nil).Replace([]models.Item{{ID: 0, Name: "apples", Quantity: 3}}))

	flagDataDir = dataDir
	t.Cleanup(func() { flagDataDir = "" })
	migrateFrom, migrateTo, migrateTargetDir = config.BackendFile, config.BackendSQLite, targetDir
	t.Cleanup(func() { migrateFrom, migrateTo, migrateTargetDir = "", "", "" })

	var out bytes.Buffer
	migrateCmd.SetOut(&out)
	t.Cleanup(func() { migrateCmd.SetOut(nil) })
	require.NoError(t, runMigrate(migrateCmd, nil))
	assert.Contains(t, out.String(), "Items: 1")

	dst, err := storage.NewSQLiteDB(storage.DefaultDBPath(targetDir))
	require.NoError(t, err)
	defer func() { _ = dst.Close() }()
	assert.Equal(t, []models.Item{{ID: 0, Name: "apples", Quantity: 3}}, persisted(t, dst))

	// A second run refuses to overwrite.
	assert.Error(t, runMigrate(migrateCmd, nil))
}

func TestMigrateCmd_Memory(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	migrateTo = config.BackendMemory
	t.Cleanup(func() { migrateTo = "" })

	assert.Error(t, runMigrate(migrateCmd, nil))
}

func TestParseID(t *testing.T) {
	for in, want := range map[string]int{"0": 0, "12": 12, "item-3": 3, " 4 ": 4} {
		got, err := parseID(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "x", "-1", "item-"} {
		_, err := parseID(in)
		assert.Error(t, err, in)
	}
}

func TestIDsNotReusedAcrossCommands(t *testing.T) {
	slot := testSession(t)
	setFlag(t, removeCmd, "confirm", "true")

	_, err := run(t, addCmd, "", "a", "1")
	require.NoError(t, err)
	_, err = run(t, addCmd, "", "b", "2")
	require.NoError(t, err)
	_, err = run(t, removeCmd, "", "1")
	require.NoError(t, err)

	// Each command invocation hydrates a fresh session from the slot.
	sess = newSession(&config.Config{Backend: config.BackendMemory}, zap.NewNop(), slot)
	_, err = run(t, addCmd, "", "c", "3")
	require.NoError(t, err)

	assert.Equal(t, []models.Item{
		{ID: 0, Name: "a", Quantity: 1},
		{ID: 2, Name: "c", Quantity: 3},
	}, persisted(t, slot))
}

func TestSyncCmd_Subcommands(t *testing.T) {
	want := []string{"status", "now", "link", "unlink", "repair", "reset", "wipe"}
	for _, name := range want {
		sub, _, err := syncCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
		assert.Equal(t, "none", sub.Annotations["session"], "%s must not open the slot", name)
	}
	assert.NotNil(t, syncRepairCmd.Flags().Lookup("force"))
}

func TestSyncResetCmd_Declined(t *testing.T) {
	var out bytes.Buffer
	syncResetCmd.SetOut(&out)
	syncResetCmd.SetIn(strings.NewReader("n\n"))
	t.Cleanup(func() {
		syncResetCmd.SetOut(nil)
		syncResetCmd.SetIn(nil)
	})

	require.NoError(t, syncResetCmd.RunE(syncResetCmd, nil))
	assert.Contains(t, out.String(), "Cancelled.")
}

func TestSyncWipeCmd_RequiresTypedConfirmation(t *testing.T) {
	var out bytes.Buffer
	syncWipeCmd.SetOut(&out)
	syncWipeCmd.SetIn(strings.NewReader("yes\n"))
	t.Cleanup(func() {
		syncWipeCmd.SetOut(nil)
		syncWipeCmd.SetIn(nil)
	})

	require.NoError(t, syncWipeCmd.RunE(syncWipeCmd, nil))
	assert.Contains(t, out.String(), "Aborted.")
}
