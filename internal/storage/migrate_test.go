// ABOUTME: Tests for slot migration
// ABOUTME: Verifies copies between backends and overwrite protection

package storage

import (
	"path/filepath"
	"testing"

	"github.com/harper/tally/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateData_SQLiteToFile(t *testing.T) {
	src, err := NewSQLiteDB(filepath.Join(t.TempDir(), "src.db"))
	require.NoError(t, err)
	defer func() { _ = src.Close() }()
	require.NoError(t, NewAdapter(src, "", nil).Replace(sampleItems))

	dst, err := NewFileSlot(t.TempDir())
	require.NoError(t, err)

	summary, err := MigrateData(src, dst, "", false)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Items)
	assert.Positive(t, summary.Bytes)

	assert.Equal(t, sampleItems, NewAdapter(dst, "", nil).LoadAll())
}

func TestMigrateData_EmptySource(t *testing.T) {
	summary, err := MigrateData(NewMemorySlot(), NewMemorySlot(), "", false)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Items)
}

func TestMigrateData_RefusesNonEmptyDestination(t *testing.T) {
	src := NewMemorySlot()
	require.NoError(t, NewAdapter(src, "", nil).Replace(sampleItems))

	dst := NewMemorySlot()
	existing := []models.Item{{ID: 0, Name: "keep", Quantity: 1}}
	require.NoError(t, NewAdapter(dst, "", nil).Replace(existing))

	_, err := MigrateData(src, dst, "", false)
	require.Error(t, err)
	assert.Equal(t, existing, NewAdapter(dst, "", nil).LoadAll())

	_, err = MigrateData(src, dst, "", true)
	require.NoError(t, err)
	assert.Equal(t, sampleItems, NewAdapter(dst, "", nil).LoadAll())
}

func TestMigrateData_RefusesMalformedSource(t *testing.T) {
	src := NewMemorySlot()
	require.NoError(t, src.Set(DefaultSlotKey, []byte("nope")))

	_, err := MigrateData(src, NewMemorySlot(), "", false)
	assert.Error(t, err)
}

func TestMigrateData_CarriesIDMark(t *testing.T) {
	src := NewMemorySlot()
	a := NewAdapter(src, "", nil)
	require.NoError(t, a.Append(models.Item{ID: 0, Name: "a", Quantity: 1}))
	require.NoError(t, a.Append(models.Item{ID: 1, Name: "b", Quantity: 1}))
	require.NoError(t, a.Remove(1))

	dst := NewMemorySlot()
	_, err := MigrateData(src, dst, "", false)
	require.NoError(t, err)

	assert.Equal(t, 2, NewAdapter(dst, "", nil).LoadNextID())
}
