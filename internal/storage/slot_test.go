// ABOUTME: Contract tests shared by every slot backend
// ABOUTME: Runs the same Get/Set/Delete expectations against each implementation

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harper/tally/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotFactory func(t *testing.T) Slot

func slotFactories() map[string]slotFactory {
	return map[string]slotFactory{
		"memory": func(t *testing.T) Slot {
			return NewMemorySlot()
		},
		"file": func(t *testing.T) Slot {
			s, err := NewFileSlot(t.TempDir())
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) Slot {
			s, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
			require.NoError(t, err)
			return s
		},
		"badger": func(t *testing.T) Slot {
			s, err := NewInMemoryBadgerSlot(nil)
			require.NoError(t, err)
			return s
		},
	}
}

func TestSlotContract(t *testing.T) {
	for name, factory := range slotFactories() {
		t.Run(name, func(t *testing.T) {
			slot := factory(t)
			t.Cleanup(func() { _ = slot.Close() })

			_, err := slot.Get("items")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, slot.Set("items", []byte(`[1]`)))
			got, err := slot.Get("items")
			require.NoError(t, err)
			assert.Equal(t, `[1]`, string(got))

			require.NoError(t, slot.Set("items", []byte(`[1,2]`)))
			got, err = slot.Get("items")
			require.NoError(t, err)
			assert.Equal(t, `[1,2]`, string(got))

			require.NoError(t, slot.Set("other", []byte(`x`)))

			require.NoError(t, slot.Delete("items"))
			_, err = slot.Get("items")
			assert.ErrorIs(t, err, ErrNotFound)

			got, err = slot.Get("other")
			require.NoError(t, err)
			assert.Equal(t, "x", string(got))

			assert.NoError(t, slot.Delete("missing"))
		})
	}
}

func TestSlotContract_AdapterRoundTrip(t *testing.T) {
	for name, factory := range slotFactories() {
		t.Run(name, func(t *testing.T) {
			slot := factory(t)
			t.Cleanup(func() { _ = slot.Close() })

			a := NewAdapter(slot, "", nil)
			require.NoError(t, a.Append(models.Item{ID: 0, Name: "Steak Dinner", Quantity: 1200}))
			require.NoError(t, a.Append(models.Item{ID: 1, Name: "Cookie", Quantity: 400}))
			require.NoError(t, a.Remove(0))

			assert.Equal(t, []models.Item{{ID: 1, Name: "Cookie", Quantity: 400}}, a.LoadAll())
		})
	}
}

func TestMemorySlot_CopiesValues(t *testing.T) {
	m := NewMemorySlot()
	value := []byte("abc")
	require.NoError(t, m.Set("k", value))
	value[0] = 'z'

	got, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[0] = 'y'
	again, _ := m.Get("k")
	assert.Equal(t, "abc", string(again))
}

func TestFileSlot_RejectsBadKeys(t *testing.T) {
	s, err := NewFileSlot(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape", "a/b", "sp ace"} {
		assert.Error(t, s.Set(key, []byte("x")), "key %q", key)
		_, err := s.Get(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestFileSlot_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSlot(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set("items", []byte(`[]`)))

	data, err := os.ReadFile(filepath.Join(dir, "items.json"))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should be renamed away")
}

func TestNewSQLiteDB_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "path", "test.db")

	db, err := NewSQLiteDB(dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file was not created")
	assert.Equal(t, dbPath, db.Path())
}

func TestSQLiteDB_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewSQLiteDB(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Set("items", []byte(`[{"id":0,"name":"Eggs","quantity":300}]`)))
	require.NoError(t, db.Close())

	db, err = NewSQLiteDB(dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	items := NewAdapter(db, "", nil).LoadAll()
	assert.Equal(t, []models.Item{{ID: 0, Name: "Eggs", Quantity: 300}}, items)
}

func TestBadgerSlot_PersistsAcrossReopen(t *testing.T) {
	dir := DefaultBadgerDir(t.TempDir())

	b, err := NewBadgerSlot(dir, nil)
	require.NoError(t, err)
	require.NoError(t, b.Set("items", []byte(`[{"id":3,"name":"Toast","quantity":150}]`)))
	require.NoError(t, b.Close())

	b, err = NewBadgerSlot(dir, nil)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	items := NewAdapter(b, "", nil).LoadAll()
	assert.Equal(t, []models.Item{{ID: 3, Name: "Toast", Quantity: 150}}, items)
}
