// ABOUTME: Tests for export and import functionality
// ABOUTME: Covers YAML backup round trips, validation and markdown output

package storage

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/harper/tally/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleItems = []models.Item{
	{ID: 0, Name: "Steak Dinner", Quantity: 1200},
	{ID: 1, Name: "Cookie", Quantity: 400},
	{ID: 2, Name: "Eggs", Quantity: 300},
}

func TestExportImportYAML(t *testing.T) {
	data, err := ExportToYAML(sampleItems)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "version: \"1.0\"")
	assert.Contains(t, out, "tool: tally")
	assert.Contains(t, out, "total: 1900")

	items, err := ImportFromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, sampleItems, items)
}

func TestImportYAML_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "{{{", "parse yaml"},
		{"wrong version", "version: \"9\"\ntool: tally\n", "unsupported backup version"},
		{"wrong tool", "version: \"1.0\"\ntool: position\n", "wrong tool"},
		{"duplicate id", "version: \"1.0\"\ntool: tally\nitems:\n  - {id: 1, name: a, quantity: 1}\n  - {id: 1, name: b, quantity: 2}\n", "duplicate item id"},
		{"empty name", "version: \"1.0\"\ntool: tally\nitems:\n  - {id: 1, name: \"\", quantity: 1}\n", "name"},
		{"negative quantity", "version: \"1.0\"\ntool: tally\nitems:\n  - {id: 1, name: a, quantity: -1}\n", "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportFromYAML([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestImportYAML_NoItems(t *testing.T) {
	items, err := ImportFromYAML([]byte("version: \"1.0\"\ntool: tally\n"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExportToJSON(t *testing.T) {
	data, err := ExportToJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = ExportToJSON(sampleItems)
	require.NoError(t, err)

	var decoded []models.Item
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sampleItems, decoded)
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(sampleItems)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "# Tally Export - "))
	assert.Contains(t, out, "| ID | Name | Quantity |")
	assert.Contains(t, out, "| 0 | Steak Dinner | 1200 |")
	assert.Contains(t, out, "**Total:** 1900")
}

func TestExportToMarkdown_Empty(t *testing.T) {
	data, err := ExportToMarkdown(nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), "No items tracked.")
}

func TestExportToMarkdown_EscapesPipes(t *testing.T) {
	data, err := ExportToMarkdown([]models.Item{{ID: 0, Name: "a|b", Quantity: 1}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `| a\|b |`)
}
