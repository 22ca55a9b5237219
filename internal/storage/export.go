// ABOUTME: Export and import functionality for item data
// ABOUTME: Supports YAML backup format, JSON and markdown export

package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harper/tally/internal/models"
	"gopkg.in/yaml.v3"
)

// BackupVersion is the current backup format version.
const BackupVersion = "1.0"

// BackupTool identifies backups written by this program.
const BackupTool = "tally"

// Backup represents the YAML backup format.
type Backup struct {
	Version    string       `yaml:"version"`
	ExportedAt time.Time    `yaml:"exported_at"`
	Tool       string       `yaml:"tool"`
	Total      int          `yaml:"total"`
	Items      []ItemBackup `yaml:"items"`
}

// ItemBackup represents an item in the backup format.
type ItemBackup struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	Quantity int    `yaml:"quantity"`
}

// ExportToYAML exports items to the YAML backup format.
func ExportToYAML(items []models.Item) ([]byte, error) {
	backup := Backup{
		Version:    BackupVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       BackupTool,
		Total:      models.Total(items),
		Items:      make([]ItemBackup, len(items)),
	}

	for i, item := range items {
		backup.Items[i] = ItemBackup{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
		}
	}

	return yaml.Marshal(backup)
}

// ImportFromYAML parses a YAML backup and returns its items in order.
// Each item is validated and ids must be unique.
func ImportFromYAML(data []byte) ([]models.Item, error) {
	var backup Backup
	if err := yaml.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version: %s (expected %s)", backup.Version, BackupVersion)
	}

	if backup.Tool != BackupTool {
		return nil, fmt.Errorf("wrong tool: %s (expected %s)", backup.Tool, BackupTool)
	}

	seen := make(map[int]bool, len(backup.Items))
	items := make([]models.Item, 0, len(backup.Items))
	for _, ib := range backup.Items {
		if seen[ib.ID] {
			return nil, fmt.Errorf("duplicate item id %d", ib.ID)
		}
		seen[ib.ID] = true

		if err := models.ValidateName(ib.Name); err != nil {
			return nil, fmt.Errorf("item %d: %w", ib.ID, err)
		}
		if ib.Quantity < 0 {
			return nil, fmt.Errorf("item %d: %w", ib.ID,
				&models.ValidationError{Field: "quantity", Err: models.ErrNegativeQuantity})
		}

		items = append(items, models.Item{ID: ib.ID, Name: ib.Name, Quantity: ib.Quantity})
	}

	return items, nil
}

// ExportToJSON exports items in the slot format.
func ExportToJSON(items []models.Item) ([]byte, error) {
	if items == nil {
		items = []models.Item{}
	}
	return json.MarshalIndent(items, "", "  ")
}

// ExportToMarkdown exports items as a markdown table with the total.
func ExportToMarkdown(items []models.Item) ([]byte, error) {
	var sb strings.Builder

	now := time.Now().UTC()
	sb.WriteString(fmt.Sprintf("# Tally Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(items) == 0 {
		sb.WriteString("No items tracked.\n")
		return []byte(sb.String()), nil
	}

	sb.WriteString("| ID | Name | Quantity |\n")
	sb.WriteString("|----|------|----------|\n")
	for _, item := range items {
		name := strings.ReplaceAll(item.Name, "|", `\|`)
		sb.WriteString(fmt.Sprintf("| %d | %s | %d |\n", item.ID, name, item.Quantity))
	}
	sb.WriteString(fmt.Sprintf("\n**Total:** %d\n", models.Total(items)))

	return []byte(sb.String()), nil
}
