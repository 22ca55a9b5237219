// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable output for items, totals and modes

package ui

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/tally/internal/models"
)

// RowKey identifies the rendered row for an item id.
func RowKey(id int) string {
	return fmt.Sprintf("item-%d", id)
}

// FormatItem formats one list row: key, name and quantity.
func FormatItem(item models.Item) string {
	return fmt.Sprintf("%s  %s: %s",
		color.New(color.Faint).Sprint(RowKey(item.ID)),
		color.GreenString(item.Name),
		color.CyanString("%d", item.Quantity))
}

// FormatTotal formats the running total.
func FormatTotal(total int) string {
	return fmt.Sprintf("Total: %s", color.New(color.Bold).Sprint(total))
}

// FormatMode describes the controls available in mode.
func FormatMode(mode Mode, form Form) string {
	if mode == ModeEdit {
		return color.YellowString("Editing %q (%s) - update, delete or cancel", form.Name, form.Quantity)
	}
	return color.New(color.Faint).Sprint("add <name> <quantity> to add an item")
}

// FormatError formats a rejected interaction without aborting the session.
func FormatError(err error) string {
	return color.New(color.Faint).Sprintf("! %v", err)
}
