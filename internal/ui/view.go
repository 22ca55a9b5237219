// ABOUTME: View contract, edit modes and the form read by the coordinator
// ABOUTME: Rendering surfaces implement View; they hold no business logic

package ui

import "github.com/harper/tally/internal/models"

// Mode selects which controls are available.
type Mode int

const (
	// ModeAdd shows the add action only.
	ModeAdd Mode = iota
	// ModeEdit shows update, delete and cancel and hides add.
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeAdd:
		return "add"
	case ModeEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// Form holds raw, unparsed input field values.
type Form struct {
	Name     string
	Quantity string
}

// View renders the collection and exposes the input form.
type View interface {
	// Render replaces the list with one row per item.
	Render(items []models.Item)
	AppendRow(item models.Item)
	UpdateRow(item models.Item)
	RemoveRow(id int)
	RenderTotal(total int)
	ReadForm() Form
	ClearForm()
	SetMode(mode Mode)
	// FillForm loads an item's values into the form when entering edit mode.
	FillForm(item models.Item)
	SetListVisible(visible bool)
}
