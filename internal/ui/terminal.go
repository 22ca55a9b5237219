// ABOUTME: Terminal view rendering rows and totals with color
// ABOUTME: Keeps a row model keyed by item id and raises events from shell input

package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/tally/internal/models"
)

// Terminal is a View that draws to a writer.
type Terminal struct {
	Emitter

	out         io.Writer
	rows        []models.Item
	total       int
	mode        Mode
	listVisible bool
	form        Form
}

// Compile-time check that Terminal implements View.
var _ View = (*Terminal)(nil)

// NewTerminal creates a terminal view writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out, listVisible: true}
}

// SetOutput redirects drawing, e.g. to io.Discard while hydrating.
func (t *Terminal) SetOutput(out io.Writer) {
	t.out = out
}

func (t *Terminal) println(s string) {
	_, _ = fmt.Fprintln(t.out, s)
}

// Render replaces the row model and draws the list.
func (t *Terminal) Render(items []models.Item) {
	t.rows = make([]models.Item, len(items))
	copy(t.rows, items)
	t.drawList()
}

func (t *Terminal) drawList() {
	if !t.listVisible {
		return
	}
	for _, it := range t.rows {
		t.println(FormatItem(it))
	}
}

// AppendRow adds a row for item.
func (t *Terminal) AppendRow(item models.Item) {
	t.rows = append(t.rows, item)
	if t.listVisible {
		t.println(color.GreenString("+ ") + FormatItem(item))
	}
}

// UpdateRow replaces the row keyed by item.ID.
func (t *Terminal) UpdateRow(item models.Item) {
	i := t.rowIndex(item.ID)
	if i < 0 {
		return
	}
	t.rows[i] = item
	if t.listVisible {
		t.println(color.YellowString("~ ") + FormatItem(item))
	}
}

// RemoveRow drops the row keyed by id.
func (t *Terminal) RemoveRow(id int) {
	i := t.rowIndex(id)
	if i < 0 {
		return
	}
	removed := t.rows[i]
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	if t.listVisible {
		t.println(color.RedString("- ") + FormatItem(removed))
	}
}

func (t *Terminal) rowIndex(id int) int {
	for i, it := range t.rows {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// RenderTotal draws the total.
func (t *Terminal) RenderTotal(total int) {
	t.total = total
	t.println(FormatTotal(total))
}

// ReadForm returns the raw form values.
func (t *Terminal) ReadForm() Form {
	return t.form
}

// SetForm fills the form from an input source.
func (t *Terminal) SetForm(name, quantity string) {
	t.form = Form{Name: name, Quantity: quantity}
}

// ClearForm empties the form.
func (t *Terminal) ClearForm() {
	t.form = Form{}
}

// SetMode switches controls. Entering edit mode prints the edit banner.
func (t *Terminal) SetMode(mode Mode) {
	changed := t.mode != mode
	t.mode = mode
	if changed && mode == ModeEdit {
		t.println(FormatMode(mode, t.form))
	}
}

// FillForm loads item into the form.
func (t *Terminal) FillForm(item models.Item) {
	t.form = Form{Name: item.Name, Quantity: strconv.Itoa(item.Quantity)}
}

// SetListVisible shows or hides the list. Showing it again redraws the rows.
func (t *Terminal) SetListVisible(visible bool) {
	was := t.listVisible
	t.listVisible = visible
	if !was && visible {
		t.drawList()
	}
	if was && !visible {
		t.println(color.New(color.Faint).Sprint("No items tracked yet."))
	}
}

// Rows returns the rendered rows in display order.
func (t *Terminal) Rows() []models.Item {
	out := make([]models.Item, len(t.rows))
	copy(out, t.rows)
	return out
}

// Total returns the last rendered total.
func (t *Terminal) Total() int {
	return t.total
}

// Mode returns the current control mode.
func (t *Terminal) Mode() Mode {
	return t.mode
}

// ListVisible reports whether the list region is shown.
func (t *Terminal) ListVisible() bool {
	return t.listVisible
}

// Draw prints the whole screen: rows (or the empty notice) and the total.
func (t *Terminal) Draw() {
	if t.listVisible && len(t.rows) > 0 {
		t.drawList()
	} else {
		t.println(color.New(color.Faint).Sprint("No items tracked yet."))
	}
	t.println(FormatTotal(t.total))
}

// Prompt reflects the current mode.
func (t *Terminal) Prompt() string {
	if t.mode == ModeEdit {
		return color.YellowString("edit> ")
	}
	return "add> "
}

const shellHelp = `Commands:
  add [name quantity]     add an item (uses the form when no arguments)
  name <text>             set the form name
  qty <number>            set the form quantity
  edit <id>               select an item for editing
  update [name quantity]  save changes to the selected item
  delete                  delete the selected item
  cancel                  leave edit mode
  clear                   remove every item
  list                    redraw the list
  help                    show this help
  quit                    exit`

// Run reads commands from in and emits the matching events until in is
// exhausted, the user quits, or ctx is cancelled. Rejected events are
// reported inline and the session continues.
func (t *Terminal) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, _ = fmt.Fprint(t.out, t.Prompt())
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(t.out)
			return scanner.Err()
		}

		quit, err := t.exec(strings.TrimSpace(scanner.Text()))
		if err != nil {
			t.println(FormatError(err))
		}
		if quit {
			return nil
		}
	}
}

// exec runs one shell line.
func (t *Terminal) exec(line string) (quit bool, err error) {
	if line == "" {
		return false, nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		t.println(shellHelp)
		return false, nil
	case "list", "ls":
		t.Draw()
		return false, nil
	case "name":
		t.form.Name = rest
		return false, nil
	case "qty", "quantity":
		t.form.Quantity = rest
		return false, nil
	case "add", "a":
		if rest != "" {
			t.SetForm(splitNameQuantity(rest))
		}
		return false, t.Emit(Event{Kind: SubmitAdd})
	case "edit", "e":
		id, convErr := strconv.Atoi(strings.TrimPrefix(rest, "item-"))
		if convErr != nil {
			return false, fmt.Errorf("edit needs an item id, got %q", rest)
		}
		return false, t.Emit(Event{Kind: RowEdit, ID: id})
	case "update", "u":
		if rest != "" {
			t.SetForm(splitNameQuantity(rest))
		}
		return false, t.Emit(Event{Kind: SubmitUpdate})
	case "delete", "del", "rm":
		return false, t.Emit(Event{Kind: SubmitDelete})
	case "cancel", "back":
		return false, t.Emit(Event{Kind: CancelEdit})
	case "clear":
		return false, t.Emit(Event{Kind: ClearAll})
	default:
		return false, fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

// splitNameQuantity treats the last word as the quantity and the rest as the name.
func splitNameQuantity(s string) (name, quantity string) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return s, ""
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}
