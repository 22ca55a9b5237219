// ABOUTME: Coordinator wiring view events to store mutations and persistence
// ABOUTME: Owns the add/edit mode state machine

package app

import (
	"errors"
	"fmt"

	"github.com/harper/tally/internal/items"
	"github.com/harper/tally/internal/models"
	"github.com/harper/tally/internal/storage"
	"github.com/harper/tally/internal/ui"
	"go.uber.org/zap"
)

// ErrWrongMode is returned for events that do not apply in the current mode,
// such as submit-update while adding.
var ErrWrongMode = errors.New("action not available in this mode")

// Coordinator is the only component that knows the store, the persistence
// adapter and the view. It handles one event at a time and is not safe for
// concurrent use.
type Coordinator struct {
	store   *items.Store
	persist *storage.Adapter
	view    ui.View
	logger  *zap.Logger
	mode    ui.Mode
}

// New creates a coordinator. A nil logger discards log output.
func New(store *items.Store, persist *storage.Adapter, view ui.View, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		store:   store,
		persist: persist,
		view:    view,
		logger:  logger,
		mode:    ui.ModeAdd,
	}
}

// Store exposes the item store for read access.
func (c *Coordinator) Store() *items.Store {
	return c.store
}

// Mode returns the current edit mode.
func (c *Coordinator) Mode() ui.Mode {
	return c.mode
}

// Bind subscribes the coordinator to e's events.
func (c *Coordinator) Bind(e *ui.Emitter) {
	e.Subscribe(c.Handle)
}

// Start hydrates the store from persistence and draws the initial view.
func (c *Coordinator) Start() {
	c.mode = ui.ModeAdd
	c.view.SetMode(ui.ModeAdd)

	c.store.SetAll(c.persist.LoadAll())
	c.store.ReserveIDs(c.persist.LoadNextID())
	c.logger.Debug("store hydrated", zap.Int("items", c.store.Len()))

	if c.store.Len() == 0 {
		c.view.SetListVisible(false)
		return
	}
	c.view.Render(c.store.All())
	c.view.SetListVisible(true)
	c.view.RenderTotal(c.store.Total())
}

// Handle runs one event through the state machine. Invalid input and events
// that do not fit the mode return an error and change nothing. A selection that
// has gone stale returns an error and drops back to add mode.
func (c *Coordinator) Handle(ev ui.Event) error {
	c.logger.Debug("event", zap.Stringer("event", ev), zap.Stringer("mode", c.mode))

	switch ev.Kind {
	case ui.SubmitAdd:
		return c.submitAdd()
	case ui.RowEdit:
		return c.rowEdit(ev.ID)
	case ui.SubmitUpdate:
		return c.submitUpdate()
	case ui.SubmitDelete:
		return c.submitDelete()
	case ui.CancelEdit:
		c.backToAdd()
		return nil
	case ui.ClearAll:
		c.clearAll()
		return nil
	default:
		return fmt.Errorf("unknown event %s", ev.Kind)
	}
}

func (c *Coordinator) submitAdd() error {
	if c.mode != ui.ModeAdd {
		return ErrWrongMode
	}
	name, quantity, err := parseForm(c.view.ReadForm())
	if err != nil {
		return err
	}

	item := c.store.Add(name, quantity)
	c.persistWrite("append", c.persist.Append(item))

	c.view.AppendRow(item)
	c.view.SetListVisible(true)
	c.view.RenderTotal(c.store.Total())
	c.view.ClearForm()
	return nil
}

func parseForm(f ui.Form) (string, int, error) {
	return models.ParseInput(f.Name, f.Quantity)
}

func (c *Coordinator) rowEdit(id int) error {
	item, err := c.store.ByID(id)
	if err != nil {
		return fmt.Errorf("edit %s: %w", ui.RowKey(id), err)
	}

	c.store.SetCurrent(item)
	c.view.FillForm(item)
	c.mode = ui.ModeEdit
	c.view.SetMode(ui.ModeEdit)
	return nil
}

func (c *Coordinator) submitUpdate() error {
	if c.mode != ui.ModeEdit {
		return ErrWrongMode
	}
	name, quantity, err := parseForm(c.view.ReadForm())
	if err != nil {
		return err
	}

	item, err := c.store.Update(name, quantity)
	if err != nil {
		c.backToAdd()
		return fmt.Errorf("update: %w", err)
	}
	c.persistWrite("update", c.persist.Update(item))

	c.view.UpdateRow(item)
	c.view.RenderTotal(c.store.Total())
	c.backToAdd()
	return nil
}

func (c *Coordinator) submitDelete() error {
	if c.mode != ui.ModeEdit {
		return ErrWrongMode
	}
	current, ok := c.store.Current()
	if !ok {
		c.backToAdd()
		return fmt.Errorf("delete: %w", items.ErrNoSelection)
	}

	if err := c.store.Delete(current.ID); err != nil {
		c.backToAdd()
		return fmt.Errorf("delete %s: %w", ui.RowKey(current.ID), err)
	}
	c.persistWrite("remove", c.persist.Remove(current.ID))

	c.view.RemoveRow(current.ID)
	c.view.RenderTotal(c.store.Total())
	if c.store.Len() == 0 {
		c.view.SetListVisible(false)
	}
	c.backToAdd()
	return nil
}

func (c *Coordinator) clearAll() {
	c.store.ClearAll()
	c.persistWrite("clear", c.persist.Clear())

	c.view.Render(nil)
	c.view.RenderTotal(0)
	c.view.SetListVisible(false)
	c.backToAdd()
}

// backToAdd is the common exit from edit mode.
func (c *Coordinator) backToAdd() {
	c.store.ClearCurrent()
	c.mode = ui.ModeAdd
	c.view.SetMode(ui.ModeAdd)
	c.view.ClearForm()
}

// persistWrite logs a failed write and carries on; the store stays authoritative.
func (c *Coordinator) persistWrite(op string, err error) {
	if err != nil {
		c.logger.Warn("persistence write failed",
			zap.String("op", op),
			zap.String("key", c.persist.Key()),
			zap.Error(err))
	}
}
