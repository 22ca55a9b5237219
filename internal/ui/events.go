// ABOUTME: Interaction events raised by views
// ABOUTME: Emitter fans events out to subscribed handlers in order

package ui

import (
	"errors"
	"fmt"
)

// EventKind identifies a user interaction.
type EventKind int

const (
	SubmitAdd EventKind = iota
	RowEdit
	SubmitUpdate
	SubmitDelete
	ClearAll
	CancelEdit
)

var eventNames = map[EventKind]string{
	SubmitAdd:    "submit-add",
	RowEdit:      "row-edit",
	SubmitUpdate: "submit-update",
	SubmitDelete: "submit-delete",
	ClearAll:     "clear-all",
	CancelEdit:   "cancel-edit",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one interaction. ID is only meaningful for RowEdit.
type Event struct {
	Kind EventKind
	ID   int
}

func (e Event) String() string {
	if e.Kind == RowEdit {
		return fmt.Sprintf("%s %s", e.Kind, RowKey(e.ID))
	}
	return e.Kind.String()
}

// Handler reacts to an event. A returned error is reported back to the source.
type Handler func(Event) error

// Emitter holds event subscriptions.
type Emitter struct {
	handlers []Handler
}

// Subscribe registers h for every subsequent event.
func (e *Emitter) Subscribe(h Handler) {
	e.handlers = append(e.handlers, h)
}

// Emit delivers ev to every handler in subscription order.
func (e *Emitter) Emit(ev Event) error {
	var errs []error
	for _, h := range e.handlers {
		if err := h(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
