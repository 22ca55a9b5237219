// ABOUTME: In-memory item store with selection and derived total
// ABOUTME: Authoritative collection state; knows nothing about storage or view

package items

import (
	"errors"

	"github.com/harper/tally/internal/models"
)

var (
	// ErrNotFound is returned when no item has the requested id.
	ErrNotFound = errors.New("item not found")

	// ErrNoSelection is returned by Update when no item is selected.
	ErrNoSelection = errors.New("no item selected")
)

// Store holds the ordered collection and the current selection.
// It is not safe for concurrent use; callers handle one event at a time.
type Store struct {
	items   []models.Item
	current *models.Item
	// lastID is the highest id handed out since the last SetAll/ClearAll, -1 if none.
	lastID int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{items: []models.Item{}, lastID: -1}
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []models.Item {
	out := make([]models.Item, len(s.items))
	copy(out, s.items)
	return out
}

// SetAll replaces the collection and clears the selection.
func (s *Store) SetAll(items []models.Item) {
	s.items = make([]models.Item, len(items))
	copy(s.items, items)
	s.current = nil
	s.lastID = -1
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.items)
}

// Add appends a new item with the next id. Input is assumed validated.
func (s *Store) Add(name string, quantity int) models.Item {
	item := models.Item{
		ID:       s.nextID(),
		Name:     name,
		Quantity: quantity,
	}
	s.items = append(s.items, item)
	return item
}

// nextID is max(id)+1, or 0 for a fresh collection. Ids freed by Delete are
// not handed out again until the collection is replaced or cleared.
func (s *Store) nextID() int {
	maxID := s.lastID
	for _, it := range s.items {
		if it.ID > maxID {
			maxID = it.ID
		}
	}
	s.lastID = maxID + 1
	return s.lastID
}

// ReserveIDs makes sure the next assigned id is at least next, so ids handed
// out before a restart stay retired.
func (s *Store) ReserveIDs(next int) {
	if next-1 > s.lastID {
		s.lastID = next - 1
	}
}

// Total sums all quantities.
func (s *Store) Total() int {
	return models.Total(s.items)
}

// ByID finds an item by id.
func (s *Store) ByID(id int) (models.Item, error) {
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	return models.Item{}, ErrNotFound
}

func (s *Store) indexOf(id int) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// SetCurrent selects an item for editing. The store keeps its own copy.
func (s *Store) SetCurrent(item models.Item) {
	s.current = &item
}

// Current returns the selected item, if any.
func (s *Store) Current() (models.Item, bool) {
	if s.current == nil {
		return models.Item{}, false
	}
	return *s.current, true
}

// ClearCurrent drops the selection.
func (s *Store) ClearCurrent() {
	s.current = nil
}

// Update overwrites name and quantity of the entry matching the current selection's id.
func (s *Store) Update(name string, quantity int) (models.Item, error) {
	if s.current == nil {
		return models.Item{}, ErrNoSelection
	}
	i := s.indexOf(s.current.ID)
	if i < 0 {
		return models.Item{}, ErrNotFound
	}
	s.items[i].Name = name
	s.items[i].Quantity = quantity
	updated := s.items[i]
	s.current = &updated
	return updated, nil
}

// Delete removes the item with the given id, keeping the order of the rest.
// An absent id returns ErrNotFound and leaves the collection untouched.
func (s *Store) Delete(id int) error {
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	return nil
}

// ClearAll empties the collection and drops the selection.
func (s *Store) ClearAll() {
	s.items = []models.Item{}
	s.current = nil
	s.lastID = -1
}
