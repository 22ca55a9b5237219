// ABOUTME: Core data model for tracked items
// ABOUTME: Provides input validation for names and quantities

package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxNameLength bounds item names.
const MaxNameLength = 255

// Validation failures, wrapped in a ValidationError.
var (
	ErrEmptyName        = errors.New("name cannot be empty or whitespace")
	ErrNameTooLong      = fmt.Errorf("name too long (max %d characters)", MaxNameLength)
	ErrInvalidQuantity  = errors.New("quantity must be a whole number")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
)

// ValidationError reports which input field was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Item is one entry in the list: a name and a quantity (calories, units, ...).
type Item struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ValidateName checks that a name is non-empty after trimming and within length limits.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Err: ErrEmptyName}
	}
	if len(name) > MaxNameLength {
		return &ValidationError{Field: "name", Err: ErrNameTooLong}
	}
	return nil
}

// ParseQuantity parses raw form input into a non-negative integer.
func ParseQuantity(raw string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ValidationError{Field: "quantity", Err: ErrInvalidQuantity}
	}
	if q < 0 {
		return 0, &ValidationError{Field: "quantity", Err: ErrNegativeQuantity}
	}
	return q, nil
}

// ParseInput validates raw name and quantity strings together.
// The returned name is trimmed.
func ParseInput(name, quantity string) (string, int, error) {
	if err := ValidateName(name); err != nil {
		return "", 0, err
	}
	q, err := ParseQuantity(quantity)
	if err != nil {
		return "", 0, err
	}
	return strings.TrimSpace(name), q, nil
}

// Total sums the quantities of items.
func Total(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}
