// ABOUTME: Common storage errors
// ABOUTME: Enables consistent error handling across slot backends

package storage

import "errors"

// ErrNotFound is returned when a requested slot does not exist.
var ErrNotFound = errors.New("not found")
