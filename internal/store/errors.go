package store

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when the per-table lock cannot be acquired within the
// configured timeout. Callers may retry.
var ErrBusy = errors.New("table is busy")

// StorageError wraps an I/O failure on a table file.
type StorageError struct {
	Table string
	Op    string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("table %s: %s: %v", e.Table, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError means the table file holds content that is not valid JSON.
// The caller decides whether to Reset the table.
type ParseError struct {
	Table string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("table %s: corrupt content: %v", e.Table, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
