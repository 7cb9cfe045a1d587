package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups when no record exists under the key.
var ErrNotFound = errors.New("record not found")

// StorageError wraps a store write/read failure. User-initiated writes
// surface it inline; best-effort event logging swallows it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
