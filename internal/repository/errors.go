package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no row matches the requested id.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a write violates the description uniqueness constraint.
	ErrDuplicate = errors.New("entity already exists")
)

// StorageError wraps any driver failure that is not one of the sentinels above.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// NotFoundError wraps ErrNotFound with the missing id.
func NotFoundError(id int64) error {
	return fmt.Errorf("%w: task with id %d", ErrNotFound, id)
}
