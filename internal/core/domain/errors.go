package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPersistence indicates a durable read or write failed.
	// Returned wrapped in a *PersistenceError.
	ErrPersistence = errors.New("persistence failed")

	// ErrCorruptState indicates persisted history could not be decoded.
	// Returned wrapped in a *CorruptStateWarning. It is never fatal.
	ErrCorruptState = errors.New("corrupt persisted state")

	// ErrStoreClosed indicates the history store has been shut down.
	ErrStoreClosed = errors.New("history store closed")

	// ErrStoreNotLoaded indicates a mutation was requested before the
	// persisted history was loaded.
	ErrStoreNotLoaded = errors.New("history store not loaded")

	// ErrSessionActive indicates a scanning session is already running.
	ErrSessionActive = errors.New("scan session already active")
)

// PersistenceError describes a failed durable operation.
type PersistenceError struct {
	// Op is the storage operation that failed ("read" or "write").
	Op string

	// Key is the storage key involved.
	Key string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPersistence.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// CorruptStateWarning reports persisted history that could not be decoded.
// The store recovers by starting from an empty history.
type CorruptStateWarning struct {
	// Key is the storage key holding the malformed data.
	Key string

	// Err is the decoding failure.
	Err error
}

// Error implements the error interface.
func (w *CorruptStateWarning) Error() string {
	return fmt.Sprintf("corrupt state at %q, starting with empty history: %v", w.Key, w.Err)
}

// Unwrap returns the decoding failure.
func (w *CorruptStateWarning) Unwrap() error {
	return w.Err
}

// Is reports whether target is ErrCorruptState.
func (w *CorruptStateWarning) Is(target error) bool {
	return target == ErrCorruptState
}
