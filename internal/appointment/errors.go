package appointment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFieldsRequired      = errors.New("all fields are required")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidTransition   = errors.New("invalid session transition")
	ErrUnknownAction       = errors.New("unknown record action")
)

// ValidationError lists the required fields that were empty on submit.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrFieldsRequired, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrFieldsRequired }

// StorageError is a failed load or persist against the storage slot. It is
// logged and never changes in-memory state.
type StorageError struct {
	Op  string // load, decode, encode, persist
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
