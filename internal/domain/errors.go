// Package domain holds the error taxonomy shared by the stores and the
// HTTP layer. These are business-level failures, not HTTP errors; the
// handlers map them to status codes.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage failure")
)

// NotFoundError identifies the entity and id that could not be found.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
	}
	return e.Entity + " not found"
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError carries the offending field back to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return "validation failed: " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ReferenceConflictError signals that a reference row is still used by
// quote lines and therefore cannot be deleted.
type ReferenceConflictError struct {
	Entity     string
	ID         int64
	References int64
}

func (e *ReferenceConflictError) Error() string {
	return fmt.Sprintf("%s %d is referenced by %d quote line(s); archive it instead of deleting",
		e.Entity, e.ID, e.References)
}

func (e *ReferenceConflictError) Unwrap() error { return ErrConflict }

// NewReferenceConflictError creates a conflict error for a referenced row.
func NewReferenceConflictError(entity string, id, references int64) error {
	return &ReferenceConflictError{Entity: entity, ID: id, References: references}
}

// StorageError wraps an underlying transaction or commit failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return ErrStorage }

// NewStorageError wraps err with the failing operation name.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsConflict reports whether err is a reference conflict error.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsStorage reports whether err is a storage failure.
func IsStorage(err error) bool { return errors.Is(err, ErrStorage) }
