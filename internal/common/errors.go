package common

import (
	"errors"
	"fmt"
)

// Domain outcomes that callers are expected to branch on.
var (
	// ErrNotFound marks a missing deliverer, warehouse, route or package.
	ErrNotFound = errors.New("not found")

	// ErrCapacityExhausted is the normal negative result when no warehouse
	// or no storage slot can take the package. Not a server fault.
	ErrCapacityExhausted = errors.New("capacity exhausted")

	// ErrConcurrencyConflict means a slot reservation lost a race with a
	// concurrent request. Callers retry the allocation once.
	ErrConcurrencyConflict = errors.New("concurrent reservation conflict")
)

// InvalidInputError is a programmer or data error: malformed coordinates,
// non-positive volume, inverted time windows. Fail fast, no retry.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// NewInvalidInput builds an InvalidInputError for the given field.
func NewInvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// IsInvalidInput reports whether err is an input validation failure.
func IsInvalidInput(err error) bool {
	var invalid *InvalidInputError
	return errors.As(err, &invalid)
}
