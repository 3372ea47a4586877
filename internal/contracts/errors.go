package contracts

import (
	"errors"
	"fmt"
)

// Shared error taxonomy. Validation and not-found errors surface immediately
// to the caller; per-item upstream errors are counted and logged during batch
// operations; persistence errors always roll back the enclosing scope.
var (
	// ErrNotFound indicates a missing record (unknown ticker, absent screen).
	ErrNotFound = errors.New("not found")

	// ErrUnknownScreen indicates a screen key outside the built-in catalog.
	ErrUnknownScreen = errors.New("unknown screen")

	// ErrNoData indicates the market data provider could not resolve the
	// ticker or returned an empty range. Recoverable per item.
	ErrNoData = errors.New("no market data")

	// ErrDuplicateHolding indicates a portfolio holding collision on
	// (ticker, quantity, purchase price, purchase date).
	ErrDuplicateHolding = errors.New("duplicate holding")
)

// ValidationError reports a malformed criteria set. The whole set is rejected
// atomically; nothing is persisted or queried on validation failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid criteria: %s", e.Reason)
	}
	return fmt.Sprintf("invalid criteria: field %q: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PersistenceError wraps a failed store write. The enclosing transaction has
// already been rolled back when this surfaces.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
