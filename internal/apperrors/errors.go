package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Category errors. Every error returned by the services wraps exactly one of these,
// so callers can branch with errors.Is without knowing the concrete entity.
var (
	// ErrValidation indicates bad input to a constructor or request. Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates that a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCurrencyMismatch indicates that two values in different base currencies were combined.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrGateway indicates that the persistence gateway failed (storage unavailable, bad row).
	ErrGateway = errors.New("storage failure")

	// ErrConflict indicates that an operation violates a state rule of an existing entity.
	ErrConflict = errors.New("conflict")
)

// Domain entity errors represent missing entities in the system.
var (
	// ErrInstrumentNotFound indicates that an instrument with the given ID does not exist.
	ErrInstrumentNotFound = fmt.Errorf("instrument %w", ErrNotFound)

	// ErrTransactionNotFound indicates that a transaction log entry with the given ID does not exist.
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)

	// ErrSnapshotNotFound indicates that a snapshot with the given ID (or date and kind) does not exist.
	ErrSnapshotNotFound = fmt.Errorf("snapshot %w", ErrNotFound)
)

// Business rule errors.
var (
	// ErrInstrumentInUse indicates that an instrument cannot be deleted because entries reference it.
	ErrInstrumentInUse = fmt.Errorf("instrument is referenced by transactions: %w", ErrConflict)

	// ErrSnapshotProtected indicates an attempt to delete a snapshot dated today.
	ErrSnapshotProtected = fmt.Errorf("snapshot dated today cannot be deleted: %w", ErrConflict)

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = fmt.Errorf("duplicate entry: %w", ErrConflict)

	// ErrNothingToSnapshot indicates that the ledger holds no position to freeze.
	ErrNothingToSnapshot = errors.New("no positions to snapshot")
)

// Operation failure messages used in HTTP error responses.
var (
	ErrFailedToRetrieveInstruments = errors.New("failed to retrieve instruments")
	ErrFailedToRetrieveInstrument  = errors.New("failed to retrieve instrument")
	ErrFailedToRetrieveTransaction = errors.New("failed to retrieve transaction")
	ErrFailedToRetrievePosition    = errors.New("failed to retrieve position")
	ErrFailedToGetPortfolio        = errors.New("failed to get portfolio")
	ErrFailedToRetrieveSnapshots   = errors.New("failed to retrieve snapshots")
	ErrFailedToRetrieveSnapshot    = errors.New("failed to retrieve snapshot")
	ErrFailedToCreateSnapshot      = errors.New("failed to create snapshot")
	ErrFailedToCompareSnapshots    = errors.New("failed to compare snapshots")
	ErrFailedToDeleteSnapshot      = errors.New("failed to delete snapshot")
)

// ValidationError carries a message per offending field.
// errors.Is(err, ErrValidation) reports true for every ValidationError.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, field := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

// Is makes ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Has reports whether the given field failed validation.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Collector accumulates field errors and produces a ValidationError when any were added.
type Collector map[string]string

// Add records msg for field, keeping the first message per field.
func (c Collector) Add(field, msg string) {
	if _, ok := c[field]; !ok {
		c[field] = msg
	}
}

// Err returns nil when nothing was collected.
func (c Collector) Err() error {
	if len(c) == 0 {
		return nil
	}
	return &ValidationError{Fields: map[string]string(c)}
}

// Gateway wraps a storage failure so it matches ErrGateway while keeping the cause.
func Gateway(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrGateway, err)
}
