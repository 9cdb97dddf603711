package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an update or delete targets an unknown formula.
	ErrNotFound = errors.New("ledger: formula not found")
	// ErrNoNewRecords reports an import whose formulas all exist already.
	ErrNoNewRecords = errors.New("ledger: no new records")
	// ErrUnreadableSpreadsheet wraps failures to open or parse a spreadsheet.
	ErrUnreadableSpreadsheet = errors.New("ledger: spreadsheet could not be read")
	// ErrInvalidRows reports an import aborted by row validation errors.
	ErrInvalidRows = errors.New("ledger: import has invalid rows")
	// ErrInvalidWipeCode is returned when the wipe confirmation code does not match.
	ErrInvalidWipeCode = errors.New("ledger: invalid wipe code")
	// ErrWipeDisabled is returned when no wipe code is configured.
	ErrWipeDisabled = errors.New("ledger: wipe is disabled")
)

// ValidationError rejects a malformed update request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ledger: invalid %s: %s", e.Field, e.Reason)
}

// StoreWriteError wraps a failed, rolled back store transaction.
type StoreWriteError struct {
	Op  string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("ledger: %s: %v", e.Op, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// CacheReloadError records a failed cache rebuild. It is logged, never
// returned to callers of the service.
type CacheReloadError struct {
	Err error
}

func (e *CacheReloadError) Error() string {
	return fmt.Sprintf("ledger: reload cache: %v", e.Err)
}

func (e *CacheReloadError) Unwrap() error {
	return e.Err
}
