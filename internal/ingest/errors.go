package ingest

import (
	"errors"
	"fmt"
)

// ErrEmptySheet is returned when a spreadsheet holds no data rows.
var ErrEmptySheet = errors.New("ingest: spreadsheet has no data rows")

// Problem classifies why a row failed validation.
type Problem int

const (
	ProblemMissingField Problem = iota + 1
	ProblemPercentNotNumeric
	ProblemPercentNegative
	ProblemInvalidDate
	ProblemMalformed
)

// RowValidationError reports a single failing spreadsheet row.
type RowValidationError struct {
	Row     int
	Problem Problem
	// Field is the spreadsheet header of the failing column, empty for malformed rows.
	Field  string
	Detail string
	Err    error
}

func (e *RowValidationError) Error() string {
	switch e.Problem {
	case ProblemMissingField:
		return fmt.Sprintf("row %d: %s must not be empty", e.Row, e.Field)
	case ProblemPercentNotNumeric:
		return fmt.Sprintf("row %d: %s must be a number", e.Row, e.Field)
	case ProblemPercentNegative:
		return fmt.Sprintf("row %d: %s must not be negative", e.Row, e.Field)
	case ProblemInvalidDate:
		return fmt.Sprintf("row %d: %s has an invalid date format", e.Row, e.Field)
	case ProblemMalformed:
		return fmt.Sprintf("row %d: malformed row: %s", e.Row, e.Detail)
	default:
		return fmt.Sprintf("row %d: invalid row", e.Row)
	}
}

func (e *RowValidationError) Unwrap() error {
	return e.Err
}

// MalformedRowError reports a row that does not fit the fixed column layout.
type MalformedRowError struct {
	Row    int
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d: malformed row: %s", e.Row, e.Reason)
}
