// Package errs classifies loader failures into the three kinds callers
// need to tell apart: configuration, input validation, and database.
// Classification uses sentinel errors and errors.Is so wrapped context
// is preserved all the way up to the CLI.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three failure kinds. Every error produced by
// the loader wraps exactly one of these.
var (
	// ErrConfiguration indicates malformed or missing connection
	// configuration. Never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrValidation indicates the input file is missing, empty, or
	// malformed. An open connection stays reusable after one of these.
	ErrValidation = errors.New("validation error")

	// ErrDatabase indicates connection, schema creation, or batch
	// insertion failure. Always carries the driver's message.
	ErrDatabase = errors.New("database error")
)

// Exit codes returned by the CLI.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Configuration wraps a formatted message as a configuration error.
func Configuration(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// Validation wraps a formatted message as a validation error.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Database wraps an underlying driver error with operation context.
// The driver's message is preserved for diagnosis.
func Database(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDatabase, op, err)
}

// Databasef wraps a formatted message as a database error when there is
// no single underlying error to preserve.
func Databasef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDatabase, fmt.Sprintf(format, args...))
}

// Kind returns a short name for the error's classification, or "error"
// for unclassified errors.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrDatabase):
		return "database"
	default:
		return "error"
	}
}

// ExitCodeForError returns the process exit code for an error.
// All failure kinds map to a non-zero exit per the command contract.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}
