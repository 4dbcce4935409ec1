package metadata

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidField is the kind of every field validation failure.
	// Use errors.Is to test for it; the concrete error is a *FieldError.
	ErrInvalidField = errors.New("invalid field")

	// ErrUnknownFormat is returned by ParseFormat for unrecognized tags
	ErrUnknownFormat = errors.New("unknown format")

	// ErrNoDataset is returned when names are resolved on a file
	// that was not given an owning dataset.
	ErrNoDataset = errors.New("file has no dataset")
)

// FieldError reports a field of a file that failed validation.
type FieldError struct {
	File   string // name of the file
	Field  string // name of the offending field
	Reason string
	Err    error // underlying cause, may be nil
}

// NewFieldError returns a FieldError for the given file and field.
func NewFieldError(file, field, reason string, cause error) *FieldError {
	return &FieldError{File: file, Field: field, Reason: reason, Err: cause}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("file %q: %s", e.File, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is makes every FieldError match ErrInvalidField.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidField
}
