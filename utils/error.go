package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

// ErrorDuplicateLink is returned when the same compatibility tuple is linked twice.
var ErrorDuplicateLink = errors.New("compatibility link already exists")

// ErrorConflict guards append-only data: purging an entity that history rows
// still reference is refused with this error.
var ErrorConflict = errors.New("operation conflicts with existing history records")

var (
	ErrorUnsupportedMedia = errors.New("unsupported media type")
	ErrorPayloadTooLarge  = errors.New("payload too large")
	ErrorUnauthorized     = errors.New("unauthorized")
)

// ValidationError reports a malformed or missing input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IntegrityError reports a reference to a missing or inactive record,
// e.g. linking a game to a console that does not exist.
type IntegrityError struct {
	Reference string
	ID        int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("referenced %s %d does not exist or is inactive", e.Reference, e.ID)
}

func NewIntegrityError(reference string, id int) error {
	return &IntegrityError{Reference: reference, ID: id}
}

func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}
