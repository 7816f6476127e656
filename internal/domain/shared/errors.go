// Package shared contains common domain types, errors and events that are used
// across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation       = errors.New("validation error")
	ErrInvalidInput     = errors.New("invalid input")
	ErrEmptyValue       = errors.New("value cannot be empty")
	ErrValueOutOfRange  = errors.New("value out of range")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidCharacter = errors.New("invalid character")

	// Informational outcomes (nothing to report, not a failure)
	ErrNoData = errors.New("no data")

	// Infrastructure errors
	ErrStore = errors.New("store error")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "gradebook", "book"
	Op      string // Operation that failed, e.g., "Register", "Update"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Domain == t.Domain && e.Op == t.Op && e.Message == t.Message
	}
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Student domain errors
var (
	ErrEmptyName        = NewDomainError("student", "ParseName", ErrEmptyValue, "the name can't be empty")
	ErrNameHasDigits    = NewDomainError("student", "ParseName", ErrInvalidCharacter, "the name must not contain numbers")
	ErrNameInvalidChars = NewDomainError("student", "ParseName", ErrInvalidCharacter, "the name contains invalid characters")
	ErrDuplicateStudent = NewDomainError("student", "Register", ErrAlreadyExists, "student already exists")
	ErrStudentNotFound  = NewDomainError("student", "Lookup", ErrNotFound, "student not found")
	ErrNotANumber       = NewDomainError("student", "ParseGrade", ErrInvalidFormat, "grade is not a number")
	ErrOutOfRange       = NewDomainError("student", "ParseGrade", ErrValueOutOfRange, "grade must be between 0 and 100")
)

// Gradebook reporting outcomes. These are informational: the caller reports
// them and carries on.
var (
	ErrEmptyRoster      = NewDomainError("gradebook", "Summarize", ErrNoData, "there is no list of students")
	ErrNoStudents       = NewDomainError("gradebook", "FindBest", ErrNoData, "there are no students")
	ErrNoGradesRecorded = NewDomainError("gradebook", "Report", ErrNoData, "no grades recorded")
)

// Book catalog errors
var (
	ErrBookNotFound   = NewDomainError("book", "Find", ErrNotFound, "book not found")
	ErrBookValidation = NewDomainError("book", "Validate", ErrValidation, "invalid book")
	ErrBookStore      = NewDomainError("book", "Store", ErrStore, "book store failure")
	ErrInvalidPage    = NewDomainError("book", "Paginate", ErrValueOutOfRange, "invalid page parameters")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidCharacter)
}

// IsInformational reports whether err only signals an absence of data.
func IsInformational(err error) bool {
	return errors.Is(err, ErrNoData)
}

// IsStore checks if the error originates from a storage backend.
func IsStore(err error) bool {
	return errors.Is(err, ErrStore)
}
