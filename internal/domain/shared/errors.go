// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages. This package has zero external dependencies.
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
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Contract errors: malformed data reaching a pure computation.
	// These indicate a caller bug, never a recoverable runtime condition.
	ErrContractViolation = errors.New("contract violation")

	// State errors
	ErrInvalidState = errors.New("invalid state")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "applicant", "review", "board"
	Op      string // Operation that failed, e.g., "Create", "CastVote"
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

// Applicant domain errors
var (
	ErrApplicantNotFound      = NewDomainError("applicant", "Find", ErrNotFound, "applicant not found")
	ErrApplicantAlreadyExists = NewDomainError("applicant", "Create", ErrAlreadyExists, "applicant already exists")
	ErrInvalidApplicantID     = NewDomainError("applicant", "Validate", ErrInvalidID, "invalid applicant ID")
)

// Review domain errors
var (
	ErrVoteNotFound    = NewDomainError("review", "FindVote", ErrNotFound, "vote not found")
	ErrScoreOutOfRange = NewDomainError("review", "Validate", ErrValueOutOfRange, "score must be between 0 and 10")
	ErrAlreadyVoted    = NewDomainError("review", "CastVote", ErrAlreadyExists, "a different score was already cast for this applicant")
)

// Note domain errors
var (
	ErrNoteNotFound  = NewDomainError("note", "Find", ErrNotFound, "note not found")
	ErrEmptyNote     = NewDomainError("note", "Validate", ErrEmptyValue, "note content cannot be empty")
	ErrNotNoteAuthor = NewDomainError("note", "Delete", ErrForbidden, "only the author or an admin can delete a note")
)

// Board domain errors
var (
	ErrMemberNotFound      = NewDomainError("board", "Find", ErrNotFound, "board member not found")
	ErrMemberAlreadyExists = NewDomainError("board", "Create", ErrAlreadyExists, "board member already exists")
	ErrInvalidEmail        = NewDomainError("board", "Validate", ErrInvalidFormat, "invalid email address")
	ErrNotAdmin            = NewDomainError("board", "Authorize", ErrForbidden, "admin privileges required")
)

// Identity errors
var (
	ErrAccountNotFound    = NewDomainError("identity", "Find", ErrNotFound, "account not found")
	ErrInvalidCredentials = NewDomainError("identity", "Authenticate", ErrUnauthorized, "invalid email or password")
	ErrPasswordChangeNeed = NewDomainError("identity", "Authenticate", ErrInvalidState, "temporary password must be changed")
	ErrWeakPassword       = NewDomainError("identity", "SetPassword", ErrValidation, "password does not meet requirements")
)

// External service errors
var (
	ErrAssistantUnavailable = NewDomainError("assistant", "Request", ErrServiceUnavailable, "language model is unavailable")
	ErrMailerFailed         = NewDomainError("mailer", "Send", ErrExternalService, "email delivery failed")
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
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsContractViolation checks if the error indicates malformed input to a
// pure computation. Such errors are caller bugs and should fail loudly.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrContractViolation)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
