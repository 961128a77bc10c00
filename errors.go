package georef

import (
	"errors"
	"fmt"
)

// ErrorType defines the category of client error
type ErrorType string

const (
	// TransientError covers transport-level failures presumed recoverable by
	// retry: connection errors, non-2xx statuses, undecodable bodies.
	TransientError ErrorType = "transient"

	// StructuralError means the response decoded but does not have the shape
	// the service contract promises. Never retried.
	StructuralError ErrorType = "structural"

	// DomainError means the service itself answered with a structured error
	// payload. Never retried.
	DomainError ErrorType = "domain"

	// ValidationError covers malformed inputs caught before or after the wire.
	ValidationError ErrorType = "validation"
)

// NoResultsCode is the domain code the service uses for "the query matched
// nothing". It is an empty-result condition, not a failure; callers check it
// through IsNoResults.
const NoResultsCode = "30006"

// ClientError is the common shape of every error this package produces.
// Retryable reports whether repeating the same request could change the
// outcome; the retry controller keys off it.
type ClientError interface {
	error
	Type() ErrorType
	Retryable() bool
}

type transientError struct {
	op      string
	message string
	cause   error
}

func (e *transientError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.op, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.op, e.message)
}

func (e *transientError) Type() ErrorType { return TransientError }
func (e *transientError) Retryable() bool { return true }
func (e *transientError) Unwrap() error   { return e.cause }

type structuralError struct {
	op      string
	message string
}

func (e *structuralError) Error() string {
	return fmt.Sprintf("%s: invalid response: %s", e.op, e.message)
}

func (e *structuralError) Type() ErrorType { return StructuralError }
func (e *structuralError) Retryable() bool { return false }

type domainError struct {
	op      string
	code    string
	message string
}

func (e *domainError) Error() string {
	if e.code != "" {
		return fmt.Sprintf("%s: service error %s: %s", e.op, e.code, e.message)
	}
	return fmt.Sprintf("%s: service error: %s", e.op, e.message)
}

func (e *domainError) Type() ErrorType { return DomainError }
func (e *domainError) Retryable() bool { return false }

// Code returns the machine error code, "" when the error node carried none.
func (e *domainError) Code() string { return e.code }

type validationError struct {
	field   string
	message string
}

func (e *validationError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("validation error: %s (field: %s)", e.message, e.field)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

func (e *validationError) Type() ErrorType { return ValidationError }
func (e *validationError) Retryable() bool { return false }

// NewTransientError creates a retryable transport error for the operation.
func NewTransientError(op, message string, cause error) ClientError {
	return &transientError{op: op, message: message, cause: cause}
}

// NewStructuralError creates a non-retryable invalid-response error.
func NewStructuralError(op, message string) ClientError {
	return &structuralError{op: op, message: message}
}

// NewDomainError creates a non-retryable service-reported error. The code may
// be empty when the error node carried no id attribute.
func NewDomainError(op, code, message string) ClientError {
	return &domainError{op: op, code: code, message: message}
}

// NewValidationError creates a non-retryable input validation error.
func NewValidationError(field, message string) ClientError {
	return &validationError{field: field, message: message}
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// DomainCode extracts the machine code from a domain error. The second return
// is false when err is not a domain error or the code was absent on the wire.
func DomainCode(err error) (string, bool) {
	var domErr *domainError
	if errors.As(err, &domErr) && domErr.code != "" {
		return domErr.code, true
	}
	return "", false
}

// IsNoResults reports whether err is the service's "no results" answer.
// That answer arrives as a domain error on the wire but is an empty result,
// not a failure.
func IsNoResults(err error) bool {
	code, ok := DomainCode(err)
	return ok && code == NoResultsCode
}
