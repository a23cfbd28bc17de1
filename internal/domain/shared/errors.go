package shared

import (
	"errors"
	"fmt"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Lookup errors

// LookupError is the base for structural lookup failures: a key that the
// caller supplied has no matching entry in a configuration map.
type LookupError struct {
	*DomainError
	Key string
}

func NewLookupError(message, key string) *LookupError {
	return &LookupError{DomainError: &DomainError{Message: message}, Key: key}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Classification

// domainMarker is implemented by every domain error, directly or through
// an embedded *DomainError
type domainMarker interface {
	domainError()
}

func (e *DomainError) domainError()     {}
func (e *ValidationError) domainError() {}

// IsDomainError reports whether err, or any error it wraps, originates in
// the domain model rather than in infrastructure
func IsDomainError(err error) bool {
	var marker domainMarker
	return errors.As(err, &marker)
}
