package carrier

import (
	"errors"
	"fmt"
)

// TranslationError indicates the mapper's own assumptions about a carrier
// schema were violated: a required identifier missing from a response, a
// malformed payload, or an option coercion failure. It is distinct from
// carrier-reported errors, which are returned as Messages, never raised.
type TranslationError struct {
	Carrier   string
	Operation string
	Reason    string
	Cause     error
}

// Error implements the error interface.
func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Carrier, e.Operation, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s %s: %s", e.Carrier, e.Operation, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// NewTranslationError creates a TranslationError for a carrier operation.
func NewTranslationError(carrier, operation, reason string) *TranslationError {
	return &TranslationError{Carrier: carrier, Operation: operation, Reason: reason}
}

// WithCause attaches the underlying error.
func (e *TranslationError) WithCause(err error) *TranslationError {
	e.Cause = err
	return e
}

// Sentinel errors shared across the core.
var (
	// ErrCarrierNotFound indicates the requested carrier is not registered.
	ErrCarrierNotFound = errors.New("carrier not found")

	// ErrOperationNotSupported indicates a registered carrier does not
	// implement the requested operation.
	ErrOperationNotSupported = errors.New("operation not supported")
)

// IsTranslationError reports whether err is a mapper translation failure as
// opposed to a transport error or carrier-reported condition.
func IsTranslationError(err error) bool {
	var te *TranslationError
	return errors.As(err, &te)
}
