package models

import "errors"

// ValidationError marks a failure the caller can correct: a bad upload set,
// a non-PDF file, a missing or unknown format token. It always short-circuits
// before any conversion work begins.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// ProcessingError wraps a failure inside parsing, extraction, encoding or
// merging. The original cause is preserved for logs; the message is what the
// client sees.
type ProcessingError struct {
	Message string
	Cause   error
}

func (e *ProcessingError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ProcessingError) Unwrap() error { return e.Cause }

func NewProcessingError(message string, cause error) error {
	return &ProcessingError{Message: message, Cause: cause}
}

// IsValidation reports whether err should surface as a client error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
