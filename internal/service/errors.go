package service

import (
	"errors"
	"fmt"
)

// Common sentinel errors for the service layer
var (
	// ErrWordNotFound indicates that the word does not exist
	ErrWordNotFound = errors.New("word not found")

	// ErrTextNotFound indicates that the text does not exist
	ErrTextNotFound = errors.New("text not found")

	// ErrWordExists indicates a strict create hit an existing word
	ErrWordExists = errors.New("word already exists")

	// ErrTextExists indicates an identical text is already stored
	ErrTextExists = errors.New("text already exists")

	// ErrUnknownTranslator indicates an unrecognized translator selector
	ErrUnknownTranslator = errors.New("unknown translator")
)

// ServiceError wraps errors from the service layer with operation context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_word")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError. Known sentinel errors pass
// through unwrapped so callers can match them directly.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	for _, sentinel := range []error{
		ErrWordNotFound, ErrTextNotFound, ErrWordExists, ErrTextExists, ErrUnknownTranslator,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
