package domain

import "errors"

// Cross-entity domain errors. Entity-specific sentinels live next to
// their entity.
var (
	// ErrValidation marks a failed entity or request validation.
	// Callers usually wrap it with the failing field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID marks a malformed entity identifier.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent marks required content that arrived empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrUnauthorized marks an operation the caller may not perform.
	ErrUnauthorized = errors.New("unauthorized operation")
)
