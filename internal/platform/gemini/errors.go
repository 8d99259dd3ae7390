package gemini

import "errors"

// Common errors returned by the gemini package
var (
	// ErrInvalidClassification is returned when the model produced output
	// outside the expected closed set or shape. Re-sending the same prompt
	// will most likely reproduce the same invalid output, so this error is
	// never retried by the transport retry wrapper.
	ErrInvalidClassification = errors.New("identification invalid")

	// ErrInvalidResponse is returned when the API response carries no
	// usable content (nil response, no candidates, empty parts).
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content due
	// to safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for transport-level failures that may
	// resolve on retry.
	ErrTransientFailure = errors.New("transient language model error")

	// ErrInvalidConfig is returned when the classifier configuration is invalid.
	ErrInvalidConfig = errors.New("invalid classifier configuration")

	// ErrEmptyInput is returned when the input to classify is empty.
	ErrEmptyInput = errors.New("input cannot be empty")
)

// IsTransient reports whether the error is a transport failure worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientFailure)
}
