package nlp

import "errors"

// Common errors returned by the NLP client.
var (
	// ErrTransient is returned for failures that may resolve on retry:
	// connection errors, timeouts, and 5xx responses.
	ErrTransient = errors.New("transient NLP service error")

	// ErrAnalysisFailed is returned when the service responds but the
	// analysis payload is malformed or empty. Retrying the same request
	// will not help, so this is terminal.
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrTranslationFailed is returned when the service responds but the
	// translation payload is malformed or empty.
	ErrTranslationFailed = errors.New("translation failed")
)

// IsTransient reports whether the error is a transient failure that the
// retry wrapper should retry.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
