package assist

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned before any model call when no credential is configured.
	ErrMissingAPIKey = errors.New("AI API key is not configured")
	// ErrBusy is returned when an assist is already running for the same scope.
	ErrBusy = errors.New("an assist operation is already in progress")
	// ErrUnknownKind is returned for task names that do not exist.
	ErrUnknownKind = errors.New("unknown assist kind")
	// ErrMissingInput is returned when a task's required input is empty.
	ErrMissingInput = errors.New("assist input is empty")
	// ErrNotApplicable is returned when applying an advice result.
	ErrNotApplicable = errors.New("assist result cannot be applied")
)

// ParseError reports a model response that could not be turned into the
// task's expected shape. Raw keeps the full response so it can be shown to
// the user for manual copying.
type ParseError struct {
	Kind Kind
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s response: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingKeysError lists the required response keys that were absent.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("response is missing required keys: %v", e.Keys)
}
