package services

import "errors"

var (
	// ErrUnauthorized covers a missing token, an expired cache entry, a
	// stale entry pointing at a deleted user, and bad login credentials.
	ErrUnauthorized = errors.New("Unauthorized")

	// ErrNotFound covers a missing record and a record owned by someone else.
	ErrNotFound = errors.New("Not found")
)

// ValidationError carries the exact message for the first violated upload
// rule. Validation short-circuits: one request reports one violation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}
