package console

import "errors"

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorConflict     ErrorCode = "conflict"
	ErrorUnauthorized ErrorCode = "unauthorized"
	ErrorUpstream     ErrorCode = "upstream"
)

// ConsoleError carries a human-readable message for the status banner plus a
// coarse code the web layer maps to an HTTP status. Every failure in the
// console reduces to one of these; none is fatal to the page.
type ConsoleError struct {
	Code    ErrorCode
	Message string
}

func (e *ConsoleError) Error() string { return e.Message }

func NewInvalidError(msg string) error  { return &ConsoleError{Code: ErrorInvalid, Message: msg} }
func NewNotFoundError(msg string) error { return &ConsoleError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error { return &ConsoleError{Code: ErrorConflict, Message: msg} }

func NewUnauthorizedError(msg string) error {
	return &ConsoleError{Code: ErrorUnauthorized, Message: msg}
}

func AsConsoleError(err error) (*ConsoleError, bool) {
	var ce *ConsoleError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
