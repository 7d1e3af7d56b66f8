package apperr

import (
	"errors"
	"fmt"
)

// Error codes surfaced in result envelopes and mapped to HTTP statuses.
const (
	CodeValidationFailed      = "VALIDATION_FAILED"
	CodeNoCompetitionSelected = "NO_COMPETITION_SELECTED"
	CodeNoData                = "NO_DATA"
	CodeNotFound              = "NOT_FOUND"
	CodeForbidden             = "FORBIDDEN"
	CodeConflict              = "CONFLICT"
	CodeBackend               = "BACKEND_ERROR"
	CodeStorage               = "STORAGE_ERROR"
	CodeInternal              = "INTERNAL_ERROR"
)

// Messages shared by every service.
const (
	MsgNoData                = "No data returned from API"
	MsgNoCompetitionSelected = "No competition selected"
)

// Error is a coded application error. Message is what callers see; Err keeps the cause.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without a cause.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error around cause.
func Wrap(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Err: cause}
}

// Validation returns a VALIDATION_FAILED error with a formatted message.
func Validation(format string, args ...any) *Error {
	return &Error{Code: CodeValidationFailed, Message: fmt.Sprintf(format, args...)}
}

// NoCompetitionSelected is returned by competition-scoped operations when no competition id is given.
func NoCompetitionSelected() *Error {
	return &Error{Code: CodeNoCompetitionSelected, Message: MsgNoCompetitionSelected}
}

// NoData reports a remote call that succeeded without returning anything.
func NoData() *Error {
	return &Error{Code: CodeNoData, Message: MsgNoData}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
