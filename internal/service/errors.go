package service

import (
	"errors"
	"net/http"
)

// Error is a client-facing failure. Message is safe to return to the
// caller; Err keeps the cause for logs.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func badRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func notFound(msg string, err error) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg, Err: err}
}

// AsError unwraps err into a *Error, if it is one
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
