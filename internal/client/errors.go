package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind is the coarse category of a failed operation
type Kind int

const (
	KindUnreachable Kind = iota + 1
	KindUnauthorized
	KindBadRequest
	KindServerError
	KindDecode
)

// String returns the display name of the kind
func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "Unreachable"
	case KindUnauthorized:
		return "Unauthorized"
	case KindBadRequest:
		return "BadRequest"
	case KindServerError:
		return "ServerError"
	case KindDecode:
		return "Decode"
	default:
		return "Unknown"
	}
}

// Error is the single error type returned by every client operation
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status code, 0 when no response was received
	Status int
	// ErrorNum is the ArangoDB error number when the server sent one
	ErrorNum int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError normalizes any error into an *Error. Errors that are not already
// client errors are reported as ServerError.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr
	}
	return &Error{Kind: KindServerError, Message: err.Error(), Err: err}
}

// IsKind reports whether err is a client error of the given kind
func IsKind(err error, kind Kind) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Kind == kind
}

// arangoError is the error body ArangoDB sends with non-2xx responses
type arangoError struct {
	Error        bool   `json:"error"`
	Code         int    `json:"code"`
	ErrorNum     int    `json:"errorNum"`
	ErrorMessage string `json:"errorMessage"`
}

// kindForStatus maps an HTTP status code to an error kind
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status >= 400 && status < 500:
		return KindBadRequest
	default:
		return KindServerError
	}
}

// statusError builds an *Error from a non-2xx response
func statusError(status int, body []byte) *Error {
	e := &Error{
		Kind:    kindForStatus(status),
		Status:  status,
		Message: fmt.Sprintf("server returned %d %s", status, http.StatusText(status)),
	}

	var aerr arangoError
	if err := json.Unmarshal(body, &aerr); err == nil && aerr.ErrorMessage != "" {
		e.ErrorNum = aerr.ErrorNum
		e.Message = aerr.ErrorMessage
	}

	if e.Kind == KindUnauthorized && e.ErrorNum == 0 {
		e.Message = "Authentication failed - check username and password"
	}

	return e
}

// transportError wraps a failure that happened before a response was read
func transportError(err error) *Error {
	return &Error{
		Kind:    KindUnreachable,
		Message: categorizeError(err),
		Err:     err,
	}
}

// decodeError wraps a response body that could not be parsed
func decodeError(what string, err error) *Error {
	return &Error{
		Kind:    KindDecode,
		Message: fmt.Sprintf("failed to parse %s response: %v", what, err),
		Err:     err,
	}
}
