// Package serviceerr classifies failed backend calls into a stable set of error kinds.
package serviceerr

import (
	"errors"
	"net/http"
)

// Code is a stable categorical label derived from an HTTP status.
type Code string

const (
	CodeBadRequest       Code = "bad_request"
	CodeUnauthorized     Code = "unauthorized"
	CodeForbidden        Code = "forbidden"
	CodeNotFound         Code = "not_found"
	CodeConflict         Code = "conflict"
	CodeValidationFailed Code = "validation_failed"
	CodeServerError      Code = "server_error"
	CodeUnavailable      Code = "unavailable"
	CodeNetworkError     Code = "network_error"

	// Custom codes
	CodeSessionExpired Code = "session_expired"
	CodeUnknown        Code = "unknown"
)

var defaultMessages = map[Code]string{
	CodeBadRequest:       "the request was invalid",
	CodeUnauthorized:     "authentication is required",
	CodeForbidden:        "you do not have permission to perform this action",
	CodeNotFound:         "the requested resource was not found",
	CodeConflict:         "the resource already exists or was modified",
	CodeValidationFailed: "the submitted data failed validation",
	CodeServerError:      "the server encountered an error",
	CodeUnavailable:      "the service is temporarily unavailable",
	CodeNetworkError:     "the service could not be reached",
	CodeSessionExpired:   "your session has expired, please log in again",
	CodeUnknown:          "an unexpected error occurred",
}

// Error is a classified failure. Description is the human-readable message
// surfaced to the user, Status the HTTP status it was derived from (zero when
// no response was received).
type Error struct {
	Err         Code
	Description string
	Status      int

	cause error
}

var (
	ErrBadRequest       = &Error{Err: CodeBadRequest}
	ErrUnauthorized     = &Error{Err: CodeUnauthorized}
	ErrForbidden        = &Error{Err: CodeForbidden}
	ErrNotFound         = &Error{Err: CodeNotFound, Description: "not found"}
	ErrConflict         = &Error{Err: CodeConflict, Description: "already exists"}
	ErrValidationFailed = &Error{Err: CodeValidationFailed}
	ErrServerError      = &Error{Err: CodeServerError}
	ErrUnavailable      = &Error{Err: CodeUnavailable}
	ErrNetwork          = &Error{Err: CodeNetworkError}

	ErrSessionExpired = &Error{Err: CodeSessionExpired, Description: "session expired"}
	ErrUnknown        = &Error{Err: CodeUnknown, Description: "unknown error"}
)

func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Err)
	}

	return string(e.Err) + ": " + e.Description
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports a match on the error code, so errors.Is(err, ErrNotFound) holds
// for every not-found error regardless of its description.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Err == e.Err
}

// Message returns the description, or the default message of the code.
func (e *Error) Message() string {
	if e.Description != "" {
		return e.Description
	}

	return DefaultMessage(e.Err)
}

// HTTPStatus returns the canonical HTTP status for the code.
func (e *Error) HTTPStatus() int {
	switch e.Err {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeSessionExpired:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeValidationFailed:
		return http.StatusUnprocessableEntity
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeNetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CodeFromStatus maps an HTTP status to its error code.
func CodeFromStatus(status int) Code {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusUnprocessableEntity:
		return CodeValidationFailed
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return CodeUnavailable
	}

	switch {
	case status >= 400 && status < 500:
		return CodeBadRequest
	case status >= 500:
		return CodeServerError
	default:
		return CodeUnknown
	}
}

// FromStatus classifies a non-2xx response. An empty message falls back to
// the default message of the resulting code.
func FromStatus(status int, message string) *Error {
	code := CodeFromStatus(status)
	if message == "" {
		message = DefaultMessage(code)
	}

	return &Error{Err: code, Description: message, Status: status}
}

// Network wraps a transport failure.
func Network(cause error) *Error {
	msg := DefaultMessage(CodeNetworkError)
	if cause != nil {
		msg = cause.Error()
	}

	return &Error{Err: CodeNetworkError, Description: msg, cause: cause}
}

// SessionExpired wraps the reason an unrecoverable authentication failure ended the session.
func SessionExpired(cause error) *Error {
	return &Error{Err: CodeSessionExpired, Description: DefaultMessage(CodeSessionExpired), Status: http.StatusUnauthorized, cause: cause}
}

func DefaultMessage(code Code) string {
	if msg, ok := defaultMessages[code]; ok {
		return msg
	}

	return defaultMessages[CodeUnknown]
}

// CodeOf extracts the code of a classified error, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Err
	}

	return CodeUnknown
}
