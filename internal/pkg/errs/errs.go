/*
Package errs provides custom error types and application-level error code constants.

This file defines the CustomError struct, which implements the standard Go error interface
and carries a code, a user-facing message, the HTTP status reported by the backend, and
the decoded error payload so that callers can extract the backend's own wording.
*/
package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/logx"
)

// CustomError is the error structure used throughout the client.
type CustomError struct {
	// Code is the error code (see constants definition).
	Code int

	// Message is the user-facing error description.
	Message string

	// Status is the HTTP status code returned by the backend, 0 when no response was received.
	Status int

	// Payload is the decoded JSON error body, if the backend sent one.
	Payload map[string]any

	// Err is the underlying cause.
	Err error
}

// Error implements the standard Go error interface.
func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Error Code %d (HTTP %d): %s: %v", e.Code, e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// Unwrap returns the underlying cause so errors.Is and errors.As see through CustomError.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError constructs a new *CustomError from a predefined error code.
// The optional details are printf-style arguments for the message template.
// An unknown code yields ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	templateErr, ok := errorMap[code]

	if !ok {
		logx.Error(
			fmt.Errorf("attempted to create an error with an unknown code in errorMap"),
			"Unknown error code requested",
			"requested_code", code,
		)

		unknownErr := errorMap[ErrUnknown]
		return &CustomError{
			Code:    unknownErr.Code,
			Message: unknownErr.Message,
			Status:  unknownErr.Status,
		}
	}

	customErr := templateErr

	if len(details) > 0 {
		if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		} else {
			logx.Warn(
				"Details provided for error, but message template has no formatting placeholders. Details ignored.",
				"code", code,
			)
		}
	}

	return &customErr
}

// Wrap records cause as the underlying error and returns e.
func (e *CustomError) Wrap(cause error) *CustomError {
	e.Err = cause
	return e
}

// WithMessage replaces the user-facing message and returns e.
func (e *CustomError) WithMessage(msg string) *CustomError {
	e.Message = msg
	return e
}

// WithResponse records the HTTP status and decoded payload and returns e.
func (e *CustomError) WithResponse(status int, payload map[string]any) *CustomError {
	e.Status = status
	e.Payload = payload
	return e
}

// FromStatus classifies a non-2xx HTTP response.
func FromStatus(status int, payload map[string]any) *CustomError {
	var e *CustomError
	switch {
	case status == http.StatusUnauthorized:
		e = NewError(ErrAuthentication)
	case status == http.StatusForbidden:
		e = NewError(ErrForbidden)
	case status == http.StatusNotFound:
		e = NewError(ErrNotFound)
	case status == http.StatusTooManyRequests:
		e = NewError(ErrRateLimited)
	case status >= 400 && status < 500:
		e = NewError(ErrValidation)
	default:
		e = NewError(ErrRequestFailed, status)
	}
	return e.WithResponse(status, payload)
}

// CodeOf returns the code of the first CustomError in err's chain, or ErrUnknown.
func CodeOf(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrUnknown
}

// IsAuthentication reports whether err is an authentication or session error (3xxx).
func IsAuthentication(err error) bool {
	code := CodeOf(err)
	return code >= 3000 && code < 4000
}

// IsValidation reports whether err is a server-side rejection of the request payload (2xxx).
func IsValidation(err error) bool {
	code := CodeOf(err)
	return code >= 2000 && code < 3000
}

// IsNetwork reports whether err is a transport or server failure (1xxx).
func IsNetwork(err error) bool {
	code := CodeOf(err)
	return code >= 1000 && code < 2000
}
