/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the default CustomError template.
*/
package errs

import "net/http"

// errorMap stores the default CustomError corresponding to every error code.
var errorMap = map[int]CustomError{
	// 1xxx: Request and Transport Errors
	ErrNetwork:         {Code: ErrNetwork, Message: "Unable to reach the library service."},
	ErrRequestFailed:   {Code: ErrRequestFailed, Message: "The library service returned an error (HTTP %d)."},
	ErrInvalidResponse: {Code: ErrInvalidResponse, Message: "Unexpected response from the library service."},
	ErrRateLimited:     {Code: ErrRateLimited, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},
	ErrInvalidRequest:  {Code: ErrInvalidRequest, Message: "Invalid request."},

	// 2xxx: Validation Errors
	ErrValidation: {Code: ErrValidation, Message: "The submitted data was rejected.", Status: http.StatusBadRequest},
	ErrNotFound:   {Code: ErrNotFound, Message: "Record not found.", Status: http.StatusNotFound},

	// 3xxx: Authentication and Session Errors
	ErrAuthentication: {Code: ErrAuthentication, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrSessionExpired: {Code: ErrSessionExpired, Message: "Your session has expired. Please sign in again.", Status: http.StatusUnauthorized},
	ErrForbidden:      {Code: ErrForbidden, Message: "You do not have permission to do that.", Status: http.StatusForbidden},

	// 5xxx: Internal Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again."},
}
