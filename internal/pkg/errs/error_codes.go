/*
Package errs provides custom error types and application-level error code constants.

These error codes classify every failure the client can observe when talking to the
library backend, so callers can decide between recovering locally (session
validation), rendering an inline status (list fetches), or showing a transient
notification (mutations).
*/
package errs

// 1xxx: Request and Transport Errors
const (
	// ErrNetwork indicates that the request never produced an HTTP response
	// (connection refused, DNS failure, timeout, canceled context).
	ErrNetwork = 1001

	// ErrRequestFailed indicates that the backend answered with an unexpected non-2xx status.
	ErrRequestFailed = 1002

	// ErrInvalidResponse indicates that the response body could not be decoded.
	ErrInvalidResponse = 1003

	// ErrRateLimited indicates that waiting for the client-side rate limiter was aborted.
	ErrRateLimited = 1004

	// ErrInvalidRequest indicates that the request could not be built (bad URL, unencodable body).
	ErrInvalidRequest = 1005
)

// 2xxx: Validation Errors
const (
	// ErrValidation indicates that the backend rejected the submitted payload.
	ErrValidation = 2001

	// ErrNotFound indicates that the addressed record does not exist.
	ErrNotFound = 2002
)

// 3xxx: Authentication and Session Errors
const (
	// ErrAuthentication indicates bad credentials or an invalid/expired session token.
	ErrAuthentication = 3001

	// ErrSessionExpired indicates that the persisted token expired before it was used.
	ErrSessionExpired = 3002

	// ErrForbidden indicates that the session is valid but lacks the required role.
	ErrForbidden = 3003
)

// 5xxx: Internal Errors
const (
	// ErrUnknown represents an unclassified error.
	ErrUnknown = 5000
)
