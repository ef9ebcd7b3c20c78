/*
Package resp provides helper functions for sending JSON responses in the library
backend's wire format.

Successful responses are the bare resource. Errors follow the REST framework's
conventions: {"detail": "..."} for request-wide failures, {"non_field_errors": [...]}
for cross-field validation, and {"<field>": [...]} for per-field validation.
*/
package resp

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RespondJSON is a generic response function used to set the Content-Type and send the JSON payload.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(
			err,
			"Error encoding JSON response",
			"http_status", httpStatus,
			"path", r.URL.Path,
		)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondDetail sends {"detail": detail}.
func RespondDetail(w http.ResponseWriter, r *http.Request, httpStatus int, detail string) {
	RespondJSON(w, r, httpStatus, map[string]string{errs.FieldDetail: detail})
}

// RespondFieldErrors sends a 400 with one message list per field.
func RespondFieldErrors(w http.ResponseWriter, r *http.Request, fields map[string][]string) {
	RespondJSON(w, r, http.StatusBadRequest, fields)
}

// RespondNonFieldError sends a 400 {"non_field_errors": [msg]}.
func RespondNonFieldError(w http.ResponseWriter, r *http.Request, msg string) {
	RespondFieldErrors(w, r, map[string][]string{errs.FieldNonFieldErrors: {msg}})
}

// RespondError sends customErr as {"detail": message} with its HTTP status.
// A custom error that already carries a payload sends that payload instead.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	status := customErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	if customErr.Payload != nil {
		RespondJSON(w, r, status, customErr.Payload)
		return
	}
	RespondDetail(w, r, status, customErr.Message)
}
