/*
Package req provides helper functions for HTTP request parsing and data binding.

It decodes JSON request bodies with the same codec the client uses, rejecting wrong
content types, malformed JSON and trailing content, and reports failures as
*errs.CustomError values that resp can render in the backend's error format.
*/
package req

import (
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MaxBodySize defines the maximum accepted size (1 MB) of a JSON request body.
const MaxBodySize int64 = 1 << 20

// BindJSON attempts to bind the JSON data from the HTTP request body to the destination struct dst.
// An empty body leaves dst untouched.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	if r.ContentLength == 0 && r.Header.Get("Content-Type") == "" {
		return nil
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrValidation).
			WithMessage("Unsupported media type \""+contentType+"\" in request.").
			WithResponse(http.StatusUnsupportedMediaType, nil)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrValidation).WithMessage("JSON parse error.").Wrap(err)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrValidation).WithMessage("JSON parse error: extra content after body.")
	}

	return nil
}
