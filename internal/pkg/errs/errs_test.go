package errs_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
)

func Test_ExtractMessage_Precedence(t *testing.T) {
	fallback := "Failed to checkout book."

	tests := []struct {
		name    string
		payload map[string]any
		fields  []string
		want    string
	}{
		{
			name:    "detail wins over everything",
			payload: map[string]any{"detail": "Not available.", "non_field_errors": []any{"other"}},
			want:    "Not available.",
		},
		{
			name:    "first non_field_errors element",
			payload: map[string]any{"non_field_errors": []any{"Unable to log in with provided credentials.", "second"}},
			want:    "Unable to log in with provided credentials.",
		},
		{
			name:    "extra field as list",
			payload: map[string]any{"book": []any{"You already have this book."}},
			fields:  []string{"book"},
			want:    "You already have this book.",
		},
		{
			name:    "extra field ignored when not requested",
			payload: map[string]any{"book": []any{"You already have this book."}},
			want:    fallback,
		},
		{
			name:    "empty detail falls through",
			payload: map[string]any{"detail": "  ", "non_field_errors": []any{"x"}},
			want:    "x",
		},
		{
			name:    "non-string values are skipped",
			payload: map[string]any{"detail": 42.0},
			want:    fallback,
		},
		{
			name:    "nil payload",
			payload: nil,
			want:    fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errs.ExtractMessage(tt.payload, fallback, tt.fields...))
		})
	}
}

func Test_MessageFrom_UsesPayloadOfWrappedError(t *testing.T) {
	inner := errs.FromStatus(http.StatusBadRequest, map[string]any{"non_field_errors": []any{"bad"}})
	err := errors.Join(errors.New("context"), inner)

	assert.Equal(t, "bad", errs.MessageFrom(err, "fallback"))
	assert.Equal(t, "fallback", errs.MessageFrom(errors.New("plain"), "fallback"))
}

func Test_FromStatus_Classification(t *testing.T) {
	assert.True(t, errs.IsAuthentication(errs.FromStatus(http.StatusUnauthorized, nil)))
	assert.True(t, errs.IsAuthentication(errs.FromStatus(http.StatusForbidden, nil)))
	assert.True(t, errs.IsValidation(errs.FromStatus(http.StatusBadRequest, nil)))
	assert.True(t, errs.IsValidation(errs.FromStatus(http.StatusNotFound, nil)))
	assert.True(t, errs.IsNetwork(errs.FromStatus(http.StatusInternalServerError, nil)))
	assert.True(t, errs.IsNetwork(errs.FromStatus(http.StatusTooManyRequests, nil)))
}

func Test_NewError_FormatsTemplateAndKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := errs.NewError(errs.ErrRequestFailed, 502).Wrap(cause)

	assert.Equal(t, "The library service returned an error (HTTP 502).", err.Message)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, errs.ErrRequestFailed, errs.CodeOf(err))
}

func Test_NewError_UnknownCode(t *testing.T) {
	err := errs.NewError(99999)

	assert.Equal(t, errs.ErrUnknown, err.Code)
	assert.Equal(t, errs.ErrUnknown, errs.CodeOf(errors.New("plain")))
}
