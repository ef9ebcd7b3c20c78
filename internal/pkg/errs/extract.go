package errs

import (
	"errors"
	"strings"
)

// Well-known fields of the backend's error payloads, in precedence order.
const (
	FieldDetail         = "detail"
	FieldNonFieldErrors = "non_field_errors"
)

// ExtractMessage returns the first human-readable message found in payload:
// "detail", then the first element of "non_field_errors", then each of fields in
// order. A field may hold a string or a list whose first element is a string.
// If nothing matches, fallback is returned.
func ExtractMessage(payload map[string]any, fallback string, fields ...string) string {
	if len(payload) == 0 {
		return fallback
	}

	keys := make([]string, 0, len(fields)+2)
	keys = append(keys, FieldDetail, FieldNonFieldErrors)
	keys = append(keys, fields...)

	for _, key := range keys {
		if msg := firstString(payload[key]); msg != "" {
			return msg
		}
	}
	return fallback
}

// MessageFrom applies ExtractMessage to the payload carried by err.
// Errors without a payload yield fallback.
func MessageFrom(err error, fallback string, fields ...string) string {
	var ce *CustomError
	if !errors.As(err, &ce) {
		return fallback
	}
	return ExtractMessage(ce.Payload, fallback, fields...)
}

func firstString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		if len(val) == 0 {
			return ""
		}
		return firstString(val[0])
	case []string:
		if len(val) == 0 {
			return ""
		}
		return strings.TrimSpace(val[0])
	default:
		return ""
	}
}
