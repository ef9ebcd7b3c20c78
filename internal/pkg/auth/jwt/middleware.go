package jwt

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	// ContextAuthPayloadKey is the key used to store the parsed Payload in the request Context.
	ContextAuthPayloadKey contextKey = "auth_payload"

	// SchemeToken is the authorization scheme of DRF TokenAuthentication.
	SchemeToken = "Token"

	// SchemeBearer is the OAuth2 bearer authorization scheme.
	SchemeBearer = "Bearer"
)

// FormatAuthorization renders an Authorization header value.
func FormatAuthorization(scheme, token string) string {
	return scheme + " " + token
}

// ParseAuthorization splits an Authorization header value into scheme and token.
// Both the Token and Bearer schemes are accepted, case-insensitively.
func ParseAuthorization(header string) (scheme, token string, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
		return "", "", false
	}

	switch {
	case strings.EqualFold(parts[0], SchemeToken):
		return SchemeToken, strings.TrimSpace(parts[1]), true
	case strings.EqualFold(parts[0], SchemeBearer):
		return SchemeBearer, strings.TrimSpace(parts[1]), true
	default:
		return "", "", false
	}
}

// IdentityExtractorMiddleware extracts and validates a JWT from the Authorization header.
// It injects the Payload into the Context upon success. It does NOT interrupt the request
// on failure or missing token; handlers decide whether anonymous access is allowed.
func IdentityExtractorMiddleware(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, tokenString, ok := ParseAuthorization(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			payload, err := ParseToken(tokenString, secretKey)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextAuthPayloadKey, payload)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPayloadFromContext extracts the authenticated Payload from the request Context.
// A nil return means the caller is anonymous.
func GetPayloadFromContext(r *http.Request) *Payload {
	payload, ok := r.Context().Value(ContextAuthPayloadKey).(*Payload)

	if !ok {
		return nil
	}

	return payload
}
