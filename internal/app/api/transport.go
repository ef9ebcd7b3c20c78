package api

import (
	"net/http"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/logx"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/randx"
)

// requestIDTransport stamps every outgoing request with a fresh X-Request-ID
// unless the caller already set one.
func requestIDTransport(next http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get(logx.RequestIDHeader) != "" {
			return next.RoundTrip(r)
		}

		r = r.Clone(r.Context())
		r.Header.Set(logx.RequestIDHeader, randx.RequestID())

		return next.RoundTrip(r)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
