/*
Package logx provides a structured logging wrapper based on zerolog.

This file contains an http.RoundTripper used by the API client to log the lifecycle
of every outgoing request: method, path, response status, and latency. Query strings
are logged, the Authorization header never is.
*/
package logx

import (
	"net/http"
	"time"
)

// RequestIDHeader is the header carrying the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// Transport wraps next and logs each round trip with a request-scoped logger.
// A nil next falls back to http.DefaultTransport.
func Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next}
}

type loggingTransport struct {
	next http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *loggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	logger := Logger().With().
		Str("component", "api").
		Str("request_id", r.Header.Get(RequestIDHeader)).
		Str("request_method", r.Method).
		Str("request_path", r.URL.Path).
		Str("request_query", r.URL.RawQuery).
		Logger()

	t1 := time.Now()
	res, err := t.next.RoundTrip(r)
	if err != nil {
		logger.Warn().
			Err(err).
			Dur("latency", time.Since(t1)).
			Msg("Request failed")
		return nil, err
	}

	logEvent := logger.Debug()
	if res.StatusCode >= 500 {
		logEvent = logger.Error()
	} else if res.StatusCode >= 400 {
		logEvent = logger.Warn()
	}

	logEvent.
		Int("status", res.StatusCode).
		Int64("bytes", res.ContentLength).
		Dur("latency", time.Since(t1)).
		Msg("Request completed")

	return res, nil
}
