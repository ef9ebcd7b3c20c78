/*
Package limiter provides client-side rate limiting of outgoing requests, keyed by backend host.

It utilizes the Token Bucket algorithm (rate.Limiter). Every request waits for a token
from its host's bucket before it is sent, so a burst of keystrokes or page flips can
never flood the library backend.
*/
package limiter

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
)

// HostRateLimiter implements a rate limiter keyed by request host.
type HostRateLimiter struct {
	// mu protects concurrent access to the limits map.
	mu *sync.RWMutex

	// limits maps a host to its *rate.Limiter. The client talks to a handful of hosts at most,
	// so entries are never evicted.
	limits map[string]*rate.Limiter

	// r is the number of requests allowed per second.
	r rate.Limit

	// b is the burst size of each bucket.
	b int
}

// NewHostRateLimiter creates a new HostRateLimiter with rate r and burst b.
func NewHostRateLimiter(r rate.Limit, b int) *HostRateLimiter {
	return &HostRateLimiter{
		mu:     &sync.RWMutex{},
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
	}
}

// GetLimiter retrieves the limiter for host, creating it on first use.
// It uses double-checked locking for concurrent-safe creation.
func (i *HostRateLimiter) GetLimiter(host string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.limits[host]
	i.mu.RUnlock()

	if !exists {
		i.mu.Lock()
		limiter, exists = i.limits[host]
		if !exists {
			limiter = rate.NewLimiter(i.r, i.b)
			i.limits[host] = limiter
		}
		i.mu.Unlock()
	}

	return limiter
}

// Transport returns an http.RoundTripper that waits for a token before delegating to next.
// If the request context ends while waiting, the request is not sent and an ErrRateLimited error is returned.
func (i *HostRateLimiter) Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		host := r.URL.Host
		if host == "" {
			host = "unknown_host"
		}

		if err := i.GetLimiter(host).Wait(r.Context()); err != nil {
			return nil, errs.NewError(errs.ErrRateLimited).Wrap(err)
		}

		return next.RoundTrip(r)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
