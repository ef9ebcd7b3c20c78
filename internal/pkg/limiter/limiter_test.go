package limiter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/limiter"
)

func Test_GetLimiter_ReusesLimiterPerHost(t *testing.T) {
	l := limiter.NewHostRateLimiter(rate.Limit(1), 1)

	a := l.GetLimiter("a.example")
	assert.Same(t, a, l.GetLimiter("a.example"))
	assert.NotSame(t, a, l.GetLimiter("b.example"))
}

func Test_Transport_PassesThroughWithinBurst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	l := limiter.NewHostRateLimiter(rate.Limit(1), 2)
	client := &http.Client{Transport: l.Transport(nil)}

	for range 2 {
		res, err := client.Get(srv.URL)
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusNoContent, res.StatusCode)
	}
}

func Test_Transport_AbortsWhenContextEndsWhileWaiting(t *testing.T) {
	l := limiter.NewHostRateLimiter(rate.Limit(0.001), 1)
	rt := l.Transport(http.DefaultTransport)

	// drain the single token
	l.GetLimiter("example.invalid").Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.invalid/", nil)
	require.NoError(t, err)

	_, err = rt.RoundTrip(req)
	require.Error(t, err)
	assert.Equal(t, errs.ErrRateLimited, errs.CodeOf(err))
}
