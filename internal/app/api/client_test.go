package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/api"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
)

type recorded struct {
	method, path, query, auth, requestID, contentType, body string
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, func() []recorded) {
	t.Helper()

	var (
		mu  sync.Mutex
		got []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = append(got, recorded{
			method:      r.Method,
			path:        r.URL.Path,
			query:       r.URL.RawQuery,
			auth:        r.Header.Get("Authorization"),
			requestID:   r.Header.Get("X-Request-ID"),
			contentType: r.Header.Get("Content-Type"),
			body:        string(b),
		})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), got...)
	}
}

func Test_Client_GetAttachesCredentialAndDecodes(t *testing.T) {
	// arrange
	srv, requests := newServer(t, http.StatusOK, `{"id": 3, "username": "ada"}`)
	client, err := api.New(srv.URL+"/api/", api.WithRateLimit(100, 10))
	require.NoError(t, err)
	client.SetAuthToken("abc")

	// act
	var dst struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
	}
	err = client.Get(context.Background(), "/books/", url.Values{"search": {"go lang"}, "page": {"2"}}, &dst)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, dst.ID)
	assert.Equal(t, "ada", dst.Username)

	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodGet, got[0].method)
	assert.Equal(t, "/api/books/", got[0].path)
	assert.Equal(t, "page=2&search=go+lang", got[0].query)
	assert.Equal(t, "Token abc", got[0].auth)
	assert.NotEmpty(t, got[0].requestID)
}

func Test_Client_WithTokenOverridesCredentialForOneRequest(t *testing.T) {
	srv, requests := newServer(t, http.StatusOK, `{}`)
	client, err := api.New(srv.URL, api.WithAuthScheme("Bearer"))
	require.NoError(t, err)

	require.NoError(t, client.Get(context.Background(), "me/", nil, nil, api.WithToken("fresh")))
	require.NoError(t, client.Get(context.Background(), "me/", nil, nil))

	got := requests()
	require.Len(t, got, 2)
	assert.Equal(t, "Bearer fresh", got[0].auth)
	assert.Empty(t, got[1].auth)
	assert.Empty(t, client.AuthToken())
}

func Test_Client_PostEncodesJSON(t *testing.T) {
	srv, requests := newServer(t, http.StatusCreated, `{"id": 9}`)
	client, err := api.New(srv.URL)
	require.NoError(t, err)

	var dst map[string]any
	require.NoError(t, client.Post(context.Background(), "/checkouts/", map[string]int{"book": 7}, &dst))

	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, "application/json", got[0].contentType)
	assert.JSONEq(t, `{"book": 7}`, got[0].body)
	assert.EqualValues(t, 9, dst["id"])
}

func Test_Client_ErrorResponsesCarryPayload(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    int
		message string
	}{
		{"bad credentials", http.StatusBadRequest, `{"non_field_errors": ["Unable to log in with provided credentials."]}`, errs.ErrValidation, "Unable to log in with provided credentials."},
		{"invalid token", http.StatusUnauthorized, `{"detail": "Invalid token."}`, errs.ErrAuthentication, "Invalid token."},
		{"top level list", http.StatusBadRequest, `["No copies left."]`, errs.ErrValidation, "No copies left."},
		{"html error page", http.StatusBadGateway, `<html>bad gateway</html>`, errs.ErrRequestFailed, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.body)
			client, err := api.New(srv.URL)
			require.NoError(t, err)

			err = client.Post(context.Background(), "/token-auth/", map[string]string{"username": "x"}, nil)

			require.Error(t, err)
			assert.Equal(t, tt.code, errs.CodeOf(err))
			assert.Equal(t, tt.message, errs.MessageFrom(err, "fallback"))

			var ce *errs.CustomError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.status, ce.Status)
		})
	}
}

func Test_Client_InvalidJSONResponse(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"id": `)
	client, err := api.New(srv.URL)
	require.NoError(t, err)

	var dst map[string]any
	err = client.Get(context.Background(), "/me/", nil, &dst)
	assert.Equal(t, errs.ErrInvalidResponse, errs.CodeOf(err))
}

func Test_Client_NetworkError(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`)
	base := srv.URL
	srv.Close()

	client, err := api.New(base)
	require.NoError(t, err)

	err = client.Get(context.Background(), "/me/", nil, nil)
	assert.True(t, errs.IsNetwork(err))
	assert.Equal(t, errs.ErrNetwork, errs.CodeOf(err))
}

func Test_Client_CanceledContext(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`)
	client, err := api.New(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = client.Get(ctx, "/me/", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_New_RejectsRelativeBaseURL(t *testing.T) {
	_, err := api.New("/api")
	assert.Equal(t, errs.ErrInvalidRequest, errs.CodeOf(err))
}
