/*
Package fakeapi is an in-memory stand-in for the university library REST backend.

It speaks the same wire format as the real service (token auth, paginated listings,
REST-framework style error payloads) and lets tests inject latency and failures per
route and count the requests each route received.
*/
package fakeapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/crypto/bcrypt"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/auth/jwt"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/logx"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/randx"
)

// DefaultPageSize is used when a listing request carries no page_size.
const DefaultPageSize = 10

type account struct {
	user         library.User
	passwordHash []byte
}

type loan struct {
	id       int64
	userID   int64
	bookID   int64
	date     time.Time
	returned bool
}

// Failure is an injected response.
type Failure struct {
	Status  int
	Payload map[string]any
}

// Request is a recorded incoming request.
type Request struct {
	Route         string
	Query         string
	Authorization string
	RequestID     string
}

// Server is a running fake backend. Close it when done.
type Server struct {
	srv    *httptest.Server
	secret string

	mu       sync.Mutex
	accounts map[string]*account
	books    []library.Book
	loans    []*loan
	revoked  map[string]struct{}
	nextID   int64
	now      func() time.Time

	delay    func(r *http.Request) time.Duration
	failures map[string]Failure
	requests []Request
}

// Option configures a Server.
type Option func(*Server)

// WithSecret sets the token signing secret.
func WithSecret(secret string) Option {
	return func(s *Server) {
		s.secret = secret
	}
}

// WithClock replaces time.Now for checkout dates and token issuance.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New starts a fake backend.
func New(opts ...Option) *Server {
	secret, err := randx.Base62(32)
	if err != nil {
		panic(fmt.Sprintf("fakeapi: generate secret: %v", err))
	}

	s := &Server{
		secret:   secret,
		accounts: make(map[string]*account),
		revoked:  make(map[string]struct{}),
		failures: make(map[string]Failure),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.srv = httptest.NewServer(s.router())
	return s
}

// URL returns the API root, e.g. http://127.0.0.1:PORT/api.
func (s *Server) URL() string {
	return s.srv.URL + "/api"
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", logx.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Use(s.record)
		api.Use(jwt.IdentityExtractorMiddleware(s.secret))

		api.Post("/token-auth/", s.handleTokenAuth)
		api.Get("/me/", s.authenticated(s.handleMe))

		api.Get("/books/", s.authenticated(s.handleListBooks))
		api.Post("/books/", s.librarian(s.handleCreateBook))

		api.Get("/checkouts/", s.authenticated(s.handleListCheckouts))
		api.Post("/checkouts/", s.authenticated(s.handleCreateCheckout))
		api.Post("/checkouts/{id}/return_book/", s.librarian(s.handleReturnBook))

		api.Post("/users/", s.librarian(s.handleCreateUser))
	})

	return r
}

// AddUser registers an account and returns it with its assigned id.
func (s *Server) AddUser(u library.User, password string) library.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("fakeapi: hash password: %v", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	u.ID = s.nextID
	if u.Role == "" {
		u.Role = library.RoleStudent
	}
	s.accounts[u.Username] = &account{user: u, passwordHash: hash}
	return u
}

// AddBook adds a catalogue entry and returns it with its assigned id.
func (s *Server) AddBook(b library.NewBook) library.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addBookLocked(b)
}

func (s *Server) addBookLocked(b library.NewBook) library.Book {
	s.nextID++
	book := library.Book{
		ID:            s.nextID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		Genre:         b.Genre,
		Stock:         b.Stock,
	}
	s.books = append(s.books, book)
	return s.viewBookLocked(book, 0)
}

// AddBooks adds n generated books titled "<prefix> 1".."<prefix> n".
func (s *Server) AddBooks(prefix string, n int) {
	for i := 1; i <= n; i++ {
		s.AddBook(library.NewBook{
			Title:         fmt.Sprintf("%s %d", prefix, i),
			Author:        "Anonymous",
			PublishedYear: 2000,
			Genre:         "Reference",
			Stock:         1,
		})
	}
}

// IssueToken returns a valid token for username without going through /token-auth/.
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	acc, ok := s.accounts[username]
	s.mu.Unlock()
	if !ok {
		panic("fakeapi: unknown user " + username)
	}
	return s.mint(acc.user, jwt.SessionExpiration)
}

// IssueExpiredToken returns a correctly signed token for username that expired an hour ago.
func (s *Server) IssueExpiredToken(username string) string {
	s.mu.Lock()
	acc, ok := s.accounts[username]
	s.mu.Unlock()
	if !ok {
		panic("fakeapi: unknown user " + username)
	}
	return s.mint(acc.user, -time.Hour)
}

// RevokeToken makes token invalid from now on.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = struct{}{}
}

func (s *Server) mint(u library.User, d time.Duration) string {
	token, err := jwt.GenerateToken(&jwt.Payload{
		UserID:   u.ID,
		Username: u.Username,
		Role:     string(u.Role),
	}, s.secret, d)
	if err != nil {
		panic(fmt.Sprintf("fakeapi: sign token: %v", err))
	}
	return token
}

// SetDelay makes every request wait for fn(r) before being served.
// The wait ends early if the client gives up.
func (s *Server) SetDelay(fn func(r *http.Request) time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = fn
}

// Fail makes route (e.g. "POST /checkouts/") answer with f until Recover is called.
func (s *Server) Fail(route string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = f
}

// Recover removes the failure injected for route.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Count returns how many requests route has received.
func (s *Server) Count(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.requests {
		if r.Route == route {
			n++
		}
	}
	return n
}

// Requests returns every recorded request in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Routes returns the distinct routes seen so far, sorted.
func (s *Server) Routes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	for _, r := range s.requests {
		seen[r.Route] = struct{}{}
	}
	routes := make([]string, 0, len(seen))
	for route := range seen {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return routes
}
