package library

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/api"
)

// Endpoint paths relative to the API root.
const (
	PathTokenAuth = "/token-auth/"
	PathMe        = "/me/"
	PathBooks     = "/books/"
	PathCheckouts = "/checkouts/"
	PathUsers     = "/users/"
)

// Query selects one page of a search listing.
type Query struct {
	Search   string
	Page     int
	PageSize int
}

// Values renders q as the query string the backend expects.
// search is always sent, possibly empty.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("search", q.Search)
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}

// Service binds the library REST endpoints to a Client.
type Service struct {
	client *api.Client
}

// NewService returns a Service using client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Client returns the underlying API client.
func (s *Service) Client() *api.Client {
	return s.client
}

type tokenResponse struct {
	Token string `json:"token"`
}

// ObtainToken exchanges credentials for a token. It does not touch the client credential.
func (s *Service) ObtainToken(ctx context.Context, username, password string) (string, error) {
	var res tokenResponse
	err := s.client.Post(ctx, PathTokenAuth, map[string]string{
		"username": username,
		"password": password,
	}, &res)
	if err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", fmt.Errorf("token-auth response carried no token")
	}
	return res.Token, nil
}

// Me returns the user owning the credential. opts may carry a request-scoped token.
func (s *Service) Me(ctx context.Context, opts ...api.RequestOption) (User, error) {
	var u User
	err := s.client.Get(ctx, PathMe, nil, &u, opts...)
	return u, err
}

// Books lists the catalogue page selected by q.
func (s *Service) Books(ctx context.Context, q Query) (Page[Book], error) {
	var p Page[Book]
	err := s.client.Get(ctx, PathBooks, q.Values(), &p)
	return p, err
}

// Checkouts lists active loans: the caller's own for a student, all of them for a librarian.
func (s *Service) Checkouts(ctx context.Context, q Query) (Page[Checkout], error) {
	var p Page[Checkout]
	err := s.client.Get(ctx, PathCheckouts, q.Values(), &p)
	return p, err
}

// Checkout borrows the book with id bookID.
func (s *Service) Checkout(ctx context.Context, bookID int64) (Checkout, error) {
	var c Checkout
	err := s.client.Post(ctx, PathCheckouts, map[string]int64{"book": bookID}, &c)
	return c, err
}

// Return marks the loan with id checkoutID as returned.
func (s *Service) Return(ctx context.Context, checkoutID int64) error {
	return s.client.Post(ctx, fmt.Sprintf("%s%d/return_book/", PathCheckouts, checkoutID), nil, nil)
}

// AddBook creates a catalogue entry.
func (s *Service) AddBook(ctx context.Context, b NewBook) (Book, error) {
	var created Book
	err := s.client.Post(ctx, PathBooks, b, &created)
	return created, err
}

// AddUser creates a user account.
func (s *Service) AddUser(ctx context.Context, u NewUser) (User, error) {
	var created User
	err := s.client.Post(ctx, PathUsers, u, &created)
	return created, err
}
