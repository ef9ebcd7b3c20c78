package fakeapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/auth/jwt"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/logx"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/req"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/resp"
)

const (
	msgBadCredentials   = "Unable to log in with provided credentials."
	msgNoCredentials    = "Authentication credentials were not provided."
	msgInvalidToken     = "Invalid token."
	msgPermissionDenied = "You do not have permission to perform this action."
	msgNotFound         = "Not found."
	msgInvalidPage      = "Invalid page."
	msgRequired         = "This field is required."
	msgAlreadyHave      = "You have already checked out this book."
	msgUnavailable      = "This book is not available for checkout."
)

// record logs the request, applies the injected delay and, if one is set, the injected failure.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Route:         route,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get(logx.RequestIDHeader),
		})
		delay := s.delay
		failure, failing := s.failures[route]
		s.mu.Unlock()

		if delay != nil {
			if d := delay(r); d > 0 {
				select {
				case <-time.After(d):
				case <-r.Context().Done():
					return
				}
			}
		}

		if failing {
			resp.RespondJSON(w, r, failure.Status, failure.Payload)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type userHandler func(w http.ResponseWriter, r *http.Request, user library.User)

// authenticated rejects anonymous, revoked and unknown-user requests with 401.
func (s *Server) authenticated(h userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			resp.RespondDetail(w, r, http.StatusUnauthorized, msgNoCredentials)
			return
		}

		payload := jwt.GetPayloadFromContext(r)
		_, token, _ := jwt.ParseAuthorization(header)

		s.mu.Lock()
		_, revoked := s.revoked[token]
		var acc *account
		if payload != nil {
			acc = s.accounts[payload.Username]
		}
		s.mu.Unlock()

		if payload == nil || revoked || acc == nil || acc.user.ID != payload.UserID {
			resp.RespondDetail(w, r, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		h(w, r, acc.user)
	}
}

// librarian additionally requires the librarian role, answering 403 otherwise.
func (s *Server) librarian(h userHandler) http.HandlerFunc {
	return s.authenticated(func(w http.ResponseWriter, r *http.Request, user library.User) {
		if user.Role != library.RoleLibrarian {
			resp.RespondDetail(w, r, http.StatusForbidden, msgPermissionDenied)
			return
		}
		h(w, r, user)
	})
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleTokenAuth(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if customErr := req.BindJSON(w, r, &input); customErr != nil {
		resp.RespondError(w, r, customErr)
		return
	}

	fields := map[string][]string{}
	if input.Username == "" {
		fields["username"] = []string{msgRequired}
	}
	if input.Password == "" {
		fields["password"] = []string{msgRequired}
	}
	if len(fields) > 0 {
		resp.RespondFieldErrors(w, r, fields)
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[input.Username]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(input.Password)) != nil {
		resp.RespondNonFieldError(w, r, msgBadCredentials)
		return
	}

	resp.RespondJSON(w, r, http.StatusOK, map[string]string{"token": s.mint(acc.user, jwt.SessionExpiration)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, user library.User) {
	resp.RespondJSON(w, r, http.StatusOK, user)
}

// pagination parses page and page_size the way the REST framework does.
func pagination(q url.Values) (page, size int, ok bool) {
	page, size = 1, DefaultPageSize

	if v := q.Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			return 0, 0, false
		}
		page = p
	}
	if v := q.Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			size = min(n, 1000)
		}
	}
	return page, size, true
}

func paginate[T any](r *http.Request, items []T, page, size int) (library.Page[T], bool) {
	count := len(items)
	pages := max(1, (count+size-1)/size)
	if page > pages {
		return library.Page[T]{}, false
	}

	start := (page - 1) * size
	end := min(start+size, count)

	link := func(p int) *string {
		u := url.URL{Scheme: "http", Host: r.Host, Path: r.URL.Path}
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(p))
		u.RawQuery = q.Encode()
		s := u.String()
		return &s
	}

	out := library.Page[T]{Count: count, Results: append([]T{}, items[start:end]...)}
	if page < pages {
		out.Next = link(page + 1)
	}
	if page > 1 {
		out.Previous = link(page - 1)
	}
	return out, true
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// viewBookLocked fills the per-user derived fields of b.
func (s *Server) viewBookLocked(b library.Book, userID int64) library.Book {
	active := 0
	mine := false
	for _, l := range s.loans {
		if l.bookID == b.ID && !l.returned {
			active++
			if l.userID == userID {
				mine = true
			}
		}
	}
	b.CheckedOutCount = active
	b.Available = b.Stock - active
	b.IsCheckedOutByUser = mine
	return b
}

func (s *Server) findBookLocked(id int64) (library.Book, bool) {
	for _, b := range s.books {
		if b.ID == id {
			return b, true
		}
	}
	return library.Book{}, false
}

func (s *Server) findUserLocked(id int64) (library.User, bool) {
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			return acc.user, true
		}
	}
	return library.User{}, false
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request, user library.User) {
	q := r.URL.Query()
	page, size, ok := pagination(q)
	if !ok {
		resp.RespondDetail(w, r, http.StatusNotFound, msgInvalidPage)
		return
	}
	search := q.Get("search")

	s.mu.Lock()
	var books []library.Book
	for _, b := range s.books {
		if matches(search, b.Title, b.Author, b.Genre) {
			books = append(books, s.viewBookLocked(b, user.ID))
		}
	}
	s.mu.Unlock()

	out, ok := paginate(r, books, page, size)
	if !ok {
		resp.RespondDetail(w, r, http.StatusNotFound, msgInvalidPage)
		return
	}
	resp.RespondJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request, _ library.User) {
	var input library.NewBook
	if customErr := req.BindJSON(w, r, &input); customErr != nil {
		resp.RespondError(w, r, customErr)
		return
	}

	fields := map[string][]string{}
	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = []string{msgRequired}
	}
	if strings.TrimSpace(input.Author) == "" {
		fields["author"] = []string{msgRequired}
	}
	if strings.TrimSpace(input.Genre) == "" {
		fields["genre"] = []string{msgRequired}
	}
	if input.PublishedYear <= 0 {
		fields["published_year"] = []string{"A valid integer is required."}
	}
	if input.Stock < 0 {
		fields["stock"] = []string{"Ensure this value is greater than or equal to 0."}
	}
	if len(fields) > 0 {
		resp.RespondFieldErrors(w, r, fields)
		return
	}

	s.mu.Lock()
	book := s.addBookLocked(input)
	s.mu.Unlock()

	resp.RespondJSON(w, r, http.StatusCreated, book)
}

func (s *Server) checkoutViewLocked(l *loan, withStudent bool) library.Checkout {
	book, _ := s.findBookLocked(l.bookID)
	c := library.Checkout{
		ID:           l.id,
		Book:         s.viewBookLocked(book, l.userID),
		CheckoutDate: library.Timestamp{Time: l.date},
	}
	if withStudent {
		if u, ok := s.findUserLocked(l.userID); ok {
			c.Student = &u
		}
	}
	return c
}

func (s *Server) handleListCheckouts(w http.ResponseWriter, r *http.Request, user library.User) {
	q := r.URL.Query()
	page, size, ok := pagination(q)
	if !ok {
		resp.RespondDetail(w, r, http.StatusNotFound, msgInvalidPage)
		return
	}
	search := q.Get("search")
	isLibrarian := user.Role == library.RoleLibrarian

	s.mu.Lock()
	var items []library.Checkout
	for _, l := range s.loans {
		if l.returned || (!isLibrarian && l.userID != user.ID) {
			continue
		}
		c := s.checkoutViewLocked(l, isLibrarian)
		fields := []string{c.Book.Title, c.Book.Author}
		if c.Student != nil {
			fields = append(fields, c.Student.Username, c.Student.FirstName, c.Student.LastName)
		}
		if matches(search, fields...) {
			items = append(items, c)
		}
	}
	s.mu.Unlock()

	out, ok := paginate(r, items, page, size)
	if !ok {
		resp.RespondDetail(w, r, http.StatusNotFound, msgInvalidPage)
		return
	}
	resp.RespondJSON(w, r, http.StatusOK, out)
}

type checkoutInput struct {
	Book *int64 `json:"book"`
}

func (s *Server) handleCreateCheckout(w http.ResponseWriter, r *http.Request, user library.User) {
	var input checkoutInput
	if customErr := req.BindJSON(w, r, &input); customErr != nil {
		resp.RespondError(w, r, customErr)
		return
	}
	if input.Book == nil {
		resp.RespondFieldErrors(w, r, map[string][]string{"book": {msgRequired}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.findBookLocked(*input.Book)
	if !ok {
		resp.RespondFieldErrors(w, r, map[string][]string{
			"book": {fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *input.Book)},
		})
		return
	}

	view := s.viewBookLocked(book, user.ID)
	if view.IsCheckedOutByUser {
		resp.RespondNonFieldError(w, r, msgAlreadyHave)
		return
	}
	if view.Available <= 0 {
		resp.RespondDetail(w, r, http.StatusBadRequest, msgUnavailable)
		return
	}

	s.nextID++
	l := &loan{id: s.nextID, userID: user.ID, bookID: book.ID, date: s.now().UTC()}
	s.loans = append(s.loans, l)

	resp.RespondJSON(w, r, http.StatusCreated, s.checkoutViewLocked(l, false))
}

func (s *Server) handleReturnBook(w http.ResponseWriter, r *http.Request, _ library.User) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		resp.RespondDetail(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.loans {
		if l.id == id && !l.returned {
			l.returned = true
			resp.RespondJSON(w, r, http.StatusOK, map[string]string{"status": "book returned"})
			return
		}
	}
	resp.RespondDetail(w, r, http.StatusNotFound, msgNotFound)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request, _ library.User) {
	var input library.NewUser
	if customErr := req.BindJSON(w, r, &input); customErr != nil {
		resp.RespondError(w, r, customErr)
		return
	}

	fields := map[string][]string{}
	if strings.TrimSpace(input.Username) == "" {
		fields["username"] = []string{msgRequired}
	}
	if input.Password == "" {
		fields["password"] = []string{msgRequired}
	}
	if input.Role == "" {
		input.Role = library.RoleStudent
	}
	if !input.Role.Valid() {
		fields["role"] = []string{fmt.Sprintf("%q is not a valid choice.", input.Role)}
	}

	s.mu.Lock()
	_, taken := s.accounts[input.Username]
	s.mu.Unlock()
	if taken {
		fields["username"] = []string{"A user with that username already exists."}
	}

	if len(fields) > 0 {
		resp.RespondFieldErrors(w, r, fields)
		return
	}

	created := s.AddUser(library.User{
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Role:      input.Role,
	}, input.Password)

	resp.RespondJSON(w, r, http.StatusCreated, created)
}
