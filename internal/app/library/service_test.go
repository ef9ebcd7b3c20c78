package library_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/api"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/testutil/fakeapi"
)

type fixture struct {
	backend   *fakeapi.Server
	svc       *library.Service
	student   library.User
	librarian library.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := fakeapi.New()
	t.Cleanup(backend.Close)

	client, err := api.New(backend.URL())
	require.NoError(t, err)

	return &fixture{
		backend:   backend,
		svc:       library.NewService(client),
		student:   backend.AddUser(library.User{Username: "ada", FirstName: "Ada", LastName: "Lovelace", Role: library.RoleStudent}, "pw-ada"),
		librarian: backend.AddUser(library.User{Username: "lib", FirstName: "Head", LastName: "Librarian", Role: library.RoleLibrarian}, "pw-lib"),
	}
}

func (f *fixture) as(username string) {
	f.svc.Client().SetAuthToken(f.backend.IssueToken(username))
}

func Test_Service_ObtainTokenAndMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.svc.ObtainToken(ctx, "ada", "pw-ada")
	require.NoError(t, err)

	me, err := f.svc.Me(ctx, api.WithToken(token))
	require.NoError(t, err)
	assert.Equal(t, f.student, me)
	assert.Equal(t, "Ada Lovelace", me.FullName())

	_, err = f.svc.ObtainToken(ctx, "ada", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Unable to log in with provided credentials.", errs.MessageFrom(err, "fallback"))
}

func Test_Service_BooksPaginationAndSearch(t *testing.T) {
	f := newFixture(t)
	f.backend.AddBooks("Algorithms", 25)
	f.backend.AddBook(library.NewBook{Title: "Dune", Author: "Herbert", PublishedYear: 1965, Genre: "SF", Stock: 2})
	f.as("ada")
	ctx := context.Background()

	page, err := f.svc.Books(ctx, library.Query{Search: "algo", Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Count)
	assert.Len(t, page.Results, 5)
	assert.Nil(t, page.Next)
	assert.NotNil(t, page.Previous)

	page, err = f.svc.Books(ctx, library.Query{Search: "herbert", Page: 1, PageSize: 100})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, 2, page.Results[0].Available)

	_, err = f.svc.Books(ctx, library.Query{Page: 9, PageSize: 10})
	assert.Equal(t, errs.ErrNotFound, errs.CodeOf(err))
}

func Test_Service_CheckoutAndReturn(t *testing.T) {
	f := newFixture(t)
	book := f.backend.AddBook(library.NewBook{Title: "Dune", Author: "Herbert", PublishedYear: 1965, Genre: "SF", Stock: 1})
	ctx := context.Background()

	f.as("ada")
	loan, err := f.svc.Checkout(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, loan.Book.ID)
	assert.WithinDuration(t, time.Now(), loan.CheckoutDate.Time, time.Minute)

	_, err = f.svc.Checkout(ctx, book.ID)
	assert.Equal(t, "You have already checked out this book.", errs.MessageFrom(err, "fallback", "book"))

	_, err = f.svc.Checkout(ctx, 9999)
	assert.Equal(t, `Invalid pk "9999" - object does not exist.`, errs.MessageFrom(err, "fallback", "book"))

	mine, err := f.svc.Checkouts(ctx, library.Query{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, mine.Results, 1)
	assert.Nil(t, mine.Results[0].Student)

	err = f.svc.Return(ctx, loan.ID)
	assert.Equal(t, errs.ErrForbidden, errs.CodeOf(err))

	f.as("lib")
	active, err := f.svc.Checkouts(ctx, library.Query{Search: "lovelace", PageSize: 100})
	require.NoError(t, err)
	require.Len(t, active.Results, 1)
	require.NotNil(t, active.Results[0].Student)
	assert.Equal(t, "ada", active.Results[0].Student.Username)

	require.NoError(t, f.svc.Return(ctx, loan.ID))
	assert.Equal(t, errs.ErrNotFound, errs.CodeOf(f.svc.Return(ctx, loan.ID)))
	assert.Equal(t, 3, f.backend.Count("POST /checkouts/"+itoa(loan.ID)+"/return_book/"))
}

func Test_Service_ManagementEndpoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.as("lib")

	book, err := f.svc.AddBook(ctx, library.NewBook{Title: "SICP", Author: "Abelson", PublishedYear: 1985, Genre: "CS", Stock: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, book.Available)

	user, err := f.svc.AddUser(ctx, library.NewUser{Username: "grace", FirstName: "Grace", LastName: "Hopper", Email: "g@x.edu", Password: "pw", Role: library.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, "grace", user.Username)

	_, err = f.svc.AddUser(ctx, library.NewUser{Username: "grace", Password: "pw"})
	assert.Equal(t, "A user with that username already exists.", errs.MessageFrom(err, "fallback", "username"))

	f.as("ada")
	_, err = f.svc.AddBook(ctx, library.NewBook{Title: "x", Author: "y", PublishedYear: 1, Genre: "z"})
	assert.Equal(t, errs.ErrForbidden, errs.CodeOf(err))
	assert.Equal(t, http.StatusForbidden, statusOf(err))
}
