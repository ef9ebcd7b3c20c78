package views_test

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/api"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/listing"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/mutation"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/notify"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/views"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/debounce"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/testutil/fakeapi"
)

type recorder struct {
	mu    sync.Mutex
	shown []notify.Notification
}

func (r *recorder) Show(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, n)
}

func (r *recorder) last(t *testing.T) notify.Notification {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.shown)
	return r.shown[len(r.shown)-1]
}

type fixture struct {
	backend *fakeapi.Server
	svc     *library.Service
	rec     *recorder
	mutator *mutation.Mutator
	clock   *debounce.Manual
}

func newFixture(t *testing.T, role library.Role) *fixture {
	t.Helper()

	backend := fakeapi.New()
	t.Cleanup(backend.Close)

	backend.AddUser(library.User{Username: "reader", FirstName: "Ada", LastName: "Reader", Email: "ada@uni.edu", Role: role}, "pw")

	client, err := api.New(backend.URL())
	require.NoError(t, err)
	client.SetAuthToken(backend.IssueToken("reader"))

	rec := &recorder{}
	return &fixture{
		backend: backend,
		svc:     library.NewService(client),
		rec:     rec,
		mutator: mutation.New(rec),
		clock:   &debounce.Manual{},
	}
}

func (f *fixture) lastQuery(t *testing.T, route string) string {
	t.Helper()
	var q string
	for _, r := range f.backend.Requests() {
		if r.Route == route {
			q = r.Query
		}
	}
	require.NotEmpty(t, q, "no request for %s", route)
	return q
}

func Test_AvailableBooks_LoadsWithScreenPageSize(t *testing.T) {
	// arrange
	f := newFixture(t, library.RoleStudent)
	f.backend.AddBooks("Volume", 3)
	v := views.NewAvailableBooks(f.svc, f.mutator, listing.WithAfterFunc(f.clock.AfterFunc))
	t.Cleanup(v.Close)

	// act
	v.Reload()
	v.Wait()

	// assert
	st := v.State()
	assert.Equal(t, listing.Ready, st.Status)
	assert.Len(t, st.Items, 3)
	assert.Equal(t, 1, st.PageCount)
	assert.Contains(t, f.lastQuery(t, "GET /books/"), "page_size=100")
}

func Test_AvailableBooks_CheckoutReconcilesWithoutRefetch(t *testing.T) {
	// arrange
	f := newFixture(t, library.RoleStudent)
	book := f.backend.AddBook(library.NewBook{Title: "Dune", Author: "Herbert", PublishedYear: 1965, Genre: "SF", Stock: 2})
	v := views.NewAvailableBooks(f.svc, f.mutator)
	t.Cleanup(v.Close)
	v.Reload()
	v.Wait()

	// act
	err := v.Checkout(context.Background(), book.ID)

	// assert
	require.NoError(t, err)
	items := v.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Available)
	assert.True(t, items[0].IsCheckedOutByUser)
	assert.Equal(t, 1, f.backend.Count("GET /books/"))
	assert.Equal(t, notify.Notification{Message: views.CheckoutSuccess, Kind: notify.Success}, f.rec.last(t))
}

func Test_AvailableBooks_CheckoutFailureShowsBackendMessage(t *testing.T) {
	// arrange
	f := newFixture(t, library.RoleStudent)
	book := f.backend.AddBook(library.NewBook{Title: "Dune", Author: "Herbert", PublishedYear: 1965, Genre: "SF", Stock: 0})
	v := views.NewAvailableBooks(f.svc, f.mutator)
	t.Cleanup(v.Close)
	v.Reload()
	v.Wait()

	// act
	err := v.Checkout(context.Background(), book.ID)

	// assert
	require.Error(t, err)
	assert.Equal(t, 0, v.State().Items[0].Available)
	assert.False(t, v.State().Items[0].IsCheckedOutByUser)
	assert.Equal(t, notify.Notification{Message: "This book is not available for checkout.", Kind: notify.Error}, f.rec.last(t))
}

func Test_MyCheckouts_UsesSmallPages(t *testing.T) {
	// arrange
	f := newFixture(t, library.RoleStudent)
	f.backend.AddBooks("Volume", 12)
	books, err := f.svc.Books(context.Background(), library.Query{Page: 1, PageSize: 100})
	require.NoError(t, err)
	for _, b := range books.Results {
		_, err := f.svc.Checkout(context.Background(), b.ID)
		require.NoError(t, err)
	}
	v := views.NewMyCheckouts(f.svc)
	t.Cleanup(v.Close)

	// act
	v.Reload()
	v.Wait()
	ok := v.NextPage()
	v.Wait()

	// assert
	require.True(t, ok)
	st := v.State()
	assert.Equal(t, 2, st.PageCount)
	assert.Equal(t, 2, st.Page)
	assert.Len(t, st.Items, 2)
	assert.Contains(t, f.lastQuery(t, "GET /checkouts/"), "page_size=10")
}

func Test_ActiveCheckouts_ReturnRemovesRow(t *testing.T) {
	// arrange
	f := newFixture(t, library.RoleLibrarian)
	f.backend.AddUser(library.User{Username: "student", Role: library.RoleStudent}, "pw")
	book := f.backend.AddBook(library.NewBook{Title: "Dune", Author: "Herbert", PublishedYear: 1965, Genre: "SF", Stock: 1})

	studentClient, err := api.New(f.backend.URL())
	require.NoError(t, err)
	studentClient.SetAuthToken(f.backend.IssueToken("student"))
	loan, err := library.NewService(studentClient).Checkout(context.Background(), book.ID)
	require.NoError(t, err)

	v := views.NewActiveCheckouts(f.svc, f.mutator)
	t.Cleanup(v.Close)
	v.Reload()
	v.Wait()
	require.Len(t, v.State().Items, 1)

	// act
	err = v.Return(context.Background(), loan.ID)

	// assert
	require.NoError(t, err)
	assert.Empty(t, v.State().Items)
	assert.Equal(t, 1, f.backend.Count("GET /checkouts/"))
	assert.Equal(t, notify.Notification{Message: views.ReturnSuccess, Kind: notify.Success}, f.rec.last(t))
}

func Test_ActiveCheckouts_FailedReturnKeepsRowAndFallsBackToStaticMessage(t *testing.T) {
	// arrange
	f := newFixture(t, library.RoleLibrarian)
	f.backend.AddUser(library.User{Username: "student", Role: library.RoleStudent}, "pw")
	book := f.backend.AddBook(library.NewBook{Title: "Dune", Author: "Herbert", PublishedYear: 1965, Genre: "SF", Stock: 1})

	studentClient, err := api.New(f.backend.URL())
	require.NoError(t, err)
	studentClient.SetAuthToken(f.backend.IssueToken("student"))
	loan, err := library.NewService(studentClient).Checkout(context.Background(), book.ID)
	require.NoError(t, err)

	v := views.NewActiveCheckouts(f.svc, f.mutator)
	t.Cleanup(v.Close)
	v.Reload()
	v.Wait()

	route := "POST /checkouts/" + itoa(loan.ID) + "/return_book/"
	f.backend.Fail(route, fakeapi.Failure{Status: http.StatusBadGateway, Payload: map[string]any{"error": "upstream down"}})

	// act
	err = v.Return(context.Background(), loan.ID)

	// assert
	require.Error(t, err)
	assert.True(t, errs.IsNetwork(err))
	var ce *errs.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusBadGateway, ce.Status, "the backend status survives to the caller")
	assert.Len(t, v.State().Items, 1)
	assert.Equal(t, notify.Notification{Message: views.ReturnFailure, Kind: notify.Error}, f.rec.last(t))
}

func Test_ActiveCheckouts_FailedReturnShowsBackendDetail(t *testing.T) {
	// arrange
	f := newFixture(t, library.RoleLibrarian)
	f.backend.AddUser(library.User{Username: "student", Role: library.RoleStudent}, "pw")
	book := f.backend.AddBook(library.NewBook{Title: "Dune", Author: "Herbert", PublishedYear: 1965, Genre: "SF", Stock: 1})

	studentClient, err := api.New(f.backend.URL())
	require.NoError(t, err)
	studentClient.SetAuthToken(f.backend.IssueToken("student"))
	loan, err := library.NewService(studentClient).Checkout(context.Background(), book.ID)
	require.NoError(t, err)

	v := views.NewActiveCheckouts(f.svc, f.mutator)
	t.Cleanup(v.Close)
	v.Reload()
	v.Wait()

	route := "POST /checkouts/" + itoa(loan.ID) + "/return_book/"
	f.backend.Fail(route, fakeapi.Failure{Status: http.StatusBadRequest, Payload: map[string]any{"detail": "This checkout was already returned."}})

	// act
	err = v.Return(context.Background(), loan.ID)

	// assert
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Len(t, v.State().Items, 1)
	assert.Equal(t, notify.Notification{Message: "This checkout was already returned.", Kind: notify.Error}, f.rec.last(t))
}

func Test_BookInventory_SearchIsDebounced(t *testing.T) {
	// arrange
	f := newFixture(t, library.RoleLibrarian)
	f.backend.AddBook(library.NewBook{Title: "Go in Action", Author: "Kennedy", PublishedYear: 2015, Genre: "CS", Stock: 1})
	f.backend.AddBook(library.NewBook{Title: "Dune", Author: "Herbert", PublishedYear: 1965, Genre: "SF", Stock: 1})
	v := views.NewBookInventory(f.svc, listing.WithAfterFunc(f.clock.AfterFunc))
	t.Cleanup(v.Close)
	v.Reload()
	v.Wait()

	// act
	v.SetQuery("d")
	v.SetQuery("du")
	v.SetQuery("dune")
	before := f.backend.Count("GET /books/")
	f.clock.Fire()
	v.Wait()

	// assert
	assert.Equal(t, 1, before)
	assert.Equal(t, 2, f.backend.Count("GET /books/"))
	st := v.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, "Dune", st.Items[0].Title)
	assert.Contains(t, f.lastQuery(t, "GET /books/"), "search=dune")
}

func Test_BookInventory_FailureShowsScreenMessage(t *testing.T) {
	// arrange
	f := newFixture(t, library.RoleLibrarian)
	f.backend.Fail("GET /books/", fakeapi.Failure{Status: http.StatusInternalServerError})
	v := views.NewBookInventory(f.svc)
	t.Cleanup(v.Close)

	// act
	v.Reload()
	v.Wait()

	// assert
	st := v.State()
	assert.Equal(t, listing.Error, st.Status)
	assert.Equal(t, views.BookInventoryError, st.ErrorMessage)
}

func Test_Management_AddBookAndUser(t *testing.T) {
	// arrange
	f := newFixture(t, library.RoleLibrarian)
	m := views.NewManagement(f.svc, f.mutator, f.rec)

	// act
	book, err := m.AddBook(context.Background(), library.NewBook{Title: "SICP", Author: "Abelson", PublishedYear: 1985, Genre: "CS", Stock: 3})
	require.NoError(t, err)
	bookMsg := f.rec.last(t)

	user, err := m.AddUser(context.Background(), library.NewUser{
		Username: "newbie", FirstName: "New", LastName: "Bie", Email: "newbie@uni.edu", Password: "secret",
	})
	require.NoError(t, err)

	// assert
	assert.Equal(t, "SICP", book.Title)
	assert.Equal(t, 3, book.Available)
	assert.Equal(t, views.AddBookSuccess, bookMsg.Message)
	assert.Equal(t, library.RoleStudent, user.Role)
	assert.Equal(t, notify.Notification{Message: views.AddUserSuccess, Kind: notify.Success}, f.rec.last(t))
}

func Test_Management_DuplicateUserShowsFieldMessage(t *testing.T) {
	// arrange
	f := newFixture(t, library.RoleLibrarian)
	m := views.NewManagement(f.svc, f.mutator, f.rec)

	// act
	_, err := m.AddUser(context.Background(), library.NewUser{
		Username: "reader", FirstName: "A", LastName: "B", Email: "a@uni.edu", Password: "x",
	})

	// assert
	require.Error(t, err)
	assert.Equal(t, notify.Notification{Message: "A user with that username already exists.", Kind: notify.Error}, f.rec.last(t))
}

func Test_Management_LocalValidationSkipsBackend(t *testing.T) {
	// arrange
	f := newFixture(t, library.RoleLibrarian)
	m := views.NewManagement(f.svc, f.mutator, f.rec)

	// act
	_, err := m.AddBook(context.Background(), library.NewBook{Author: "Nobody", PublishedYear: 2000, Genre: "X"})

	// assert
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Equal(t, 0, f.backend.Count("POST /books/"))
	last := f.rec.last(t)
	assert.Equal(t, notify.Error, last.Kind)
	assert.True(t, strings.Contains(last.Message, "title"))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
