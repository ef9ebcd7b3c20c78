package views

import (
	"context"
	"slices"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/listing"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/mutation"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/notify"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
)

// ActiveCheckouts lists every active loan and lets the librarian mark one returned.
type ActiveCheckouts struct {
	*listing.Controller[library.Checkout]

	lib     Library
	mutator *mutation.Mutator
}

// NewActiveCheckouts builds the screen. Call Reload for the initial fetch.
func NewActiveCheckouts(lib Library, mutator *mutation.Mutator, opts ...listing.Option) *ActiveCheckouts {
	return &ActiveCheckouts{
		Controller: listing.New(checkoutFetcher(lib), withDefaults(ActiveCheckoutsPageSize, ActiveCheckoutsError, opts)...),
		lib:        lib,
		mutator:    mutator,
	}
}

// Return marks checkoutID returned. Once the backend confirms, the row is removed.
func (v *ActiveCheckouts) Return(ctx context.Context, checkoutID int64) error {
	return v.mutator.Execute(ctx, mutation.Action{
		Name: "return",
		Do: func(ctx context.Context) error {
			return v.lib.Return(ctx, checkoutID)
		},
		Reconcile: func() {
			v.Update(func(items []library.Checkout) []library.Checkout {
				return slices.DeleteFunc(items, func(c library.Checkout) bool { return c.ID == checkoutID })
			})
		},
		Success: ReturnSuccess,
		Failure: ReturnFailure,
	})
}

// BookInventory lists the full catalogue with stock figures.
type BookInventory struct {
	*listing.Controller[library.Book]
}

// NewBookInventory builds the screen. Call Reload for the initial fetch.
func NewBookInventory(lib Library, opts ...listing.Option) *BookInventory {
	return &BookInventory{
		Controller: listing.New(bookFetcher(lib), withDefaults(BookInventoryPageSize, BookInventoryError, opts)...),
	}
}

// Management holds the librarian's create forms.
type Management struct {
	lib      Library
	mutator  *mutation.Mutator
	notifier notify.Notifier
}

// NewManagement builds the screen.
func NewManagement(lib Library, mutator *mutation.Mutator, notifier notify.Notifier) *Management {
	return &Management{lib: lib, mutator: mutator, notifier: notifier}
}

// AddBook validates b locally, then creates it.
func (v *Management) AddBook(ctx context.Context, b library.NewBook) (library.Book, error) {
	if err := b.Validate(); err != nil {
		return library.Book{}, v.rejectLocally(err)
	}

	var created library.Book
	err := v.mutator.Execute(ctx, mutation.Action{
		Name: "add_book",
		Do: func(ctx context.Context) error {
			var err error
			created, err = v.lib.AddBook(ctx, b)
			return err
		},
		Success: AddBookSuccess,
		Failure: AddBookFailure,
		Fields:  []string{"title", "author", "published_year", "genre", "stock"},
	})
	return created, err
}

// AddUser validates u locally, then creates the account.
func (v *Management) AddUser(ctx context.Context, u library.NewUser) (library.User, error) {
	if err := u.Validate(); err != nil {
		return library.User{}, v.rejectLocally(err)
	}

	var created library.User
	err := v.mutator.Execute(ctx, mutation.Action{
		Name: "add_user",
		Do: func(ctx context.Context) error {
			var err error
			created, err = v.lib.AddUser(ctx, u)
			return err
		},
		Success: AddUserSuccess,
		Failure: AddUserFailure,
		Fields:  []string{"username", "email", "password", "role", "first_name", "last_name"},
	})
	return created, err
}

func (v *Management) rejectLocally(err error) error {
	ce := errs.NewError(errs.ErrValidation).WithMessage(err.Error()).Wrap(err)
	v.notifier.Show(notify.Notification{Message: ce.Message, Kind: notify.Error})
	return ce
}
