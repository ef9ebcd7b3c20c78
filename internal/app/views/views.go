/*
Package views assembles the library screens from the list controller, the mutation
helper and the library endpoints. Each screen fixes its endpoint, page size, error
message, and how a confirmed mutation is reconciled into the visible rows.
*/
package views

import (
	"context"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/listing"
)

// Page sizes of the list screens.
const (
	AvailableBooksPageSize  = 100
	MyCheckoutsPageSize     = 10
	ActiveCheckoutsPageSize = 100
	BookInventoryPageSize   = 100
)

// Fetch failure messages of the list screens.
const (
	AvailableBooksError  = "Failed to fetch available books."
	MyCheckoutsError     = "Failed to fetch your checked out books."
	ActiveCheckoutsError = "Failed to fetch checkout books data."
	BookInventoryError   = "Failed to fetch book inventory."
)

// Mutation outcome messages.
const (
	CheckoutSuccess = "Book checked out successfully!"
	CheckoutFailure = "Failed to checkout book."
	ReturnSuccess   = "Book returned successfully!"
	ReturnFailure   = "Failed to return book."
	AddBookSuccess  = "Book added successfully!"
	AddBookFailure  = "Failed to add book."
	AddUserSuccess  = "User created successfully!"
	AddUserFailure  = "Failed to create user."
)

// Library is the part of the backend the screens use. *library.Service implements it.
type Library interface {
	Books(ctx context.Context, q library.Query) (library.Page[library.Book], error)
	Checkouts(ctx context.Context, q library.Query) (library.Page[library.Checkout], error)
	Checkout(ctx context.Context, bookID int64) (library.Checkout, error)
	Return(ctx context.Context, checkoutID int64) error
	AddBook(ctx context.Context, b library.NewBook) (library.Book, error)
	AddUser(ctx context.Context, u library.NewUser) (library.User, error)
}

func bookFetcher(lib Library) listing.Fetcher[library.Book] {
	return func(ctx context.Context, req listing.Request) (listing.Result[library.Book], error) {
		p, err := lib.Books(ctx, query(req))
		if err != nil {
			return listing.Result[library.Book]{}, err
		}
		return listing.Result[library.Book]{Items: p.Results, Total: p.Count}, nil
	}
}

func checkoutFetcher(lib Library) listing.Fetcher[library.Checkout] {
	return func(ctx context.Context, req listing.Request) (listing.Result[library.Checkout], error) {
		p, err := lib.Checkouts(ctx, query(req))
		if err != nil {
			return listing.Result[library.Checkout]{}, err
		}
		return listing.Result[library.Checkout]{Items: p.Results, Total: p.Count}, nil
	}
}

func query(req listing.Request) library.Query {
	return library.Query{Search: req.Search, Page: req.Page, PageSize: req.PageSize}
}

// withDefaults puts a screen's fixed options before the caller's, so callers can still
// override the debounce clock or the parent context.
func withDefaults(pageSize int, errMsg string, opts []listing.Option) []listing.Option {
	return append([]listing.Option{
		listing.WithPageSize(pageSize),
		listing.WithErrorMessage(errMsg),
	}, opts...)
}
