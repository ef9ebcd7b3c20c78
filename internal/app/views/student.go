package views

import (
	"context"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/listing"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/mutation"
)

// AvailableBooks is the student catalogue with checkout.
type AvailableBooks struct {
	*listing.Controller[library.Book]

	lib     Library
	mutator *mutation.Mutator
}

// NewAvailableBooks builds the screen. Call Reload for the initial fetch.
func NewAvailableBooks(lib Library, mutator *mutation.Mutator, opts ...listing.Option) *AvailableBooks {
	return &AvailableBooks{
		Controller: listing.New(bookFetcher(lib), withDefaults(AvailableBooksPageSize, AvailableBooksError, opts)...),
		lib:        lib,
		mutator:    mutator,
	}
}

// Checkout borrows bookID. Once the backend confirms, the row's availability drops by
// one and it is flagged as checked out by the user, without refetching the page.
func (v *AvailableBooks) Checkout(ctx context.Context, bookID int64) error {
	return v.mutator.Execute(ctx, mutation.Action{
		Name: "checkout",
		Do: func(ctx context.Context) error {
			_, err := v.lib.Checkout(ctx, bookID)
			return err
		},
		Reconcile: func() {
			v.Update(func(books []library.Book) []library.Book {
				for i := range books {
					if books[i].ID == bookID {
						books[i].Available--
						books[i].IsCheckedOutByUser = true
					}
				}
				return books
			})
		},
		Success: CheckoutSuccess,
		Failure: CheckoutFailure,
		Fields:  []string{"book"},
	})
}

// MyCheckouts lists the student's own active loans.
type MyCheckouts struct {
	*listing.Controller[library.Checkout]
}

// NewMyCheckouts builds the screen. Call Reload for the initial fetch.
func NewMyCheckouts(lib Library, opts ...listing.Option) *MyCheckouts {
	return &MyCheckouts{
		Controller: listing.New(checkoutFetcher(lib), withDefaults(MyCheckoutsPageSize, MyCheckoutsError, opts)...),
	}
}
