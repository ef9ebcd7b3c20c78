package cli

import (
	"github.com/spf13/cobra"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/views"
)

func newBooksCommand(deps *AppDeps) *cobra.Command {
	var f pageFlags

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List the catalogue with availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(deps, ""); err != nil {
				return err
			}

			v := views.NewAvailableBooks(deps.Library, deps.Mutator, deps.listOptions(cmd.Context())...)
			defer v.Close()

			st, err := load(v.Controller, f)
			if err != nil {
				return err
			}
			renderBooks(cmd.OutOrStdout(), st)
			return nil
		},
	}
	f.bind(cmd)
	cmd.AddCommand(newAddBookCommand(deps))

	return cmd
}

func newAddBookCommand(deps *AppDeps) *cobra.Command {
	var b library.NewBook

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalogue (librarian)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(deps, library.RoleLibrarian); err != nil {
				return err
			}

			m := views.NewManagement(deps.Library, deps.Mutator, deps.Notifier)
			created, err := m.AddBook(cmd.Context(), b)
			if err != nil {
				return reported(err)
			}
			printf(cmd.OutOrStdout(), "Book ID: %d\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&b.Title, "title", "", "title")
	cmd.Flags().StringVar(&b.Author, "author", "", "author")
	cmd.Flags().IntVar(&b.PublishedYear, "year", 0, "year of publication")
	cmd.Flags().StringVar(&b.Genre, "genre", "", "genre")
	cmd.Flags().IntVar(&b.Stock, "stock", 1, "number of copies")

	return cmd
}

func newCheckoutCommand(deps *AppDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout BOOK_ID",
		Short: "Check a book out (student)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(deps, library.RoleStudent); err != nil {
				return err
			}
			id, err := parseID(args[0], "book")
			if err != nil {
				return err
			}

			v := views.NewAvailableBooks(deps.Library, deps.Mutator, deps.listOptions(cmd.Context())...)
			defer v.Close()

			return reported(v.Checkout(cmd.Context(), id))
		},
	}
}

func newInventoryCommand(deps *AppDeps) *cobra.Command {
	var f pageFlags

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Show stock and loans per book (librarian)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(deps, library.RoleLibrarian); err != nil {
				return err
			}

			v := views.NewBookInventory(deps.Library, deps.listOptions(cmd.Context())...)
			defer v.Close()

			st, err := load(v.Controller, f)
			if err != nil {
				return err
			}
			renderInventory(cmd.OutOrStdout(), st)
			return nil
		},
	}
	f.bind(cmd)

	return cmd
}
