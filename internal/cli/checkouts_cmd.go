package cli

import (
	"github.com/spf13/cobra"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/listing"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/views"
)

func newCheckoutsCommand(deps *AppDeps) *cobra.Command {
	var f pageFlags

	cmd := &cobra.Command{
		Use:   "checkouts",
		Short: "List your loans, or every active loan for librarians",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := requireSession(deps, "")
			if err != nil {
				return err
			}

			var c *listing.Controller[library.Checkout]
			if snap.User.Role == library.RoleLibrarian {
				c = views.NewActiveCheckouts(deps.Library, deps.Mutator, deps.listOptions(cmd.Context())...).Controller
			} else {
				c = views.NewMyCheckouts(deps.Library, deps.listOptions(cmd.Context())...).Controller
			}
			defer c.Close()

			st, err := load(c, f)
			if err != nil {
				return err
			}
			renderCheckouts(cmd.OutOrStdout(), st)
			return nil
		},
	}
	f.bind(cmd)

	return cmd
}

func newReturnCommand(deps *AppDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "return CHECKOUT_ID",
		Short: "Mark a loan returned (librarian)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(deps, library.RoleLibrarian); err != nil {
				return err
			}
			id, err := parseID(args[0], "checkout")
			if err != nil {
				return err
			}

			v := views.NewActiveCheckouts(deps.Library, deps.Mutator, deps.listOptions(cmd.Context())...)
			defer v.Close()

			return reported(v.Return(cmd.Context(), id))
		},
	}
}
