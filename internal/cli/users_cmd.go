package cli

import (
	"github.com/spf13/cobra"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/views"
)

func newUsersCommand(deps *AppDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts (librarian)",
	}
	cmd.AddCommand(newAddUserCommand(deps))
	return cmd
}

func newAddUserCommand(deps *AppDeps) *cobra.Command {
	var (
		u    library.NewUser
		role string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account; the password is prompted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(deps, library.RoleLibrarian); err != nil {
				return err
			}

			password, err := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).password("Password for new user: ")
			if err != nil {
				return err
			}
			u.Password = password
			u.Role = library.Role(role)

			m := views.NewManagement(deps.Library, deps.Mutator, deps.Notifier)
			created, err := m.AddUser(cmd.Context(), u)
			if err != nil {
				return reported(err)
			}
			printf(cmd.OutOrStdout(), "User ID: %d\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&u.Username, "username", "", "login name")
	cmd.Flags().StringVar(&u.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&u.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&u.Email, "email", "", "email address")
	cmd.Flags().StringVar(&role, "role", string(library.RoleStudent), "student or librarian")

	return cmd
}
