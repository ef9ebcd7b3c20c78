package cli

import (
	"github.com/spf13/cobra"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/gate"
)

func newLoginCommand(deps *AppDeps) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

			var err error
			if username == "" {
				if username, err = p.line("Username: "); err != nil {
					return err
				}
			}
			password, err := p.password("Password: ")
			if err != nil {
				return err
			}

			user, err := deps.Session.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			printf(cmd.OutOrStdout(), "Signed in as %s (%s).\n", user.FullName(), user.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name; prompted when empty")

	return cmd
}

func newLogoutCommand(deps *AppDeps) *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "Forget the saved session",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSession: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			deps.Session.Logout()
			printf(cmd.OutOrStdout(), "Signed out.\n")
			return nil
		},
	}
}

func newWhoamiCommand(deps *AppDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := requireSession(deps, "")
			if err != nil {
				return err
			}

			u := snap.User
			out := cmd.OutOrStdout()
			printf(out, "Username:  %s\n", u.Username)
			printf(out, "Name:      %s\n", u.FullName())
			printf(out, "Email:     %s\n", u.Email)
			printf(out, "Role:      %s\n", u.Role)
			printf(out, "Dashboard: %s\n", gate.DashboardFor(u))
			return nil
		},
	}
}
