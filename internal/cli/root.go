/*
Package cli is the terminal front-end of the library client.

This file defines the root command. It restores the persisted session and theme before
any subcommand runs and turns errors into one line of user-facing text.
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/gate"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/session"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/logx"
)

// skipSession marks commands that work without contacting the backend.
const skipSession = "skip-session"

// NewRootCommand builds the command tree around deps.
func NewRootCommand(deps *AppDeps) *cobra.Command {
	root := &cobra.Command{
		Use:           "ulibrary",
		Short:         "University library client",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			deps.console.setOutput(cmd.OutOrStdout())
			deps.Theme.Load(cmd.Context())

			if cmd.Annotations[skipSession] == "" {
				deps.Session.Initialize(cmd.Context())
			}
			return nil
		},
	}

	root.AddCommand(
		newLoginCommand(deps),
		newLogoutCommand(deps),
		newWhoamiCommand(deps),
		newBooksCommand(deps),
		newCheckoutCommand(deps),
		newCheckoutsCommand(deps),
		newReturnCommand(deps),
		newInventoryCommand(deps),
		newUsersCommand(deps),
		newThemeCommand(deps),
		newBrowseCommand(deps),
	)

	return root
}

// Execute runs root and returns the process exit code.
func Execute(ctx context.Context, root *cobra.Command) int {
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var rep *reportedError
	if !errors.As(err, &rep) {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", userMessage(err))
	}
	logx.Debug("Command failed", "component", "cli", "error", err.Error())
	return 1
}

// reportedError is an error the user has already been shown, e.g. as a notification.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// userMessage prefers the backend's own wording, then the error code's message.
func userMessage(err error) string {
	var ce *errs.CustomError
	if errors.As(err, &ce) {
		return errs.MessageFrom(err, ce.Message)
	}
	return err.Error()
}

// requireSession returns the current session when it is signed in, and with role
// when role is not empty.
func requireSession(deps *AppDeps, role library.Role) (session.Snapshot, error) {
	snap := deps.Session.Snapshot()
	if role != "" {
		return snap, gate.RequireRole(snap, role)
	}
	if gate.Decide(snap.Status) != gate.ShowProtectedContent || snap.User == nil {
		return snap, errs.NewError(errs.ErrAuthentication)
	}
	return snap, nil
}

func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
