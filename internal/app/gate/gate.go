/*
Package gate decides what a protected screen may show for a given session state and
which dashboard an authenticated user lands on.
*/
package gate

import (
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/session"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
)

// Decision is what a protected screen renders.
type Decision int

const (
	ShowLoadingIndicator Decision = iota
	RedirectToLogin
	ShowProtectedContent
)

func (d Decision) String() string {
	switch d {
	case ShowLoadingIndicator:
		return "loading"
	case RedirectToLogin:
		return "redirect-to-login"
	case ShowProtectedContent:
		return "protected-content"
	default:
		return "unknown"
	}
}

// Decide maps a session status to a Decision. It has no side effects.
func Decide(status session.Status) Decision {
	switch status {
	case session.Authenticated:
		return ShowProtectedContent
	case session.Anonymous:
		return RedirectToLogin
	default:
		return ShowLoadingIndicator
	}
}

// Source is a session whose changes can be observed.
type Source interface {
	Snapshot() session.Snapshot
	Subscribe(fn func(session.Snapshot)) (unsubscribe func())
}

// Watch calls fn with the current decision and again after every session change,
// until stop is called.
func Watch(src Source, fn func(Decision, session.Snapshot)) (stop func()) {
	stop = src.Subscribe(func(s session.Snapshot) {
		fn(Decide(s.Status), s)
	})

	s := src.Snapshot()
	fn(Decide(s.Status), s)

	return stop
}

// Dashboard is the landing screen of a role.
type Dashboard int

const (
	NoDashboard Dashboard = iota
	StudentDashboard
	LibrarianDashboard
)

func (d Dashboard) String() string {
	switch d {
	case StudentDashboard:
		return "student"
	case LibrarianDashboard:
		return "librarian"
	default:
		return "none"
	}
}

// DashboardFor returns the landing screen for user, or NoDashboard for nil or an unknown role.
func DashboardFor(user *library.User) Dashboard {
	if user == nil {
		return NoDashboard
	}
	switch user.Role {
	case library.RoleStudent:
		return StudentDashboard
	case library.RoleLibrarian:
		return LibrarianDashboard
	default:
		return NoDashboard
	}
}

// RequireRole returns nil if snap is an authenticated session of role.
// Otherwise it returns ErrAuthentication for a missing session or ErrForbidden for a wrong role.
func RequireRole(snap session.Snapshot, role library.Role) error {
	if Decide(snap.Status) != ShowProtectedContent || snap.User == nil {
		return errs.NewError(errs.ErrAuthentication)
	}
	if snap.User.Role != role {
		return errs.NewError(errs.ErrForbidden)
	}
	return nil
}
