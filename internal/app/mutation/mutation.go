/*
Package mutation runs state-changing requests against the backend and reconciles local
state only after the backend has confirmed them.
*/
package mutation

import (
	"context"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/notify"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/logx"
)

// Action describes one mutation.
type Action struct {
	// Name identifies the action in logs.
	Name string

	// Do issues the request.
	Do func(ctx context.Context) error

	// Reconcile updates local state after Do succeeded. It may be nil.
	Reconcile func()

	// Success is shown when Do succeeds.
	Success string

	// Failure is shown when Do fails and the error payload carries no message.
	Failure string

	// Fields are extra payload fields consulted for the failure message, after
	// detail and non_field_errors.
	Fields []string
}

// Mutator executes Actions and reports their outcome through a Notifier.
type Mutator struct {
	notifier notify.Notifier
}

// New returns a Mutator that reports to n.
func New(n notify.Notifier) *Mutator {
	return &Mutator{notifier: n}
}

// Execute runs a.Do. On success it runs a.Reconcile and shows a.Success. On failure
// nothing local is touched, an error notification is shown, and the error is returned.
func (m *Mutator) Execute(ctx context.Context, a Action) error {
	if err := a.Do(ctx); err != nil {
		msg := errs.MessageFrom(err, a.Failure, a.Fields...)
		logx.Warn("Mutation failed", "component", "mutation", "action", a.Name, "error", err.Error())

		m.notifier.Show(notify.Notification{Message: msg, Kind: notify.Error})
		return err
	}

	if a.Reconcile != nil {
		a.Reconcile()
	}
	m.notifier.Show(notify.Notification{Message: a.Success, Kind: notify.Success})

	return nil
}
