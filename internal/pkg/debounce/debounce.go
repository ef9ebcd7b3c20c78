/*
Package debounce provides a cancellable, restartable one-shot timer.

Starting the timer cancels any pending run. A callback that was already fired by the
runtime but belongs to a superseded start is ignored, so at most one callback runs per
quiet period and it is always the latest one.
*/
package debounce

import (
	"sync"
	"time"
)

// Stopper is the handle returned by an AfterFunc.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f to run after d. time.AfterFunc satisfies it through StdAfterFunc.
type AfterFunc func(d time.Duration, f func()) Stopper

// StdAfterFunc is the AfterFunc backed by the runtime timer.
func StdAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Option configures a Timer.
type Option func(*Timer)

// WithAfterFunc replaces the scheduling function, typically with a Manual clock in tests.
func WithAfterFunc(fn AfterFunc) Option {
	return func(t *Timer) {
		if fn != nil {
			t.after = fn
		}
	}
}

// Timer is a debounce timer. The zero value is not usable; use New.
type Timer struct {
	mu      sync.Mutex
	delay   time.Duration
	after   AfterFunc
	pending Stopper

	// gen increments on every Start and Cancel. A fired callback only runs if
	// the generation it was scheduled under is still current.
	gen uint64
}

// New creates a Timer that waits delay after the last Start before running.
func New(delay time.Duration, opts ...Option) *Timer {
	t := &Timer{
		delay: delay,
		after: StdAfterFunc,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Delay returns the configured quiet period.
func (t *Timer) Delay() time.Duration {
	return t.delay
}

// Start (re)starts the quiet period. f runs once the period elapses without another Start or Cancel.
func (t *Timer) Start(f func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.gen++
	gen := t.gen

	t.pending = t.after(t.delay, func() {
		t.mu.Lock()
		if t.gen != gen {
			t.mu.Unlock()
			return
		}
		t.pending = nil
		t.mu.Unlock()

		f()
	})
}

// Cancel drops the pending run, if any.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.gen++
}

// Pending reports whether a run is scheduled.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

func (t *Timer) stopLocked() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}
