package debounce

import (
	"sync"
	"time"
)

// Manual is an AfterFunc whose callbacks run only when Fire is called.
// It makes debounced code deterministic under test.
type Manual struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	owner   *Manual
	delay   time.Duration
	f       func()
	stopped bool
}

// Stop implements Stopper.
func (m *manualTimer) Stop() bool {
	m.owner.mu.Lock()
	defer m.owner.mu.Unlock()

	wasActive := !m.stopped
	m.stopped = true
	return wasActive
}

// AfterFunc records f for a later Fire.
func (m *Manual) AfterFunc(d time.Duration, f func()) Stopper {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt := &manualTimer{owner: m, delay: d, f: f}
	m.pending = append(m.pending, mt)
	return mt
}

// Pending returns the number of scheduled, unstopped callbacks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, mt := range m.pending {
		if !mt.stopped {
			n++
		}
	}
	return n
}

// Fire runs every scheduled, unstopped callback in scheduling order and returns how many ran.
func (m *Manual) Fire() int {
	m.mu.Lock()
	due := m.pending
	m.pending = nil
	var run []func()
	for _, mt := range due {
		if !mt.stopped {
			mt.stopped = true
			run = append(run, mt.f)
		}
	}
	m.mu.Unlock()

	for _, f := range run {
		f()
	}
	return len(run)
}

// FireStale runs every recorded callback, including stopped ones. It simulates a
// runtime timer that fired just before Stop won the race.
func (m *Manual) FireStale() int {
	m.mu.Lock()
	due := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, mt := range due {
		mt.f()
	}
	return len(due)
}
