/*
Package observer fans state snapshots out to subscribers.

Publish takes the snapshot while holding the publish lock, so when two publishes race
the one that runs last always delivers the newest state.
*/
package observer

import (
	"slices"
	"sync"
)

// Set is a set of subscribers to snapshots of type T. The zero value is ready to use.
type Set[T any] struct {
	publishMu sync.Mutex

	mu   sync.Mutex
	subs map[int]func(T)
	next int
}

// Subscribe registers fn and returns a function that removes it.
func (s *Set[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	if s.subs == nil {
		s.subs = make(map[int]func(T))
	}
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Len returns the number of subscribers.
func (s *Set[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Publish calls every subscriber with snapshot(), in subscription order.
// Subscribers run on the caller's goroutine and must not publish to the same Set.
func (s *Set[T]) Publish(snapshot func() T) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	if len(s.subs) == 0 {
		s.mu.Unlock()
		return
	}
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	fns := make([]func(T), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()

	v := snapshot()
	for _, fn := range fns {
		fn(v)
	}
}
