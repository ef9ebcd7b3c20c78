package observer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/observer"
)

func Test_Set_PublishInSubscriptionOrder(t *testing.T) {
	var s observer.Set[int]
	var got []string

	s.Subscribe(func(v int) { got = append(got, "a") })
	unsubscribe := s.Subscribe(func(v int) { got = append(got, "b") })
	s.Subscribe(func(v int) { got = append(got, "c") })

	s.Publish(func() int { return 1 })
	unsubscribe()
	unsubscribe()
	s.Publish(func() int { return 2 })

	assert.Equal(t, []string{"a", "b", "c", "a", "c"}, got)
	assert.Equal(t, 2, s.Len())
}

func Test_Set_SnapshotNotTakenWithoutSubscribers(t *testing.T) {
	var s observer.Set[int]
	called := false

	s.Publish(func() int { called = true; return 0 })

	assert.False(t, called)
}
