package debounce_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/debounce"
)

func Test_Timer_OnlyLatestStartRuns(t *testing.T) {
	// arrange
	clock := &debounce.Manual{}
	timer := debounce.New(300*time.Millisecond, debounce.WithAfterFunc(clock.AfterFunc))
	var got []string

	// act
	timer.Start(func() { got = append(got, "a") })
	timer.Start(func() { got = append(got, "ab") })
	timer.Start(func() { got = append(got, "abc") })

	// assert
	assert.Equal(t, 1, clock.Pending())
	assert.True(t, timer.Pending())
	assert.Equal(t, 1, clock.Fire())
	assert.Equal(t, []string{"abc"}, got)
	assert.False(t, timer.Pending())
}

func Test_Timer_StaleFiredCallbackIsIgnored(t *testing.T) {
	clock := &debounce.Manual{}
	timer := debounce.New(time.Second, debounce.WithAfterFunc(clock.AfterFunc))
	var got []string

	timer.Start(func() { got = append(got, "old") })
	timer.Start(func() { got = append(got, "new") })

	clock.FireStale()

	assert.Equal(t, []string{"new"}, got)
}

func Test_Timer_CancelDropsPendingRun(t *testing.T) {
	clock := &debounce.Manual{}
	timer := debounce.New(time.Second, debounce.WithAfterFunc(clock.AfterFunc))
	ran := false

	timer.Start(func() { ran = true })
	timer.Cancel()

	clock.FireStale()
	assert.False(t, ran)
	assert.False(t, timer.Pending())
}

func Test_Timer_RealClock(t *testing.T) {
	timer := debounce.New(10 * time.Millisecond)
	var count atomic.Int32

	for range 5 {
		timer.Start(func() { count.Add(1) })
	}

	require.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())
	assert.Equal(t, 10*time.Millisecond, timer.Delay())
}
