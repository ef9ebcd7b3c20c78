package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/notify"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/debounce"
)

func Test_Center_ShowReplacesAndRestartsTimer(t *testing.T) {
	// arrange
	clock := &debounce.Manual{}
	c := notify.NewCenter(notify.WithAfterFunc(clock.AfterFunc))

	// act
	c.Success("Book checked out successfully!")
	c.Error("Failed to return book.")

	// assert
	v := c.Current()
	assert.True(t, v.Visible)
	assert.Equal(t, "Failed to return book.", v.Message)
	assert.Equal(t, notify.Error, v.Kind)
	assert.Equal(t, 1, clock.Pending())

	clock.FireStale()
	assert.False(t, c.Current().Visible)
	assert.Equal(t, "Failed to return book.", c.Current().Message)
}

func Test_Center_AutoDismiss(t *testing.T) {
	c := notify.NewCenter(notify.WithDuration(10 * time.Millisecond))
	var views []notify.View
	done := make(chan struct{}, 2)
	c.Subscribe(func(v notify.View) {
		views = append(views, v)
		done <- struct{}{}
	})

	c.Success("Book added successfully!")
	<-done
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notification was not dismissed")
	}

	assert.Len(t, views, 2)
	assert.True(t, views[0].Visible)
	assert.False(t, views[1].Visible)
}

func Test_Center_DismissIsIdempotent(t *testing.T) {
	c := notify.NewCenter()
	calls := 0
	c.Subscribe(func(notify.View) { calls++ })

	c.Dismiss()
	c.Success("x")
	c.Dismiss()
	c.Dismiss()

	assert.Equal(t, 2, calls)
	assert.Equal(t, "success", notify.Success.String())
}
