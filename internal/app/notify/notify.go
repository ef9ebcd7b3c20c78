/*
Package notify shows one transient notification at a time.

Showing a notification replaces the current one and restarts its auto-dismiss timer.
*/
package notify

import (
	"sync"
	"time"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/debounce"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/observer"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 5 * time.Second

// Kind is the severity of a notification.
type Kind int

const (
	Success Kind = iota
	Error
)

func (k Kind) String() string {
	if k == Error {
		return "error"
	}
	return "success"
}

// Notification is a short user-facing message.
type Notification struct {
	Message string
	Kind    Kind
}

// View is what is currently on screen. Visible is false once the notification is dismissed.
type View struct {
	Notification
	Visible bool
}

// Notifier is anything that can show a notification.
type Notifier interface {
	Show(n Notification)
}

// Option configures a Center.
type Option func(*config)

type config struct {
	duration  time.Duration
	afterFunc debounce.AfterFunc
}

// WithDuration sets the auto-dismiss delay.
func WithDuration(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.duration = d
		}
	}
}

// WithAfterFunc replaces the dismiss scheduler.
func WithAfterFunc(fn debounce.AfterFunc) Option {
	return func(c *config) {
		c.afterFunc = fn
	}
}

// Center holds the current notification.
type Center struct {
	timer *debounce.Timer

	mu      sync.Mutex
	current View
	seq     uint64

	observers observer.Set[View]
}

// NewCenter returns a Center with nothing visible.
func NewCenter(opts ...Option) *Center {
	cfg := config{duration: DefaultDuration}
	for _, opt := range opts {
		opt(&cfg)
	}

	var timerOpts []debounce.Option
	if cfg.afterFunc != nil {
		timerOpts = append(timerOpts, debounce.WithAfterFunc(cfg.afterFunc))
	}

	return &Center{timer: debounce.New(cfg.duration, timerOpts...)}
}

// Show replaces the current notification with n and restarts the dismiss timer.
func (c *Center) Show(n Notification) {
	c.mu.Lock()
	c.current = View{Notification: n, Visible: true}
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	c.timer.Start(func() { c.expire(seq) })
	c.observers.Publish(c.Current)
}

// expire hides the notification shown as seq, unless a newer one replaced it.
func (c *Center) expire(seq uint64) {
	c.mu.Lock()
	if c.seq != seq || !c.current.Visible {
		c.mu.Unlock()
		return
	}
	c.current.Visible = false
	c.mu.Unlock()

	c.observers.Publish(c.Current)
}

// Success shows msg as a success notification.
func (c *Center) Success(msg string) {
	c.Show(Notification{Message: msg, Kind: Success})
}

// Error shows msg as an error notification.
func (c *Center) Error(msg string) {
	c.Show(Notification{Message: msg, Kind: Error})
}

// Dismiss hides the current notification.
func (c *Center) Dismiss() {
	c.timer.Cancel()

	c.mu.Lock()
	wasVisible := c.current.Visible
	c.current.Visible = false
	c.mu.Unlock()

	if wasVisible {
		c.observers.Publish(c.Current)
	}
}

// Current returns what is on screen.
func (c *Center) Current() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Subscribe registers fn to be called whenever the view changes.
func (c *Center) Subscribe(fn func(View)) (unsubscribe func()) {
	return c.observers.Subscribe(fn)
}
