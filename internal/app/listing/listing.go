/*
Package listing implements the paginated, search-driven list used by every list screen.

A Controller owns the raw search text, the debounced query the backend sees, the page,
and the items of the last successful fetch. Typing restarts a debounce timer; when it
fires with a new query the page resets to 1 and one fetch is issued. Every fetch is
tagged with a generation number, and a response is applied only if no newer fetch has
been issued since, so out-of-order responses can never overwrite newer state.
*/
package listing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/debounce"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/logx"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/observer"
)

// Defaults applied when no option overrides them.
const (
	DefaultDebounce     = 300 * time.Millisecond
	DefaultPageSize     = 10
	DefaultErrorMessage = "Failed to fetch data."
)

// Status is the fetch status of a list.
type Status int

const (
	Loading Status = iota
	Ready
	Error
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Request is what a Fetcher is asked for.
type Request struct {
	Search   string
	Page     int
	PageSize int
}

// Result is one page of items plus the total number of matching items.
type Result[T any] struct {
	Items []T
	Total int
}

// Fetcher loads one page. It must honour ctx cancellation.
type Fetcher[T any] func(ctx context.Context, req Request) (Result[T], error)

// State is a consistent copy of a Controller's state.
type State[T any] struct {
	RawQuery       string
	DebouncedQuery string
	Page           int
	PageCount      int
	Items          []T
	Status         Status
	ErrorMessage   string
}

type options struct {
	pageSize     int
	errorMessage string
	debounce     time.Duration
	afterFunc    debounce.AfterFunc
	ctx          context.Context
}

// Option configures a Controller.
type Option func(*options)

// WithPageSize sets the page_size sent with every request.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithErrorMessage sets the static message shown when a fetch fails.
func WithErrorMessage(msg string) Option {
	return func(o *options) {
		o.errorMessage = msg
	}
}

// WithDebounce sets the quiet period after the last keystroke.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithAfterFunc replaces the debounce scheduler, typically with a debounce.Manual clock.
func WithAfterFunc(fn debounce.AfterFunc) Option {
	return func(o *options) {
		o.afterFunc = fn
	}
}

// WithContext sets the parent context of every fetch.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// Controller is safe for concurrent use.
type Controller[T any] struct {
	fetch        Fetcher[T]
	pageSize     int
	errorMessage string
	timer        *debounce.Timer

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	idle     *sync.Cond
	state    State[T]
	gen      uint64
	inflight int
	abort    context.CancelFunc
	closed   bool

	observers observer.Set[State[T]]
}

// New creates a Controller in the Loading state. Call Reload to issue the initial fetch.
func New[T any](fetch Fetcher[T], opts ...Option) *Controller[T] {
	o := options{
		pageSize:     DefaultPageSize,
		errorMessage: DefaultErrorMessage,
		debounce:     DefaultDebounce,
		ctx:          context.Background(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var timerOpts []debounce.Option
	if o.afterFunc != nil {
		timerOpts = append(timerOpts, debounce.WithAfterFunc(o.afterFunc))
	}

	ctx, cancel := context.WithCancel(o.ctx)
	c := &Controller[T]{
		fetch:        fetch,
		pageSize:     o.pageSize,
		errorMessage: o.errorMessage,
		timer:        debounce.New(o.debounce, timerOpts...),
		ctx:          ctx,
		cancel:       cancel,
		state: State[T]{
			Page:   1,
			Items:  []T{},
			Status: Loading,
		},
	}
	c.idle = sync.NewCond(&c.mu)
	return c
}

// PageSize returns the page_size sent with every request.
func (c *Controller[T]) PageSize() int {
	return c.pageSize
}

// State returns a copy of the current state.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller[T]) snapshotLocked() State[T] {
	s := c.state
	s.Items = append([]T(nil), c.state.Items...)
	if s.Items == nil {
		s.Items = []T{}
	}
	return s
}

// Subscribe registers fn to be called after every state change.
func (c *Controller[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	return c.observers.Subscribe(fn)
}

func (c *Controller[T]) notify() {
	c.observers.Publish(c.State)
}

// SetQuery records the raw search text and restarts the debounce timer.
// When the timer fires with a query different from the debounced one, the page
// resets to 1 and exactly one fetch is issued.
func (c *Controller[T]) SetQuery(raw string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.RawQuery = raw
	c.mu.Unlock()
	c.notify()

	c.timer.Start(c.applyQuery)
}

func (c *Controller[T]) applyQuery() {
	c.mu.Lock()
	if c.closed || c.state.RawQuery == c.state.DebouncedQuery {
		c.mu.Unlock()
		return
	}
	c.state.DebouncedQuery = c.state.RawQuery
	c.state.Page = 1
	c.fetchLocked()
	c.mu.Unlock()
	c.notify()
}

// Flush applies the pending raw query now instead of waiting for the debounce delay.
func (c *Controller[T]) Flush() {
	c.timer.Cancel()
	c.applyQuery()
}

// SetPage moves to page p. Pages outside [1, PageCount] and the current page are
// rejected without a fetch; ok reports whether a fetch was issued.
func (c *Controller[T]) SetPage(p int) (ok bool) {
	c.mu.Lock()
	ok = c.setPageLocked(p)
	c.mu.Unlock()

	if ok {
		c.notify()
	}
	return ok
}

// NextPage moves one page forward.
func (c *Controller[T]) NextPage() bool {
	c.mu.Lock()
	ok := c.setPageLocked(c.state.Page + 1)
	c.mu.Unlock()

	if ok {
		c.notify()
	}
	return ok
}

// PrevPage moves one page back.
func (c *Controller[T]) PrevPage() bool {
	c.mu.Lock()
	ok := c.setPageLocked(c.state.Page - 1)
	c.mu.Unlock()

	if ok {
		c.notify()
	}
	return ok
}

func (c *Controller[T]) setPageLocked(p int) bool {
	if c.closed || p < 1 || p > c.state.PageCount || p == c.state.Page {
		return false
	}
	c.state.Page = p
	c.fetchLocked()
	return true
}

// Reload re-fetches the current (debounced query, page) pair.
func (c *Controller[T]) Reload() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.fetchLocked()
	c.mu.Unlock()
	c.notify()
}

// Update reconciles the current items in place after a mutation. It does not fetch.
func (c *Controller[T]) Update(fn func(items []T) []T) {
	c.mu.Lock()
	items := fn(append([]T(nil), c.state.Items...))
	if items == nil {
		items = []T{}
	}
	c.state.Items = items
	c.mu.Unlock()
	c.notify()
}

// Wait blocks until no fetch is in flight and subscribers have seen the last result.
func (c *Controller[T]) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.inflight > 0 {
		c.idle.Wait()
	}
}

// Close stops the debounce timer and cancels any in-flight fetch. Later calls are no-ops.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.timer.Cancel()
	c.cancel()
}

// fetchLocked supersedes any in-flight fetch and starts a new one for the current pair.
func (c *Controller[T]) fetchLocked() {
	if c.abort != nil {
		c.abort()
	}

	c.gen++
	gen := c.gen
	req := Request{
		Search:   c.state.DebouncedQuery,
		Page:     c.state.Page,
		PageSize: c.pageSize,
	}
	c.state.Status = Loading

	ctx, cancel := context.WithCancel(c.ctx)
	c.abort = cancel
	c.inflight++

	go func() {
		defer cancel()
		res, err := c.fetch(ctx, req)
		c.complete(gen, req, res, err)
	}()
}

func (c *Controller[T]) complete(gen uint64, req Request, res Result[T], err error) {
	defer c.settle()

	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.abort = nil

	if err != nil {
		c.state.Status = Error
		c.state.ErrorMessage = c.errorMessage
		c.mu.Unlock()

		if !errors.Is(err, context.Canceled) {
			logx.Warn("List fetch failed", "component", "listing",
				"search", req.Search, "page", req.Page, "error", err.Error())
		}
		c.notify()
		return
	}

	items := res.Items
	if items == nil {
		items = []T{}
	}
	c.state.Items = items
	c.state.PageCount = pageCount(res.Total, c.pageSize)
	c.state.Status = Ready
	c.state.ErrorMessage = ""
	c.mu.Unlock()

	c.notify()
}

// settle marks one fetch finished after its subscribers have been notified.
func (c *Controller[T]) settle() {
	c.mu.Lock()
	c.inflight--
	c.idle.Broadcast()
	c.mu.Unlock()
}

func pageCount(total, size int) int {
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
