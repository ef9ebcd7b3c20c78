package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/api"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/gate"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/mutation"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/notify"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/session"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/storage"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/theme"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/configs"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/debounce"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/logx"
)

// AppDeps carries everything the commands need.
type AppDeps struct {
	Config   *configs.AppConfig
	Store    storage.Store
	Client   *api.Client
	Library  *library.Service
	Session  *session.Store
	Theme    *theme.Service
	Notifier *notify.Center
	Mutator  *mutation.Mutator

	// AfterFunc schedules search debounces. Nil uses the runtime timer.
	AfterFunc debounce.AfterFunc

	console *console
}

// NewAppDeps opens the persisted state and wires the client stack from cfg.
func NewAppDeps(ctx context.Context, cfg *configs.AppConfig) (*AppDeps, error) {
	store, err := storage.NewStore(ctx, storage.ServiceConfig{
		Backend:           cfg.Storage,
		StateDir:          cfg.StateDir,
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
		S3Prefix:          cfg.S3Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("open state storage: %w", err)
	}

	client, err := api.New(cfg.APIURL,
		api.WithAuthScheme(cfg.AuthScheme),
		api.WithTimeout(cfg.RequestTimeout),
		api.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
	)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create api client: %w", err)
	}

	svc := library.NewService(client)
	center := notify.NewCenter(notify.WithDuration(cfg.NotifyDuration))

	deps := &AppDeps{
		Config:   cfg,
		Store:    store,
		Client:   client,
		Library:  svc,
		Session:  session.New(svc, client, store),
		Theme:    theme.NewService(store),
		Notifier: center,
		Mutator:  mutation.New(center),
		console:  &console{w: os.Stdout},
	}
	center.Subscribe(deps.printNotification)
	gate.Watch(deps.Session, func(d gate.Decision, snap session.Snapshot) {
		logx.Debug("Navigation decision", "component", "gate", "decision", d.String(), "status", snap.Status.String())
	})

	return deps, nil
}

// Close releases the persisted state.
func (d *AppDeps) Close() error {
	return d.Store.Close()
}

func (d *AppDeps) printNotification(v notify.View) {
	if !v.Visible {
		return
	}
	badge := "[ok]"
	if v.Kind == notify.Error {
		badge = "[error]"
	}
	fmt.Fprintf(d.console, "%s %s\n", badge, v.Message)
}

// console serialises writes from the command goroutine, list fetches and notifications.
type console struct {
	mu sync.Mutex
	w  io.Writer
}

func (c *console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.Write(p)
}

func (c *console) setOutput(w io.Writer) {
	if w == c {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.w = w
}
