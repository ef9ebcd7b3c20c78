/*
Package session holds the client-side authentication state: the token, the user it
belongs to, and where the session is in its lifecycle.

A Store starts Uninitialized with whatever token was persisted by a previous run.
Initialize validates that token against the backend exactly once and settles on
Authenticated or Anonymous. Login and Logout are the only other ways the session
changes. The API client credential is swapped together with the in-memory token, and
the persisted token is written in the same order as those commits, before observers
hear about them.
*/
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/api"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/storage"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/auth/jwt"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/logx"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/observer"
)

// LoginFallback is shown when a failed login carries no message of its own.
const LoginFallback = "Login failed. Please check your credentials and try again."

// persistTimeout bounds storage writes made outside a caller's context.
const persistTimeout = 5 * time.Second

// Status is the lifecycle state of a session.
type Status int

const (
	Uninitialized Status = iota
	Checking
	Authenticated
	Anonymous
)

func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	Status Status
	Token  string
	User   *library.User
}

// Backend is the part of the library API the session needs.
type Backend interface {
	ObtainToken(ctx context.Context, username, password string) (string, error)
	Me(ctx context.Context, opts ...api.RequestOption) (library.User, error)
}

// Credential receives the token attached to outgoing requests.
type Credential interface {
	SetAuthToken(token string)
}

// Store is the session state machine. It is safe for concurrent use.
type Store struct {
	backend Backend
	cred    Credential
	persist storage.Store
	now     func() time.Time

	initOnce sync.Once

	// persistMu orders writes to persist the same way as the in-memory commits they
	// follow. It is always taken before mu and released before observers run.
	persistMu sync.Mutex

	mu     sync.Mutex
	status Status
	token  string
	user   *library.User

	observers observer.Set[Snapshot]
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for the local token expiry check.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an Uninitialized Store.
func New(backend Backend, cred Credential, persist storage.Store, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		cred:    cred,
		persist: persist,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Status: s.status, Token: s.token}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Status returns the current lifecycle state.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// User returns the authenticated user. ok is false unless the session is Authenticated.
func (s *Store) User() (user library.User, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return library.User{}, false
	}
	return *s.user, true
}

// Subscribe registers fn to be called after every state change.
// fn must not call Login, Logout or Initialize synchronously.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return s.observers.Subscribe(fn)
}

func (s *Store) notify() {
	s.observers.Publish(s.Snapshot)
}

// Initialize validates the persisted token. It runs at most once per Store; concurrent
// and later callers wait for and share the first call's outcome. Failures are logged
// and resolve the session to Anonymous; they are never returned.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		s.initialize(ctx)
	})
}

func (s *Store) initialize(ctx context.Context) {
	token, ok, err := s.persist.Get(ctx, storage.KeyToken)
	if err != nil {
		logx.Warn("Failed to read persisted token", "component", "session", "error", err.Error())
		ok = false
	}

	if !ok || token == "" {
		s.mu.Lock()
		changed := s.status == Uninitialized
		if changed {
			s.status = Anonymous
		}
		s.mu.Unlock()

		if changed {
			s.notify()
		}
		return
	}

	s.mu.Lock()
	if s.status != Uninitialized {
		// A login or logout already settled the session.
		s.mu.Unlock()
		return
	}
	s.token = token
	s.cred.SetAuthToken(token)
	s.status = Checking
	s.mu.Unlock()
	s.notify()

	if jwt.IsExpired(token, s.now()) {
		s.reject(ctx, token, errs.NewError(errs.ErrSessionExpired))
		return
	}

	user, err := s.backend.Me(ctx, api.WithToken(token))
	if err != nil {
		s.reject(ctx, token, err)
		return
	}

	s.mu.Lock()
	applied := s.status == Checking && s.token == token
	if applied {
		s.user = &user
		s.status = Authenticated
	}
	s.mu.Unlock()

	if applied {
		logx.Debug("Session restored", "component", "session", "username", user.Username)
		s.notify()
	}
}

// reject resets the session to Anonymous if token is still the one being validated.
func (s *Store) reject(ctx context.Context, token string, cause error) {
	logx.Warn("Persisted token rejected, signing out", "component", "session", "error", cause.Error())

	s.persistMu.Lock()
	s.mu.Lock()
	applied := s.status == Checking && s.token == token
	if applied {
		s.clearLocked()
	}
	s.mu.Unlock()

	if applied {
		s.savePersisted(ctx, "")
	}
	s.persistMu.Unlock()

	if applied {
		s.notify()
	}
}

// clearLocked drops the user, the token and the credential.
func (s *Store) clearLocked() {
	s.user = nil
	s.token = ""
	s.cred.SetAuthToken("")
	s.status = Anonymous
}

// savePersisted stores token, or deletes the persisted token when it is empty.
// Callers hold persistMu but not mu, so readers are never blocked on storage.
func (s *Store) savePersisted(ctx context.Context, token string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if token == "" {
		if err := s.persist.Delete(ctx, storage.KeyToken); err != nil {
			logx.Error(err, "Failed to delete persisted token", "component", "session")
		}
		return
	}
	if err := s.persist.Set(ctx, storage.KeyToken, token); err != nil {
		logx.Error(err, "Failed to persist token", "component", "session")
	}
}

// Login authenticates with the backend. Nothing changes unless both the token exchange
// and the user lookup succeed; the new session is then committed in one step.
// Failures are returned as an ErrAuthentication *errs.CustomError whose message comes
// from the backend's error payload when it has one.
func (s *Store) Login(ctx context.Context, username, password string) (library.User, error) {
	token, err := s.backend.ObtainToken(ctx, username, password)
	if err != nil {
		return library.User{}, authError(err)
	}

	user, err := s.backend.Me(ctx, api.WithToken(token))
	if err != nil {
		return library.User{}, authError(err)
	}

	s.persistMu.Lock()
	s.mu.Lock()
	s.token = token
	s.cred.SetAuthToken(token)
	s.user = &user
	s.status = Authenticated
	s.mu.Unlock()

	s.savePersisted(ctx, token)
	s.persistMu.Unlock()

	logx.Info("Signed in", "component", "session", "username", user.Username, "role", string(user.Role))
	s.notify()

	return user, nil
}

// Logout ends the session locally. It never calls the backend and is idempotent.
func (s *Store) Logout() {
	s.persistMu.Lock()
	s.mu.Lock()
	changed := s.status != Anonymous || s.token != ""
	s.clearLocked()
	s.mu.Unlock()

	s.savePersisted(context.Background(), "")
	s.persistMu.Unlock()

	if changed {
		s.notify()
	}
}

func authError(cause error) *errs.CustomError {
	e := errs.NewError(errs.ErrAuthentication).WithMessage(errs.MessageFrom(cause, LoginFallback))
	var ce *errs.CustomError
	if errors.As(cause, &ce) {
		e.WithResponse(ce.Status, ce.Payload)
	}
	return e.Wrap(cause)
}
