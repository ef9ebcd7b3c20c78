/*
Package theme keeps the user's colour theme preference.
*/
package theme

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/storage"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/logx"
)

// Default is used when nothing valid was saved.
const Default = "light"

// Available lists every selectable theme.
var Available = []string{
	"light", "dark", "cupcake", "bumblebee", "emerald", "corporate", "synthwave",
	"retro", "cyberpunk", "valentine", "halloween", "garden", "forest", "aqua",
	"lofi", "pastel", "fantasy", "wireframe", "black", "luxury", "dracula", "cmyk",
	"autumn", "business", "acid", "lemonade", "night", "coffee", "winter",
}

// IsValid reports whether name is one of Available.
func IsValid(name string) bool {
	return slices.Contains(Available, name)
}

// Service reads and writes the preference under storage.KeyTheme.
type Service struct {
	store storage.Store

	mu      sync.RWMutex
	current string
}

// NewService returns a Service whose current theme is Default until Load is called.
func NewService(store storage.Store) *Service {
	return &Service{store: store, current: Default}
}

// Load reads the saved theme. Missing, unreadable or unknown values yield Default.
func (s *Service) Load(ctx context.Context) string {
	name, ok, err := s.store.Get(ctx, storage.KeyTheme)
	if err != nil {
		logx.Warn("Failed to read theme preference", "component", "theme", "error", err.Error())
	}
	if !ok || !IsValid(name) {
		name = Default
	}

	s.mu.Lock()
	s.current = name
	s.mu.Unlock()

	return name
}

// Current returns the active theme.
func (s *Service) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set activates and saves name. Unknown names are rejected with ErrValidation.
func (s *Service) Set(ctx context.Context, name string) error {
	if !IsValid(name) {
		return errs.NewError(errs.ErrValidation).WithMessage(fmt.Sprintf("Unknown theme %q.", name))
	}

	if err := s.store.Set(ctx, storage.KeyTheme, name); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = name
	s.mu.Unlock()

	return nil
}
