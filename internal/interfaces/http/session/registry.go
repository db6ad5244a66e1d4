// internal/interfaces/http/session/registry.go
package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/cart"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/wishlist"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/infrastructure/remote"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/infrastructure/storage"
)

// Session is one UI session's state: a cart engine and a wishlist engine
// bound to a session-scoped remote client and snapshot store.
type Session struct {
	ID       string
	Remote   *remote.Client
	Cart     *cart.Engine
	Wishlist *wishlist.Engine

	mu          sync.Mutex
	initialized bool
	authed      bool
	token       string
}

// EnsureAuth drives the engines' initialize/sync cycle. It is called on every
// request; the engines only re-sync when the authentication state or token
// actually changed. Sync failures are returned so the caller can log them;
// the engines keep their previous state.
func (s *Session) EnsureAuth(ctx context.Context, token string, authenticated bool) error {
	s.mu.Lock()
	changed := !s.initialized || authenticated != s.authed || token != s.token
	s.initialized = true
	s.authed = authenticated
	s.token = token
	s.mu.Unlock()

	if !changed {
		return nil
	}

	s.Remote.SetToken(token)
	cartErr := s.Cart.SyncAuthState(ctx, authenticated)
	wishErr := s.Wishlist.SyncAuthState(ctx, authenticated)
	if cartErr != nil {
		return cartErr
	}
	return wishErr
}

// Authenticated reports the session's last-seen authentication state.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authed
}

// Registry holds the live sessions of this gateway instance. Engine state is
// in-memory per node; guest snapshots live in the shared store, so a session
// landing on another node rebuilds from there.
type Registry struct {
	base   *remote.Client
	store  storage.Store
	logger *logrus.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry(base *remote.Client, store storage.Store, logger *logrus.Logger) *Registry {
	return &Registry{
		base:     base,
		store:    store,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for an id, creating it on first sight.
func (r *Registry) Get(sessionID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[sessionID]; ok {
		return s
	}

	client := r.base.Clone()
	scoped := storage.WithPrefix(r.store, "session:"+sessionID+":")
	s := &Session{
		ID:       sessionID,
		Remote:   client,
		Cart:     cart.NewEngine(client, scoped, r.logger),
		Wishlist: wishlist.NewEngine(client.Wishlist(), scoped, r.logger),
	}
	r.sessions[sessionID] = s
	return s
}

// Drop discards a session's in-memory engines. Guest snapshots survive in the
// store.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
