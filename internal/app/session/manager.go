/*
Package session contains the session layer built on top of the external identity provider.

This file defines the Manager, the single source of truth for "who is signed in" within
one browser session. It wraps a Store, mirrors the provider's change stream into local
state, and exposes the sign-in/sign-up/sign-out/update operations to the handlers.
*/
package session

import (
	"context"
	"sync"

	"lexdraft/internal/app/user"
	"lexdraft/internal/pkg/errs"
	"lexdraft/internal/pkg/logx"
)

// DefaultSignupTokens is the token balance granted to new accounts.
const DefaultSignupTokens = 2

// DefaultSignupPlan is the plan assigned to new accounts.
const DefaultSignupPlan = "Free"

// Manager is the reactive session context. It must be initialized exactly once
// (Initialize) before any other method is called; using it earlier is a
// programming error and panics. The provider's change stream is the only path
// that mutates the local user — the explicit operations never write it directly,
// which keeps a racing stream event and an in-flight call from fighting over
// state: the last emitted event wins.
type Manager struct {
	store Store

	mu          sync.RWMutex
	usr         *user.User
	loading     bool
	initialized bool

	unsubscribe func()
}

// NewManager constructs a Manager over the given store. The manager is inert
// until Initialize is called.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Initialize subscribes to the store's change stream and fetches the current
// session. While the fetch is pending the manager reports loading=true with no
// user. A failed fetch is treated as "signed out", never as a fatal error.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		panic("session: Manager.Initialize called twice")
	}
	m.initialized = true
	m.loading = true
	m.mu.Unlock()

	m.unsubscribe = m.store.OnSessionChange(m.applySession)

	session, err := m.store.GetCurrentSession(ctx)
	if err != nil {
		logx.Warn("Initial session fetch failed, treating as signed out", "error", err)
		session = &Session{}
	}
	m.applySession(session)
}

// applySession replaces the local user with the session's user and clears the
// loading flag. Called from the change stream and from Initialize; the mutex
// makes each application atomic, so events apply fully in arrival order.
func (m *Manager) applySession(session *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session != nil && session.User != nil {
		cloned := session.User.Clone()
		m.usr = &cloned
	} else {
		m.usr = nil
	}
	m.loading = false
}

// mustBeInitialized enforces the fail-fast contract: the session context must
// not be consumed before Initialize has run.
func (m *Manager) mustBeInitialized() {
	m.mu.RLock()
	ok := m.initialized
	m.mu.RUnlock()
	if !ok {
		panic("session: Manager used before Initialize")
	}
}

// CurrentUser returns a copy of the signed-in user, or nil when signed out.
// Callers get an independent copy; the session user is single-writer (the
// change stream) and must never be mutated by views.
func (m *Manager) CurrentUser() *user.User {
	m.mustBeInitialized()

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.usr == nil {
		return nil
	}
	cloned := m.usr.Clone()
	return &cloned
}

// Loading reports whether the initial session fetch is still pending.
func (m *Manager) Loading() bool {
	m.mustBeInitialized()

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// SignIn delegates to the store. Local state is not touched here; the store's
// change notification is the sole mutation path.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	m.mustBeInitialized()
	return m.store.SignIn(ctx, email, password)
}

// SignUp delegates to the store with the default metadata for new accounts
// (full name, Free plan, starter token balance).
func (m *Manager) SignUp(ctx context.Context, email, password, fullName string) error {
	m.mustBeInitialized()

	metadata := user.Metadata{
		FullName: user.String(fullName),
		PlanName: user.String(DefaultSignupPlan),
		Tokens:   user.Int(DefaultSignupTokens),
	}
	return m.store.SignUp(ctx, email, password, metadata)
}

// SignOut delegates to the store; the emitted empty session clears local state.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mustBeInitialized()
	return m.store.SignOut(ctx)
}

// UpdateUser merges the patch into the current metadata and pushes the merged
// bag to the store. The current metadata is read fresh under the lock, not
// from a caller-held snapshot, so concurrent updates cannot silently drop
// fields. On success the session is re-fetched to refresh local state; on
// failure the error is returned and local state is left unchanged.
func (m *Manager) UpdateUser(ctx context.Context, patch user.MetadataPatch) error {
	m.mustBeInitialized()

	m.mu.RLock()
	if m.usr == nil {
		m.mu.RUnlock()
		return errs.NewError(errs.ErrUnauthorized)
	}
	current := m.usr.Metadata.Clone()
	m.mu.RUnlock()

	merged := current.Merge(patch)

	if err := m.store.UpdateUserMetadata(ctx, merged); err != nil {
		return err
	}

	session, err := m.store.GetCurrentSession(ctx)
	if err != nil {
		// The write went through; a failed refresh only delays the local echo
		// until the next change notification.
		logx.Warn("Session refresh after metadata update failed", "error", err)
		return nil
	}
	m.applySession(session)

	return nil
}

// Shutdown tears down the change stream subscription. The manager must not be
// used afterwards.
func (m *Manager) Shutdown() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}
