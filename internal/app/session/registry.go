/*
Package session contains the session layer built on top of the external identity provider.

This file defines the Registry, which hosts one Manager per signed-in browser and ties
its lifecycle to the opaque session id minted into the browser's token. Idle sessions
are expired in the background and everything is drained at process shutdown.
*/
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lexdraft/internal/pkg/logx"
	"lexdraft/internal/pkg/randx"
)

const (
	// sessionIdleTimeout is how long a session may go untouched before the
	// registry expires it. Kept above the browser token lifetime so a valid
	// token always finds its session.
	sessionIdleTimeout = 25 * time.Hour

	// cleanupInterval is how often the expiry sweep runs.
	cleanupInterval = 15 * time.Minute
)

// sessionEntry pairs a Manager with its last-touched timestamp.
type sessionEntry struct {
	manager  *Manager
	lastSeen time.Time
}

// Registry owns every live session Manager, keyed by opaque session id.
type Registry struct {
	// newStore builds a fresh Store for each session; every browser gets its
	// own provider credential holder.
	newStore func() Store

	mu       sync.RWMutex
	sessions map[string]*sessionEntry

	stop chan struct{}
	wg   sync.WaitGroup

	logger zerolog.Logger
}

// NewRegistry constructs a Registry using newStore as the per-session Store
// factory and starts the background expiry sweep.
func NewRegistry(newStore func() Store) *Registry {
	registryLogger := logx.Logger().With().Str("component", "SessionRegistry").Logger()

	r := &Registry{
		newStore: newStore,
		sessions: make(map[string]*sessionEntry),
		stop:     make(chan struct{}),
		logger:   registryLogger,
	}

	r.wg.Add(1)
	go r.runCleanupLoop()

	return r
}

// Open creates a new session: a fresh Store, an initialized Manager, and an
// opaque id under which both are registered.
func (r *Registry) Open(ctx context.Context) (string, *Manager, error) {
	id, err := randx.SessionID()
	if err != nil {
		return "", nil, err
	}

	manager := NewManager(r.newStore())
	manager.Initialize(ctx)

	r.mu.Lock()
	r.sessions[id] = &sessionEntry{
		manager:  manager,
		lastSeen: time.Now(),
	}
	count := len(r.sessions)
	r.mu.Unlock()

	r.logger.Info().Str("session_id", id).Int("active_sessions", count).Msg("Session opened.")

	return id, manager, nil
}

// Get returns the Manager for the given session id, or nil when the session is
// unknown or already expired. A hit refreshes the idle timer.
func (r *Registry) Get(id string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[id]
	if !ok {
		return nil
	}

	entry.lastSeen = time.Now()
	return entry.manager
}

// Close shuts the session's Manager down and removes it from the registry.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	entry, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if ok {
		entry.manager.Shutdown()
		r.logger.Info().Str("session_id", id).Msg("Session closed.")
	}
}

// runCleanupLoop periodically expires sessions that have been idle longer than
// sessionIdleTimeout.
func (r *Registry) runCleanupLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.expireIdleSessions()
		}
	}
}

// expireIdleSessions removes and shuts down every idle session.
func (r *Registry) expireIdleSessions() {
	cutoff := time.Now().Add(-sessionIdleTimeout)

	r.mu.Lock()
	var expired []*sessionEntry
	for id, entry := range r.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			expired = append(expired, entry)
		}
	}
	remaining := len(r.sessions)
	r.mu.Unlock()

	for _, entry := range expired {
		entry.manager.Shutdown()
	}

	if len(expired) > 0 {
		r.logger.Info().Int("expired", len(expired)).Int("active_sessions", remaining).Msg("Idle sessions expired.")
	}
}

// Shutdown stops the expiry sweep and shuts down every remaining session.
func (r *Registry) Shutdown() {
	r.logger.Info().Msg("Shutting down session registry...")

	close(r.stop)
	r.wg.Wait()

	r.mu.Lock()
	entries := make([]*sessionEntry, 0, len(r.sessions))
	for _, entry := range r.sessions {
		entries = append(entries, entry)
	}
	r.sessions = nil
	r.mu.Unlock()

	for _, entry := range entries {
		entry.manager.Shutdown()
	}

	r.logger.Info().Msg("Session registry shutdown complete.")
}
