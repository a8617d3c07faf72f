/*
Package landing drives the landing page experience.

This file defines the Tracker, which keeps one Navigator per anonymous visitor so a
sequence of navigation events from the same browser lands on the same state machine.
Section state is deliberately not persisted: a reload starts over at section one.
*/
package landing

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lexdraft/internal/pkg/logx"
)

const (
	// visitorIdleTimeout is how long a visitor's navigator survives without input.
	visitorIdleTimeout = 30 * time.Minute

	// trackerCleanupInterval is how often idle navigators are swept.
	trackerCleanupInterval = 5 * time.Minute
)

// visitorEntry pairs a Navigator with its last-touched timestamp.
type visitorEntry struct {
	navigator *Navigator
	lastSeen  time.Time
}

// Tracker owns the per-visitor navigators, keyed by the opaque visitor id
// carried in a cookie.
type Tracker struct {
	mu       sync.Mutex
	visitors map[string]*visitorEntry

	stop chan struct{}
	wg   sync.WaitGroup

	logger zerolog.Logger
}

// NewTracker constructs a Tracker and starts its idle sweep.
func NewTracker() *Tracker {
	trackerLogger := logx.Logger().With().Str("component", "LandingTracker").Logger()

	t := &Tracker{
		visitors: make(map[string]*visitorEntry),
		stop:     make(chan struct{}),
		logger:   trackerLogger,
	}

	t.wg.Add(1)
	go t.runCleanupLoop()

	return t
}

// Navigator returns the visitor's navigator, creating one at the initial state
// on first sight. A hit refreshes the idle timer.
func (t *Tracker) Navigator(visitorID string) *Navigator {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.visitors[visitorID]
	if !ok {
		entry = &visitorEntry{navigator: NewNavigator()}
		t.visitors[visitorID] = entry
	}
	entry.lastSeen = time.Now()

	return entry.navigator
}

// runCleanupLoop periodically drops navigators for visitors that went quiet.
func (t *Tracker) runCleanupLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(trackerCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.expireIdleVisitors()
		}
	}
}

func (t *Tracker) expireIdleVisitors() {
	cutoff := time.Now().Add(-visitorIdleTimeout)

	t.mu.Lock()
	removed := 0
	for id, entry := range t.visitors {
		if entry.lastSeen.Before(cutoff) {
			delete(t.visitors, id)
			removed++
		}
	}
	remaining := len(t.visitors)
	t.mu.Unlock()

	if removed > 0 {
		t.logger.Info().Int("removed", removed).Int("active_visitors", remaining).Msg("Idle landing visitors expired.")
	}
}

// Shutdown stops the idle sweep and drops all navigators.
func (t *Tracker) Shutdown() {
	close(t.stop)
	t.wg.Wait()

	t.mu.Lock()
	t.visitors = nil
	t.mu.Unlock()
}
