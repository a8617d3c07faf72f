package chat

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lexdraft/internal/pkg/logx"
)

const (
	// widgetIdleTimeout is how long a widget survives without any interaction.
	widgetIdleTimeout = time.Hour

	// hubCleanupInterval is how often idle widgets are swept.
	hubCleanupInterval = 10 * time.Minute
)

// widgetEntry pairs a widget with its last-touched timestamp.
type widgetEntry struct {
	widget   *Widget
	lastSeen time.Time
}

// Hub owns the per-session chat widgets. Widgets are keyed by the opaque
// session id, so every authenticated browser session gets its own transcript.
type Hub struct {
	responder *Responder

	mu      sync.Mutex
	widgets map[string]*widgetEntry

	stop chan struct{}
	wg   sync.WaitGroup

	logger zerolog.Logger
}

// NewHub constructs a Hub and starts its idle sweep.
func NewHub(responder *Responder) *Hub {
	hubLogger := logx.Logger().With().Str("component", "ChatHub").Logger()

	h := &Hub{
		responder: responder,
		widgets:   make(map[string]*widgetEntry),
		stop:      make(chan struct{}),
		logger:    hubLogger,
	}

	h.wg.Add(1)
	go h.runCleanupLoop()

	return h
}

// Widget returns the session's widget, creating a fresh one on first sight.
// A hit refreshes the idle timer.
func (h *Hub) Widget(sessionID string) *Widget {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry, ok := h.widgets[sessionID]
	if !ok {
		entry = &widgetEntry{widget: NewWidget(h.responder)}
		h.widgets[sessionID] = entry
	}
	entry.lastSeen = time.Now()

	return entry.widget
}

// Remove drops the session's widget, discarding its transcript. Called when
// the session itself ends.
func (h *Hub) Remove(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.widgets, sessionID)
}

func (h *Hub) runCleanupLoop() {
	defer h.wg.Done()

	ticker := time.NewTicker(hubCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			h.expireIdleWidgets()
		}
	}
}

func (h *Hub) expireIdleWidgets() {
	cutoff := time.Now().Add(-widgetIdleTimeout)

	h.mu.Lock()
	removed := 0
	for id, entry := range h.widgets {
		if entry.lastSeen.Before(cutoff) {
			delete(h.widgets, id)
			removed++
		}
	}
	remaining := len(h.widgets)
	h.mu.Unlock()

	if removed > 0 {
		h.logger.Info().Int("removed", removed).Int("active_widgets", remaining).Msg("Idle chat widgets expired.")
	}
}

// Shutdown stops the idle sweep and drops all widgets.
func (h *Hub) Shutdown() {
	close(h.stop)
	h.wg.Wait()

	h.mu.Lock()
	h.widgets = nil
	h.mu.Unlock()
}
