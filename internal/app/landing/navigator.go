/*
Package landing drives the landing page: the full-viewport section navigator state
machine and the content of the sections it cycles through.

The navigator is modeled as a pure transition function over {index, lock expiry}
with the wall clock passed in, so the debounce behavior is testable without timers.
*/
package landing

import (
	"sync"
	"time"
)

const (
	// SectionCount is the number of full-viewport sections on the landing page.
	SectionCount = 4

	// FirstSection is the index of the initial section. Section indices are 1-based.
	FirstSection = 1

	// WheelThreshold is the minimum |deltaY| a wheel event must carry to count
	// as a navigation gesture. Smaller deltas are trackpad noise.
	WheelThreshold = 30.0

	// LockWindow is the debounce window after a wheel navigation. Wheel events
	// fire many times per physical gesture; without this window one flick would
	// skip several sections. Tuned empirically.
	LockWindow = 1200 * time.Millisecond
)

// State is the navigator's complete state: the visible section and the instant
// until which wheel input is suppressed.
type State struct {
	Index      int
	LockExpiry time.Time
}

// InitialState returns the navigator's starting state: first section, lock free.
func InitialState() State {
	return State{Index: FirstSection}
}

// Event is a navigation input. The concrete types are WheelEvent, KeyEvent, and
// JumpEvent.
type Event interface {
	isNavigationEvent()
}

// WheelEvent is a mouse-wheel or trackpad scroll gesture.
type WheelEvent struct {
	DeltaY float64
}

// Key identifies a keyboard navigation key.
type Key int

const (
	// KeyArrowDown advances to the next section.
	KeyArrowDown Key = iota

	// KeyArrowUp retreats to the previous section.
	KeyArrowUp
)

// KeyEvent is an arrow-key press.
type KeyEvent struct {
	Key Key
}

// JumpEvent is a direct navigation to a specific section, e.g. a click on a
// section indicator.
type JumpEvent struct {
	To int
}

func (WheelEvent) isNavigationEvent() {}
func (KeyEvent) isNavigationEvent()   {}
func (JumpEvent) isNavigationEvent()  {}

// Apply computes the state that follows s after ev arrives at instant now.
//
// Wheel input below the threshold, or arriving while the lock is held, is
// ignored entirely. A counted wheel gesture advances with wraparound in both
// directions and re-arms the lock. Keyboard input clamps at the boundaries
// instead of wrapping and is not subject to the lock — an intentional
// asymmetry with wheel input that is preserved as observed. Direct jumps
// bypass the lock and leave it untouched.
func Apply(s State, ev Event, now time.Time) State {
	switch e := ev.(type) {
	case WheelEvent:
		if e.DeltaY >= -WheelThreshold && e.DeltaY <= WheelThreshold {
			return s
		}
		if now.Before(s.LockExpiry) {
			return s
		}

		next := s
		next.LockExpiry = now.Add(LockWindow)
		if e.DeltaY > 0 {
			if s.Index < SectionCount {
				next.Index = s.Index + 1
			} else {
				next.Index = FirstSection
			}
		} else {
			if s.Index > FirstSection {
				next.Index = s.Index - 1
			} else {
				next.Index = SectionCount
			}
		}
		return next

	case KeyEvent:
		next := s
		switch e.Key {
		case KeyArrowDown:
			if s.Index < SectionCount {
				next.Index = s.Index + 1
			}
		case KeyArrowUp:
			if s.Index > FirstSection {
				next.Index = s.Index - 1
			}
		}
		return next

	case JumpEvent:
		if e.To < FirstSection || e.To > SectionCount {
			return s
		}
		next := s
		next.Index = e.To
		return next

	default:
		return s
	}
}

// Navigator binds the pure transition function to the real clock for one
// visitor. All methods are safe for concurrent use.
type Navigator struct {
	mu    sync.Mutex
	state State
	now   func() time.Time
}

// NewNavigator returns a Navigator at the initial state using the wall clock.
func NewNavigator() *Navigator {
	return &Navigator{
		state: InitialState(),
		now:   time.Now,
	}
}

// Handle applies ev and returns the resulting section index.
func (n *Navigator) Handle(ev Event) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.state = Apply(n.state, ev, n.now())
	return n.state.Index
}

// Section returns the currently visible section index.
func (n *Navigator) Section() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Index
}
