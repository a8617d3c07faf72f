package landing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestApplyWheel(t *testing.T) {
	t.Run("delta above threshold advances", func(t *testing.T) {
		s := Apply(InitialState(), WheelEvent{DeltaY: 50}, t0)
		assert.Equal(t, 2, s.Index)
	})

	t.Run("small delta is ignored entirely", func(t *testing.T) {
		s := Apply(InitialState(), WheelEvent{DeltaY: 29}, t0)
		assert.Equal(t, InitialState(), s)
	})

	t.Run("delta exactly at threshold is ignored", func(t *testing.T) {
		s := Apply(InitialState(), WheelEvent{DeltaY: WheelThreshold}, t0)
		assert.Equal(t, InitialState(), s)
	})

	t.Run("wheel during lock window is ignored", func(t *testing.T) {
		s := Apply(InitialState(), WheelEvent{DeltaY: 50}, t0)
		locked := Apply(s, WheelEvent{DeltaY: 80}, t0.Add(500*time.Millisecond))
		assert.Equal(t, s, locked)
	})

	t.Run("wheel after lock expiry advances again", func(t *testing.T) {
		s := Apply(InitialState(), WheelEvent{DeltaY: 50}, t0)
		after := Apply(s, WheelEvent{DeltaY: 80}, t0.Add(LockWindow+time.Millisecond))
		assert.Equal(t, 3, after.Index)
	})

	t.Run("ignored wheel does not re-arm the lock", func(t *testing.T) {
		s := Apply(InitialState(), WheelEvent{DeltaY: 50}, t0)
		s = Apply(s, WheelEvent{DeltaY: 80}, t0.Add(time.Second))
		// Lock still expires at t0+LockWindow, not t0+1s+LockWindow.
		after := Apply(s, WheelEvent{DeltaY: 80}, t0.Add(LockWindow+time.Millisecond))
		assert.Equal(t, 3, after.Index)
	})

	t.Run("scrolling down from the last section wraps to the first", func(t *testing.T) {
		s := State{Index: SectionCount}
		s = Apply(s, WheelEvent{DeltaY: 50}, t0)
		assert.Equal(t, FirstSection, s.Index)
	})

	t.Run("scrolling up from the first section wraps to the last", func(t *testing.T) {
		s := Apply(InitialState(), WheelEvent{DeltaY: -50}, t0)
		assert.Equal(t, SectionCount, s.Index)
	})
}

func TestApplyKeyboard(t *testing.T) {
	t.Run("arrow down advances", func(t *testing.T) {
		s := Apply(InitialState(), KeyEvent{Key: KeyArrowDown}, t0)
		assert.Equal(t, 2, s.Index)
	})

	t.Run("arrow down clamps at the last section", func(t *testing.T) {
		s := Apply(State{Index: SectionCount}, KeyEvent{Key: KeyArrowDown}, t0)
		assert.Equal(t, SectionCount, s.Index)
	})

	t.Run("arrow up clamps at the first section", func(t *testing.T) {
		s := Apply(InitialState(), KeyEvent{Key: KeyArrowUp}, t0)
		assert.Equal(t, FirstSection, s.Index)
	})

	t.Run("keys are not blocked by the wheel lock", func(t *testing.T) {
		s := Apply(InitialState(), WheelEvent{DeltaY: 50}, t0)
		s = Apply(s, KeyEvent{Key: KeyArrowDown}, t0.Add(100*time.Millisecond))
		assert.Equal(t, 3, s.Index)
	})

	t.Run("keys do not arm the lock", func(t *testing.T) {
		s := Apply(InitialState(), KeyEvent{Key: KeyArrowDown}, t0)
		s = Apply(s, WheelEvent{DeltaY: 50}, t0.Add(time.Millisecond))
		assert.Equal(t, 3, s.Index)
	})
}

func TestApplyJump(t *testing.T) {
	t.Run("jump moves directly to the target", func(t *testing.T) {
		s := Apply(InitialState(), JumpEvent{To: 3}, t0)
		assert.Equal(t, 3, s.Index)
	})

	t.Run("jump bypasses the wheel lock", func(t *testing.T) {
		s := Apply(InitialState(), WheelEvent{DeltaY: 50}, t0)
		s = Apply(s, JumpEvent{To: 4}, t0.Add(100*time.Millisecond))
		assert.Equal(t, 4, s.Index)
	})

	t.Run("out of range targets are ignored", func(t *testing.T) {
		s := Apply(InitialState(), JumpEvent{To: 0}, t0)
		assert.Equal(t, FirstSection, s.Index)
		s = Apply(s, JumpEvent{To: SectionCount + 1}, t0)
		assert.Equal(t, FirstSection, s.Index)
	})
}

func TestNavigatorConcurrentSafety(t *testing.T) {
	n := NewNavigator()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				n.Handle(KeyEvent{Key: KeyArrowDown})
				n.Handle(KeyEvent{Key: KeyArrowUp})
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	idx := n.Section()
	assert.GreaterOrEqual(t, idx, FirstSection)
	assert.LessOrEqual(t, idx, SectionCount)
}

func TestSections(t *testing.T) {
	sections := Sections()
	assert.Len(t, sections, SectionCount)
	for i, s := range sections {
		assert.Equal(t, i+1, s.Index)
		assert.NotEmpty(t, s.Title)
	}
}
