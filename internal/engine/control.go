package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock supplies the frame timestamp used for cooldowns.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock, which carries Go's monotonic reading.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock stopped at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// QuitSignal is polled once per frame; true stops the loop.
type QuitSignal interface {
	QuitRequested() bool
}

// PauseSignal is polled once per frame; while true gestures are ignored.
type PauseSignal interface {
	Paused() bool
}

// Control is a QuitSignal and PauseSignal that other goroutines (tray,
// signal handlers) flip.
type Control struct {
	quit   atomic.Bool
	paused atomic.Bool
}

// NewControl creates a running, unpaused control.
func NewControl() *Control {
	return &Control{}
}

// Quit asks the loop to stop after the current frame.
func (c *Control) Quit() { c.quit.Store(true) }

func (c *Control) QuitRequested() bool { return c.quit.Load() }

// SetPaused pauses or resumes gesture evaluation.
func (c *Control) SetPaused(paused bool) { c.paused.Store(paused) }

func (c *Control) Paused() bool { return c.paused.Load() }

// TogglePause flips the pause flag and returns the new value.
func (c *Control) TogglePause() bool {
	for {
		old := c.paused.Load()
		if c.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
