package gesture

import (
	"time"

	"github.com/ayusman/handmouse/internal/action"
)

// State is the debounce and drag memory carried between frames. It is a
// value record; Track and Release return a new State.
type State struct {
	Dragging  bool
	LastFired [numClasses]time.Time
}

// Outcome is what the tracker decided for one frame.
type Outcome struct {
	Actions []action.Action

	// Fired is the click-class that produced an action, or ClassNone.
	Fired Class

	// Suppressed is the click-class that matched but was still cooling down.
	Suppressed Class
}

// Cooldown returns the minimum interval between firings of c. Scroll and
// unknown classes are never gated.
func (cfg Config) Cooldown(c Class) time.Duration {
	switch c {
	case ClassLeftClick:
		return cfg.Cooldowns.LeftClick
	case ClassRightClick:
		return cfg.Cooldowns.RightClick
	case ClassCopy:
		return cfg.Cooldowns.Copy
	case ClassPaste:
		return cfg.Cooldowns.Paste
	default:
		return 0
	}
}

// Ready reports whether class c may fire at now.
func (s State) Ready(cfg Config, c Class, now time.Time) bool {
	last := s.LastFired[c]
	if last.IsZero() {
		return true
	}
	return now.Sub(last) >= cfg.Cooldown(c)
}

// Track applies drag transitions and cooldowns to a decision. Drag
// transitions are level-triggered and never cooldown-gated; click-class
// actions fire only when their cooldown has elapsed. The same now is used
// for every check in the frame.
func Track(cfg Config, d Decision, s State, now time.Time) (Outcome, State) {
	var out Outcome

	switch {
	case d.Drag && !s.Dragging:
		s.Dragging = true
		out.Actions = append(out.Actions, action.MouseDown())
	case !d.Drag && s.Dragging:
		s.Dragging = false
		out.Actions = append(out.Actions, action.MouseUp())
	}

	if d.Class == ClassNone {
		return out, s
	}

	if !s.Ready(cfg, d.Class, now) {
		out.Suppressed = d.Class
		return out, s
	}

	a, ok := classAction(cfg, d)
	if !ok {
		return out, s
	}

	s.LastFired[d.Class] = now
	out.Fired = d.Class
	out.Actions = append(out.Actions, a)

	return out, s
}

// Release ends an active drag. It is used when the hand is lost, tracking
// is paused or the frame stream ends.
func Release(s State) ([]action.Action, State) {
	if !s.Dragging {
		return nil, s
	}
	s.Dragging = false
	return []action.Action{action.MouseUp()}, s
}

func classAction(cfg Config, d Decision) (action.Action, bool) {
	switch d.Class {
	case ClassLeftClick:
		return action.Click(action.ButtonLeft), true
	case ClassRightClick:
		return action.Click(action.ButtonRight), true
	case ClassScroll:
		if d.ScrollDelta == 0 {
			return action.Action{}, false
		}
		return action.Scroll(d.ScrollDelta), true
	case ClassCopy:
		return action.KeyCombo(cfg.modifier(), "c"), true
	case ClassPaste:
		return action.KeyCombo(cfg.modifier(), "v"), true
	}
	return action.Action{}, false
}
