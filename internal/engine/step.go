// Package engine turns landmark frames into input actions. Step is the pure
// per-frame transition; Loop drives it from a frame source.
package engine

import (
	"math"
	"time"

	"github.com/ayusman/handmouse/internal/action"
	"github.com/ayusman/handmouse/internal/cursor"
	"github.com/ayusman/handmouse/internal/detector"
	"github.com/ayusman/handmouse/internal/gesture"
)

// Config bundles every component's parameters.
type Config struct {
	Gesture   gesture.Config
	Smoothing cursor.SmoothingConfig
	Zone      cursor.ActiveZone
	Screen    cursor.Size

	// AbortOnSinkError stops the loop on the first failed dispatch instead
	// of logging it and carrying on.
	AbortOnSinkError bool

	// MaxSourceErrors is the number of consecutive frame source failures
	// after which the loop gives up. Zero never gives up.
	MaxSourceErrors int
}

// State is everything the engine remembers between frames.
type State struct {
	Cursor  cursor.State
	Gesture gesture.State
}

// Result describes what happened on one frame.
type Result struct {
	// Hand is false for frames without a (well-formed) hand.
	Hand bool

	Decision   gesture.Decision
	Fired      gesture.Class
	Suppressed gesture.Class

	// Moved is set when the pointer followed the index tip; Cursor is then
	// the smoothed screen position.
	Moved  bool
	Cursor cursor.Point

	// Actions are in dispatch order: move, drag transition, click-class.
	Actions []action.Action
}

// Step advances the engine by one frame. A nil hand releases an active drag
// and otherwise leaves the state untouched. Step does not modify s.
func Step(cfg Config, s State, hand *detector.HandLandmarks, now time.Time) (Result, State) {
	var r Result

	if hand == nil {
		r.Actions, s.Gesture = gesture.Release(s.Gesture)
		return r, s
	}
	r.Hand = true

	facts := gesture.Measure(cfg.Gesture, hand)
	r.Decision = gesture.Classify(cfg.Gesture, facts, s.Gesture)

	if r.Decision.Move {
		raw := cursor.Map(cursor.Point{X: facts.IndexTipX, Y: facts.IndexTipY}, cfg.Zone, cfg.Screen)
		r.Cursor, s.Cursor = cursor.Smooth(cfg.Smoothing, s.Cursor, raw)
		r.Moved = true
		r.Actions = append(r.Actions, action.Move(
			screenCoord(r.Cursor.X, cfg.Screen.Width),
			screenCoord(r.Cursor.Y, cfg.Screen.Height),
		))
	}

	out, gs := gesture.Track(cfg.Gesture, r.Decision, s.Gesture, now)
	s.Gesture = gs
	r.Fired = out.Fired
	r.Suppressed = out.Suppressed
	r.Actions = append(r.Actions, out.Actions...)

	return r, s
}

// screenCoord rounds v to a pixel inside [0, extent-1].
func screenCoord(v, extent float64) int {
	px := int(math.Round(v))
	if hi := int(extent) - 1; px > hi {
		px = hi
	}
	if px < 0 {
		px = 0
	}
	return px
}
