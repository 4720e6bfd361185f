package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/ayusman/handmouse/internal/action"
	"github.com/ayusman/handmouse/internal/cursor"
	"github.com/ayusman/handmouse/internal/detector"
	"github.com/ayusman/handmouse/internal/gesture"
)

var t0 = time.Unix(1_700_000_000, 0)

func testConfig() Config {
	return Config{
		Gesture: gesture.Config{
			FrameWidth:      detector.FixtureWidth,
			FrameHeight:     detector.FixtureHeight,
			ClickThreshold:  30,
			DragBand:        gesture.Band{Inner: 0, Outer: 20},
			ScrollThreshold: 60,
			ScrollDivisor:   20,
			Cooldowns: gesture.Cooldowns{
				LeftClick:  250 * time.Millisecond,
				RightClick: 400 * time.Millisecond,
				Copy:       750 * time.Millisecond,
				Paste:      750 * time.Millisecond,
			},
		},
		Smoothing: cursor.SmoothingConfig{Factor: 5, DeadZone: 2, HistoryCapacity: 5},
		Zone:      cursor.ActiveZone{MinX: 100, MinY: 100, MaxX: 540, MaxY: 380},
		Screen:    cursor.Size{Width: 1920, Height: 1080},
	}
}

func hand(h detector.HandLandmarks) *detector.HandLandmarks { return &h }

func kinds(actions []action.Action) []action.Kind {
	out := make([]action.Kind, len(actions))
	for i, a := range actions {
		out[i] = a.Kind
	}
	return out
}

func TestStep_PointingMovesCursor(t *testing.T) {
	cfg := testConfig()

	r, s := Step(cfg, State{}, hand(detector.PointingLandmarks(320, 240)), t0)

	if !r.Hand || !r.Moved {
		t.Fatalf("Step() = %+v, want a hand that moved the cursor", r)
	}
	want := []action.Action{action.Move(960, 540)}
	if !reflect.DeepEqual(r.Actions, want) {
		t.Errorf("Actions = %v, want %v", r.Actions, want)
	}
	if !s.Cursor.Initialized || s.Cursor.Prev != (cursor.Point{X: 960, Y: 540}) {
		t.Errorf("cursor state = %+v", s.Cursor)
	}
}

func TestStep_ActionOrder(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name string
		hand detector.HandLandmarks
		want []action.Kind
	}{
		{
			name: "drag entry",
			hand: detector.PinchLandmarks(10),
			want: []action.Kind{action.KindMove, action.KindMouseDown},
		},
		{
			name: "left click",
			hand: detector.PinchLandmarks(25),
			want: []action.Kind{action.KindMove, action.KindClick},
		},
		{
			name: "open pinch only moves",
			hand: detector.PinchLandmarks(45),
			want: []action.Kind{action.KindMove},
		},
		{
			name: "copy",
			hand: detector.CopyLandmarks(),
			want: []action.Kind{action.KindKeyCombo},
		},
		{
			name: "paste",
			hand: detector.PasteLandmarks(),
			want: []action.Kind{action.KindKeyCombo},
		},
		{
			name: "fist does nothing",
			hand: detector.FistLandmarks(),
			want: []action.Kind{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := Step(cfg, State{}, hand(tt.hand), t0)
			if got := kinds(r.Actions); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("action kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStep_NoHand(t *testing.T) {
	cfg := testConfig()
	cs := cursor.State{Prev: cursor.Point{X: 10, Y: 20}, History: []cursor.Point{{X: 10, Y: 20}}, Initialized: true}

	t.Run("releases an active drag", func(t *testing.T) {
		s := State{Cursor: cs, Gesture: gesture.State{Dragging: true}}
		r, next := Step(cfg, s, nil, t0)

		if r.Hand {
			t.Error("Hand should be false")
		}
		if got := kinds(r.Actions); !reflect.DeepEqual(got, []action.Kind{action.KindMouseUp}) {
			t.Errorf("actions = %v, want [mouse-up]", got)
		}
		if next.Gesture.Dragging {
			t.Error("drag should be released")
		}
		if !reflect.DeepEqual(next.Cursor, cs) {
			t.Errorf("cursor state changed: %+v", next.Cursor)
		}
	})

	t.Run("no drag is a no-op", func(t *testing.T) {
		s := State{Cursor: cs}
		r, next := Step(cfg, s, nil, t0)
		if len(r.Actions) != 0 {
			t.Errorf("actions = %v, want none", r.Actions)
		}
		if !reflect.DeepEqual(next, s) {
			t.Errorf("state changed: %+v", next)
		}
	})
}

func TestStep_DoesNotModifyState(t *testing.T) {
	cfg := testConfig()
	s := State{Cursor: cursor.State{
		Prev:        cursor.Point{X: 960, Y: 540},
		History:     []cursor.Point{{X: 960, Y: 540}, {X: 960, Y: 540}},
		Initialized: true,
	}}
	before := append([]cursor.Point(nil), s.Cursor.History...)

	_, next := Step(cfg, s, hand(detector.PinchLandmarks(25)), t0)

	if !reflect.DeepEqual(s.Cursor.History, before) {
		t.Error("Step modified the input history")
	}
	if !s.Gesture.LastFired[gesture.ClassLeftClick].IsZero() {
		t.Error("Step modified the input gesture state")
	}
	if next.Gesture.LastFired[gesture.ClassLeftClick] != t0 {
		t.Error("next state should record the click")
	}
}

func TestStep_CursorStaysWhenNotPointing(t *testing.T) {
	cfg := testConfig()
	s := State{Cursor: cursor.State{Prev: cursor.Point{X: 5, Y: 5}, Initialized: true}}

	r, next := Step(cfg, s, hand(detector.FistLandmarks()), t0)

	if r.Moved {
		t.Error("fist should not move the cursor")
	}
	if next.Cursor.Prev != s.Cursor.Prev {
		t.Errorf("cursor moved to %+v", next.Cursor.Prev)
	}
}

func TestScreenCoord(t *testing.T) {
	tests := []struct {
		v, extent float64
		want      int
	}{
		{v: 0, extent: 1920, want: 0},
		{v: 959.5, extent: 1920, want: 960},
		{v: 1920, extent: 1920, want: 1919},
		{v: 1919.4, extent: 1920, want: 1919},
		{v: -0.6, extent: 1920, want: 0},
	}

	for _, tt := range tests {
		if got := screenCoord(tt.v, tt.extent); got != tt.want {
			t.Errorf("screenCoord(%v, %v) = %d, want %d", tt.v, tt.extent, got, tt.want)
		}
	}
}

func TestStep_ScreenEdgeIsClamped(t *testing.T) {
	cfg := testConfig()

	// index tip right of the active zone maps to the last screen column
	r, _ := Step(cfg, State{}, hand(detector.PointingLandmarks(600, 240)), t0)

	if len(r.Actions) == 0 || r.Actions[0].X != 1919 {
		t.Errorf("Actions = %v, want move to x=1919", r.Actions)
	}
}
