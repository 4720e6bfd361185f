package gesture

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/ayusman/handmouse/internal/action"
	"github.com/ayusman/handmouse/internal/detector"
)

var t0 = time.Unix(1_700_000_000, 0)

func testConfig() Config {
	return Config{
		FrameWidth:      640,
		FrameHeight:     480,
		ClickThreshold:  30,
		DragBand:        Band{Inner: 0, Outer: 20},
		ScrollThreshold: 60,
		ScrollDivisor:   20,
		Cooldowns: Cooldowns{
			LeftClick:  250 * time.Millisecond,
			RightClick: 400 * time.Millisecond,
			Copy:       750 * time.Millisecond,
			Paste:      750 * time.Millisecond,
		},
	}
}

// apart is a hand with no pinch and no raised finger.
func apart() Facts {
	return Facts{
		ThumbIndex:  100,
		ThumbMiddle: 100,
		IndexMiddle: 45,
		ThumbRing:   100,
		ThumbPinky:  100,
		IndexTipY:   240,
		CenterY:     240,
	}
}

func TestMeasure(t *testing.T) {
	cfg := testConfig()

	t.Run("pinch distance in pixels", func(t *testing.T) {
		hand := detector.PinchLandmarks(28)
		f := Measure(cfg, &hand)
		if math.Abs(f.ThumbIndex-28) > 1e-6 {
			t.Errorf("ThumbIndex = %f, want 28", f.ThumbIndex)
		}
		if !f.IndexUp || f.MiddleUp || f.RingUp || f.PinkyUp {
			t.Errorf("unexpected finger flags %+v", f)
		}
	})

	t.Run("two fingers", func(t *testing.T) {
		hand := detector.TwoFingerLandmarks(42, 170)
		f := Measure(cfg, &hand)
		if !f.IndexUp || !f.MiddleUp {
			t.Error("expected index and middle up")
		}
		if math.Abs(f.IndexMiddle-42) > 1e-6 {
			t.Errorf("IndexMiddle = %f, want 42", f.IndexMiddle)
		}
		if math.Abs(f.IndexTipY-170) > 1e-6 || f.CenterY != 240 {
			t.Errorf("tip y %f centre %f", f.IndexTipY, f.CenterY)
		}
	})

	t.Run("copy and paste postures", func(t *testing.T) {
		c := detector.CopyLandmarks()
		f := Measure(cfg, &c)
		if f.ThumbIndex >= 30 || f.ThumbMiddle >= 30 || f.ThumbIndex < 20 {
			t.Errorf("copy distances %f %f", f.ThumbIndex, f.ThumbMiddle)
		}

		p := detector.PasteLandmarks()
		f = Measure(cfg, &p)
		if f.ThumbRing >= 30 || f.ThumbPinky >= 30 || f.ThumbIndex < 30 {
			t.Errorf("paste distances %f %f %f", f.ThumbRing, f.ThumbPinky, f.ThumbIndex)
		}
	})
}

func TestClassify(t *testing.T) {
	cfg := testConfig()

	with := func(mod func(*Facts)) Facts {
		f := apart()
		mod(&f)
		return f
	}

	tests := []struct {
		name     string
		facts    Facts
		dragging bool
		move     bool
		drag     bool
		class    Class
	}{
		{"nothing", apart(), false, false, false, ClassNone},
		{"only index up moves", with(func(f *Facts) { f.IndexUp = true }), false, true, false, ClassNone},
		{"index and middle up does not move", with(func(f *Facts) { f.IndexUp, f.MiddleUp = true, true }), false, false, false, ClassNone},
		{"middle only does not move", with(func(f *Facts) { f.MiddleUp = true }), false, false, false, ClassNone},

		{"pinch just inside drag band", with(func(f *Facts) { f.ThumbIndex = 19.999 }), false, false, true, ClassNone},
		{"pinch at drag band outer edge clicks", with(func(f *Facts) { f.ThumbIndex = 20 }), false, false, false, ClassLeftClick},
		{"pinch just under click threshold", with(func(f *Facts) { f.ThumbIndex = 29.999 }), false, false, false, ClassLeftClick},
		{"pinch at click threshold", with(func(f *Facts) { f.ThumbIndex = 30 }), false, false, false, ClassNone},
		{"zero distance drags", with(func(f *Facts) { f.ThumbIndex = 0 }), false, false, true, ClassNone},

		{"dragging holds in click band", with(func(f *Facts) { f.ThumbIndex = 29 }), true, false, true, ClassNone},
		{"dragging releases at click threshold", with(func(f *Facts) { f.ThumbIndex = 30 }), true, false, false, ClassNone},
		{"move while dragging", with(func(f *Facts) { f.ThumbIndex, f.IndexUp = 5, true }), true, true, true, ClassNone},

		{"right click just under threshold", with(func(f *Facts) { f.IndexUp, f.MiddleUp, f.IndexMiddle = true, true, 29.9 }), false, false, false, ClassRightClick},
		{"two fingers at click threshold", with(func(f *Facts) { f.IndexUp, f.MiddleUp, f.IndexMiddle = true, true, 30 }), false, false, false, ClassNone},
		{"two fingers at scroll threshold", with(func(f *Facts) { f.IndexUp, f.MiddleUp, f.IndexMiddle = true, true, 60 }), false, false, false, ClassNone},
		{"scroll just over threshold", with(func(f *Facts) { f.IndexUp, f.MiddleUp, f.IndexMiddle = true, true, 60.1 }), false, false, false, ClassScroll},
		{"right click needs middle up", with(func(f *Facts) { f.IndexUp, f.IndexMiddle = true, 10 }), false, true, false, ClassNone},

		{"copy", with(func(f *Facts) { f.ThumbIndex, f.ThumbMiddle = 25, 25 }), false, false, false, ClassCopy},
		{"copy with tight pinch does not drag", with(func(f *Facts) { f.ThumbIndex, f.ThumbMiddle = 10, 25 }), false, false, false, ClassCopy},
		{"copy needs thumb-middle", with(func(f *Facts) { f.ThumbIndex, f.ThumbMiddle = 25, 30 }), false, false, false, ClassLeftClick},

		{"paste", with(func(f *Facts) { f.ThumbRing, f.ThumbPinky = 29, 29 }), false, false, false, ClassPaste},
		{"paste needs both", with(func(f *Facts) { f.ThumbRing, f.ThumbPinky = 29, 30 }), false, false, false, ClassNone},

		{"left click outranks paste", with(func(f *Facts) { f.ThumbIndex, f.ThumbRing, f.ThumbPinky = 25, 10, 10 }), false, false, false, ClassLeftClick},
		{"right click outranks copy", with(func(f *Facts) {
			f.IndexUp, f.MiddleUp, f.IndexMiddle = true, true, 10
			f.ThumbIndex, f.ThumbMiddle = 25, 25
		}), false, false, false, ClassRightClick},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(cfg, tt.facts, State{Dragging: tt.dragging})
			if d.Move != tt.move {
				t.Errorf("Move = %v, want %v", d.Move, tt.move)
			}
			if d.Drag != tt.drag {
				t.Errorf("Drag = %v, want %v", d.Drag, tt.drag)
			}
			if d.Class != tt.class {
				t.Errorf("Class = %v, want %v", d.Class, tt.class)
			}
		})
	}
}

func TestClassify_MatchedFollowsTableOrder(t *testing.T) {
	f := apart()
	f.IndexUp = true
	f.ThumbIndex = 10

	d := Classify(testConfig(), f, State{})

	want := []string{"move", "drag"}
	if !reflect.DeepEqual(d.Matched, want) {
		t.Errorf("Matched = %v, want %v", d.Matched, want)
	}
}

func TestScrollDelta(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		tipY float64
		want int
	}{
		{170, 4},   // 70px above centre
		{240, 0},   // at centre
		{320, -4},  // 80px below centre
		{0, 12},    // top of frame
		{480, -12}, // bottom of frame
	}

	for _, tt := range tests {
		f := apart()
		f.IndexUp, f.MiddleUp, f.IndexMiddle = true, true, 80
		f.IndexTipY = tt.tipY

		d := Classify(cfg, f, State{})
		if d.Class != ClassScroll || d.ScrollDelta != tt.want {
			t.Errorf("tip y %.0f: class %v delta %d, want scroll %d", tt.tipY, d.Class, d.ScrollDelta, tt.want)
		}
	}
}

func TestTrack_Debounce(t *testing.T) {
	cfg := testConfig()
	click := Decision{Class: ClassLeftClick}

	countClicks := func(gap time.Duration) int {
		var s State
		var out Outcome
		n := 0
		out, s = Track(cfg, click, s, t0)
		n += len(out.Actions)
		out, _ = Track(cfg, click, s, t0.Add(gap))
		n += len(out.Actions)
		return n
	}

	if got := countClicks(100 * time.Millisecond); got != 1 {
		t.Errorf("clicks within cooldown = %d, want 1", got)
	}
	if got := countClicks(300 * time.Millisecond); got != 2 {
		t.Errorf("clicks beyond cooldown = %d, want 2", got)
	}
	if got := countClicks(250 * time.Millisecond); got != 2 {
		t.Errorf("clicks exactly at cooldown = %d, want 2", got)
	}
}

func TestTrack_CooldownsArePerClass(t *testing.T) {
	cfg := testConfig()
	var s State

	_, s = Track(cfg, Decision{Class: ClassLeftClick}, s, t0)
	out, s := Track(cfg, Decision{Class: ClassRightClick}, s, t0.Add(10*time.Millisecond))
	if out.Fired != ClassRightClick {
		t.Fatalf("right click blocked by left click cooldown: %+v", out)
	}

	out, _ = Track(cfg, Decision{Class: ClassRightClick}, s, t0.Add(300*time.Millisecond))
	if out.Fired != ClassNone || out.Suppressed != ClassRightClick {
		t.Errorf("expected right click suppressed at 290ms, got %+v", out)
	}
}

func TestTrack_ScrollIsNotGated(t *testing.T) {
	cfg := testConfig()
	var s State
	var out Outcome

	for i := 0; i < 5; i++ {
		out, s = Track(cfg, Decision{Class: ClassScroll, ScrollDelta: 3}, s, t0.Add(time.Duration(i)*time.Millisecond))
		if len(out.Actions) != 1 || out.Actions[0] != action.Scroll(3) {
			t.Fatalf("frame %d: got %v", i, out.Actions)
		}
	}

	out, _ = Track(cfg, Decision{Class: ClassScroll, ScrollDelta: 0}, s, t0)
	if len(out.Actions) != 0 {
		t.Errorf("zero delta should not scroll, got %v", out.Actions)
	}
}

func TestTrack_KeyCombos(t *testing.T) {
	cfg := testConfig()

	out, _ := Track(cfg, Decision{Class: ClassCopy}, State{}, t0)
	if len(out.Actions) != 1 || out.Actions[0] != action.KeyCombo("ctrl", "c") {
		t.Errorf("copy = %v", out.Actions)
	}

	cfg.Modifier = "cmd"
	out, _ = Track(cfg, Decision{Class: ClassPaste}, State{}, t0)
	if len(out.Actions) != 1 || out.Actions[0] != action.KeyCombo("cmd", "v") {
		t.Errorf("paste = %v", out.Actions)
	}
}

func TestTrack_DragHysteresis(t *testing.T) {
	cfg := testConfig()
	distances := []float64{40, 25, 15, 10, 5, 18, 25, 29, 12, 35, 40}

	var s State
	var all []action.Action
	now := t0
	for _, d := range distances {
		f := apart()
		f.IndexUp = true
		f.ThumbIndex = d

		out, next := Track(cfg, Classify(cfg, f, s), s, now)
		s = next
		all = append(all, out.Actions...)
		now = now.Add(33 * time.Millisecond)
	}

	var downs, ups, clicks int
	var downAt, upAt int
	for i, a := range all {
		switch a.Kind {
		case action.KindMouseDown:
			downs++
			downAt = i
		case action.KindMouseUp:
			ups++
			upAt = i
		case action.KindClick:
			clicks++
		}
	}

	if downs != 1 || ups != 1 {
		t.Fatalf("downs=%d ups=%d, want 1 and 1 (%v)", downs, ups, all)
	}
	if downAt > upAt {
		t.Error("mouse down must precede mouse up")
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want only the approach click at 25px", clicks)
	}
	if s.Dragging {
		t.Error("drag should be released")
	}
}

func TestTrack_DragIsNotCooldownGated(t *testing.T) {
	cfg := testConfig()
	var s State
	var downs int

	for i := 0; i < 3; i++ {
		out, next := Track(cfg, Decision{Drag: true}, s, t0)
		s = next
		out2, next := Track(cfg, Decision{Drag: false}, s, t0)
		s = next
		for _, a := range append(out.Actions, out2.Actions...) {
			if a.Kind == action.KindMouseDown {
				downs++
			}
		}
	}

	if downs != 3 {
		t.Errorf("downs = %d, want 3 with identical timestamps", downs)
	}
}

func TestRelease(t *testing.T) {
	actions, s := Release(State{Dragging: true})
	if len(actions) != 1 || actions[0].Kind != action.KindMouseUp || s.Dragging {
		t.Errorf("Release(dragging) = %v, %+v", actions, s)
	}

	stamp := State{}
	stamp.LastFired[ClassCopy] = t0
	actions, s = Release(stamp)
	if len(actions) != 0 {
		t.Errorf("Release(idle) = %v", actions)
	}
	if s.LastFired[ClassCopy] != t0 {
		t.Error("Release must keep cooldown timestamps")
	}
}

func TestPinchScenario(t *testing.T) {
	cfg := testConfig()
	distances := []float64{40, 35, 28, 28, 28}

	var s State
	clickFrames := []int{}
	for i, d := range distances {
		hand := detector.PinchLandmarks(d)
		decision := Classify(cfg, Measure(cfg, &hand), s)

		out, next := Track(cfg, decision, s, t0.Add(time.Duration(i)*33*time.Millisecond))
		s = next
		for _, a := range out.Actions {
			if a == action.Click(action.ButtonLeft) {
				clickFrames = append(clickFrames, i)
			}
			if a.Kind == action.KindMouseDown {
				t.Errorf("frame %d: unexpected drag", i)
			}
		}
	}

	if !reflect.DeepEqual(clickFrames, []int{2}) {
		t.Errorf("clicks at frames %v, want [2]", clickFrames)
	}
}
