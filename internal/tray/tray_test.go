package tray

import (
	"testing"

	"github.com/ayusman/handmouse/internal/engine"
	"github.com/ayusman/handmouse/internal/gesture"
)

func TestTray_HandleToggle(t *testing.T) {
	control := engine.NewControl()
	tr := New(control)

	tr.handleToggle()
	if !control.Paused() {
		t.Error("first toggle should pause")
	}

	tr.handleToggle()
	if control.Paused() {
		t.Error("second toggle should resume")
	}
}

func TestTray_Observe_KeepsNewest(t *testing.T) {
	tr := New(engine.NewControl())

	tr.Observe(engine.Frame{})
	select {
	case name := <-tr.last:
		t.Fatalf("frame without a gesture queued %q", name)
	default:
	}

	for _, c := range []gesture.Class{gesture.ClassLeftClick, gesture.ClassCopy, gesture.ClassPaste} {
		tr.Observe(engine.Frame{Result: engine.Result{Fired: c}})
	}

	select {
	case name := <-tr.last:
		if name != "paste" {
			t.Errorf("pending gesture = %q, want paste", name)
		}
	default:
		t.Fatal("expected a pending gesture")
	}
}

func TestTitles(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{toggleTitle(false), "● Active"},
		{toggleTitle(true), "○ Paused"},
		{lastTitle(""), "Last: none"},
		{lastTitle("scroll"), "Last: scroll"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
