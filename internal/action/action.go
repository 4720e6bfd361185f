// Package action defines the input commands produced for each frame and
// dispatches them to an input sink.
package action

import "fmt"

// Kind identifies the variant of an Action.
type Kind string

const (
	KindMove      Kind = "move"
	KindClick     Kind = "click"
	KindMouseDown Kind = "mouse-down"
	KindMouseUp   Kind = "mouse-up"
	KindScroll    Kind = "scroll"
	KindKeyCombo  Kind = "key-combo"
)

// Button is a mouse button.
type Button string

const (
	ButtonLeft  Button = "left"
	ButtonRight Button = "right"
)

// Action is a tagged value: only the fields belonging to Kind are meaningful.
type Action struct {
	Kind     Kind   `json:"kind"`
	X        int    `json:"x,omitempty"`
	Y        int    `json:"y,omitempty"`
	Button   Button `json:"button,omitempty"`
	Delta    int    `json:"delta,omitempty"`
	Modifier string `json:"modifier,omitempty"`
	Key      string `json:"key,omitempty"`
}

// Move returns a MoveCursor action.
func Move(x, y int) Action { return Action{Kind: KindMove, X: x, Y: y} }

// Click returns a Click action for the given button.
func Click(b Button) Action { return Action{Kind: KindClick, Button: b} }

// MouseDown returns a left-button press.
func MouseDown() Action { return Action{Kind: KindMouseDown} }

// MouseUp returns a left-button release.
func MouseUp() Action { return Action{Kind: KindMouseUp} }

// Scroll returns a Scroll action; positive delta scrolls up.
func Scroll(delta int) Action { return Action{Kind: KindScroll, Delta: delta} }

// KeyCombo returns a modifier+key chord, e.g. KeyCombo("ctrl", "c").
func KeyCombo(modifier, key string) Action {
	return Action{Kind: KindKeyCombo, Modifier: modifier, Key: key}
}

func (a Action) String() string {
	switch a.Kind {
	case KindMove:
		return fmt.Sprintf("move(%d,%d)", a.X, a.Y)
	case KindClick:
		return fmt.Sprintf("click(%s)", a.Button)
	case KindScroll:
		return fmt.Sprintf("scroll(%d)", a.Delta)
	case KindKeyCombo:
		return fmt.Sprintf("key(%s+%s)", a.Modifier, a.Key)
	default:
		return string(a.Kind)
	}
}
