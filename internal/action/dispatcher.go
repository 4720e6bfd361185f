package action

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when an action carries a kind no sink method handles.
var ErrUnknownKind = errors.New("unknown action kind")

// Sink injects input into the operating system or another consumer.
type Sink interface {
	MoveCursor(x, y int) error
	MouseDown() error
	MouseUp() error
	Click(button Button) error
	Scroll(delta int) error
	KeyCombo(modifier, key string) error
}

// Dispatcher forwards actions to a sink, one sink call per action.
// It holds no state and never retries.
type Dispatcher struct {
	sink Sink
}

// NewDispatcher creates a Dispatcher writing to sink.
func NewDispatcher(sink Sink) *Dispatcher {
	return &Dispatcher{sink: sink}
}

// Dispatch sends actions in order and stops at the first failure. The
// returned error wraps the sink's error and names the failed action; the
// count reports how many actions were delivered before it.
func (d *Dispatcher) Dispatch(actions []Action) (int, error) {
	for i, a := range actions {
		if err := d.send(a); err != nil {
			return i, fmt.Errorf("dispatch %s: %w", a, err)
		}
	}
	return len(actions), nil
}

func (d *Dispatcher) send(a Action) error {
	switch a.Kind {
	case KindMove:
		return d.sink.MoveCursor(a.X, a.Y)
	case KindMouseDown:
		return d.sink.MouseDown()
	case KindMouseUp:
		return d.sink.MouseUp()
	case KindClick:
		return d.sink.Click(a.Button)
	case KindScroll:
		return d.sink.Scroll(a.Delta)
	case KindKeyCombo:
		return d.sink.KeyCombo(a.Modifier, a.Key)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, a.Kind)
	}
}
