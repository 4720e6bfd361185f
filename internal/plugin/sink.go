package plugin

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayusman/handmouse/internal/action"
)

// ErrUnsupportedAction is returned for action kinds the plugin did not declare.
var ErrUnsupportedAction = errors.New("action not supported by plugin")

// Sink forwards each action to a plugin process. It starts one process per
// action, so it suits plugins that wrap fast command-line tools.
type Sink struct {
	plugin   *Plugin
	executor *Executor
}

// NewSink creates a sink for plugin.
func NewSink(plugin *Plugin, executor *Executor) *Sink {
	return &Sink{plugin: plugin, executor: executor}
}

func (s *Sink) send(a action.Action) error {
	if !s.plugin.Manifest.Supports(a.Kind) {
		return fmt.Errorf("%w: %s does not handle %s", ErrUnsupportedAction, s.plugin.Manifest.Name, a.Kind)
	}

	resp, err := s.executor.Execute(context.Background(), s.plugin, NewRequest(a))
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("plugin %s: %s", s.plugin.Manifest.Name, resp.Error)
	}
	return nil
}

func (s *Sink) MoveCursor(x, y int) error { return s.send(action.Move(x, y)) }

func (s *Sink) MouseDown() error { return s.send(action.MouseDown()) }

func (s *Sink) MouseUp() error { return s.send(action.MouseUp()) }

func (s *Sink) Click(button action.Button) error { return s.send(action.Click(button)) }

func (s *Sink) Scroll(delta int) error { return s.send(action.Scroll(delta)) }

func (s *Sink) KeyCombo(modifier, key string) error {
	return s.send(action.KeyCombo(modifier, key))
}

// Supports reports whether the plugin behind s handles kind.
func (s *Sink) Supports(kind action.Kind) bool {
	return s.plugin.Manifest.Supports(kind)
}

// RoutingSink sends the action kinds a plugin declares to that plugin and
// every other kind to a base sink. It lets a narrow plugin, such as one that
// only types key combos, sit on top of a full input injector.
type RoutingSink struct {
	base   action.Sink
	plugin *Sink
}

// NewRoutingSink layers plugin over base.
func NewRoutingSink(base action.Sink, plugin *Sink) *RoutingSink {
	return &RoutingSink{base: base, plugin: plugin}
}

func (r *RoutingSink) route(kind action.Kind) action.Sink {
	if r.plugin.Supports(kind) {
		return r.plugin
	}
	return r.base
}

func (r *RoutingSink) MoveCursor(x, y int) error {
	return r.route(action.KindMove).MoveCursor(x, y)
}

func (r *RoutingSink) MouseDown() error { return r.route(action.KindMouseDown).MouseDown() }

func (r *RoutingSink) MouseUp() error { return r.route(action.KindMouseUp).MouseUp() }

func (r *RoutingSink) Click(button action.Button) error {
	return r.route(action.KindClick).Click(button)
}

func (r *RoutingSink) Scroll(delta int) error { return r.route(action.KindScroll).Scroll(delta) }

func (r *RoutingSink) KeyCombo(modifier, key string) error {
	return r.route(action.KindKeyCombo).KeyCombo(modifier, key)
}
