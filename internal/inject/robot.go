// Package inject delivers actions to the operating system.
package inject

import (
	"fmt"

	"github.com/ayusman/handmouse/internal/action"
	"github.com/ayusman/handmouse/internal/cursor"
	"github.com/go-vgo/robotgo"
)

// driver is the slice of robotgo the sink needs.
type driver interface {
	Move(x, y int)
	Toggle(button, direction string) error
	Click(button string)
	ScrollDir(amount int, direction string)
	KeyTap(key, modifier string) error
	ScreenSize() (int, int)
}

type robotgoDriver struct{}

func (robotgoDriver) Move(x, y int) { robotgo.Move(x, y) }

func (robotgoDriver) Toggle(button, direction string) error {
	return robotgo.Toggle(button, direction)
}

func (robotgoDriver) Click(button string) { robotgo.Click(button) }

func (robotgoDriver) ScrollDir(amount int, direction string) {
	robotgo.ScrollDir(amount, direction)
}

func (robotgoDriver) KeyTap(key, modifier string) error {
	return robotgo.KeyTap(key, modifier)
}

func (robotgoDriver) ScreenSize() (int, int) { return robotgo.GetScreenSize() }

// RobotSink injects input through robotgo.
type RobotSink struct {
	drv driver
}

// NewRobotSink creates a sink for the local display.
func NewRobotSink() *RobotSink {
	return &RobotSink{drv: robotgoDriver{}}
}

// ScreenSize reports the primary display size in pixels.
func (s *RobotSink) ScreenSize() cursor.Size {
	w, h := s.drv.ScreenSize()
	return cursor.Size{Width: float64(w), Height: float64(h)}
}

func (s *RobotSink) MoveCursor(x, y int) error {
	s.drv.Move(x, y)
	return nil
}

func (s *RobotSink) MouseDown() error {
	if err := s.drv.Toggle(string(action.ButtonLeft), "down"); err != nil {
		return fmt.Errorf("press left button: %w", err)
	}
	return nil
}

func (s *RobotSink) MouseUp() error {
	if err := s.drv.Toggle(string(action.ButtonLeft), "up"); err != nil {
		return fmt.Errorf("release left button: %w", err)
	}
	return nil
}

func (s *RobotSink) Click(button action.Button) error {
	s.drv.Click(string(button))
	return nil
}

// Scroll scrolls up for positive deltas and down for negative ones.
func (s *RobotSink) Scroll(delta int) error {
	switch {
	case delta > 0:
		s.drv.ScrollDir(delta, "up")
	case delta < 0:
		s.drv.ScrollDir(-delta, "down")
	}
	return nil
}

func (s *RobotSink) KeyCombo(modifier, key string) error {
	if err := s.drv.KeyTap(key, modifier); err != nil {
		return fmt.Errorf("tap %s+%s: %w", modifier, key, err)
	}
	return nil
}
