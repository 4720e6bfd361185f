// Package cursor maps fingertip positions onto the screen and smooths the
// resulting cursor path.
package cursor

import (
	"errors"
	"fmt"
)

// ErrInvalidZone is returned when an active zone margin leaves no usable area.
var ErrInvalidZone = errors.New("invalid active zone")

// Point is a 2D position, in camera pixels or screen pixels depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the extent of a camera frame or target surface in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ActiveZone is the camera-space rectangle that maps onto the whole screen.
type ActiveZone struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewActiveZone insets the frame by margin on every side.
// The margin must be non-negative and less than half the frame width and height.
func NewActiveZone(frame Size, margin float64) (ActiveZone, error) {
	if margin < 0 || margin*2 >= frame.Width || margin*2 >= frame.Height {
		return ActiveZone{}, fmt.Errorf("%w: margin %.1f on %.0fx%.0f frame", ErrInvalidZone, margin, frame.Width, frame.Height)
	}

	return ActiveZone{
		MinX: margin,
		MinY: margin,
		MaxX: frame.Width - margin,
		MaxY: frame.Height - margin,
	}, nil
}

// Map projects a camera-space point onto the target surface. Each axis is
// interpolated linearly across the zone and clamped, so points outside the
// zone land exactly on the surface edge.
func Map(p Point, zone ActiveZone, target Size) Point {
	return Point{
		X: unit(p.X, zone.MinX, zone.MaxX) * target.Width,
		Y: unit(p.Y, zone.MinY, zone.MaxY) * target.Height,
	}
}

// unit returns the clamped position of v within [lo, hi] as a fraction.
func unit(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}

	t := (v - lo) / (hi - lo)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
