// Package gesture classifies hand poses into pointer and input decisions and
// tracks drag and cooldown state across frames.
//
// All distances and thresholds are in camera pixels: landmarks are scaled by
// the configured frame size before measuring.
package gesture

import (
	"time"

	"github.com/ayusman/handmouse/internal/detector"
)

// Band is a half-open distance interval [Inner, Outer).
type Band struct {
	Inner float64
	Outer float64
}

// Contains reports whether d lies in the band.
func (b Band) Contains(d float64) bool {
	return d >= b.Inner && d < b.Outer
}

// Cooldowns are the minimum intervals between two firings of a debounced class.
type Cooldowns struct {
	LeftClick  time.Duration
	RightClick time.Duration
	Copy       time.Duration
	Paste      time.Duration
}

// Config holds the classification thresholds.
type Config struct {
	// FrameWidth and FrameHeight convert normalized landmarks to pixels.
	FrameWidth  float64
	FrameHeight float64

	// ClickThreshold is the pinch distance under which two tips touch.
	ClickThreshold float64

	// DragBand is the thumb-index range that starts a drag. Once dragging,
	// the drag holds until the distance reaches ClickThreshold.
	DragBand Band

	// ScrollThreshold is the index-middle spread above which two raised
	// fingers scroll instead of doing nothing.
	ScrollThreshold float64

	// ScrollDivisor scales the index tip's vertical offset from the frame
	// centre into scroll units.
	ScrollDivisor float64

	Cooldowns Cooldowns

	// Modifier is the key held for the copy and paste chords.
	Modifier string
}

func (cfg Config) modifier() string {
	if cfg.Modifier == "" {
		return "ctrl"
	}
	return cfg.Modifier
}

// Facts are the measurements a frame is classified on.
type Facts struct {
	IndexUp  bool
	MiddleUp bool
	RingUp   bool
	PinkyUp  bool

	ThumbIndex  float64
	ThumbMiddle float64
	IndexMiddle float64
	ThumbRing   float64
	ThumbPinky  float64

	// IndexTipX and IndexTipY locate the index tip in camera pixels.
	IndexTipX float64
	IndexTipY float64

	// CenterY is the vertical centre of the camera frame.
	CenterY float64
}

// Measure derives Facts from a normalized landmark frame.
// A finger is up when its tip is above its PIP joint (smaller y).
func Measure(cfg Config, hand *detector.HandLandmarks) Facts {
	px := hand.Scaled(cfg.FrameWidth, cfg.FrameHeight)

	up := func(tip, pip int) bool {
		return px.Points[tip].Y < px.Points[pip].Y
	}

	return Facts{
		IndexUp:  up(detector.IndexTip, detector.IndexPIP),
		MiddleUp: up(detector.MiddleTip, detector.MiddlePIP),
		RingUp:   up(detector.RingTip, detector.RingPIP),
		PinkyUp:  up(detector.PinkyTip, detector.PinkyPIP),

		ThumbIndex:  px.Distance2D(detector.ThumbTip, detector.IndexTip),
		ThumbMiddle: px.Distance2D(detector.ThumbTip, detector.MiddleTip),
		IndexMiddle: px.Distance2D(detector.IndexTip, detector.MiddleTip),
		ThumbRing:   px.Distance2D(detector.ThumbTip, detector.RingTip),
		ThumbPinky:  px.Distance2D(detector.ThumbTip, detector.PinkyTip),

		IndexTipX: px.Points[detector.IndexTip].X,
		IndexTipY: px.Points[detector.IndexTip].Y,
		CenterY:   cfg.FrameHeight / 2,
	}
}
