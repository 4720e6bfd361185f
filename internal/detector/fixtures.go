package detector

// Fixture poses are laid out in pixels of a reference 640x480 camera frame
// and stored normalized, so tests can reason about pixel distances.
const (
	FixtureWidth  = 640.0
	FixtureHeight = 480.0
)

func at(x, y float64) Point3D {
	return Point3D{X: x / FixtureWidth, Y: y / FixtureHeight}
}

// FistLandmarks returns a relaxed fist: every finger curled (tip below its
// PIP joint) and the thumb well away from all fingertips.
func FistLandmarks() HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}

	h.Points[Wrist] = at(320, 384)

	h.Points[ThumbCMC] = at(358, 365)
	h.Points[ThumbMCP] = at(384, 336)
	h.Points[ThumbIP] = at(403, 307)
	h.Points[ThumbTip] = at(422, 278)

	h.Points[IndexMCP] = at(352, 297)
	h.Points[IndexPIP] = at(352, 264)
	h.Points[IndexDIP] = at(352, 288)
	h.Points[IndexTip] = at(352, 307)

	h.Points[MiddleMCP] = at(320, 292)
	h.Points[MiddlePIP] = at(320, 259)
	h.Points[MiddleDIP] = at(320, 283)
	h.Points[MiddleTip] = at(320, 302)

	h.Points[RingMCP] = at(288, 297)
	h.Points[RingPIP] = at(288, 268)
	h.Points[RingDIP] = at(288, 288)
	h.Points[RingTip] = at(288, 307)

	h.Points[PinkyMCP] = at(262, 307)
	h.Points[PinkyPIP] = at(262, 283)
	h.Points[PinkyDIP] = at(262, 298)
	h.Points[PinkyTip] = at(262, 317)

	return h
}

// PointingLandmarks returns the only-index posture with the index tip at
// pixel (x, y) of the reference frame.
func PointingLandmarks(x, y float64) HandLandmarks {
	h := FistLandmarks()

	h.Points[IndexMCP] = at(x, y+127)
	h.Points[IndexPIP] = at(x, y+80)
	h.Points[IndexDIP] = at(x, y+40)
	h.Points[IndexTip] = at(x, y)

	return h
}

// PinchLandmarks returns a pointing hand with the thumb tip gap pixels to
// the right of the index tip.
func PinchLandmarks(gap float64) HandLandmarks {
	h := PointingLandmarks(352, 192)
	h.Points[ThumbIP] = at(352+gap+10, 220)
	h.Points[ThumbTip] = at(352+gap, 192)
	return h
}

// TwoFingerLandmarks returns index and middle both extended, tips at height
// y with the middle tip spread pixels to the left of the index tip.
func TwoFingerLandmarks(spread, y float64) HandLandmarks {
	h := PointingLandmarks(352, y)

	mx := 352 - spread
	h.Points[MiddleMCP] = at(mx, y+127)
	h.Points[MiddlePIP] = at(mx, y+80)
	h.Points[MiddleDIP] = at(mx, y+40)
	h.Points[MiddleTip] = at(mx, y)

	return h
}

// CopyLandmarks returns the thumb touching both the index and middle tips,
// each about 25 pixels away, with neither finger extended.
func CopyLandmarks() HandLandmarks {
	h := FistLandmarks()
	h.Points[ThumbTip] = at(336, 325)
	return h
}

// PasteLandmarks returns the thumb touching the ring and pinky tips.
func PasteLandmarks() HandLandmarks {
	h := FistLandmarks()
	h.Points[ThumbTip] = at(275, 312)
	return h
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm gesture.
// All fingers are extended outward.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}
