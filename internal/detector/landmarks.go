// Package detector provides hand detection interfaces and the landmark frame model.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point in space with x, y, z coordinates.
// Z is carried through from the estimator but no gesture depends on it.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one landmark frame: the 21 points of a single hand in
// normalized [0,1] camera space, y growing downward.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// FromPoints builds a landmark frame from an estimator's point list.
// It reports false when the list is malformed: the wrong landmark count or a
// non-finite coordinate. Callers treat a malformed frame as "no hand".
func FromPoints(points []Point3D, handedness string, score float64) (*HandLandmarks, bool) {
	if len(points) != NumLandmarks {
		return nil, false
	}

	h := &HandLandmarks{
		Handedness: handedness,
		Score:      score,
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return nil, false
		}
		h.Points[i] = p
	}

	return h, true
}

// Scaled returns a copy of the frame with X and Y multiplied by the frame
// width and height, converting normalized coordinates to camera pixels.
func (h *HandLandmarks) Scaled(width, height float64) *HandLandmarks {
	if h == nil {
		return nil
	}

	scaled := &HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}
	for i := 0; i < NumLandmarks; i++ {
		scaled.Points[i] = Point3D{
			X: h.Points[i].X * width,
			Y: h.Points[i].Y * height,
			Z: h.Points[i].Z,
		}
	}

	return scaled
}

// Distance2D returns the planar Euclidean distance between two landmarks.
func (h *HandLandmarks) Distance2D(a, b int) float64 {
	dx := h.Points[a].X - h.Points[b].X
	dy := h.Points[a].Y - h.Points[b].Y
	return math.Sqrt(dx*dx + dy*dy)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
