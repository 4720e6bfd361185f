package capture

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ayusman/handmouse/internal/detector"
	"gocv.io/x/gocv"
)

// Source yields one landmark frame per call. A nil frame with a nil error
// means no hand was detected; io.EOF means the stream has ended.
type Source interface {
	Next(ctx context.Context) (*detector.HandLandmarks, error)
}

// CameraSource reads frames from a camera and runs them through a detector.
// Only the first detected hand is used.
type CameraSource struct {
	camera   Camera
	detector detector.Detector
	mirror   bool
	gate     *MotionGate
	last     *detector.HandLandmarks
}

// NewCameraSource creates a source over an opened camera. When mirror is
// set each frame is flipped horizontally before detection so that moving
// the hand right moves the cursor right.
func NewCameraSource(camera Camera, d detector.Detector, mirror bool) *CameraSource {
	return &CameraSource{camera: camera, detector: d, mirror: mirror}
}

// WithMotionGate makes the source reuse the previous detection while the
// scene is still.
func (s *CameraSource) WithMotionGate(g *MotionGate) *CameraSource {
	s.gate = g
	return s
}

// Next blocks on the camera, then on the detector.
func (s *CameraSource) Next(ctx context.Context) (*detector.HandLandmarks, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frame, err := s.camera.ReadFrame()
	if errors.Is(err, ErrEndOfStream) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()

	if s.mirror {
		gocv.Flip(*frame, frame, 1)
	}

	if s.gate != nil {
		if detect, _ := s.gate.ShouldDetect(frame); !detect && s.last != nil {
			hand := *s.last
			return &hand, nil
		}
	}

	hands, err := s.detector.Detect(frame)
	if err != nil {
		s.last = nil
		return nil, fmt.Errorf("detect hands: %w", err)
	}
	if len(hands) == 0 {
		s.last = nil
		return nil, nil
	}

	hand := hands[0]
	s.last = &hands[0]
	return &hand, nil
}

// SliceSource replays an in-memory frame sequence, then reports io.EOF.
// Nil entries stand for frames without a hand.
type SliceSource struct {
	frames []*detector.HandLandmarks
	pos    int
}

// NewSliceSource creates a source over frames.
func NewSliceSource(frames ...*detector.HandLandmarks) *SliceSource {
	return &SliceSource{frames: frames}
}

// Next returns the next frame in the sequence.
func (s *SliceSource) Next(ctx context.Context) (*detector.HandLandmarks, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

// Remaining returns how many frames have not been read yet.
func (s *SliceSource) Remaining() int {
	return len(s.frames) - s.pos
}
