package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion gate constants
const (
	// blurKernel is the Gaussian kernel size used before differencing.
	blurKernel = 21
	// pixelDelta is the per-pixel intensity change that counts as movement.
	pixelDelta = 25
	// DefaultMaxReuse bounds how many still frames may reuse one detection.
	DefaultMaxReuse = 10
)

// MotionGate decides whether a frame differs enough from the previous one
// to be worth running hand detection on. A still scene keeps the previous
// landmarks, which saves a detector round trip per frame.
type MotionGate struct {
	threshold float64
	maxReuse  int
	prevGray  gocv.Mat
	primed    bool
	reused    int
	mu        sync.Mutex
}

// NewMotionGate creates a gate. threshold is the percentage of changed
// pixels above which a frame counts as moving; maxReuse caps consecutive
// skipped detections so tracking never goes stale for long.
func NewMotionGate(threshold float64, maxReuse int) *MotionGate {
	if maxReuse <= 0 {
		maxReuse = DefaultMaxReuse
	}
	return &MotionGate{
		threshold: threshold,
		maxReuse:  maxReuse,
		prevGray:  gocv.NewMat(),
	}
}

// ShouldDetect reports whether frame must go through the detector. It also
// returns the share of changed pixels, in percent.
func (g *MotionGate) ShouldDetect(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return true, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernel, Y: blurKernel}, 0, 0, gocv.BorderDefault)

	if !g.primed {
		blurred.CopyTo(&g.prevGray)
		g.primed = true
		g.reused = 0
		return true, 100
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, pixelDelta, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(mask)) / float64(mask.Rows()*mask.Cols()) * 100.0
	blurred.CopyTo(&g.prevGray)

	if changed > g.threshold || g.reused >= g.maxReuse {
		g.reused = 0
		return true, changed
	}
	g.reused++
	return false, changed
}

// Reset forgets the baseline frame.
func (g *MotionGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.primed = false
	g.reused = 0
}

// Close releases the baseline frame.
func (g *MotionGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prevGray.Close()
	g.prevGray = gocv.NewMat()
	g.primed = false
}
