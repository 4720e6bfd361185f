package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera hands out a fixed number of blank frames for testing, then
// reports ErrEndOfStream.
type MockCamera struct {
	remaining int
	width     int
	height    int
	mu        sync.Mutex
	running   bool
	reads     int
}

// NewMockCamera creates a camera that yields frames blank width x height images.
func NewMockCamera(frames, width, height int) *MockCamera {
	return &MockCamera{
		remaining: frames,
		width:     width,
		height:    height,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}
	if c.remaining <= 0 {
		return nil, ErrEndOfStream
	}

	c.remaining--
	c.reads++
	frame := gocv.NewMatWithSize(c.height, c.width, gocv.MatTypeCV8UC3)
	return &frame, nil
}

// Reads returns how many frames have been handed out.
func (c *MockCamera) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

func (c *MockCamera) SetFPS(fps int) {}
func (c *MockCamera) FPS() int       { return DefaultFPS }
func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
