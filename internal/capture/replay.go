package capture

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ayusman/handmouse/internal/detector"
)

// maxLineSize bounds one recorded frame; 21 points fit in well under 4 KiB.
const maxLineSize = 64 * 1024

// frameRecord is one line of a recording. A record without points is a
// frame in which no hand was seen.
type frameRecord struct {
	Points     []detector.Point3D `json:"points,omitempty"`
	Handedness string             `json:"handedness,omitempty"`
	Score      float64            `json:"score,omitempty"`
}

// ReplaySource plays back a JSON Lines recording made by Recorder.
// Lines that fail to parse, or carry a malformed hand, are returned as
// frames without a hand.
type ReplaySource struct {
	scanner   *bufio.Scanner
	closer    io.Closer
	interval  time.Duration
	lines     int
	malformed int
}

// OpenReplay opens a recording file. interval paces playback; zero plays
// as fast as the consumer reads.
func OpenReplay(path string, interval time.Duration) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay %s: %w", path, err)
	}
	src := NewReplaySource(f, interval)
	src.closer = f
	return src, nil
}

// NewReplaySource plays back records read from r.
func NewReplaySource(r io.Reader, interval time.Duration) *ReplaySource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &ReplaySource{scanner: scanner, interval: interval}
}

// Next returns the next recorded frame, or io.EOF after the last one.
func (s *ReplaySource) Next(ctx context.Context) (*detector.HandLandmarks, error) {
	if s.interval > 0 && s.lines > 0 {
		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	for s.scanner.Scan() {
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		s.lines++

		var rec frameRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			s.malformed++
			return nil, nil
		}
		if len(rec.Points) == 0 {
			return nil, nil
		}

		hand, ok := detector.FromPoints(rec.Points, rec.Handedness, rec.Score)
		if !ok {
			s.malformed++
			return nil, nil
		}
		return hand, nil
	}

	// A scanner that failed never recovers, so the stream ends here too.
	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read replay: %w: %w", err, io.EOF)
	}
	return nil, io.EOF
}

// Malformed returns how many lines could not be turned into a frame.
func (s *ReplaySource) Malformed() int {
	return s.malformed
}

// Close closes the underlying file, if the source opened one.
func (s *ReplaySource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Recorder wraps a source and writes every frame it yields to w, producing
// a recording that ReplaySource can play back.
type Recorder struct {
	src Source
	enc *json.Encoder
}

// NewRecorder tees src into w.
func NewRecorder(src Source, w io.Writer) *Recorder {
	return &Recorder{src: src, enc: json.NewEncoder(w)}
}

// Next reads from the wrapped source and records the frame. Errors from the
// source are passed through without being recorded.
func (r *Recorder) Next(ctx context.Context) (*detector.HandLandmarks, error) {
	hand, err := r.src.Next(ctx)
	if err != nil {
		return hand, err
	}

	var rec frameRecord
	if hand != nil {
		rec.Points = hand.Points[:]
		rec.Handedness = hand.Handedness
		rec.Score = hand.Score
	}
	if err := r.enc.Encode(rec); err != nil {
		return hand, fmt.Errorf("record frame: %w", err)
	}
	return hand, nil
}
