package cursor

import "math"

// SmoothingConfig holds the motion smoother parameters.
type SmoothingConfig struct {
	// Factor divides each step toward the averaged target. Must be >= 1;
	// 1 disables exponential smoothing.
	Factor float64

	// DeadZone is the per-axis change, in screen pixels, below which the
	// cursor does not move at all.
	DeadZone float64

	// HistoryCapacity is the number of raw positions averaged together.
	HistoryCapacity int
}

// State is the smoother's memory between frames. It is a value record: Smooth
// never modifies the State it is given.
type State struct {
	Prev        Point
	History     []Point
	Initialized bool
}

// Smooth feeds one raw mapped position into the filter and returns the new
// cursor position and the next state.
//
// The raw point is appended to a bounded history and averaged. Axes where the
// average moved less than the dead zone keep the previous value; the rest
// move 1/Factor of the way toward the average. The first sample seeds the
// filter directly.
func Smooth(cfg SmoothingConfig, s State, raw Point) (Point, State) {
	capacity := cfg.HistoryCapacity
	if capacity < 1 {
		capacity = 1
	}

	history := make([]Point, 0, capacity)
	if keep := len(s.History) - (capacity - 1); keep > 0 {
		history = append(history, s.History[keep:]...)
	} else {
		history = append(history, s.History...)
	}
	history = append(history, raw)

	if !s.Initialized {
		return raw, State{Prev: raw, History: history, Initialized: true}
	}

	avg := average(history)

	factor := cfg.Factor
	if factor < 1 {
		factor = 1
	}

	next := Point{
		X: step(s.Prev.X, avg.X, cfg.DeadZone, factor),
		Y: step(s.Prev.Y, avg.Y, cfg.DeadZone, factor),
	}

	return next, State{Prev: next, History: history, Initialized: true}
}

func step(prev, target, deadZone, factor float64) float64 {
	if math.Abs(target-prev) < deadZone {
		return prev
	}
	return prev + (target-prev)/factor
}

func average(points []Point) Point {
	var sum Point
	for _, p := range points {
		sum.X += p.X
		sum.Y += p.Y
	}
	n := float64(len(points))
	return Point{X: sum.X / n, Y: sum.Y / n}
}
