package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ayusman/handmouse/internal/action"
	"github.com/ayusman/handmouse/internal/capture"
	"github.com/ayusman/handmouse/internal/gesture"
	"github.com/ayusman/handmouse/internal/logging"
	"github.com/rs/zerolog"
)

// Frame is what observers are told about each processed frame.
type Frame struct {
	Index  int
	Time   time.Time
	Paused bool
	Result Result

	// Dispatched counts the actions the sink accepted; DispatchErr is the
	// error that stopped the rest.
	Dispatched  int
	DispatchErr error
}

// Observer receives every processed frame. Observers run on the loop's
// goroutine and must not block.
type Observer interface {
	Observe(f Frame)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) Observe(f Frame) { fn(f) }

// Loop reads frames, runs Step and dispatches the resulting actions, one
// frame at a time on the calling goroutine.
type Loop struct {
	config     Config
	source     capture.Source
	dispatcher *action.Dispatcher
	clock      Clock
	quit       QuitSignal
	pause      PauseSignal
	observers  []Observer
	logger     zerolog.Logger

	// frameLog carries messages that can repeat on every frame.
	frameLog zerolog.Logger

	frames int
}

// NewLoop creates a loop with the system clock and no quit or pause signal.
func NewLoop(config Config, source capture.Source, dispatcher *action.Dispatcher, logger zerolog.Logger) *Loop {
	l := &Loop{
		config:     config,
		source:     source,
		dispatcher: dispatcher,
		clock:      SystemClock{},
		logger:     logger.With().Str("component", "engine").Logger(),
	}
	l.frameLog = logging.Sampled(l.logger)
	return l
}

// SetClock replaces the frame clock.
func (l *Loop) SetClock(c Clock) { l.clock = c }

// SetQuitSignal sets the signal polled before each frame.
func (l *Loop) SetQuitSignal(q QuitSignal) { l.quit = q }

// SetPauseSignal sets the signal that suspends gesture evaluation.
func (l *Loop) SetPauseSignal(p PauseSignal) { l.pause = p }

// AddObserver registers an observer for processed frames.
func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }

// Frames returns how many frames the loop has processed.
func (l *Loop) Frames() int { return l.frames }

// Run processes frames until the source ends, ctx is cancelled or quit is
// requested. A held drag is always released before Run returns. It returns
// the final engine state; the error is nil for a clean stop.
func (l *Loop) Run(ctx context.Context) (State, error) {
	var (
		state    State
		failures int
	)

	l.logger.Info().Msg("control loop started")

	for {
		if ctx.Err() != nil || l.quitRequested() {
			l.logger.Info().Int("frames", l.frames).Msg("control loop stopped")
			return l.release(state), nil
		}

		hand, err := l.source.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			l.logger.Info().Int("frames", l.frames).Msg("frame source ended")
			return l.release(state), nil
		case ctx.Err() != nil:
			continue
		case err != nil:
			failures++
			l.frameLog.Warn().Err(err).Int("consecutive", failures).Msg("frame source failed")
			if l.config.MaxSourceErrors > 0 && failures >= l.config.MaxSourceErrors {
				return l.release(state), fmt.Errorf("frame source failed %d times: %w", failures, err)
			}
			hand = nil
		default:
			failures = 0
		}

		now := l.clock.Now()
		paused := l.pause != nil && l.pause.Paused()

		if paused {
			hand = nil
		}
		var result Result
		result, state = Step(l.config, state, hand, now)

		if err := l.emit(Frame{Time: now, Paused: paused, Result: result}); err != nil {
			return l.release(state), err
		}
	}
}

func (l *Loop) emit(f Frame) error {
	f.Index = l.frames
	l.frames++

	if len(f.Result.Actions) > 0 {
		f.Dispatched, f.DispatchErr = l.dispatcher.Dispatch(f.Result.Actions)
	}

	for _, o := range l.observers {
		o.Observe(f)
	}

	if f.DispatchErr == nil {
		if f.Result.Fired != gesture.ClassNone {
			l.logger.Debug().Str("gesture", f.Result.Fired.String()).Msg("gesture fired")
		}
		return nil
	}

	if l.config.AbortOnSinkError {
		return fmt.Errorf("frame %d: %w", f.Index, f.DispatchErr)
	}
	l.frameLog.Error().Err(f.DispatchErr).Int("frame", f.Index).Msg("input sink failed")
	return nil
}

// release lets go of a held drag on the way out.
func (l *Loop) release(s State) State {
	var r Result
	r.Actions, s.Gesture = gesture.Release(s.Gesture)
	if len(r.Actions) == 0 {
		return s
	}

	f := Frame{Time: l.clock.Now(), Result: r}
	if err := l.emit(f); err != nil {
		l.logger.Error().Err(err).Msg("releasing drag on shutdown")
	}
	return s
}

func (l *Loop) quitRequested() bool {
	return l.quit != nil && l.quit.QuitRequested()
}
