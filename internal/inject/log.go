package inject

import (
	"github.com/ayusman/handmouse/internal/action"
	"github.com/rs/zerolog"
)

// LogSink logs actions instead of performing them. Moves are logged at
// trace level since there is one per frame.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a dry-run sink.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "dry-run").Logger()}
}

func (s *LogSink) MoveCursor(x, y int) error {
	s.logger.Trace().Int("x", x).Int("y", y).Msg(string(action.KindMove))
	return nil
}

func (s *LogSink) MouseDown() error {
	s.logger.Info().Msg(string(action.KindMouseDown))
	return nil
}

func (s *LogSink) MouseUp() error {
	s.logger.Info().Msg(string(action.KindMouseUp))
	return nil
}

func (s *LogSink) Click(button action.Button) error {
	s.logger.Info().Str("button", string(button)).Msg(string(action.KindClick))
	return nil
}

func (s *LogSink) Scroll(delta int) error {
	s.logger.Info().Int("delta", delta).Msg(string(action.KindScroll))
	return nil
}

func (s *LogSink) KeyCombo(modifier, key string) error {
	s.logger.Info().Str("modifier", modifier).Str("key", key).Msg(string(action.KindKeyCombo))
	return nil
}
