package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/handmouse/internal/cursor"
	"github.com/ayusman/handmouse/internal/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5.0, cfg.Smoothing.Factor)
	assert.Equal(t, 2.0, cfg.Smoothing.DeadZone)
	assert.Equal(t, 5, cfg.Smoothing.HistoryCapacity)
	assert.Equal(t, 640, cfg.Frame.Width)
	assert.Equal(t, 480, cfg.Frame.Height)
	assert.Equal(t, 100.0, cfg.Frame.Margin)
	assert.Equal(t, 0, cfg.Screen.Width)
	assert.Equal(t, 30.0, cfg.Gesture.ClickThreshold)
	assert.Equal(t, 0.0, cfg.Gesture.DragInner)
	assert.Equal(t, 20.0, cfg.Gesture.DragOuter)
	assert.Equal(t, 60.0, cfg.Gesture.ScrollThreshold)
	assert.Equal(t, 20.0, cfg.Gesture.ScrollDivisor)
	assert.Equal(t, "ctrl", cfg.Gesture.Modifier)
	assert.Equal(t, 250*time.Millisecond, cfg.Gesture.Cooldowns.LeftClick)
	assert.Equal(t, 400*time.Millisecond, cfg.Gesture.Cooldowns.RightClick)
	assert.Equal(t, 750*time.Millisecond, cfg.Gesture.Cooldowns.Copy)
	assert.Equal(t, 750*time.Millisecond, cfg.Gesture.Cooldowns.Paste)
	assert.True(t, cfg.Camera.Mirror)
	assert.Equal(t, 30*time.Second, cfg.Detector.IdleTimeout)
	assert.Equal(t, 30, cfg.Engine.MaxSourceErrors)
	assert.False(t, cfg.Engine.AbortOnSinkError)
	assert.Equal(t, SinkRobotgo, cfg.Sink.Type)
	assert.Equal(t, 2*time.Second, cfg.Sink.Timeout)
	assert.Empty(t, cfg.Sink.KeyPlugin)
	assert.Empty(t, cfg.LogFile)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "handmouse.json", `{
		"logLevel": "debug",
		"smoothing": { "factor": 3, "deadZone": 1.5 },
		"gesture": {
			"clickThreshold": 35,
			"cooldowns": { "leftClick": "300ms" }
		},
		"sink": { "type": "log" }
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3.0, cfg.Smoothing.Factor)
	assert.Equal(t, 1.5, cfg.Smoothing.DeadZone)
	assert.Equal(t, 5, cfg.Smoothing.HistoryCapacity, "unset keys keep defaults")
	assert.Equal(t, 35.0, cfg.Gesture.ClickThreshold)
	assert.Equal(t, 300*time.Millisecond, cfg.Gesture.Cooldowns.LeftClick)
	assert.Equal(t, 400*time.Millisecond, cfg.Gesture.Cooldowns.RightClick)
	assert.Equal(t, SinkLog, cfg.Sink.Type)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "handmouse.yaml", `
frame:
  margin: 80
screen:
  width: 2560
  height: 1440
engine:
  abortOnSinkError: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 80.0, cfg.Frame.Margin)
	assert.Equal(t, 2560, cfg.Screen.Width)
	assert.Equal(t, 1440, cfg.Screen.Height)
	assert.True(t, cfg.Engine.AbortOnSinkError)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HANDMOUSE_GESTURE_CLICKTHRESHOLD", "40")
	t.Setenv("HANDMOUSE_SINK_TYPE", "log")
	t.Setenv("HANDMOUSE_CAMERA_MIRROR", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 40.0, cfg.Gesture.ClickThreshold)
	assert.Equal(t, SinkLog, cfg.Sink.Type)
	assert.False(t, cfg.Camera.Mirror)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/handmouse.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, "handmouse.json", `{ "frame": { "margin": 240 } }`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"margin half of height", func(c *Config) { c.Frame.Margin = 240 }},
		{"negative margin", func(c *Config) { c.Frame.Margin = -1 }},
		{"zero frame", func(c *Config) { c.Frame.Width = 0 }},
		{"negative screen", func(c *Config) { c.Screen.Width = -1 }},
		{"smoothing factor below one", func(c *Config) { c.Smoothing.Factor = 0.5 }},
		{"negative dead zone", func(c *Config) { c.Smoothing.DeadZone = -1 }},
		{"zero history", func(c *Config) { c.Smoothing.HistoryCapacity = 0 }},
		{"empty drag band", func(c *Config) { c.Gesture.DragInner = 20 }},
		{"drag band past click", func(c *Config) { c.Gesture.DragOuter = 31 }},
		{"click above scroll", func(c *Config) { c.Gesture.ClickThreshold = 60 }},
		{"zero scroll divisor", func(c *Config) { c.Gesture.ScrollDivisor = 0 }},
		{"zero cooldown", func(c *Config) { c.Gesture.Cooldowns.Paste = 0 }},
		{"negative source errors", func(c *Config) { c.Engine.MaxSourceErrors = -1 }},
		{"unknown sink", func(c *Config) { c.Sink.Type = "carrier-pigeon" }},
		{"plugin sink without plugin", func(c *Config) { c.Sink.Type = SinkPlugin; c.Sink.Plugin = "" }},
		{"journal without path", func(c *Config) { c.Journal.Enabled = true }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestApply(t *testing.T) {
	t.Run("overrides set fields only", func(t *testing.T) {
		cfg := Default()
		require.NoError(t, cfg.Apply(Overrides{LogLevel: "debug", Sink: SinkLog}))
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, SinkLog, cfg.Sink.Type)
		assert.Empty(t, cfg.LogFile)
	})

	t.Run("bad log level is rejected", func(t *testing.T) {
		cfg := Default()
		err := cfg.Apply(Overrides{LogLevel: "loud"})
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("bad sink is rejected", func(t *testing.T) {
		cfg := Default()
		err := cfg.Apply(Overrides{Sink: "carrier-pigeon"})
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestValidate_DragOuterEqualsClick(t *testing.T) {
	cfg := Default()
	cfg.Gesture.DragOuter = cfg.Gesture.ClickThreshold
	assert.NoError(t, cfg.Validate())
}

func TestGestureParams(t *testing.T) {
	g := Default().GestureParams()

	assert.Equal(t, 640.0, g.FrameWidth)
	assert.Equal(t, 480.0, g.FrameHeight)
	assert.Equal(t, gesture.Band{Inner: 0, Outer: 20}, g.DragBand)
	assert.Equal(t, 250*time.Millisecond, g.Cooldown(gesture.ClassLeftClick))
	assert.Equal(t, time.Duration(0), g.Cooldown(gesture.ClassScroll))
}

func TestEngineParams(t *testing.T) {
	t.Run("detected screen", func(t *testing.T) {
		ec, err := Default().EngineParams(cursor.Size{Width: 1920, Height: 1080})
		require.NoError(t, err)

		assert.Equal(t, cursor.ActiveZone{MinX: 100, MinY: 100, MaxX: 540, MaxY: 380}, ec.Zone)
		assert.Equal(t, cursor.Size{Width: 1920, Height: 1080}, ec.Screen)
		assert.Equal(t, 30, ec.MaxSourceErrors)
		assert.Equal(t, 5, ec.Smoothing.HistoryCapacity)
	})

	t.Run("configured screen wins", func(t *testing.T) {
		cfg := Default()
		cfg.Screen = ScreenConfig{Width: 1280, Height: 720}

		ec, err := cfg.EngineParams(cursor.Size{Width: 1920, Height: 1080})
		require.NoError(t, err)
		assert.Equal(t, cursor.Size{Width: 1280, Height: 720}, ec.Screen)
	})

	t.Run("unknown screen", func(t *testing.T) {
		_, err := Default().EngineParams(cursor.Size{})
		assert.ErrorIs(t, err, ErrInvalid)
	})
}
