// Package config loads the single configuration structure that every
// handmouse component is built from.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ayusman/handmouse/internal/cursor"
	"github.com/ayusman/handmouse/internal/engine"
	"github.com/ayusman/handmouse/internal/gesture"
	"github.com/ayusman/handmouse/internal/logging"
	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. HANDMOUSE_GESTURE_CLICKTHRESHOLD.
const EnvPrefix = "HANDMOUSE"

// Sink types
const (
	SinkRobotgo = "robotgo"
	SinkPlugin  = "plugin"
	SinkLog     = "log"
)

// CameraConfig selects the capture device.
type CameraConfig struct {
	Device int  `json:"device" mapstructure:"device"`
	Width  int  `json:"width" mapstructure:"width"`
	Height int  `json:"height" mapstructure:"height"`
	FPS    int  `json:"fps" mapstructure:"fps"`
	Mirror bool `json:"mirror" mapstructure:"mirror"`

	// MotionThreshold is the percentage of changed pixels below which the
	// previous detection is reused. Zero disables the motion gate.
	MotionThreshold float64 `json:"motionThreshold" mapstructure:"motionThreshold"`
}

// DetectorConfig configures the MediaPipe subprocess.
type DetectorConfig struct {
	ScriptPath            string        `json:"scriptPath" mapstructure:"scriptPath"`
	MinConfidence         float64       `json:"minConfidence" mapstructure:"minConfidence"`
	MinTrackingConfidence float64       `json:"minTrackingConfidence" mapstructure:"minTrackingConfidence"`
	IdleTimeout           time.Duration `json:"idleTimeout" mapstructure:"idleTimeout"`
}

// SmoothingConfig configures the motion smoother.
type SmoothingConfig struct {
	Factor          float64 `json:"factor" mapstructure:"factor"`
	DeadZone        float64 `json:"deadZone" mapstructure:"deadZone"`
	HistoryCapacity int     `json:"historyCapacity" mapstructure:"historyCapacity"`
}

// FrameConfig is the camera frame size landmarks are scaled to, and the
// margin that shrinks it into the active zone.
type FrameConfig struct {
	Width  int     `json:"width" mapstructure:"width"`
	Height int     `json:"height" mapstructure:"height"`
	Margin float64 `json:"margin" mapstructure:"margin"`
}

// ScreenConfig is the target screen. Zero means detect at start-up.
type ScreenConfig struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

// CooldownConfig holds per-class debounce intervals.
type CooldownConfig struct {
	LeftClick  time.Duration `json:"leftClick" mapstructure:"leftClick"`
	RightClick time.Duration `json:"rightClick" mapstructure:"rightClick"`
	Copy       time.Duration `json:"copy" mapstructure:"copy"`
	Paste      time.Duration `json:"paste" mapstructure:"paste"`
}

// GestureConfig holds the classification thresholds, in camera pixels.
type GestureConfig struct {
	ClickThreshold  float64        `json:"clickThreshold" mapstructure:"clickThreshold"`
	DragInner       float64        `json:"dragInner" mapstructure:"dragInner"`
	DragOuter       float64        `json:"dragOuter" mapstructure:"dragOuter"`
	ScrollThreshold float64        `json:"scrollThreshold" mapstructure:"scrollThreshold"`
	ScrollDivisor   float64        `json:"scrollDivisor" mapstructure:"scrollDivisor"`
	Modifier        string         `json:"modifier" mapstructure:"modifier"`
	Cooldowns       CooldownConfig `json:"cooldowns" mapstructure:"cooldowns"`
}

// EngineConfig holds the control loop's error policy.
type EngineConfig struct {
	AbortOnSinkError bool `json:"abortOnSinkError" mapstructure:"abortOnSinkError"`
	MaxSourceErrors  int  `json:"maxSourceErrors" mapstructure:"maxSourceErrors"`
}

// SinkConfig selects where actions go.
type SinkConfig struct {
	Type      string        `json:"type" mapstructure:"type"`
	PluginDir string        `json:"pluginDir" mapstructure:"pluginDir"`
	Plugin    string        `json:"plugin" mapstructure:"plugin"`
	Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`

	// KeyPlugin names a plugin that takes over the action kinds its
	// manifest declares, e.g. key combos; the rest still go to Type.
	KeyPlugin string `json:"keyPlugin" mapstructure:"keyPlugin"`
}

// JournalConfig controls the SQLite action journal.
type JournalConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// ServerConfig controls the debug HTTP and websocket server.
type ServerConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Addr    string `json:"addr" mapstructure:"addr"`
}

// TrayConfig controls the system tray icon.
type TrayConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// Config is the whole handmouse configuration.
type Config struct {
	LogLevel  string          `json:"logLevel" mapstructure:"logLevel"`
	LogPretty bool            `json:"logPretty" mapstructure:"logPretty"`
	LogFile   string          `json:"logFile" mapstructure:"logFile"`
	Camera    CameraConfig    `json:"camera" mapstructure:"camera"`
	Detector  DetectorConfig  `json:"detector" mapstructure:"detector"`
	Smoothing SmoothingConfig `json:"smoothing" mapstructure:"smoothing"`
	Frame     FrameConfig     `json:"frame" mapstructure:"frame"`
	Screen    ScreenConfig    `json:"screen" mapstructure:"screen"`
	Gesture   GestureConfig   `json:"gesture" mapstructure:"gesture"`
	Engine    EngineConfig    `json:"engine" mapstructure:"engine"`
	Sink      SinkConfig      `json:"sink" mapstructure:"sink"`
	Journal   JournalConfig   `json:"journal" mapstructure:"journal"`
	Server    ServerConfig    `json:"server" mapstructure:"server"`
	Tray      TrayConfig      `json:"tray" mapstructure:"tray"`
}

// setDefaults registers every key, which also makes each one reachable
// through its environment variable.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logPretty", true)
	v.SetDefault("logFile", "")

	v.SetDefault("camera.device", 0)
	v.SetDefault("camera.width", 640)
	v.SetDefault("camera.height", 480)
	v.SetDefault("camera.fps", 30)
	v.SetDefault("camera.mirror", true)
	v.SetDefault("camera.motionThreshold", 0.0)

	v.SetDefault("detector.scriptPath", "")
	v.SetDefault("detector.minConfidence", 0.7)
	v.SetDefault("detector.minTrackingConfidence", 0.5)
	v.SetDefault("detector.idleTimeout", "30s")

	v.SetDefault("smoothing.factor", 5.0)
	v.SetDefault("smoothing.deadZone", 2.0)
	v.SetDefault("smoothing.historyCapacity", 5)

	v.SetDefault("frame.width", 640)
	v.SetDefault("frame.height", 480)
	v.SetDefault("frame.margin", 100.0)

	v.SetDefault("screen.width", 0)
	v.SetDefault("screen.height", 0)

	v.SetDefault("gesture.clickThreshold", 30.0)
	v.SetDefault("gesture.dragInner", 0.0)
	v.SetDefault("gesture.dragOuter", 20.0)
	v.SetDefault("gesture.scrollThreshold", 60.0)
	v.SetDefault("gesture.scrollDivisor", 20.0)
	v.SetDefault("gesture.modifier", "ctrl")
	v.SetDefault("gesture.cooldowns.leftClick", "250ms")
	v.SetDefault("gesture.cooldowns.rightClick", "400ms")
	v.SetDefault("gesture.cooldowns.copy", "750ms")
	v.SetDefault("gesture.cooldowns.paste", "750ms")

	v.SetDefault("engine.abortOnSinkError", false)
	v.SetDefault("engine.maxSourceErrors", 30)

	v.SetDefault("sink.type", SinkRobotgo)
	v.SetDefault("sink.pluginDir", "")
	v.SetDefault("sink.plugin", "xdotool")
	v.SetDefault("sink.timeout", "2s")
	v.SetDefault("sink.keyPlugin", "")

	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.path", "")

	v.SetDefault("server.enabled", false)
	v.SetDefault("server.addr", "127.0.0.1:8765")

	v.SetDefault("tray.enabled", false)
}

// Default returns the built-in configuration, ignoring the environment.
func Default() Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// the defaults always decode; the package tests validate them
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Load reads the configuration file at path (JSON, YAML or TOML, chosen by
// extension) on top of the defaults, then applies HANDMOUSE_* environment
// overrides and validates the result. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Overrides are command-line values that replace configured ones when set.
type Overrides struct {
	LogLevel string
	LogFile  string
	Sink     string
}

// Apply replaces the fields o sets and validates the result again.
func (c *Config) Apply(o Overrides) error {
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.Sink != "" {
		c.Sink.Type = o.Sink
	}
	return c.Validate()
}

// Validate checks the cross-field invariants.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return invalid("%v", err)
	}

	if c.Frame.Width <= 0 || c.Frame.Height <= 0 {
		return invalid("frame size %dx%d must be positive", c.Frame.Width, c.Frame.Height)
	}
	if c.Frame.Margin < 0 ||
		c.Frame.Margin*2 >= float64(c.Frame.Width) ||
		c.Frame.Margin*2 >= float64(c.Frame.Height) {
		return invalid("frame margin %g must be below half of %dx%d", c.Frame.Margin, c.Frame.Width, c.Frame.Height)
	}
	if c.Screen.Width < 0 || c.Screen.Height < 0 {
		return invalid("screen size %dx%d must not be negative", c.Screen.Width, c.Screen.Height)
	}

	if c.Smoothing.Factor < 1 {
		return invalid("smoothing factor %g must be at least 1", c.Smoothing.Factor)
	}
	if c.Smoothing.DeadZone < 0 {
		return invalid("dead zone %g must not be negative", c.Smoothing.DeadZone)
	}
	if c.Smoothing.HistoryCapacity < 1 {
		return invalid("history capacity %d must be at least 1", c.Smoothing.HistoryCapacity)
	}

	g := c.Gesture
	if g.DragInner < 0 || g.DragInner >= g.DragOuter {
		return invalid("drag band [%g, %g) is empty", g.DragInner, g.DragOuter)
	}
	if g.DragOuter > g.ClickThreshold {
		return invalid("drag band outer edge %g exceeds click threshold %g", g.DragOuter, g.ClickThreshold)
	}
	if g.ClickThreshold >= g.ScrollThreshold {
		return invalid("click threshold %g must be below scroll threshold %g", g.ClickThreshold, g.ScrollThreshold)
	}
	if g.ScrollDivisor <= 0 {
		return invalid("scroll divisor %g must be positive", g.ScrollDivisor)
	}
	for name, d := range map[string]time.Duration{
		"leftClick":  g.Cooldowns.LeftClick,
		"rightClick": g.Cooldowns.RightClick,
		"copy":       g.Cooldowns.Copy,
		"paste":      g.Cooldowns.Paste,
	} {
		if d <= 0 {
			return invalid("cooldown %s must be positive", name)
		}
	}

	if c.Engine.MaxSourceErrors < 0 {
		return invalid("maxSourceErrors %d must not be negative", c.Engine.MaxSourceErrors)
	}

	switch c.Sink.Type {
	case SinkRobotgo, SinkLog:
	case SinkPlugin:
		if c.Sink.Plugin == "" {
			return invalid("plugin sink needs a plugin name")
		}
	default:
		return invalid("unknown sink type %q", c.Sink.Type)
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		return invalid("journal enabled without a path")
	}

	return nil
}

// GestureParams converts to the classifier's configuration.
func (c Config) GestureParams() gesture.Config {
	return gesture.Config{
		FrameWidth:      float64(c.Frame.Width),
		FrameHeight:     float64(c.Frame.Height),
		ClickThreshold:  c.Gesture.ClickThreshold,
		DragBand:        gesture.Band{Inner: c.Gesture.DragInner, Outer: c.Gesture.DragOuter},
		ScrollThreshold: c.Gesture.ScrollThreshold,
		ScrollDivisor:   c.Gesture.ScrollDivisor,
		Modifier:        c.Gesture.Modifier,
		Cooldowns: gesture.Cooldowns{
			LeftClick:  c.Gesture.Cooldowns.LeftClick,
			RightClick: c.Gesture.Cooldowns.RightClick,
			Copy:       c.Gesture.Cooldowns.Copy,
			Paste:      c.Gesture.Cooldowns.Paste,
		},
	}
}

// SmoothingParams converts to the smoother's configuration.
func (c Config) SmoothingParams() cursor.SmoothingConfig {
	return cursor.SmoothingConfig{
		Factor:          c.Smoothing.Factor,
		DeadZone:        c.Smoothing.DeadZone,
		HistoryCapacity: c.Smoothing.HistoryCapacity,
	}
}

// EngineParams builds the engine configuration. detected is the screen size
// reported by the input sink; it is used for any screen dimension left at zero.
func (c Config) EngineParams(detected cursor.Size) (engine.Config, error) {
	zone, err := cursor.NewActiveZone(
		cursor.Size{Width: float64(c.Frame.Width), Height: float64(c.Frame.Height)},
		c.Frame.Margin,
	)
	if err != nil {
		return engine.Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	screen := detected
	if c.Screen.Width > 0 {
		screen.Width = float64(c.Screen.Width)
	}
	if c.Screen.Height > 0 {
		screen.Height = float64(c.Screen.Height)
	}
	if screen.Width <= 0 || screen.Height <= 0 {
		return engine.Config{}, fmt.Errorf("%w: screen size unknown, set screen.width and screen.height", ErrInvalid)
	}

	return engine.Config{
		Gesture:          c.GestureParams(),
		Smoothing:        c.SmoothingParams(),
		Zone:             zone,
		Screen:           screen,
		AbortOnSinkError: c.Engine.AbortOnSinkError,
		MaxSourceErrors:  c.Engine.MaxSourceErrors,
	}, nil
}
