package app

import (
	"fmt"
	"os"

	"github.com/ayusman/handmouse/internal/action"
	"github.com/ayusman/handmouse/internal/capture"
	"github.com/ayusman/handmouse/internal/config"
	"github.com/ayusman/handmouse/internal/cursor"
	"github.com/ayusman/handmouse/internal/detector"
	"github.com/ayusman/handmouse/internal/inject"
	"github.com/ayusman/handmouse/internal/plugin"
)

// nominalScreen stands in for the screen size when nothing is injected and
// the configuration does not name one.
var nominalScreen = cursor.Size{Width: 1920, Height: 1080}

// newSink picks the input sink and reports the screen size it detected, or
// a zero size when it cannot tell. A configured key plugin is layered on top
// of everything but the dry-run sink.
func (a *App) newSink(opts Options) (action.Sink, cursor.Size, error) {
	sink, detected, err := a.baseSink(opts)
	if err != nil || opts.DryRun || a.config.Sink.KeyPlugin == "" {
		return sink, detected, err
	}

	keys, err := a.pluginSink(a.config.Sink.KeyPlugin)
	if err != nil {
		return nil, cursor.Size{}, err
	}
	return plugin.NewRoutingSink(sink, keys), detected, nil
}

func (a *App) baseSink(opts Options) (action.Sink, cursor.Size, error) {
	sinkType := a.config.Sink.Type
	if opts.DryRun {
		sinkType = config.SinkLog
	}

	switch sinkType {
	case config.SinkLog:
		return inject.NewLogSink(a.logger), nominalScreen, nil

	case config.SinkPlugin:
		sink, err := a.pluginSink(a.config.Sink.Plugin)
		if err != nil {
			return nil, cursor.Size{}, err
		}
		return sink, cursor.Size{}, nil

	default:
		sink := inject.NewRobotSink()
		return sink, sink.ScreenSize(), nil
	}
}

// pluginSink discovers the plugin directory and returns a sink for name.
func (a *App) pluginSink(name string) (*plugin.Sink, error) {
	if a.plugins == nil {
		dir := a.config.Sink.PluginDir
		if dir == "" {
			dir = plugin.DefaultDir()
		}
		mgr := plugin.NewManager(dir, a.logger)
		if err := mgr.Discover(); err != nil {
			return nil, fmt.Errorf("discover plugins: %w", err)
		}
		a.plugins = mgr
	}

	p, err := a.plugins.Get(name)
	if err != nil {
		return nil, err
	}

	exec := plugin.NewExecutor(a.config.Sink.Timeout)
	a.logger.Info().
		Str("plugin", p.Manifest.Name).
		Str("version", p.Manifest.Version).
		Strs("actions", p.Manifest.Actions).
		Dur("timeout", exec.Timeout()).
		Msg("using plugin")
	return plugin.NewSink(p, exec), nil
}

// newSource opens the frame source: a replay file when one is given,
// otherwise the camera with the MediaPipe detector.
func (a *App) newSource(opts Options) (capture.Source, error) {
	var src capture.Source

	if opts.ReplayPath != "" {
		replay, err := capture.OpenReplay(opts.ReplayPath, opts.ReplayInterval)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error {
			if n := replay.Malformed(); n > 0 {
				a.logger.Warn().Int("lines", n).Msg("replay contained malformed frames")
			}
			return replay.Close()
		})
		src = replay
	} else {
		camSrc, err := a.newCameraSource()
		if err != nil {
			return nil, err
		}
		src = camSrc
	}

	if opts.RecordPath != "" {
		f, err := os.Create(opts.RecordPath)
		if err != nil {
			return nil, fmt.Errorf("create recording: %w", err)
		}
		a.closers = append(a.closers, f.Close)
		src = capture.NewRecorder(src, f)
	}

	return src, nil
}

func (a *App) newCameraSource() (*capture.CameraSource, error) {
	cc := a.config.Camera
	dc := a.config.Detector

	d, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:        1,
		MinConfidence:   dc.MinConfidence,
		MinTrackingConf: dc.MinTrackingConfidence,
		ScriptPath:      dc.ScriptPath,
		IdleTimeout:     dc.IdleTimeout,
	}, a.logger)
	if err != nil {
		return nil, fmt.Errorf("hand detector: %w", err)
	}
	a.closers = append(a.closers, d.Close)

	camera := capture.NewCamera(capture.CameraConfig{
		DeviceID: cc.Device,
		Width:    cc.Width,
		Height:   cc.Height,
		FPS:      cc.FPS,
	})
	if err := camera.Open(); err != nil {
		return nil, fmt.Errorf("open camera %d: %w", cc.Device, err)
	}
	a.closers = append(a.closers, camera.Close)

	src := capture.NewCameraSource(camera, d, cc.Mirror)
	if cc.MotionThreshold > 0 {
		gate := capture.NewMotionGate(cc.MotionThreshold, capture.DefaultMaxReuse)
		a.closers = append(a.closers, func() error {
			gate.Close()
			return nil
		})
		src = src.WithMotionGate(gate)
	}

	a.logger.Info().
		Int("device", cc.Device).
		Int("fps", camera.FPS()).
		Bool("mirror", cc.Mirror).
		Float64("motionThreshold", cc.MotionThreshold).
		Msg("camera opened")

	return src, nil
}
