// Package app assembles a runnable handmouse from its configuration: frame
// source, input sink, observers and the control loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ayusman/handmouse/internal/action"
	"github.com/ayusman/handmouse/internal/config"
	"github.com/ayusman/handmouse/internal/engine"
	"github.com/ayusman/handmouse/internal/journal"
	"github.com/ayusman/handmouse/internal/plugin"
	"github.com/ayusman/handmouse/internal/server"
	"github.com/ayusman/handmouse/internal/tray"
	"github.com/rs/zerolog"
)

// Options are per-run choices made on the command line rather than in the
// configuration file.
type Options struct {
	// ReplayPath plays back a recording instead of opening the camera.
	ReplayPath string

	// ReplayInterval paces playback; zero replays as fast as possible.
	ReplayInterval time.Duration

	// RecordPath tees every frame the source yields into a recording.
	RecordPath string

	// DryRun logs actions instead of injecting them.
	DryRun bool
}

// App is an assembled engine with its optional journal, server and tray.
type App struct {
	config  *config.Config
	logger  zerolog.Logger
	control *engine.Control
	loop    *engine.Loop
	journal *journal.Journal
	hub     *server.Hub
	server  *server.Server
	tray    *tray.Tray
	plugins *plugin.Manager

	// closers release resources in reverse order of acquisition.
	closers []func() error
}

// New builds every component cfg enables. On error, everything acquired so
// far is released.
func New(cfg *config.Config, opts Options, logger zerolog.Logger) (_ *App, err error) {
	a := &App{
		config:  cfg,
		logger:  logger,
		control: engine.NewControl(),
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	sink, detected, err := a.newSink(opts)
	if err != nil {
		return nil, err
	}

	engineCfg, err := cfg.EngineParams(detected)
	if err != nil {
		return nil, err
	}

	src, err := a.newSource(opts)
	if err != nil {
		return nil, err
	}

	a.loop = engine.NewLoop(engineCfg, src, action.NewDispatcher(sink), logger)
	a.loop.SetQuitSignal(a.control)
	a.loop.SetPauseSignal(a.control)

	if cfg.Journal.Enabled {
		j, err := journal.New(cfg.Journal.Path, sourceName(opts), logger)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		a.journal = j
		a.closers = append(a.closers, j.Close)
		a.loop.AddObserver(j)
	}

	if cfg.Server.Enabled {
		a.hub = server.NewHub(logger)
		a.loop.AddObserver(a.hub)
		a.server = server.New(server.Config{
			Hub:     a.hub,
			Journal: a.journal,
			Control: a.control,
			Logger:  logger,
		})
	}

	if cfg.Tray.Enabled {
		a.tray = tray.New(a.control)
		a.loop.AddObserver(a.tray)
	}

	logger.Info().
		Str("source", sourceName(opts)).
		Str("sink", sinkName(cfg, opts)).
		Float64("screenWidth", engineCfg.Screen.Width).
		Float64("screenHeight", engineCfg.Screen.Height).
		Msg("handmouse assembled")

	return a, nil
}

// Control returns the pause/quit switch shared by the loop, tray and server.
func (a *App) Control() *engine.Control {
	return a.control
}

// Tray returns the tray, or nil when it is disabled. Its Run method must be
// called from the main goroutine.
func (a *App) Tray() *tray.Tray {
	return a.tray
}

// Loop returns the control loop.
func (a *App) Loop() *engine.Loop {
	return a.loop
}

// Journal returns the journal, or nil when it is disabled.
func (a *App) Journal() *journal.Journal {
	return a.journal
}

// Run runs the control loop, and the server if enabled, until the source
// ends, quit is requested or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if a.server != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.server.Run(ctx, a.config.Server.Addr); err != nil {
				a.logger.Error().Err(err).Str("addr", a.config.Server.Addr).Msg("http server failed")
			}
		}()
	}

	state, err := a.loop.Run(ctx)
	cancel()
	wg.Wait()

	a.logger.Info().
		Int("frames", a.loop.Frames()).
		Bool("dragging", state.Gesture.Dragging).
		Msg("handmouse stopped")

	if err != nil {
		return fmt.Errorf("control loop: %w", err)
	}
	return nil
}

// Close releases every resource New acquired.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func sourceName(opts Options) string {
	if opts.ReplayPath != "" {
		return "replay:" + opts.ReplayPath
	}
	return "camera"
}

func sinkName(cfg *config.Config, opts Options) string {
	if opts.DryRun {
		return config.SinkLog
	}
	return cfg.Sink.Type
}
