package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/handmouse/internal/app"
	"github.com/ayusman/handmouse/internal/config"
	"github.com/ayusman/handmouse/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "configuration file (JSON, YAML or TOML)")
	replay := flag.String("replay", "", "replay a landmark recording instead of opening the camera")
	replayInterval := flag.Duration("replay-interval", 0, "delay between replayed frames")
	record := flag.String("record", "", "record every frame to this file")
	dryRun := flag.Bool("dry-run", false, "log actions instead of injecting them")
	var overrides config.Overrides
	flag.StringVar(&overrides.LogLevel, "log-level", "", "override the configured log level")
	flag.StringVar(&overrides.LogFile, "log-file", "", "also append logs to this file")
	flag.StringVar(&overrides.Sink, "sink", "", "override the configured sink: robotgo, plugin or log")
	flag.Parse()

	if err := run(*configPath, overrides, app.Options{
		ReplayPath:     *replay,
		ReplayInterval: *replayInterval,
		RecordPath:     *record,
		DryRun:         *dryRun,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "handmouse: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, overrides config.Overrides, opts app.Options) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Apply(overrides); err != nil {
		return err
	}

	logOpts := logging.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Out:    os.Stderr,
	}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOpts.File = f
	}
	logger := logging.New(logOpts)

	a, err := app.New(cfg, opts, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr := a.Tray()
	if tr == nil {
		return a.Run(ctx)
	}

	// The tray owns the main goroutine; the engine runs beside it.
	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
		tr.Quit()
	}()
	tr.Run()
	a.Control().Quit()
	return <-done
}
