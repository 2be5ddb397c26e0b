// Command viewer hosts the engine in a headless frame loop: it assembles the
// baseline systems over a tracking GPU device, runs until interrupted (or a
// script requests close), then shuts the engine down in order.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rs-engine/engine/internal/config"
	"github.com/rs-engine/engine/internal/core/engine"
	"github.com/rs-engine/engine/internal/gpu"
	"github.com/rs-engine/engine/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "config/engine.toml", "engine config file")
	frames := flag.Uint64("frames", 0, "stop after N frames (0 = run until interrupted)")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	device := gpu.NewHeadless(log.Named("gpu"))

	eng := engine.New(log,
		engine.WithBaseline(system.Baseline(device, cfg, nil, log)),
	)
	eng.SetFixedTimeStep(cfg.Engine.FixedTimeStep)
	eng.Clock().SetMaxDelta(cfg.Engine.MaxDeltaTime)

	if err := eng.Initialize(); err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer eng.Shutdown()

	if err := eng.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Engine.FrameInterval)
	defer ticker.Stop()

	var frame uint64
	for {
		select {
		case sig := <-sigCh:
			log.Info("signal received, shutting down", zap.String("signal", sig.String()))
			return nil
		case <-ticker.C:
			eng.Update()
			frame++
			if eng.ShouldClose() {
				log.Info("close requested, shutting down")
				return nil
			}
			if *frames > 0 && frame >= *frames {
				log.Info("frame budget reached",
					zap.Uint64("frames", frame),
					zap.Float64("total_time", eng.TotalTime()))
				return nil
			}
		}
	}
}

// loadConfig falls back to defaults when the config file is absent, so the
// viewer runs out of the box.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "config %s not found, using defaults\n", path)
			return config.Defaults(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
