package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Window    WindowConfig    `toml:"window"`
	Resources ResourcesConfig `toml:"resources"`
	Scripting ScriptingConfig `toml:"scripting"`
	Logging   LoggingConfig   `toml:"logging"`
}

type EngineConfig struct {
	FixedTimeStep float64       `toml:"fixed_time_step"` // seconds per simulation step
	MaxDeltaTime  float64       `toml:"max_delta_time"`  // per-frame delta ceiling, seconds
	FrameInterval time.Duration `toml:"frame_interval"`  // host loop pacing
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

type ResourcesConfig struct {
	Manifest string `toml:"manifest"` // empty disables preloading
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			FixedTimeStep: 1.0 / 60.0,
			MaxDeltaTime:  0.1,
			FrameInterval: 16 * time.Millisecond,
		},
		Window: WindowConfig{
			Title:  "rs-engine viewer",
			Width:  1280,
			Height: 720,
		},
		Scripting: ScriptingConfig{
			Enabled: false,
			Dir:     "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
