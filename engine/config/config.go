// Package config provides YAML-based configuration loading for the engine.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root application configuration.
type Config struct {
	// AppName is the logical name of the game, used for the window title
	// unless Window.Title overrides it.
	AppName string `mapstructure:"app_name"`

	// AssetsDir is the root directory descriptor paths are resolved under.
	AssetsDir string `mapstructure:"assets_dir"`

	// Window holds platform window settings.
	Window WindowConfig `mapstructure:"window"`

	// Engine holds game loop settings.
	Engine EngineConfig `mapstructure:"engine"`

	// Log holds logging configuration.
	Log LogConfig `mapstructure:"log"`
}

// WindowConfig defines platform window settings.
type WindowConfig struct {
	// Title overrides AppName as the title bar text when non-empty.
	Title string `mapstructure:"title"`
	// Width and Height are the initial window size in pixels.
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	// Resizable allows the user to resize the window.
	Resizable bool `mapstructure:"resizable"`
	// VSync caps presentation to the display refresh rate.
	VSync bool `mapstructure:"vsync"`
}

// EngineConfig defines game loop settings.
type EngineConfig struct {
	// TickRate is the fixed simulation update rate in ticks per second.
	TickRate int `mapstructure:"tick_rate"`
	// FrameLimit caps the render rate in frames per second; 0 means
	// uncapped (or display-capped when vsync is on).
	FrameLimit int `mapstructure:"frame_limit"`
	// DecodeWorkers is the image decode worker count during loading;
	// 0 picks a count from the CPU count.
	DecodeWorkers int `mapstructure:"decode_workers"`
	// Profiling enables periodic FPS and memory stat logging.
	Profiling bool `mapstructure:"profiling"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: list of outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	// Rotation controls file rotation when writing to files
	Rotation RotationConfig `mapstructure:"rotation"`
	// Development toggles development-friendly logging options
	Development bool `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		AppName:   "sprite-render-test",
		AssetsDir: "assets",
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			Resizable: true,
			VSync:     true,
		},
		Engine: EngineConfig{
			TickRate: 60,
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "console",
			Outputs:     []string{"stdout"},
			Development: true,
			Rotation: RotationConfig{
				Enable:     false,
				Filename:   "logs/sprite-render-test.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
	}
}

// Load reads configuration from the provided path (if non-empty), otherwise
// it searches common locations and supports environment overrides.
// Environment variables use the prefix SPRITE and `.`/`-` are replaced with
// `_`. Example: SPRITE_LOG_LEVEL=debug
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SPRITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults for viper so env-only configs work
	v.SetDefault("app_name", cfg.AppName)
	v.SetDefault("assets_dir", cfg.AssetsDir)
	v.SetDefault("window.title", cfg.Window.Title)
	v.SetDefault("window.width", cfg.Window.Width)
	v.SetDefault("window.height", cfg.Window.Height)
	v.SetDefault("window.resizable", cfg.Window.Resizable)
	v.SetDefault("window.vsync", cfg.Window.VSync)
	v.SetDefault("engine.tick_rate", cfg.Engine.TickRate)
	v.SetDefault("engine.frame_limit", cfg.Engine.FrameLimit)
	v.SetDefault("engine.decode_workers", cfg.Engine.DecodeWorkers)
	v.SetDefault("engine.profiling", cfg.Engine.Profiling)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)

	if path == "" {
		if envPath := os.Getenv("SPRITE_CONFIG"); envPath != "" {
			path = envPath
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search common locations with base name `sprite_render_test`
		v.SetConfigName("sprite_render_test")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".sprite_render_test"))
		}
	}

	// Read config file if present; if not found, continue with defaults/env
	if err := v.ReadInConfig(); err != nil {
		var viperConfigFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &viperConfigFileNotFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	lvl := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch lvl {
	case "debug", "info", "warn", "warning", "error":
		// ok
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}

	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stdout"}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size: %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Engine.TickRate <= 0 {
		return fmt.Errorf("invalid engine.tick_rate: %d", c.Engine.TickRate)
	}
	if c.Engine.FrameLimit < 0 {
		return fmt.Errorf("invalid engine.frame_limit: %d", c.Engine.FrameLimit)
	}
	return nil
}

// Title returns the effective window title.
func (c *Config) Title() string {
	if strings.TrimSpace(c.Window.Title) != "" {
		return c.Window.Title
	}
	return c.AppName
}

// MustLoad is a convenience that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}
