// Package config resolves the mouse mover settings from defaults, an optional
// YAML file, MOUSEMOVER_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/stigoleg/mousemover/internal/motion"
	"github.com/stigoleg/mousemover/internal/util"
)

const (
	DefaultIdleSeconds     = 30
	DefaultIntervalSeconds = 5
	DefaultJitter          = 1
	DefaultTUILogFile      = "mousemover.log"

	EnvPrefix = "MOUSEMOVER"
)

// ErrConflictingDeadline is returned when both a duration and a clock time are given.
var ErrConflictingDeadline = errors.New("--duration and --until cannot be used together")

// LogConfig configures the zap logger.
type LogConfig struct {
	// File is a rotated JSON log file. Empty means console only.
	File       string `mapstructure:"file" yaml:"file,omitempty"`
	Format     string `mapstructure:"format" yaml:"format"`
	Level      string `mapstructure:"level" yaml:"level"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`

	// Quiet turns off console output while the dashboard owns the terminal.
	Quiet bool `mapstructure:"-" yaml:"-"`
}

// Config is the resolved configuration.
type Config struct {
	Idle     int    `mapstructure:"idle" yaml:"idle"`
	Interval int    `mapstructure:"interval" yaml:"interval"`
	Jitter   int    `mapstructure:"jitter" yaml:"jitter"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose"`
	Duration string `mapstructure:"duration" yaml:"duration,omitempty"`
	Until    string `mapstructure:"until" yaml:"until,omitempty"`
	TUI      bool   `mapstructure:"tui" yaml:"tui"`
	Seed     int64  `mapstructure:"seed" yaml:"seed"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// IdleThreshold and PollInterval are Idle and Interval as durations.
	IdleThreshold time.Duration `mapstructure:"-" yaml:"-"`
	PollInterval  time.Duration `mapstructure:"-" yaml:"-"`
	// RunFor is how long to run, resolved from Duration or Until. Zero means
	// until interrupted.
	RunFor time.Duration `mapstructure:"-" yaml:"-"`
}

// SetDefaults registers every key so that environment variables and Unmarshal
// see them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("idle", DefaultIdleSeconds)
	v.SetDefault("interval", DefaultIntervalSeconds)
	v.SetDefault("jitter", DefaultJitter)
	v.SetDefault("verbose", false)
	v.SetDefault("duration", "")
	v.SetDefault("until", "")
	v.SetDefault("tui", false)
	v.SetDefault("seed", 0)

	v.SetDefault("log.file", "")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", false)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadInConfig loads path, or the first of ./mousemover.yaml and
// $XDG_CONFIG_HOME/mousemover/config.yaml that exists. It returns the file used,
// empty when there was none.
func ReadInConfig(v *viper.Viper, path string) (string, error) {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return "", nil
		}
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("read config file %s: %w", path, err)
	}
	return path, nil
}

func findConfigFile() string {
	candidates := []string{"mousemover.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "mousemover", "config.yaml"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// Load unmarshals v, validates it and resolves derived fields. now anchors the
// --until clock time.
func Load(v *viper.Viper, now time.Time) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.IdleThreshold = util.SecondsToDuration(cfg.Idle)
	cfg.PollInterval = util.SecondsToDuration(cfg.Interval)

	switch {
	case cfg.Duration != "":
		d, err := util.ParseDuration(cfg.Duration)
		if err != nil {
			return nil, err
		}
		if d <= 0 {
			return nil, fmt.Errorf("duration must be positive, got %v", d)
		}
		cfg.RunFor = d
	case cfg.Until != "":
		d, err := util.UntilClock(cfg.Until, now)
		if err != nil {
			return nil, err
		}
		cfg.RunFor = d
	}

	if cfg.Verbose {
		cfg.Log.Level = "debug"
	}
	if cfg.TUI {
		cfg.Log.Quiet = true
		if cfg.Log.File == "" {
			cfg.Log.File = DefaultTUILogFile
		}
	}
	return &cfg, nil
}

// Validate checks ranges and mutually exclusive options.
func (c *Config) Validate() error {
	var errs []error
	if c.Idle < 1 {
		errs = append(errs, fmt.Errorf("idle must be at least 1 second, got %d", c.Idle))
	}
	if c.Interval < 1 {
		errs = append(errs, fmt.Errorf("interval must be at least 1 second, got %d", c.Interval))
	}
	if c.Jitter < 0 {
		errs = append(errs, fmt.Errorf("jitter must not be negative, got %d", c.Jitter))
	}
	if c.Jitter > motion.MaxJitter {
		errs = append(errs, fmt.Errorf("jitter must be at most %d pixels, got %d", motion.MaxJitter, c.Jitter))
	}
	if c.Duration != "" && c.Until != "" {
		errs = append(errs, ErrConflictingDeadline)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be console or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// YAML renders the configuration as a config file would hold it.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(out), nil
}
