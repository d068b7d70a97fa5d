// Package config loads surveygrid settings from an optional config file and
// SURVEYGRID_* environment variables.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: SURVEYGRID_CANVAS_WIDTH → canvas.width.
const EnvPrefix = "SURVEYGRID"

// Config holds all application configuration.
type Config struct {
	Canvas  CanvasConfig  `mapstructure:"canvas"`
	Output  OutputConfig  `mapstructure:"output"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Log     LogConfig     `mapstructure:"log"`
}

// CanvasConfig sizes the footprint preview.
type CanvasConfig struct {
	Width  int     `mapstructure:"width"`
	Height int     `mapstructure:"height"`
	Scale  float64 `mapstructure:"scale"`
}

// OutputConfig selects what is written per survey.
type OutputConfig struct {
	Dir        string `mapstructure:"dir"`
	Format     string `mapstructure:"format"`
	Quality    int    `mapstructure:"quality"`
	Preview    bool   `mapstructure:"preview"`
	Plot       bool   `mapstructure:"plot"`
	PlotFormat string `mapstructure:"plot_format"`
	Summary    bool   `mapstructure:"summary"`
}

type BatchConfig struct {
	Concurrency int  `mapstructure:"concurrency"`
	Progress    bool `mapstructure:"progress"`
}

// CatalogConfig points at the SQLite catalog. An empty path disables it.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from path (or, when path is empty, from an
// optional surveygrid.{yaml,json,toml} in the working directory) and from
// the environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("canvas.width", 800)
	v.SetDefault("canvas.height", 600)
	v.SetDefault("canvas.scale", 0.8)
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.format", "png")
	v.SetDefault("output.quality", 90)
	v.SetDefault("output.preview", true)
	v.SetDefault("output.plot", false)
	v.SetDefault("output.plot_format", "svg")
	v.SetDefault("output.summary", true)
	v.SetDefault("batch.concurrency", runtime.NumCPU())
	v.SetDefault("batch.progress", false)
	v.SetDefault("catalog.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("surveygrid")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []string

	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Sprintf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height))
	}
	if c.Canvas.Scale <= 0 || c.Canvas.Scale > 1 {
		errs = append(errs, fmt.Sprintf("canvas.scale must be in (0, 1], got %g", c.Canvas.Scale))
	}
	switch c.Output.Format {
	case "png", "jpeg", "jpg", "webp":
	default:
		errs = append(errs, fmt.Sprintf("output.format must be png, jpeg or webp, got %q", c.Output.Format))
	}
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		errs = append(errs, fmt.Sprintf("output.quality must be 1-100, got %d", c.Output.Quality))
	}
	switch c.Output.PlotFormat {
	case "svg", "png", "pdf", "eps":
	default:
		errs = append(errs, fmt.Sprintf("output.plot_format must be svg, png, pdf or eps, got %q", c.Output.PlotFormat))
	}
	if c.Output.Dir == "" {
		errs = append(errs, "output.dir is required")
	}
	if c.Batch.Concurrency <= 0 {
		errs = append(errs, fmt.Sprintf("batch.concurrency must be positive, got %d", c.Batch.Concurrency))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
