// internal/config/config.go

// Package config loads gstat settings from an optional file, GSTAT_*
// environment variables and defaults through viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/mwiater/gstat/internal/stats"
	"github.com/mwiater/gstat/internal/trace"
)

// Keys shared by config files, environment variables and command flags.
const (
	KeyMethod     = "method"
	KeyDataFile   = "data_file"
	KeyDebug      = "debug"
	KeyLogLevel   = "log.level"
	KeyPlotMode   = "plot.mode"
	KeyPlotBins   = "plot.bins"
	KeyPlotWidth  = "plot.width"
	KeyPlotHeight = "plot.height"
)

// EnvPrefix prefixes every environment variable, e.g. GSTAT_PLOT_BINS.
const EnvPrefix = "GSTAT"

// Config is the effective configuration of one invocation.
type Config struct {
	Method   string `mapstructure:"method" json:"method"`
	DataFile string `mapstructure:"data_file" json:"data_file"`
	Debug    bool   `mapstructure:"debug" json:"debug"`
	Log      Log    `mapstructure:"log" json:"log"`
	Plot     Plot   `mapstructure:"plot" json:"plot"`

	// Algorithm is Method parsed.
	Algorithm stats.Algorithm `mapstructure:"-" json:"-"`
	// Mode is Plot.Mode parsed.
	Mode trace.Mode `mapstructure:"-" json:"-"`
}

// Log holds logger settings.
type Log struct {
	Level string `mapstructure:"level" json:"level"`
}

// Plot holds figure settings. Width and Height are in inches.
type Plot struct {
	Mode   string  `mapstructure:"mode" json:"mode"`
	Bins   int     `mapstructure:"bins" json:"bins"`
	Width  float64 `mapstructure:"width" json:"width"`
	Height float64 `mapstructure:"height" json:"height"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyMethod, "exact")
	v.SetDefault(KeyDataFile, "simulation.csv")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyPlotMode, "distribution")
	v.SetDefault(KeyPlotBins, 50)
	v.SetDefault(KeyPlotWidth, 8.0)
	v.SetDefault(KeyPlotHeight, 4.0)
}

// Load reads path (or ./gstat.{yaml,json,toml} when path is empty) on a
// fresh viper instance.
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith reads configuration through v, so flags bound to v take
// precedence over the file, environment and defaults.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("gstat")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
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

// Validate checks every field and fills Algorithm and Mode.
func (c *Config) Validate() error {
	alg, err := stats.ParseAlgorithm(c.Method)
	if err != nil {
		return fmt.Errorf("config %s: %w", KeyMethod, err)
	}
	mode, err := trace.ParseMode(c.Plot.Mode)
	if err != nil {
		return fmt.Errorf("config %s: %w", KeyPlotMode, err)
	}
	if c.DataFile == "" {
		return fmt.Errorf("config %s: must not be empty", KeyDataFile)
	}
	if c.Plot.Bins < 1 {
		return fmt.Errorf("config %s: must be positive, got %d", KeyPlotBins, c.Plot.Bins)
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return fmt.Errorf("config plot size must be positive, got %gx%g", c.Plot.Width, c.Plot.Height)
	}
	c.Algorithm = alg
	c.Mode = mode
	return nil
}
