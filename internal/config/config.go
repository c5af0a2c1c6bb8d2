// Package config loads rackscape settings from rackscape.toml and RACKSCAPE_*
// environment variables.
//
// Precedence, highest first: command-line flags (bound by the CLI),
// environment, config file, defaults. Nested keys map to environment
// variables with dots replaced by underscores, so layout.fill_ratio is
// RACKSCAPE_LAYOUT_FILL_RATIO.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/rackscape/pkg/pipeline"
)

// EnvPrefix is the prefix of environment variables read by [Load].
const EnvPrefix = "RACKSCAPE"

// FileName is the config file name looked up without --config.
const FileName = "rackscape"

// Config is the full application configuration.
type Config struct {
	Layout LayoutConfig `mapstructure:"layout"`
	Render RenderConfig `mapstructure:"render"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

type LayoutConfig struct {
	Profile        string  `mapstructure:"profile"`
	Manifest       string  `mapstructure:"manifest"`
	AssetRoot      string  `mapstructure:"asset_root"`
	Cabinets       int     `mapstructure:"cabinets"`
	Spacing        float64 `mapstructure:"spacing"`
	Separation     float64 `mapstructure:"separation"`
	FillRatio      float64 `mapstructure:"fill_ratio"`
	Seed           uint64  `mapstructure:"seed"`
	Floor          bool    `mapstructure:"floor"`
	Palette        bool    `mapstructure:"palette"`
	StrictTextures bool    `mapstructure:"strict_textures"`
	Parallel       bool    `mapstructure:"parallel"`
}

type RenderConfig struct {
	Formats []string `mapstructure:"formats"`
	Output  string   `mapstructure:"output"`
	Title   string   `mapstructure:"title"`
	Scale   float64  `mapstructure:"scale"`
}

type CacheConfig struct {
	// Backend is "file", "redis" or "none".
	Backend  string `mapstructure:"backend"`
	Dir      string `mapstructure:"dir"`
	RedisURL string `mapstructure:"redis_url"`
	Prefix   string `mapstructure:"prefix"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// SetDefaults registers the default of every key on v. Every key needs a
// default for AutomaticEnv to see it during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("layout.profile", pipeline.DefaultProfile)
	v.SetDefault("layout.manifest", "")
	v.SetDefault("layout.asset_root", pipeline.DefaultAssetRoot)
	v.SetDefault("layout.cabinets", 10)
	v.SetDefault("layout.spacing", 0.5)
	v.SetDefault("layout.separation", 4.5)
	v.SetDefault("layout.fill_ratio", 1.0)
	v.SetDefault("layout.seed", pipeline.DefaultSeed)
	v.SetDefault("layout.floor", true)
	v.SetDefault("layout.palette", false)
	v.SetDefault("layout.strict_textures", false)
	v.SetDefault("layout.parallel", true)

	v.SetDefault("render.formats", []string{pipeline.FormatJSON, pipeline.FormatSVG})
	v.SetDefault("render.output", ".")
	v.SetDefault("render.title", "")
	v.SetDefault("render.scale", pipeline.DefaultScale)

	v.SetDefault("cache.backend", CacheFile)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.prefix", "rackscape:")

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("log.level", "info")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path, or rackscape.toml from the working directory or the
// user config directory when path is empty. A missing default file is not
// an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "rackscape"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that pipeline validation does not cover.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New("cache.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return fmt.Errorf("render.formats: %w", err)
	}
	return pipeline.ValidateFillRatio(c.Layout.FillRatio)
}

// PipelineOptions converts the configuration to pipeline options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Profile:        c.Layout.Profile,
		Manifest:       c.Layout.Manifest,
		AssetRoot:      c.Layout.AssetRoot,
		Cabinets:       c.Layout.Cabinets,
		Spacing:        c.Layout.Spacing,
		Separation:     c.Layout.Separation,
		FillRatio:      c.Layout.FillRatio,
		Seed:           c.Layout.Seed,
		NoFloor:        !c.Layout.Floor,
		Palette:        c.Layout.Palette,
		StrictTextures: c.Layout.StrictTextures,
		Parallel:       c.Layout.Parallel,
		Formats:        c.Render.Formats,
		Title:          c.Render.Title,
		Scale:          c.Render.Scale,
	}
}
