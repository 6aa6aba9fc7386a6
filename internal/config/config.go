// Package config loads moodmagic settings.
//
// Values come from three layers, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. the TOML file at $XDG_CONFIG_HOME/moodmagic/config.toml
//  3. MOODMAGIC_* environment variables
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/moodmagic/moodmagic/pkg/errors"
	"github.com/moodmagic/moodmagic/pkg/fonts"
	"github.com/moodmagic/moodmagic/pkg/pipeline"
	"github.com/moodmagic/moodmagic/pkg/render"
	"github.com/moodmagic/moodmagic/pkg/render/sink"
)

const (
	appName   = "moodmagic"
	fileName  = "config.toml"
	envPrefix = "MOODMAGIC_"
)

// Config is the full application configuration.
type Config struct {
	API    APIConfig    `toml:"api"`
	Fonts  FontsConfig  `toml:"fonts"`
	Export ExportConfig `toml:"export"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// APIConfig points at the generation backend.
type APIConfig struct {
	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
}

// FontsConfig controls font provisioning.
type FontsConfig struct {
	Base       string   `toml:"base"`
	ProbeDelay Duration `toml:"probe_delay"`
	Grace      Duration `toml:"grace"`
}

// ExportConfig controls PDF export.
type ExportConfig struct {
	Dir      string  `toml:"dir"`
	Scale    float64 `toml:"scale"`
	Quality  int     `toml:"quality"`
	MarginMM float64 `toml:"margin_mm"`
}

// CacheConfig selects and configures the asset cache. RedisAddr switches
// the server from the file cache to Redis.
type CacheConfig struct {
	Disabled      bool   `toml:"disabled"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ServerConfig configures `moodmagic serve`.
type ServerConfig struct {
	Addr    string `toml:"addr"`
	Offline bool   `toml:"offline"`
}

// Duration is a time.Duration that decodes from strings like "1s" or "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			Endpoint: pipeline.DefaultEndpoint,
			Timeout:  Duration{30 * time.Second},
		},
		Fonts: FontsConfig{
			Base:       fonts.DefaultBase,
			ProbeDelay: Duration{fonts.DefaultProbeDelay},
			Grace:      Duration{fonts.DefaultGrace},
		},
		Export: ExportConfig{
			Dir:      ".",
			Scale:    render.DefaultScale,
			Quality:  sink.DefaultQuality,
			MarginMM: render.DefaultMarginMM,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load builds the configuration from defaults, the file at path and the
// environment. A missing file is not an error. An empty path means [Path].
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config")
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	} else if !os.IsNotExist(err) {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from MOODMAGIC_* variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(getenv(envPrefix + name)); v != "" {
			*dst = v
		}
	}

	var firstErr error
	parse := func(name string, set func(string) error) {
		v := strings.TrimSpace(getenv(envPrefix + name))
		if v == "" || firstErr != nil {
			return
		}
		if err := set(v); err != nil {
			firstErr = errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s=%q", envPrefix, name, v)
		}
	}
	dur := func(name string, dst *Duration) {
		parse(name, func(v string) error { return dst.UnmarshalText([]byte(v)) })
	}
	boolean := func(name string, dst *bool) {
		parse(name, func(v string) (err error) { *dst, err = strconv.ParseBool(v); return })
	}
	integer := func(name string, dst *int) {
		parse(name, func(v string) (err error) { *dst, err = strconv.Atoi(v); return })
	}
	float := func(name string, dst *float64) {
		parse(name, func(v string) (err error) { *dst, err = strconv.ParseFloat(v, 64); return })
	}

	str("API_ENDPOINT", &c.API.Endpoint)
	dur("API_TIMEOUT", &c.API.Timeout)

	str("FONTS_BASE", &c.Fonts.Base)
	dur("FONTS_PROBE_DELAY", &c.Fonts.ProbeDelay)
	dur("FONTS_GRACE", &c.Fonts.Grace)

	str("EXPORT_DIR", &c.Export.Dir)
	float("EXPORT_SCALE", &c.Export.Scale)
	integer("EXPORT_QUALITY", &c.Export.Quality)
	float("EXPORT_MARGIN_MM", &c.Export.MarginMM)

	boolean("CACHE_DISABLED", &c.Cache.Disabled)
	str("CACHE_DIR", &c.Cache.Dir)
	str("REDIS_ADDR", &c.Cache.RedisAddr)
	str("REDIS_PASSWORD", &c.Cache.RedisPassword)
	integer("REDIS_DB", &c.Cache.RedisDB)

	str("SERVER_ADDR", &c.Server.Addr)
	boolean("SERVER_OFFLINE", &c.Server.Offline)

	return firstErr
}

// Validate rejects values the pipeline cannot work with.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.API.Endpoint) == "":
		return errors.New(errors.ErrCodeInvalidConfig, "api.endpoint must not be empty")
	case strings.TrimSpace(c.Fonts.Base) == "":
		return errors.New(errors.ErrCodeInvalidConfig, "fonts.base must not be empty")
	case c.Fonts.ProbeDelay.Duration < 0 || c.Fonts.Grace.Duration < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "font delays must not be negative")
	case c.Export.Scale <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "export.scale must be positive, got %v", c.Export.Scale)
	case c.Export.Quality < 1 || c.Export.Quality > 100:
		return errors.New(errors.ErrCodeInvalidConfig, "export.quality must be in 1..100, got %d", c.Export.Quality)
	case c.Export.MarginMM < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "export.margin_mm must not be negative")
	case c.Cache.RedisDB < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_db must not be negative")
	}
	return nil
}

// Pipeline translates the configuration into a pipeline config. Cache,
// saver and logger are left for the caller.
func (c Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		Endpoint:   c.API.Endpoint,
		FontBase:   c.Fonts.Base,
		Scale:      c.Export.Scale,
		Quality:    c.Export.Quality,
		MarginMM:   c.Export.MarginMM,
		ProbeDelay: c.Fonts.ProbeDelay.Duration,
		Grace:      c.Fonts.Grace.Duration,
	}
}
