// Package config resolves where the collector lives and how to log.
//
// Values are layered: defaults, then an optional TOML file, then
// CLICKTRACE_* environment variables. Command-line flags are applied last by
// the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/rsclarke/clicktrace/internal/logging"
)

// Config is the resolved configuration.
type Config struct {
	Collector CollectorConfig
	Log       logging.Config
}

// CollectorConfig locates the collector endpoint.
type CollectorConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadResult carries the configuration and any non-fatal findings.
type LoadResult struct {
	Config   Config
	Warnings []string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Collector: CollectorConfig{
			Host: "localhost",
			Port: 8123,
		},
		Log: logging.Config{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "clicktrace", "config.toml")
}

// Load reads the default config file and the environment.
func Load() (*LoadResult, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads path, if it exists, and then the environment.
func LoadFrom(path string) (*LoadResult, error) {
	result := &LoadResult{Config: Default()}

	if path != "" {
		if err := result.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(&result.Config); err != nil {
		return nil, err
	}
	if err := result.Config.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *LoadResult) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	var file struct {
		Collector CollectorConfig `toml:"collector"`
		Log       struct {
			Level  string `toml:"level"`
			Format string `toml:"format"`
		} `toml:"log"`
	}
	meta, err := toml.Decode(string(data), &file)
	if err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	undecoded := meta.Undecoded()
	keys := make([]string, 0, len(undecoded))
	for _, k := range undecoded {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.Warnings = append(r.Warnings, fmt.Sprintf("unknown config key: %q", k))
	}

	if meta.IsDefined("collector", "host") {
		r.Config.Collector.Host = file.Collector.Host
	}
	if meta.IsDefined("collector", "port") {
		r.Config.Collector.Port = file.Collector.Port
	}
	if meta.IsDefined("log", "level") {
		r.Config.Log.Level = file.Log.Level
	}
	if meta.IsDefined("log", "format") {
		r.Config.Log.Format = file.Log.Format
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("CLICKTRACE_HOST"); v != "" {
		cfg.Collector.Host = v
	}
	if v := os.Getenv("CLICKTRACE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CLICKTRACE_PORT: invalid port %q", v)
		}
		cfg.Collector.Port = port
	}
	if v := os.Getenv("CLICKTRACE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CLICKTRACE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Collector.Host == "" {
		return fmt.Errorf("collector host must not be empty")
	}
	if c.Collector.Port < 1 || c.Collector.Port > 65535 {
		return fmt.Errorf("collector port must be 1-65535, got %d", c.Collector.Port)
	}
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if !logging.ValidFormat(c.Log.Format) {
		return fmt.Errorf("invalid log format %q (want json or console)", c.Log.Format)
	}
	return nil
}

// CollectorURL returns the collector base URL, for example
// "http://localhost:8123".
func (c Config) CollectorURL() string {
	return "http://" + net.JoinHostPort(c.Collector.Host, strconv.Itoa(c.Collector.Port))
}
