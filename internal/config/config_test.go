package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CLICKTRACE_HOST", "CLICKTRACE_PORT", "CLICKTRACE_LOG_LEVEL", "CLICKTRACE_LOG_FORMAT"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	res, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if res.Config != Default() {
		t.Errorf("Config = %+v, want defaults %+v", res.Config, Default())
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
	if got := res.Config.CollectorURL(); got != "http://localhost:8123" {
		t.Errorf("CollectorURL() = %q", got)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[collector]
host = "127.0.0.1"
port = 9001

[log]
level = "debug"
`)

	res, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	cfg := res.Config
	if cfg.Collector.Host != "127.0.0.1" || cfg.Collector.Port != 9001 {
		t.Errorf("Collector = %+v", cfg.Collector)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want default json", cfg.Log.Format)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[collector]\nport = 7000\n")

	res, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if res.Config.Collector.Host != "localhost" || res.Config.Collector.Port != 7000 {
		t.Errorf("Collector = %+v", res.Config.Collector)
	}
}

func TestLoadUnknownKeysWarn(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[collector]
port = 8123
retries = 3

[display]
theme = "dark"
`)

	res, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	joined := strings.Join(res.Warnings, "\n")
	for _, want := range []string{"collector.retries", "display"} {
		if !strings.Contains(joined, want) {
			t.Errorf("warnings %v do not mention %q", res.Warnings, want)
		}
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[collector]\nhost = \"filehost\"\nport = 7000\n")
	t.Setenv("CLICKTRACE_HOST", "envhost")
	t.Setenv("CLICKTRACE_PORT", "7100")
	t.Setenv("CLICKTRACE_LOG_FORMAT", "console")

	res, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got := res.Config.CollectorURL(); got != "http://envhost:7100" {
		t.Errorf("CollectorURL() = %q", got)
	}
	if res.Config.Log.Format != "console" {
		t.Errorf("Log.Format = %q, want console", res.Config.Log.Format)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{"malformed toml", "[collector\nport = 1", nil, "parsing config file"},
		{"port out of range", "[collector]\nport = 70000\n", nil, "port"},
		{"zero port", "[collector]\nport = 0\n", nil, "port"},
		{"bad env port", "", map[string]string{"CLICKTRACE_PORT": "eighty"}, "CLICKTRACE_PORT"},
		{"bad log level", "[log]\nlevel = \"loud\"\n", nil, "log level"},
		{"bad log format", "[log]\nformat = \"xml\"\n", nil, "log format"},
		{"empty host", "[collector]\nhost = \"\"\n", nil, "host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFrom(writeConfig(t, tt.file))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestCollectorURLIPv6(t *testing.T) {
	cfg := Default()
	cfg.Collector.Host = "::1"
	if got := cfg.CollectorURL(); got != "http://[::1]:8123" {
		t.Errorf("CollectorURL() = %q", got)
	}
}
