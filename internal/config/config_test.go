// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML and TOML loading, .env files, env var expansion, overrides and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	writeFile(t, configPath, `
database:
  path: "./test.db"
  driver: "sqlite3"

locale: "bg"

logging:
  level: "debug"
  format: "json"

watch:
  enabled: false
  debounce: "1s"

metrics:
  enabled: true
  addr: "127.0.0.1:9999"
  path: "/prom"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "./test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "./test.db")
	}
	if cfg.Database.Driver != "sqlite3" {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, "sqlite3")
	}
	if cfg.Locale != "bg" {
		t.Errorf("Locale = %q, want %q", cfg.Locale, "bg")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
	if cfg.Watch.Enabled {
		t.Error("Watch.Enabled = true, want false")
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Watch.Debounce = %v, want %v", cfg.Watch.Debounce, time.Second)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if cfg.Metrics.Addr != "127.0.0.1:9999" {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, "127.0.0.1:9999")
	}
	if cfg.Metrics.Path != "/prom" {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, "/prom")
	}
}

func TestLoad_ValidTOML(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	configPath := filepath.Join(t.TempDir(), "config.toml")

	writeFile(t, configPath, `
locale = "en-GB"

[database]
path = "/var/lib/habits.db"

[watch]
debounce = "50ms"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/var/lib/habits.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/var/lib/habits.db")
	}
	// Unset keys keep their defaults
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, "sqlite")
	}
	if !cfg.Watch.Enabled {
		t.Error("Watch.Enabled = false, want true")
	}
	if cfg.Watch.Debounce != 50*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want %v", cfg.Watch.Debounce, 50*time.Millisecond)
	}
	if cfg.Locale != "en-GB" {
		t.Errorf("Locale = %q, want %q", cfg.Locale, "en-GB")
	}
}

func TestLoad_PartialYAMLKeepsDefaults(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, configPath, "logging:\n  level: warn\n")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	def := Default()
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "warn")
	}
	if cfg.Logging.Format != def.Logging.Format {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, def.Logging.Format)
	}
	if cfg.Watch.Debounce != def.Watch.Debounce {
		t.Errorf("Watch.Debounce = %v, want %v", cfg.Watch.Debounce, def.Watch.Debounce)
	}
	if cfg.Metrics.Addr != def.Metrics.Addr {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, def.Metrics.Addr)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	t.Setenv("TEST_HABITS_DIR", "/tmp/habits-test")
	t.Setenv("TEST_HABITS_LOCALE", "bg")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, configPath, `
database:
  path: "${TEST_HABITS_DIR}/habits.db"
locale: "${TEST_HABITS_LOCALE}"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/habits-test/habits.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/habits-test/habits.db")
	}
	if cfg.Locale != "bg" {
		t.Errorf("Locale = %q, want %q", cfg.Locale, "bg")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	// Registered so t.Setenv restores it after godotenv sets it
	t.Setenv("TEST_DOTENV_DB", "")
	os.Unsetenv("TEST_DOTENV_DB")

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".env"), "TEST_DOTENV_DB=/from/dotenv.db\n")
	configPath := filepath.Join(tmpDir, "config.yaml")
	writeFile(t, configPath, "database:\n  path: \"${TEST_DOTENV_DB}\"\n")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/from/dotenv.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/from/dotenv.db")
	}
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	t.Setenv("TEST_DOTENV_KEEP", "/from/env.db")

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".env"), "TEST_DOTENV_KEEP=/from/dotenv.db\n")
	configPath := filepath.Join(tmpDir, "config.yaml")
	writeFile(t, configPath, "database:\n  path: \"${TEST_DOTENV_KEEP}\"\n")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/from/env.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/from/env.db")
	}
}

func TestLoad_DBPathOverride(t *testing.T) {
	t.Setenv(EnvDBPath, "/override/habits.db")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, configPath, "database:\n  path: /from/file.db\n")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/override/habits.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/override/habits.db")
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, configPath, "database:\n  path: \"~/habits/habits.db\"\n")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := filepath.Join(home, "habits", "habits.db")
	if cfg.Database.Path != want {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, want)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Load() expected error for nonexistent file, got nil")
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	t.Setenv(EnvDBPath, "/env/habits.db")

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Database.Path != "/env/habits.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/env/habits.db")
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want %v", cfg.Watch.Debounce, 250*time.Millisecond)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, configPath, "database:\n  path: [unclosed\n")

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() expected error for invalid YAML, got nil")
	}
	if !strings.Contains(err.Error(), "parsing config file") {
		t.Errorf("error = %v, want parsing error", err)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, configPath, "watch:\n  debounce: \"soon\"\n")

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() expected error for invalid duration, got nil")
	}
	if !strings.Contains(err.Error(), "watch.debounce") {
		t.Errorf("error = %v, want mention of watch.debounce", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"empty database path", func(c *Config) { c.Database.Path = "" }, "database.path is required"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }, "database.driver"},
		{"unsupported locale", func(c *Config) { c.Locale = "ja" }, "locale"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"uppercase log level", func(c *Config) { c.Logging.Level = "DEBUG" }, ""},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"metrics without addr", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Addr = "" }, "metrics.addr"},
		{"metrics bad path", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Path = "metrics" }, "metrics.path"},
		{"metrics disabled ignores addr", func(c *Config) { c.Metrics.Addr = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/env/config.yaml")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	if got := ResolvePath("/flag/config.yaml"); got != "/flag/config.yaml" {
		t.Errorf("ResolvePath(flag) = %q", got)
	}
	if got := ResolvePath(""); got != "/env/config.yaml" {
		t.Errorf("ResolvePath(env) = %q", got)
	}

	t.Setenv(EnvConfigPath, "")
	if got := ResolvePath(""); got != filepath.Join("/xdg", "habits", "config.yaml") {
		t.Errorf("ResolvePath(xdg) = %q", got)
	}
}

func TestDefaultDatabasePath_XDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultDatabasePath(); got != filepath.Join("/data", "habits", "habits.db") {
		t.Errorf("DefaultDatabasePath() = %q", got)
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			want := Default()
			want.Database.Path = "/tmp/roundtrip.db"
			want.Locale = "bg"
			if err := Write(want, path); err != nil {
				t.Fatalf("Write() error = %v", err)
			}

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got.Database.Path != want.Database.Path || got.Locale != "bg" || got.Watch.Debounce != want.Watch.Debounce {
				t.Errorf("round trip mismatch: got %+v", got)
			}

			// Existing files are left alone
			if err := Write(want, path); err == nil {
				t.Error("Write() over an existing file succeeded, want error")
			}
		})
	}
}
