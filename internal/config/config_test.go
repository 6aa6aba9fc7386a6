package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moodmagic/moodmagic/pkg/errors"
	"github.com/moodmagic/moodmagic/pkg/fonts"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"API_ENDPOINT", "API_TIMEOUT", "FONTS_BASE", "FONTS_PROBE_DELAY", "FONTS_GRACE",
		"EXPORT_DIR", "EXPORT_SCALE", "EXPORT_QUALITY", "EXPORT_MARGIN_MM",
		"CACHE_DISABLED", "CACHE_DIR", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"SERVER_ADDR", "SERVER_OFFLINE",
	} {
		t.Setenv(envPrefix+name, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), fileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load = %+v, want defaults %+v", cfg, Default())
	}
	if cfg.Fonts.Grace.Duration != fonts.DefaultGrace {
		t.Errorf("Grace = %v, want %v", cfg.Fonts.Grace.Duration, fonts.DefaultGrace)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, `
[api]
endpoint = "https://api.example.com"
timeout = "5s"

[fonts]
probe_delay = "250ms"
grace = "2s"

[export]
dir = "/tmp/boards"
scale = 1.5
quality = 90

[cache]
redis_addr = "localhost:6379"
redis_db = 2

[server]
addr = ":9000"
offline = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.API.Endpoint != "https://api.example.com" || cfg.API.Timeout.Duration != 5*time.Second {
		t.Errorf("API = %+v", cfg.API)
	}
	if cfg.Fonts.ProbeDelay.Duration != 250*time.Millisecond || cfg.Fonts.Grace.Duration != 2*time.Second {
		t.Errorf("Fonts = %+v", cfg.Fonts)
	}
	if cfg.Fonts.Base != fonts.DefaultBase {
		t.Errorf("Fonts.Base = %q, want default", cfg.Fonts.Base)
	}
	if cfg.Export.Dir != "/tmp/boards" || cfg.Export.Scale != 1.5 || cfg.Export.Quality != 90 {
		t.Errorf("Export = %+v", cfg.Export)
	}
	if cfg.Export.MarginMM != Default().Export.MarginMM {
		t.Errorf("MarginMM = %v, want default", cfg.Export.MarginMM)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" || cfg.Cache.RedisDB != 2 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9000" || !cfg.Server.Offline {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "[export]\nquality = 80\n[server]\naddr = \":9000\"\n")

	t.Setenv("MOODMAGIC_EXPORT_QUALITY", "70")
	t.Setenv("MOODMAGIC_SERVER_OFFLINE", "true")
	t.Setenv("MOODMAGIC_FONTS_GRACE", "3s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Export.Quality != 70 {
		t.Errorf("Quality = %d, want 70", cfg.Export.Quality)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q, want file value", cfg.Server.Addr)
	}
	if !cfg.Server.Offline {
		t.Error("Offline = false, want true")
	}
	if cfg.Fonts.Grace.Duration != 3*time.Second {
		t.Errorf("Grace = %v, want 3s", cfg.Fonts.Grace.Duration)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{"bad toml", "[export\nquality = ", nil},
		{"bad duration in file", "[fonts]\ngrace = \"soon\"\n", nil},
		{"bad env int", "", map[string]string{"MOODMAGIC_EXPORT_QUALITY": "high"}},
		{"bad env bool", "", map[string]string{"MOODMAGIC_CACHE_DISABLED": "maybe"}},
		{"quality out of range", "[export]\nquality = 101\n", nil},
		{"zero scale", "[export]\nscale = 0.0\n", nil},
		{"empty endpoint in file", "[api]\nendpoint = \"\"\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeFile(t, tt.file)

			_, err := Load(path)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoadIgnoresBlankEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MOODMAGIC_API_ENDPOINT", "  ")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Endpoint != Default().API.Endpoint {
		t.Errorf("Endpoint = %q, want default", cfg.API.Endpoint)
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	got, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := "/custom/config/moodmagic/config.toml"; got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}

func TestApplyEnvUsesLookup(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"MOODMAGIC_REDIS_ADDR":     "redis:6379",
		"MOODMAGIC_REDIS_PASSWORD": "secret",
		"MOODMAGIC_REDIS_DB":       "3",
		"MOODMAGIC_EXPORT_SCALE":   "1",
	}
	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.RedisAddr != "redis:6379" || cfg.Cache.RedisPassword != "secret" || cfg.Cache.RedisDB != 3 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Export.Scale != 1 {
		t.Errorf("Scale = %v, want 1", cfg.Export.Scale)
	}
}

func TestPipelineConfig(t *testing.T) {
	cfg := Default()
	cfg.Fonts.Grace = Duration{2 * time.Second}
	cfg.Export.Quality = 75

	pc := cfg.Pipeline()
	if pc.Endpoint != cfg.API.Endpoint || pc.FontBase != cfg.Fonts.Base {
		t.Errorf("Pipeline = %+v", pc)
	}
	if pc.Grace != 2*time.Second || pc.Quality != 75 {
		t.Errorf("Pipeline grace/quality = %v/%d", pc.Grace, pc.Quality)
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte(" 1m30s ")); err != nil {
		t.Fatal(err)
	}
	if d.Duration != 90*time.Second {
		t.Errorf("Duration = %v", d.Duration)
	}
	b, _ := d.MarshalText()
	if string(b) != "1m30s" {
		t.Errorf("MarshalText = %q", b)
	}
}
