package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
[export]
output = "frames/"
concurrency = 2

[renderer]
chrome_url = "ws://127.0.0.1:9222/devtools/browser/x"

[serve]
addr = ":9000"
session_ttl = "90m"
`)
	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Export.Output != "frames/" || cfg.Export.Concurrency != 2 {
		t.Errorf("export = %+v", cfg.Export)
	}
	if cfg.Renderer.RemoteURL != "ws://127.0.0.1:9222/devtools/browser/x" {
		t.Errorf("chrome_url = %q", cfg.Renderer.RemoteURL)
	}
	if cfg.Serve.Addr != ":9000" || cfg.Serve.SessionTTL.Duration != 90*time.Minute {
		t.Errorf("serve = %+v", cfg.Serve)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Serve.MaxUploadMB != DefaultConfig().Serve.MaxUploadMB {
		t.Errorf("max_upload_mb = %d, want default", cfg.Serve.MaxUploadMB)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadConfig(missing, false)
	if err != nil {
		t.Fatalf("LoadConfig() on implicit missing file: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}

	if _, err := LoadConfig(missing, true); err == nil {
		t.Error("LoadConfig() on explicit missing file should fail")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[serve]\nport = 1\n"},
		{"bad duration", "[serve]\nsession_ttl = \"soon\"\n"},
		{"bad syntax", "[serve\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content), true); err == nil {
				t.Error("LoadConfig() expected error")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"LOTTIEFRAMES_ADDR":        ":7000",
		"LOTTIEFRAMES_REDIS_ADDR":  "redis:6379",
		"LOTTIEFRAMES_REDIS_DB":    "3",
		"LOTTIEFRAMES_SESSION_TTL": "5m",
		"LOTTIEFRAMES_CHROME_URL":  "ws://chrome",
	}
	cfg := DefaultConfig()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Serve.Addr != ":7000" || cfg.Serve.RedisAddr != "redis:6379" || cfg.Serve.RedisDB != 3 {
		t.Errorf("serve = %+v", cfg.Serve)
	}
	if cfg.Serve.SessionTTL.Duration != 5*time.Minute {
		t.Errorf("session ttl = %v", cfg.Serve.SessionTTL)
	}
	if cfg.Renderer.RemoteURL != "ws://chrome" {
		t.Errorf("chrome url = %q", cfg.Renderer.RemoteURL)
	}
}

func TestApplyEnvIgnoresMalformed(t *testing.T) {
	env := map[string]string{
		"LOTTIEFRAMES_REDIS_DB":    "three",
		"LOTTIEFRAMES_SESSION_TTL": "later",
	}
	cfg := DefaultConfig()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}
