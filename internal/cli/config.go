package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lottieframes/internal/server"
	"github.com/matzehuels/lottieframes/pkg/exporter"
	"github.com/matzehuels/lottieframes/pkg/session"
)

// Config is the contents of config.toml.
//
//	[export]
//	output = "frames/"
//	concurrency = 4
//
//	[renderer]
//	chrome_url = "ws://127.0.0.1:9222/devtools/browser/..."
//
//	[serve]
//	addr = ":8080"
//	redis_addr = "localhost:6379"
//	session_ttl = "2h"
type Config struct {
	Export   ExportConfig   `toml:"export"`
	Renderer RendererConfig `toml:"renderer"`
	Serve    ServeConfig    `toml:"serve"`
}

// ExportConfig holds defaults for the export command.
type ExportConfig struct {
	Output      string `toml:"output"`
	Concurrency int    `toml:"concurrency"`
	NoCache     bool   `toml:"no_cache"`
}

// RendererConfig selects the browser used for rendering.
type RendererConfig struct {
	RemoteURL string `toml:"chrome_url"`
	ChromeBin string `toml:"chrome_bin"`
	ScriptURL string `toml:"script_url"`
}

// ServeConfig holds defaults for the serve command.
type ServeConfig struct {
	Addr          string   `toml:"addr"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	SessionTTL    Duration `toml:"session_ttl"`
	MaxUploadMB   int      `toml:"max_upload_mb"`
}

// Duration is a time.Duration written as a string ("90m") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Export: ExportConfig{
			Concurrency: exporter.DefaultConcurrency,
		},
		Serve: ServeConfig{
			Addr:        ":8080",
			SessionTTL:  Duration{session.DefaultTTL},
			MaxUploadMB: server.DefaultMaxUploadBytes >> 20,
		},
	}
}

// LoadConfig reads the config file at path on top of the defaults. An empty
// path means the default location. A missing file is only an error when the
// path was given explicitly.
func LoadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return DefaultConfig(), nil
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// Environment variables read by ApplyEnv.
const (
	envAddr          = "LOTTIEFRAMES_ADDR"
	envRedisAddr     = "LOTTIEFRAMES_REDIS_ADDR"
	envRedisPassword = "LOTTIEFRAMES_REDIS_PASSWORD"
	envRedisDB       = "LOTTIEFRAMES_REDIS_DB"
	envSessionTTL    = "LOTTIEFRAMES_SESSION_TTL"
	envChromeURL     = "LOTTIEFRAMES_CHROME_URL"
	envScriptURL     = "LOTTIEFRAMES_SCRIPT_URL"
)

// ApplyEnv overrides settings from LOTTIEFRAMES_* variables. Malformed
// numeric or duration values are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	setString := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.Serve.Addr, envAddr)
	setString(&c.Serve.RedisAddr, envRedisAddr)
	setString(&c.Serve.RedisPassword, envRedisPassword)
	setString(&c.Renderer.RemoteURL, envChromeURL)
	setString(&c.Renderer.ScriptURL, envScriptURL)

	if v := getenv(envRedisDB); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Serve.RedisDB = db
		}
	}
	if v := getenv(envSessionTTL); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Serve.SessionTTL = Duration{d}
		}
	}
}
