// Package browser renders Lottie animations with lottie-web inside headless
// Chromium.
//
// A [Manager] owns one browser process (launched locally or reached through
// a remote DevTools URL). Each [Player] is a separate page with its own
// stage element, so frames of different files can be captured in parallel
// without interfering with each other.
//
//	m := browser.NewManager(browser.Config{})
//	if err := m.Start(ctx); err != nil { ... }
//	defer m.Close()
//	frames, err := render.Capture(ctx, player, doc, nil)
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"github.com/matzehuels/lottieframes/pkg/cache"
	"github.com/matzehuels/lottieframes/pkg/httputil"
	"github.com/matzehuels/lottieframes/pkg/render"
)

// DefaultScriptURL is the lottie-web SVG player build loaded into each page.
const DefaultScriptURL = "https://unpkg.com/lottie-web@5.12.2/build/player/lottie_svg.min.js"

// Config configures the browser manager.
type Config struct {
	// RemoteURL is the DevTools WebSocket URL of an external Chrome instance.
	// Empty = launch a local headless Chrome.
	RemoteURL string

	// Bin is the path of the Chrome binary to launch. Empty lets the
	// launcher find or download one.
	Bin string

	// ScriptURL is where lottie-web is downloaded from. Default: DefaultScriptURL.
	ScriptURL string

	// Script, if set, is used verbatim instead of downloading ScriptURL.
	Script []byte

	// Fetcher downloads the script. Default: an uncached fetcher.
	Fetcher *httputil.Fetcher

	Logger *log.Logger
}

func (c *Config) defaults() {
	if c.ScriptURL == "" {
		c.ScriptURL = DefaultScriptURL
	}
	if c.Fetcher == nil {
		c.Fetcher = httputil.NewFetcher(nil, nil)
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
}

// Manager manages the Chrome lifecycle and hands out players.
type Manager struct {
	cfg     Config
	mu      sync.RWMutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	script  string
	closed  bool
}

var _ render.Renderer = (*Manager)(nil)

// NewManager creates a Manager. Call Start before NewPlayer.
func NewManager(cfg Config) *Manager {
	cfg.defaults()
	return &Manager{cfg: cfg}
}

// Name implements render.Renderer.
func (m *Manager) Name() string { return "lottie-web/svg" }

// ScriptURL reports the lottie-web build in use. It is part of frame cache
// keys since different player versions may serialize frames differently.
func (m *Manager) ScriptURL() string {
	if len(m.cfg.Script) > 0 {
		return "inline:" + cache.Hash(m.cfg.Script)
	}
	return m.cfg.ScriptURL
}

// Start loads the lottie-web script and launches (or connects to) Chrome.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("browser: manager is closed")
	}
	if m.browser != nil {
		return nil
	}

	script, err := m.loadScript(ctx)
	if err != nil {
		return err
	}

	b, err := m.launch()
	if err != nil {
		return err
	}
	m.script = script
	m.browser = b
	return nil
}

// NewPlayer implements render.Renderer by opening a new page.
func (m *Manager) NewPlayer(ctx context.Context) (render.Player, error) {
	m.mu.RLock()
	b, script, closed := m.browser, m.script, m.closed
	m.mu.RUnlock()

	if closed {
		return nil, fmt.Errorf("browser: manager is closed")
	}
	if b == nil {
		return nil, fmt.Errorf("browser: not started")
	}
	return openPlayer(ctx, b, script)
}

// Close shuts down Chrome. Players still open become unusable.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true

	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
	return err
}

func (m *Manager) loadScript(ctx context.Context) (string, error) {
	if len(m.cfg.Script) > 0 {
		return string(m.cfg.Script), nil
	}
	m.cfg.Logger.Debug("browser: loading lottie-web", "url", m.cfg.ScriptURL)
	data, err := m.cfg.Fetcher.Get(ctx, m.cfg.ScriptURL)
	if err != nil {
		return "", fmt.Errorf("browser: load lottie-web: %w", err)
	}
	return string(data), nil
}

func (m *Manager) launch() (*rod.Browser, error) {
	logger := m.cfg.Logger

	wsURL := m.cfg.RemoteURL
	if wsURL != "" {
		logger.Debug("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().Headless(true)
		if m.cfg.Bin != "" {
			l = l.Bin(m.cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		logger.Debug("browser: launched local chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if m.lnch != nil {
			m.lnch.Cleanup()
			m.lnch = nil
		}
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	return b, nil
}
