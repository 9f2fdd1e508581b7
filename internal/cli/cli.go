// Package cli implements the lottieframes command-line interface.
//
// # Commands
//
//   - export: render Lottie files and write every frame as SVG into a ZIP archive
//   - serve: run the browser drop zone with the same export workflow
//   - inspect: print animation metadata without rendering
//   - cache: manage the frame and script cache
//
// # Configuration
//
// Flags win over LOTTIEFRAMES_* environment variables, which win over the
// TOML file (~/.config/lottieframes/config.toml or --config).
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lottieframes/pkg/buildinfo"
	"github.com/matzehuels/lottieframes/pkg/cache"
	"github.com/matzehuels/lottieframes/pkg/httputil"
	"github.com/matzehuels/lottieframes/pkg/observability"
	"github.com/matzehuels/lottieframes/pkg/render/browser"
)

// appName is the application name used for directories and display.
const appName = "lottieframes"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Export every frame of a Lottie animation as SVG",
		Long: `lottieframes renders Lottie animations (.json) with lottie-web in headless
Chrome and bundles every frame as a standalone SVG file into a ZIP archive.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			cfg.ApplyEnv(os.Getenv)
			c.config = cfg

			observability.SetExportHooks(newLogHooks(c.Logger))
			observability.SetCacheHooks(newLogCacheHooks(c.Logger))
			observability.SetHTTPHooks(newLogHTTPHooks(c.Logger))
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/lottieframes/config.toml)")

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// rendererOpts are the flags shared by commands that render.
type rendererOpts struct {
	remoteURL string
	chromeBin string
	scriptURL string
}

func (o *rendererOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.remoteURL, "chrome-url", "", "DevTools WebSocket URL of a running Chrome (default: launch one)")
	cmd.Flags().StringVar(&o.chromeBin, "chrome-bin", "", "path to the Chrome binary to launch")
	cmd.Flags().StringVar(&o.scriptURL, "script-url", "", "lottie-web build to load (default "+browser.DefaultScriptURL+")")
}

// resolve fills unset flags from the configuration.
func (o *rendererOpts) resolve(cmd *cobra.Command, cfg RendererConfig) {
	if !cmd.Flags().Changed("chrome-url") {
		o.remoteURL = cfg.RemoteURL
	}
	if !cmd.Flags().Changed("chrome-bin") {
		o.chromeBin = cfg.ChromeBin
	}
	if !cmd.Flags().Changed("script-url") {
		o.scriptURL = cfg.ScriptURL
	}
}

// startRenderer launches the headless browser. The lottie-web script is
// fetched through c so it is downloaded only once per TTL.
func (c *CLI) startRenderer(ctx context.Context, o rendererOpts, cc cache.Cache, keyer cache.Keyer) (*browser.Manager, error) {
	mgr := browser.NewManager(browser.Config{
		RemoteURL: o.remoteURL,
		Bin:       o.chromeBin,
		ScriptURL: o.scriptURL,
		Fetcher:   httputil.NewFetcher(cc, keyer),
		Logger:    loggerFromContext(ctx),
	})

	spinner := newSpinnerWithContext(ctx, "Starting headless browser...")
	spinner.Start()
	err := mgr.Start(ctx)
	spinner.Stop()
	if err != nil {
		mgr.Close()
		return nil, err
	}
	return mgr, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/lottieframes/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/lottieframes/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
