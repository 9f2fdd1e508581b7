package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lottieframes/internal/server"
	"github.com/matzehuels/lottieframes/pkg/cache"
	"github.com/matzehuels/lottieframes/pkg/exporter"
	"github.com/matzehuels/lottieframes/pkg/session"
)

// sessionCleanupInterval is how often expired workspaces are swept.
const sessionCleanupInterval = time.Minute

// redisKeyPrefix scopes frame and script keys in a shared Redis.
const redisKeyPrefix = appName + ":"

type serveOpts struct {
	addr          string
	redisAddr     string
	redisPassword string
	redisDB       int
	sessionTTL    time.Duration
	maxUploadMB   int
	concurrency   int
	noCache       bool
	renderer      rendererOpts
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the drop-zone web page",
		Long: `Serve starts an HTTP server with a drop zone for Lottie files. Dropped files
are rendered in a shared headless browser, their frames are previewed on the
page and all frames can be downloaded as one ZIP archive.

With --redis-addr, captured frames are cached in Redis so several instances
share their work. Without it the local file cache is used.`,
		Example: `  lottieframes serve
  lottieframes serve --addr :9000 --redis-addr localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config.Serve
			flags := cmd.Flags()
			if !flags.Changed("addr") {
				opts.addr = cfg.Addr
			}
			if !flags.Changed("redis-addr") {
				opts.redisAddr = cfg.RedisAddr
			}
			if !flags.Changed("redis-password") {
				opts.redisPassword = cfg.RedisPassword
			}
			if !flags.Changed("redis-db") {
				opts.redisDB = cfg.RedisDB
			}
			if !flags.Changed("session-ttl") {
				opts.sessionTTL = cfg.SessionTTL.Duration
			}
			if !flags.Changed("max-upload-mb") {
				opts.maxUploadMB = cfg.MaxUploadMB
			}
			if !flags.Changed("concurrency") {
				opts.concurrency = c.config.Export.Concurrency
			}
			opts.renderer.resolve(cmd, c.config.Renderer)
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for the shared frame cache")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", session.DefaultTTL, "idle time after which a workspace is discarded")
	cmd.Flags().IntVar(&opts.maxUploadMB, "max-upload-mb", server.DefaultMaxUploadBytes>>20, "maximum size of one upload in MiB")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", exporter.DefaultConcurrency, "files rendered in parallel per workspace")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the frame cache")
	opts.renderer.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	cc, keyer, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	defer cc.Close()

	mgr, err := c.startRenderer(ctx, opts.renderer, cc, keyer)
	if err != nil {
		return err
	}
	defer mgr.Close()

	store := session.NewMemoryStore(func() (*exporter.Exporter, error) {
		return exporter.New(exporter.Options{
			Renderer:    mgr,
			Cache:       cc,
			Keyer:       keyer,
			Logger:      logger,
			Concurrency: opts.concurrency,
		})
	}, opts.sessionTTL)
	defer store.Close()
	go store.RunCleanup(ctx, sessionCleanupInterval)

	srv := server.New(server.Config{
		Store:          store,
		Logger:         logger,
		MaxUploadBytes: int64(opts.maxUploadMB) << 20,
	})

	printSuccess("Serving on %s", displayAddr(opts.addr))
	printDetail("Renderer: %s", mgr.Name())
	return srv.Run(ctx, opts.addr)
}

// serveCache picks the frame cache: Redis when configured and reachable,
// otherwise the local file cache.
func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, cache.Keyer, error) {
	keyer := cache.NewDefaultKeyer()
	if opts.noCache {
		return cache.NewNullCache(), keyer, nil
	}
	if opts.redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     opts.redisAddr,
			Password: opts.redisPassword,
			DB:       opts.redisDB,
		})
		if err == nil {
			printInfo("Frame cache: redis %s", opts.redisAddr)
			return rc, cache.NewScopedKeyer(keyer, redisKeyPrefix), nil
		}
		printWarning("Redis unavailable, using local cache: %v", err)
	}
	fc, err := newCache(false)
	if err != nil {
		return nil, nil, err
	}
	return fc, keyer, nil
}

// displayAddr turns a listen address into something a user can open.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
