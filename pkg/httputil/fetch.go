package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/lottieframes/pkg/cache"
	"github.com/matzehuels/lottieframes/pkg/observability"
)

// maxAssetSize bounds downloaded assets. The minified lottie-web player is
// well under 1 MiB.
const maxAssetSize = 16 << 20

// Fetcher downloads small text assets and caches them.
type Fetcher struct {
	Client *http.Client
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration

	// attempts and delay are overridable in tests.
	attempts int
	delay    time.Duration
}

// NewFetcher returns a Fetcher using c for storage. A nil cache disables
// caching.
func NewFetcher(c cache.Cache, keyer cache.Keyer) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Fetcher{
		Client:   &http.Client{Timeout: 30 * time.Second},
		Cache:    c,
		Keyer:    keyer,
		TTL:      cache.TTLScript,
		attempts: 3,
		delay:    time.Second,
	}
}

// Get returns the body at rawURL, from cache when possible.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	key := f.Keyer.ScriptKey(rawURL)
	if data, hit, err := f.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "script")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "script")

	var body []byte
	err := Retry(ctx, f.attempts, f.delay, func() error {
		var err error
		body, err = f.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := f.Cache.Set(ctx, key, body, f.TTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "script", len(body))
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := f.Client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		return nil, &RetryableError{Err: fmt.Errorf("fetch %s: %w", rawURL, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500:
		return nil, &RetryableError{Err: fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)}
	default:
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("read %s: %w", rawURL, err)}
	}
	if len(data) > maxAssetSize {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", rawURL, maxAssetSize)
	}
	return data, nil
}
