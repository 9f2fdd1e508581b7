// Package cache stores rendered frame sequences and fetched renderer scripts.
//
// Rendering a Lottie document through a headless browser is the slowest step
// of an export, and the same document is often exported repeatedly (watch
// mode, re-dropping a file in the web UI). Frame sequences are therefore
// cached under a key derived from the document content and the renderer
// settings.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under ~/.cache/lottieframes (CLI)
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: disables caching (--no-cache, tests)
//
// # Keys
//
// Keys are produced by a [Keyer] so that backends never have to understand
// their structure:
//
//	k := cache.NewDefaultKeyer()
//	key := k.FramesKey(cache.Hash(doc), cache.FramesKeyOpts{Renderer: "chromium"})
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry kind.
const (
	// TTLFrames is how long captured frame sequences stay valid.
	TTLFrames = 7 * 24 * time.Hour

	// TTLScript is how long a downloaded renderer script is reused.
	TTLScript = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// FramesKeyOpts are the renderer settings that change captured output.
type FramesKeyOpts struct {
	Renderer  string `json:"renderer"`
	ScriptURL string `json:"script_url,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// FramesKey is the key for the frames captured from a document with the
	// given content hash.
	FramesKey(docHash string, opts FramesKeyOpts) string

	// ScriptKey is the key for a renderer script downloaded from url.
	ScriptKey(url string) string
}

// DefaultKeyer produces unscoped keys of the form "kind:hash".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FramesKey implements Keyer.
func (DefaultKeyer) FramesKey(docHash string, opts FramesKeyOpts) string {
	return hashKey("frames", docHash, opts)
}

// ScriptKey implements Keyer.
func (DefaultKeyer) ScriptKey(url string) string {
	return hashKey("script", url)
}
