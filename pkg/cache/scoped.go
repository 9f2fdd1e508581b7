package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments (or
// renderer versions) can share one Redis database without collisions.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "lottieframes:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// FramesKey generates a prefixed frames key.
func (k *ScopedKeyer) FramesKey(docHash string, opts FramesKeyOpts) string {
	return k.prefix + k.inner.FramesKey(docHash, opts)
}

// ScriptKey generates a prefixed script key.
func (k *ScopedKeyer) ScriptKey(url string) string {
	return k.prefix + k.inner.ScriptKey(url)
}
