package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one cache backend without colliding.
//
// Example usage:
//
//	// Keys for the staging server
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "wordcloud:staging:")
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(wordsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(wordsHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
