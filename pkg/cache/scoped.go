package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when one backend (typically Redis) is shared across
// driver versions or branches and their entries must not collide.
//
// Example usage:
//
//	// Keys scoped to one driver release
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "driver:1.45.0:")
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

// SchemaKey generates a prefixed key for a cached API description.
func (k *ScopedKeyer) SchemaKey(source string, opts SchemaKeyOpts) string {
	return k.prefix + k.inner.SchemaKey(source, opts)
}

// GenKey generates a prefixed key for an emitted source bundle.
func (k *ScopedKeyer) GenKey(schemaHash string, opts GenKeyOpts) string {
	return k.prefix + k.inner.GenKey(schemaHash, opts)
}

// GraphKey generates a prefixed key for a rendered graph artifact.
func (k *ScopedKeyer) GraphKey(schemaHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(schemaHash, opts)
}
