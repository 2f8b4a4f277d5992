package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one backend without key collisions.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "slidesmith:")
//	keyer.ImageKey("https://example.com/a.png") // "slidesmith:image:3f1c..."
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer uses
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ImageKey generates a prefixed image key.
func (k *ScopedKeyer) ImageKey(rawURL string) string {
	return k.prefix + k.inner.ImageKey(rawURL)
}
