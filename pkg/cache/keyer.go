package cache

// Keyer derives cache keys.
type Keyer interface {
	// ImageKey returns the key for the bytes fetched from an image URL.
	ImageKey(rawURL string) string
}

// DefaultKeyer hashes URLs so keys stay short and free of special
// characters.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ImageKey implements [Keyer].
func (DefaultKeyer) ImageKey(rawURL string) string {
	return hashKey("image", rawURL)
}
