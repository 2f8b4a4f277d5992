package imaging

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidesmith/pkg/cache"
	"github.com/matzehuels/slidesmith/pkg/errors"
)

// Getter performs a single HTTP GET. [httputil.Client] implements it.
//
// [httputil.Client]: github.com/matzehuels/slidesmith/pkg/httputil.Client
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// FetcherOptions configure a [Fetcher].
type FetcherOptions struct {
	// Schemes are the accepted URL schemes. Empty means http and https.
	Schemes []string
	// Cache stores fetched bytes. Nil disables caching.
	Cache cache.Cache
	// Keyer derives cache keys. Nil uses [cache.DefaultKeyer].
	Keyer cache.Keyer
	// TTL is the expiry of cached entries. Zero keeps them forever.
	TTL    time.Duration
	Logger *log.Logger
}

// Fetcher downloads image bytes with a cache look-aside.
type Fetcher struct {
	getter  Getter
	schemes []string
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	logger  *log.Logger
}

// NewFetcher creates a Fetcher that downloads through g.
func NewFetcher(g Getter, opts FetcherOptions) *Fetcher {
	f := &Fetcher{
		getter:  g,
		schemes: opts.Schemes,
		cache:   opts.Cache,
		keyer:   opts.Keyer,
		ttl:     opts.TTL,
		logger:  opts.Logger,
	}
	if f.cache == nil {
		f.cache = cache.NewNullCache()
	}
	if f.keyer == nil {
		f.keyer = cache.NewDefaultKeyer()
	}
	if f.logger == nil {
		f.logger = log.New(io.Discard)
	}
	return f
}

// Fetch returns the bytes behind ref. It reports false, after logging the
// reason, when ref is not an accepted URL or the download fails. Fetch is
// safe for concurrent use.
func (f *Fetcher) Fetch(ctx context.Context, ref string) ([]byte, bool) {
	if err := errors.ValidateImageURL(ref, f.schemes...); err != nil {
		f.logger.Warn("invalid image reference", "url", ref, "err", errors.UserMessage(err))
		return nil, false
	}

	key := f.keyer.ImageKey(ref)
	if data, ok, err := f.cache.Get(ctx, key); err != nil {
		f.logger.Debug("image cache read failed", "url", ref, "err", err)
	} else if ok {
		f.logger.Debug("image cache hit", "url", ref, "bytes", len(data))
		return data, true
	}

	start := time.Now()
	data, err := f.getter.Get(ctx, ref)
	if err != nil {
		f.logger.Error("image download failed", "url", ref, "err", errors.UserMessage(err))
		return nil, false
	}
	f.logger.Debug("downloaded image", "url", ref, "bytes", len(data), "took", time.Since(start).Round(time.Millisecond))

	if err := f.cache.Set(ctx, key, data, f.ttl); err != nil {
		f.logger.Debug("image cache write failed", "url", ref, "err", err)
	}
	return data, true
}
