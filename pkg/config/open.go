package config

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidesmith/pkg/cache"
	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/httputil"
	"github.com/matzehuels/slidesmith/pkg/imaging"
	"github.com/matzehuels/slidesmith/pkg/store"
)

// OpenCatalog returns the default catalog, or the override file when one is
// configured.
func (c *Config) OpenCatalog() (*catalog.Catalog, error) {
	if c.Catalog == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(c.Catalog)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load catalog")
	}
	return cat, nil
}

// OpenCache connects the configured image cache. The result reports hits
// and misses to the observability hooks.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	var (
		backend cache.Cache
		err     error
	)
	switch c.Cache.Backend {
	case CacheNone:
		backend = cache.NewNullCache()
	case CacheMemory:
		backend = cache.NewMemoryCache()
	case CacheRedis:
		backend, err = cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.Cache.RedisAddr, DB: c.Cache.RedisDB})
	default:
		backend, err = cache.NewFileCache(c.Cache.Dir)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open %s cache", c.Cache.Backend)
	}
	return cache.Instrumented(backend, "image"), nil
}

// OpenStore connects the configured deck history store.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case StoreMongo:
		s, err := store.NewMongoStore(ctx, store.MongoConfig{URI: c.Store.MongoURI, Database: c.Store.Database})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open mongo store")
		}
		return s, nil
	case StoreFile:
		s, err := store.NewFileStore(c.Store.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open file store")
		}
		return s, nil
	default:
		return store.NewMemoryStore(), nil
	}
}

// NewFetcher builds the image fetcher: an HTTP client limited by the fetch
// settings in front of ch. Only URLs with one of schemes are fetched; none
// means http and https.
func (c *Config) NewFetcher(ch cache.Cache, schemes []string, logger *log.Logger) *imaging.Fetcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	client := httputil.NewClient(httputil.Options{
		Timeout:   c.Fetch.Timeout,
		MaxBytes:  c.Fetch.MaxBytes,
		UserAgent: c.Fetch.UserAgent,
	})
	var keyer cache.Keyer
	if c.Cache.KeyPrefix != "" {
		keyer = cache.NewScopedKeyer(nil, c.Cache.KeyPrefix)
	}
	return imaging.NewFetcher(client, imaging.FetcherOptions{
		Schemes: schemes,
		Keyer:   keyer,
		Cache:   ch,
		TTL:     c.Cache.TTL,
		Logger:  logger,
	})
}
