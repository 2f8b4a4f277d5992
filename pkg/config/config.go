// Package config loads slidesmith settings.
//
// Settings come from three layers, later layers winning: built-in defaults
// ([Default]), a TOML file ([Load]) and SLIDESMITH_* environment variables
// ([Config.ApplyEnv]). Command-line flags are applied by the caller on top.
//
//	template   = "templates/deck.pptx"
//	output_dir = "output_ppts"
//
//	[fetch]
//	timeout = "10s"
//	workers = 4
//
//	[cache]
//	backend = "redis"
//	redis_addr = "cache:6379"
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/httputil"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "slidesmith.toml"

// Cache backends.
const (
	CacheFile   = "file"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// Environment variables that override file settings.
const (
	EnvTemplate  = "SLIDESMITH_TEMPLATE"
	EnvOutputDir = "SLIDESMITH_OUTPUT_DIR"
	EnvRedisAddr = "SLIDESMITH_REDIS_ADDR"
	EnvMongoURI  = "SLIDESMITH_MONGO_URI"
)

// Config is the complete slidesmith configuration.
type Config struct {
	Template  string `toml:"template"`
	OutputDir string `toml:"output_dir"`
	// Catalog is an optional catalog override file.
	Catalog string `toml:"catalog"`

	Fetch  FetchConfig  `toml:"fetch"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
}

// FetchConfig controls image downloads.
type FetchConfig struct {
	Timeout   time.Duration `toml:"timeout"`
	Workers   int           `toml:"workers"`
	MaxBytes  int64         `toml:"max_bytes"`
	UserAgent string        `toml:"user_agent"`
}

// CacheConfig selects and configures the image cache.
type CacheConfig struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	TTL       time.Duration `toml:"ttl"`
	RedisAddr string        `toml:"redis_addr"`
	RedisDB   int           `toml:"redis_db"`
	// KeyPrefix scopes image keys when several deployments share a Redis.
	KeyPrefix string `toml:"key_prefix"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// PublicURL prefixes the download links handed to clients.
	PublicURL string `toml:"public_url"`
}

// StoreConfig selects and configures the deck history store.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Template:  "templates/deck.pptx",
		OutputDir: pipeline.DefaultOutputDir,
		Fetch: FetchConfig{
			Timeout:   pipeline.DefaultFetchTimeout,
			Workers:   pipeline.DefaultWorkers,
			MaxBytes:  httputil.DefaultMaxBytes,
			UserAgent: httputil.DefaultUserAgent,
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			TTL:       7 * 24 * time.Hour,
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr:      ":10021",
			PublicURL: "http://127.0.0.1:10021",
		},
		Store: StoreConfig{
			Backend:  StoreMemory,
			MongoURI: "mongodb://localhost:27017",
			Database: "slidesmith",
		},
	}
}

// Load reads the TOML file at path on top of [Default] and applies the
// environment. An empty path reads [DefaultFile] when it exists and falls
// back to defaults otherwise; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	c := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := c.decode(data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
		}
	case os.IsNotExist(err) && !explicit:
	case os.IsNotExist(err):
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	default:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	c.ApplyEnv(os.LookupEnv)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Parse decodes TOML config data on top of [Default]. The environment is
// not consulted.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := c.decode(data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) decode(data []byte) error {
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides settings from SLIDESMITH_* variables found by lookup.
// Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(EnvTemplate, &c.Template)
	set(EnvOutputDir, &c.OutputDir)
	set(EnvRedisAddr, &c.Cache.RedisAddr)
	set(EnvMongoURI, &c.Store.MongoURI)
}

// Validate checks backend names and numeric ranges.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheMemory, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case StoreMemory, StoreFile, StoreMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Fetch.Workers < 1 || c.Fetch.Workers > pipeline.MaxWorkers {
		return errors.New(errors.ErrCodeInvalidConfig, "fetch.workers must be between 1 and %d, got %d", pipeline.MaxWorkers, c.Fetch.Workers)
	}
	if c.Fetch.Timeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fetch.timeout must be positive")
	}
	if c.Fetch.MaxBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fetch.max_bytes must be positive")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	return nil
}

// PipelineOptions returns the pipeline options implied by c.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		OutputDir:    c.OutputDir,
		Workers:      c.Fetch.Workers,
		FetchTimeout: c.Fetch.Timeout,
	}
}
