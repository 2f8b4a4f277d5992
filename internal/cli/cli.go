// Package cli implements the slidesmith command-line interface.
//
// This package provides commands for generating decks from outlines,
// previewing slide plans, inspecting the layout catalog, serving the HTTP
// API and managing the image cache. The CLI is built using cobra and logs
// through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - generate: Build a .pptx deck from a JSON, YAML or Markdown outline
//   - plan: Preview the slides an outline produces without writing files
//   - layouts: List the catalog layouts and whether a template provides them
//   - template init: Write a starter template matching the catalog
//   - serve: Run the HTTP API
//   - convert: Convert an outline between JSON, YAML and Markdown input
//   - cache: Manage the image cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidesmith/pkg/buildinfo"
	"github.com/matzehuels/slidesmith/pkg/cache"
	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/config"
	"github.com/matzehuels/slidesmith/pkg/ooxml"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "slidesmith"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	info := buildinfo.Get()
	info.Catalog = catalog.DefaultVersion

	root := &cobra.Command{
		Use:           appName,
		Short:         "Slidesmith builds PowerPoint decks from outlines",
		Long:          `Slidesmith turns structured outlines (JSON, YAML or Markdown) into PowerPoint decks by filling the layouts of a designer template.`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(info.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.layoutsCommand())
	root.AddCommand(c.templateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Setup
// =============================================================================

// loadConfig reads the config file named by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// engine bundles what every deck-producing command needs.
type engine struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	tmpl    *ooxml.Template
	cache   cache.Cache
	runner  *pipeline.Runner
}

// Close releases the image cache.
func (e *engine) Close() error {
	return e.cache.Close()
}

// newEngine loads the catalog and template named by cfg and wires the image
// fetcher. A noCache engine skips the configured cache.
func (c *CLI) newEngine(ctx context.Context, cfg *config.Config, noCache bool) (*engine, error) {
	logger := loggerFromContext(ctx)

	cat, err := cfg.OpenCatalog()
	if err != nil {
		return nil, err
	}
	tmpl, err := pipeline.LoadTemplate(cfg.Template)
	if err != nil {
		return nil, err
	}

	resolveCacheDir(cfg)
	if noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	ch, err := cfg.OpenCache(ctx)
	if err != nil {
		logger.Warn("image cache unavailable, continuing without it", "backend", cfg.Cache.Backend, "err", err)
		ch = cache.NewNullCache()
	}

	runner := pipeline.NewRunner(tmpl, cat, cfg.NewFetcher(ch, cat.ImageSchemes, logger), logger)
	if missing := runner.CheckTemplate(); len(missing) > 0 {
		logger.Warn("template is missing catalog layouts", "count", len(missing))
	}
	return &engine{cfg: cfg, catalog: cat, tmpl: tmpl, cache: ch, runner: runner}, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/slidesmith/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// resolveCacheDir fills an empty cache directory in cfg with the XDG
// default.
func resolveCacheDir(cfg *config.Config) {
	if cfg.Cache.Dir != "" {
		return
	}
	if dir, err := cacheDir(); err == nil {
		cfg.Cache.Dir = dir
	}
}
