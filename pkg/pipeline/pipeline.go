// Package pipeline provides the deck generation pipeline for slidesmith.
//
// This package implements the complete load → plan → compose → save
// pipeline shared by the CLI and the HTTP API, so both entry points produce
// identical decks from identical outlines.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Decode an outline from JSON, YAML or Markdown ([Load])
//  2. Plan: Decide the ordered slide strategies for the outline ([NewPlan])
//  3. Compose: Prefetch section images and emit every strategy into a deck
//  4. Save: Write the deck as <output>/<sanitized title>.pptx ([Save])
//
// Planning is a pure function of the outline and the catalog, which is what
// the `plan` command previews. Only composition touches the template.
//
// # Usage
//
//	tmpl, err := pipeline.LoadTemplate("templates/deck.pptx")
//	runner := pipeline.NewRunner(tmpl, catalog.Default(), fetcher, logger)
//	result, err := runner.Execute(ctx, outline, pipeline.Options{OutputDir: "out"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Path)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/strategy"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultOutputDir is where decks are written when no directory is given.
	DefaultOutputDir = "output_ppts"

	// DefaultWorkers bounds concurrent image fetches.
	DefaultWorkers = 4

	// DefaultFetchTimeout bounds a single image fetch.
	DefaultFetchTimeout = 10 * time.Second

	// MaxWorkers caps the image fetch pool.
	MaxWorkers = 32
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the configuration of one deck generation.
// This struct supports JSON serialization for API requests.
type Options struct {
	OutputDir       string        `json:"output_dir,omitempty"`
	Workers         int           `json:"workers,omitempty"`
	FetchTimeout    time.Duration `json:"fetch_timeout,omitempty"`
	TableOfContents bool          `json:"table_of_contents,omitempty"`

	// Seed fixes the choice between equivalent layouts. Zero picks randomly.
	Seed uint64 `json:"seed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	// Now overrides the clock used for the title slide date.
	Now func() time.Time `json:"-"`
	// OnStage is called as each stage begins, with the number of items the
	// stage works on.
	OnStage func(stage Stage, n int) `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks option ranges and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Workers < 0 || o.Workers > MaxWorkers {
		return errors.New(errors.ErrCodeInvalidInput, "workers must be between 1 and %d, got %d", MaxWorkers, o.Workers)
	}
	if o.FetchTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "fetch timeout cannot be negative")
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.FetchTimeout == 0 {
		o.FetchTimeout = DefaultFetchTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.OnStage == nil {
		o.OnStage = func(Stage, int) {}
	}
	o.validated = true
	return nil
}

// Stage names a step of [Runner.Execute].
type Stage string

const (
	// StagePrefetch starts the image downloads; n is the number of images.
	StagePrefetch Stage = "prefetch"
	// StageCompose emits the planned slides; n is the number of steps.
	StageCompose Stage = "compose"
	// StageSave writes the deck; n is the number of slides.
	StageSave Stage = "save"
)

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Path is where the deck was written.
	Path string

	// Title is the resolved deck title.
	Title string

	// Slides describes every emitted slide in deck order.
	Slides []SlideInfo

	// Stats contains timing and count information.
	Stats Stats
}

// SlideInfo describes one emitted slide.
type SlideInfo struct {
	Number int           `json:"number"`
	Kind   strategy.Kind `json:"kind"`
	Layout int           `json:"layout"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Sections      int
	Slides        int
	ImagesPlanned int
	ImagesPlaced  int
	PrefetchTime  time.Duration
	ComposeTime   time.Duration
	SaveTime      time.Duration
}
