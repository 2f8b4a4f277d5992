// Package pkg provides the core libraries of Slidesmith, a slide composition
// engine that turns structured outlines into PowerPoint decks.
//
// # Overview
//
// Slidesmith fills the layouts of a designer template with the content of an
// outline. Every slide is chosen by a strategy (title page, table of
// contents, content, image, sub-section, references, closing slide) and the
// text bound into each placeholder is fitted to its box. The pkg directory is
// organized into four areas:
//
//  1. Content - [outline] decoding and [textproc] text utilities
//  2. Composition - [catalog], [ooxml], [fit] and [strategy]
//  3. Orchestration - [pipeline] (outline → plan → slides → .pptx)
//  4. Infrastructure - [config], [cache], [httputil], [imaging], [store],
//     [server], [observability] and [errors]
//
// # Architecture
//
// The typical data flow through Slidesmith:
//
//	Outline (JSON/YAML/Markdown)
//	         ↓
//	    [outline] package (decode + extract content)
//	         ↓
//	    [pipeline] package (plan strategies + prefetch images)
//	         ↓
//	    [strategy] package (pick layouts + bind text and pictures)
//	         ↓
//	    [ooxml] package (write the .pptx package)
//
// # Quick Start
//
// Generate a deck from an outline file:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/slidesmith/pkg/pipeline"
//	)
//
//	// 1. Load the template and the outline
//	tmpl, _ := pipeline.LoadTemplate("templates/default.pptx")
//	o, _ := pipeline.Load(context.Background(), "outline.json", "")
//
//	// 2. Compose and save the deck
//	runner := pipeline.NewRunner(tmpl, nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), o, pipeline.Options{
//	    OutputDir: "output_ppts",
//	})
//	fmt.Println(result.Path)
//
// # Main Packages
//
// ## Content
//
// [outline] - Outline model and decoders. Decoding is tolerant below the top
// level, so a malformed block never fails a deck.
//
// [textproc] - Markup stripping, truncation, chunking, sentence splitting and
// font size estimation.
//
// ## Composition
//
// [catalog] - The layout catalog: layout indices, placeholder ids, font
// ranges and limits. The built-in catalog can be overridden from TOML.
//
// [ooxml] - Minimal reader and writer for .pptx templates and decks.
//
// [fit] - Binds text into placeholders and resizes title backgrounds.
//
// [strategy] - One type per slide kind; each emits its slides into a deck.
//
// ## Orchestration
//
// [pipeline] - Plans an outline, prefetches images concurrently, composes
// slides and saves the deck. Used by both the CLI and the HTTP server.
//
// ## Infrastructure
//
// [config] - TOML configuration with environment overrides, and constructors
// for the configured backends.
//
// [cache] - Image cache backends (file, Redis, null).
//
// [httputil] - HTTP client with retries and size limits for image downloads.
//
// [imaging] - Image fetching, decoding and concurrent prefetch.
//
// [store] - Deck history (memory, file and MongoDB backends).
//
// [server] - HTTP API for generating and downloading decks.
//
// [observability] - Hooks for deck, parse and cache events.
//
// [errors] - Error codes and user-facing messages.
//
// [outline]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/outline
// [textproc]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/textproc
// [catalog]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/catalog
// [ooxml]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/ooxml
// [fit]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/fit
// [strategy]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/strategy
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/httputil
// [imaging]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/imaging
// [store]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/errors
package pkg
