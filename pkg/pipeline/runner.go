package pipeline

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/imaging"
	"github.com/matzehuels/slidesmith/pkg/observability"
	"github.com/matzehuels/slidesmith/pkg/ooxml"
	"github.com/matzehuels/slidesmith/pkg/outline"
	"github.com/matzehuels/slidesmith/pkg/strategy"
)

// Runner generates decks from outlines against one template.
//
// The Runner holds only read-only state: the template, the catalog and the
// image source. Multiple goroutines can safely call Execute on the same
// Runner; each call builds its own deck.
type Runner struct {
	Template *ooxml.Template
	Catalog  *catalog.Catalog
	Images   imaging.Source
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil catalog uses [catalog.Default]; a nil
// image source disables image slides.
func NewRunner(tmpl *ooxml.Template, c *catalog.Catalog, images imaging.Source, logger *log.Logger) *Runner {
	if c == nil {
		c = catalog.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Template: tmpl, Catalog: c, Images: images, Logger: logger}
}

// CheckTemplate logs a warning for every catalog layout the template lacks
// and returns their names. Missing layouts fall back to layout 0 at
// composition time.
func (r *Runner) CheckTemplate() []string {
	var missing []string
	for _, name := range r.Catalog.LayoutNames() {
		idx := r.Catalog.LayoutIndex(name)
		if _, ok := r.Template.Layout(idx); !ok {
			missing = append(missing, name)
			r.Logger.Warn("template lacks layout", "layout", name, "index", idx, "layouts", len(r.Template.Layouts))
		}
	}
	return missing
}

// Execute runs the plan → compose → save pipeline for o.
func (r *Runner) Execute(ctx context.Context, o *outline.Outline, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	plan := NewPlan(o, r.Catalog, PlanOptions{TableOfContents: opts.TableOfContents})
	hooks := observability.Pipeline()
	hooks.OnDeckStart(ctx, plan.Title, len(o.Sections))
	start := time.Now()

	result, err := r.compose(ctx, plan, opts)
	if err == nil {
		result.Stats.Sections = len(o.Sections)
		logger.Info("deck saved", "path", result.Path, "slides", result.Stats.Slides,
			"images", result.Stats.ImagesPlaced, "duration", time.Since(start).Round(time.Millisecond))
	}

	slides := 0
	if result != nil {
		slides = result.Stats.Slides
	}
	hooks.OnDeckComplete(ctx, plan.Title, slides, time.Since(start), err)
	return result, err
}

func (r *Runner) compose(ctx context.Context, plan *Plan, opts Options) (*Result, error) {
	logger := opts.Logger
	result := &Result{Title: plan.Title}

	env := strategy.NewEnv(ooxml.NewDeck(r.Template), r.Catalog, logger)
	env.Now = opts.Now
	if opts.Seed != 0 {
		env.Rand = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	}

	for _, ref := range plan.ImageRefs {
		if ref != "" {
			result.Stats.ImagesPlanned++
		}
	}
	if r.Images != nil && result.Stats.ImagesPlanned > 0 {
		opts.OnStage(StagePrefetch, result.Stats.ImagesPlanned)
		prefetchStart := time.Now()
		batch := imaging.Prefetch(ctx, r.Images, plan.ImageRefs, imaging.PrefetchOptions{
			Workers: opts.Workers,
			Timeout: opts.FetchTimeout,
			Logger:  logger,
		})
		env.Images = batch
		defer func() {
			<-batch.Done()
			result.Stats.PrefetchTime = time.Since(prefetchStart)
		}()
	}

	logger.Info("composing deck", "title", plan.Title, "steps", len(plan.Steps), "images", result.Stats.ImagesPlanned)
	opts.OnStage(StageCompose, len(plan.Steps))
	composeStart := time.Now()
	hooks := observability.Pipeline()
	seq := 0
	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "deck generation interrupted")
		}
		n := step.Emit(ctx, env, seq)
		for _, s := range env.Deck.Slides()[seq:] {
			seq++
			result.Slides = append(result.Slides, SlideInfo{Number: seq, Kind: step.Kind(), Layout: s.Layout.Index})
		}
		if step.Kind() == strategy.KindImage {
			result.Stats.ImagesPlaced += n
		}
		logger.Debug("emitted", "step", step.Describe(), "slides", n, "total", seq)
		hooks.OnSlidesEmitted(ctx, string(step.Kind()), n)
	}
	result.Stats.Slides = seq
	result.Stats.ComposeTime = time.Since(composeStart)

	opts.OnStage(StageSave, seq)
	saveStart := time.Now()
	path, err := Save(env.Deck, opts.OutputDir, plan.Title, r.Catalog.Labels.UntitledDeck)
	if err != nil {
		return nil, err
	}
	result.Path = path
	result.Stats.SaveTime = time.Since(saveStart)
	return result, nil
}
