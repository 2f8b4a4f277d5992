// Package strategy turns typed slide content into slides.
//
// Each slide kind is one type implementing [Strategy]. A strategy is a plain
// value describing what to emit; [Strategy.Emit] writes zero or more slides
// into the deck held by an [Env] and returns how many it added. The set of
// kinds is closed: the orchestrator builds strategies from outline sections
// and never inspects them beyond [Strategy.Kind].
//
// All strategies are fail-soft. A layout missing from the template falls
// back to layout 0, a missing shape skips that one binding, and a missing
// image skips the slide; each case is logged on the Env's logger.
package strategy

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/fit"
	"github.com/matzehuels/slidesmith/pkg/imaging"
	"github.com/matzehuels/slidesmith/pkg/ooxml"
)

// Kind identifies a slide kind.
type Kind string

const (
	KindTitle      Kind = "title"
	KindTOC        Kind = "toc"
	KindContent    Kind = "content"
	KindImage      Kind = "image"
	KindSubSection Kind = "subsection"
	KindReferences Kind = "references"
	KindEnd        Kind = "end"
)

// Strategy emits the slides of one kind.
type Strategy interface {
	Kind() Kind
	// Describe returns a one-line summary for plan listings.
	Describe() string
	// Emit appends slides to env's deck and returns the number added. seq
	// is the number of slides emitted before this call.
	Emit(ctx context.Context, env *Env, seq int) int
}

// ImageSet resolves the prefetched image of a section. [imaging.Batch]
// implements it.
type ImageSet interface {
	Wait(ctx context.Context, section int) (*imaging.Image, bool)
}

// Env is everything a strategy needs to emit slides. Only Deck and Catalog
// are required.
type Env struct {
	Deck       *ooxml.Deck
	Catalog    *catalog.Catalog
	Fitter     *fit.Fitter
	Compositor *imaging.Compositor
	Images     ImageSet
	Logger     *log.Logger
	// Rand picks between equivalent layouts. Nil uses the global source.
	Rand *rand.Rand
	// Now returns the date printed on the title slide. Nil uses time.Now.
	Now func() time.Time
}

// NewEnv returns an Env for deck with default collaborators.
func NewEnv(deck *ooxml.Deck, c *catalog.Catalog, logger *log.Logger) *Env {
	env := &Env{Deck: deck, Catalog: c, Logger: logger}
	env.init()
	return env
}

func (e *Env) init() {
	if e.Logger == nil {
		e.Logger = log.New(io.Discard)
	}
	if e.Fitter == nil {
		e.Fitter = fit.New(e.Catalog, e.Deck.Template().SlideW, e.Logger)
	}
	if e.Compositor == nil {
		e.Compositor = imaging.NewCompositor(e.Logger)
	}
	if e.Now == nil {
		e.Now = time.Now
	}
}

func (e *Env) intN(n int) int {
	if e.Rand != nil {
		return e.Rand.IntN(n)
	}
	return rand.IntN(n)
}

// addSlide appends a slide using the named layout. Unknown names and
// indices missing from the template fall back to layout 0.
func (e *Env) addSlide(name string, n int) *ooxml.Slide {
	e.init()
	tmpl := e.Deck.Template()

	idx, ok := e.Catalog.Resolve(name)
	if !ok {
		e.Logger.Warn("unknown layout, using layout 0", "layout", name)
	}
	l, ok := tmpl.Layout(idx)
	if !ok {
		e.Logger.Warn("layout missing from template, using layout 0", "layout", name, "index", idx, "available", len(tmpl.Layouts))
		if l, ok = tmpl.Layout(0); !ok {
			e.Logger.Error("template has no layouts", "layout", name)
			return nil
		}
	}
	s := e.Deck.AddSlide(l)
	e.Logger.Debug("created slide", "n", n, "layout", name, "index", l.Index, "shapes", s.ShapeIDs())
	return s
}

// bind writes text into a shape with the default options for role.
func (e *Env) bind(s *ooxml.Slide, id int, text string, role catalog.Role) bool {
	return e.Fitter.BindText(s, id, text, role, fit.Options{})
}

// title binds a slide title, truncated to the catalog limit when limit is
// set.
func (e *Env) title(s *ooxml.Slide, id int, text string, limit bool) bool {
	opts := fit.Options{}
	if limit {
		opts.MaxChars = e.Catalog.Limits.MaxTitleChars
	}
	return e.Fitter.BindText(s, id, text, catalog.RoleTitle, opts)
}

func (e *Env) finish(s *ooxml.Slide) {
	e.Fitter.RemoveEmptyPlaceholders(s)
}
