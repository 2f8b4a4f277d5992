package strategy

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/fit"
	"github.com/matzehuels/slidesmith/pkg/textproc"
)

// =============================================================================
// Title
// =============================================================================

// Title is the opening slide: the deck title and the current date.
type Title struct {
	Text string
}

func (Title) Kind() Kind { return KindTitle }

func (t Title) Describe() string { return fmt.Sprintf("Title %q", t.Text) }

func (t Title) Emit(ctx context.Context, env *Env, seq int) int {
	s := env.addSlide(catalog.TitlePage, seq+1)
	if s == nil {
		return 0
	}
	c := env.Catalog
	env.Fitter.BindText(s, c.Shapes.TitlePage.Title, t.Text, catalog.RoleTitle, fit.Options{TitlePage: true})
	env.bind(s, c.Shapes.TitlePage.Date, env.Now().Format(c.Labels.DateFormat), catalog.RoleSmall)
	env.finish(s)
	return 1
}

// =============================================================================
// Table of contents
// =============================================================================

// TableOfContents lists section titles on one slide.
type TableOfContents struct {
	Items []string
}

func (TableOfContents) Kind() Kind { return KindTOC }

func (t TableOfContents) Describe() string {
	return fmt.Sprintf("Table of contents (%d items)", len(t.Items))
}

// Layout returns the layout for the item count. Four and five items pick
// one of two equivalent variants at random.
func (t TableOfContents) Layout(env *Env) string {
	switch len(t.Items) {
	case 3:
		return catalog.TOC3Items
	case 4:
		return []string{catalog.TOC4ItemsA, catalog.TOC4ItemsB}[env.intN(2)]
	case 5:
		return []string{catalog.TOC5ItemsA, catalog.TOC5ItemsB}[env.intN(2)]
	}
	return catalog.TOCGeneric
}

func (t TableOfContents) Emit(ctx context.Context, env *Env, seq int) int {
	if len(t.Items) == 0 {
		env.Logger.Debug("no table of contents items, skipping")
		return 0
	}
	env.init()
	s := env.addSlide(t.Layout(env), seq+1)
	if s == nil {
		return 0
	}
	c := env.Catalog
	env.title(s, c.Shapes.TOC.Title, c.Labels.TableOfContents, false)

	ids := c.Shapes.TOC.Items
	for i, item := range t.Items {
		if i >= c.Limits.MaxTOCItems || i >= len(ids) {
			break
		}
		env.Fitter.BindText(s, ids[i], item, catalog.RoleContent, fit.Options{MaxChars: c.Limits.MaxTitleChars})
	}
	env.finish(s)
	return 1
}

// =============================================================================
// Content
// =============================================================================

// Content is a titled body of text, split over as many slides as needed.
type Content struct {
	Title string
	Body  string
}

func (Content) Kind() Kind { return KindContent }

func (c Content) Describe() string {
	return fmt.Sprintf("Content %q (%d chars)", c.Title, utf8.RuneCountInString(c.Body))
}

// Chunks returns the body split into slide-sized pieces.
func (c Content) Chunks(cat *catalog.Catalog) []string {
	if strings.TrimSpace(c.Body) == "" {
		return nil
	}
	return textproc.Chunk(c.Body, cat.Limits.MaxChunkChars)
}

func (c Content) Emit(ctx context.Context, env *Env, seq int) int {
	chunks := c.Chunks(env.Catalog)
	if len(chunks) == 0 {
		env.Logger.Debug("empty content, skipping", "title", c.Title)
		return 0
	}

	cat := env.Catalog
	n := 0
	for i, chunk := range chunks {
		title := c.Title
		if i > 0 {
			title = fmt.Sprintf(cat.Labels.Continued, c.Title, i+1)
		}

		layout, body := catalog.ContentTitleAndText, cat.Shapes.Content.Body
		if utf8.RuneCountInString(chunk) < cat.Limits.CompactChunkChars {
			layout, body = catalog.TextOnlySmallTitle, cat.Shapes.Content.CompactBody
		}

		s := env.addSlide(layout, seq+n+1)
		if s == nil {
			continue
		}
		env.title(s, cat.Shapes.Content.Title, title, true)
		env.bind(s, body, chunk, catalog.RoleContent)
		env.finish(s)
		n++
	}
	return n
}

// =============================================================================
// End
// =============================================================================

// End is the closing slide. It carries no content.
type End struct{}

func (End) Kind() Kind { return KindEnd }

func (End) Describe() string { return "End" }

func (End) Emit(ctx context.Context, env *Env, seq int) int {
	if env.addSlide(catalog.EndPage, seq+1) == nil {
		return 0
	}
	return 1
}
