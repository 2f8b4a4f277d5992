package pipeline

import (
	"fmt"
	"strings"

	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/outline"
	"github.com/matzehuels/slidesmith/pkg/strategy"
	"github.com/matzehuels/slidesmith/pkg/textproc"
)

// Plan is the ordered list of strategies for one outline.
type Plan struct {
	Title string
	Steps []strategy.Strategy
	// ImageRefs holds, per section, the URL of the image to prefetch, or ""
	// when the section has no image slide.
	ImageRefs []string
}

// PlanOptions tune [NewPlan].
type PlanOptions struct {
	// TableOfContents inserts a contents slide after the title.
	TableOfContents bool
}

// Count returns how many steps of kind k the plan holds.
func (p *Plan) Count(k strategy.Kind) int {
	n := 0
	for _, s := range p.Steps {
		if s.Kind() == k {
			n++
		}
	}
	return n
}

// DeckTitle returns the explicit outline title, else the first heading of
// the first section, else the catalog's untitled label. Markup is stripped.
func DeckTitle(o *outline.Outline, c *catalog.Catalog) string {
	for _, t := range []string{o.Title, o.FirstHeading()} {
		if t = textproc.StripMarkup(t); t != "" {
			return t
		}
	}
	return c.Labels.UntitledDeck
}

// NewPlan decides the slides for o. The first section only supplies the
// deck title. The second becomes a three-item sub-section when it holds
// exactly three bullets and a content slide otherwise; the third becomes a
// sub-section synthesized from its paragraphs when it has at least two.
// Later sections contribute only their images.
func NewPlan(o *outline.Outline, c *catalog.Catalog, opts PlanOptions) *Plan {
	p := &Plan{
		Title:     DeckTitle(o, c),
		ImageRefs: make([]string, len(o.Sections)),
	}
	p.Steps = append(p.Steps, strategy.Title{Text: p.Title})

	if opts.TableOfContents {
		var items []string
		for _, sec := range o.Sections[min(1, len(o.Sections)):] {
			if t := outline.ParseContent(sec.Content).Title; t != "" {
				items = append(items, t)
			}
		}
		p.Steps = append(p.Steps, strategy.TableOfContents{Items: items})
	}

	for i, sec := range o.Sections {
		if i == 0 {
			continue
		}
		content := outline.ParseContent(sec.Content)

		switch i {
		case 1:
			p.Steps = append(p.Steps, sectionTwo(content))
		case 2:
			p.Steps = append(p.Steps, sectionThree(sec, content, c))
		}

		if img := sec.RootImage; img.Slideworthy() {
			p.ImageRefs[i] = img.URL
			p.Steps = append(p.Steps, strategy.Image{
				Section:     i,
				URL:         img.URL,
				Title:       content.Title,
				Description: img.Alt,
			})
		}
	}

	if len(o.References) > 0 {
		p.Steps = append(p.Steps, strategy.References{Entries: o.References})
	}
	p.Steps = append(p.Steps, strategy.End{})
	return p
}

// sectionTwo turns exactly three bullets into a sub-section, folding the
// section's paragraphs into the last detail. Any other shape becomes a
// content slide of the paragraphs followed by the formatted bullets.
func sectionTwo(content outline.Content) strategy.Strategy {
	if len(content.Bullets) == 3 {
		items := append([]outline.Bullet(nil), content.Bullets...)
		if content.Body != "" {
			items[2].Detail += "\n\n" + content.Body
		}
		return strategy.SubSection{Title: content.Title, Items: items}
	}

	body := content.Body
	if len(content.Bullets) > 0 {
		bullets := FormatBullets(content.Bullets)
		if body != "" {
			body += "\n\n" + bullets
		} else {
			body = bullets
		}
	}
	return strategy.Content{Title: content.Title, Body: body}
}

// sectionThree synthesizes three labelled items from the section's raw
// paragraphs. With exactly two paragraphs the second is split at its middle
// sentence; when it cannot be split it fills the second item under the
// fallback label and the third item stays empty. Paragraphs past the second
// are joined into the third item. Fewer than two paragraphs give a content
// slide.
func sectionThree(sec outline.Section, content outline.Content, c *catalog.Catalog) strategy.Strategy {
	paras := outline.Paragraphs(sec.Content)
	if len(paras) < 2 {
		return strategy.Content{Title: content.Title, Body: content.Body}
	}

	label := func(i int) string {
		if i < len(c.Labels.SubItems) {
			return c.Labels.SubItems[i]
		}
		return ""
	}

	var items []outline.Bullet
	switch {
	case len(paras) > 2:
		items = []outline.Bullet{
			{Summary: label(0), Detail: paras[0]},
			{Summary: label(1), Detail: paras[1]},
			{Summary: label(2), Detail: strings.Join(paras[2:], "\n")},
		}
	default:
		first, second := textproc.SplitAtMidpoint(paras[1])
		if second != "" {
			items = []outline.Bullet{
				{Summary: label(0), Detail: paras[0]},
				{Summary: label(1), Detail: first},
				{Summary: label(2), Detail: second},
			}
		} else {
			items = []outline.Bullet{
				{Summary: label(0), Detail: paras[0]},
				{Summary: c.Labels.SubItemFallback, Detail: paras[1]},
				{},
			}
		}
	}
	return strategy.SubSection{Title: content.Title, Items: items}
}

// FormatBullets renders bullets as numbered text: "n. summary" then an
// indented detail line, with a blank line between items.
func FormatBullets(bullets []outline.Bullet) string {
	var lines []string
	for i, b := range bullets {
		if b.Summary != "" {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, b.Summary))
		}
		if b.Detail != "" {
			lines = append(lines, "   "+b.Detail)
		}
		lines = append(lines, "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
