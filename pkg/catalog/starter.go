package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/slidesmith/pkg/ooxml"
	"github.com/matzehuels/slidesmith/pkg/textproc"
)

// backgroundShapeID is the id given to the title background shape in
// generated layouts. It lies above every id the default catalog binds.
const backgroundShapeID = 20

// Starter template geometry, in inches, for a 13.333 x 7.5 slide.
const (
	slideWidthIn = 13.333
	marginIn     = 0.8
	gutterIn     = 0.3
	titleTopIn   = 0.35
	titleHIn     = 0.8
	bodyTopIn    = 1.5
	bodyBottomIn = 6.9
)

// StarterTemplate describes a template whose layouts carry every shape c
// binds, at the indices c names. Layout indices no catalog entry uses are
// generated as empty layouts so that numbering stays stable.
//
// Feed the result to [ooxml.BuildTemplate] to obtain a .pptx package that
// works with c out of the box. Layouts shared by several slide kinds must
// agree on the role of every id they bind; a catalog that binds one id as
// both a title and a text box (or a number and a picture) in the same
// layout is rejected.
func StarterTemplate(c *Catalog) (ooxml.TemplateSpec, error) {
	last := -1
	for _, i := range c.Layouts {
		last = max(last, i)
	}
	builders := make([]*layoutBuilder, last+1)
	for i := range builders {
		builders[i] = &layoutBuilder{}
	}

	for _, name := range c.LayoutNames() {
		idx := c.Layouts[name]
		b := builders[idx]
		b.names = append(b.names, name)
		c.starterShapes(name, idx, b)
	}
	for i, b := range builders {
		if b.conflict != "" {
			return ooxml.TemplateSpec{}, fmt.Errorf("layout %d (%s): %s", i, strings.Join(b.names, ", "), b.conflict)
		}
	}

	spec := ooxml.TemplateSpec{SlideW: ooxml.Widescreen16x9W, SlideH: ooxml.Widescreen16x9H}
	for i, b := range builders {
		name := fmt.Sprintf("Layout %d", i)
		if len(b.names) > 0 {
			name = strings.Join(b.names, " / ")
		}
		spec.Layouts = append(spec.Layouts, ooxml.LayoutSpec{Name: name, Shapes: b.shapes})
	}
	return spec, nil
}

// BuildStarterTemplate generates the .pptx bytes of [StarterTemplate].
func BuildStarterTemplate(c *Catalog) ([]byte, error) {
	spec, err := StarterTemplate(c)
	if err != nil {
		return nil, err
	}
	return ooxml.BuildTemplate(spec)
}

// layoutBuilder accumulates the shapes of one generated layout. The first
// shape added for an id wins, which lets layouts shared by several slide
// kinds keep a single placeholder per id. An id bound again under another
// role is recorded in conflict.
type layoutBuilder struct {
	names    []string
	shapes   []ooxml.ShapeSpec
	roles    map[int]string
	conflict string
}

func (b *layoutBuilder) has(id int) bool {
	return slices.ContainsFunc(b.shapes, func(s ooxml.ShapeSpec) bool { return s.ID == id })
}

func (b *layoutBuilder) add(role string, s ooxml.ShapeSpec) {
	if s.ID <= 1 {
		return
	}
	if b.roles == nil {
		b.roles = make(map[int]string)
	}
	if prev, ok := b.roles[s.ID]; ok {
		if prev != role && b.conflict == "" {
			b.conflict = fmt.Sprintf("shape %d bound as both %s and %s", s.ID, prev, role)
		}
		return
	}
	b.roles[s.ID] = role
	b.shapes = append(b.shapes, s)
}

func (b *layoutBuilder) text(id int, prefix string, r ooxml.Rect, prompt string) {
	b.add(prefix, ooxml.ShapeSpec{ID: id, Name: fmt.Sprintf("%s %d", prefix, id), Kind: ooxml.KindText, Geom: r, Prompt: prompt})
}

func (b *layoutBuilder) picture(id int, r ooxml.Rect) {
	b.add("Picture", ooxml.ShapeSpec{ID: id, Name: fmt.Sprintf("Picture Placeholder %d", id), Kind: ooxml.KindPicture, Geom: r})
}

// background prepends the title background so it renders behind the title.
func (b *layoutBuilder) background(name string) {
	if b.has(backgroundShapeID) {
		return
	}
	r := rect(marginIn-0.3, titleTopIn-0.1, slideWidthIn-2*marginIn+0.6, titleHIn+0.2)
	bg := ooxml.ShapeSpec{ID: backgroundShapeID, Name: name, Kind: ooxml.KindText, Geom: r, Fill: "lt2"}
	b.shapes = append([]ooxml.ShapeSpec{bg}, b.shapes...)
}

func rect(x, y, w, h float64) ooxml.Rect {
	return ooxml.Rect{X: textproc.Inches(x), Y: textproc.Inches(y), W: textproc.Inches(w), H: textproc.Inches(h)}
}

func titleRect() ooxml.Rect {
	return rect(marginIn, titleTopIn, slideWidthIn-2*marginIn, titleHIn)
}

func bodyRect() ooxml.Rect {
	return rect(marginIn, bodyTopIn, slideWidthIn-2*marginIn, bodyBottomIn-bodyTopIn)
}

// columns splits the body area into n side-by-side boxes.
func columns(n int) []ooxml.Rect {
	w := (slideWidthIn - 2*marginIn - float64(n-1)*gutterIn) / float64(n)
	out := make([]ooxml.Rect, n)
	for i := range out {
		out[i] = rect(marginIn+float64(i)*(w+gutterIn), bodyTopIn, w, bodyBottomIn-bodyTopIn)
	}
	return out
}

// rows splits the body area into n stacked rows, each a narrow number box
// followed by a wide text box.
func rows(n int) (nums, texts []ooxml.Rect) {
	h := (bodyBottomIn - bodyTopIn) / float64(n)
	for i := range n {
		y := bodyTopIn + float64(i)*h
		nums = append(nums, rect(marginIn, y, 0.6, h-0.1))
		texts = append(texts, rect(marginIn+0.7, y, slideWidthIn-2*marginIn-0.7, h-0.1))
	}
	return nums, texts
}

// grid lays n boxes out in two columns.
func grid(n int) []ooxml.Rect {
	perCol := (n + 1) / 2
	colW := (slideWidthIn - 2*marginIn - gutterIn) / 2
	h := (bodyBottomIn - bodyTopIn) / float64(max(perCol, 1))
	out := make([]ooxml.Rect, n)
	for i := range out {
		col, row := i/perCol, i%perCol
		out[i] = rect(marginIn+float64(col)*(colW+gutterIn), bodyTopIn+float64(row)*h, colW, h-0.1)
	}
	return out
}

func (c *Catalog) starterShapes(name string, idx int, b *layoutBuilder) {
	s := c.Shapes
	bg := c.BackgroundShape(idx)

	switch name {
	case TitlePage:
		b.text(s.TitlePage.Title, "Title", rect(marginIn, 2.4, slideWidthIn-2*marginIn, 1.6), "Presentation title")
		b.text(s.TitlePage.Date, "Date", rect(marginIn, 4.3, slideWidthIn-2*marginIn, 0.5), "Date")

	case ContentTitleAndText, InfoTitleAndText:
		b.background(bg)
		b.text(s.Content.Title, "Title", titleRect(), "Title")
		b.text(s.Content.Body, "Text", bodyRect(), "Text")

	case TextOnlySmallTitle:
		b.background(bg)
		b.text(s.Content.Title, "Title", titleRect(), "Title")
		b.text(s.SubSection.Title, "Title", titleRect(), "Title")
		b.text(s.Content.CompactBody, "Text", rect(marginIn+1, 2.5, slideWidthIn-2*marginIn-2, 3), "Text")
		if ids, ok := c.SubSectionItems(1); ok {
			for _, id := range ids {
				b.text(id, "Text", bodyRect(), "Text")
			}
		}

	case TOCGeneric, TOC3Items, TOC4ItemsA, TOC4ItemsB, TOC5ItemsA, TOC5ItemsB:
		b.background(bg)
		b.text(s.TOC.Title, "Title", titleRect(), "Contents")
		boxes := grid(len(s.TOC.Items))
		for i, id := range s.TOC.Items {
			b.text(id, "Text", boxes[i], "Entry")
		}

	case ImageWithDescriptionW:
		b.background(bg)
		b.text(s.Image.Title, "Title", titleRect(), "Title")
		b.picture(s.Image.Placeholder, rect(marginIn, bodyTopIn, 7.8, bodyBottomIn-bodyTopIn))
		b.text(s.Image.Description, "Text", rect(marginIn+8.1, bodyTopIn, slideWidthIn-2*marginIn-8.1, bodyBottomIn-bodyTopIn), "Description")

	case ImageWithDescriptionT:
		b.background(bg)
		b.text(s.Image.Title, "Title", titleRect(), "Title")
		b.picture(s.Image.Placeholder, rect(marginIn, bodyTopIn, 4.6, bodyBottomIn-bodyTopIn))
		b.text(s.Image.Description, "Text", rect(marginIn+4.9, bodyTopIn, slideWidthIn-2*marginIn-4.9, bodyBottomIn-bodyTopIn), "Description")

	case ImageOnly:
		b.background(bg)
		b.text(s.Image.Title, "Title", titleRect(), "Title")
		b.picture(s.Image.Placeholder, bodyRect())

	case ReferencesPage:
		b.background(bg)
		b.text(s.References.Title, "Title", titleRect(), "References")
		b.pairs(s.References.Entries)

	case Subchapter5Items:
		b.background(bg)
		b.text(s.SubSection.Title, "Title", titleRect(), "Title")
		b.pairs(s.SubSection.Numbered)

	case Subchapter2Items, Subchapter3Items, Subchapter4Items:
		b.background(bg)
		b.text(s.SubSection.Title, "Title", titleRect(), "Title")
		n := map[string]int{Subchapter2Items: 2, Subchapter3Items: 3, Subchapter4Items: 4}[name]
		if ids, ok := c.SubSectionItems(n); ok {
			boxes := columns(len(ids))
			for i, id := range ids {
				b.text(id, "Text", boxes[i], "Item")
			}
		}

	case EndPage:
		// The closing slide carries only master art.
	}
}

func (b *layoutBuilder) pairs(ps []Pair) {
	nums, texts := rows(len(ps))
	for i, p := range ps {
		b.text(p.Num, "Number", nums[i], "#")
		b.text(p.Text, "Text", texts[i], "Entry")
	}
}
