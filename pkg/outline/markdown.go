package outline

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// referenceHeadings are heading texts that start the reference list instead
// of a new section.
var referenceHeadings = map[string]bool{
	"references":   true,
	"sources":      true,
	"bibliography": true,
}

// FromMarkdown converts a Markdown document into an outline.
//
// Level 1 and 2 headings start a new section and become its h1 block.
// Paragraphs become p blocks. List items become bullets; a leading bold
// span is the bullet's summary and the rest of the item its detail. The
// first image of a section becomes its root image. A heading named
// "References", "Sources" or "Bibliography" collects the items of the lists
// and paragraphs that follow it as references.
//
//	# Quarterly Review
//
//	## Risks
//
//	- **Supply**: two vendors remain single-sourced.
//	- **Hiring**: senior roles take 90 days to fill.
//
//	![Revenue by region](https://example.com/revenue.png)
//
//	## References
//
//	- Doe, J. (2024). Market outlook.
func FromMarkdown(src []byte) *Outline {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	c := &mdConverter{src: src, out: &Outline{}}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		c.block(n)
	}
	c.flush()
	if c.out.Sections == nil {
		c.out.Sections = []Section{}
	}
	return c.out
}

type mdConverter struct {
	src        []byte
	out        *Outline
	cur        *Section
	references bool
}

func (c *mdConverter) section() *Section {
	if c.cur == nil {
		c.cur = &Section{ID: fmt.Sprintf("s%d", len(c.out.Sections))}
	}
	return c.cur
}

func (c *mdConverter) flush() {
	if c.cur != nil {
		c.out.Sections = append(c.out.Sections, *c.cur)
		c.cur = nil
	}
}

func (c *mdConverter) block(n ast.Node) {
	switch n := n.(type) {
	case *ast.Heading:
		title := strings.TrimSpace(c.inline(n))
		if n.Level <= 2 {
			if referenceHeadings[strings.ToLower(title)] {
				c.references = true
				return
			}
			c.references = false
			if c.cur != nil && (len(c.cur.Content) > 0 || c.cur.RootImage != nil) {
				c.flush()
			}
			s := c.section()
			s.Content = append(s.Content, leaf(TypeHeading, title))
			return
		}
		if c.references {
			return
		}
		s := c.section()
		s.Content = append(s.Content, leaf(TypeSubheading, title))

	case *ast.Paragraph:
		t := strings.TrimSpace(c.inline(n))
		if c.references {
			if t != "" {
				c.out.References = append(c.out.References, t)
			}
			return
		}
		s := c.section()
		c.captureImage(n, s)
		if t != "" {
			s.Content = append(s.Content, leaf(TypeParagraph, t))
		}

	case *ast.List:
		if c.references {
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				if t := strings.TrimSpace(c.itemText(item)); t != "" {
					c.out.References = append(c.out.References, t)
				}
			}
			return
		}
		s := c.section()
		list := Block{Type: TypeBullets}
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			list.Children = append(list.Children, c.bullet(item, s))
		}
		s.Content = append(s.Content, list)

	case *ast.Blockquote:
		for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
			c.block(ch)
		}
	}
}

// bullet converts one list item. A leading bold span becomes the summary;
// separators such as ":" or " - " between it and the detail are dropped.
func (c *mdConverter) bullet(item ast.Node, s *Section) Block {
	var summary string
	var detail strings.Builder
	for ch := item.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch ch.Kind() {
		case ast.KindTextBlock, ast.KindParagraph:
			c.captureImage(ch, s)
			first := ch.FirstChild()
			if em, ok := first.(*ast.Emphasis); ok && em.Level == 2 && summary == "" && detail.Len() == 0 {
				summary = strings.TrimSpace(c.inline(em))
				var rest strings.Builder
				for sib := em.NextSibling(); sib != nil; sib = sib.NextSibling() {
					c.writeInline(&rest, sib)
				}
				appendLine(&detail, strings.TrimLeft(rest.String(), " :-–—"))
				continue
			}
			appendLine(&detail, c.inline(ch))
		default:
			appendLine(&detail, c.itemText(ch))
		}
	}
	b := Block{Type: TypeBullet}
	if summary != "" {
		b.Children = append(b.Children, leaf(TypeSubheading, summary))
	}
	if d := strings.TrimSpace(detail.String()); d != "" {
		b.Children = append(b.Children, leaf(TypeParagraph, d))
	}
	return b
}

func appendLine(sb *strings.Builder, s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	sb.WriteString(s)
}

// captureImage records the first image found in n as the section's root
// image.
func (c *mdConverter) captureImage(n ast.Node, s *Section) {
	if s.RootImage != nil {
		return
	}
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if img, ok := node.(*ast.Image); ok {
			s.RootImage = &ImageRef{
				URL: string(img.Destination),
				Alt: strings.TrimSpace(c.inline(img)),
			}
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
}

// itemText flattens every inline descendant of n.
func (c *mdConverter) itemText(n ast.Node) string {
	var sb strings.Builder
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if ch.Type() == ast.TypeBlock {
			appendLine(&sb, c.itemText(ch))
			continue
		}
		c.writeInline(&sb, ch)
	}
	return sb.String()
}

func (c *mdConverter) inline(n ast.Node) string {
	var sb strings.Builder
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		c.writeInline(&sb, ch)
	}
	return sb.String()
}

func (c *mdConverter) writeInline(sb *strings.Builder, n ast.Node) {
	switch n := n.(type) {
	case *ast.Text:
		sb.Write(n.Segment.Value(c.src))
		switch {
		case n.HardLineBreak():
			sb.WriteByte('\n')
		case n.SoftLineBreak():
			sb.WriteByte(' ')
		}
	case *ast.String:
		sb.Write(n.Value)
	case *ast.AutoLink:
		sb.Write(n.Label(c.src))
	case *ast.Image, *ast.RawHTML:
	default:
		for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
			c.writeInline(sb, ch)
		}
	}
}

func leaf(typ, s string) Block {
	return Block{Type: typ, Children: []Block{{Text: s}}}
}
