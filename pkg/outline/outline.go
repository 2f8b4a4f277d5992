package outline

import (
	"strings"

	"github.com/matzehuels/slidesmith/pkg/textproc"
)

// Block types understood by [ParseContent]. Other types are carried through
// decoding but ignored when extracting slide content.
const (
	TypeHeading    = "h1"
	TypeSubheading = "h3"
	TypeParagraph  = "p"
	TypeBullets    = "bullets"
	TypeBullet     = "bullet"
)

// Block is one node of a section's content tree. Leaf nodes carry Text;
// structural nodes carry Children.
type Block struct {
	Type     string  `json:"type,omitempty" yaml:"type,omitempty"`
	Text     string  `json:"text,omitempty" yaml:"text,omitempty"`
	Children []Block `json:"children,omitempty" yaml:"children,omitempty"`
}

// PlainText returns the concatenated leaf text of b and its descendants,
// in document order. Markup is left in place.
func (b Block) PlainText() string {
	if len(b.Children) == 0 {
		return b.Text
	}
	var sb strings.Builder
	sb.WriteString(b.Text)
	for _, c := range b.Children {
		sb.WriteString(c.PlainText())
	}
	return sb.String()
}

// ImageRef points at a section's root image.
type ImageRef struct {
	URL   string `json:"url" yaml:"url"`
	Alt   string `json:"alt,omitempty" yaml:"alt,omitempty"`
	Query string `json:"query,omitempty" yaml:"query,omitempty"`
	// Background marks decorative images that never get a slide of their own.
	Background bool `json:"background,omitempty" yaml:"background,omitempty"`
}

// Slideworthy reports whether the image should produce an image slide.
func (r *ImageRef) Slideworthy() bool {
	return r != nil && r.URL != "" && !r.Background
}

// Section is one entry of an outline. Its position in [Outline.Sections]
// decides how it is rendered.
type Section struct {
	ID         string    `json:"id,omitempty" yaml:"id,omitempty"`
	Content    []Block   `json:"content" yaml:"content"`
	RootImage  *ImageRef `json:"rootImage,omitempty" yaml:"rootImage,omitempty"`
	LayoutType string    `json:"layoutType,omitempty" yaml:"layoutType,omitempty"`
	Alignment  string    `json:"alignment,omitempty" yaml:"alignment,omitempty"`
}

// Outline is the decoded input of a deck.
type Outline struct {
	Title      string    `json:"title,omitempty" yaml:"title,omitempty"`
	References []string  `json:"references,omitempty" yaml:"references,omitempty"`
	Sections   []Section `json:"sections" yaml:"sections"`
}

// FirstHeading returns the raw text of the first h1 block of the first
// section, or "" when there is none.
func (o *Outline) FirstHeading() string {
	if len(o.Sections) == 0 {
		return ""
	}
	for _, b := range o.Sections[0].Content {
		if b.Type == TypeHeading {
			return b.PlainText()
		}
	}
	return ""
}

// Bullet is a summary/detail pair extracted from a bullet item.
type Bullet struct {
	Summary string `json:"summary"`
	Detail  string `json:"detail"`
}

// Content is the flat slide content extracted from a section.
type Content struct {
	Title   string
	Body    string
	Bullets []Bullet
}

// ParseContent extracts slide content from a section's blocks.
//
// The first h1 becomes the title; later ones are ignored. Top-level
// paragraphs that are non-empty after markup stripping are joined with
// newlines into Body. Each bullet item of a bullet list yields a Bullet whose
// Summary comes from its h3 child and Detail from its p child; a missing
// child leaves the field empty. All text is stripped of markup.
func ParseContent(blocks []Block) Content {
	var (
		c     Content
		paras []string
	)
	for _, b := range blocks {
		switch b.Type {
		case TypeHeading:
			if c.Title == "" {
				c.Title = textproc.StripMarkup(b.PlainText())
			}
		case TypeParagraph:
			if t := textproc.StripMarkup(b.PlainText()); t != "" {
				paras = append(paras, t)
			}
		case TypeBullets:
			for _, item := range b.Children {
				if item.Type == TypeBullet {
					c.Bullets = append(c.Bullets, parseBullet(item))
				}
			}
		}
	}
	c.Body = strings.Join(paras, "\n")
	return c
}

func parseBullet(item Block) Bullet {
	var summary, detail string
	for _, ch := range item.Children {
		switch ch.Type {
		case TypeSubheading:
			summary = ch.PlainText()
		case TypeParagraph:
			detail = ch.PlainText()
		}
	}
	return Bullet{
		Summary: textproc.StripMarkup(summary),
		Detail:  textproc.StripMarkup(detail),
	}
}

// Paragraphs returns the raw text of the non-empty top-level paragraphs,
// markup included.
func Paragraphs(blocks []Block) []string {
	var out []string
	for _, b := range blocks {
		if b.Type != TypeParagraph {
			continue
		}
		if t := b.PlainText(); t != "" {
			out = append(out, t)
		}
	}
	return out
}
