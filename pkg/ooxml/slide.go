package ooxml

import (
	"sort"
	"strconv"
	"strings"
)

// Align is horizontal paragraph alignment.
type Align int

const (
	AlignInherit Align = iota
	AlignLeft
	AlignCenter
)

// Anchor is vertical text anchoring inside a shape.
type Anchor int

const (
	AnchorInherit Anchor = iota
	AnchorTop
	AnchorMiddle
)

// AutoFit selects how text and shape size adapt to each other.
type AutoFit int

const (
	AutoFitNone AutoFit = iota
	// AutoFitShape grows or shrinks the shape around its text.
	AutoFitShape
	// AutoFitText shrinks the text to fit inside the shape.
	AutoFitText
)

// Insets are the inner margins of a text frame, in EMU.
type Insets struct {
	Left, Top, Right, Bottom int64
}

// TextFrame is the text content and formatting of a shape.
type TextFrame struct {
	Text     string
	FontSize int // points; zero inherits from the layout
	Align    Align
	Anchor   Anchor
	Wrap     bool
	AutoFit  AutoFit
	Insets   Insets
}

// Paragraphs splits the frame text into paragraphs on newlines.
func (f *TextFrame) Paragraphs() []string {
	return strings.Split(f.Text, "\n")
}

// SlideShape is a placeholder cloned from the slide's layout.
type SlideShape struct {
	Shape

	// Text is nil until text is bound into the shape.
	Text *TextFrame
	// Keep marks a shape that must survive empty-placeholder removal.
	Keep bool

	moved bool
}

// SetGeometry moves or resizes the shape. Only shapes whose geometry was
// set carry an explicit transform in the saved slide; the others inherit
// their position from the layout.
func (s *SlideShape) SetGeometry(r Rect) {
	s.Geom = r
	s.moved = true
}

// Moved reports whether the shape's geometry differs from the layout's.
func (s *SlideShape) Moved() bool { return s.moved }

// Blank reports whether the shape carries no visible text.
func (s *SlideShape) Blank() bool {
	return s.Text == nil || strings.TrimSpace(s.Text.Text) == ""
}

// Picture is an image placed on a slide.
type Picture struct {
	ID    int
	Name  string
	Geom  Rect
	Data  []byte
	Ext   string // png, jpeg or gif
	Descr string
}

// Slide is a slide under construction.
type Slide struct {
	Layout   *Layout
	Shapes   []*SlideShape
	Pictures []*Picture

	nextID int
}

func newSlide(l *Layout) *Slide {
	s := &Slide{Layout: l, nextID: 2}
	for _, sh := range l.Shapes {
		s.Shapes = append(s.Shapes, &SlideShape{Shape: sh})
		if sh.ID >= s.nextID {
			s.nextID = sh.ID + 1
		}
	}
	return s
}

// Shape returns the slide shape with the given id.
func (s *Slide) Shape(id int) (*SlideShape, bool) {
	for _, sh := range s.Shapes {
		if sh.ID == id {
			return sh, true
		}
	}
	return nil, false
}

// ShapeByName returns the first slide shape with the given name.
func (s *Slide) ShapeByName(name string) (*SlideShape, bool) {
	for _, sh := range s.Shapes {
		if sh.Name == name {
			return sh, true
		}
	}
	return nil, false
}

// ShapeIDs returns the ids of the shapes currently on the slide.
func (s *Slide) ShapeIDs() []int {
	ids := make([]int, 0, len(s.Shapes))
	for _, sh := range s.Shapes {
		ids = append(ids, sh.ID)
	}
	sort.Ints(ids)
	return ids
}

// TextShapeIDs returns the ids of the text shapes currently on the slide.
func (s *Slide) TextShapeIDs() []int {
	var ids []int
	for _, sh := range s.Shapes {
		if sh.Kind == KindText {
			ids = append(ids, sh.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// Remove deletes the shape with the given id.
func (s *Slide) Remove(id int) bool {
	for i, sh := range s.Shapes {
		if sh.ID == id {
			s.Shapes = append(s.Shapes[:i], s.Shapes[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveIf deletes every shape for which fn returns true and reports how
// many were removed.
func (s *Slide) RemoveIf(fn func(*SlideShape) bool) int {
	kept := s.Shapes[:0]
	for _, sh := range s.Shapes {
		if !fn(sh) {
			kept = append(kept, sh)
		}
	}
	n := len(s.Shapes) - len(kept)
	for i := len(kept); i < len(s.Shapes); i++ {
		s.Shapes[i] = nil
	}
	s.Shapes = kept
	return n
}

// ReplaceWithPicture places pic on the slide and removes the shape with the
// given id in one step. It returns false, leaving the slide untouched, when
// no such shape exists.
func (s *Slide) ReplaceWithPicture(id int, pic Picture) (*Picture, bool) {
	if _, ok := s.Shape(id); !ok {
		return nil, false
	}
	p := pic
	p.ID = s.nextID
	s.nextID++
	if p.Name == "" {
		p.Name = "Picture " + strconv.Itoa(p.ID)
	}
	s.Pictures = append(s.Pictures, &p)
	s.Remove(id)
	return &p, true
}
