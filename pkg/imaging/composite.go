package imaging

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidesmith/pkg/ooxml"
)

// ScaleToFit returns the largest rectangle with the aspect ratio w:h that
// fits inside box, centered in it. The result matches box exactly along the
// constraining axis. A degenerate image or box yields box unchanged.
func ScaleToFit(box ooxml.Rect, w, h int) ooxml.Rect {
	if w <= 0 || h <= 0 || box.Empty() {
		return box
	}
	iw, ih := int64(w), int64(h)

	var pw, ph int64
	if box.W*ih <= box.H*iw {
		pw, ph = box.W, box.W*ih/iw
	} else {
		pw, ph = box.H*iw/ih, box.H
	}
	return ooxml.Rect{
		X: box.X + (box.W-pw)/2,
		Y: box.Y + (box.H-ph)/2,
		W: pw,
		H: ph,
	}
}

// Compositor places images into slide placeholders.
type Compositor struct {
	logger *log.Logger
}

// NewCompositor returns a Compositor. A nil logger discards output.
func NewCompositor(logger *log.Logger) *Compositor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Compositor{logger: logger}
}

// Composite scales img into the placeholder placeholderID of slide and
// swaps the placeholder for the picture. It reports false and leaves the
// slide untouched when the placeholder does not exist.
func (c *Compositor) Composite(slide *ooxml.Slide, img *Image, placeholderID int, descr string) bool {
	sh, ok := slide.Shape(placeholderID)
	if !ok {
		c.logger.Warn("image placeholder not found", "shape", placeholderID, "layout", slide.Layout.Index, "available", slide.ShapeIDs())
		return false
	}

	geom := ScaleToFit(sh.Geom, img.Width, img.Height)
	pic, ok := slide.ReplaceWithPicture(placeholderID, ooxml.Picture{
		Geom:  geom,
		Data:  img.Data,
		Ext:   img.Ext,
		Descr: descr,
	})
	if !ok {
		return false
	}
	c.logger.Debug("inserted picture", "id", pic.ID, "src", [2]int{img.Width, img.Height},
		"width_in", float64(geom.W)/914400, "height_in", float64(geom.H)/914400)
	return true
}
