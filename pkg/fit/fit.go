// Package fit binds text into slide shapes.
//
// A [Fitter] writes cleaned, optionally truncated text into a placeholder
// and applies the formatting policy of the text's role: slide titles get a
// fixed size on a single line with a resized background shape behind them,
// title-page titles wrap and shrink into their box, and everything else
// wraps with a font size estimated from the text length.
//
// Binding is fail-soft. A shape id that is not on the slide is logged and
// reported through the boolean result; it never aborts a deck.
package fit

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/ooxml"
	"github.com/matzehuels/slidesmith/pkg/textproc"
)

// Options tune a single [Fitter.BindText] call.
type Options struct {
	// MaxChars truncates the cleaned text when positive.
	MaxChars int
	// TitlePage selects the title-page policy for title text.
	TitlePage bool
}

// Fitter binds text using the limits, fonts and background settings of a
// catalog.
type Fitter struct {
	catalog *catalog.Catalog
	slideW  int64
	logger  *log.Logger
}

// New returns a Fitter for slides slideW EMU wide. A nil logger discards
// output.
func New(c *catalog.Catalog, slideW int64, logger *log.Logger) *Fitter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Fitter{catalog: c, slideW: slideW, logger: logger}
}

// BindText writes text into the text shape shapeID of slide. It reports
// false when the slide has no such text shape.
func (f *Fitter) BindText(slide *ooxml.Slide, shapeID int, text string, role catalog.Role, opts Options) bool {
	sh, ok := slide.Shape(shapeID)
	if !ok || sh.Kind != ooxml.KindText {
		f.logger.Warn("shape not found", "shape", shapeID, "layout", slide.Layout.Index, "available", slide.TextShapeIDs())
		return false
	}

	clean := textproc.StripMarkup(text)
	if opts.MaxChars > 0 {
		if n := len([]rune(clean)); n > opts.MaxChars {
			clean = textproc.Truncate(clean, opts.MaxChars)
			f.logger.Debug("truncated text", "shape", shapeID, "from", n, "to", opts.MaxChars)
		}
	}

	m := f.catalog.Margins
	frame := &ooxml.TextFrame{
		Text: clean,
		Insets: ooxml.Insets{
			Left:   textproc.Inches(m.Horizontal),
			Right:  textproc.Inches(m.Horizontal),
			Top:    textproc.Inches(m.Vertical),
			Bottom: textproc.Inches(m.Vertical),
		},
	}
	sh.Text = frame

	switch {
	case role == catalog.RoleTitle && !opts.TitlePage:
		frame.Wrap = false
		frame.AutoFit = ooxml.AutoFitShape
		frame.Anchor = ooxml.AnchorMiddle
		frame.Align = ooxml.AlignCenter
		frame.FontSize = f.catalog.Fonts.Title.Default
		f.AdjustBackground(slide, sh)

	case role == catalog.RoleTitle:
		frame.Wrap = true
		frame.AutoFit = ooxml.AutoFitText
		frame.Anchor = ooxml.AnchorMiddle
		frame.Align = ooxml.AlignCenter

	default:
		frame.Wrap = true
		frame.AutoFit = ooxml.AutoFitText
		frame.FontSize = textproc.EstimateFontSize(clean, sh.Geom.W, sh.Geom.H, f.catalog.Font(role))
	}

	f.logger.Debug("bound text", "shape", shapeID, "name", sh.Name, "role", role, "chars", len([]rune(clean)), "size", frame.FontSize)
	return true
}

// AdjustBackground resizes the decorative shape behind a slide title so it
// spans the estimated title width plus margins and padding, never narrower
// than the catalog minimum. The background keeps its vertical position and
// its horizontal offset to the title, and is clamped to stay an edge inset
// away from both slide edges. A slide without the background shape is left
// alone.
func (f *Fitter) AdjustBackground(slide *ooxml.Slide, title *ooxml.SlideShape) bool {
	name := f.catalog.BackgroundShape(slide.Layout.Index)
	bg, ok := slide.ShapeByName(name)
	if !ok || bg == title {
		f.logger.Warn("background shape not found", "name", name, "layout", slide.Layout.Index)
		return false
	}

	cfg := f.catalog.Background
	fr := title.Text
	textW := textproc.EstimateWidth(fr.Text, float64(fr.FontSize))
	width := max(textW+fr.Insets.Left+fr.Insets.Right+textproc.Inches(cfg.Padding), textproc.Inches(cfg.MinWidth))

	// The title keeps its left edge, so the background keeps its offset to it.
	left := bg.Geom.X

	inset := textproc.Inches(cfg.EdgeInset)
	if left < inset {
		left = inset
	}
	if left+width > f.slideW-inset {
		left = f.slideW - width - inset
	}

	bg.SetGeometry(ooxml.Rect{X: left, Y: bg.Geom.Y, W: width, H: bg.Geom.H})
	bg.Keep = true
	f.logger.Debug("adjusted title background", "name", name, "width", width, "left", left)
	return true
}

// RemoveEmptyPlaceholders deletes the text placeholders of slide that carry
// no visible text and returns how many were removed. Shapes marked Keep and
// picture placeholders survive.
func (f *Fitter) RemoveEmptyPlaceholders(slide *ooxml.Slide) int {
	n := slide.RemoveIf(func(sh *ooxml.SlideShape) bool {
		return sh.Kind == ooxml.KindText && !sh.Keep && sh.Blank()
	})
	if n > 0 {
		f.logger.Debug("removed empty placeholders", "count", n, "layout", slide.Layout.Index)
	}
	return n
}
