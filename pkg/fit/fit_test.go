package fit

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/ooxml"
	"github.com/matzehuels/slidesmith/pkg/textproc"
)

func setup(t *testing.T) (*catalog.Catalog, *ooxml.Deck, *Fitter) {
	t.Helper()
	c := catalog.Default()
	data, err := catalog.BuildStarterTemplate(c)
	require.NoError(t, err)
	tmpl, err := ooxml.ReadTemplate(data)
	require.NoError(t, err)
	return c, ooxml.NewDeck(tmpl), New(c, tmpl.SlideW, nil)
}

func addSlide(t *testing.T, c *catalog.Catalog, deck *ooxml.Deck, name string) *ooxml.Slide {
	t.Helper()
	l, ok := deck.Template().Layout(c.LayoutIndex(name))
	require.True(t, ok)
	return deck.AddSlide(l)
}

func TestBindSlideTitle(t *testing.T) {
	c, deck, f := setup(t)
	slide := addSlide(t, c, deck, catalog.ContentTitleAndText)

	bg, ok := slide.ShapeByName(c.BackgroundShape(1))
	require.True(t, ok)
	orig := bg.Geom

	require.True(t, f.BindText(slide, c.Shapes.Content.Title, "Hi", catalog.RoleTitle, Options{MaxChars: 80}))

	sh, _ := slide.Shape(c.Shapes.Content.Title)
	fr := sh.Text
	require.NotNil(t, fr)
	assert.Equal(t, "Hi", fr.Text)
	assert.Equal(t, c.Fonts.Title.Default, fr.FontSize)
	assert.False(t, fr.Wrap)
	assert.Equal(t, ooxml.AutoFitShape, fr.AutoFit)
	assert.Equal(t, ooxml.AnchorMiddle, fr.Anchor)
	assert.Equal(t, ooxml.AlignCenter, fr.Align)
	assert.Equal(t, textproc.Inches(0.1), fr.Insets.Left)
	assert.Equal(t, textproc.Inches(0.05), fr.Insets.Top)

	// A short title floors the background at the minimum width.
	assert.True(t, bg.Moved())
	assert.True(t, bg.Keep)
	assert.Equal(t, textproc.Inches(c.Background.MinWidth), bg.Geom.W)
	assert.Equal(t, orig.X, bg.Geom.X)
	assert.Equal(t, orig.Y, bg.Geom.Y)
	assert.Equal(t, orig.H, bg.Geom.H)
}

func TestBackgroundGrowsAndClamps(t *testing.T) {
	c, deck, f := setup(t)
	slideW := deck.Template().SlideW
	inset := textproc.Inches(c.Background.EdgeInset)

	tests := []struct {
		name    string
		title   string
		clamped bool
	}{
		{"fits", strings.Repeat("a", 40), false},
		{"clamped", strings.Repeat("a", 56), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slide := addSlide(t, c, deck, catalog.ContentTitleAndText)
			bg, _ := slide.ShapeByName(c.BackgroundShape(1))
			origX := bg.Geom.X

			require.True(t, f.BindText(slide, c.Shapes.Content.Title, tt.title, catalog.RoleTitle, Options{}))

			want := textproc.EstimateWidth(tt.title, float64(c.Fonts.Title.Default)) +
				2*textproc.Inches(c.Margins.Horizontal) + textproc.Inches(c.Background.Padding)
			assert.Equal(t, want, bg.Geom.W)
			assert.LessOrEqual(t, bg.Geom.Right(), slideW-inset)
			assert.GreaterOrEqual(t, bg.Geom.X, inset)
			if tt.clamped {
				assert.Equal(t, slideW-inset, bg.Geom.Right())
				assert.Less(t, bg.Geom.X, origX)
			} else {
				assert.Equal(t, origX, bg.Geom.X)
			}
		})
	}
}

func TestBindTitlePage(t *testing.T) {
	c, deck, f := setup(t)
	slide := addSlide(t, c, deck, catalog.TitlePage)

	require.True(t, f.BindText(slide, c.Shapes.TitlePage.Title, "Quarterly Review", catalog.RoleTitle, Options{TitlePage: true}))
	sh, _ := slide.Shape(c.Shapes.TitlePage.Title)
	assert.True(t, sh.Text.Wrap)
	assert.Equal(t, ooxml.AutoFitText, sh.Text.AutoFit)
	assert.Equal(t, ooxml.AnchorMiddle, sh.Text.Anchor)
	assert.Equal(t, ooxml.AlignCenter, sh.Text.Align)
	assert.Zero(t, sh.Text.FontSize)
}

func TestSlideTitleWithoutBackground(t *testing.T) {
	c, deck, f := setup(t)
	// The title page layout has no background shape; binding still succeeds.
	slide := addSlide(t, c, deck, catalog.TitlePage)
	assert.True(t, f.BindText(slide, c.Shapes.TitlePage.Title, "Title", catalog.RoleTitle, Options{}))
	sh, _ := slide.Shape(c.Shapes.TitlePage.Title)
	assert.Equal(t, c.Fonts.Title.Default, sh.Text.FontSize)
	assert.False(t, f.AdjustBackground(slide, sh))
}

func TestBindContent(t *testing.T) {
	c, deck, f := setup(t)
	slide := addSlide(t, c, deck, catalog.ContentTitleAndText)

	require.True(t, f.BindText(slide, c.Shapes.Content.Body, "<p>Short &amp; sweet</p>", catalog.RoleContent, Options{}))
	sh, _ := slide.Shape(c.Shapes.Content.Body)
	assert.Equal(t, "Short & sweet", sh.Text.Text)
	assert.True(t, sh.Text.Wrap)
	assert.Equal(t, ooxml.AutoFitText, sh.Text.AutoFit)
	fonts := c.Fonts.Content
	assert.Equal(t, min(fonts.Max, fonts.Default+4), sh.Text.FontSize)

	long := strings.Repeat("word ", 800)
	require.True(t, f.BindText(slide, c.Shapes.Content.Body, long, catalog.RoleContent, Options{}))
	assert.Equal(t, fonts.Min, sh.Text.FontSize)
}

func TestBindContentSizesOnFullBox(t *testing.T) {
	c, deck, f := setup(t)
	slide := addSlide(t, c, deck, catalog.ContentTitleAndText)
	sh, _ := slide.Shape(c.Shapes.Content.Body)
	fonts := c.Fonts.Content

	// Exactly five lines of the full body width; the inner width after
	// insets would wrap onto a sixth.
	perLine := int(sh.Geom.W / textproc.Points(7))
	text := strings.Repeat("x", 5*perLine)
	require.True(t, f.BindText(slide, c.Shapes.Content.Body, text, catalog.RoleContent, Options{}))
	assert.Equal(t, textproc.EstimateFontSize(text, sh.Geom.W, sh.Geom.H, fonts), sh.Text.FontSize)
	assert.Equal(t, min(fonts.Max, fonts.Default+4), sh.Text.FontSize)
}

func TestBindTruncates(t *testing.T) {
	c, deck, f := setup(t)
	slide := addSlide(t, c, deck, catalog.ContentTitleAndText)

	require.True(t, f.BindText(slide, c.Shapes.Content.Title, strings.Repeat("x", 20), catalog.RoleTitle, Options{MaxChars: 10}))
	sh, _ := slide.Shape(c.Shapes.Content.Title)
	assert.Equal(t, 10, utf8.RuneCountInString(sh.Text.Text))
	assert.True(t, strings.HasSuffix(sh.Text.Text, textproc.DefaultSuffix))
}

func TestBindMissingShape(t *testing.T) {
	c, deck, f := setup(t)
	slide := addSlide(t, c, deck, catalog.ImageOnly)

	assert.False(t, f.BindText(slide, 99, "text", catalog.RoleContent, Options{}))
	// Picture placeholders do not take text.
	assert.False(t, f.BindText(slide, c.Shapes.Image.Placeholder, "text", catalog.RoleContent, Options{}))
}

func TestRemoveEmptyPlaceholders(t *testing.T) {
	c, deck, f := setup(t)
	slide := addSlide(t, c, deck, catalog.ContentTitleAndText)
	require.True(t, f.BindText(slide, c.Shapes.Content.Title, "Title", catalog.RoleTitle, Options{}))

	n := f.RemoveEmptyPlaceholders(slide)
	assert.Equal(t, 1, n)
	_, ok := slide.Shape(c.Shapes.Content.Body)
	assert.False(t, ok)
	_, ok = slide.ShapeByName(c.BackgroundShape(1))
	assert.True(t, ok, "adjusted background survives")

	assert.Zero(t, f.RemoveEmptyPlaceholders(slide))

	img := addSlide(t, c, deck, catalog.ImageOnly)
	f.RemoveEmptyPlaceholders(img)
	_, ok = img.Shape(c.Shapes.Image.Placeholder)
	assert.True(t, ok, "picture placeholder survives")
}
