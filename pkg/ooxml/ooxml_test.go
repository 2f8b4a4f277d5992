package ooxml

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() TemplateSpec {
	return TemplateSpec{
		Layouts: []LayoutSpec{
			{
				Name: "Title",
				Shapes: []ShapeSpec{
					{ID: 2, Name: "Title 1", Geom: Rect{X: 100, Y: 200, W: 3000, H: 800}},
					{ID: 9, Name: "Date 8", Geom: Rect{X: 100, Y: 1200, W: 3000, H: 400}},
				},
			},
			{
				Name: "Image",
				Shapes: []ShapeSpec{
					{ID: 2, Name: "Title 1", Geom: Rect{X: 0, Y: 0, W: 5000, H: 600}},
					{ID: 3, Name: "Picture 2", Kind: KindPicture, Geom: Rect{X: 0, Y: 700, W: 4000, H: 3000}},
					{ID: 4, Name: "Text 3", Geom: Rect{X: 4100, Y: 700, W: 900, H: 3000}},
				},
			},
		},
	}
}

func buildTestTemplate(t *testing.T) *Template {
	t.Helper()
	data, err := BuildTemplate(testSpec())
	require.NoError(t, err)
	tmpl, err := ReadTemplate(data)
	require.NoError(t, err)
	return tmpl
}

func readParts(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = string(b)
	}
	return out
}

func TestBuildAndReadTemplate(t *testing.T) {
	tmpl := buildTestTemplate(t)

	assert.Equal(t, int64(Widescreen16x9W), tmpl.SlideW)
	assert.Equal(t, int64(Widescreen16x9H), tmpl.SlideH)
	require.Len(t, tmpl.Layouts, 2)

	title, ok := tmpl.Layout(0)
	require.True(t, ok)
	assert.Equal(t, "Title", title.Name)
	assert.Equal(t, []int{2, 9}, title.ShapeIDs())

	sh, ok := title.Shape(2)
	require.True(t, ok)
	assert.Equal(t, "Title 1", sh.Name)
	assert.Equal(t, Rect{X: 100, Y: 200, W: 3000, H: 800}, sh.Geom)

	img, _ := tmpl.Layout(1)
	pic, ok := img.Shape(3)
	require.True(t, ok)
	assert.Equal(t, KindPicture, pic.Kind)

	_, ok = tmpl.Layout(2)
	assert.False(t, ok)
	_, ok = title.Shape(42)
	assert.False(t, ok)
}

func TestBuildTemplateRejectsBadIDs(t *testing.T) {
	_, err := BuildTemplate(TemplateSpec{Layouts: []LayoutSpec{{Name: "x", Shapes: []ShapeSpec{{ID: 1}}}}})
	assert.Error(t, err)

	_, err = BuildTemplate(TemplateSpec{Layouts: []LayoutSpec{{Name: "x", Shapes: []ShapeSpec{{ID: 2}, {ID: 2}}}}})
	assert.Error(t, err)

	_, err = BuildTemplate(TemplateSpec{})
	assert.Error(t, err)
}

func TestReadTemplateInvalid(t *testing.T) {
	_, err := ReadTemplate([]byte("not a zip"))
	assert.Error(t, err)
}

func TestSlideShapes(t *testing.T) {
	tmpl := buildTestTemplate(t)
	deck := NewDeck(tmpl)
	layout, _ := tmpl.Layout(1)
	slide := deck.AddSlide(layout)

	assert.Equal(t, []int{2, 3, 4}, slide.ShapeIDs())
	assert.Equal(t, []int{2, 4}, slide.TextShapeIDs())

	sh, ok := slide.ShapeByName("Text 3")
	require.True(t, ok)
	assert.Equal(t, 4, sh.ID)
	assert.True(t, sh.Blank())
	assert.False(t, sh.Moved())

	sh.SetGeometry(Rect{X: 1, Y: 2, W: 3, H: 4})
	assert.True(t, sh.Moved())

	// Mutating a slide shape leaves the layout untouched.
	orig, _ := layout.Shape(4)
	assert.Equal(t, Rect{X: 4100, Y: 700, W: 900, H: 3000}, orig.Geom)

	assert.True(t, slide.Remove(4))
	assert.False(t, slide.Remove(4))
	assert.Equal(t, []int{2, 3}, slide.ShapeIDs())
}

func TestReplaceWithPicture(t *testing.T) {
	tmpl := buildTestTemplate(t)
	deck := NewDeck(tmpl)
	layout, _ := tmpl.Layout(1)
	slide := deck.AddSlide(layout)

	pic, ok := slide.ReplaceWithPicture(3, Picture{Geom: Rect{W: 10, H: 10}, Data: []byte{1}, Ext: "png"})
	require.True(t, ok)
	assert.Equal(t, 5, pic.ID)
	assert.Equal(t, "Picture 5", pic.Name)
	assert.Len(t, slide.Pictures, 1)
	_, still := slide.Shape(3)
	assert.False(t, still)

	_, ok = slide.ReplaceWithPicture(99, Picture{})
	assert.False(t, ok)
	assert.Len(t, slide.Pictures, 1)
}

func TestRemoveIf(t *testing.T) {
	tmpl := buildTestTemplate(t)
	deck := NewDeck(tmpl)
	layout, _ := tmpl.Layout(1)
	slide := deck.AddSlide(layout)
	sh, _ := slide.Shape(2)
	sh.Text = &TextFrame{Text: "Kept"}

	n := slide.RemoveIf(func(s *SlideShape) bool { return s.Kind == KindText && s.Blank() })
	assert.Equal(t, 1, n)
	assert.Equal(t, []int{2, 3}, slide.ShapeIDs())
}

func TestDeckWrite(t *testing.T) {
	tmpl := buildTestTemplate(t)
	deck := NewDeck(tmpl)

	titleLayout, _ := tmpl.Layout(0)
	s1 := deck.AddSlide(titleLayout)
	sh, _ := s1.Shape(2)
	sh.Text = &TextFrame{
		Text:     "Fish & Chips\nSecond line",
		FontSize: 26,
		Align:    AlignCenter,
		Anchor:   AnchorMiddle,
		AutoFit:  AutoFitShape,
	}
	sh.SetGeometry(Rect{X: 10, Y: 20, W: 30, H: 40})

	imgLayout, _ := tmpl.Layout(1)
	s2 := deck.AddSlide(imgLayout)
	_, ok := s2.ReplaceWithPicture(3, Picture{Geom: Rect{X: 1, Y: 2, W: 3, H: 4}, Data: []byte("PNGDATA"), Ext: "png"})
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, deck.Write(&buf))
	parts := readParts(t, buf.Bytes())

	slide1 := parts["ppt/slides/slide1.xml"]
	assert.Contains(t, slide1, `<p:cNvPr id="2" name="Title 1"/>`)
	assert.Contains(t, slide1, `<a:t>Fish &amp; Chips</a:t>`)
	assert.Contains(t, slide1, `<a:t>Second line</a:t>`)
	assert.Contains(t, slide1, `sz="2600"`)
	assert.Contains(t, slide1, `algn="ctr"`)
	assert.Contains(t, slide1, `anchor="ctr"`)
	assert.Contains(t, slide1, `<a:spAutoFit/>`)
	assert.Contains(t, slide1, `<a:off x="10" y="20"/><a:ext cx="30" cy="40"/>`)

	assert.Contains(t, parts["ppt/slides/_rels/slide1.xml.rels"], `Target="../slideLayouts/slideLayout1.xml"`)
	assert.Contains(t, parts["ppt/slides/_rels/slide2.xml.rels"], `Target="../media/deck_s2_1.png"`)
	assert.Equal(t, "PNGDATA", parts["ppt/media/deck_s2_1.png"])
	assert.Contains(t, parts["ppt/slides/slide2.xml"], `<a:blip r:embed="rId2"/>`)

	pres := parts["ppt/presentation.xml"]
	list := strings.Index(pres, "<p:sldIdLst>")
	size := strings.Index(pres, "<p:sldSz")
	require.True(t, list >= 0 && list < size, "slide list must precede slide size")
	assert.Equal(t, 2, strings.Count(pres, "<p:sldId "))

	assert.Equal(t, 2, strings.Count(parts["ppt/_rels/presentation.xml.rels"], relTypeSlide+`"`))
	ct := parts["[Content_Types].xml"]
	assert.Contains(t, ct, `PartName="/ppt/slides/slide2.xml"`)
	assert.Contains(t, ct, `Extension="png"`)
}

func TestDeckWriteDropsTemplateSlides(t *testing.T) {
	tmpl := buildTestTemplate(t)
	first := NewDeck(tmpl)
	l, _ := tmpl.Layout(0)
	first.AddSlide(l)
	first.AddSlide(l)
	first.AddSlide(l)

	var buf bytes.Buffer
	require.NoError(t, first.Write(&buf))

	// A deck saved with slides can itself serve as a template.
	reused, err := ReadTemplate(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, reused.Layouts, 2)

	second := NewDeck(reused)
	second.AddSlide(reused.Layouts[1])
	buf.Reset()
	require.NoError(t, second.Write(&buf))

	parts := readParts(t, buf.Bytes())
	assert.Contains(t, parts, "ppt/slides/slide1.xml")
	assert.NotContains(t, parts, "ppt/slides/slide2.xml")
	assert.Equal(t, 1, strings.Count(parts["ppt/presentation.xml"], "<p:sldId "))
	assert.Equal(t, 1, strings.Count(parts["[Content_Types].xml"], ctSlide))
}

func TestDeckSave(t *testing.T) {
	tmpl := buildTestTemplate(t)
	deck := NewDeck(tmpl)
	l, _ := tmpl.Layout(0)
	deck.AddSlide(l)

	p := t.TempDir() + "/nested/out.pptx"
	require.NoError(t, deck.Save(p))

	saved, err := LoadTemplate(p)
	require.NoError(t, err)
	assert.Equal(t, p, saved.Path)
	assert.Len(t, saved.Layouts, 2)
}

func TestRelativeTarget(t *testing.T) {
	tests := []struct {
		source, part, want string
	}{
		{"ppt/slides/slide1.xml", "ppt/slideLayouts/slideLayout2.xml", "../slideLayouts/slideLayout2.xml"},
		{"ppt/slides/slide1.xml", "ppt/media/a.png", "../media/a.png"},
		{"ppt/slides/slide1.xml", "ppt/slides/slide2.xml", "slide2.xml"},
	}
	for _, tt := range tests {
		if got := relativeTarget(tt.source, tt.part); got != tt.want {
			t.Errorf("relativeTarget(%q, %q) = %q, want %q", tt.source, tt.part, got, tt.want)
		}
	}
}

func TestEmptyDeckHasNoSlideList(t *testing.T) {
	tmpl := buildTestTemplate(t)
	var buf bytes.Buffer
	require.NoError(t, NewDeck(tmpl).Write(&buf))
	parts := readParts(t, buf.Bytes())
	assert.NotContains(t, parts["ppt/presentation.xml"], "sldIdLst")
}
