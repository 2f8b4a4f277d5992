package outline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/slidesmith/pkg/errors"
)

func p(s string) Block  { return leaf(TypeParagraph, s) }
func h1(s string) Block { return leaf(TypeHeading, s) }

func bullet(summary, detail string) Block {
	return Block{Type: TypeBullet, Children: []Block{leaf(TypeSubheading, summary), leaf(TypeParagraph, detail)}}
}

func TestParseContent(t *testing.T) {
	blocks := []Block{
		p("<b>Lead</b> paragraph"),
		h1("Risks &amp; Issues"),
		h1("Ignored"),
		p("   "),
		p("Second"),
		{Type: TypeBullets, Children: []Block{
			bullet("Supply", "Two <i>vendors</i>"),
			{Type: TypeBullet, Children: []Block{leaf(TypeParagraph, "detail only")}},
			{Type: "note", Children: []Block{leaf(TypeParagraph, "skipped")}},
		}},
	}

	c := ParseContent(blocks)
	assert.Equal(t, "Risks & Issues", c.Title)
	assert.Equal(t, "Lead paragraph\nSecond", c.Body)
	assert.Equal(t, []Bullet{
		{Summary: "Supply", Detail: "Two vendors"},
		{Summary: "", Detail: "detail only"},
	}, c.Bullets)
}

func TestParseContentEmpty(t *testing.T) {
	c := ParseContent(nil)
	assert.Equal(t, Content{}, c)
}

func TestPlainTextNested(t *testing.T) {
	b := Block{Type: TypeParagraph, Children: []Block{
		{Text: "See "},
		{Type: "a", Children: []Block{{Text: "the report"}}},
		{Text: "."},
	}}
	assert.Equal(t, "See the report.", b.PlainText())
}

func TestParagraphsKeepMarkup(t *testing.T) {
	got := Paragraphs([]Block{p("<b>one</b>"), h1("x"), p(""), p("two")})
	assert.Equal(t, []string{"<b>one</b>", "two"}, got)
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{
	  "title": "Deck",
	  "references": ["A", 7, "B"],
	  "sections": [
	    {"id": "s0", "content": [{"type": "h1", "children": [{"text": "Intro"}]}]},
	    "not a section",
	    {"content": [{"type": "p", "children": "wrong"}], "rootImage": {"url": "https://x/y.png", "alt": "Y", "background": true}}
	  ]
	}`)
	o, err := Parse(data, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "Deck", o.Title)
	assert.Equal(t, []string{"A", "", "B"}, o.References)
	require.Len(t, o.Sections, 3)
	assert.Equal(t, "Intro", o.FirstHeading())
	assert.Empty(t, o.Sections[1].Content)
	require.Len(t, o.Sections[2].Content, 1)
	assert.Empty(t, o.Sections[2].Content[0].Children)
	require.NotNil(t, o.Sections[2].RootImage)
	assert.True(t, o.Sections[2].RootImage.Background)
	assert.False(t, o.Sections[2].RootImage.Slideworthy())
}

func TestParseBareArray(t *testing.T) {
	o, err := Parse([]byte(`[{"content": []}, {"content": []}]`), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, o.Title)
	assert.Len(t, o.Sections, 2)
}

func TestParseInvalidTopLevel(t *testing.T) {
	tests := []struct {
		name string
		data string
		f    Format
	}{
		{"string", `"hello"`, FormatJSON},
		{"number", `42`, FormatJSON},
		{"null", `null`, FormatJSON},
		{"syntax", `{"sections": [`, FormatJSON},
		{"yaml scalar", "just text\n", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.f)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidOutline), "got %v", err)
		})
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
title: Deck
sections:
  - id: s0
    content:
      - type: h1
        children:
          - text: Intro
  - id: s1
    rootImage:
      url: https://example.com/a.png
      alt: A chart
    content:
      - type: p
        children:
          - text: Body
`)
	o, err := Parse(data, FormatYAML)
	require.NoError(t, err)
	require.Len(t, o.Sections, 2)
	assert.Equal(t, "Intro", o.FirstHeading())
	assert.True(t, o.Sections[1].RootImage.Slideworthy())
	assert.Equal(t, "A chart", o.Sections[1].RootImage.Alt)
	assert.Equal(t, []string{"Body"}, Paragraphs(o.Sections[1].Content))
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"deck.json", FormatJSON},
		{"deck.YAML", FormatYAML},
		{"deck.yml", FormatYAML},
		{"notes.md", FormatMarkdown},
		{"noext", FormatJSON},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}

	f, err := ParseFormat("md")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)
	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestExportRoundTrip(t *testing.T) {
	o := &Outline{
		Title:      "Deck",
		References: []string{"Ref A"},
		Sections: []Section{
			{ID: "s0", Content: []Block{h1("Intro")}},
			{ID: "s1", Content: []Block{p("Body"), {Type: TypeBullets, Children: []Block{bullet("S", "D")}}},
				RootImage: &ImageRef{URL: "https://example.com/a.png"}},
		},
	}
	for _, f := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "outline."+string(f))
			require.NoError(t, Export(o, path, f))
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			got, err := Parse(data, FormatFromPath(path))
			require.NoError(t, err)
			assert.Equal(t, o, got)
		})
	}
}
