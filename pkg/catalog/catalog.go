// Package catalog defines the layout and shape catalog that binds slide
// kinds to a template.
//
// A template is a fixed, pre-numbered set of layouts. The catalog names each
// layout the engine uses, records which shape ids inside those layouts
// receive text or images, and holds the numeric limits and labels that shape
// the output. A [Catalog] is built once, by [Default] or [Load], and shared
// read-only by every component; nothing mutates it after construction.
//
// Changing the template requires changing the catalog in lockstep. The
// defaults match the starter template produced by [StarterTemplate].
package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/slidesmith/pkg/textproc"
)

// Layout names.
const (
	TitlePage             = "TITLE_PAGE"
	ContentTitleAndText   = "CONTENT_TITLE_AND_TEXT"
	TOCGeneric            = "TABLE_OF_CONTENTS_GENERIC"
	TOC4ItemsA            = "TABLE_OF_CONTENTS_4_ITEMS_A"
	TOC4ItemsB            = "TABLE_OF_CONTENTS_4_ITEMS_B"
	TOC5ItemsA            = "TABLE_OF_CONTENTS_5_ITEMS_A"
	TOC5ItemsB            = "TABLE_OF_CONTENTS_5_ITEMS_B"
	TOC3Items             = "TABLE_OF_CONTENTS_3_ITEMS"
	InfoTitleAndText      = "INFO_TITLE_AND_TEXT"
	TextOnlySmallTitle    = "TEXT_ONLY_SMALL_TITLE"
	ImageWithDescriptionW = "IMAGE_TITLE_AND_DESCRIPTION_WIDE"
	ImageWithDescriptionT = "IMAGE_TITLE_AND_DESCRIPTION_TALL"
	ImageOnly             = "IMAGE_ONLY"
	ReferencesPage        = "REFERENCES_PAGE"
	EndPage               = "END_PAGE"
	Subchapter2Items      = "SUBCHAPTER_2_ITEMS"
	Subchapter3Items      = "SUBCHAPTER_3_ITEMS"
	Subchapter4Items      = "SUBCHAPTER_4_ITEMS"
	Subchapter5Items      = "SUBCHAPTER_5_ITEMS"
)

// Role selects the font range used for a piece of text.
type Role string

const (
	RoleTitle   Role = "title"
	RoleContent Role = "content"
	RoleSmall   Role = "small"
)

// Pair is a numbered entry made of a number shape and a text shape.
type Pair struct {
	Num  int `toml:"num"`
	Text int `toml:"text"`
}

// Shapes holds the shape ids bound by each slide kind.
type Shapes struct {
	TitlePage struct {
		Title int `toml:"title"`
		Date  int `toml:"date"`
	} `toml:"title_page"`

	TOC struct {
		Title int   `toml:"title"`
		Items []int `toml:"items"`
	} `toml:"toc"`

	Content struct {
		Title       int `toml:"title"`
		CompactBody int `toml:"compact_body"`
		Body        int `toml:"body"`
	} `toml:"content"`

	Image struct {
		Placeholder int `toml:"placeholder"`
		Title       int `toml:"title"`
		Description int `toml:"description"`
	} `toml:"image"`

	References struct {
		Title   int    `toml:"title"`
		Entries []Pair `toml:"entries"`
	} `toml:"references"`

	SubSection struct {
		Title int `toml:"title"`
		// Items[n-1] lists the item shapes of the n-item layout, n = 1..4.
		Items [][]int `toml:"items"`
		// Numbered lists the number and text shapes of the 5-item layout.
		Numbered []Pair `toml:"numbered"`
	} `toml:"subsection"`
}

// Limits are the numeric bounds applied while composing.
type Limits struct {
	MaxChunkChars         int `toml:"max_chunk_chars"`
	CompactChunkChars     int `toml:"compact_chunk_chars"`
	MaxTitleChars         int `toml:"max_title_chars"`
	MaxTOCItems           int `toml:"max_toc_items"`
	MaxReferencesPerSlide int `toml:"max_references_per_slide"`
	MaxTotalReferences    int `toml:"max_total_references"`
	ReferenceMergeChars   int `toml:"reference_merge_chars"`
}

// Fonts are the font ranges per text role.
type Fonts struct {
	Title   textproc.FontRange `toml:"title"`
	Content textproc.FontRange `toml:"content"`
	Small   textproc.FontRange `toml:"small"`
}

// Background configures the decorative shape resized behind slide titles.
// Lengths are in inches.
type Background struct {
	MinWidth  float64 `toml:"min_width"`
	Padding   float64 `toml:"padding"`
	EdgeInset float64 `toml:"edge_inset"`
	// Shape is the name of the background shape on most layouts.
	Shape string `toml:"shape"`
	// ShapeByLayout overrides Shape for specific layout indices.
	ShapeByLayout map[string]string `toml:"shape_by_layout"`
}

// Margins are the text frame insets applied to bound text, in inches.
type Margins struct {
	Horizontal float64 `toml:"horizontal"`
	Vertical   float64 `toml:"vertical"`
}

// Labels are the fixed strings the engine writes into decks.
type Labels struct {
	TableOfContents string `toml:"table_of_contents"`
	References      string `toml:"references"`
	UntitledDeck    string `toml:"untitled_deck"`
	ImageTitle      string `toml:"image_title"`
	// Continued formats the title of follow-up content slides from the
	// section title and the 1-based chunk number.
	Continued  string `toml:"continued"`
	DateFormat string `toml:"date_format"`
	// SubItems are the summaries given to synthesized sub-section items.
	SubItems []string `toml:"sub_items"`
	// SubItemFallback replaces the second summary when the second paragraph
	// cannot be split.
	SubItemFallback string `toml:"sub_item_fallback"`
}

// Catalog is the complete, read-only binding between slide kinds and a
// template.
type Catalog struct {
	Version      string         `toml:"version"`
	Layouts      map[string]int `toml:"layouts"`
	Shapes       Shapes         `toml:"shapes"`
	Limits       Limits         `toml:"limits"`
	Fonts        Fonts          `toml:"fonts"`
	Background   Background     `toml:"background"`
	Margins      Margins        `toml:"margins"`
	Labels       Labels         `toml:"labels"`
	ImageSchemes []string       `toml:"image_schemes"`
}

// DefaultVersion identifies the built-in catalog.
const DefaultVersion = "2025.07"

// Default returns the built-in catalog. Each call returns a fresh value.
func Default() *Catalog {
	c := &Catalog{
		Version: DefaultVersion,
		Layouts: map[string]int{
			TitlePage:             0,
			ContentTitleAndText:   1,
			TOCGeneric:            22,
			TOC4ItemsA:            23,
			TOC4ItemsB:            24,
			TOC5ItemsA:            25,
			TOC5ItemsB:            26,
			TOC3Items:             30,
			InfoTitleAndText:      15,
			TextOnlySmallTitle:    12,
			ImageWithDescriptionW: 9,
			ImageWithDescriptionT: 7,
			ImageOnly:             14,
			ReferencesPage:        10,
			EndPage:               11,
			Subchapter2Items:      15,
			Subchapter3Items:      16,
			Subchapter4Items:      17,
			Subchapter5Items:      10,
		},
		Limits: Limits{
			MaxChunkChars:         800,
			CompactChunkChars:     150,
			MaxTitleChars:         80,
			MaxTOCItems:           6,
			MaxReferencesPerSlide: 5,
			MaxTotalReferences:    10,
			ReferenceMergeChars:   15,
		},
		Fonts: Fonts{
			Title:   textproc.FontRange{Min: 18, Default: 26, Max: 44},
			Content: textproc.FontRange{Min: 12, Default: 18, Max: 24},
			Small:   textproc.FontRange{Min: 10, Default: 14, Max: 16},
		},
		Background: Background{
			MinWidth:      2.5,
			Padding:       0.8,
			EdgeInset:     0.2,
			Shape:         "Text Placeholder 1",
			ShapeByLayout: map[string]string{"16": "Text Placeholder 4"},
		},
		Margins: Margins{Horizontal: 0.1, Vertical: 0.05},
		Labels: Labels{
			TableOfContents: "Contents",
			References:      "References",
			UntitledDeck:    "Untitled Presentation",
			ImageTitle:      "Figure",
			Continued:       "%s (continued %d)",
			DateFormat:      "January 2, 2006",
			SubItems:        []string{"Research Direction", "Combination Strategies", "Biomarker Development"},
			SubItemFallback: "Future Studies",
		},
		ImageSchemes: []string{"http", "https"},
	}

	s := &c.Shapes
	s.TitlePage.Title, s.TitlePage.Date = 2, 9
	s.TOC.Title, s.TOC.Items = 8, []int{2, 3, 4, 5, 6, 7}
	s.Content.Title, s.Content.CompactBody, s.Content.Body = 2, 3, 4
	s.Image.Placeholder, s.Image.Title, s.Image.Description = 3, 2, 4
	s.References.Title = 2
	s.References.Entries = []Pair{{3, 8}, {4, 9}, {5, 10}, {6, 11}, {7, 12}}
	s.SubSection.Title = 13
	s.SubSection.Items = [][]int{{3}, {3, 5}, {2, 3, 4}, {2, 3, 4, 5}}
	s.SubSection.Numbered = []Pair{{3, 8}, {4, 9}, {5, 10}, {6, 11}, {7, 12}}
	return c
}

// Resolve returns the template index of the named layout.
func (c *Catalog) Resolve(name string) (int, bool) {
	i, ok := c.Layouts[name]
	return i, ok
}

// LayoutIndex returns the template index of the named layout, or 0 when the
// name is unknown.
func (c *Catalog) LayoutIndex(name string) int {
	i, _ := c.Resolve(name)
	return i
}

// LayoutNames returns the catalog's layout names sorted by index, then name.
func (c *Catalog) LayoutNames() []string {
	names := make([]string, 0, len(c.Layouts))
	for n := range c.Layouts {
		names = append(names, n)
	}
	slices.SortFunc(names, func(a, b string) int {
		if d := c.Layouts[a] - c.Layouts[b]; d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return names
}

// Font returns the font range for a role. Unknown roles use the content
// range.
func (c *Catalog) Font(r Role) textproc.FontRange {
	switch r {
	case RoleTitle:
		return c.Fonts.Title
	case RoleSmall:
		return c.Fonts.Small
	}
	return c.Fonts.Content
}

// BackgroundShape returns the name of the title background shape on the
// layout with the given index.
func (c *Catalog) BackgroundShape(layoutIndex int) string {
	if name, ok := c.Background.ShapeByLayout[strconv.Itoa(layoutIndex)]; ok {
		return name
	}
	return c.Background.Shape
}

// SubSectionItems returns the item shape ids of the n-item sub-section
// layout for n in 1..4.
func (c *Catalog) SubSectionItems(n int) ([]int, bool) {
	if n < 1 || n > len(c.Shapes.SubSection.Items) {
		return nil, false
	}
	return c.Shapes.SubSection.Items[n-1], true
}

// SubSectionLayout returns the layout name for a sub-section with n items.
func SubSectionLayout(n int) (string, bool) {
	switch n {
	case 1:
		return TextOnlySmallTitle, true
	case 2:
		return Subchapter2Items, true
	case 3:
		return Subchapter3Items, true
	case 4:
		return Subchapter4Items, true
	case 5:
		return Subchapter5Items, true
	}
	return "", false
}

// Validate reports structural problems that would make the catalog unusable.
func (c *Catalog) Validate() error {
	if len(c.Layouts) == 0 {
		return fmt.Errorf("catalog defines no layouts")
	}
	for name, i := range c.Layouts {
		if i < 0 {
			return fmt.Errorf("layout %s has negative index %d", name, i)
		}
	}
	l := c.Limits
	for name, v := range map[string]int{
		"max_chunk_chars":          l.MaxChunkChars,
		"compact_chunk_chars":      l.CompactChunkChars,
		"max_title_chars":          l.MaxTitleChars,
		"max_toc_items":            l.MaxTOCItems,
		"max_references_per_slide": l.MaxReferencesPerSlide,
		"max_total_references":     l.MaxTotalReferences,
		"reference_merge_chars":    l.ReferenceMergeChars,
	} {
		if v <= 0 {
			return fmt.Errorf("limit %s must be positive, got %d", name, v)
		}
	}
	for role, f := range map[Role]textproc.FontRange{RoleTitle: c.Fonts.Title, RoleContent: c.Fonts.Content, RoleSmall: c.Fonts.Small} {
		if f.Min <= 0 || f.Min > f.Default || f.Default > f.Max {
			return fmt.Errorf("font range %s must satisfy 0 < min <= default <= max, got %d/%d/%d", role, f.Min, f.Default, f.Max)
		}
	}
	if len(c.Shapes.SubSection.Items) != 4 {
		return fmt.Errorf("subsection items must list shapes for 1 to 4 items, got %d entries", len(c.Shapes.SubSection.Items))
	}
	for i, ids := range c.Shapes.SubSection.Items {
		if len(ids) < 1 {
			return fmt.Errorf("subsection layout for %d items lists no shapes", i+1)
		}
	}
	if len(c.Shapes.SubSection.Numbered) < 5 {
		return fmt.Errorf("numbered subsection needs 5 shape pairs, got %d", len(c.Shapes.SubSection.Numbered))
	}
	if len(c.ImageSchemes) == 0 {
		return fmt.Errorf("catalog accepts no image schemes")
	}
	return nil
}
