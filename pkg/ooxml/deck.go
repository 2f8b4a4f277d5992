package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Deck is an ordered list of slides built on a template. A deck is owned by
// a single goroutine while it is being built.
type Deck struct {
	tmpl   *Template
	slides []*Slide
}

// NewDeck starts an empty deck. Slides already present in the template are
// not carried over.
func NewDeck(t *Template) *Deck {
	return &Deck{tmpl: t}
}

// Template returns the template the deck is built on.
func (d *Deck) Template() *Template { return d.tmpl }

// Slides returns the slides in order.
func (d *Deck) Slides() []*Slide { return d.slides }

// Len returns the number of slides.
func (d *Deck) Len() int { return len(d.slides) }

// AddSlide appends a slide using layout l, with the layout's placeholders
// cloned onto it.
func (d *Deck) AddSlide(l *Layout) *Slide {
	s := newSlide(l)
	d.slides = append(d.slides, s)
	return s
}

// Save writes the deck to p. The package is written to a temporary file in
// the same directory and renamed into place, so p never holds a partial deck.
func (d *Deck) Save(p string) error {
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".deck-*.pptx")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := d.Write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Write serializes the deck as a .pptx package.
func (d *Deck) Write(w io.Writer) error {
	t := d.tmpl
	main, err := t.mainPart()
	if err != nil {
		return err
	}
	presRels := relsPart(main)

	zw := zip.NewWriter(w)
	for _, name := range t.order {
		if dropPart(name) {
			continue
		}
		data := t.parts[name]
		switch name {
		case "[Content_Types].xml":
			data, err = d.contentTypes(data)
		case main:
			data, err = d.presentation(data)
		case presRels:
			data, err = d.presentationRels(data)
		}
		if err != nil {
			return fmt.Errorf("rewrite %s: %w", name, err)
		}
		if err := writePart(zw, name, data); err != nil {
			return err
		}
	}

	for i, s := range d.slides {
		n := i + 1
		xmlData, relData := d.renderSlide(s, n)
		if err := writePart(zw, slidePart(n), xmlData); err != nil {
			return err
		}
		if err := writePart(zw, relsPart(slidePart(n)), relData); err != nil {
			return err
		}
		for j, pic := range s.Pictures {
			if err := writePart(zw, mediaPart(n, j, pic.Ext), pic.Data); err != nil {
				return err
			}
		}
	}
	return zw.Close()
}

func writePart(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = fw.Write(data)
	return err
}

// dropPart reports whether a template part belongs to the template's own
// slides, which are not carried into generated decks.
func dropPart(name string) bool {
	return strings.HasPrefix(name, "ppt/slides/") ||
		strings.HasPrefix(name, "ppt/notesSlides/") ||
		strings.HasPrefix(name, mediaPrefix)
}

func slidePart(n int) string { return "ppt/slides/slide" + strconv.Itoa(n) + ".xml" }

const mediaPrefix = "ppt/media/deck_"

func mediaPart(slide, pic int, ext string) string {
	return fmt.Sprintf("%ss%d_%d.%s", mediaPrefix, slide, pic+1, ext)
}

// =============================================================================
// Package-level parts
// =============================================================================

type xTypes struct {
	XMLName   xml.Name    `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []xDefault  `xml:"Default"`
	Overrides []xOverride `xml:"Override"`
}

type xDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

var imageTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

func (d *Deck) contentTypes(data []byte) ([]byte, error) {
	var ct xTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return nil, err
	}

	overrides := ct.Overrides[:0]
	for _, o := range ct.Overrides {
		if !dropPart(strings.TrimPrefix(o.PartName, "/")) {
			overrides = append(overrides, o)
		}
	}
	for i := range d.slides {
		overrides = append(overrides, xOverride{PartName: "/" + slidePart(i+1), ContentType: ctSlide})
	}
	ct.Overrides = overrides

	have := map[string]bool{}
	for _, def := range ct.Defaults {
		have[strings.ToLower(def.Extension)] = true
	}
	for _, ext := range []string{"png", "jpeg", "gif"} {
		if !have[ext] {
			ct.Defaults = append(ct.Defaults, xDefault{Extension: ext, ContentType: imageTypes[ext]})
		}
	}
	return marshalPart(ct)
}

func (d *Deck) presentationRels(data []byte) ([]byte, error) {
	var rs xRelationships
	if err := xml.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	kept := rs.Rels[:0]
	used := map[string]bool{}
	for _, r := range rs.Rels {
		if r.Type == relTypeSlide {
			continue
		}
		kept = append(kept, r)
		used[r.ID] = true
	}
	rs.Rels = kept
	for i := range d.slides {
		rs.Rels = append(rs.Rels, xRelationship{
			ID:     slideRelID(i+1, used),
			Type:   relTypeSlide,
			Target: "slides/slide" + strconv.Itoa(i+1) + ".xml",
		})
	}
	return marshalPart(rs)
}

// slideRelID returns the presentation relationship id of slide n. Ids are
// derived from the slide number and skip any id the template already uses.
func slideRelID(n int, used map[string]bool) string {
	id := "rIdSlide" + strconv.Itoa(n)
	for used[id] {
		id += "x"
	}
	return id
}

var (
	sldIDListRe = regexp.MustCompile(`(?s)<p:sldIdLst\s*/>|<p:sldIdLst>.*?</p:sldIdLst>`)
	sldSzTag    = "<p:sldSz"
)

func (d *Deck) presentation(data []byte) ([]byte, error) {
	var used map[string]bool
	if rs, err := d.rawPresentationRels(); err == nil {
		used = map[string]bool{}
		for _, r := range rs.Rels {
			if r.Type != relTypeSlide {
				used[r.ID] = true
			}
		}
	}

	out := sldIDListRe.ReplaceAll(data, nil)
	if len(d.slides) == 0 {
		return out, nil
	}
	at := bytes.Index(out, []byte(sldSzTag))
	if at < 0 {
		return nil, fmt.Errorf("presentation has no %s element", sldSzTag)
	}

	var b bytes.Buffer
	b.WriteString("<p:sldIdLst>")
	for i := range d.slides {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="%s"/>`, 256+i, slideRelID(i+1, used))
	}
	b.WriteString("</p:sldIdLst>")

	res := make([]byte, 0, len(out)+b.Len())
	res = append(res, out[:at]...)
	res = append(res, b.Bytes()...)
	res = append(res, out[at:]...)
	return res, nil
}

func (d *Deck) rawPresentationRels() (*xRelationships, error) {
	main, err := d.tmpl.mainPart()
	if err != nil {
		return nil, err
	}
	var rs xRelationships
	if err := d.tmpl.unmarshal(relsPart(main), &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

func marshalPart(v any) ([]byte, error) {
	b, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), b...), nil
}

// =============================================================================
// Slide parts
// =============================================================================

const slideNamespaces = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

func (d *Deck) renderSlide(s *Slide, n int) ([]byte, []byte) {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<p:sld ` + slideNamespaces + `><p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/>` +
		`<a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)
	for _, sh := range s.Shapes {
		writeShape(&b, sh)
	}
	for i, pic := range s.Pictures {
		writePicture(&b, pic, "rId"+strconv.Itoa(i+2))
	}
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)

	var rs xRelationships
	rs.Rels = append(rs.Rels, xRelationship{
		ID:     "rId1",
		Type:   relTypeSlideLayout,
		Target: relativeTarget(slidePart(n), s.Layout.Part),
	})
	for i, pic := range s.Pictures {
		rs.Rels = append(rs.Rels, xRelationship{
			ID:     "rId" + strconv.Itoa(i+2),
			Type:   relTypeImage,
			Target: relativeTarget(slidePart(n), mediaPart(n, i, pic.Ext)),
		})
	}
	rels, _ := marshalPart(rs)
	return b.Bytes(), rels
}

// relativeTarget expresses part relative to the directory of source. Both
// are package part names under the same root.
func relativeTarget(source, part string) string {
	from := strings.Split(path.Dir(source), "/")
	to := strings.Split(part, "/")
	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	return strings.Repeat("../", len(from)-i) + strings.Join(to[i:], "/")
}

func esc(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

func writeShape(b *bytes.Buffer, sh *SlideShape) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/>`, sh.ID, esc(sh.Name))
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph`)
	if sh.PhType != "" {
		fmt.Fprintf(b, ` type="%s"`, esc(sh.PhType))
	}
	if sh.PhIdx != "" {
		fmt.Fprintf(b, ` idx="%s"`, esc(sh.PhIdx))
	}
	b.WriteString(`/></p:nvPr></p:nvSpPr>`)

	if sh.Moved() {
		b.WriteString(`<p:spPr>`)
		writeXfrm(b, sh.Geom)
		b.WriteString(`</p:spPr>`)
	} else {
		b.WriteString(`<p:spPr/>`)
	}

	if sh.Kind == KindText {
		writeTextBody(b, sh.Text)
	}
	b.WriteString(`</p:sp>`)
}

func writeXfrm(b *bytes.Buffer, r Rect) {
	fmt.Fprintf(b, `<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, r.X, r.Y, r.W, r.H)
}

func writeTextBody(b *bytes.Buffer, f *TextFrame) {
	b.WriteString(`<p:txBody>`)
	if f == nil {
		b.WriteString(`<a:bodyPr/><a:lstStyle/><a:p/></p:txBody>`)
		return
	}

	b.WriteString(`<a:bodyPr`)
	if f.Wrap {
		b.WriteString(` wrap="square"`)
	} else {
		b.WriteString(` wrap="none"`)
	}
	fmt.Fprintf(b, ` lIns="%d" tIns="%d" rIns="%d" bIns="%d"`,
		f.Insets.Left, f.Insets.Top, f.Insets.Right, f.Insets.Bottom)
	switch f.Anchor {
	case AnchorTop:
		b.WriteString(` anchor="t"`)
	case AnchorMiddle:
		b.WriteString(` anchor="ctr"`)
	}
	b.WriteString(`>`)
	switch f.AutoFit {
	case AutoFitShape:
		b.WriteString(`<a:spAutoFit/>`)
	case AutoFitText:
		b.WriteString(`<a:normAutofit/>`)
	default:
		b.WriteString(`<a:noAutofit/>`)
	}
	b.WriteString(`</a:bodyPr><a:lstStyle/>`)

	size := ""
	if f.FontSize > 0 {
		size = fmt.Sprintf(` sz="%d"`, f.FontSize*100)
	}
	for _, para := range f.Paragraphs() {
		b.WriteString(`<a:p>`)
		switch f.Align {
		case AlignLeft:
			b.WriteString(`<a:pPr algn="l"/>`)
		case AlignCenter:
			b.WriteString(`<a:pPr algn="ctr"/>`)
		}
		if para != "" {
			fmt.Fprintf(b, `<a:r><a:rPr lang="en-US"%s dirty="0"/><a:t>%s</a:t></a:r>`, size, esc(para))
		}
		fmt.Fprintf(b, `<a:endParaRPr lang="en-US"%s dirty="0"/></a:p>`, size)
	}
	b.WriteString(`</p:txBody>`)
}

func writePicture(b *bytes.Buffer, pic *Picture, rid string) {
	fmt.Fprintf(b, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="%s" descr="%s"/>`, pic.ID, esc(pic.Name), esc(pic.Descr))
	b.WriteString(`<p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`)
	fmt.Fprintf(b, `<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, rid)
	b.WriteString(`<p:spPr>`)
	writeXfrm(b, pic.Geom)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`)
}
