package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
)

// Relationship and content types used when reading and writing packages.
const (
	relTypeOfficeDoc   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctRels         = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML          = "application/xml"
)

// Placeholder types that are not cloned onto new slides.
var skippedPlaceholders = map[string]bool{"dt": true, "ftr": true, "sldNum": true}

// Rect is a shape's position and size in EMU.
type Rect struct {
	X, Y, W, H int64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() int64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() int64 { return r.Y + r.H }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// ShapeKind distinguishes text placeholders from picture placeholders.
type ShapeKind int

const (
	KindText ShapeKind = iota
	KindPicture
)

func (k ShapeKind) String() string {
	if k == KindPicture {
		return "picture"
	}
	return "text"
}

// Shape is a placeholder defined by a layout.
type Shape struct {
	ID     int
	Name   string
	Kind   ShapeKind
	PhType string // placeholder type; empty means body
	PhIdx  string
	Geom   Rect
}

// Layout is one slide layout of a template, in slide master order.
type Layout struct {
	Index  int
	Name   string
	Part   string
	Shapes []Shape
}

// Shape returns the layout shape with the given id.
func (l *Layout) Shape(id int) (Shape, bool) {
	for _, s := range l.Shapes {
		if s.ID == id {
			return s, true
		}
	}
	return Shape{}, false
}

// ShapeIDs returns the ids of the layout's placeholders in ascending order.
func (l *Layout) ShapeIDs() []int {
	ids := make([]int, 0, len(l.Shapes))
	for _, s := range l.Shapes {
		ids = append(ids, s.ID)
	}
	sort.Ints(ids)
	return ids
}

// Template is a read-only presentation package whose layouts new slides are
// built from. It is safe for concurrent reads.
type Template struct {
	Path    string
	SlideW  int64
	SlideH  int64
	Layouts []*Layout

	parts map[string][]byte
	order []string
}

// Layout returns the layout at index i.
func (t *Template) Layout(i int) (*Layout, bool) {
	if i < 0 || i >= len(t.Layouts) {
		return nil, false
	}
	return t.Layouts[i], true
}

// LoadTemplate reads a .pptx file from disk.
func LoadTemplate(p string) (*Template, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	t, err := ReadTemplate(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	t.Path = p
	return t, nil
}

// ReadTemplate parses a .pptx package held in memory.
func ReadTemplate(data []byte) (*Template, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}

	t := &Template{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		b, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		t.parts[f.Name] = b
		t.order = append(t.order, f.Name)
	}

	if err := t.parse(); err != nil {
		return nil, err
	}
	return t, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// =============================================================================
// Package parsing
// =============================================================================

type xRelationships struct {
	XMLName xml.Name        `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Rels    []xRelationship `xml:"Relationship"`
}

type xRelationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

type xIDRef struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type xPresentation struct {
	Masters []xIDRef `xml:"sldMasterIdLst>sldMasterId"`
	SldSz   struct {
		Cx int64 `xml:"cx,attr"`
		Cy int64 `xml:"cy,attr"`
	} `xml:"sldSz"`
}

type xMaster struct {
	CSld    xCSld    `xml:"cSld"`
	Layouts []xIDRef `xml:"sldLayoutIdLst>sldLayoutId"`
}

type xLayout struct {
	CSld xCSld `xml:"cSld"`
}

type xCSld struct {
	Name string `xml:"name,attr"`
	Tree struct {
		Shapes []xSp `xml:"sp"`
	} `xml:"spTree"`
}

type xSp struct {
	NvSpPr struct {
		CNvPr struct {
			ID   int    `xml:"id,attr"`
			Name string `xml:"name,attr"`
		} `xml:"cNvPr"`
		NvPr struct {
			Ph *struct {
				Type string `xml:"type,attr"`
				Idx  string `xml:"idx,attr"`
			} `xml:"ph"`
		} `xml:"nvPr"`
	} `xml:"nvSpPr"`
	SpPr struct {
		Xfrm *xXfrm `xml:"xfrm"`
	} `xml:"spPr"`
}

type xXfrm struct {
	Off struct {
		X int64 `xml:"x,attr"`
		Y int64 `xml:"y,attr"`
	} `xml:"off"`
	Ext struct {
		Cx int64 `xml:"cx,attr"`
		Cy int64 `xml:"cy,attr"`
	} `xml:"ext"`
}

func (x *xXfrm) rect() Rect {
	return Rect{X: x.Off.X, Y: x.Off.Y, W: x.Ext.Cx, H: x.Ext.Cy}
}

func (t *Template) unmarshal(part string, v any) error {
	b, ok := t.parts[part]
	if !ok {
		return fmt.Errorf("missing part %s", part)
	}
	if err := xml.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", part, err)
	}
	return nil
}

// rels returns the relationships of part, keyed by id, with targets resolved
// to package part names.
func (t *Template) rels(part string) (map[string]xRelationship, error) {
	var rs xRelationships
	if err := t.unmarshal(relsPart(part), &rs); err != nil {
		return nil, err
	}
	out := make(map[string]xRelationship, len(rs.Rels))
	for _, r := range rs.Rels {
		if r.TargetMode != "External" {
			r.Target = resolveTarget(part, r.Target)
		}
		out[r.ID] = r
	}
	return out, nil
}

func relsPart(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

func (t *Template) mainPart() (string, error) {
	rels, err := t.rels("")
	if err != nil {
		return "", err
	}
	for _, r := range rels {
		if r.Type == relTypeOfficeDoc {
			return r.Target, nil
		}
	}
	return "", fmt.Errorf("package has no office document relationship")
}

func (t *Template) parse() error {
	main, err := t.mainPart()
	if err != nil {
		return err
	}

	var pres xPresentation
	if err := t.unmarshal(main, &pres); err != nil {
		return err
	}
	t.SlideW, t.SlideH = pres.SldSz.Cx, pres.SldSz.Cy
	if len(pres.Masters) == 0 {
		return fmt.Errorf("presentation has no slide master")
	}

	presRels, err := t.rels(main)
	if err != nil {
		return err
	}
	masterRel, ok := presRels[pres.Masters[0].RID]
	if !ok {
		return fmt.Errorf("slide master relationship %s not found", pres.Masters[0].RID)
	}

	var master xMaster
	if err := t.unmarshal(masterRel.Target, &master); err != nil {
		return err
	}
	masterRels, err := t.rels(masterRel.Target)
	if err != nil {
		return err
	}
	inherited := masterGeometry(master.CSld.Tree.Shapes)

	for i, ref := range master.Layouts {
		rel, ok := masterRels[ref.RID]
		if !ok {
			return fmt.Errorf("layout relationship %s not found", ref.RID)
		}
		var xl xLayout
		if err := t.unmarshal(rel.Target, &xl); err != nil {
			return err
		}
		t.Layouts = append(t.Layouts, &Layout{
			Index:  i,
			Name:   xl.CSld.Name,
			Part:   rel.Target,
			Shapes: layoutShapes(xl.CSld.Tree.Shapes, inherited),
		})
	}
	if len(t.Layouts) == 0 {
		return fmt.Errorf("slide master has no layouts")
	}
	return nil
}

// masterGeometry indexes the master's placeholder positions by type so that
// layout placeholders without their own xfrm can inherit one.
func masterGeometry(shapes []xSp) map[string]Rect {
	out := map[string]Rect{}
	for _, sp := range shapes {
		ph := sp.NvSpPr.NvPr.Ph
		if ph == nil || sp.SpPr.Xfrm == nil {
			continue
		}
		typ := ph.Type
		if typ == "" {
			typ = "body"
		}
		out[typ] = sp.SpPr.Xfrm.rect()
	}
	return out
}

func layoutShapes(shapes []xSp, inherited map[string]Rect) []Shape {
	var out []Shape
	for _, sp := range shapes {
		ph := sp.NvSpPr.NvPr.Ph
		if ph == nil || skippedPlaceholders[ph.Type] {
			continue
		}
		s := Shape{
			ID:     sp.NvSpPr.CNvPr.ID,
			Name:   sp.NvSpPr.CNvPr.Name,
			PhType: ph.Type,
			PhIdx:  ph.Idx,
		}
		if ph.Type == "pic" {
			s.Kind = KindPicture
		}
		switch {
		case sp.SpPr.Xfrm != nil:
			s.Geom = sp.SpPr.Xfrm.rect()
		case ph.Type == "ctrTitle":
			s.Geom = inherited["title"]
		case ph.Type == "subTitle" || ph.Type == "obj" || ph.Type == "pic":
			s.Geom = inherited["body"]
		default:
			typ := ph.Type
			if typ == "" {
				typ = "body"
			}
			s.Geom = inherited[typ]
		}
		out = append(out, s)
	}
	return out
}
