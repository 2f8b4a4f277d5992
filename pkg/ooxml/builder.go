package ooxml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strconv"
)

// Common slide sizes in EMU.
const (
	Widescreen16x9W = 12192000
	Widescreen16x9H = 6858000
)

// TemplateSpec describes a template to generate with [BuildTemplate].
type TemplateSpec struct {
	SlideW, SlideH int64
	Layouts        []LayoutSpec
}

// LayoutSpec describes one generated layout.
type LayoutSpec struct {
	Name   string
	Shapes []ShapeSpec
}

// ShapeSpec describes one placeholder of a generated layout. Ids must be
// unique within a layout and greater than 1.
type ShapeSpec struct {
	ID     int
	Name   string
	Kind   ShapeKind
	Geom   Rect
	Prompt string
	// Fill is an optional theme color name (such as "lt2") used to fill
	// the shape.
	Fill string
}

// BuildTemplate generates a minimal presentation package containing one
// slide master, the given layouts and no slides.
func BuildTemplate(spec TemplateSpec) ([]byte, error) {
	if len(spec.Layouts) == 0 {
		return nil, fmt.Errorf("template needs at least one layout")
	}
	if spec.SlideW <= 0 || spec.SlideH <= 0 {
		spec.SlideW, spec.SlideH = Widescreen16x9W, Widescreen16x9H
	}
	for _, l := range spec.Layouts {
		seen := map[int]bool{}
		for _, s := range l.Shapes {
			if s.ID <= 1 || seen[s.ID] {
				return nil, fmt.Errorf("layout %q: invalid or duplicate shape id %d", l.Name, s.ID)
			}
			seen[s.ID] = true
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	add := func(name string, data []byte) error { return writePart(zw, name, data) }

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", builderContentTypes(len(spec.Layouts))},
		{"_rels/.rels", builderRels([]xRelationship{{ID: "rId1", Type: relTypeOfficeDoc, Target: "ppt/presentation.xml"}})},
		{"ppt/presentation.xml", builderPresentation(spec)},
		{"ppt/_rels/presentation.xml.rels", builderRels([]xRelationship{
			{ID: "rId1", Type: relTypeSlideMaster, Target: "slideMasters/slideMaster1.xml"},
			{ID: "rId2", Type: relTypeTheme, Target: "theme/theme1.xml"},
		})},
		{"ppt/slideMasters/slideMaster1.xml", builderMaster(spec)},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", builderMasterRels(len(spec.Layouts))},
		{"ppt/theme/theme1.xml", []byte(themeXML)},
	}
	for _, p := range parts {
		if err := add(p.name, p.data); err != nil {
			return nil, err
		}
	}

	for i, l := range spec.Layouts {
		n := strconv.Itoa(i + 1)
		if err := add("ppt/slideLayouts/slideLayout"+n+".xml", builderLayout(l)); err != nil {
			return nil, err
		}
		rels := builderRels([]xRelationship{{ID: "rId1", Type: relTypeSlideMaster, Target: "../slideMasters/slideMaster1.xml"}})
		if err := add("ppt/slideLayouts/_rels/slideLayout"+n+".xml.rels", rels); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func builderContentTypes(layouts int) []byte {
	ct := xTypes{
		Defaults: []xDefault{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: ctXML},
		},
		Overrides: []xOverride{
			{PartName: "/ppt/presentation.xml", ContentType: ctPresentation},
			{PartName: "/ppt/slideMasters/slideMaster1.xml", ContentType: ctSlideMaster},
			{PartName: "/ppt/theme/theme1.xml", ContentType: ctTheme},
		},
	}
	for i := 1; i <= layouts; i++ {
		ct.Overrides = append(ct.Overrides, xOverride{
			PartName:    "/ppt/slideLayouts/slideLayout" + strconv.Itoa(i) + ".xml",
			ContentType: ctSlideLayout,
		})
	}
	b, _ := marshalPart(ct)
	return b
}

func builderRels(rels []xRelationship) []byte {
	b, _ := marshalPart(xRelationships{Rels: rels})
	return b
}

func builderMasterRels(layouts int) []byte {
	var rels []xRelationship
	for i := 1; i <= layouts; i++ {
		rels = append(rels, xRelationship{
			ID:     "rId" + strconv.Itoa(i),
			Type:   relTypeSlideLayout,
			Target: "../slideLayouts/slideLayout" + strconv.Itoa(i) + ".xml",
		})
	}
	rels = append(rels, xRelationship{
		ID:     "rId" + strconv.Itoa(layouts+1),
		Type:   relTypeTheme,
		Target: "../theme/theme1.xml",
	})
	return builderRels(rels)
}

func builderPresentation(spec TemplateSpec) []byte {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation ` + slideNamespaces + ` saveSubsetFonts="1">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, spec.SlideW, spec.SlideH)
	fmt.Fprintf(&b, `<p:notesSz cx="%d" cy="%d"/>`, spec.SlideH, spec.SlideW)
	b.WriteString(`</p:presentation>`)
	return b.Bytes()
}

func builderMaster(spec TemplateSpec) []byte {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sldMaster ` + slideNamespaces + `><p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)

	margin := spec.SlideW / 16
	title := Rect{X: margin, Y: spec.SlideH / 20, W: spec.SlideW - 2*margin, H: spec.SlideH / 6}
	body := Rect{X: margin, Y: title.Bottom() + spec.SlideH/24, W: title.W, H: spec.SlideH - title.Bottom() - spec.SlideH/6}
	writeMasterPlaceholder(&b, 2, "Title Placeholder 1", "title", title, "Click to edit Master title style")
	writeMasterPlaceholder(&b, 3, "Text Placeholder 2", "body", body, "Click to edit Master text styles")

	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" ` +
		`accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`)
	b.WriteString(`<p:sldLayoutIdLst>`)
	for i := range spec.Layouts {
		fmt.Fprintf(&b, `<p:sldLayoutId id="%d" r:id="rId%d"/>`, 2147483649+i, i+1)
	}
	b.WriteString(`</p:sldLayoutIdLst></p:sldMaster>`)
	return b.Bytes()
}

func writeMasterPlaceholder(b *bytes.Buffer, id int, name, typ string, r Rect, prompt string) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`, id, esc(name))
	fmt.Fprintf(b, `<p:nvPr><p:ph type="%s"/></p:nvPr></p:nvSpPr><p:spPr>`, typ)
	writeXfrm(b, r)
	b.WriteString(`</p:spPr><p:txBody><a:bodyPr/><a:lstStyle/>`)
	fmt.Fprintf(b, `<a:p><a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`, esc(prompt))
}

func builderLayout(l LayoutSpec) []byte {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:sldLayout %s preserve="1"><p:cSld name="%s"><p:spTree>`, slideNamespaces, esc(l.Name))
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	for _, s := range l.Shapes {
		fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`, s.ID, esc(s.Name))
		if s.Kind == KindPicture {
			fmt.Fprintf(&b, `<p:nvPr><p:ph type="pic" idx="%d"/></p:nvPr></p:nvSpPr><p:spPr>`, s.ID)
		} else {
			fmt.Fprintf(&b, `<p:nvPr><p:ph type="body" sz="quarter" idx="%d"/></p:nvPr></p:nvSpPr><p:spPr>`, s.ID)
		}
		writeXfrm(&b, s.Geom)
		if s.Fill != "" {
			b.WriteString(`<a:prstGeom prst="roundRect"><a:avLst/></a:prstGeom>`)
			fmt.Fprintf(&b, `<a:solidFill><a:schemeClr val="%s"/></a:solidFill>`, esc(s.Fill))
		}
		b.WriteString(`</p:spPr>`)
		if s.Kind == KindText {
			b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/><a:p>`)
			if s.Prompt != "" {
				fmt.Fprintf(&b, `<a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r>`, esc(s.Prompt))
			}
			b.WriteString(`</a:p></p:txBody>`)
		}
		b.WriteString(`</p:sp>`)
	}
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`)
	return b.Bytes()
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const themeXML = xmlHeader + `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Slidesmith">` +
	`<a:themeElements>` +
	`<a:clrScheme name="Slidesmith">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
	`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="1F2937"/></a:dk2>` +
	`<a:lt2><a:srgbClr val="F3F4F6"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="2563EB"/></a:accent1>` +
	`<a:accent2><a:srgbClr val="7C3AED"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="059669"/></a:accent3>` +
	`<a:accent4><a:srgbClr val="D97706"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="DC2626"/></a:accent5>` +
	`<a:accent6><a:srgbClr val="0891B2"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="2563EB"/></a:hlink>` +
	`<a:folHlink><a:srgbClr val="7C3AED"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="Slidesmith">` +
	`<a:majorFont><a:latin typeface="Calibri Light"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="Slidesmith">` +
	`<a:fillStyleLst>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`</a:fillStyleLst>` +
	`<a:lnStyleLst>` +
	`<a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`</a:lnStyleLst>` +
	`<a:effectStyleLst>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`</a:effectStyleLst>` +
	`<a:bgFillStyleLst>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`</a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements>` +
	`<a:objectDefaults/><a:extraClrSchemeLst/>` +
	`</a:theme>`
