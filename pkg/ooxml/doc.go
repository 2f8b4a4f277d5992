// Package ooxml reads PresentationML templates and writes generated decks.
//
// # Templates
//
// [LoadTemplate] opens a .pptx file and indexes the layouts of its first
// slide master, in master order. Each [Layout] lists its placeholders with
// the shape id and name from the layout part and a geometry resolved from
// the layout or, when the layout omits it, from the master placeholder of
// the same type. Date, footer and slide-number placeholders are ignored.
//
// # Decks
//
// A [Deck] is built by appending slides with [Deck.AddSlide]. A new slide
// receives a copy of its layout's placeholders, keeping their ids and
// names, so callers address shapes exactly as they appear in the layout:
//
//	deck := ooxml.NewDeck(tmpl)
//	layout, _ := tmpl.Layout(1)
//	slide := deck.AddSlide(layout)
//	if sh, ok := slide.Shape(2); ok {
//	    sh.Text = &ooxml.TextFrame{Text: "Quarterly Review", FontSize: 26}
//	}
//	err := deck.Save("out/Quarterly Review.pptx")
//
// Writing copies every template part except its own slides, rewrites the
// presentation's slide list, relationships and content types, and adds one
// part per generated slide plus its pictures.
//
// # Starter templates
//
// [BuildTemplate] generates a minimal but complete package from a
// [TemplateSpec], so a deck can be produced without a designer template.
package ooxml
