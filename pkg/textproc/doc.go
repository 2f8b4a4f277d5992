// Package textproc holds the pure text functions used when binding outline
// content into slide shapes.
//
// # Overview
//
// Everything in this package is deterministic and side-effect free:
//
//   - [StripMarkup]: remove tag-like markup from outline text
//   - [Truncate]: rune-aware truncation with a suffix
//   - [EstimateFontSize]: pick a font size from text length and box size
//   - [Chunk]: sentence-aware splitting of long text into bounded chunks
//   - [EstimateWidth]: per-script width estimate used to size title backgrounds
//
// # Units
//
// Geometry is expressed in EMU (English Metric Units), the unit used by
// PresentationML: 914400 per inch, 12700 per point. Font sizes are points.
//
// # Approximations
//
// [EstimateFontSize] and [EstimateWidth] are heuristics. They use fixed
// per-character widths instead of font metrics, so they need no font files
// and give the same answer on every machine. They are good enough to size a
// decorative background behind a one-line title, not to lay out paragraphs.
package textproc
