// Package outline decodes deck outlines and extracts slide content from them.
//
// # Outline Format
//
// An outline is an optional deck title, an optional flat list of reference
// strings and an ordered list of sections. Each section holds a tree of
// typed content blocks and an optional root image:
//
//	{"type": "h1", "children": [{"text": "Risks"}]}
//	{"type": "p", "children": [{"text": "Three risks stand out."}]}
//	{"type": "bullets", "children": [
//	  {"type": "bullet", "children": [
//	    {"type": "h3", "children": [{"text": "Supply"}]},
//	    {"type": "p",  "children": [{"text": "Two vendors remain single-sourced."}]}
//	  ]}
//	]}
//
// Outlines may be written as JSON, YAML or Markdown; see [Parse] and
// [FromMarkdown]. Decoding is tolerant below the top level: malformed
// blocks normalize to empty values so a single bad node never fails a deck.
//
// # Content Extraction
//
// [ParseContent] flattens a section's blocks into a [Content] record (title,
// body text and summary/detail bullets) with markup stripped.
// [Paragraphs] returns the raw paragraph texts for callers that need them
// unprocessed.
package outline
