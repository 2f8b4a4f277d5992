package outline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/slidesmith/pkg/errors"
)

// Format identifies an outline encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// FormatFromPath guesses the format of an outline file from its extension.
// Unknown extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".md", ".markdown":
		return FormatMarkdown
	}
	return FormatJSON
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatMarkdown:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown outline format %q (want json, yaml or markdown)", s)
}

// Parse decodes an outline in the given format.
//
// JSON and YAML input is decoded tolerantly: the top level must be either an
// object with optional "title", "references" and "sections" keys, or a bare
// array of sections. Anything else is an [errors.ErrCodeInvalidOutline]
// error. Below the top level, missing fields and values of the wrong type
// normalize to empty strings and empty lists; sections keep their positions
// even when malformed.
//
//	{
//	  "title": "Quarterly Review",
//	  "references": ["Doe, J. (2024) ..."],
//	  "sections": [
//	    {"id": "s0", "content": [{"type": "h1", "children": [{"text": "Intro"}]}]},
//	    {"id": "s1", "content": [...], "rootImage": {"url": "https://...", "alt": "..."}}
//	  ]
//	}
func Parse(data []byte, f Format) (*Outline, error) {
	var v any
	switch f {
	case FormatMarkdown:
		return FromMarkdown(data), nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidOutline, err, "decode yaml outline")
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidOutline, err, "decode json outline")
		}
	}
	return FromValue(v)
}

// FromValue normalizes an already decoded generic value (as produced by
// encoding/json or yaml.v3) into an Outline.
func FromValue(v any) (*Outline, error) {
	if list, ok := v.([]any); ok {
		return &Outline{Sections: toSections(list)}, nil
	}
	m, ok := toMap(v)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidOutline, "outline must be an object or an array of sections, got %s", kindOf(v))
	}
	o := &Outline{Title: toString(m["title"])}
	for _, r := range toList(m["references"]) {
		o.References = append(o.References, toString(r))
	}
	o.Sections = toSections(toList(m["sections"]))
	return o, nil
}

func toSections(list []any) []Section {
	out := make([]Section, 0, len(list))
	for _, item := range list {
		m, _ := toMap(item)
		out = append(out, Section{
			ID:         toString(m["id"]),
			Content:    toBlocks(m["content"]),
			RootImage:  toImage(m["rootImage"]),
			LayoutType: toString(m["layoutType"]),
			Alignment:  toString(m["alignment"]),
		})
	}
	return out
}

func toBlocks(v any) []Block {
	list := toList(v)
	if len(list) == 0 {
		return nil
	}
	out := make([]Block, 0, len(list))
	for _, item := range list {
		m, _ := toMap(item)
		out = append(out, Block{
			Type:     toString(m["type"]),
			Text:     toString(m["text"]),
			Children: toBlocks(m["children"]),
		})
	}
	return out
}

func toImage(v any) *ImageRef {
	m, ok := toMap(v)
	if !ok {
		return nil
	}
	bg, _ := m["background"].(bool)
	return &ImageRef{
		URL:        toString(m["url"]),
		Alt:        toString(m["alt"]),
		Query:      toString(m["query"]),
		Background: bg,
	}
}

func toMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

func toList(v any) []any {
	list, _ := v.([]any)
	return list
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64, uint64, json.Number:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
