package textproc

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup removes tag-like markup from s and trims surrounding space.
// Character references are decoded; comments and doctype declarations are
// dropped. A '<' that cannot open a tag, as in "a < b", is kept.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return strings.TrimSpace(s)
			}
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// StripMarkupAny strips markup from v when it is a string and returns ""
// for every other type. Decoded outline fields are untyped, so this keeps
// malformed nodes from turning into errors.
func StripMarkupAny(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return StripMarkup(s)
}
