package strategy

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/textproc"
)

// References lists citations, a fixed number per slide, numbered
// continuously across slides.
type References struct {
	Entries []string
}

func (References) Kind() Kind { return KindReferences }

func (r References) Describe() string {
	return fmt.Sprintf("References (%d entries)", len(r.Entries))
}

// Pages returns the cleaned entries grouped per slide. Entries past the
// catalog's total cap are dropped.
func (r References) Pages(c *catalog.Catalog) [][]string {
	entries := r.Entries
	if limit := c.Limits.MaxTotalReferences; len(entries) > limit {
		entries = entries[:limit]
	}
	if len(entries) == 0 {
		return nil
	}
	cleaned := lo.Map(entries, func(e string, _ int) string {
		return MergeShortLines(textproc.StripMarkup(e), c.Limits.ReferenceMergeChars)
	})
	return lo.Chunk(cleaned, c.Limits.MaxReferencesPerSlide)
}

// MergeShortLines trims each line of s and joins a line shorter than limit
// runes to the line after it with a space. The following line is consumed
// by the merge, so at most two lines are joined at a time.
func MergeShortLines(s string, limit int) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		cur := strings.TrimSpace(lines[i])
		if utf8.RuneCountInString(cur) < limit && i+1 < len(lines) {
			cur += " " + strings.TrimSpace(lines[i+1])
			i++
		}
		out = append(out, cur)
	}
	return strings.Join(out, "\n")
}

func (r References) Emit(ctx context.Context, env *Env, seq int) int {
	c := env.Catalog
	pages := r.Pages(c)
	if len(pages) == 0 {
		env.Logger.Debug("no references, skipping")
		return 0
	}

	slots := c.Shapes.References.Entries
	n, num := 0, 0
	for p, page := range pages {
		s := env.addSlide(catalog.ReferencesPage, seq+n+1)
		if s == nil {
			num += len(page)
			continue
		}
		env.Logger.Debug("references page", "page", p+1, "of", len(pages), "entries", len(page))
		env.title(s, c.Shapes.References.Title, c.Labels.References, false)
		for i, entry := range page {
			num++
			if i >= len(slots) {
				continue
			}
			env.bind(s, slots[i].Num, fmt.Sprintf("%d.", num), catalog.RoleSmall)
			env.bind(s, slots[i].Text, entry, catalog.RoleSmall)
		}
		env.finish(s)
		n++
	}
	return n
}
