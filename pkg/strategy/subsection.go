package strategy

import (
	"context"
	"fmt"
	"strconv"

	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/outline"
)

// SubSection shows one to five summary/detail items side by side.
type SubSection struct {
	Title string
	Items []outline.Bullet
}

func (SubSection) Kind() Kind { return KindSubSection }

func (s SubSection) Describe() string {
	return fmt.Sprintf("Sub-section %q (%d items)", s.Title, len(s.Items))
}

// itemText joins an item's summary and detail on separate lines, or
// returns the detail alone when there is no summary.
func itemText(b outline.Bullet) string {
	if b.Summary == "" {
		return b.Detail
	}
	return b.Summary + "\n" + b.Detail
}

func (s SubSection) Emit(ctx context.Context, env *Env, seq int) int {
	n := len(s.Items)
	if n == 0 {
		env.Logger.Debug("empty sub-section, skipping", "title", s.Title)
		return 0
	}
	layout, ok := catalog.SubSectionLayout(n)
	if !ok {
		env.Logger.Warn("unsupported sub-section item count", "title", s.Title, "items", n)
		return 0
	}

	slide := env.addSlide(layout, seq+1)
	if slide == nil {
		return 0
	}
	c := env.Catalog
	env.title(slide, c.Shapes.SubSection.Title, s.Title, false)

	switch n {
	case 1:
		ids, _ := c.SubSectionItems(1)
		if len(ids) > 0 {
			env.bind(slide, ids[0], s.Items[0].Detail, catalog.RoleContent)
		}
	case 5:
		for i, p := range c.Shapes.SubSection.Numbered {
			if i >= n {
				break
			}
			env.bind(slide, p.Num, strconv.Itoa(i+1), catalog.RoleSmall)
			env.bind(slide, p.Text, s.Items[i].Summary+"\n"+s.Items[i].Detail, catalog.RoleContent)
		}
	default:
		ids, _ := c.SubSectionItems(n)
		for i, id := range ids {
			if i >= n {
				break
			}
			env.bind(slide, id, itemText(s.Items[i]), catalog.RoleContent)
		}
	}
	env.finish(slide)
	return 1
}
