package strategy

import (
	"context"
	"fmt"

	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/textproc"
)

// Image is a picture slide for a section's root image. The image itself is
// prefetched; Section selects its slot in the Env's [ImageSet].
type Image struct {
	Section     int
	URL         string
	Title       string
	Description string
}

func (Image) Kind() Kind { return KindImage }

func (i Image) Describe() string { return fmt.Sprintf("Image %s", i.URL) }

// Layout returns the layout for an image of the given orientation.
func (i Image) Layout(landscape bool) string {
	switch {
	case textproc.StripMarkup(i.Description) == "":
		return catalog.ImageOnly
	case landscape:
		return catalog.ImageWithDescriptionW
	default:
		return catalog.ImageWithDescriptionT
	}
}

func (i Image) Emit(ctx context.Context, env *Env, seq int) int {
	if env.Images == nil {
		env.Logger.Warn("no image source, skipping image slide", "url", i.URL)
		return 0
	}
	img, ok := env.Images.Wait(ctx, i.Section)
	if !ok {
		env.Logger.Warn("skipping image slide", "url", i.URL, "section", i.Section)
		return 0
	}

	c := env.Catalog
	descr := textproc.StripMarkup(i.Description)
	s := env.addSlide(i.Layout(img.Landscape()), seq+1)
	if s == nil {
		return 0
	}

	env.Compositor.Composite(s, img, c.Shapes.Image.Placeholder, descr)

	title := i.Title
	if title == "" {
		title = c.Labels.ImageTitle
	}
	env.title(s, c.Shapes.Image.Title, title, false)
	if descr != "" {
		env.bind(s, c.Shapes.Image.Description, descr, catalog.RoleContent)
	}
	env.finish(s)
	return 1
}
