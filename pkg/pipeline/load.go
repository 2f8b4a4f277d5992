package pipeline

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/observability"
	"github.com/matzehuels/slidesmith/pkg/ooxml"
	"github.com/matzehuels/slidesmith/pkg/outline"
)

// StdinPath names standard input in place of an outline file.
const StdinPath = "-"

// Load decodes the outline file at path, or standard input when path is
// "-". An empty format is inferred from the file extension.
func Load(ctx context.Context, path string, format outline.Format) (*outline.Outline, error) {
	var (
		data []byte
		err  error
	)
	if path == StdinPath {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read outline %s", path)
	}
	if format == "" {
		format = outline.FormatFromPath(path)
	}
	return Decode(ctx, data, format)
}

// Decode parses outline bytes in the given format and reports the parse to
// the pipeline hooks.
func Decode(ctx context.Context, data []byte, format outline.Format) (*outline.Outline, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, string(format))
	start := time.Now()

	o, err := outline.Parse(data, format)
	sections := 0
	if o != nil {
		sections = len(o.Sections)
	}
	hooks.OnParseComplete(ctx, string(format), sections, time.Since(start), err)
	return o, err
}

// LoadTemplate reads the deck template at path.
func LoadTemplate(path string) (*ooxml.Template, error) {
	t, err := ooxml.LoadTemplate(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTemplateLoad, err, "load template %s", path)
	}
	return t, nil
}

// ReadTemplate parses an in-memory deck template.
func ReadTemplate(data []byte) (*ooxml.Template, error) {
	t, err := ooxml.ReadTemplate(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTemplateLoad, err, "read template")
	}
	return t, nil
}
