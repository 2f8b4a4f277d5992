package imaging

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/slidesmith/pkg/errors"
)

// Image is a decoded image ready to be placed on a slide.
type Image struct {
	Data   []byte
	Ext    string // png, jpeg or gif
	Width  int
	Height int
	// Format is the format the bytes arrived in.
	Format string
}

// Landscape reports whether the image is wider than it is tall.
func (img *Image) Landscape() bool { return img.Width > img.Height }

// MaxPixels caps the area of an image Decode accepts.
const MaxPixels = 40_000_000

// native lists the formats a deck can embed as-is.
var native = map[string]bool{"png": true, "jpeg": true, "gif": true}

// Decode reads the dimensions and format of data. PNG, JPEG and GIF bytes
// are kept unchanged; BMP, TIFF and WebP are re-encoded as PNG.
func Decode(data []byte) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "decode image")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New(errors.ErrCodeUnsupported, "image has no area (%dx%d)", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, errors.New(errors.ErrCodeUnsupported, "image too large (%dx%d)", cfg.Width, cfg.Height)
	}

	img := &Image{Data: data, Ext: format, Width: cfg.Width, Height: cfg.Height, Format: format}
	if native[format] {
		return img, nil
	}

	m, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "decode %s image", format)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "re-encode %s image", format)
	}
	img.Data, img.Ext = buf.Bytes(), "png"
	return img, nil
}
