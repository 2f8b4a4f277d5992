package imaging

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/matzehuels/slidesmith/pkg/cache"
	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/httputil"
	"github.com/matzehuels/slidesmith/pkg/ooxml"
)

func testImage(w, h int) image.Image {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	return m
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func TestIsValidRef(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"https://example.com/a.png", true},
		{"http://example.com/a.png", true},
		{"HTTPS://example.com/a.png", true},
		{"ftp://example.com/a.png", false},
		{"/tmp/a.png", false},
		{"file:///tmp/a.png", false},
		{"data:image/png;base64,AAAA", false},
		{"https://", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidRef(tt.ref); got != tt.want {
			t.Errorf("IsValidRef(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
	assert.True(t, IsValidRef("ftp://example.com/a.png", "ftp"))
}

func TestDecode(t *testing.T) {
	img, err := Decode(pngBytes(t, 40, 20))
	require.NoError(t, err)
	assert.Equal(t, "png", img.Ext)
	assert.Equal(t, 40, img.Width)
	assert.Equal(t, 20, img.Height)
	assert.True(t, img.Landscape())

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, testImage(10, 30)))
	img, err = Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "bmp", img.Format)
	assert.Equal(t, "png", img.Ext, "bmp is re-encoded")
	assert.False(t, img.Landscape())
	cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 10, cfg.Width)

	_, err = Decode([]byte("not an image"))
	assert.Error(t, err)
}

// bmpHeader returns the file and info headers of a 24-bit BMP of w x h
// pixels with no pixel data behind them.
func bmpHeader(w, h int32) []byte {
	var buf bytes.Buffer
	buf.WriteString("BM")
	for _, v := range []any{uint32(54), uint32(0), uint32(54), uint32(40), w, h, uint16(1), uint16(24), uint32(0), uint32(0), int32(0), int32(0), uint32(0), uint32(0)} {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

func TestDecodeRejectsHugeImages(t *testing.T) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(bmpHeader(8000, 6000)))
	require.NoError(t, err)
	require.Equal(t, "bmp", format)
	require.Greater(t, cfg.Width*cfg.Height, MaxPixels)

	_, err = Decode(bmpHeader(8000, 6000))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnsupported, errors.GetCode(err))
	assert.Contains(t, err.Error(), "too large")
}

func TestScaleToFit(t *testing.T) {
	box := ooxml.Rect{X: 1000, Y: 2000, W: 8000, H: 4000}
	tests := []struct {
		name string
		w, h int
	}{
		{"wide", 1600, 400},
		{"tall", 300, 900},
		{"square", 50, 50},
		{"same ratio", 2, 1},
		{"tiny", 1, 1},
		{"odd", 333, 777},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ScaleToFit(box, tt.w, tt.h)
			assert.LessOrEqual(t, r.W, box.W)
			assert.LessOrEqual(t, r.H, box.H)
			assert.True(t, r.W == box.W || r.H == box.H, "tight on one axis: %+v", r)
			assert.GreaterOrEqual(t, r.X, box.X)
			assert.GreaterOrEqual(t, r.Y, box.Y)
			assert.LessOrEqual(t, r.Right(), box.Right())
			assert.LessOrEqual(t, r.Bottom(), box.Bottom())
			// Centered to within a unit of rounding.
			assert.InDelta(t, r.X-box.X, box.Right()-r.Right(), 1)
			assert.InDelta(t, r.Y-box.Y, box.Bottom()-r.Bottom(), 1)
		})
	}

	assert.Equal(t, box, ScaleToFit(box, 0, 10))
}

func templateSlide(t *testing.T, layout string) (*catalog.Catalog, *ooxml.Slide) {
	t.Helper()
	c := catalog.Default()
	data, err := catalog.BuildStarterTemplate(c)
	require.NoError(t, err)
	tmpl, err := ooxml.ReadTemplate(data)
	require.NoError(t, err)
	l, ok := tmpl.Layout(c.LayoutIndex(layout))
	require.True(t, ok)
	return c, ooxml.NewDeck(tmpl).AddSlide(l)
}

func TestComposite(t *testing.T) {
	c, slide := templateSlide(t, catalog.ImageOnly)
	id := c.Shapes.Image.Placeholder
	ph, ok := slide.Shape(id)
	require.True(t, ok)
	box := ph.Geom

	img, err := Decode(pngBytes(t, 64, 16))
	require.NoError(t, err)

	comp := NewCompositor(nil)
	require.True(t, comp.Composite(slide, img, id, "chart"))

	_, ok = slide.Shape(id)
	assert.False(t, ok, "placeholder removed")
	require.Len(t, slide.Pictures, 1)
	pic := slide.Pictures[0]
	assert.Equal(t, ScaleToFit(box, 64, 16), pic.Geom)
	assert.Equal(t, "chart", pic.Descr)
	assert.Equal(t, "png", pic.Ext)

	// The placeholder is gone, so a second composite is a no-op.
	assert.False(t, comp.Composite(slide, img, id, ""))
	assert.Len(t, slide.Pictures, 1)
}

func TestFetcherCachesDownloads(t *testing.T) {
	var hits atomic.Int32
	payload := pngBytes(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(payload)
	}))
	defer srv.Close()

	mem := cache.NewMemoryCache()
	f := NewFetcher(httputil.NewClient(httputil.Options{}), FetcherOptions{Cache: mem})

	for i := 0; i < 3; i++ {
		data, ok := f.Fetch(context.Background(), srv.URL+"/a.png")
		require.True(t, ok)
		assert.Equal(t, payload, data)
	}
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 1, mem.Len())
}

func TestFetcherRejectsAndFails(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(httputil.NewClient(httputil.Options{}), FetcherOptions{})

	_, ok := f.Fetch(context.Background(), "ftp://example.com/a.png")
	assert.False(t, ok)
	_, ok = f.Fetch(context.Background(), srv.URL)
	assert.False(t, ok)
	assert.Equal(t, int32(1), hits.Load(), "single attempt")
}

type stubSource struct {
	data  map[string][]byte
	delay time.Duration
	calls atomic.Int32
}

func (s *stubSource) Fetch(ctx context.Context, ref string) ([]byte, bool) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, false
		}
	}
	d, ok := s.data[ref]
	return d, ok
}

func TestPrefetch(t *testing.T) {
	src := &stubSource{data: map[string][]byte{
		"a": pngBytes(t, 8, 4),
		"b": []byte("garbage"),
		"c": pngBytes(t, 4, 8),
	}}
	refs := []string{"a", "", "b", "missing", "c"}

	b := Prefetch(context.Background(), src, refs, PrefetchOptions{Workers: 2})
	assert.Equal(t, len(refs), b.Len())

	ctx := context.Background()
	img, ok := b.Wait(ctx, 0)
	require.True(t, ok)
	assert.True(t, img.Landscape())

	for _, i := range []int{1, 2, 3} {
		_, ok := b.Wait(ctx, i)
		assert.False(t, ok, "slot %d", i)
	}
	img, ok = b.Wait(ctx, 4)
	require.True(t, ok)
	assert.False(t, img.Landscape())

	_, ok = b.Wait(ctx, 99)
	assert.False(t, ok)

	<-b.Done()
	assert.Equal(t, int32(4), src.calls.Load(), "empty refs are not fetched")
}

func TestPrefetchTimeout(t *testing.T) {
	src := &stubSource{data: map[string][]byte{"a": pngBytes(t, 2, 2)}, delay: time.Second}
	b := Prefetch(context.Background(), src, []string{"a"}, PrefetchOptions{Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, ok := b.Wait(context.Background(), 0)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
