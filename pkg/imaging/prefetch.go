package imaging

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Source returns the bytes behind an image reference. [Fetcher] implements
// it.
type Source interface {
	Fetch(ctx context.Context, ref string) ([]byte, bool)
}

// PrefetchOptions configure [Prefetch].
type PrefetchOptions struct {
	// Workers bounds concurrent fetches. Defaults to 4.
	Workers int
	// Timeout bounds each fetch. Defaults to 10 seconds.
	Timeout time.Duration
	Logger  *log.Logger
}

// Batch holds one result slot per prefetched reference.
type Batch struct {
	slots []slot
	done  chan struct{}
}

type slot struct {
	img   *Image
	ready chan struct{}
}

// Prefetch starts fetching and decoding every non-empty ref in the
// background and returns immediately. Slot i of the returned batch belongs
// to refs[i]; an empty ref resolves at once to no image.
func Prefetch(ctx context.Context, src Source, refs []string, opts PrefetchOptions) *Batch {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	b := &Batch{slots: make([]slot, len(refs)), done: make(chan struct{})}
	for i := range b.slots {
		b.slots[i].ready = make(chan struct{})
	}

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	go func() {
		defer close(b.done)
		for i, ref := range refs {
			s := &b.slots[i]
			if ref == "" {
				close(s.ready)
				continue
			}
			g.Go(func() error {
				defer close(s.ready)
				fctx, cancel := context.WithTimeout(ctx, opts.Timeout)
				defer cancel()

				data, ok := src.Fetch(fctx, ref)
				if !ok {
					return nil
				}
				img, err := Decode(data)
				if err != nil {
					logger.Error("cannot open image", "url", ref, "err", err)
					return nil
				}
				s.img = img
				return nil
			})
		}
		_ = g.Wait()
	}()
	return b
}

// Len returns the number of slots.
func (b *Batch) Len() int { return len(b.slots) }

// Wait blocks until slot i is resolved or ctx is done and returns its
// image. It reports false for an out-of-range slot, a failed fetch or a
// cancelled wait.
func (b *Batch) Wait(ctx context.Context, i int) (*Image, bool) {
	if i < 0 || i >= len(b.slots) {
		return nil, false
	}
	s := &b.slots[i]
	select {
	case <-s.ready:
		return s.img, s.img != nil
	case <-ctx.Done():
		return nil, false
	}
}

// Done is closed once every slot is resolved.
func (b *Batch) Done() <-chan struct{} { return b.done }
