package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/slidesmith/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// backends returns one instance of every local backend.
func backends(t *testing.T) map[string]Cache {
	t.Helper()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return map[string]Cache{
		"memory": NewMemoryCache(),
		"file":   fc,
	}
}

func TestBackendsRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Close()

			if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
				t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
			}

			payload := []byte{0x89, 'P', 'N', 'G', 0, 1, 2}
			if err := c.Set(ctx, "k", payload, 0); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, hit, err := c.Get(ctx, "k")
			if err != nil || !hit {
				t.Fatalf("Get(k) = hit %v, err %v", hit, err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("Get(k) = %v, want %v", got, payload)
			}

			if err := c.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, hit, _ := c.Get(ctx, "k"); hit {
				t.Error("entry survived Delete")
			}
			if err := c.Delete(ctx, "k"); err != nil {
				t.Errorf("Delete of missing key: %v", err)
			}
		})
	}
}

func TestBackendsExpiry(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
				t.Fatalf("Set: %v", err)
			}
			time.Sleep(5 * time.Millisecond)
			if _, hit, _ := c.Get(ctx, "short"); hit {
				t.Error("expired entry was returned")
			}
		})
	}
}

func TestMemoryCacheCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	in := []byte("abc")
	_ = c.Set(ctx, "k", in, 0)
	in[0] = 'z'

	out, _, _ := c.Get(ctx, "k")
	if string(out) != "abc" {
		t.Errorf("stored value changed with caller's slice: %q", out)
	}
	out[1] = 'z'
	again, _, _ := c.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value changed with returned slice: %q", again)
	}
}

func TestMemoryCacheConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			_ = c.Set(ctx, key, []byte(key), time.Minute)
			_, _, _ = c.Get(ctx, key)
		}(i)
	}
	wg.Wait()
	if c.Len() != 16 {
		t.Errorf("Len() = %d, want 16", c.Len())
	}
}

func TestFileCacheLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}

	if err := c.Set(ctx, "image:abc", []byte("data"), time.Hour); err != nil {
		t.Fatal(err)
	}
	hash := Hash([]byte("image:abc"))
	if _, err := os.Stat(filepath.Join(dir, hash[:2], hash[2:])); err != nil {
		t.Errorf("entry not at hashed path: %v", err)
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "image:abc"); hit {
		t.Error("entry survived Clear")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte{1, 2}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry was not removed")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	a := k.ImageKey("https://example.com/a.png")
	b := k.ImageKey("https://example.com/b.png")
	if a == b {
		t.Error("different URLs should produce different keys")
	}
	if !strings.HasPrefix(a, "image:") || len(a) != len("image:")+64 {
		t.Errorf("ImageKey unexpected: %s", a)
	}
}

func TestScopedKeyer(t *testing.T) {
	k := NewScopedKeyer(nil, "tenant:")
	base := NewDefaultKeyer()

	url := "https://example.com/a.png"
	if got := k.ImageKey(url); got != "tenant:"+base.ImageKey(url) {
		t.Errorf("ImageKey = %s", got)
	}
}

type recordingHooks struct {
	mu                 sync.Mutex
	hits, misses, sets int
	bytes              int
}

func (h *recordingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *recordingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	h.misses++
	h.mu.Unlock()
}

func (h *recordingHooks) OnCacheSet(_ context.Context, _ string, size int) {
	h.mu.Lock()
	h.sets++
	h.bytes += size
	h.mu.Unlock()
}

func TestInstrumented(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	c := Instrumented(NewMemoryCache(), "image")
	_, _, _ = c.Get(ctx, "k")
	_ = c.Set(ctx, "k", []byte("12345"), 0)
	_, _, _ = c.Get(ctx, "k")

	if hooks.hits != 1 || hooks.misses != 1 || hooks.sets != 1 || hooks.bytes != 5 {
		t.Errorf("hooks = %+v", hooks)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatal("expected an error connecting to a closed port")
	}
	if !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Errorf("error should name the address: %v", err)
	}
}
