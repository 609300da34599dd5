package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/classview/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, hit, err := c.Get(ctx, "key"); hit || data != nil || err != nil {
		t.Errorf("Get after Set = (%q, %v, %v), want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	clearer, ok := c.(Clearer)
	if !ok {
		t.Fatal("NullCache should be a Clearer")
	}
	if err := clearer.Clear(ctx); err != nil {
		t.Errorf("Clear: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte(`{"classes":{}}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(data) != `{"classes":{}}` {
		t.Errorf("Get = %s", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero TTL entry should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), time.Hour)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d entries left after Clear", len(entries))
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %s, want %s", c.Dir(), dir)
	}
}

func TestFileCacheClearPrefix(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "classes:a", []byte("a"), time.Hour)
	_ = c.Set(ctx, "classes:b", []byte("b"), time.Hour)
	_ = c.Set(ctx, "artifact:svg", []byte("<svg/>"), time.Hour)
	_ = c.Set(ctx, "artifact:old", []byte("x"), time.Nanosecond)
	time.Sleep(2 * time.Millisecond)

	if err := c.ClearPrefix(ctx, "classes:"); err != nil {
		t.Fatalf("ClearPrefix: %v", err)
	}
	for key, want := range map[string]bool{
		"classes:a":    false,
		"classes:b":    false,
		"artifact:svg": true,
	} {
		if _, hit, _ := c.Get(ctx, key); hit != want {
			t.Errorf("Get(%q) hit = %v, want %v", key, hit, want)
		}
	}
	if _, err := os.Stat(c.path("artifact:old")); !os.IsNotExist(err) {
		t.Error("expired entry should be swept by ClearPrefix")
	}
}

func TestScopedFileCacheClearsOnlyItsScope(t *testing.T) {
	ctx := context.Background()
	fc, _ := NewFileCache(t.TempDir())
	alice := Scoped(fc, "alice:")
	bob := Scoped(fc, "bob:")

	_ = alice.Set(ctx, "k", []byte("a"), time.Hour)
	_ = bob.Set(ctx, "k", []byte("b"), time.Hour)

	if err := alice.(Clearer).Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := alice.Get(ctx, "k"); hit {
		t.Error("alice's entry survived")
	}
	if data, hit, _ := bob.Get(ctx, "k"); !hit || string(data) != "b" {
		t.Errorf("bob's entry = %q, hit %v", data, hit)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestClassesKey(t *testing.T) {
	k1 := ClassesKey("http://backend", "tok-a", "models.py")
	k2 := ClassesKey("http://backend", "tok-b", "models.py")
	k3 := ClassesKey("http://backend", "tok-a", "views.py")

	if !strings.HasPrefix(k1, "classes:") {
		t.Errorf("ClassesKey should be namespaced: %s", k1)
	}
	if k1 == k2 {
		t.Error("different tokens should produce different keys")
	}
	if k1 == k3 {
		t.Error("different files should produce different keys")
	}
	if k1 != ClassesKey("http://backend", "tok-a", "models.py") {
		t.Error("ClassesKey should be deterministic")
	}
}

type recordingCache struct {
	NullCache
	keys    []string
	prefix  string
	cleared bool
}

func (c *recordingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.keys = append(c.keys, key)
	return nil, false, nil
}

func (c *recordingCache) ClearPrefix(_ context.Context, prefix string) error {
	c.prefix = prefix
	c.cleared = true
	return nil
}

func TestScopedCache(t *testing.T) {
	ctx := context.Background()
	inner := &recordingCache{}
	c := Scoped(inner, "user:123:")

	_, _, _ = c.Get(ctx, "classes:abc")
	if len(inner.keys) != 1 || inner.keys[0] != "user:123:classes:abc" {
		t.Errorf("inner keys = %v", inner.keys)
	}

	if err := c.(Clearer).Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if !inner.cleared || inner.prefix != "user:123:" {
		t.Errorf("ClearPrefix called with %q", inner.prefix)
	}
}

func TestScopedCacheNilInner(t *testing.T) {
	c := Scoped(nil, "prefix:")
	if _, hit, err := c.Get(context.Background(), "k"); hit || err != nil {
		t.Errorf("nil inner: hit %v, err %v", hit, err)
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *countingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestInstrumentedCache(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	fc, _ := NewFileCache(t.TempDir())
	c := Instrumented(fc, "classes")

	_, _, _ = c.Get(ctx, "k")
	_ = c.Set(ctx, "k", []byte("v"), time.Hour)
	_, _, _ = c.Get(ctx, "k")

	if hooks.hits != 1 || hooks.misses != 1 || hooks.sets != 1 {
		t.Errorf("hits=%d misses=%d sets=%d, want 1 each", hooks.hits, hooks.misses, hooks.sets)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Options{Backend: BackendFile, Dir: t.TempDir(), Prefix: "cli:"})
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	defer c.Close()
	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Error("file cache from Open should store entries")
	}

	if _, err := Open(ctx, Options{Backend: BackendNone}); err != nil {
		t.Errorf("Open(none): %v", err)
	}
	if _, err := Open(ctx, Options{Backend: "memcached"}); err == nil {
		t.Error("Open(memcached) should fail")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("CLASSVIEW_TEST_REDIS")
	if addr == "" {
		t.Skip("CLASSVIEW_TEST_REDIS not set")
	}
	ctx := context.Background()
	rc, err := NewRedisCache(ctx, RedisOptions{Addr: addr})
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	c := Scoped(rc, "classview-test:")
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if data, hit, err := c.Get(ctx, "k"); err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.(Clearer).Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Clear")
	}
}
