package cache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return miss")
	}
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if _, hit, err := c.Get(ctx, "plan:abc"); hit || err != nil {
		t.Fatalf("Get on empty cache = %v, %v", hit, err)
	}
	if err := c.Set(ctx, "plan:abc", []byte("payload"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "plan:abc")
	if err != nil || !hit || !bytes.Equal(data, []byte("payload")) {
		t.Errorf("Get() = %q, %v, %v, want payload, true, nil", data, hit, err)
	}

	if err := c.Delete(ctx, "plan:abc"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "plan:abc"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "plan:abc"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("v"), 0)

	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry Get() = %v, %v, want miss", hit, err)
	}
}

func TestFileCachePathLayout(t *testing.T) {
	c, _ := NewFileCache("/tmp/sf")
	p := c.path("key")
	h := Hash([]byte("key"))
	if !strings.HasSuffix(p, h[:2]+"/"+h[2:]+".json") {
		t.Errorf("path(key) = %s", p)
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

	a1 := k.ArrangeKey("m1", ArrangeKeyOpts{Mode: "full", Grid: 50})
	a2 := k.ArrangeKey("m1", ArrangeKeyOpts{Mode: "grid", Grid: 50})
	a3 := k.ArrangeKey("m1", ArrangeKeyOpts{Mode: "full", Grid: 50, Selection: []int{1, 2}})
	if a1 == a2 || a1 == a3 {
		t.Error("Different ArrangeKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(a1, "arrange:") {
		t.Errorf("ArrangeKey() = %s, want arrange: prefix", a1)
	}
	if a1 != k.ArrangeKey("m1", ArrangeKeyOpts{Mode: "full", Grid: 50}) {
		t.Error("ArrangeKey should be deterministic")
	}

	p1, p2 := k.PlanKey("m1"), k.PlanKey("m2")
	if p1 == p2 || !strings.HasPrefix(p1, "plan:") {
		t.Errorf("PlanKey() = %s, %s", p1, p2)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "plant:")

	if got, want := scoped.PlanKey("m"), "plant:"+inner.PlanKey("m"); got != want {
		t.Errorf("PlanKey() = %s, want %s", got, want)
	}
	opts := ArrangeKeyOpts{Mode: "full"}
	if got, want := scoped.ArrangeKey("m", opts), "plant:"+inner.ArrangeKey("m", opts); got != want {
		t.Errorf("ArrangeKey() = %s, want %s", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.PlanKey("m"); !strings.HasPrefix(key, "prefix:plan:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr error
	}{
		{"empty", Config{}, "*cache.NullCache", nil},
		{"none", Config{Backend: BackendNone}, "*cache.NullCache", nil},
		{"file", Config{Backend: BackendFile, Dir: t.TempDir()}, "*cache.FileCache", nil},
		{"unknown", Config{Backend: "memcached"}, "", ErrUnknownBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Open(ctx, tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Open() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer c.Close()
			if got := typeName(c); got != tt.want {
				t.Errorf("Open() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	if !errors.Is(err, ErrBackend) {
		t.Errorf("NewRedisCache() error = %v, want %v", err, ErrBackend)
	}
}

func TestMongoCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, uri := range []string{"mongodb://127.0.0.1:1", "not-a-uri"} {
		_, err := NewMongoCache(ctx, MongoOptions{URI: uri, Database: "db", Collection: "c", Timeout: 200 * time.Millisecond})
		if !errors.Is(err, ErrBackend) {
			t.Errorf("NewMongoCache(%q) error = %v, want %v", uri, err, ErrBackend)
		}
	}
}

func TestClassifyMongo(t *testing.T) {
	if classifyMongo(nil) != nil {
		t.Error("classifyMongo(nil) should return nil")
	}
	if err := classifyMongo(context.DeadlineExceeded); !IsRetryable(err) || !errors.Is(err, ErrBackend) {
		t.Errorf("timeout should be a retryable backend error, got %v", err)
	}
	plain := errors.New("duplicate key")
	if err := classifyMongo(plain); err != plain {
		t.Errorf("classifyMongo(plain) = %v", err)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrBackend)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrBackend) {
		t.Error("Retryable should unwrap to the original error")
	}
	if IsRetryable(ErrBackend) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond
	ctx := context.Background()

	calls := 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err = %v, calls = %d", err, calls)
	}

	calls = 0
	errPlain := errors.New("plain")
	if err := RetryWithBackoff(ctx, func() error { calls++; return errPlain }); err != errPlain || calls != 1 {
		t.Errorf("non-retryable: err = %v, calls = %d", err, calls)
	}

	calls = 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrBackend)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry: err = %v, calls = %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrBackend) })
	if !errors.Is(err, ErrBackend) || calls != 3 {
		t.Errorf("exhausted: err = %v, calls = %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrBackend) })
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func typeName(c Cache) string {
	switch c.(type) {
	case *NullCache:
		return "*cache.NullCache"
	case *FileCache:
		return "*cache.FileCache"
	case *RedisCache:
		return "*cache.RedisCache"
	case *MongoCache:
		return "*cache.MongoCache"
	}
	return "unknown"
}
