package fetch

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/seoscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is a CacheStore backed by a map.
type memoryStore struct {
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   []byte
	version int
	ts      int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]memoryEntry)}
}

func (m *memoryStore) Get(key string) ([]byte, int, int64, error) {
	e, ok := m.entries[key]
	if !ok {
		return nil, 0, 0, sql.ErrNoRows
	}
	return e.value, e.version, e.ts, nil
}

func (m *memoryStore) Set(key string, value []byte, version int, timestamp int64) error {
	m.entries[key] = memoryEntry{value, version, timestamp}
	return nil
}

func (m *memoryStore) GetStatus() (schema.CacheStatus, error) {
	return schema.CacheStatus{Backend: "memory", Connected: true, TotalEntries: len(m.entries)}, nil
}

func (m *memoryStore) Close() error { return nil }

const page = `<html><head><title>Test</title></head><body><h1>Hi</h1></body></html>`

func TestFetch(t *testing.T) {
	var hits atomic.Int32
	var agent atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		agent.Store(r.UserAgent())
		switch r.URL.Path {
		case "/redirect":
			http.Redirect(w, r, "/page", http.StatusFound)
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(page))
		case "/big":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(strings.Repeat("a", 2048)))
		case "/json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "seoscore-test", 1024, nil, 0)
	ctx := context.Background()

	t.Run("follows redirects", func(t *testing.T) {
		result, err := fetcher.Fetch(ctx, server.URL+"/redirect")
		require.NoError(t, err)
		assert.Equal(t, page, string(result.Body))
		assert.Equal(t, server.URL+"/page", result.BaseURL)
		assert.Equal(t, server.URL+"/redirect", result.Source)
		assert.Equal(t, "seoscore-test", agent.Load())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := fetcher.Fetch(ctx, server.URL+"/missing")
		assert.ErrorContains(t, err, "HTTP 404")
	})

	t.Run("too large", func(t *testing.T) {
		_, err := fetcher.Fetch(ctx, server.URL+"/big")
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("not html", func(t *testing.T) {
		_, err := fetcher.Fetch(ctx, server.URL+"/json")
		assert.ErrorContains(t, err, "unsupported content type")
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := fetcher.Fetch(ctx, "ftp://example.com/index.html")
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := fetcher.Fetch(cancelled, server.URL+"/page")
		assert.Error(t, err)
	})
}

func TestFetchUsesCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	store := newMemoryStore()
	fetcher := NewFetcher(5*time.Second, "seoscore-test", 1<<20, store, time.Hour)
	ctx := context.Background()

	first, err := fetcher.Fetch(ctx, server.URL)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := fetcher.Fetch(ctx, server.URL)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, int32(1), hits.Load())

	// Stale entries are refetched
	key := cacheKey(server.URL)
	entry := store.entries[key]
	entry.ts = time.Now().Add(-2 * time.Hour).Unix()
	store.entries[key] = entry

	third, err := fetcher.Fetch(ctx, server.URL)
	require.NoError(t, err)
	assert.False(t, third.FromCache)
	assert.Equal(t, int32(2), hits.Load())

	// Entries from another cache version are ignored
	entry = store.entries[key]
	entry.version = currentCacheVersion + 1
	store.entries[key] = entry

	_, err = fetcher.Fetch(ctx, server.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
}

func TestLoadLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o644))

	fetcher := NewFetcher(time.Second, "seoscore-test", 1024, nil, 0)
	result, err := fetcher.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, page, string(result.Body))
	assert.Empty(t, result.BaseURL)

	_, err = fetcher.Load(context.Background(), filepath.Join(dir, "missing.html"))
	assert.Error(t, err)

	small := NewFetcher(time.Second, "seoscore-test", 10, nil, 0)
	_, err = small.Load(context.Background(), path)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com"))
	assert.True(t, IsURL("http://example.com/a?b=c"))
	assert.False(t, IsURL("example.com"))
	assert.False(t, IsURL("file:///tmp/index.html"))
	assert.False(t, IsURL("docs/index.html"))
	assert.False(t, IsURL("https://"))
}
