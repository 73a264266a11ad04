package docfile

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func TestCacheReusesFreshFile(t *testing.T) {
	cacheDir := t.TempDir()
	t.Setenv(cacheEnvVar, cacheDir)

	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Etag", `"v1"`)
		_, _ = w.Write([]byte("%PDF-1.4\nHello"))
	}))
	t.Cleanup(server.Close)

	cache, err := NewCache(server.Client())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	ctx := context.Background()

	path, err := cache.Fetch(ctx, "doc-1", server.URL+"/files/doc-1.pdf")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("cached file missing: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected single download, got %d hits", hits)
	}

	path2, err := cache.Fetch(ctx, "doc-1", server.URL+"/files/doc-1.pdf")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if path != path2 {
		t.Fatalf("paths differ: %s vs %s", path, path2)
	}
	if hits != 1 {
		t.Fatalf("cache miss triggered download, total hits %d", hits)
	}
}

func TestCacheRevalidatesStaleFile(t *testing.T) {
	cacheDir := t.TempDir()
	t.Setenv(cacheEnvVar, cacheDir)

	var conditional bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v2"` {
			conditional = true
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Etag", `"v2"`)
		_, _ = w.Write([]byte("%PDF-1.4\nUpdated"))
	}))
	t.Cleanup(server.Close)

	cache, err := NewCache(server.Client())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	ctx := context.Background()

	path, err := cache.Fetch(ctx, "doc-2", server.URL+"/files/doc-2.pdf")
	if err != nil {
		t.Fatalf("initial fetch: %v", err)
	}

	// Age the file to force a conditional request.
	old := time.Now().Add(-(cacheTTL + time.Hour))
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, err := cache.Fetch(ctx, "doc-2", server.URL+"/files/doc-2.pdf"); err != nil {
		t.Fatalf("conditional fetch: %v", err)
	}
	if !conditional {
		t.Fatal("expected server to be consulted for stale cache")
	}
}

func TestCacheResumesPartialDownload(t *testing.T) {
	cacheDir := t.TempDir()
	t.Setenv(cacheEnvVar, cacheDir)

	var rangeHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rangeHeader = r.Header.Get("Range")
		w.Header().Set("Etag", `"resume"`)
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte("world"))
	}))
	t.Cleanup(server.Close)

	cache, err := NewCache(server.Client())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	ctx := context.Background()
	key := cacheKey("doc-3", "")
	filePath, metaPath, partPath := cache.pathsFor(key)

	if err := os.WriteFile(partPath, []byte("hello "), 0o644); err != nil {
		t.Fatalf("write partial: %v", err)
	}
	if err := writeMeta(metaPath, cacheMeta{ETag: `"resume"`}); err != nil {
		t.Fatalf("write meta: %v", err)
	}

	path, err := cache.Fetch(ctx, "doc-3", server.URL+"/files/doc-3.pdf")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if path != filePath {
		t.Fatalf("unexpected path: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cached file: %v", err)
	}
	if string(data) != "hello world" {
		t.Fatalf("resume failed, got %q", string(data))
	}
	if rangeHeader != fmt.Sprintf("bytes=%d-", len("hello ")) {
		t.Fatalf("expected range header, got %q", rangeHeader)
	}
	if _, err := os.Stat(partPath); err == nil || !os.IsNotExist(err) {
		t.Fatalf("partial file should be removed, err=%v", err)
	}
}

func TestCacheFallsBackToCachedCopyOnNetworkFailure(t *testing.T) {
	cacheDir := t.TempDir()
	t.Setenv(cacheEnvVar, cacheDir)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Etag", `"v1"`)
		_, _ = w.Write([]byte("%PDF-1.4\nBody"))
	}))

	cache, err := NewCache(server.Client())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	ctx := context.Background()

	path, err := cache.Fetch(ctx, "doc-4", server.URL+"/files/doc-4.pdf")
	if err != nil {
		t.Fatalf("initial fetch: %v", err)
	}

	old := time.Now().Add(-(cacheTTL + time.Hour))
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	server.Close()

	got, err := cache.Fetch(ctx, "doc-4", server.URL+"/files/doc-4.pdf")
	if err != nil {
		t.Fatalf("fetch with dead server should fall back to cache: %v", err)
	}
	if got != path {
		t.Fatalf("unexpected path: %s", got)
	}
}

func TestCacheKeyPrefersDocumentID(t *testing.T) {
	t.Parallel()
	if key := cacheKey("doc/../evil:id", "https://example.com/a.pdf"); strings.ContainsAny(key, "/:") || strings.Contains(key, "..") {
		t.Fatalf("cache key should be sanitized, got %q", key)
	}
	key := cacheKey("", "https://example.com/foo.pdf")
	if len(key) == 0 || strings.Contains(key, "/") {
		t.Fatalf("fallback key should be a hash, got %q", key)
	}
}

func TestFetchRequiresFileURL(t *testing.T) {
	cacheDir := t.TempDir()
	t.Setenv(cacheEnvVar, cacheDir)

	cache, err := NewCache(nil)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	if _, err := cache.Fetch(context.Background(), "doc-5", ""); err == nil {
		t.Fatal("expected error when the document has no file yet")
	}
}
