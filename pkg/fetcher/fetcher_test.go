package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dtnitsch/cp-hints/pkg/caching"
)

func TestGetPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("missing User-Agent header")
		}
		w.Write([]byte(`<html><body><div class="title">A. Watermelon</div></body></html>`))
	}))
	defer server.Close()

	page, err := NewFetcher(0).GetPage(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	if got := page.Doc.Find(".title").Text(); got != "A. Watermelon" {
		t.Errorf("title = %q", got)
	}
}

func TestGetPage_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if _, err := NewFetcher(0).GetPage(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 403")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(`<p id="x">hello</p>`), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	page, err := NewFetcher(0).LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got := page.Doc.Find("#x").Text(); got != "hello" {
		t.Errorf("text = %q", got)
	}

	if _, err := NewFetcher(0).LoadFile(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPage_Cache(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`<html><body><h1>cached</h1></body></html>`))
	}))
	defer server.Close()

	cache, err := caching.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	f := NewFetcher(0).WithCache(cache)

	for i := 0; i < 3; i++ {
		page, err := f.GetPage(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("GetPage() error = %v", err)
		}
		if got := page.Doc.Find("h1").Text(); got != "cached" {
			t.Errorf("h1 = %q", got)
		}
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1", hits)
	}
}
