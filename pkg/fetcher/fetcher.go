package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/cp-hints/pkg/caching"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) cp-hints/1.0"

// Page is a loaded problem page.
type Page struct {
	Doc *goquery.Document
}

type Fetcher struct {
	client *http.Client
	cache  *caching.Cache
}

// NewFetcher returns a fetcher; a zero timeout keeps the transport default.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// WithCache serves GetPage from c when it has a fresh copy and stores
// every download in it.
func (f *Fetcher) WithCache(c *caching.Cache) *Fetcher {
	f.cache = c
	return f
}

// GetPage downloads and parses url.
func (f *Fetcher) GetPage(ctx context.Context, url string) (*Page, error) {
	if f.cache != nil {
		if data, ok := f.cache.Get(url); ok {
			return parsePage(data)
		}
	}

	bodyBytes, err := f.GetHtmlBytes(ctx, url)
	if err != nil {
		return nil, err
	}
	if f.cache != nil {
		// A failed cache write only costs a refetch next time.
		_ = f.cache.Set(url, bodyBytes)
	}
	return parsePage(bodyBytes)
}

// LoadFile parses a saved HTML page from disk.
func (f *Fetcher) LoadFile(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return parsePage(data)
}

func (f *Fetcher) GetHtmlBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return bodyBytes, nil
}

func parsePage(data []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Page{Doc: doc}, nil
}
