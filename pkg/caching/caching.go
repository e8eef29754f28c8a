// Package caching keeps fetched problem pages on disk so repeated hint
// requests for the same page skip the download.
package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache is a directory of pages keyed by URL. Entries older than ttl are
// misses; a zero ttl disables reads.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates path if it doesn't exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{path: path, ttl: ttl}, nil
}

func (c *Cache) key(pageURL string) string {
	return fmt.Sprintf("%x.html", sha256.Sum256([]byte(pageURL)))
}

// Get returns the cached page and true on a fresh hit.
func (c *Cache) Get(pageURL string) ([]byte, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	filePath := filepath.Join(c.path, c.key(pageURL))

	info, err := os.Stat(filePath)
	if err != nil || time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores data for pageURL, replacing any previous entry.
func (c *Cache) Set(pageURL string, data []byte) error {
	filePath := filepath.Join(c.path, c.key(pageURL))
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
