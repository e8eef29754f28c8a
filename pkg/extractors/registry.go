// Package extractors turns problem pages into models.ProblemInfo, one
// PlatformExtractor per judge.
package extractors

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/cp-hints/models"
	"github.com/dtnitsch/cp-hints/pkg/parser"
)

// PlatformExtractor extracts problem data for a single judge.
type PlatformExtractor interface {
	Platform() models.Platform
	// Matches reports whether host belongs to this platform.
	Matches(host string) bool
	// Extract returns nil when no title can be recovered.
	Extract(doc *goquery.Document, pageURL *url.URL) *models.ProblemInfo
}

// Registry dispatches to extractors in registration order; first match wins.
type Registry struct {
	logger     *slog.Logger
	extractors []PlatformExtractor
}

// NewRegistry returns a registry with LeetCode checked before Codeforces.
func NewRegistry(logger *slog.Logger) *Registry {
	r := &Registry{logger: logger}
	r.Register(NewLeetCode(logger))
	r.Register(NewCodeforces(logger))
	return r
}

// Register appends e at the lowest priority.
func (r *Registry) Register(e PlatformExtractor) {
	r.extractors = append(r.extractors, e)
}

// Lookup returns the extractor for host, or nil.
func (r *Registry) Lookup(host string) PlatformExtractor {
	host = strings.ToLower(host)
	for _, e := range r.extractors {
		if e.Matches(host) {
			return e
		}
	}
	return nil
}

// Extract never mutates doc and never panics; a nil result means the page
// is unsupported or has no recoverable title.
func (r *Registry) Extract(doc *goquery.Document, pageURL *url.URL) (info *models.ProblemInfo) {
	if doc == nil || pageURL == nil {
		return nil
	}

	e := r.Lookup(pageURL.Hostname())
	if e == nil {
		r.logger.Debug("no extractor for host", "host", pageURL.Hostname())
		return nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("extraction panicked", "platform", e.Platform(), "panic", rec)
			info = nil
		}
	}()

	info = e.Extract(doc, pageURL)
	if info == nil || strings.TrimSpace(info.Title) == "" {
		return nil
	}
	if info.Tags == nil {
		info.Tags = []string{}
	}
	return info
}

// firstText tries selectors in order and returns the first non-empty
// normalized text.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if text := parser.NormalizeText(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstBlockText is firstText for rich-text blocks, keeping line breaks.
func firstBlockText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if text := parser.SelectionText(doc.Find(sel).First()); text != "" {
			return text
		}
	}
	return ""
}

// allTexts collects the non-empty normalized text of every match.
func allTexts(doc *goquery.Document, selector string) []string {
	texts := []string{}
	doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		if text := parser.NormalizeText(s.Text()); text != "" {
			texts = append(texts, text)
		}
	})
	return texts
}
