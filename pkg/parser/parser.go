package parser

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// nonRendered lists elements whose text is never shown to a reader.
const nonRendered = "script,style,noscript,template"

// HTMLToText converts an HTML fragment to plain text. Markup is parsed, never
// executed; script and style bodies are dropped.
func HTMLToText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + fragment + "</body>"))
	if err != nil {
		return ""
	}
	return SelectionText(doc.Find("body"))
}

// SelectionText returns the rendered text of a selection, keeping one line
// per block and leaving the selection itself untouched.
func SelectionText(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}

	clone := s.Clone()
	clone.Find(nonRendered).Remove()
	clone.Find("br").ReplaceWithHtml("\n")
	clone.Find("p,li,div,pre,h1,h2,h3,h4,h5,h6,tr").Each(func(i int, block *goquery.Selection) {
		block.AppendHtml("\n")
	})

	return normalizeLines(clone.Text())
}

// ArticleText runs readability over a full page and returns the main
// article's text.
func ArticleText(rawHTML string, pageURL *url.URL) (string, error) {
	rp := readability.NewParser()
	article, err := rp.Parse(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability failed: %w", err)
	}
	return HTMLToText(article.Content), nil
}

// NormalizeText cleans up a string by trimming space and collapsing all
// line breaks into single spaces.
func NormalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}

// normalizeLines trims every line and drops blank ones, preserving line
// boundaries.
func normalizeLines(input string) string {
	var lines []string
	for _, line := range strings.Split(input, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
