package extractors

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/cp-hints/models"
	"github.com/dtnitsch/cp-hints/pkg/parser"
)

var (
	leetCodeTitleSelectors = []string{
		".text-title-large a",
		`[data-cy="question-title"]`,
	}
	leetCodeDifficultySelectors = []string{
		".mt-3 .text-difficulty-easy, .mt-3 .text-difficulty-medium, .mt-3 .text-difficulty-hard",
		`[class*="text-difficulty-"]`,
	}
	leetCodeContentSelectors = []string{
		`[class^="xtext-"]`,
		`[data-track-load="description_content"]`,
	}
)

const leetCodeTagSelector = `a[href*="/tag/"]`

// LeetCode reads the embedded __NEXT_DATA__ state first and falls back to
// CSS selectors. The selectors follow LeetCode's current markup and break
// when it is redesigned.
type LeetCode struct {
	logger *slog.Logger
}

func NewLeetCode(logger *slog.Logger) *LeetCode {
	return &LeetCode{logger: logger}
}

func (l *LeetCode) Platform() models.Platform { return models.PlatformLeetCode }

func (l *LeetCode) Matches(host string) bool {
	return strings.Contains(host, "leetcode.com")
}

func (l *LeetCode) Extract(doc *goquery.Document, pageURL *url.URL) *models.ProblemInfo {
	info, err := l.fromNextData(doc)
	if err != nil {
		l.logger.Warn("__NEXT_DATA__ parsing failed, falling back to DOM scraping", "url", pageURL.String(), "error", err)
	}
	if info != nil {
		return info
	}
	return l.fromDOM(doc, pageURL)
}

type nextData struct {
	Props struct {
		PageProps struct {
			Question *struct {
				Title      string `json:"title"`
				TitleSlug  string `json:"titleSlug"`
				Difficulty string `json:"difficulty"`
				Content    string `json:"content"`
				TopicTags  []struct {
					Name string `json:"name"`
				} `json:"topicTags"`
			} `json:"question"`
		} `json:"pageProps"`
	} `json:"props"`
}

// fromNextData returns (nil, nil) when the blob is absent or lacks a question.
func (l *LeetCode) fromNextData(doc *goquery.Document) (info *models.ProblemInfo, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			info, err = nil, fmt.Errorf("panic reading __NEXT_DATA__: %v", rec)
		}
	}()

	script := doc.Find("script#__NEXT_DATA__").First()
	if script.Length() == 0 {
		return nil, nil
	}

	var data nextData
	if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
		return nil, fmt.Errorf("failed to decode __NEXT_DATA__: %w", err)
	}

	q := data.Props.PageProps.Question
	if q == nil || strings.TrimSpace(q.Title) == "" {
		return nil, nil
	}

	tags := make([]string, 0, len(q.TopicTags))
	for _, t := range q.TopicTags {
		if name := strings.TrimSpace(t.Name); name != "" {
			tags = append(tags, name)
		}
	}

	return &models.ProblemInfo{
		Platform:   models.PlatformLeetCode,
		Title:      strings.TrimSpace(q.Title),
		Slug:       models.StringPtr(q.TitleSlug),
		Difficulty: models.StringPtr(q.Difficulty),
		Tags:       tags,
		Content:    parser.HTMLToText(q.Content),
	}, nil
}

func (l *LeetCode) fromDOM(doc *goquery.Document, pageURL *url.URL) *models.ProblemInfo {
	title := firstText(doc, leetCodeTitleSelectors...)
	if title == "" {
		return nil
	}

	content := firstBlockText(doc, leetCodeContentSelectors...)
	if content == "" {
		content = l.articleText(doc, pageURL)
	}

	return &models.ProblemInfo{
		Platform:   models.PlatformLeetCode,
		Title:      title,
		Slug:       models.StringPtr(leetCodeSlug(pageURL.Path)),
		Difficulty: models.StringPtr(firstText(doc, leetCodeDifficultySelectors...)),
		Tags:       allTexts(doc, leetCodeTagSelector),
		Content:    content,
	}
}

// articleText is the last content candidate: readability over the page.
func (l *LeetCode) articleText(doc *goquery.Document, pageURL *url.URL) string {
	raw, err := doc.Html()
	if err != nil {
		return ""
	}
	text, err := parser.ArticleText(raw, pageURL)
	if err != nil {
		l.logger.Debug("readability fallback failed", "url", pageURL.String(), "error", err)
		return ""
	}
	return text
}

// leetCodeSlug prefers the segment after /problems/ and otherwise uses the
// last path segment.
func leetCodeSlug(path string) string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	for i, s := range segments {
		if s == "problems" && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}
