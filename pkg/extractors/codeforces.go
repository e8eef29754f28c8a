package extractors

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/cp-hints/models"
	"github.com/dtnitsch/cp-hints/pkg/parser"
)

// codeforcesProblemPattern matches /problemset/problem/4/A and
// /contest/1850/problem/B1 style paths.
var codeforcesProblemPattern = regexp.MustCompile(`(?:problemset/problem/(\d+)|contest/(\d+)/problem)/([A-Z]\d?)`)

// Codeforces has no embedded state; everything comes from the statement DOM.
type Codeforces struct {
	logger *slog.Logger
}

func NewCodeforces(logger *slog.Logger) *Codeforces {
	return &Codeforces{logger: logger}
}

func (c *Codeforces) Platform() models.Platform { return models.PlatformCodeforces }

func (c *Codeforces) Matches(host string) bool {
	return strings.Contains(host, "codeforces.com")
}

func (c *Codeforces) Extract(doc *goquery.Document, pageURL *url.URL) *models.ProblemInfo {
	title := codeforcesTitle(doc.Find(".problem-statement .title").First().Text())
	if title == "" {
		return nil
	}

	tags := allTexts(doc, ".problem-statement .tag-box")
	if len(tags) == 0 {
		tags = allTexts(doc, ".tag-box")
	}

	info := &models.ProblemInfo{
		Platform: models.PlatformCodeforces,
		Title:    title,
		Tags:     tags,
		Content:  parser.SelectionText(doc.Find(".problem-statement > div:nth-child(2)").First()),
	}

	if m := codeforcesProblemPattern.FindStringSubmatch(pageURL.Path); m != nil {
		contestID := m[1]
		if contestID == "" {
			contestID = m[2]
		}
		info.ContestID = models.StringPtr(contestID)
		info.Index = models.StringPtr(m[3])
	} else {
		c.logger.Debug("no contest id in path", "path", pageURL.Path)
	}

	return info
}

// codeforcesTitle drops the two-character "A." index prefix from a
// statement header.
func codeforcesTitle(header string) string {
	runes := []rune(strings.TrimSpace(header))
	if len(runes) <= 2 {
		return ""
	}
	return strings.TrimSpace(string(runes[2:]))
}
