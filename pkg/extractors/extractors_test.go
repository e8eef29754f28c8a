package extractors

import (
	"io"
	"log/slog"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/cp-hints/models"
)

const leetCodeNextDataPage = `<html><body>
<div id="app"></div>
<script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"question":{
  "title":"Two Sum",
  "titleSlug":"two-sum",
  "difficulty":"Easy",
  "content":"<p>Given an array of integers <code>nums</code>, return indices.</p><style>p{color:red}</style>",
  "topicTags":[{"name":"Array"},{"name":"Hash Table"}]
}}}}
</script>
</body></html>`

const leetCodeDOMPage = `<html><body>
<div class="text-title-large"><a href="/problems/two-sum/">1. Two Sum</a></div>
<div class="mt-3"><div class="text-difficulty-easy">Easy</div></div>
<a href="/tag/array/">Array</a>
<a href="/tag/hash-table/">Hash Table</a>
<div class="xtext-body"><p>Given an array of integers.</p><p>Return indices.</p></div>
</body></html>`

const leetCodeBrokenNextDataPage = `<html><body>
<script id="__NEXT_DATA__" type="application/json">{not json</script>
<div data-cy="question-title">Add Two Numbers</div>
</body></html>`

const codeforcesPage = `<html><body>
<div class="problem-statement">
  <div class="header">
    <div class="title">A. Watermelon</div>
    <div class="time-limit">1 second</div>
  </div>
  <div><p>One hot summer day Pete and his friend Billy decided to buy a watermelon.</p><style>.x{}</style></div>
  <div class="input-specification"><p>The first line contains w.</p></div>
</div>
<div class="roundbox"><span class="tag-box">brute force</span><span class="tag-box">math</span></div>
</body></html>`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse url: %v", err)
	}
	return u
}

func TestRegistryExtract_LeetCodeNextData(t *testing.T) {
	r := NewRegistry(testLogger())
	info := r.Extract(mustDoc(t, leetCodeNextDataPage), mustURL(t, "https://leetcode.com/problems/two-sum/description/"))
	if info == nil {
		t.Fatal("Extract() returned nil")
	}

	if info.Platform != models.PlatformLeetCode {
		t.Errorf("platform = %q", info.Platform)
	}
	if info.Title != "Two Sum" {
		t.Errorf("title = %q", info.Title)
	}
	if models.Deref(info.Slug, "") != "two-sum" {
		t.Errorf("slug = %v", info.Slug)
	}
	if models.Deref(info.Difficulty, "") != "Easy" {
		t.Errorf("difficulty = %v", info.Difficulty)
	}
	if !reflect.DeepEqual(info.Tags, []string{"Array", "Hash Table"}) {
		t.Errorf("tags = %v", info.Tags)
	}
	if info.Content != "Given an array of integers nums, return indices." {
		t.Errorf("content = %q", info.Content)
	}
}

func TestRegistryExtract_LeetCodeDOMFallback(t *testing.T) {
	r := NewRegistry(testLogger())
	info := r.Extract(mustDoc(t, leetCodeDOMPage), mustURL(t, "https://leetcode.com/problems/two-sum/"))
	if info == nil {
		t.Fatal("Extract() returned nil")
	}

	if info.Title != "1. Two Sum" {
		t.Errorf("title = %q", info.Title)
	}
	if models.Deref(info.Slug, "") != "two-sum" {
		t.Errorf("slug = %v", info.Slug)
	}
	if models.Deref(info.Difficulty, "") != "Easy" {
		t.Errorf("difficulty = %v", info.Difficulty)
	}
	if !reflect.DeepEqual(info.Tags, []string{"Array", "Hash Table"}) {
		t.Errorf("tags = %v", info.Tags)
	}
	if info.Content != "Given an array of integers.\nReturn indices." {
		t.Errorf("content = %q", info.Content)
	}
}

func TestRegistryExtract_LeetCodeBrokenNextData(t *testing.T) {
	r := NewRegistry(testLogger())
	info := r.Extract(mustDoc(t, leetCodeBrokenNextDataPage), mustURL(t, "https://leetcode.com/problems/add-two-numbers/"))
	if info == nil {
		t.Fatal("expected DOM fallback to recover a title")
	}
	if info.Title != "Add Two Numbers" {
		t.Errorf("title = %q", info.Title)
	}
	if info.Difficulty != nil {
		t.Errorf("difficulty = %v, want nil", *info.Difficulty)
	}
	if info.Tags == nil || len(info.Tags) != 0 {
		t.Errorf("tags = %#v, want empty slice", info.Tags)
	}
}

func TestRegistryExtract_Codeforces(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		contestID string
		index     string
	}{
		{name: "problemset path", url: "https://codeforces.com/problemset/problem/4/A", contestID: "4", index: "A"},
		{name: "contest path", url: "https://codeforces.com/contest/1850/problem/B1", contestID: "1850", index: "B1"},
		{name: "unmatched path", url: "https://codeforces.com/gym/100001"},
		{name: "gym problem path", url: "https://codeforces.com/gym/100001/problem/A"},
	}

	r := NewRegistry(testLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := r.Extract(mustDoc(t, codeforcesPage), mustURL(t, tt.url))
			if info == nil {
				t.Fatal("Extract() returned nil")
			}
			if info.Title != "Watermelon" {
				t.Errorf("title = %q", info.Title)
			}
			if models.Deref(info.ContestID, "") != tt.contestID {
				t.Errorf("contestId = %v, want %q", info.ContestID, tt.contestID)
			}
			if models.Deref(info.Index, "") != tt.index {
				t.Errorf("index = %v, want %q", info.Index, tt.index)
			}
			if !reflect.DeepEqual(info.Tags, []string{"brute force", "math"}) {
				t.Errorf("tags = %v", info.Tags)
			}
			if !strings.HasPrefix(info.Content, "One hot summer day") || strings.Contains(info.Content, ".x{}") {
				t.Errorf("content = %q", info.Content)
			}
		})
	}
}

func TestRegistryExtract_NoTitle(t *testing.T) {
	r := NewRegistry(testLogger())
	tests := []struct {
		name string
		html string
		url  string
	}{
		{name: "codeforces without statement", html: "<html><body><p>Login</p></body></html>", url: "https://codeforces.com/problemset/problem/4/A"},
		{name: "leetcode without title", html: "<html><body><p>Sign in</p></body></html>", url: "https://leetcode.com/problems/two-sum/"},
		{name: "unsupported host", html: codeforcesPage, url: "https://atcoder.jp/contests/abc300/tasks/abc300_a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if info := r.Extract(mustDoc(t, tt.html), mustURL(t, tt.url)); info != nil {
				t.Errorf("Extract() = %+v, want nil", info)
			}
		})
	}
}

func TestRegistryExtract_DoesNotMutateDOM(t *testing.T) {
	doc := mustDoc(t, codeforcesPage)
	before, _ := doc.Html()
	NewRegistry(testLogger()).Extract(doc, mustURL(t, "https://codeforces.com/problemset/problem/4/A"))
	after, _ := doc.Html()
	if before != after {
		t.Error("Extract() mutated the document")
	}
}

type panickingExtractor struct{}

func (panickingExtractor) Platform() models.Platform { return "Panics" }
func (panickingExtractor) Matches(host string) bool   { return strings.Contains(host, "panic.test") }
func (panickingExtractor) Extract(*goquery.Document, *url.URL) *models.ProblemInfo {
	panic("boom")
}

func TestRegistry_RegisterAndRecover(t *testing.T) {
	r := NewRegistry(testLogger())
	r.Register(panickingExtractor{})

	if got := r.Lookup("www.panic.test"); got == nil {
		t.Fatal("Lookup() did not find registered extractor")
	}
	if info := r.Extract(mustDoc(t, "<p>x</p>"), mustURL(t, "https://www.panic.test/p/1")); info != nil {
		t.Errorf("Extract() = %+v, want nil after panic", info)
	}
}

func TestCodeforcesTitle(t *testing.T) {
	tests := map[string]string{
		"A. Watermelon":   "Watermelon",
		"  B. Two Arrays": "Two Arrays",
		"A.":              "",
		"":                "",
	}
	for in, want := range tests {
		if got := codeforcesTitle(in); got != want {
			t.Errorf("codeforcesTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLeetCodeSlug(t *testing.T) {
	tests := map[string]string{
		"/problems/two-sum/":             "two-sum",
		"/problems/two-sum/description/": "two-sum",
		"/contest/weekly-1/":             "weekly-1",
		"/":                              "",
	}
	for in, want := range tests {
		if got := leetCodeSlug(in); got != want {
			t.Errorf("leetCodeSlug(%q) = %q, want %q", in, got, want)
		}
	}
}
