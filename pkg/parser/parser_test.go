package parser

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "paragraphs keep line breaks",
			in:   "<p>Given an array <code>nums</code>.</p><p>Return indices.</p>",
			want: "Given an array nums.\nReturn indices.",
		},
		{
			name: "script and style are dropped",
			in:   `<p>Visible</p><script>alert("x")</script><style>p{color:red}</style>`,
			want: "Visible",
		},
		{
			name: "entities decode",
			in:   "<p>1 &lt;= n &lt;= 10<sup>5</sup></p>",
			want: "1 <= n <= 105",
		},
		{
			name: "br splits lines",
			in:   "a<br>b",
			want: "a\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTMLToText(tt.in); got != tt.want {
				t.Errorf("HTMLToText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectionTextDoesNotMutate(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div id="x"><p>one</p><script>var a;</script></div>`))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	before, _ := doc.Find("#x").Html()
	if got := SelectionText(doc.Find("#x")); got != "one" {
		t.Errorf("SelectionText() = %q, want %q", got, "one")
	}
	after, _ := doc.Find("#x").Html()
	if before != after {
		t.Errorf("selection was mutated: %q -> %q", before, after)
	}
}

func TestNormalizeText(t *testing.T) {
	got := NormalizeText("  Two Sum \n\n   Easy  ")
	if got != "Two Sum Easy" {
		t.Errorf("NormalizeText() = %q", got)
	}
}

func TestArticleText(t *testing.T) {
	page := `<html><head><title>Problem</title></head><body>
<article><h1>Problem</h1>
<p>You are given a string s consisting of lowercase letters. Find the length of the longest substring without repeating characters.</p>
<p>The input contains a single line with the string. Print one integer, the answer to the problem.</p>
</article></body></html>`
	u, _ := url.Parse("https://leetcode.com/problems/longest-substring/")

	got, err := ArticleText(page, u)
	if err != nil {
		t.Fatalf("ArticleText() error = %v", err)
	}
	if !strings.Contains(got, "longest substring without repeating characters") {
		t.Errorf("ArticleText() = %q, missing statement text", got)
	}
}
