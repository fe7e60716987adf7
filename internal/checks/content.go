package checks

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

var linkTargetRe = regexp.MustCompile(`\]\([^)]*\)`)

// boilerplate is removed before counting words when no main element exists.
var boilerplate = []string{
	"nav", "header", "footer", "aside", "script", "style", "noscript",
	"iframe", "object", "embed", "form", "template", "svg",
}

// mainContent renders the main content of the document as markdown.
func mainContent(doc *goquery.Document, base *url.URL) string {
	var selection *goquery.Selection
	for _, selector := range []string{"main", "article", "[role=main]"} {
		if s := doc.Find(selector).First(); s.Length() > 0 {
			selection = s
			break
		}
	}
	if selection == nil {
		body := doc.Find("body").First().Clone()
		body.Find(strings.Join(boilerplate, ", ")).Remove()
		selection = body
	}

	content, err := goquery.OuterHtml(selection)
	if err != nil || content == "" {
		return ""
	}

	domain := ""
	if base != nil {
		domain = base.Host
	}
	converter := md.NewConverter(domain, true, nil)
	converter.Use(plugin.GitHubFlavored())
	converter.Remove(boilerplate...)

	markdown, err := converter.ConvertString(content)
	if err != nil {
		return selection.Text()
	}
	return markdown
}

// countWords counts tokens carrying at least one letter or digit, ignoring link targets.
func countWords(markdown string) int {
	markdown = linkTargetRe.ReplaceAllString(markdown, "]")
	n := 0
	for _, field := range strings.Fields(markdown) {
		if strings.IndexFunc(field, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) >= 0 {
			n++
		}
	}
	return n
}
