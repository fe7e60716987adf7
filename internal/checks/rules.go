package checks

import (
	"encoding/json"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/huangsam/seoscore/schema"
)

// Thresholds for the length and count based checks.
const (
	MinTitleLength       = 30
	MaxTitleLength       = 60
	MinDescriptionLength = 70
	MaxDescriptionLength = 160
	MinWordCount         = 300
	WarnWordCount        = 100
	MinInternalLinks     = 3
	MaxMissingAltRatio   = 0.2
)

// inRange grades a length against an inclusive range, failing only when it is zero.
func inRange(n, lo, hi int) schema.CheckStatus {
	switch {
	case n == 0:
		return schema.FailStatus
	case n < lo || n > hi:
		return schema.WarnStatus
	default:
		return schema.PassStatus
	}
}

func checkTitle(p *Page) (schema.CheckStatus, string) {
	title := strings.TrimSpace(p.Doc.Find("title").First().Text())
	n := utf8.RuneCountInString(title)
	switch status := inRange(n, MinTitleLength, MaxTitleLength); {
	case status == schema.FailStatus:
		return status, "Add a <title> element of 30 to 60 characters."
	case n < MinTitleLength:
		return status, "Lengthen the title to at least 30 characters."
	case n > MaxTitleLength:
		return status, "Shorten the title to 60 characters or fewer."
	default:
		return status, ""
	}
}

func checkMetaDescription(p *Page) (schema.CheckStatus, string) {
	desc, _ := metaContent(p.Doc, "name", "description")
	n := utf8.RuneCountInString(desc)
	switch status := inRange(n, MinDescriptionLength, MaxDescriptionLength); {
	case status == schema.FailStatus:
		return status, "Add a meta description of 70 to 160 characters."
	case n < MinDescriptionLength:
		return status, "Expand the meta description to at least 70 characters."
	case n > MaxDescriptionLength:
		return status, "Trim the meta description to 160 characters or fewer."
	default:
		return status, ""
	}
}

func checkH1(p *Page) (schema.CheckStatus, string) {
	switch n := p.Doc.Find("h1").Length(); {
	case n == 0:
		return schema.FailStatus, "Add a single <h1> that states the topic of the page."
	case n > 1:
		return schema.WarnStatus, "Keep one <h1> per page and demote the others."
	default:
		return schema.PassStatus, ""
	}
}

func checkHeadingStructure(p *Page) (schema.CheckStatus, string) {
	var levels []int
	p.Doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		levels = append(levels, int(goquery.NodeName(s)[1]-'0'))
	})
	if len(levels) == 0 {
		return schema.FailStatus, "Structure the content with headings."
	}
	prev := 0
	for _, level := range levels {
		if level > prev+1 {
			return schema.WarnStatus, "Do not skip heading levels, for example from <h2> to <h4>."
		}
		prev = level
	}
	return schema.PassStatus, ""
}

func checkImageAlt(p *Page) (schema.CheckStatus, string) {
	images := p.Doc.Find("img")
	total := images.Length()
	if total == 0 {
		return schema.PassStatus, ""
	}
	missing := 0
	images.Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("alt"); !ok {
			missing++
		}
	})
	ratio := float64(missing) / float64(total)
	switch {
	case missing == 0:
		return schema.PassStatus, ""
	case ratio <= MaxMissingAltRatio:
		return schema.WarnStatus, "Add alt text to the remaining images."
	default:
		return schema.FailStatus, "Add descriptive alt text to images."
	}
}

func checkWordCount(p *Page) (schema.CheckStatus, string) {
	switch {
	case p.Words >= MinWordCount:
		return schema.PassStatus, ""
	case p.Words >= WarnWordCount:
		return schema.WarnStatus, "Expand the main content to at least 300 words."
	default:
		return schema.FailStatus, "The page has thin content. Write at least 300 words."
	}
}

func checkCanonical(p *Page) (schema.CheckStatus, string) {
	hrefs := make(map[string]struct{})
	p.Doc.Find("link").Each(func(_ int, s *goquery.Selection) {
		if !hasToken(s.AttrOr("rel", ""), "canonical") {
			return
		}
		if href := strings.TrimSpace(s.AttrOr("href", "")); href != "" {
			hrefs[p.resolve(href)] = struct{}{}
		}
	})
	switch len(hrefs) {
	case 0:
		return schema.WarnStatus, "Add a <link rel=\"canonical\"> pointing at the preferred URL."
	case 1:
		return schema.PassStatus, ""
	default:
		return schema.FailStatus, "Keep a single canonical URL per page."
	}
}

func checkViewport(p *Page) (schema.CheckStatus, string) {
	content, ok := metaContent(p.Doc, "name", "viewport")
	switch {
	case !ok:
		return schema.FailStatus, "Add <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">."
	case !strings.Contains(strings.ReplaceAll(content, " ", ""), "width=device-width"):
		return schema.WarnStatus, "Set the viewport width to device-width."
	default:
		return schema.PassStatus, ""
	}
}

func checkHTMLLang(p *Page) (schema.CheckStatus, string) {
	if strings.TrimSpace(p.Doc.Find("html").AttrOr("lang", "")) == "" {
		return schema.FailStatus, "Declare the page language with <html lang=\"...\">."
	}
	return schema.PassStatus, ""
}

func checkInternalLinks(p *Page) (schema.CheckStatus, string) {
	n := 0
	p.Doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if p.isInternal(s.AttrOr("href", "")) {
			n++
		}
	})
	switch {
	case n >= MinInternalLinks:
		return schema.PassStatus, ""
	case n > 0:
		return schema.WarnStatus, "Link to at least three related pages on the same site."
	default:
		return schema.FailStatus, "Add links to related pages on the same site."
	}
}

func checkOpenGraph(p *Page) (schema.CheckStatus, string) {
	found := 0
	for _, prop := range []string{"og:title", "og:description", "og:image"} {
		if v, ok := metaContent(p.Doc, "property", prop); ok && v != "" {
			found++
		}
	}
	switch found {
	case 3:
		return schema.PassStatus, ""
	case 0:
		return schema.FailStatus, "Add og:title, og:description and og:image meta tags."
	default:
		return schema.WarnStatus, "Complete the Open Graph tags with og:title, og:description and og:image."
	}
}

func checkStructuredData(p *Page) (schema.CheckStatus, string) {
	blocks := p.Doc.Find("script").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.EqualFold(strings.TrimSpace(s.AttrOr("type", "")), "application/ld+json")
	})
	if blocks.Length() == 0 {
		return schema.WarnStatus, "Describe the page with JSON-LD structured data."
	}
	valid := true
	blocks.Each(func(_ int, s *goquery.Selection) {
		if !json.Valid([]byte(s.Text())) {
			valid = false
		}
	})
	if !valid {
		return schema.FailStatus, "Fix the JSON-LD blocks that do not parse."
	}
	return schema.PassStatus, ""
}

func checkRobots(p *Page) (schema.CheckStatus, string) {
	var directives []string
	for _, name := range []string{"robots", "googlebot"} {
		if v, ok := metaContent(p.Doc, "name", name); ok {
			directives = append(directives, strings.ToLower(v))
		}
	}
	joined := strings.Join(directives, ",")
	switch {
	case hasDirective(joined, "noindex"), hasDirective(joined, "none"):
		return schema.FailStatus, "Remove noindex from the robots meta tag if the page should rank."
	case hasDirective(joined, "nofollow"):
		return schema.WarnStatus, "Remove nofollow so search engines follow the links on this page."
	default:
		return schema.PassStatus, ""
	}
}

// hasToken reports whether a space separated attribute carries token.
func hasToken(attr, token string) bool {
	for _, f := range strings.Fields(attr) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}

// hasDirective reports whether a comma separated robots value carries directive.
func hasDirective(value, directive string) bool {
	for _, d := range strings.Split(value, ",") {
		if strings.TrimSpace(d) == directive {
			return true
		}
	}
	return false
}

// resolve makes href absolute against the page base when one is known.
func (p *Page) resolve(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if p.Base != nil {
		u = p.Base.ResolveReference(u)
	}
	return u.String()
}

// isInternal reports whether href points at another page of the same site.
func (p *Page) isInternal(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "", "http", "https":
	default:
		return false
	}
	if u.Host == "" {
		return true
	}
	return p.Base != nil && strings.EqualFold(u.Hostname(), p.Base.Hostname())
}
