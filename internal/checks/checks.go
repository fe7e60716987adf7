// Package checks runs the built-in on-page SEO checks over an HTML document.
package checks

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/huangsam/seoscore/schema"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// Page is a parsed HTML document ready to be checked.
type Page struct {
	Base  *url.URL // Location of the page, nil for local files without a base
	Doc   *goquery.Document
	Words int // Words in the main content
}

// Checker evaluates one aspect of a page.
type Checker interface {
	ID() schema.CheckID
	Check(p *Page) schema.CheckResult
}

// checkFunc is a Checker backed by a function returning a status and a fix hint.
type checkFunc struct {
	id    schema.CheckID
	label string
	run   func(p *Page) (schema.CheckStatus, string)
}

func (c checkFunc) ID() schema.CheckID { return c.id }

func (c checkFunc) Check(p *Page) schema.CheckResult {
	status, hint := c.run(p)
	result := schema.CheckResult{Status: status, Label: c.label}
	if status != schema.PassStatus {
		result.FixHint = hint
	}
	return result
}

// DefaultCheckers returns the built-in checks in display order.
func DefaultCheckers() []Checker {
	return []Checker{
		checkFunc{schema.TitleLengthCheck, "Title length", checkTitle},
		checkFunc{schema.MetaDescriptionCheck, "Meta description", checkMetaDescription},
		checkFunc{schema.H1PresenceCheck, "H1 heading", checkH1},
		checkFunc{schema.HeadingStructureCheck, "Heading structure", checkHeadingStructure},
		checkFunc{schema.ImageAltCheck, "Image alt text", checkImageAlt},
		checkFunc{schema.WordCountCheck, "Word count", checkWordCount},
		checkFunc{schema.CanonicalCheck, "Canonical URL", checkCanonical},
		checkFunc{schema.ViewportCheck, "Mobile viewport", checkViewport},
		checkFunc{schema.HTMLLangCheck, "HTML lang attribute", checkHTMLLang},
		checkFunc{schema.InternalLinksCheck, "Internal links", checkInternalLinks},
		checkFunc{schema.OpenGraphCheck, "Open Graph tags", checkOpenGraph},
		checkFunc{schema.StructuredDataCheck, "Structured data", checkStructuredData},
		checkFunc{schema.RobotsIndexableCheck, "Indexability", checkRobots},
	}
}

// Labels returns the display label of every built-in check.
func Labels() map[schema.CheckID]string {
	labels := make(map[schema.CheckID]string)
	for _, c := range DefaultCheckers() {
		if f, ok := c.(checkFunc); ok {
			labels[f.id] = f.label
		}
	}
	return labels
}

// NewPage parses an HTML document. baseURL may be empty.
// Documents in a legacy encoding are decoded using their meta charset.
func NewPage(doc []byte, baseURL string) (*Page, error) {
	enc, _, _ := charset.DetermineEncoding(doc, "text/html")
	root, err := html.Parse(transform.NewReader(bytes.NewReader(doc), enc.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	parsed := goquery.NewDocumentFromNode(root)
	page := &Page{Doc: parsed}
	if baseURL != "" {
		if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
			page.Base = u
		}
	}
	page.Words = countWords(mainContent(parsed, page.Base))
	return page, nil
}

// Analyze runs checkers over doc. A nil checkers slice runs the built-in set.
// Only an unreadable document or a cancelled context is an error.
func Analyze(ctx context.Context, doc []byte, baseURL string, checkers []Checker) (map[string]schema.CheckResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := NewPage(doc, baseURL)
	if err != nil {
		return nil, err
	}
	if checkers == nil {
		checkers = DefaultCheckers()
	}

	results := make(map[string]schema.CheckResult, len(checkers))
	for _, c := range checkers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[string(c.ID())] = c.Check(page)
	}
	return results, nil
}

// metaContent returns the content of the first meta tag whose attr matches name, ignoring case.
func metaContent(doc *goquery.Document, attr, name string) (string, bool) {
	var content string
	found := false
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr(attr); ok && strings.EqualFold(strings.TrimSpace(v), name) {
			content = strings.TrimSpace(s.AttrOr("content", ""))
			found = true
			return false
		}
		return true
	})
	return content, found
}
