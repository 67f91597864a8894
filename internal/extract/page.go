// Package extract pulls candidate records out of recruiting-platform pages.
package extract

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page is a parsed HTML document together with the address it was loaded from.
type Page struct {
	Doc *goquery.Document
	URL *url.URL
}

// NewPage parses html and associates it with rawURL. An empty rawURL is allowed.
func NewPage(html, rawURL string) (*Page, error) {
	return NewPageFromReader(strings.NewReader(html), rawURL)
}

// NewPageFromReader parses the HTML read from r.
func NewPageFromReader(r io.Reader, rawURL string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page := &Page{Doc: doc}
	if rawURL = strings.TrimSpace(rawURL); rawURL != "" {
		parsed, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid page url %q: %w", rawURL, err)
		}
		page.URL = parsed
	}

	return page, nil
}

// Root is the document-level selection every page-wide probe starts from.
func (p *Page) Root() *goquery.Selection {
	return p.Doc.Selection
}

// Href returns the page address, or an empty string when unknown.
func (p *Page) Href() string {
	if p.URL == nil {
		return ""
	}
	return p.URL.String()
}

// URLContains reports whether the page address contains any of parts.
func (p *Page) URLContains(parts ...string) bool {
	href := p.Href()
	if href == "" {
		return false
	}
	for _, part := range parts {
		if strings.Contains(href, part) {
			return true
		}
	}
	return false
}

// Has reports whether at least one element matches selector.
func (p *Page) Has(selector string) bool {
	return p.Root().Find(selector).Length() > 0
}

// Resolve turns a link found on the page into an absolute URL rooted at the page origin.
func (p *Page) Resolve(href string) string {
	href = strings.TrimSpace(href)
	if p.URL == nil || p.URL.Host == "" {
		return href
	}

	origin := &url.URL{Scheme: p.URL.Scheme, Host: p.URL.Host, Path: "/"}
	resolved, err := origin.Parse(href)
	if err != nil {
		return href
	}
	return resolved.String()
}

// BodyText returns up to limit runes of the visible body text.
func (p *Page) BodyText(limit int) string {
	body := p.Root().Find("body").First()
	if body.Length() == 0 {
		body = p.Root()
	}
	return VisibleText(body, limit)
}
