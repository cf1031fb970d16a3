package pagetext

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Link is one anchor found in a document.
type Link struct {
	Href string // absolute URL
	Text string // trimmed anchor text
}

// Links parses raw HTML and returns each http(s) anchor with its href
// resolved against the source URL. Duplicates are dropped; document order
// is preserved so callers can rely on page-top proximity.
func Links(rawHTML, sourceURL string) []Link {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var links []Link
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}

		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}

		absURL := resolved.String()
		if _, ok := seen[absURL]; ok {
			return
		}
		seen[absURL] = struct{}{}

		links = append(links, Link{
			Href: absURL,
			Text: strings.TrimSpace(s.Text()),
		})
	})

	return links
}

// Select matches elements in rawHTML against a CSS selector and returns
// their concatenated outer HTML. Used to scope extraction to source-
// specific containers ("meet the team" sections). Returns "" when the
// selector is invalid or matches nothing, so callers can tell a scoped
// scan apart from a whole-page fallback.
func Select(rawHTML, selector string) string {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	matches := cascadia.QueryAll(doc, sel)
	if len(matches) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for _, node := range matches {
		if err := html.Render(&buf, node); err != nil {
			return ""
		}
	}
	return buf.String()
}
