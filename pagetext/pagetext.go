// Package pagetext turns fetched page content into the forms the
// extraction strategies consume: visible text for the pattern strategies,
// a parsed document for the structural strategy, and a markdown rendition
// kept as extractor context.
package pagetext

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Page is one fetched page in all the shapes the pipeline needs.
type Page struct {
	URL      string
	Title    string
	RawHTML  string // empty when the source was pre-rendered text/markdown
	Text     string // visible text, tag-stripped and whitespace-folded
	Markdown string // markdown rendition of the readable content

	doc *goquery.Document
}

// FromHTML builds a Page from raw HTML.
func FromHTML(rawHTML, sourceURL string) *Page {
	p := &Page{
		URL:     sourceURL,
		RawHTML: rawHTML,
		Title:   ExtractTitle(rawHTML),
		Text:    VisibleText(rawHTML),
	}
	p.Markdown = readableMarkdown(rawHTML, sourceURL)
	return p
}

// FromText builds a Page from already-rendered text or markdown, as
// returned by the external rendering collaborator. There is no DOM to
// parse, so the structural strategy is skipped for such pages.
func FromText(text, sourceURL string) *Page {
	return &Page{
		URL:      sourceURL,
		Text:     text,
		Markdown: text,
	}
}

// Document lazily parses the raw HTML into a goquery document. Returns
// nil when the page has no HTML (pre-rendered source).
func (p *Page) Document() *goquery.Document {
	if p.RawHTML == "" {
		return nil
	}
	if p.doc == nil {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.RawHTML))
		if err != nil {
			return nil
		}
		p.doc = doc
	}
	return p.doc
}

// ExtractTitle finds the first <title> element in raw HTML.
func ExtractTitle(rawHTML string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				if tokenizer.Next() == html.TextToken {
					return strings.TrimSpace(string(tokenizer.Text()))
				}
				return ""
			}
		}
	}
}

// VisibleText extracts the visible text from within <body>, stripping all
// tags and <script>/<style>/<noscript> content. Words are separated by
// single spaces. Also used by the fetch layer to detect JS-shell pages.
func VisibleText(rawHTML string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))
	var buf bytes.Buffer
	inBody := false
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return buf.String()
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			tag := string(tn)
			if tag == "body" {
				inBody = true
			}
			if tag == "script" || tag == "style" || tag == "noscript" {
				skipDepth++
			}
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			tag := string(tn)
			if tag == "script" || tag == "style" || tag == "noscript" {
				if skipDepth > 0 {
					skipDepth--
				}
			}
		case html.TextToken:
			if inBody && skipDepth == 0 {
				text := strings.TrimSpace(string(tokenizer.Text()))
				if text != "" {
					buf.WriteString(text)
					buf.WriteByte(' ')
				}
			}
		}
	}
}
