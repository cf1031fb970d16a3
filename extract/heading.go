package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/reachforge/prospector/pagetext"
)

// headingNameRe matches a heading whose entire text is a two- or
// three-token capitalised name, optionally followed by a credential
// suffix that is split off as the title.
var headingNameRe = regexp.MustCompile(
	`^(` + nameToken + `(?:\s+` + nameToken + `){1,2})(?:,\s+(.+))?$`)

// headingStrategy handles sources that render one heading per person
// (team/staff pages). Each qualifying heading is a name candidate; the
// nearest following sibling and the enclosing container are scanned for
// role vocabulary to assign a title, and the container text bounds the
// contact window.
type headingStrategy struct {
	selectors []string // container CSS selectors; empty scans the whole page
	roles     []string // sorted longest-first at construction
}

func newHeadingStrategy(selectors, roles []string) *headingStrategy {
	return &headingStrategy{selectors: selectors, roles: sortByLength(roles)}
}

func (*headingStrategy) Name() string { return "structural_heading" }

func (s *headingStrategy) Extract(page *pagetext.Page) []Candidate {
	doc := page.Document()
	if doc == nil {
		return nil
	}

	scope := s.scope(doc)
	var out []Candidate
	scope.Find("h1, h2, h3, h4").Each(func(_ int, h *goquery.Selection) {
		heading := foldSpace(h.Text())
		m := headingNameRe.FindStringSubmatch(heading)
		if m == nil {
			return
		}
		name := m[1]
		title := strings.TrimSpace(m[2]) // credential suffix, if any

		container := foldSpace(h.Parent().Text())
		if title == "" {
			// Prefer the immediate sibling; fall back to the container.
			if sib := foldSpace(h.Next().Text()); sib != "" {
				title = s.findRole(sib)
			}
			if title == "" {
				title = s.findRole(container)
			}
		}

		email, phone := personContacts(container)
		out = append(out, Candidate{
			Name:     name,
			Title:    title,
			Email:    email,
			Phone:    phone,
			Strategy: "structural_heading",
			Snippet:  snippet(container, 0, 0),
		})
	})
	return out
}

// scope narrows the document to the configured team containers; when no
// selector matches anything, the whole document is scanned so a page
// with an unanticipated layout still yields candidates.
func (s *headingStrategy) scope(doc *goquery.Document) *goquery.Selection {
	if len(s.selectors) > 0 {
		sel := doc.Find(strings.Join(s.selectors, ", "))
		if sel.Length() > 0 {
			return sel
		}
	}
	return doc.Selection
}

// findRole returns the first role-vocabulary phrase present in text,
// preserving the page's own casing.
func (s *headingStrategy) findRole(text string) string {
	lower := strings.ToLower(text)
	for _, role := range s.roles {
		if idx := strings.Index(lower, role); idx >= 0 {
			return text[idx : idx+len(role)]
		}
	}
	return ""
}

// personContacts pulls the first person-attributable email and valid
// phone out of a person's container text.
func personContacts(container string) (string, string) {
	return contactNear(container, 0, len(container))
}

func foldSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// sortByLength lower-cases the vocabulary and orders it longest first so
// "admissions director" beats "director".
func sortByLength(roles []string) []string {
	sorted := make([]string, len(roles))
	for i, r := range roles {
		sorted[i] = strings.ToLower(r)
	}
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	return sorted
}
