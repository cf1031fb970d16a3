// Package extract scans fetched page text for person names, titles and
// contact channels using layered pattern strategies. All strategies
// over-capture on purpose; the validate package is the single gate that
// decides what is actually a person name.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/reachforge/prospector/pagetext"
)

// Candidate is one pre-validation extraction match.
type Candidate struct {
	Name         string
	Title        string
	Organization string
	Email        string
	Phone        string
	Strategy     string // which strategy produced the match
	Snippet      string // matched text, kept as debug context
	SourceURL    string // page the match came from; set by the Extractor
	PageMarkdown string // markdown rendition of the source page; set by the Extractor
}

// Strategy extracts candidates from a fetched page. Implementations are
// stateless after construction and safe for concurrent use.
type Strategy interface {
	Name() string
	Extract(page *pagetext.Page) []Candidate
}

// nameToken matches one capitalised name token.
const nameToken = `[A-Z][a-zA-Z'\-]+`

var (
	// "Jane Doe, LCSW" / "Maria Garcia Lopez, MA, LMFT"
	credentialRe = regexp.MustCompile(
		`\b(` + nameToken + `(?:\s+` + nameToken + `){1,2}),\s+(` +
			credAlternation + `(?:,\s*` + credAlternation + `)*)\b`)

	// "Dr. Jane Doe". Two tokens only: the honorific anchors the start
	// but nothing anchors the end, and a greedy third token swallows the
	// first word of the next sentence.
	prefixRe = regexp.MustCompile(
		`\b(` + strings.Join(honorifics, "|") + `)\.?\s+(` + nameToken + `\s+` + nameToken + `)\b`)

	// first.last@ and first_last@ shapes.
	emailNameRe = regexp.MustCompile(`\b([a-zA-Z]{2,12})[._]([a-zA-Z]{2,12})@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
)

// credAlternation is the credential vocabulary as a regex alternation,
// longest entries first so "LICSW" wins over "LCSW" prefixes.
var credAlternation = func() string {
	sorted := make([]string, len(credentials))
	copy(sorted, credentials)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for i, c := range sorted {
		sorted[i] = regexp.QuoteMeta(c)
	}
	return "(?:" + strings.Join(sorted, "|") + ")"
}()

// credentialStrategy captures "FirstLast, CREDENTIAL" with the credential
// as the title.
type credentialStrategy struct{}

func (credentialStrategy) Name() string { return "credential_suffix" }

func (credentialStrategy) Extract(page *pagetext.Page) []Candidate {
	text := page.Text
	var out []Candidate
	for _, m := range credentialRe.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		title := text[m[4]:m[5]]
		email, phone := contactNear(text, m[0], m[1])
		out = append(out, Candidate{
			Name:     name,
			Title:    title,
			Email:    email,
			Phone:    phone,
			Strategy: "credential_suffix",
			Snippet:  snippet(text, m[0], m[1]),
		})
	}
	return out
}

// prefixStrategy captures "Dr./Mr./Ms. FirstLast"; the honorific implies
// the title.
type prefixStrategy struct{}

func (prefixStrategy) Name() string { return "honorific_prefix" }

func (prefixStrategy) Extract(page *pagetext.Page) []Candidate {
	text := page.Text
	var out []Candidate
	for _, m := range prefixRe.FindAllStringSubmatchIndex(text, -1) {
		honorific := text[m[2]:m[3]]
		name := text[m[4]:m[5]]
		email, phone := contactNear(text, m[0], m[1])
		out = append(out, Candidate{
			Name:     name,
			Title:    honorific + ".",
			Email:    email,
			Phone:    phone,
			Strategy: "honorific_prefix",
			Snippet:  snippet(text, m[0], m[1]),
		})
	}
	return out
}

// roleFirstStrategy captures "Admissions Director: Jane Doe" prose where
// the title precedes the name. The role alternation is built from the
// category's role vocabulary at construction.
type roleFirstStrategy struct {
	re *regexp.Regexp
}

func newRoleFirstStrategy(roles []string) *roleFirstStrategy {
	sorted := make([]string, len(roles))
	copy(sorted, roles)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for i, r := range sorted {
		sorted[i] = regexp.QuoteMeta(r)
	}
	re := regexp.MustCompile(
		`\b((?i:` + strings.Join(sorted, "|") + `))\s*[:\-–—,]?\s+(` +
			nameToken + `\s+` + nameToken + `)\b`)
	return &roleFirstStrategy{re: re}
}

func (*roleFirstStrategy) Name() string { return "role_then_name" }

func (s *roleFirstStrategy) Extract(page *pagetext.Page) []Candidate {
	text := page.Text
	var out []Candidate
	for _, m := range s.re.FindAllStringSubmatchIndex(text, -1) {
		role := text[m[2]:m[3]]
		name := text[m[4]:m[5]]
		email, phone := contactNear(text, m[0], m[1])
		out = append(out, Candidate{
			Name:     name,
			Title:    role,
			Email:    email,
			Phone:    phone,
			Strategy: "role_then_name",
			Snippet:  snippet(text, m[0], m[1]),
		})
	}
	return out
}

// emailNameStrategy decomposes first.last@ addresses into a candidate
// name. Weakest signal, always run last; the validator re-checks the
// result like any other candidate.
type emailNameStrategy struct{}

func (emailNameStrategy) Name() string { return "email_local_part" }

func (emailNameStrategy) Extract(page *pagetext.Page) []Candidate {
	text := page.Text
	var out []Candidate
	for _, m := range emailNameRe.FindAllStringSubmatchIndex(text, -1) {
		email := strings.ToLower(text[m[0]:m[1]])
		if isGenericLocalPart(email) || isAssetEmail(email) {
			continue
		}
		first := titleCase(text[m[2]:m[3]])
		last := titleCase(text[m[4]:m[5]])
		_, phone := contactNear(text, m[0], m[1])
		out = append(out, Candidate{
			Name:     first + " " + last,
			Email:    email,
			Phone:    phone,
			Strategy: "email_local_part",
			Snippet:  snippet(text, m[0], m[1]),
		})
	}
	return out
}

// snippet returns the matched text with a little surrounding context.
func snippet(text string, start, end int) string {
	lo := start - 40
	if lo < 0 {
		lo = 0
	}
	hi := end + 40
	if hi > len(text) {
		hi = len(text)
	}
	return strings.TrimSpace(text[lo:hi])
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
