package extract

import (
	"log/slog"

	"github.com/reachforge/prospector/models"
	"github.com/reachforge/prospector/pagetext"
)

// Options configures an Extractor for one source family.
type Options struct {
	// Source labels the strategy family that produced each record.
	Source models.SourceType

	// RoleVocabulary lists the category's relevant job-title phrases,
	// strongest match first. Empty falls back to the default vocabulary.
	RoleVocabulary []string

	// TeamSelectors scope the structural strategy to source-specific
	// containers. Empty scans the whole page.
	TeamSelectors []string
}

// OrgContact is an organization-level contact channel found on a page
// that yielded no person candidates. It is surfaced as diagnostics only,
// never as a person record.
type OrgContact struct {
	Email string
	Phone string
}

// Extractor runs the layered strategies for one source family. Construct
// once per category and reuse; it is safe for concurrent use.
type Extractor struct {
	source     models.SourceType
	strategies []Strategy
}

// New builds an Extractor with the strategy layering applied in order:
// credential suffix, honorific prefix, structural heading, role-then-name,
// and email local-part inference as the last resort.
func New(opts Options) *Extractor {
	roles := opts.RoleVocabulary
	if len(roles) == 0 {
		roles = defaultRoleVocabulary
	}
	source := opts.Source
	if source == "" {
		source = models.SourceGeneric
	}
	return &Extractor{
		source: source,
		strategies: []Strategy{
			credentialStrategy{},
			prefixStrategy{},
			newHeadingStrategy(opts.TeamSelectors, roles),
			newRoleFirstStrategy(roles),
			emailNameStrategy{},
		},
	}
}

// Source returns the source family this extractor labels records with.
func (e *Extractor) Source() models.SourceType { return e.source }

// Extract runs every strategy over the page and returns the merged
// candidate pool, pre-validation. A page with no candidates yields an
// empty pool and, when the page has any contact channels at all, an
// organization-level OrgContact.
func (e *Extractor) Extract(page *pagetext.Page) ([]Candidate, *OrgContact) {
	var pool []Candidate
	for _, s := range e.strategies {
		found := s.Extract(page)
		if len(found) > 0 {
			slog.Debug("strategy matched",
				"strategy", s.Name(), "url", page.URL, "candidates", len(found))
		}
		for i := range found {
			found[i].SourceURL = page.URL
			found[i].PageMarkdown = markdownExcerpt(page.Markdown)
		}
		pool = append(pool, found...)
	}

	if len(pool) > 0 {
		return pool, nil
	}

	// No names on the page: contacts belong to the organization.
	email, phone := pageContacts(page.Text)
	if email == "" && phone == "" {
		return nil, nil
	}
	return nil, &OrgContact{Email: email, Phone: phone}
}

// markdownExcerptLen caps the markdown carried per candidate so large
// pages do not bloat the response payload.
const markdownExcerptLen = 2000

func markdownExcerpt(md string) string {
	if len(md) <= markdownExcerptLen {
		return md
	}
	return md[:markdownExcerptLen]
}
