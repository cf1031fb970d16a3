// Package rank turns the raw candidate pool into the final prospect
// list: validation gate, duplicate merging, fit scoring and ordering.
package rank

import (
	"net/url"
	"sort"
	"strings"

	"github.com/reachforge/prospector/extract"
	"github.com/reachforge/prospector/models"
	"github.com/reachforge/prospector/validate"
)

// Options configures one finalization pass.
type Options struct {
	// Source labels every emitted record.
	Source models.SourceType

	// RoleVocabulary is the category's role list, strongest match first.
	// Drives the fit score's base component.
	RoleVocabulary []string

	// SpecialtyTags are attached to every emitted record.
	SpecialtyTags []string

	// AutoScore enables fit scoring; when false every record scores 0.
	AutoScore bool
}

// Score component weights. Base is scaled by how high in the role
// vocabulary the title matches; contact channels add fixed bonuses.
const (
	baseScoreMax = 70
	baseScoreMin = 30
	emailBonus   = 20
	phoneBonus   = 10
)

// Finalize validates, deduplicates, scores and orders the candidate
// pool. The second return value is the number of candidates dropped by
// name validation (diagnostics only, never an error).
//
// Deduplication key: normalized name + source URL origin. When the same
// key appears twice, the candidate with more populated fields wins and
// the loser fills any gaps it can. Finalize is idempotent: re-running it
// over its own output changes nothing.
func Finalize(pool []extract.Candidate, opts Options) ([]models.DiscoveredProspect, int) {
	rejected := 0
	order := make([]string, 0, len(pool))
	merged := make(map[string]*models.DiscoveredProspect, len(pool))

	for _, c := range pool {
		if !validate.IsValidPersonName(c.Name) {
			rejected++
			continue
		}

		key := validate.Normalize(c.Name) + "|" + origin(c.SourceURL)
		record := toProspect(c, opts)

		existing, ok := merged[key]
		if !ok {
			merged[key] = &record
			order = append(order, key)
			continue
		}
		merged[key] = merge(existing, &record)
	}

	out := make([]models.DiscoveredProspect, 0, len(order))
	for _, key := range order {
		p := merged[key]
		if opts.AutoScore {
			p.FitScore = fitScore(p, opts.RoleVocabulary)
		} else {
			p.FitScore = 0
		}
		out = append(out, *p)
	}

	// Descending fit score; the stable sort keeps first-seen order on ties.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FitScore > out[j].FitScore
	})
	return out, rejected
}

func toProspect(c extract.Candidate, opts Options) models.DiscoveredProspect {
	p := models.DiscoveredProspect{
		Name:         strings.TrimSpace(c.Name),
		Title:        strings.TrimSpace(c.Title),
		Organization: c.Organization,
		Specialty:    opts.SpecialtyTags,
		Contact: models.ContactInfo{
			Email: c.Email,
			Phone: c.Phone,
		},
		Source:    opts.Source,
		SourceURL: c.SourceURL,
	}
	if c.Strategy != "" {
		p.RawData = map[string]any{
			"strategy": c.Strategy,
			"snippet":  c.Snippet,
		}
		if c.PageMarkdown != "" {
			p.RawData["source_markdown"] = c.PageMarkdown
		}
	}
	return p
}

// merge keeps the richer record and fills its gaps from the other.
func merge(a, b *models.DiscoveredProspect) *models.DiscoveredProspect {
	winner, loser := a, b
	if b.ContactFields() > a.ContactFields() {
		winner, loser = b, a
	}
	if winner.Title == "" {
		winner.Title = loser.Title
	}
	if winner.Organization == "" {
		winner.Organization = loser.Organization
	}
	if winner.Contact.Email == "" {
		winner.Contact.Email = loser.Contact.Email
	}
	if winner.Contact.Phone == "" {
		winner.Contact.Phone = loser.Contact.Phone
	}
	if winner.Contact.Website == "" {
		winner.Contact.Website = loser.Contact.Website
	}
	if winner.Contact.LinkedIn == "" {
		winner.Contact.LinkedIn = loser.Contact.LinkedIn
	}
	return winner
}

// fitScore computes the 0-100 heuristic: a base scaled by how high in
// the role vocabulary the title matches, plus contact bonuses. A record
// with no title match and no contacts scores the floor.
func fitScore(p *models.DiscoveredProspect, roles []string) int {
	score := roleBase(p.Title, roles)
	if p.Contact.Email != "" {
		score += emailBonus
	}
	if p.Contact.Phone != "" {
		score += phoneBonus
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

func roleBase(title string, roles []string) int {
	if title == "" || len(roles) == 0 {
		return 0
	}
	lower := strings.ToLower(title)
	for i, role := range roles {
		if strings.Contains(lower, strings.ToLower(role)) {
			if len(roles) == 1 {
				return baseScoreMax
			}
			return baseScoreMax - i*(baseScoreMax-baseScoreMin)/(len(roles)-1)
		}
	}
	return 0
}

// origin reduces a URL to scheme://host for the dedup key, so the same
// person on two pages of one site collapses to one record.
func origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Scheme + "://" + strings.ToLower(u.Host)
}
