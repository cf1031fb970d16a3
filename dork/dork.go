// Package dork composes site-restricted search-engine queries from the
// static category configuration. It performs no network I/O; for a given
// input the output is deterministic.
package dork

import (
	"strings"

	"github.com/reachforge/prospector/models"
)

// excludedDomains are low-signal domains filtered out of every
// location-scoped query. Social networks and aggregators dominate results
// for "<role> <city>" queries without ever exposing usable contact pages.
var excludedDomains = []string{
	"linkedin.com",
	"facebook.com",
	"instagram.com",
	"twitter.com",
	"pinterest.com",
	"yelp.com",
	"yellowpages.com",
	"indeed.com",
	"glassdoor.com",
}

// Build composes one combined search query for the selected categories.
//
// Each selected category contributes one parenthesised group carrying all
// of its site restrictions and keyword clauses; groups are ORed together.
// A non-empty location is interpolated into "{location}" placeholders and
// adds negative-site filters for the excluded domains. A non-empty context
// is appended as an additional required keyword clause.
func Build(cats []models.Category, location, context string) (string, error) {
	if len(cats) == 0 {
		return "", models.NewDiscoverError(models.ErrCodeInvalidInput, "no categories selected", nil)
	}

	groups := make([]string, 0, len(cats))
	for _, cat := range cats {
		cfg := Config(cat)
		if cfg == nil {
			return "", models.NewDiscoverError(models.ErrCodeUnknownCategory,
				"unknown category: "+string(cat), nil)
		}
		groups = append(groups, buildGroup(cfg, location))
	}

	var b strings.Builder
	if len(groups) == 1 {
		b.WriteString(groups[0])
	} else {
		for i, g := range groups {
			if i > 0 {
				b.WriteString(" OR ")
			}
			b.WriteString("(")
			b.WriteString(g)
			b.WriteString(")")
		}
	}

	if location != "" {
		for _, d := range excludedDomains {
			b.WriteString(" -site:")
			b.WriteString(d)
		}
	}

	if ctx := strings.TrimSpace(context); ctx != "" {
		b.WriteString(` "`)
		b.WriteString(ctx)
		b.WriteString(`"`)
	}

	return b.String(), nil
}

// buildGroup renders one category's site restrictions and keywords.
func buildGroup(cfg *CategoryConfig, location string) string {
	parts := make([]string, 0, len(cfg.SiteRestrictions)+len(cfg.Keywords))

	if len(cfg.SiteRestrictions) == 1 {
		parts = append(parts, cfg.SiteRestrictions[0])
	} else if len(cfg.SiteRestrictions) > 1 {
		parts = append(parts, "("+strings.Join(cfg.SiteRestrictions, " OR ")+")")
	}

	for _, kw := range cfg.Keywords {
		if strings.Contains(kw, "{location}") {
			if location == "" {
				// No location given: drop location-bearing clauses entirely
				// rather than emitting an empty quoted string.
				continue
			}
			kw = strings.ReplaceAll(kw, "{location}", location)
		}
		parts = append(parts, kw)
	}

	return strings.Join(parts, " ")
}
