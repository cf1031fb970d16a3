package dork

import (
	"net/url"
	"strings"

	"github.com/reachforge/prospector/models"
)

// CategoryConfig is the static per-category query and extraction
// configuration. Loaded once at process start; never mutated.
type CategoryConfig struct {
	// Source is the extraction strategy family used for pages found
	// under this category.
	Source models.SourceType

	// SiteRestrictions are search-engine site: clauses targeting the
	// directories and domains this category of person is published on.
	SiteRestrictions []string

	// Keywords are required keyword clauses. "{location}" placeholders
	// are interpolated with the requested location.
	Keywords []string

	// RoleVocabulary lists the job-title words relevant to this category,
	// strongest match first. Used by the structural extraction strategy
	// and the fit scorer.
	RoleVocabulary []string

	// SpecialtyTags are topical tags attached to emitted prospects.
	SpecialtyTags []string

	// TeamSelectors are CSS selectors for the page containers that hold
	// one-person-per-heading staff listings.
	TeamSelectors []string

	// TwoHop enables listing-to-profile resolution before extraction.
	TwoHop bool
}

// categories is the static category table. Keys are the categories the
// API accepts; configs are shared by reference and must not be modified.
var categories = map[models.Category]*CategoryConfig{
	models.CategoryTreatmentCenter: {
		Source: models.SourceTreatmentCenter,
		SiteRestrictions: []string{
			"site:psychologytoday.com/us/treatment-rehab",
		},
		Keywords: []string{
			`"admissions"`,
			`"{location}"`,
		},
		RoleVocabulary: []string{
			"admissions director", "admissions coordinator", "clinical director",
			"program director", "executive director", "intake coordinator",
			"admissions", "director", "coordinator", "counselor", "therapist",
		},
		SpecialtyTags: []string{"residential treatment", "admissions"},
		TeamSelectors: []string{
			"section.team", "div.team", "div.staff", "section.staff",
			"div.our-team", "section#team", "div#team", "div.meet-the-team",
		},
		TwoHop: true,
	},
	models.CategoryTherapistProfile: {
		Source: models.SourceDirectoryProfile,
		SiteRestrictions: []string{
			"site:psychologytoday.com/us/therapists",
			"site:goodtherapy.org/therapists",
		},
		Keywords: []string{
			`"{location}"`,
			`"adolescent"`,
		},
		RoleVocabulary: []string{
			"therapist", "psychologist", "counselor", "clinical social worker",
			"psychotherapist", "marriage and family therapist",
		},
		SpecialtyTags: []string{"therapy", "adolescents"},
		TeamSelectors: nil,
		TwoHop:        true,
	},
	models.CategorySchoolConsultant: {
		Source: models.SourceSchoolConsultant,
		SiteRestrictions: []string{
			"site:iecaonline.com",
		},
		Keywords: []string{
			`"educational consultant"`,
			`"{location}"`,
		},
		RoleVocabulary: []string{
			"educational consultant", "independent educational consultant",
			"college counselor", "school placement", "consultant",
		},
		SpecialtyTags: []string{"education", "school placement"},
		TeamSelectors: []string{
			"div.consultants", "section.members", "div.member-directory",
		},
		TwoHop: false,
	},
	models.CategoryPediatrician: {
		Source: models.SourceGeneric,
		SiteRestrictions: []string{
			"site:healthgrades.com",
			"site:zocdoc.com",
		},
		Keywords: []string{
			`"pediatrician"`,
			`"{location}"`,
		},
		RoleVocabulary: []string{
			"pediatrician", "pediatrics", "md", "physician", "doctor",
		},
		SpecialtyTags: []string{"pediatrics"},
		TeamSelectors: []string{
			"div.providers", "section.physicians", "div.our-doctors",
		},
		TwoHop: false,
	},
}

// Config returns the static configuration for a category, or nil if the
// category is unknown.
func Config(cat models.Category) *CategoryConfig {
	return categories[cat]
}

// Classify maps a search result URL back to the requested category whose
// site restrictions it matches. Results from domains no restriction
// names (the open-web part of the query) fall back to the first
// requested category.
func Classify(rawURL string, cats []models.Category) models.Category {
	u, err := url.Parse(rawURL)
	if err != nil || len(cats) == 0 {
		if len(cats) > 0 {
			return cats[0]
		}
		return ""
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	target := host + u.Path

	// Path-qualified restrictions win over bare-host matches so that two
	// categories sharing a directory domain resolve by URL path.
	for _, cat := range cats {
		cfg := categories[cat]
		if cfg == nil {
			continue
		}
		for _, restriction := range cfg.SiteRestrictions {
			if strings.HasPrefix(target, strings.TrimPrefix(restriction, "site:")) {
				return cat
			}
		}
	}
	for _, cat := range cats {
		cfg := categories[cat]
		if cfg == nil {
			continue
		}
		for _, restriction := range cfg.SiteRestrictions {
			if host == siteHost(strings.TrimPrefix(restriction, "site:")) {
				return cat
			}
		}
	}
	return cats[0]
}

func siteHost(site string) string {
	if idx := strings.IndexByte(site, '/'); idx != -1 {
		return site[:idx]
	}
	return site
}
