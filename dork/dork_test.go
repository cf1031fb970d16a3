package dork

import (
	"errors"
	"strings"
	"testing"

	"github.com/reachforge/prospector/models"
)

func TestBuild_SingleCategory(t *testing.T) {
	q, err := Build([]models.Category{models.CategoryTreatmentCenter}, "Denver", "")
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if !strings.Contains(q, "site:psychologytoday.com/us/treatment-rehab") {
		t.Errorf("query missing site restriction: %q", q)
	}
	if !strings.Contains(q, `"admissions"`) {
		t.Errorf("query missing keyword clause: %q", q)
	}
	if !strings.Contains(q, `"Denver"`) {
		t.Errorf("query missing interpolated location: %q", q)
	}
}

func TestBuild_AllCategoryClausesPresent(t *testing.T) {
	// Clause inclusion must hold for every category-set size the API
	// accepts, not just singletons.
	sets := [][]models.Category{
		{models.CategoryTherapistProfile},
		{models.CategoryTreatmentCenter, models.CategoryPediatrician},
		{models.CategoryTreatmentCenter, models.CategoryTherapistProfile, models.CategorySchoolConsultant},
		{
			models.CategoryTreatmentCenter, models.CategoryTherapistProfile,
			models.CategorySchoolConsultant, models.CategoryPediatrician,
			models.CategoryTreatmentCenter, // duplicate on purpose
		},
	}

	for _, cats := range sets {
		q, err := Build(cats, "Boise", "")
		if err != nil {
			t.Fatalf("Build(%v) returned error: %v", cats, err)
		}
		for _, cat := range cats {
			cfg := Config(cat)
			for _, site := range cfg.SiteRestrictions {
				if !strings.Contains(q, site) {
					t.Errorf("Build(%v): missing %q in %q", cats, site, q)
				}
			}
			for _, kw := range cfg.Keywords {
				want := strings.ReplaceAll(kw, "{location}", "Boise")
				if !strings.Contains(q, want) {
					t.Errorf("Build(%v): missing keyword %q in %q", cats, want, q)
				}
			}
		}
	}
}

func TestBuild_LocationAddsNegativeFilters(t *testing.T) {
	q, err := Build([]models.Category{models.CategoryPediatrician}, "Austin", "")
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if !strings.Contains(q, "-site:linkedin.com") {
		t.Errorf("location-scoped query missing negative filter: %q", q)
	}
	if !strings.Contains(q, "-site:yelp.com") {
		t.Errorf("location-scoped query missing negative filter: %q", q)
	}
}

func TestBuild_NoLocationNoNegativeFilters(t *testing.T) {
	q, err := Build([]models.Category{models.CategoryPediatrician}, "", "")
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if strings.Contains(q, "-site:") {
		t.Errorf("query without location should not carry negative filters: %q", q)
	}
	if strings.Contains(q, "{location}") || strings.Contains(q, `""`) {
		t.Errorf("unfilled location placeholder leaked into query: %q", q)
	}
}

func TestBuild_ContextIsRequiredClause(t *testing.T) {
	q, err := Build([]models.Category{models.CategoryTherapistProfile}, "Seattle", "eating disorders")
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if !strings.HasSuffix(q, `"eating disorders"`) {
		t.Errorf("context should be appended as a quoted AND clause: %q", q)
	}
	if strings.Contains(q, `OR "eating disorders"`) {
		t.Errorf("context must be ANDed, not ORed: %q", q)
	}
}

func TestBuild_UnknownCategory(t *testing.T) {
	_, err := Build([]models.Category{"astronauts"}, "Houston", "")
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
	var derr *models.DiscoverError
	if !errors.As(err, &derr) || derr.Code != models.ErrCodeUnknownCategory {
		t.Errorf("expected UNKNOWN_CATEGORY error, got: %v", err)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	cats := []models.Category{models.CategoryTreatmentCenter, models.CategorySchoolConsultant}
	q1, err1 := Build(cats, "Portland", "wilderness")
	q2, err2 := Build(cats, "Portland", "wilderness")
	if err1 != nil || err2 != nil {
		t.Fatalf("Build returned error: %v / %v", err1, err2)
	}
	if q1 != q2 {
		t.Errorf("Build is not deterministic:\n%q\n%q", q1, q2)
	}
}

func TestBuild_NoCategories(t *testing.T) {
	_, err := Build(nil, "Denver", "")
	if err == nil {
		t.Fatal("expected error for empty category set")
	}
}

func TestClassify(t *testing.T) {
	both := []models.Category{models.CategoryTreatmentCenter, models.CategoryTherapistProfile}

	tests := []struct {
		name string
		url  string
		cats []models.Category
		want models.Category
	}{
		{
			"path qualified treatment listing",
			"https://www.psychologytoday.com/us/treatment-rehab/ma/boston",
			both,
			models.CategoryTreatmentCenter,
		},
		{
			"path qualified therapist profile on shared domain",
			"https://www.psychologytoday.com/us/therapists/jane-doe-boston-ma/443211",
			both,
			models.CategoryTherapistProfile,
		},
		{
			"bare host match",
			"https://www.healthgrades.com/physician/dr-smith-12345",
			[]models.Category{models.CategoryTreatmentCenter, models.CategoryPediatrician},
			models.CategoryPediatrician,
		},
		{
			"open web falls back to first category",
			"https://www.brooksiderecovery.com/our-team",
			both,
			models.CategoryTreatmentCenter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.url, tt.cats); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
