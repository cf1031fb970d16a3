package rank

import (
	"testing"

	"github.com/reachforge/prospector/extract"
	"github.com/reachforge/prospector/models"
)

var testOpts = Options{
	Source: models.SourceTreatmentCenter,
	RoleVocabulary: []string{
		"admissions director", "clinical director", "intake coordinator", "therapist",
	},
	SpecialtyTags: []string{"residential treatment"},
	AutoScore:     true,
}

const pageA = "https://centers.example.com/staff"
const pageB = "https://centers.example.com/about/team"

func TestFinalize_ValidationGate(t *testing.T) {
	pool := []extract.Candidate{
		{Name: "Jane Doe", Title: "Therapist", SourceURL: pageA},
		{Name: "Licensed Therapist", SourceURL: pageA},
		{Name: "Case Manager", SourceURL: pageA},
	}
	out, rejected := Finalize(pool, testOpts)
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(out), out)
	}
	if rejected != 2 {
		t.Errorf("rejected = %d, want 2", rejected)
	}
	if out[0].Name != "Jane Doe" {
		t.Errorf("Name = %q", out[0].Name)
	}
	if out[0].Source != models.SourceTreatmentCenter {
		t.Errorf("Source = %q", out[0].Source)
	}
}

func TestFinalize_MergesSameNameSameOrigin(t *testing.T) {
	pool := []extract.Candidate{
		// Heading occurrence: name only, phone nearby.
		{Name: "John Smith", Phone: "(202) 555-0101", SourceURL: pageA},
		// Body occurrence: richer (title + email + different phone).
		{Name: "John Smith", Title: "Clinical Director",
			Email: "john.smith@centers.example.com", Phone: "(202) 555-0199", SourceURL: pageB},
	}
	out, _ := Finalize(pool, testOpts)
	if len(out) != 1 {
		t.Fatalf("expected 1 merged record, got %d: %+v", len(out), out)
	}
	p := out[0]
	if p.Contact.Phone != "(202) 555-0199" {
		t.Errorf("merged phone = %q, want the richer candidate's phone", p.Contact.Phone)
	}
	if p.Title != "Clinical Director" || p.Contact.Email != "john.smith@centers.example.com" {
		t.Errorf("merged record lost fields: %+v", p)
	}
}

func TestFinalize_DifferentOriginsStaySeparate(t *testing.T) {
	pool := []extract.Candidate{
		{Name: "Jane Doe", Title: "Therapist", SourceURL: "https://a.example.com/p/1"},
		{Name: "Jane Doe", Title: "Therapist", SourceURL: "https://b.example.org/p/2"},
	}
	out, _ := Finalize(pool, testOpts)
	if len(out) != 2 {
		t.Errorf("same name on different origins must stay separate, got %d", len(out))
	}
}

func TestFinalize_ScoreOrdering(t *testing.T) {
	pool := []extract.Candidate{
		{Name: "Low Fit", Title: "Gardener", SourceURL: pageA},
		{Name: "Jane Doe", Title: "Admissions Director",
			Email: "jane.doe@centers.example.com", Phone: "(202) 555-0134", SourceURL: pageA},
		{Name: "John Smith", Title: "Therapist", SourceURL: pageA},
	}
	out, _ := Finalize(pool, testOpts)
	if len(out) != 3 {
		t.Fatalf("expected 3 records, got %d", len(out))
	}
	if out[0].Name != "Jane Doe" {
		t.Errorf("highest-scoring record should come first, got %q", out[0].Name)
	}
	for i := 1; i < len(out); i++ {
		if out[i].FitScore > out[i-1].FitScore {
			t.Errorf("records not in descending score order: %+v", out)
		}
	}
}

func TestFinalize_ScoreBounds(t *testing.T) {
	pool := []extract.Candidate{
		// Empty data: no email, no phone, no title.
		{Name: "Jane Doe", SourceURL: pageA},
		// Everything populated: strongest role + both contacts.
		{Name: "John Smith", Title: "Admissions Director",
			Email: "john.smith@x.com", Phone: "(202) 555-0134", SourceURL: pageA},
	}
	out, _ := Finalize(pool, testOpts)
	for _, p := range out {
		if p.FitScore < 0 || p.FitScore > 100 {
			t.Errorf("FitScore out of bounds for %q: %d", p.Name, p.FitScore)
		}
	}
	var empty *models.DiscoveredProspect
	for i := range out {
		if out[i].Name == "Jane Doe" {
			empty = &out[i]
		}
	}
	if empty == nil {
		t.Fatal("empty-data record missing from output")
	}
	if empty.FitScore != 0 {
		t.Errorf("empty-data record must score the floor, got %d", empty.FitScore)
	}
}

func TestFinalize_AutoScoreOff(t *testing.T) {
	opts := testOpts
	opts.AutoScore = false
	pool := []extract.Candidate{
		{Name: "Jane Doe", Title: "Admissions Director", Email: "jane@x.com", SourceURL: pageA},
	}
	out, _ := Finalize(pool, opts)
	if out[0].FitScore != 0 {
		t.Errorf("FitScore = %d with auto_score off, want 0", out[0].FitScore)
	}
}

func TestFinalize_Idempotent(t *testing.T) {
	pool := []extract.Candidate{
		{Name: "Jane Doe", Title: "Therapist", Email: "jane.doe@x.com", SourceURL: pageA},
		{Name: "Jane Doe", Phone: "(202) 555-0134", SourceURL: pageA},
		{Name: "John Smith", Title: "Intake Coordinator", SourceURL: pageB},
	}
	first, _ := Finalize(pool, testOpts)

	// Feed the output back through as candidates.
	again := make([]extract.Candidate, 0, len(first))
	for _, p := range first {
		again = append(again, extract.Candidate{
			Name:      p.Name,
			Title:     p.Title,
			Email:     p.Contact.Email,
			Phone:     p.Contact.Phone,
			SourceURL: p.SourceURL,
		})
	}
	second, rejected := Finalize(again, testOpts)

	if rejected != 0 {
		t.Errorf("re-finalizing validated output rejected %d records", rejected)
	}
	if len(second) != len(first) {
		t.Fatalf("second pass changed record count: %d vs %d", len(second), len(first))
	}
	for i := range first {
		if second[i].Name != first[i].Name ||
			second[i].Title != first[i].Title ||
			second[i].Contact != first[i].Contact ||
			second[i].FitScore != first[i].FitScore {
			t.Errorf("record %d changed across passes:\n%+v\n%+v", i, first[i], second[i])
		}
	}
}

func TestFinalize_EmptyPool(t *testing.T) {
	out, rejected := Finalize(nil, testOpts)
	if len(out) != 0 || rejected != 0 {
		t.Errorf("empty pool should yield nothing, got %v (%d rejected)", out, rejected)
	}
}
