package discover

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/time/rate"

	"github.com/reachforge/prospector/engine"
	"github.com/reachforge/prospector/models"
	"github.com/reachforge/prospector/search"
	"github.com/reachforge/prospector/sink"
)

type fakeProvider struct {
	results []search.Result
	err     error
	queries []string
}

func (p *fakeProvider) Search(_ context.Context, query string, maxResults int) ([]search.Result, error) {
	p.queries = append(p.queries, query)
	if p.err != nil {
		return nil, p.err
	}
	if len(p.results) > maxResults {
		return p.results[:maxResults], nil
	}
	return p.results, nil
}

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string // url -> html
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.URL)
	f.mu.Unlock()

	html, ok := f.pages[req.URL]
	if !ok {
		return nil, &engine.FetchFailure{URL: req.URL, Reason: engine.ReasonStatus, Err: errors.New("not found")}
	}
	return &engine.FetchResult{
		Content:    html,
		Kind:       engine.KindHTML,
		StatusCode: 200,
		FinalURL:   req.URL,
		EngineName: "http",
	}, nil
}

func (f *fakeFetcher) fetched(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == url {
			return true
		}
	}
	return false
}

func testConfig() Config {
	return Config{
		MaxConcurrent: 2,
		PerHostRate:   rate.Inf,
	}
}

const listingURL = "https://www.psychologytoday.com/us/treatment-rehab/ma/boston"

const listingHTML = `<html><head><title>Treatment Centers in Boston</title></head><body>
<a href="https://www.psychologytoday.com/us/treatment-rehab/brookside-recovery-boston-ma/443211">Brookside Recovery</a>
<a href="https://www.psychologytoday.com/us/treatment-rehab?category=detox">Detox Centers</a>
<a href="https://www.psychologytoday.com/us/treatment-rehab/harbor-house-boston-ma/557302">Harbor House</a>
</body></html>`

const brooksideHTML = `<html><head><title>Brookside Recovery</title></head><body>
<p>Our admissions team is led by Jane Doe, LCSW. Reach her directly at (202) 555-0134
or jane.doe@brooksiderecovery.com to discuss residential placement options.</p>
</body></html>`

const harborHTML = `<html><head><title>Harbor House</title></head><body>
<p>Harbor House provides structured adolescent programming. Clinical Director: Mark Reyes.
Families can call (617) 555-0188 with questions about enrollment and daily schedules.</p>
</body></html>`

func TestDiscover_TwoHopPipeline(t *testing.T) {
	provider := &fakeProvider{results: []search.Result{{URL: listingURL, Title: "Treatment Centers in Boston"}}}
	fetcher := &fakeFetcher{pages: map[string]string{
		listingURL: listingHTML,
		"https://www.psychologytoday.com/us/treatment-rehab/brookside-recovery-boston-ma/443211": brooksideHTML,
		"https://www.psychologytoday.com/us/treatment-rehab/harbor-house-boston-ma/557302":       harborHTML,
	}}

	d := New(provider, fetcher, nil, nil, testConfig())
	resp, err := d.Discover(context.Background(), &models.DiscoverRequest{
		Categories: []models.Category{models.CategoryTreatmentCenter},
		Location:   "Boston, MA",
		AutoScore:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got error: %+v", resp.Error)
	}
	if resp.SearchQueryUsed == "" {
		t.Error("expected search query in response")
	}
	if resp.URLsSearched != 1 {
		t.Errorf("URLsSearched = %d, want 1", resp.URLsSearched)
	}

	if !fetcher.fetched("https://www.psychologytoday.com/us/treatment-rehab/brookside-recovery-boston-ma/443211") {
		t.Error("expected profile 443211 to be fetched")
	}
	if !fetcher.fetched("https://www.psychologytoday.com/us/treatment-rehab/harbor-house-boston-ma/557302") {
		t.Error("expected profile 557302 to be fetched")
	}
	if fetcher.fetched("https://www.psychologytoday.com/us/treatment-rehab?category=detox") {
		t.Error("category browse link should not be fetched")
	}

	names := make(map[string]models.DiscoveredProspect)
	for _, p := range resp.Prospects {
		names[p.Name] = p
	}
	jane, ok := names["Jane Doe"]
	if !ok {
		t.Fatalf("expected Jane Doe in prospects, got %v", resp.Prospects)
	}
	if jane.Contact.Phone != "(202) 555-0134" {
		t.Errorf("Jane Doe phone = %q, want (202) 555-0134", jane.Contact.Phone)
	}
	if jane.Contact.Email != "jane.doe@brooksiderecovery.com" {
		t.Errorf("Jane Doe email = %q", jane.Contact.Email)
	}
	if jane.Source != models.SourceTreatmentCenter {
		t.Errorf("Jane Doe source = %q", jane.Source)
	}
	if _, ok := names["Mark Reyes"]; !ok {
		t.Errorf("expected Mark Reyes in prospects, got %v", resp.Prospects)
	}
	for _, p := range resp.Prospects {
		if p.FitScore < 0 || p.FitScore > 100 {
			t.Errorf("prospect %s score %d out of range", p.Name, p.FitScore)
		}
	}
}

func TestDiscover_SearchFailureFailsCall(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}
	d := New(provider, &fakeFetcher{}, nil, nil, testConfig())

	resp, err := d.Discover(context.Background(), &models.DiscoverRequest{
		Categories: []models.Category{models.CategoryPediatrician},
	})
	if err == nil {
		t.Fatal("expected error from search provider failure")
	}
	if resp.Success {
		t.Error("response should not be marked successful")
	}
	if resp.Error == nil || resp.Error.Code != models.ErrCodeSearchFailed {
		t.Errorf("expected error code %q, got %+v", models.ErrCodeSearchFailed, resp.Error)
	}
}

func TestDiscover_UnknownCategoryFailsCall(t *testing.T) {
	d := New(&fakeProvider{}, &fakeFetcher{}, nil, nil, testConfig())

	resp, err := d.Discover(context.Background(), &models.DiscoverRequest{
		Categories: []models.Category{"astronaut"},
	})
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
	if resp.Error == nil || resp.Error.Code != models.ErrCodeUnknownCategory {
		t.Errorf("expected error code %q, got %+v", models.ErrCodeUnknownCategory, resp.Error)
	}
}

func TestDiscover_FetchFailuresAreNotFatal(t *testing.T) {
	provider := &fakeProvider{results: []search.Result{
		{URL: "https://www.healthgrades.com/physician/dr-gone-12345"},
	}}
	// Fetcher has no pages, so every fetch fails.
	d := New(provider, &fakeFetcher{pages: map[string]string{}}, nil, nil, testConfig())

	resp, err := d.Discover(context.Background(), &models.DiscoverRequest{
		Categories: []models.Category{models.CategoryPediatrician},
	})
	if err != nil {
		t.Fatalf("per-URL failures must not fail the call: %v", err)
	}
	if !resp.Success {
		t.Error("expected success with empty results")
	}
	if resp.URLsFailed != 1 {
		t.Errorf("URLsFailed = %d, want 1", resp.URLsFailed)
	}
	if len(resp.Prospects) != 0 {
		t.Errorf("expected no prospects, got %v", resp.Prospects)
	}
}

func TestDiscover_NearDuplicatePagesSkipped(t *testing.T) {
	pageHTML := `<html><head><title>Lakeview Pediatrics</title></head><body>
<p>Dr. Emily Stone welcomes new patients. Our pediatrician team offers same day
appointments. Call (415) 555-0122 to schedule a visit with Emily.</p>
</body></html>`

	provider := &fakeProvider{results: []search.Result{
		{URL: "https://www.lakeviewpeds.com/about"},
		{URL: "https://www.lakeviewpeds.com/about?utm=footer"},
	}}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.lakeviewpeds.com/about":            pageHTML,
		"https://www.lakeviewpeds.com/about?utm=footer": pageHTML,
	}}

	d := New(provider, fetcher, nil, nil, testConfig())
	resp, err := d.Discover(context.Background(), &models.DiscoverRequest{
		Categories: []models.Category{models.CategoryPediatrician},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.PagesDuplicate != 1 {
		t.Errorf("PagesDuplicate = %d, want 1", resp.PagesDuplicate)
	}

	count := 0
	for _, p := range resp.Prospects {
		if p.Name == "Emily Stone" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one Emily Stone record, got %d", count)
	}
}

func TestDiscover_MaxResultsCap(t *testing.T) {
	provider := &fakeProvider{results: []search.Result{{URL: listingURL}}}
	fetcher := &fakeFetcher{pages: map[string]string{
		listingURL: listingHTML,
		"https://www.psychologytoday.com/us/treatment-rehab/brookside-recovery-boston-ma/443211": brooksideHTML,
		"https://www.psychologytoday.com/us/treatment-rehab/harbor-house-boston-ma/557302":       harborHTML,
	}}

	d := New(provider, fetcher, nil, nil, testConfig())
	resp, err := d.Discover(context.Background(), &models.DiscoverRequest{
		Categories: []models.Category{models.CategoryTreatmentCenter},
		MaxResults: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Prospects) != 1 {
		t.Errorf("expected 1 prospect with MaxResults=1, got %d", len(resp.Prospects))
	}
	if resp.TotalFound != 1 {
		t.Errorf("TotalFound = %d, want 1", resp.TotalFound)
	}
}

func TestDiscover_SinkReceivesProspects(t *testing.T) {
	provider := &fakeProvider{results: []search.Result{{URL: listingURL}}}
	fetcher := &fakeFetcher{pages: map[string]string{
		listingURL: listingHTML,
		"https://www.psychologytoday.com/us/treatment-rehab/brookside-recovery-boston-ma/443211": brooksideHTML,
		"https://www.psychologytoday.com/us/treatment-rehab/harbor-house-boston-ma/557302":       harborHTML,
	}}
	memSink := sink.NewMemorySink()

	d := New(provider, fetcher, nil, memSink, testConfig())
	resp, err := d.Discover(context.Background(), &models.DiscoverRequest{
		Categories: []models.Category{models.CategoryTreatmentCenter},
		UserID:     "user-42",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved := memSink.Saved("user-42")
	if len(saved) != len(resp.Prospects) {
		t.Errorf("sink stored %d prospects, response has %d", len(saved), len(resp.Prospects))
	}
}
