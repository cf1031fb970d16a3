// Package discover runs the end-to-end prospect discovery pipeline:
// query build, web search, page fetch, extraction and finalization.
package discover

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/url"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/reachforge/prospector/cache"
	"github.com/reachforge/prospector/dork"
	"github.com/reachforge/prospector/engine"
	"github.com/reachforge/prospector/extract"
	"github.com/reachforge/prospector/models"
	"github.com/reachforge/prospector/pagetext"
	"github.com/reachforge/prospector/rank"
	"github.com/reachforge/prospector/resolver"
	"github.com/reachforge/prospector/search"
	"github.com/reachforge/prospector/simhash"
	"github.com/reachforge/prospector/sink"
)

// Fetcher fetches one page. Satisfied by *engine.Dispatcher.
type Fetcher interface {
	Fetch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error)
}

// Config tunes one Discoverer. Zero values get defaults in New.
type Config struct {
	// MaxConcurrent bounds the number of pages fetched in parallel.
	MaxConcurrent int

	// PerHostRate and PerHostBurst pace requests to a single host.
	PerHostRate  rate.Limit
	PerHostBurst int

	// FetchTimeout bounds each page fetch.
	FetchTimeout time.Duration

	// SearchMultiplier scales MaxResults into the number of search hits
	// requested; not every hit yields a prospect.
	SearchMultiplier int

	// MaxProfilesPerListing caps how many profile links one listing page
	// may contribute.
	MaxProfilesPerListing int

	// SimhashThreshold is the Hamming distance at or under which two
	// pages count as duplicates.
	SimhashThreshold int

	// CacheMaxAge is how stale a cached fetch may be and still be used.
	CacheMaxAge time.Duration
}

func (c *Config) defaults() {
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 5
	}
	if c.PerHostRate <= 0 {
		c.PerHostRate = rate.Limit(1)
	}
	if c.PerHostBurst <= 0 {
		c.PerHostBurst = 2
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.SearchMultiplier <= 0 {
		c.SearchMultiplier = 2
	}
	if c.MaxProfilesPerListing <= 0 {
		c.MaxProfilesPerListing = 10
	}
	if c.SimhashThreshold <= 0 {
		c.SimhashThreshold = 3
	}
	if c.CacheMaxAge <= 0 {
		c.CacheMaxAge = 15 * time.Minute
	}
}

// Discoverer wires the pipeline stages together. Safe for concurrent
// use; one instance serves all API requests.
type Discoverer struct {
	provider search.Provider
	fetcher  Fetcher
	cache    *cache.Cache
	sink     sink.Sink
	cfg      Config

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a Discoverer. cache and snk may be nil; caching and
// persistence are then skipped.
func New(provider search.Provider, fetcher Fetcher, c *cache.Cache, snk sink.Sink, cfg Config) *Discoverer {
	cfg.defaults()
	return &Discoverer{
		provider: provider,
		fetcher:  fetcher,
		cache:    c,
		sink:     snk,
		cfg:      cfg,
		limiters: make(map[string]*rate.Limiter),
	}
}

// run accumulates the shared state of one discovery run.
type run struct {
	mu         sync.Mutex
	pools      map[models.Category][]extract.Candidate
	dupIndex   *simhash.Index
	failed      int
	duplicates  int
	candidates  int
	orgContacts int
}

func (r *run) add(cat models.Category, cands []extract.Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pools[cat] = append(r.pools[cat], cands...)
	r.candidates += len(cands)
}

func (r *run) seenSimilar(fp uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dupIndex.SeenSimilar(fp) {
		r.duplicates++
		return true
	}
	return false
}

func (r *run) orgContact() {
	r.mu.Lock()
	r.orgContacts++
	r.mu.Unlock()
}

func (r *run) fail() {
	r.mu.Lock()
	r.failed++
	r.mu.Unlock()
}

func (r *run) enough(want int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.candidates >= want
}

// Discover executes one discovery run. Per-URL failures shrink the
// result set; only configuration-class errors (unknown category, search
// provider failure) fail the call. Deadline expiry mid-run returns the
// prospects gathered so far as a success.
func (d *Discoverer) Discover(ctx context.Context, req *models.DiscoverRequest) (*models.DiscoverResponse, error) {
	req.Defaults()
	resp := &models.DiscoverResponse{DiscoveryID: "disc-" + randomID()}

	query, err := dork.Build(req.Categories, req.Location, req.Context)
	if err != nil {
		return failResponse(resp, err), err
	}
	resp.SearchQueryUsed = query

	searchMax := req.MaxResults * d.cfg.SearchMultiplier
	if searchMax > 100 {
		searchMax = 100
	}
	results, err := d.provider.Search(ctx, query, searchMax)
	if err != nil {
		var derr *models.DiscoverError
		if !errors.As(err, &derr) {
			err = models.NewDiscoverError(models.ErrCodeSearchFailed, "search provider request failed", err)
		}
		return failResponse(resp, err), err
	}

	cats := uniqueCategories(req.Categories)

	extractors := make(map[models.Category]*extract.Extractor, len(cats))
	for _, cat := range cats {
		cfg := dork.Config(cat)
		extractors[cat] = extract.New(extract.Options{
			Source:         cfg.Source,
			RoleVocabulary: cfg.RoleVocabulary,
			TeamSelectors:  cfg.TeamSelectors,
		})
	}

	st := &run{
		pools:    make(map[models.Category][]extract.Candidate),
		dupIndex: simhash.NewIndex(d.cfg.SimhashThreshold),
	}

	sem := make(chan struct{}, d.cfg.MaxConcurrent)
	var wg sync.WaitGroup
	seen := make(map[string]struct{}, len(results))

	// Gather more candidates than the cap so dedup and validation have
	// headroom, then stop launching work.
	wantCandidates := req.MaxResults * 2

	for _, result := range results {
		if ctx.Err() != nil {
			break
		}
		if st.enough(wantCandidates) {
			break
		}
		if _, ok := seen[result.URL]; ok {
			continue
		}
		seen[result.URL] = struct{}{}

		wg.Add(1)
		go func(hit search.Result) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			d.processURL(ctx, hit.URL, cats, extractors, st)
		}(result)
	}
	wg.Wait()

	resp.URLsSearched = len(seen)
	resp.URLsFailed = st.failed
	resp.PagesDuplicate = st.duplicates
	resp.OrgContacts = st.orgContacts

	var prospects []models.DiscoveredProspect
	for _, cat := range cats {
		pool := st.pools[cat]
		if len(pool) == 0 {
			continue
		}
		cfg := dork.Config(cat)
		finalized, rejected := rank.Finalize(pool, rank.Options{
			Source:         cfg.Source,
			RoleVocabulary: cfg.RoleVocabulary,
			SpecialtyTags:  cfg.SpecialtyTags,
			AutoScore:      req.AutoScore,
		})
		resp.NamesRejected += rejected
		prospects = append(prospects, finalized...)
	}

	sortByScore(prospects)
	if len(prospects) > req.MaxResults {
		prospects = prospects[:req.MaxResults]
	}

	resp.Success = true
	resp.Prospects = prospects
	resp.TotalFound = len(prospects)

	if d.sink != nil && len(prospects) > 0 {
		stored, err := d.sink.Save(ctx, req.UserID, prospects)
		if err != nil {
			slog.Error("prospect persistence failed", "discovery_id", resp.DiscoveryID, "error", err)
		} else {
			slog.Info("prospects stored", "discovery_id", resp.DiscoveryID, "stored", stored)
		}
	}

	slog.Info("discovery finished",
		"discovery_id", resp.DiscoveryID,
		"urls_searched", resp.URLsSearched,
		"urls_failed", resp.URLsFailed,
		"pages_duplicate", resp.PagesDuplicate,
		"org_contacts", resp.OrgContacts,
		"names_rejected", resp.NamesRejected,
		"total_found", resp.TotalFound,
	)
	return resp, nil
}

// processURL runs the per-page pipeline for one search hit: fetch,
// clean, duplicate check, optional listing-to-profile hop, extract.
func (d *Discoverer) processURL(ctx context.Context, rawURL string, cats []models.Category, extractors map[models.Category]*extract.Extractor, st *run) {
	cat := dork.Classify(rawURL, cats)
	cfg := dork.Config(cat)
	ex := extractors[cat]

	page, err := d.fetchPage(ctx, rawURL)
	if err != nil {
		st.fail()
		logFetchFailure(rawURL, err)
		return
	}

	if st.seenSimilar(simhash.Fingerprint(page.Text)) {
		slog.Debug("near-duplicate page skipped", "url", rawURL)
		return
	}

	// Listing pages link out to one profile per person; extracting from
	// the profiles beats scraping names out of the listing itself.
	if cfg.TwoHop && page.RawHTML != "" {
		profiles := resolver.ResolveProfiles(rawURL, page.RawHTML, d.cfg.MaxProfilesPerListing)
		if len(profiles) > 0 {
			for _, profileURL := range profiles {
				if ctx.Err() != nil {
					return
				}
				profilePage, err := d.fetchPage(ctx, profileURL)
				if err != nil {
					st.fail()
					logFetchFailure(profileURL, err)
					continue
				}
				if st.seenSimilar(simhash.Fingerprint(profilePage.Text)) {
					continue
				}
				d.extractInto(profilePage, ex, cat, st)
			}
			return
		}
	}

	d.extractInto(page, ex, cat, st)
}

func (d *Discoverer) extractInto(page *pagetext.Page, ex *extract.Extractor, cat models.Category, st *run) {
	candidates, orgContact := ex.Extract(page)
	if orgContact != nil {
		st.orgContact()
		slog.Debug("page yielded an organization-level contact",
			"url", page.URL, "email", orgContact.Email, "phone", orgContact.Phone)
	}
	if len(candidates) == 0 {
		return
	}
	for i := range candidates {
		if candidates[i].Organization == "" {
			candidates[i].Organization = page.Title
		}
	}
	st.add(cat, candidates)
}

// fetchPage returns the cleaned page for a URL, using the fetch cache
// when one is configured and pacing requests per host.
func (d *Discoverer) fetchPage(ctx context.Context, rawURL string) (*pagetext.Page, error) {
	key := cache.Key(rawURL)
	if d.cache != nil {
		if res, ok := d.cache.Get(key, d.cfg.CacheMaxAge); ok {
			return pageFrom(res, rawURL), nil
		}
	}

	if err := d.limiter(hostOf(rawURL)).Wait(ctx); err != nil {
		return nil, err
	}

	res, err := d.fetcher.Fetch(ctx, &engine.FetchRequest{URL: rawURL, Timeout: d.cfg.FetchTimeout})
	if err != nil {
		return nil, err
	}
	if d.cache != nil {
		d.cache.Set(key, res)
	}
	return pageFrom(res, rawURL), nil
}

func pageFrom(res *engine.FetchResult, rawURL string) *pagetext.Page {
	if res.Kind == engine.KindHTML {
		return pagetext.FromHTML(res.Content, rawURL)
	}
	return pagetext.FromText(res.Content, rawURL)
}

func (d *Discoverer) limiter(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	if l, ok := d.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(d.cfg.PerHostRate, d.cfg.PerHostBurst)
	d.limiters[host] = l
	return l
}

func uniqueCategories(cats []models.Category) []models.Category {
	seen := make(map[models.Category]struct{}, len(cats))
	out := make([]models.Category, 0, len(cats))
	for _, cat := range cats {
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	return out
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}

func logFetchFailure(rawURL string, err error) {
	var failure *engine.FetchFailure
	if errors.As(err, &failure) {
		slog.Warn("page fetch failed", "url", rawURL, "reason", failure.Reason, "error", failure.Err)
		return
	}
	slog.Warn("page fetch failed", "url", rawURL, "error", err)
}

func failResponse(resp *models.DiscoverResponse, err error) *models.DiscoverResponse {
	var derr *models.DiscoverError
	if errors.As(err, &derr) {
		resp.Error = derr.ToDetail()
	} else {
		resp.Error = models.NewDiscoverError(models.ErrCodeInternal, err.Error(), err).ToDetail()
	}
	resp.Success = false
	return resp
}

func sortByScore(prospects []models.DiscoveredProspect) {
	sort.SliceStable(prospects, func(i, j int) bool {
		return prospects[i].FitScore > prospects[j].FitScore
	})
}

func randomID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b)
}
