package engine

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
)

// Dispatcher implements the single-attempt-plus-fallback fetch policy:
// the direct HTTP engine runs first, and the render engine runs once if
// the direct fetch fails or returns a JavaScript shell. There are no
// further retries; cost and time stay bounded when scanning dozens of
// URLs per category.
type Dispatcher struct {
	direct     Engine
	fallback   Engine // may be nil when no render provider is configured
	memory     *DomainMemory
	minTextLen int
}

// NewDispatcher creates a Dispatcher. fallback may be nil; memory may be
// nil to disable per-domain engine affinity.
func NewDispatcher(direct, fallback Engine, memory *DomainMemory, minTextLen int) *Dispatcher {
	return &Dispatcher{
		direct:     direct,
		fallback:   fallback,
		memory:     memory,
		minTextLen: minTextLen,
	}
}

// Fetch runs the fallback policy for one URL. On total failure it
// returns a *FetchFailure; the caller logs it and moves to the next URL.
func (d *Dispatcher) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	domain := extractDomain(req.URL)

	// Domains known to need rendering skip the doomed direct attempt.
	if d.fallback != nil && d.remembered(domain) == d.fallback.Name() {
		slog.Debug("domain memory: straight to render", "domain", domain)
		result, err := d.fallback.Fetch(ctx, req)
		if err == nil {
			return result, nil
		}
		// The remembered engine failed; forget it and run the full policy.
		d.forget(domain)
	}

	result, directErr := d.direct.Fetch(ctx, req)
	if directErr == nil {
		if result.Kind != KindHTML || !LooksLikeShell(result.Content, d.minTextLen) {
			d.remember(domain, d.direct.Name())
			return result, nil
		}
		slog.Debug("direct fetch returned JS shell", "url", req.URL)
		directErr = &FetchFailure{URL: req.URL, Reason: ReasonShell}
	}

	if d.fallback == nil {
		return nil, asFailure(req.URL, directErr)
	}

	slog.Debug("falling back to render engine", "url", req.URL, "error", directErr)
	result, renderErr := d.fallback.Fetch(ctx, req)
	if renderErr != nil {
		return nil, &FetchFailure{URL: req.URL, Reason: ReasonRender, Err: errors.Join(directErr, renderErr)}
	}

	d.remember(domain, d.fallback.Name())
	return result, nil
}

func (d *Dispatcher) remembered(domain string) string {
	if d.memory == nil {
		return ""
	}
	return d.memory.Get(domain)
}

func (d *Dispatcher) remember(domain, engine string) {
	if d.memory != nil {
		d.memory.Set(domain, engine)
	}
}

func (d *Dispatcher) forget(domain string) {
	if d.memory != nil {
		d.memory.Delete(domain)
	}
}

// asFailure wraps an engine error into a FetchFailure unless it already
// is one.
func asFailure(url string, err error) error {
	var ff *FetchFailure
	if errors.As(err, &ff) {
		return ff
	}
	reason := ReasonStatus
	if errors.Is(err, context.DeadlineExceeded) {
		reason = ReasonTimeout
	}
	return &FetchFailure{URL: url, Reason: reason, Err: err}
}

// extractDomain parses the hostname from a URL string.
func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}
