package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeEngine returns a canned result or error and counts calls.
type fakeEngine struct {
	name   string
	result *FetchResult
	err    error
	calls  int
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Fetch(_ context.Context, _ *FetchRequest) (*FetchResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	r.EngineName = f.name
	return &r, nil
}

func htmlResult(body string) *FetchResult {
	return &FetchResult{Content: body, Kind: KindHTML, StatusCode: 200}
}

const richHTML = `<html><body><main>` +
	`Our clinical team has served families for over twenty years. ` +
	`We provide residential treatment, outpatient counseling, family therapy ` +
	`and academic support to adolescents across the region. Every program is ` +
	`overseen by licensed clinicians and reviewed quarterly.` +
	`</main></body></html>`

func TestDispatcher_DirectSuccess(t *testing.T) {
	direct := &fakeEngine{name: "http", result: htmlResult(richHTML)}
	fallback := &fakeEngine{name: "render", result: &FetchResult{Content: "# page", Kind: KindMarkdown}}
	d := NewDispatcher(direct, fallback, nil, 100)

	got, err := d.Fetch(context.Background(), &FetchRequest{URL: "https://site.example.com/a"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got.EngineName != "http" {
		t.Errorf("EngineName = %q, want http", got.EngineName)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback was called %d times for a good direct fetch", fallback.calls)
	}
}

func TestDispatcher_ShellContentFallsBack(t *testing.T) {
	shell := `<html><body><div id="root"></div></body></html>`
	direct := &fakeEngine{name: "http", result: htmlResult(shell)}
	fallback := &fakeEngine{name: "render", result: &FetchResult{Content: "# Rendered content here", Kind: KindMarkdown}}
	d := NewDispatcher(direct, fallback, nil, 100)

	got, err := d.Fetch(context.Background(), &FetchRequest{URL: "https://spa.example.com/a"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got.EngineName != "render" {
		t.Errorf("EngineName = %q, want render", got.EngineName)
	}
	if direct.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls = direct %d, fallback %d; want 1 and 1", direct.calls, fallback.calls)
	}
}

func TestDispatcher_DirectErrorFallsBack(t *testing.T) {
	direct := &fakeEngine{name: "http", err: errors.New("http_engine: HTTP 403")}
	fallback := &fakeEngine{name: "render", result: &FetchResult{Content: "# ok", Kind: KindMarkdown}}
	d := NewDispatcher(direct, fallback, nil, 100)

	got, err := d.Fetch(context.Background(), &FetchRequest{URL: "https://blocked.example.com/a"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got.EngineName != "render" {
		t.Errorf("EngineName = %q, want render", got.EngineName)
	}
}

func TestDispatcher_BothFailIsTypedFailure(t *testing.T) {
	direct := &fakeEngine{name: "http", err: errors.New("boom")}
	fallback := &fakeEngine{name: "render", err: errors.New("render down")}
	d := NewDispatcher(direct, fallback, nil, 100)

	_, err := d.Fetch(context.Background(), &FetchRequest{URL: "https://down.example.com/a"})
	var ff *FetchFailure
	if !errors.As(err, &ff) {
		t.Fatalf("expected *FetchFailure, got %T: %v", err, err)
	}
	if ff.Reason != ReasonRender {
		t.Errorf("Reason = %q, want %q", ff.Reason, ReasonRender)
	}
	if ff.URL != "https://down.example.com/a" {
		t.Errorf("URL = %q", ff.URL)
	}
}

func TestDispatcher_NoFallbackConfigured(t *testing.T) {
	direct := &fakeEngine{name: "http", err: errors.New("boom")}
	d := NewDispatcher(direct, nil, nil, 100)

	_, err := d.Fetch(context.Background(), &FetchRequest{URL: "https://x.example.com/a"})
	var ff *FetchFailure
	if !errors.As(err, &ff) {
		t.Fatalf("expected *FetchFailure, got %T: %v", err, err)
	}
}

func TestDispatcher_DomainMemorySkipsDirect(t *testing.T) {
	direct := &fakeEngine{name: "http", result: htmlResult(richHTML)}
	fallback := &fakeEngine{name: "render", result: &FetchResult{Content: "# ok", Kind: KindMarkdown}}
	memory := NewDomainMemory(time.Hour)
	defer memory.Stop()
	memory.Set("spa.example.com", "render")

	d := NewDispatcher(direct, fallback, memory, 100)
	got, err := d.Fetch(context.Background(), &FetchRequest{URL: "https://spa.example.com/page"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got.EngineName != "render" {
		t.Errorf("EngineName = %q, want render", got.EngineName)
	}
	if direct.calls != 0 {
		t.Errorf("direct engine called %d times despite render affinity", direct.calls)
	}
}

func TestLooksLikeShell(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{"rich page", richHTML, false},
		{"empty root", `<html><body><div id="root"></div></body></html>`, true},
		{"noscript warning", `<html><body>` + strings.Repeat("word ", 100) +
			`<noscript>Please enable JavaScript to continue</noscript></body></html>`, true},
		{"tiny body", `<html><body>Loading...</body></html>`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeShell(tt.html, 100); got != tt.want {
				t.Errorf("LooksLikeShell = %v, want %v", got, tt.want)
			}
		})
	}
}
