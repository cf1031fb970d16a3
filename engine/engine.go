package engine

import (
	"context"
	"fmt"
	"time"
)

// Engine is the interface that all fetch engines must implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "http", "render").
	Name() string

	// Fetch retrieves the page content for the given request.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// ContentKind tells downstream processing what shape Content is in.
type ContentKind string

const (
	KindHTML     ContentKind = "html"
	KindMarkdown ContentKind = "markdown"
)

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL     string
	Timeout time.Duration
}

// FetchResult is the output of a successful engine fetch.
type FetchResult struct {
	Content    string
	Kind       ContentKind
	Title      string
	StatusCode int
	FinalURL   string
	EngineName string
}

// FailureReason classifies why a URL produced no data.
type FailureReason string

const (
	ReasonTimeout FailureReason = "timeout"
	ReasonStatus  FailureReason = "status"
	ReasonEmpty   FailureReason = "empty"
	ReasonShell   FailureReason = "js_shell"
	ReasonRender  FailureReason = "render_failed"
)

// FetchFailure means a URL yielded no usable content after the direct
// attempt and the render fallback. Callers treat it as "no data for this
// URL" and move on; it never aborts the batch.
type FetchFailure struct {
	URL    string
	Reason FailureReason
	Err    error
}

func (f *FetchFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", f.URL, f.Reason, f.Err)
	}
	return fmt.Sprintf("fetch %s: %s", f.URL, f.Reason)
}

func (f *FetchFailure) Unwrap() error {
	return f.Err
}
