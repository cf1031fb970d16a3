package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RenderProvider is the external rendering/crawling collaborator. It
// executes JavaScript remotely and returns the rendered page; this
// process never runs a browser itself.
type RenderProvider interface {
	Render(ctx context.Context, url string) (*RenderResult, error)
}

// RenderResult is the provider's output for one URL.
type RenderResult struct {
	Success bool
	Content string // rendered markdown/text
}

// RenderEngine adapts a RenderProvider to the Engine interface so the
// dispatcher can use it as the fallback tier.
type RenderEngine struct {
	provider RenderProvider
}

// NewRenderEngine creates a RenderEngine backed by the given provider.
func NewRenderEngine(provider RenderProvider) *RenderEngine {
	return &RenderEngine{provider: provider}
}

func (e *RenderEngine) Name() string { return "render" }

func (e *RenderEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	result, err := e.provider.Render(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if !result.Success || result.Content == "" {
		return nil, fmt.Errorf("render: provider returned no content for %s", req.URL)
	}

	return &FetchResult{
		Content:    result.Content,
		Kind:       KindMarkdown,
		FinalURL:   req.URL,
		EngineName: e.Name(),
	}, nil
}

// HTTPRenderClient is the JSON-over-HTTP RenderProvider implementation.
type HTTPRenderClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPRenderClient creates a render-provider client. An empty apiKey
// is a configuration error surfaced by the caller, not here.
func NewHTTPRenderClient(endpoint, apiKey string, timeout time.Duration) *HTTPRenderClient {
	return &HTTPRenderClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type renderPayload struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type renderResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string `json:"markdown"`
	} `json:"data"`
}

func (c *HTTPRenderClient) Render(ctx context.Context, url string) (*RenderResult, error) {
	body, err := json.Marshal(renderPayload{URL: url, Formats: []string{"markdown"}})
	if err != nil {
		return nil, fmt.Errorf("render client: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("render client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render client: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("render client: HTTP %d for %s", resp.StatusCode, url)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("render client: read body: %w", err)
	}

	var parsed renderResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("render client: decode response: %w", err)
	}

	return &RenderResult{
		Success: parsed.Success,
		Content: parsed.Data.Markdown,
	}, nil
}
