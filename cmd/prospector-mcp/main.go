// Command prospector-mcp exposes the Prospector HTTP API as MCP tools
// over stdio, so an agent can launch discovery runs and inspect the
// queries they would use.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// discoverRequest mirrors the Prospector API request model.
type discoverRequest struct {
	Categories []string `json:"categories"`
	Location   string   `json:"location,omitempty"`
	Context    string   `json:"context,omitempty"`
	MaxResults int      `json:"max_results,omitempty"`
	AutoScore  bool     `json:"auto_score,omitempty"`
}

// discoverJobResponse mirrors the async job envelope.
type discoverJobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// queryResponse mirrors the query preview response.
type queryResponse struct {
	Query string `json:"query"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("PROSPECTOR_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("PROSPECTOR_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "PROSPECTOR_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"prospector",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	discoverTool := mcp.NewTool("discover",
		mcp.WithDescription("Discover professional prospects (names, titles, contact details) for the given categories by searching the web and extracting from directory and staff pages. Blocks until the run completes."),
		mcp.WithArray("categories",
			mcp.Required(),
			mcp.Description("Prospect categories to search: 'treatment_center', 'therapist_profile', 'school_consultant', 'pediatrician'"),
		),
		mcp.WithString("location",
			mcp.Description("Geographic focus, e.g. 'Boston, MA'"),
		),
		mcp.WithString("context",
			mcp.Description("Extra keyword context ANDed onto the search query"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum prospects to return (default: 25, max: 200)"),
		),
	)
	s.AddTool(discoverTool, handleDiscover(apiURL, apiKey))

	buildQueryTool := mcp.NewTool("build_query",
		mcp.WithDescription("Build the search query a discovery run would use, without executing it. Useful for inspecting category coverage."),
		mcp.WithArray("categories",
			mcp.Required(),
			mcp.Description("Prospect categories: 'treatment_center', 'therapist_profile', 'school_consultant', 'pediatrician'"),
		),
		mcp.WithString("location",
			mcp.Description("Geographic focus, e.g. 'Boston, MA'"),
		),
		mcp.WithString("context",
			mcp.Description("Extra keyword context ANDed onto the query"),
		),
	)
	s.AddTool(buildQueryTool, handleBuildQuery(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleDiscover(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		categories, err := requireStringSlice(request, "categories")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		reqBody := discoverRequest{
			Categories: categories,
			Location:   request.GetString("location", ""),
			Context:    request.GetString("context", ""),
			AutoScore:  true,
		}
		if raw, ok := request.GetArguments()["max_results"]; ok {
			if n, ok := raw.(float64); ok {
				reqBody.MaxResults = int(n)
			}
		}

		body, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/discover", reqBody)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var job discoverJobResponse
		if err := json.Unmarshal(body, &job); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("parse response: %v", err)), nil
		}
		if job.ID == "" {
			return mcp.NewToolResultError("API did not return a job ID: " + string(body)), nil
		}

		result, err := pollJobCompletion(ctx, client, apiURL, apiKey, "/api/v1/discover/"+job.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("poll job: %v", err)), nil
		}

		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleBuildQuery(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 15 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		categories, err := requireStringSlice(request, "categories")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		reqBody := map[string]any{
			"categories": categories,
			"location":   request.GetString("location", ""),
			"context":    request.GetString("context", ""),
		}

		body, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/query", reqBody)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var parsed queryResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("parse response: %v", err)), nil
		}
		if parsed.Error != nil {
			return mcp.NewToolResultError(parsed.Error.Message), nil
		}

		return mcp.NewToolResultText(parsed.Query), nil
	}
}

// requireStringSlice reads a required array argument as []string.
func requireStringSlice(request mcp.CallToolRequest, key string) ([]string, error) {
	raw := request.GetArguments()[key]
	items, ok := raw.([]any)
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("%s is required and must be a non-empty array", key)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s must contain only strings", key)
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out, nil
}

// apiPost sends a POST request to the Prospector API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// pollJobCompletion polls a job endpoint until status is no longer "processing" or context is cancelled.
func pollJobCompletion(ctx context.Context, client *http.Client, apiURL, apiKey, endpoint string) ([]byte, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+endpoint, nil)
			if err != nil {
				return nil, fmt.Errorf("create poll request: %w", err)
			}
			req.Header.Set("X-API-Key", apiKey)

			resp, err := client.Do(req)
			if err != nil {
				return nil, fmt.Errorf("poll request failed: %w", err)
			}

			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("read poll response: %w", err)
			}

			var status struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(body, &status); err != nil {
				return nil, fmt.Errorf("parse poll status: %w", err)
			}

			if status.Status != "processing" {
				return body, nil
			}
		}
	}
}
