package models

// DiscoverResponse is the result of one discovery run.
// Error is populated only on total failure (configuration-class errors);
// per-URL fetch and extraction failures only shrink the prospect list.
type DiscoverResponse struct {
	Success         bool                 `json:"success"`
	DiscoveryID     string               `json:"discovery_id"`
	TotalFound      int                  `json:"total_found"`
	Prospects       []DiscoveredProspect `json:"prospects"`
	SearchQueryUsed string               `json:"search_query_used,omitempty"`
	Error           *ErrorDetail         `json:"error,omitempty"`

	// Diagnostics for the run; never user-facing errors.
	URLsSearched   int `json:"urls_searched"`
	URLsFailed     int `json:"urls_failed"`
	NamesRejected  int `json:"names_rejected"`
	PagesDuplicate int `json:"pages_duplicate"`
	OrgContacts    int `json:"org_contacts"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// DiscoverJob tracks an asynchronous discovery run.
type DiscoverJob struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"` // "processing", "completed", "failed"
	CreatedAt int64             `json:"created_at"`
	Result    *DiscoverResponse `json:"result,omitempty"`
}
