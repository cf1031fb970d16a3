package models

// DiscoverRequest is the payload for POST /api/v1/discover.
type DiscoverRequest struct {
	// Categories selects which prospect categories to search for.
	// At least one is required.
	Categories []Category `json:"categories" binding:"required,min=1"`

	// Location is interpolated into location-aware query templates.
	Location string `json:"location,omitempty"`

	// Context is an optional free-text keyword clause ANDed onto the query.
	Context string `json:"context,omitempty"`

	// MaxResults caps the number of prospects returned. 0 means the default.
	MaxResults int `json:"max_results,omitempty"`

	// AutoScore enables fit scoring. When false every prospect scores 0.
	AutoScore bool `json:"auto_score,omitempty"`

	// UserID identifies the caller for the persistence collaborator.
	UserID string `json:"user_id,omitempty"`
}

// Defaults fills zero-valued optional fields with their default values.
func (r *DiscoverRequest) Defaults() {
	if r.MaxResults <= 0 {
		r.MaxResults = 25
	}
	if r.MaxResults > 200 {
		r.MaxResults = 200
	}
}
