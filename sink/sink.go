// Package sink hands finished prospect lists to the persistence
// collaborator. The engine does not know the storage schema; it only
// delivers records and reads back a stored count.
package sink

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/reachforge/prospector/models"
)

// Sink accepts discovered prospects for a user and reports how many
// were stored.
type Sink interface {
	Save(ctx context.Context, userID string, prospects []models.DiscoveredProspect) (int, error)
}

// payload is the delivery body sent to the persistence endpoint.
type payload struct {
	UserID    string                      `json:"user_id"`
	Timestamp int64                       `json:"timestamp"`
	Prospects []models.DiscoveredProspect `json:"prospects"`
}

type saveResponse struct {
	Stored int `json:"stored"`
}

// HTTPSink delivers prospects to the persistence collaborator over
// HTTP. The request body is signed with HMAC-SHA256 when secret is
// non-empty. Header: X-Prospector-Signature: sha256=<hex>.
type HTTPSink struct {
	endpoint string
	secret   string
	client   *http.Client
}

// NewHTTPSink creates an HTTPSink.
func NewHTTPSink(endpoint, secret string, timeout time.Duration) *HTTPSink {
	return &HTTPSink{
		endpoint: endpoint,
		secret:   secret,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSink) Save(ctx context.Context, userID string, prospects []models.DiscoveredProspect) (int, error) {
	body, err := json.Marshal(payload{
		UserID:    userID,
		Timestamp: time.Now().Unix(),
		Prospects: prospects,
	})
	if err != nil {
		return 0, fmt.Errorf("sink: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("sink: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Prospector-Sink/1.0")

	if s.secret != "" {
		mac := hmac.New(sha256.New, []byte(s.secret))
		mac.Write(body)
		sig := hex.EncodeToString(mac.Sum(nil))
		req.Header.Set("X-Prospector-Signature", "sha256="+sig)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sink: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("sink: endpoint returned status %d", resp.StatusCode)
	}

	var parsed saveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		// Endpoint stored the batch but replied with a non-JSON body;
		// fall back to the batch size.
		return len(prospects), nil
	}
	return parsed.Stored, nil
}

// MemorySink keeps saved prospects in memory. Used by tests and when no
// persistence endpoint is configured.
type MemorySink struct {
	mu    sync.Mutex
	saved map[string][]models.DiscoveredProspect
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{saved: make(map[string][]models.DiscoveredProspect)}
}

func (s *MemorySink) Save(_ context.Context, userID string, prospects []models.DiscoveredProspect) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[userID] = append(s.saved[userID], prospects...)
	return len(prospects), nil
}

// Saved returns a copy of everything stored for a user.
func (s *MemorySink) Saved(userID string) []models.DiscoveredProspect {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DiscoveredProspect, len(s.saved[userID]))
	copy(out, s.saved[userID])
	return out
}
