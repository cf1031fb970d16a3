package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reachforge/prospector/discover"
	"github.com/reachforge/prospector/models"
)

// discoverStore holds all in-flight and completed discovery jobs.
var discoverStore sync.Map

func init() {
	// Background goroutine to expire discovery jobs older than 1 hour.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-1 * time.Hour).Unix()
			discoverStore.Range(func(key, value any) bool {
				job := value.(*models.DiscoverJob)
				if job.CreatedAt < cutoff {
					discoverStore.Delete(key)
				}
				return true
			})
		}
	}()
}

// PostDiscover returns a handler for POST /api/v1/discover.
//
// Discovery runs are long (search plus dozens of page fetches), so the
// handler returns a job ID immediately and the run continues in the
// background. Poll GET /api/v1/discover/:id for the result.
func PostDiscover(d *discover.Discoverer, runTimeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DiscoverRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.DiscoverResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "invalid request: " + err.Error(),
				},
			})
			return
		}
		req.Defaults()

		if req.UserID == "" {
			if key, ok := c.Get("api_key"); ok {
				req.UserID = key.(string)
			}
		}

		jobID := "disc-" + randomID()
		job := &models.DiscoverJob{
			ID:        jobID,
			Status:    "processing",
			CreatedAt: time.Now().Unix(),
		}
		discoverStore.Store(jobID, job)

		go runDiscovery(d, job, &req, runTimeout)

		c.JSON(http.StatusOK, gin.H{
			"id":     jobID,
			"status": "processing",
		})
	}
}

// GetDiscover returns a handler for GET /api/v1/discover/:id.
func GetDiscover() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("id")
		val, ok := discoverStore.Load(jobID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "discovery job not found",
				},
			})
			return
		}

		job := val.(*models.DiscoverJob)
		c.JSON(http.StatusOK, job)
	}
}

func runDiscovery(d *discover.Discoverer, job *models.DiscoverJob, req *models.DiscoverRequest, runTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	resp, err := d.Discover(ctx, req)
	job.Result = resp
	if err != nil {
		job.Status = "failed"
	} else {
		job.Status = "completed"
	}

	slog.Info("discovery job finished",
		"id", job.ID,
		"status", job.Status,
		"total_found", resp.TotalFound,
	)
}

func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
