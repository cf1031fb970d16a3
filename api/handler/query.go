package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reachforge/prospector/dork"
	"github.com/reachforge/prospector/models"
)

type queryRequest struct {
	Categories []models.Category `json:"categories" binding:"required,min=1"`
	Location   string            `json:"location,omitempty"`
	Context    string            `json:"context,omitempty"`
}

// BuildQuery returns a handler for POST /api/v1/query.
//
// Builds the search query a discovery run would use without executing
// it. Useful for tuning category tables and for the MCP query tool.
func BuildQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req queryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "invalid request: " + err.Error(),
				},
			})
			return
		}

		query, err := dork.Build(req.Categories, req.Location, req.Context)
		if err != nil {
			var derr *models.DiscoverError
			status := http.StatusBadRequest
			detail := &models.ErrorDetail{Code: models.ErrCodeInvalidInput, Message: err.Error()}
			if errors.As(err, &derr) {
				detail = derr.ToDetail()
			}
			c.JSON(status, gin.H{"error": detail})
			return
		}

		c.JSON(http.StatusOK, gin.H{"query": query})
	}
}
