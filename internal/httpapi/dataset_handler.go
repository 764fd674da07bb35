package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsundin/esett-proxy/internal/dataset"
	"github.com/jsundin/esett-proxy/internal/engine"
	"github.com/jsundin/esett-proxy/internal/esett"
)

// handleDataset serves one dataset endpoint. The same handler backs all four
// routes; the descriptor supplies everything dataset-specific.
func (s *Server) handleDataset(ds dataset.Descriptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := s.parseQuery(c, ds)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
		defer cancel()

		result, err := s.engine.Query(ctx, ds, q)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, esett.ErrUnknownArea) {
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		data := make([]map[string]any, 0, len(result.Rows))
		for _, row := range result.Rows {
			data = append(data, dataset.Payload(ds, row))
		}

		c.JSON(http.StatusOK, gin.H{
			"data":      data,
			"total":     result.Total,
			"page":      result.Page,
			"page_size": result.PageSize,
			"cached":    result.Cached,
		})
	}
}

func (s *Server) parseQuery(c *gin.Context, ds dataset.Descriptor) (engine.Query, bool) {
	q := engine.Query{
		Page:     1,
		PageSize: s.cfg.DefaultPageSize,
	}

	q.Area = c.Query("mba")
	if q.Area == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mba is required"})
		return q, false
	}

	startStr := c.Query("start")
	if startStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start is required"})
		return q, false
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start timestamp, expected RFC3339"})
		return q, false
	}

	endStr := c.Query("end")
	if endStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end is required"})
		return q, false
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end timestamp, expected RFC3339"})
		return q, false
	}
	q.Range = dataset.Range{Start: start.UTC(), End: end.UTC()}

	if ds.HasGroup {
		if mga := c.Query("mga"); mga != "" {
			q.Group = &mga
		}
	}

	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return q, false
		}
		q.Page = page
	}

	if sizeStr := c.Query("page_size"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size < 1 || size > s.cfg.MaxPageSize {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid page_size, expected 1-" + strconv.Itoa(s.cfg.MaxPageSize),
			})
			return q, false
		}
		q.PageSize = size
	}

	return q, true
}
