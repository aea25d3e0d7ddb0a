package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	usagedomain "github.com/smallbiznis/tollgate/internal/usage/domain"
	"github.com/smallbiznis/tollgate/pkg/db/pagination"
)

type usageEventRequest struct {
	ApiID          string         `json:"api_id"`
	ConsumerID     string         `json:"consumer_id"`
	RecordedAt     *time.Time     `json:"recorded_at"`
	LatencyMS      *int           `json:"latency_ms"`
	StatusCode     *int           `json:"status_code"`
	BytesIn        *int64         `json:"bytes_in"`
	BytesOut       *int64         `json:"bytes_out"`
	IdempotencyKey string         `json:"idempotency_key"`
	Metadata       map[string]any `json:"metadata"`
}

func (s *Server) IngestUsage(c *gin.Context) {
	var req usageEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.usageSvc.Ingest(c.Request.Context(), usagedomain.IngestUsageRequest{
		ApiID:          strings.TrimSpace(req.ApiID),
		ConsumerID:     strings.TrimSpace(req.ConsumerID),
		RecordedAt:     req.RecordedAt,
		LatencyMS:      req.LatencyMS,
		StatusCode:     req.StatusCode,
		BytesIn:        req.BytesIn,
		BytesOut:       req.BytesOut,
		IdempotencyKey: strings.TrimSpace(req.IdempotencyKey),
		Metadata:       req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListUsage(c *gin.Context) {
	var query struct {
		pagination.Pagination

		ApiID      string `form:"api_id"`
		ConsumerID string `form:"consumer_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.usageSvc.List(c.Request.Context(), usagedomain.ListUsageRequest{
		Pagination: query.Pagination,
		ApiID:      strings.TrimSpace(query.ApiID),
		ConsumerID: strings.TrimSpace(query.ConsumerID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      resp.Data,
		"page_info": resp.PageInfo,
	})
}

func isUsageValidationError(err error) bool {
	switch {
	case errors.Is(err, usagedomain.ErrInvalidApiID),
		errors.Is(err, usagedomain.ErrInvalidConsumerID),
		errors.Is(err, usagedomain.ErrInvalidLatency),
		errors.Is(err, usagedomain.ErrInvalidStatusCode),
		errors.Is(err, usagedomain.ErrInvalidBytes):
		return true
	default:
		return false
	}
}
