package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apidomain "github.com/smallbiznis/tollgate/internal/apiservice/domain"
)

type apiServiceRequest struct {
	Name            string  `json:"name"`
	Version         string  `json:"version"`
	Owner           *string `json:"owner"`
	LifecycleStage  string  `json:"lifecycle_stage"`
	RateLimitPerMin *int    `json:"rate_limit_per_min"`
	Status          string  `json:"status"`
}

func (s *Server) CreateApi(c *gin.Context) {
	var req apiServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.apiSvc.Create(c.Request.Context(), apidomain.CreateApiServiceRequest{
		Name:            strings.TrimSpace(req.Name),
		Version:         strings.TrimSpace(req.Version),
		Owner:           req.Owner,
		LifecycleStage:  strings.TrimSpace(req.LifecycleStage),
		RateLimitPerMin: req.RateLimitPerMin,
		Status:          strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListApis(c *gin.Context) {
	resp, err := s.apiSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateApi(c *gin.Context) {
	var req apiServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.apiSvc.Update(c.Request.Context(), apidomain.UpdateApiServiceRequest{
		ID:              strings.TrimSpace(c.Param("id")),
		Name:            strings.TrimSpace(req.Name),
		Version:         strings.TrimSpace(req.Version),
		Owner:           req.Owner,
		LifecycleStage:  strings.TrimSpace(req.LifecycleStage),
		RateLimitPerMin: req.RateLimitPerMin,
		Status:          strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isApiServiceValidationError(err error) bool {
	switch {
	case errors.Is(err, apidomain.ErrInvalidName),
		errors.Is(err, apidomain.ErrInvalidLifecycleStage),
		errors.Is(err, apidomain.ErrInvalidStatus),
		errors.Is(err, apidomain.ErrInvalidRateLimit),
		errors.Is(err, apidomain.ErrInvalidID):
		return true
	default:
		return false
	}
}
