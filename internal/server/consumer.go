package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	consumerdomain "github.com/smallbiznis/tollgate/internal/consumer/domain"
)

type consumerRequest struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Company  *string        `json:"company"`
	PlanID   string         `json:"plan_id"`
	Metadata map[string]any `json:"metadata"`
}

func (s *Server) CreateConsumer(c *gin.Context) {
	var req consumerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.consumerSvc.Create(c.Request.Context(), consumerdomain.CreateConsumerRequest{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Company:  req.Company,
		PlanID:   strings.TrimSpace(req.PlanID),
		Metadata: req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListConsumers(c *gin.Context) {
	resp, err := s.consumerSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isConsumerValidationError(err error) bool {
	switch {
	case errors.Is(err, consumerdomain.ErrInvalidName),
		errors.Is(err, consumerdomain.ErrInvalidEmail),
		errors.Is(err, consumerdomain.ErrInvalidPlanID):
		return true
	default:
		return false
	}
}
