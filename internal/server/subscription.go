package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/smallbiznis/tollgate/internal/subscription/domain"
)

type subscriptionRequest struct {
	ConsumerID string     `json:"consumer_id"`
	ApiID      string     `json:"api_id"`
	PlanID     string     `json:"plan_id"`
	StartAt    *time.Time `json:"start_at"`
	Status     string     `json:"status"`
}

func (s *Server) CreateSubscription(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.subscriptionSvc.Create(c.Request.Context(), subscriptiondomain.CreateSubscriptionRequest{
		ConsumerID: strings.TrimSpace(req.ConsumerID),
		ApiID:      strings.TrimSpace(req.ApiID),
		PlanID:     strings.TrimSpace(req.PlanID),
		StartAt:    req.StartAt,
		Status:     strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSubscriptions(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.subscriptionSvc.List(c.Request.Context(), subscriptiondomain.ListSubscriptionsRequest{
		Status: strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isSubscriptionValidationError(err error) bool {
	switch {
	case errors.Is(err, subscriptiondomain.ErrInvalidConsumerID),
		errors.Is(err, subscriptiondomain.ErrInvalidApiID),
		errors.Is(err, subscriptiondomain.ErrInvalidPlanID),
		errors.Is(err, subscriptiondomain.ErrInvalidStatus):
		return true
	default:
		return false
	}
}
