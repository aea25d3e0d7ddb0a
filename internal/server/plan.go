package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	plandomain "github.com/smallbiznis/tollgate/internal/plan/domain"
)

type planRequest struct {
	Name                string   `json:"name"`
	Tier                string   `json:"tier"`
	MonthlyPrice        *float64 `json:"monthly_price"`
	IncludedCalls       *int64   `json:"included_calls"`
	OveragePricePerCall *float64 `json:"overage_price_per_call"`
}

func (s *Server) CreatePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planSvc.Create(c.Request.Context(), plandomain.CreatePlanRequest{
		Name:                strings.TrimSpace(req.Name),
		Tier:                strings.TrimSpace(req.Tier),
		MonthlyPrice:        req.MonthlyPrice,
		IncludedCalls:       req.IncludedCalls,
		OveragePricePerCall: req.OveragePricePerCall,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPlans(c *gin.Context) {
	resp, err := s.planSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planSvc.Update(c.Request.Context(), plandomain.UpdatePlanRequest{
		ID:                  strings.TrimSpace(c.Param("id")),
		Name:                strings.TrimSpace(req.Name),
		Tier:                strings.TrimSpace(req.Tier),
		MonthlyPrice:        req.MonthlyPrice,
		IncludedCalls:       req.IncludedCalls,
		OveragePricePerCall: req.OveragePricePerCall,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isPlanValidationError(err error) bool {
	switch {
	case errors.Is(err, plandomain.ErrInvalidName),
		errors.Is(err, plandomain.ErrInvalidTier),
		errors.Is(err, plandomain.ErrInvalidMonthlyPrice),
		errors.Is(err, plandomain.ErrInvalidIncludedCalls),
		errors.Is(err, plandomain.ErrInvalidOveragePrice),
		errors.Is(err, plandomain.ErrInvalidID):
		return true
	default:
		return false
	}
}
