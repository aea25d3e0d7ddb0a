package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/tollgate/internal/billingperiod"
	usagedomain "github.com/smallbiznis/tollgate/internal/usage/domain"
)

type overviewResponse struct {
	Period              string   `json:"period,omitempty"`
	TotalCalls          int64    `json:"total_calls"`
	AvgLatencyMS        *float64 `json:"avg_latency_ms"`
	SuccessRate         *float64 `json:"success_rate"`
	Apis                int64    `json:"apis"`
	Consumers           int64    `json:"consumers"`
	ActiveSubscriptions int64    `json:"active_subscriptions"`
}

type apiMetricsResponse struct {
	ApiID        string   `json:"api_id"`
	Period       string   `json:"period,omitempty"`
	TotalCalls   int64    `json:"total_calls"`
	AvgLatencyMS *float64 `json:"avg_latency_ms"`
	SuccessRate  *float64 `json:"success_rate"`
}

func (s *Server) MetricsOverview(c *gin.Context) {
	period := strings.TrimSpace(c.Query("period"))

	start, end, err := resolveOptionalPeriod(period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var consumerID *snowflake.ID
	if raw := strings.TrimSpace(c.Query("consumer_id")); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			AbortWithError(c, usagedomain.ErrInvalidConsumerID)
			return
		}
		consumerID = &id
	}

	ctx := c.Request.Context()

	summary, err := s.usageSvc.Aggregate(ctx, usagedomain.AggregateRequest{
		ConsumerID: consumerID,
		Start:      start,
		End:        end,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	apis, err := s.apiSvc.Count(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	consumers, err := s.consumerSvc.Count(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	activeSubs, err := s.subscriptionSvc.CountActive(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, overviewResponse{
		Period:              period,
		TotalCalls:          summary.TotalCalls,
		AvgLatencyMS:        summary.AvgLatencyMS,
		SuccessRate:         summary.SuccessRate,
		Apis:                apis,
		Consumers:           consumers,
		ActiveSubscriptions: activeSubs,
	})
}

func (s *Server) MetricsByApi(c *gin.Context) {
	apiID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil || apiID == 0 {
		AbortWithError(c, usagedomain.ErrInvalidApiID)
		return
	}

	period := strings.TrimSpace(c.Query("period"))

	start, end, err := resolveOptionalPeriod(period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	summary, err := s.usageSvc.Aggregate(c.Request.Context(), usagedomain.AggregateRequest{
		ApiID: &apiID,
		Start: start,
		End:   end,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, apiMetricsResponse{
		ApiID:        apiID.String(),
		Period:       period,
		TotalCalls:   summary.TotalCalls,
		AvgLatencyMS: summary.AvgLatencyMS,
		SuccessRate:  summary.SuccessRate,
	})
}

func resolveOptionalPeriod(period string) (*time.Time, *time.Time, error) {
	if period == "" {
		return nil, nil, nil
	}

	start, end, err := billingperiod.Resolve(period)
	if err != nil {
		return nil, nil, err
	}
	return &start, &end, nil
}
