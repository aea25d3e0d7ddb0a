package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tollgate/pkg/db/pagination"
)

type IngestUsageRequest struct {
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

type ListUsageRequest struct {
	pagination.Pagination

	ApiID      string `form:"api_id"`
	ConsumerID string `form:"consumer_id"`
}

type ListUsageResponse struct {
	Data     []UsageEvent         `json:"data"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

// AggregateRequest scopes a summary. Nil fields leave that dimension
// unbounded.
type AggregateRequest struct {
	ApiID      *snowflake.ID
	ConsumerID *snowflake.ID
	Start      *time.Time
	End        *time.Time
}

type Service interface {
	Ingest(context.Context, IngestUsageRequest) (UsageEvent, error)
	List(context.Context, ListUsageRequest) (ListUsageResponse, error)
	Aggregate(context.Context, AggregateRequest) (Summary, error)
	Count(context.Context) (int64, error)
}

var (
	ErrInvalidApiID      = errors.New("invalid_api_id")
	ErrInvalidConsumerID = errors.New("invalid_consumer_id")
	ErrInvalidLatency    = errors.New("invalid_latency_ms")
	ErrInvalidStatusCode = errors.New("invalid_status_code")
	ErrInvalidBytes      = errors.New("invalid_bytes")
	ErrApiNotFound       = errors.New("api_not_found")
	ErrConsumerNotFound  = errors.New("consumer_not_found")
	ErrDuplicateEvent    = errors.New("duplicate_event")
)
