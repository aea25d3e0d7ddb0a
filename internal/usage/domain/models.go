package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// UsageEvent records a single API call made by a consumer.
type UsageEvent struct {
	ID             snowflake.ID      `json:"id,string" gorm:"column:id;primaryKey"`
	ApiID          snowflake.ID      `json:"api_id,string" gorm:"column:api_id"`
	ConsumerID     snowflake.ID      `json:"consumer_id,string" gorm:"column:consumer_id"`
	RecordedAt     time.Time         `json:"recorded_at" gorm:"column:recorded_at"`
	LatencyMS      *int              `json:"latency_ms,omitempty" gorm:"column:latency_ms"`
	StatusCode     int               `json:"status_code" gorm:"column:status_code"`
	BytesIn        *int64            `json:"bytes_in,omitempty" gorm:"column:bytes_in"`
	BytesOut       *int64            `json:"bytes_out,omitempty" gorm:"column:bytes_out"`
	IdempotencyKey *string           `json:"idempotency_key,omitempty" gorm:"column:idempotency_key;uniqueIndex"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty" gorm:"column:metadata"`
	CreatedAt      time.Time         `json:"created_at" gorm:"column:created_at"`
}

func (UsageEvent) TableName() string {
	return "usage_events"
}

// Summary aggregates usage events over a window. AvgLatencyMS is nil when
// no event in the window carried a latency, SuccessRate is nil when the
// window is empty.
type Summary struct {
	TotalCalls   int64    `json:"total_calls"`
	AvgLatencyMS *float64 `json:"avg_latency_ms"`
	SuccessRate  *float64 `json:"success_rate"`
}
