package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tollgate/internal/usage/domain"
	"github.com/smallbiznis/tollgate/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, event *domain.UsageEvent) error {
	return db.WithContext(ctx).Create(event).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, opts ...option.QueryOption) ([]*domain.UsageEvent, error) {
	query := db.WithContext(ctx).Model(&domain.UsageEvent{})
	if filter.ApiID != nil {
		query = query.Where("api_id = ?", *filter.ApiID)
	}
	if filter.ConsumerID != nil {
		query = query.Where("consumer_id = ?", *filter.ConsumerID)
	}

	for _, opt := range opts {
		query = opt.Apply(query)
	}

	var events []*domain.UsageEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

type aggregateRow struct {
	TotalCalls   int64
	AvgLatencyMS *float64
	SuccessCount *int64
}

func (r *repo) Aggregate(ctx context.Context, db *gorm.DB, apiID, consumerID *snowflake.ID, start, end *time.Time) (domain.Summary, error) {
	query := `
		SELECT
			COUNT(*) AS total_calls,
			AVG(latency_ms) AS avg_latency_ms,
			SUM(CASE WHEN status_code < 400 THEN 1 ELSE 0 END) AS success_count
		FROM usage_events
		WHERE 1 = 1`
	var args []any

	if start != nil {
		query += ` AND recorded_at >= ?`
		args = append(args, *start)
	}
	if end != nil {
		query += ` AND recorded_at < ?`
		args = append(args, *end)
	}
	if apiID != nil {
		query += ` AND api_id = ?`
		args = append(args, *apiID)
	}
	if consumerID != nil {
		query += ` AND consumer_id = ?`
		args = append(args, *consumerID)
	}

	var row aggregateRow
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&row).Error; err != nil {
		return domain.Summary{}, err
	}

	summary := domain.Summary{
		TotalCalls:   row.TotalCalls,
		AvgLatencyMS: row.AvgLatencyMS,
	}
	if row.TotalCalls > 0 && row.SuccessCount != nil {
		rate := float64(*row.SuccessCount) / float64(row.TotalCalls)
		summary.SuccessRate = &rate
	}
	return summary, nil
}
