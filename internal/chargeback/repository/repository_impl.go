package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tollgate/internal/chargeback/domain"
	plandomain "github.com/smallbiznis/tollgate/internal/plan/domain"
	subdomain "github.com/smallbiznis/tollgate/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListPlans(ctx context.Context, db *gorm.DB) ([]*plandomain.Plan, error) {
	var plans []*plandomain.Plan
	err := db.WithContext(ctx).
		Model(&plandomain.Plan{}).
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// ListActiveSubscriptions selects the subscriptions eligible for a period
// ending at end: active, and started on or before the period end.
func (r *repo) ListActiveSubscriptions(ctx context.Context, db *gorm.DB, end time.Time) ([]*subdomain.Subscription, error) {
	var subs []*subdomain.Subscription
	err := db.WithContext(ctx).
		Model(&subdomain.Subscription{}).
		Where("status = ?", subdomain.StatusActive).
		Where("start_at <= ?", end).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repo) CountUsage(ctx context.Context, db *gorm.DB, apiID, consumerID snowflake.ID, start, end time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM usage_events
		 WHERE api_id = ? AND consumer_id = ? AND recorded_at >= ? AND recorded_at < ?`,
		apiID, consumerID, start, end,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
