package repository

import (
	"context"

	"github.com/smallbiznis/tollgate/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscriptions (id, consumer_id, api_id, plan_id, start_at, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID,
		sub.ConsumerID,
		sub.ApiID,
		sub.PlanID,
		sub.StartAt,
		sub.Status,
		sub.CreatedAt,
		sub.UpdatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, status domain.Status) ([]*domain.Subscription, error) {
	query := db.WithContext(ctx).Model(&domain.Subscription{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var subs []*domain.Subscription
	err := query.Order("created_at desc, id desc").Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repo) CountByStatus(ctx context.Context, db *gorm.DB, status domain.Status) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
