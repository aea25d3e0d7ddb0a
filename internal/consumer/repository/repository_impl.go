package repository

import (
	"context"

	"github.com/smallbiznis/tollgate/internal/consumer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, consumer *domain.Consumer) error {
	return db.WithContext(ctx).Create(consumer).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.Consumer, error) {
	var consumers []*domain.Consumer
	err := db.WithContext(ctx).
		Model(&domain.Consumer{}).
		Order("created_at desc, id desc").
		Find(&consumers).Error
	if err != nil {
		return nil, err
	}
	return consumers, nil
}
