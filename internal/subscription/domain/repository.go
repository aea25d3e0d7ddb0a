package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sub *Subscription) error
	List(ctx context.Context, db *gorm.DB, status Status) ([]*Subscription, error)
	CountByStatus(ctx context.Context, db *gorm.DB, status Status) (int64, error)
}
