package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, consumer *Consumer) error
	List(ctx context.Context, db *gorm.DB) ([]*Consumer, error)
}
