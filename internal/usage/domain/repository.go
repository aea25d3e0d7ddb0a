package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tollgate/pkg/db/option"
	"gorm.io/gorm"
)

type ListFilter struct {
	ApiID      *snowflake.ID
	ConsumerID *snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, event *UsageEvent) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter, opts ...option.QueryOption) ([]*UsageEvent, error)
	Aggregate(ctx context.Context, db *gorm.DB, apiID, consumerID *snowflake.ID, start, end *time.Time) (Summary, error)
}
