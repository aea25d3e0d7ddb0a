package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/smallbiznis/tollgate/internal/plan/domain"
	subdomain "github.com/smallbiznis/tollgate/internal/subscription/domain"
	"gorm.io/gorm"
)

type Repository interface {
	ListPlans(ctx context.Context, db *gorm.DB) ([]*plandomain.Plan, error)
	ListActiveSubscriptions(ctx context.Context, db *gorm.DB, end time.Time) ([]*subdomain.Subscription, error)
	CountUsage(ctx context.Context, db *gorm.DB, apiID, consumerID snowflake.ID, start, end time.Time) (int64, error)
}
