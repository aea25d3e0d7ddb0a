package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tollgate/internal/plan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO plans (id, name, tier, monthly_price, included_calls, overage_price_per_call, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID,
		plan.Name,
		plan.Tier,
		plan.MonthlyPrice,
		plan.IncludedCalls,
		plan.OveragePricePerCall,
		plan.CreatedAt,
		plan.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, plan *domain.Plan) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE plans
		 SET name = ?, tier = ?, monthly_price = ?, included_calls = ?, overage_price_per_call = ?, updated_at = ?
		 WHERE id = ?`,
		plan.Name,
		plan.Tier,
		plan.MonthlyPrice,
		plan.IncludedCalls,
		plan.OveragePricePerCall,
		plan.UpdatedAt,
		plan.ID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.Plan, error) {
	var plans []*domain.Plan
	err := db.WithContext(ctx).
		Model(&domain.Plan{}).
		Order("created_at desc, id desc").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}
