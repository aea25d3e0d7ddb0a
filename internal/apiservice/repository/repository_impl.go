package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tollgate/internal/apiservice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, api *domain.ApiService) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO api_services (id, name, version, owner, lifecycle_stage, rate_limit_per_min, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		api.ID,
		api.Name,
		api.Version,
		api.Owner,
		api.LifecycleStage,
		api.RateLimitPerMin,
		api.Status,
		api.CreatedAt,
		api.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.ApiService, error) {
	var api domain.ApiService
	err := db.WithContext(ctx).Where("id = ?", id).First(&api).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &api, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, api *domain.ApiService) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE api_services
		 SET name = ?, version = ?, owner = ?, lifecycle_stage = ?, rate_limit_per_min = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		api.Name,
		api.Version,
		api.Owner,
		api.LifecycleStage,
		api.RateLimitPerMin,
		api.Status,
		api.UpdatedAt,
		api.ID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.ApiService, error) {
	var apis []*domain.ApiService
	err := db.WithContext(ctx).
		Model(&domain.ApiService{}).
		Order("created_at desc, id desc").
		Find(&apis).Error
	if err != nil {
		return nil, err
	}
	return apis, nil
}
