package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tollgate/internal/apiservice/domain"
	"github.com/smallbiznis/tollgate/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	store repository.Repository[domain.ApiService]
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("apiservice.service"),
		genID: p.GenID,
		repo:  p.Repo,
		store: repository.ProvideStore[domain.ApiService](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateApiServiceRequest) (domain.ApiService, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ApiService{}, domain.ErrInvalidName
	}

	version := strings.TrimSpace(req.Version)
	if version == "" {
		version = "v1"
	}

	stage := domain.LifecycleStage(strings.TrimSpace(req.LifecycleStage))
	if stage == "" {
		stage = domain.LifecycleStageDeploy
	}
	if !domain.ValidLifecycleStage(stage) {
		return domain.ApiService{}, domain.ErrInvalidLifecycleStage
	}

	status := domain.HealthStatus(strings.TrimSpace(req.Status))
	if status == "" {
		status = domain.HealthStatusHealthy
	}
	if !domain.ValidHealthStatus(status) {
		return domain.ApiService{}, domain.ErrInvalidStatus
	}

	if req.RateLimitPerMin != nil && *req.RateLimitPerMin < 0 {
		return domain.ApiService{}, domain.ErrInvalidRateLimit
	}

	now := time.Now().UTC()
	api := domain.ApiService{
		ID:              s.genID.Generate(),
		Name:            name,
		Version:         version,
		Owner:           trimPtr(req.Owner),
		LifecycleStage:  stage,
		RateLimitPerMin: req.RateLimitPerMin,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, &api); err != nil {
		return domain.ApiService{}, err
	}

	return api, nil
}

func (s *Service) List(ctx context.Context) ([]domain.ApiService, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	apis := make([]domain.ApiService, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		apis = append(apis, *item)
	}
	return apis, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateApiServiceRequest) (domain.ApiService, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.ApiService{}, domain.ErrInvalidID
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ApiService{}, domain.ErrInvalidName
	}

	version := strings.TrimSpace(req.Version)
	if version == "" {
		version = "v1"
	}

	stage := domain.LifecycleStage(strings.TrimSpace(req.LifecycleStage))
	if !domain.ValidLifecycleStage(stage) {
		return domain.ApiService{}, domain.ErrInvalidLifecycleStage
	}

	status := domain.HealthStatus(strings.TrimSpace(req.Status))
	if !domain.ValidHealthStatus(status) {
		return domain.ApiService{}, domain.ErrInvalidStatus
	}

	if req.RateLimitPerMin != nil && *req.RateLimitPerMin < 0 {
		return domain.ApiService{}, domain.ErrInvalidRateLimit
	}

	api := domain.ApiService{
		ID:              id,
		Name:            name,
		Version:         version,
		Owner:           trimPtr(req.Owner),
		LifecycleStage:  stage,
		RateLimitPerMin: req.RateLimitPerMin,
		Status:          status,
		UpdatedAt:       time.Now().UTC(),
	}

	updated, err := s.repo.Update(ctx, s.db, &api)
	if err != nil {
		return domain.ApiService{}, err
	}
	if !updated {
		return domain.ApiService{}, domain.ErrNotFound
	}

	stored, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.ApiService{}, err
	}
	if stored == nil {
		return domain.ApiService{}, domain.ErrNotFound
	}
	return *stored, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx, &domain.ApiService{})
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
