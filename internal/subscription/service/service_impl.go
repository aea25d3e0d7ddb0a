package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	apidomain "github.com/smallbiznis/tollgate/internal/apiservice/domain"
	plandomain "github.com/smallbiznis/tollgate/internal/plan/domain"
	"github.com/smallbiznis/tollgate/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	ApiRepo  apidomain.Repository
	PlanRepo plandomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	apiRepo  apidomain.Repository
	planRepo plandomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("subscription.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		apiRepo:  p.ApiRepo,
		planRepo: p.PlanRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateSubscriptionRequest) (domain.Subscription, error) {
	consumerID, err := snowflake.ParseString(strings.TrimSpace(req.ConsumerID))
	if err != nil || consumerID == 0 {
		return domain.Subscription{}, domain.ErrInvalidConsumerID
	}

	apiID, err := snowflake.ParseString(strings.TrimSpace(req.ApiID))
	if err != nil || apiID == 0 {
		return domain.Subscription{}, domain.ErrInvalidApiID
	}

	planID, err := snowflake.ParseString(strings.TrimSpace(req.PlanID))
	if err != nil || planID == 0 {
		return domain.Subscription{}, domain.ErrInvalidPlanID
	}

	status := domain.Status(strings.TrimSpace(req.Status))
	if status == "" {
		status = domain.StatusActive
	}
	if !domain.ValidStatus(status) {
		return domain.Subscription{}, domain.ErrInvalidStatus
	}

	var exists int64
	if err := s.db.WithContext(ctx).
		Table("consumers").
		Where("id = ?", consumerID).
		Count(&exists).Error; err != nil {
		return domain.Subscription{}, err
	}
	if exists == 0 {
		return domain.Subscription{}, domain.ErrConsumerNotFound
	}

	api, err := s.apiRepo.FindByID(ctx, s.db, apiID)
	if err != nil {
		return domain.Subscription{}, err
	}
	if api == nil {
		return domain.Subscription{}, domain.ErrApiNotFound
	}

	plan, err := s.planRepo.FindByID(ctx, s.db, planID)
	if err != nil {
		return domain.Subscription{}, err
	}
	if plan == nil {
		return domain.Subscription{}, domain.ErrPlanNotFound
	}

	now := time.Now().UTC()
	startAt := now
	if req.StartAt != nil {
		startAt = req.StartAt.UTC()
	}

	sub := domain.Subscription{
		ID:         s.genID.Generate(),
		ConsumerID: consumerID,
		ApiID:      apiID,
		PlanID:     planID,
		StartAt:    startAt,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, &sub); err != nil {
		return domain.Subscription{}, err
	}

	return sub, nil
}

func (s *Service) List(ctx context.Context, req domain.ListSubscriptionsRequest) ([]domain.Subscription, error) {
	status := domain.Status(strings.TrimSpace(req.Status))
	if status != "" && !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	items, err := s.repo.List(ctx, s.db, status)
	if err != nil {
		return nil, err
	}

	subs := make([]domain.Subscription, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		subs = append(subs, *item)
	}
	return subs, nil
}

func (s *Service) CountActive(ctx context.Context) (int64, error) {
	return s.repo.CountByStatus(ctx, s.db, domain.StatusActive)
}
