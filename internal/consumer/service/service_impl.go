package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tollgate/internal/consumer/domain"
	plandomain "github.com/smallbiznis/tollgate/internal/plan/domain"
	"github.com/smallbiznis/tollgate/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	PlanRepo plandomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	planRepo plandomain.Repository
	store    repository.Repository[domain.Consumer]
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("consumer.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		planRepo: p.PlanRepo,
		store:    repository.ProvideStore[domain.Consumer](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateConsumerRequest) (domain.Consumer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Consumer{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Consumer{}, domain.ErrInvalidEmail
	}

	planID, err := s.resolvePlanID(ctx, req.PlanID)
	if err != nil {
		return domain.Consumer{}, err
	}

	now := time.Now().UTC()
	consumer := domain.Consumer{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		Company:   trimPtr(req.Company),
		PlanID:    planID,
		Metadata:  datatypes.JSONMap(req.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &consumer); err != nil {
		return domain.Consumer{}, err
	}

	return consumer, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Consumer, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	consumers := make([]domain.Consumer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		consumers = append(consumers, *item)
	}
	return consumers, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx, &domain.Consumer{})
}

func (s *Service) resolvePlanID(ctx context.Context, raw string) (*snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidPlanID
	}

	plan, err := s.planRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	return &id, nil
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
