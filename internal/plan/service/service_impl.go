package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tollgate/internal/plan/domain"
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
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("plan.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePlanRequest) (domain.Plan, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Plan{}, domain.ErrInvalidName
	}

	tier := domain.Tier(strings.TrimSpace(req.Tier))
	if tier == "" {
		tier = domain.TierBasic
	}
	if !domain.ValidTier(tier) {
		return domain.Plan{}, domain.ErrInvalidTier
	}

	pricing, err := resolvePricing(req.MonthlyPrice, req.IncludedCalls, req.OveragePricePerCall)
	if err != nil {
		return domain.Plan{}, err
	}

	now := time.Now().UTC()
	plan := domain.Plan{
		ID:                  s.genID.Generate(),
		Name:                name,
		Tier:                tier,
		MonthlyPrice:        pricing.monthlyPrice,
		IncludedCalls:       pricing.includedCalls,
		OveragePricePerCall: pricing.overagePrice,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Insert(ctx, s.db, &plan); err != nil {
		return domain.Plan{}, err
	}

	return plan, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Plan, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	plans := make([]domain.Plan, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		plans = append(plans, *item)
	}
	return plans, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdatePlanRequest) (domain.Plan, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Plan{}, domain.ErrInvalidID
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Plan{}, domain.ErrInvalidName
	}

	tier := domain.Tier(strings.TrimSpace(req.Tier))
	if !domain.ValidTier(tier) {
		return domain.Plan{}, domain.ErrInvalidTier
	}

	pricing, err := resolvePricing(req.MonthlyPrice, req.IncludedCalls, req.OveragePricePerCall)
	if err != nil {
		return domain.Plan{}, err
	}

	plan := domain.Plan{
		ID:                  id,
		Name:                name,
		Tier:                tier,
		MonthlyPrice:        pricing.monthlyPrice,
		IncludedCalls:       pricing.includedCalls,
		OveragePricePerCall: pricing.overagePrice,
		UpdatedAt:           time.Now().UTC(),
	}

	updated, err := s.repo.Update(ctx, s.db, &plan)
	if err != nil {
		return domain.Plan{}, err
	}
	if !updated {
		return domain.Plan{}, domain.ErrNotFound
	}

	stored, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Plan{}, err
	}
	if stored == nil {
		return domain.Plan{}, domain.ErrNotFound
	}
	return *stored, nil
}

type pricing struct {
	monthlyPrice  float64
	includedCalls int64
	overagePrice  float64
}

// Defaults follow the published basic tier: 10k included calls at $0.0005
// per extra call.
func resolvePricing(monthlyPrice *float64, includedCalls *int64, overagePrice *float64) (pricing, error) {
	resolved := pricing{
		monthlyPrice:  0,
		includedCalls: 10000,
		overagePrice:  0.0005,
	}

	if monthlyPrice != nil {
		if *monthlyPrice < 0 {
			return pricing{}, domain.ErrInvalidMonthlyPrice
		}
		resolved.monthlyPrice = *monthlyPrice
	}
	if includedCalls != nil {
		if *includedCalls < 0 {
			return pricing{}, domain.ErrInvalidIncludedCalls
		}
		resolved.includedCalls = *includedCalls
	}
	if overagePrice != nil {
		if *overagePrice < 0 {
			return pricing{}, domain.ErrInvalidOveragePrice
		}
		resolved.overagePrice = *overagePrice
	}

	return resolved, nil
}
