package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tollgate/internal/billingperiod"
	"github.com/smallbiznis/tollgate/internal/chargeback/domain"
	"github.com/smallbiznis/tollgate/internal/observability/metrics"
	plandomain "github.com/smallbiznis/tollgate/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// computeConcurrency bounds the per-subscription fan-out so a large
// subscriber base cannot exhaust the connection pool.
const computeConcurrency = 8

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("chargeback.service"),
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

// Compute produces the chargeback report for a period. Each active
// subscription started by the period end yields one line: the plan's
// monthly price plus overage beyond the included call allowance. A
// subscription pointing at a missing plan is priced with a zero plan
// rather than failing the run.
func (s *Service) Compute(ctx context.Context, period string) (domain.Report, error) {
	start, end, err := billingperiod.Resolve(period)
	if err != nil {
		return domain.Report{}, err
	}

	began := time.Now()

	plans, err := s.repo.ListPlans(ctx, s.db)
	if err != nil {
		s.metrics.RecordChargebackRun(ctx, period, 0, time.Since(began), true)
		return domain.Report{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	planByID := make(map[snowflake.ID]*plandomain.Plan, len(plans))
	for _, plan := range plans {
		planByID[plan.ID] = plan
	}

	subs, err := s.repo.ListActiveSubscriptions(ctx, s.db, end)
	if err != nil {
		s.metrics.RecordChargebackRun(ctx, period, 0, time.Since(began), true)
		return domain.Report{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	lines := make([]domain.Line, len(subs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(computeConcurrency)

	for i, sub := range subs {
		g.Go(func() error {
			calls, err := s.repo.CountUsage(gctx, s.db, sub.ApiID, sub.ConsumerID, start, end)
			if err != nil {
				return err
			}

			plan, ok := planByID[sub.PlanID]
			if !ok {
				s.log.Warn("subscription references missing plan, billing zero",
					zap.String("subscription_id", sub.ID.String()),
					zap.String("plan_id", sub.PlanID.String()),
					zap.String("period", period),
				)
				plan = &plandomain.Plan{ID: sub.PlanID}
			}

			overage := calls - plan.IncludedCalls
			if overage < 0 {
				overage = 0
			}

			lines[i] = domain.Line{
				ConsumerID:   sub.ConsumerID.String(),
				ApiID:        sub.ApiID.String(),
				PlanID:       sub.PlanID.String(),
				Period:       period,
				Calls:        calls,
				OverageCalls: overage,
				Amount:       roundAmount(plan.MonthlyPrice + float64(overage)*plan.OveragePricePerCall),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.metrics.RecordChargebackRun(ctx, period, 0, time.Since(began), true)
		return domain.Report{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	s.metrics.RecordChargebackRun(ctx, period, len(lines), time.Since(began), false)

	return domain.Report{Period: period, Items: lines}, nil
}

// roundAmount rounds half away from zero to 6 fractional digits.
func roundAmount(amount float64) float64 {
	return math.Round(amount*1e6) / 1e6
}
