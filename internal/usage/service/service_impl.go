package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	apidomain "github.com/smallbiznis/tollgate/internal/apiservice/domain"
	"github.com/smallbiznis/tollgate/internal/observability/metrics"
	"github.com/smallbiznis/tollgate/internal/usage/domain"
	"github.com/smallbiznis/tollgate/pkg/db"
	"github.com/smallbiznis/tollgate/pkg/db/option"
	"github.com/smallbiznis/tollgate/pkg/db/pagination"
	"github.com/smallbiznis/tollgate/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	ApiRepo apidomain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	apiRepo apidomain.Repository
	metrics *metrics.Metrics
	store   repository.Repository[domain.UsageEvent]
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("usage.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		apiRepo: p.ApiRepo,
		metrics: p.Metrics,
		store:   repository.ProvideStore[domain.UsageEvent](p.DB),
	}
}

func (s *Service) Ingest(ctx context.Context, req domain.IngestUsageRequest) (domain.UsageEvent, error) {
	apiID, err := snowflake.ParseString(strings.TrimSpace(req.ApiID))
	if err != nil || apiID == 0 {
		return domain.UsageEvent{}, domain.ErrInvalidApiID
	}

	consumerID, err := snowflake.ParseString(strings.TrimSpace(req.ConsumerID))
	if err != nil || consumerID == 0 {
		return domain.UsageEvent{}, domain.ErrInvalidConsumerID
	}

	if req.LatencyMS != nil && *req.LatencyMS < 0 {
		return domain.UsageEvent{}, domain.ErrInvalidLatency
	}

	statusCode := 200
	if req.StatusCode != nil {
		statusCode = *req.StatusCode
	}
	if statusCode < 100 || statusCode > 599 {
		return domain.UsageEvent{}, domain.ErrInvalidStatusCode
	}

	if (req.BytesIn != nil && *req.BytesIn < 0) || (req.BytesOut != nil && *req.BytesOut < 0) {
		return domain.UsageEvent{}, domain.ErrInvalidBytes
	}

	api, err := s.apiRepo.FindByID(ctx, s.db, apiID)
	if err != nil {
		return domain.UsageEvent{}, err
	}
	if api == nil {
		return domain.UsageEvent{}, domain.ErrApiNotFound
	}

	var exists int64
	if err := s.db.WithContext(ctx).
		Table("consumers").
		Where("id = ?", consumerID).
		Count(&exists).Error; err != nil {
		return domain.UsageEvent{}, err
	}
	if exists == 0 {
		return domain.UsageEvent{}, domain.ErrConsumerNotFound
	}

	now := time.Now().UTC()
	recordedAt := now
	if req.RecordedAt != nil {
		recordedAt = req.RecordedAt.UTC()
	}

	event := domain.UsageEvent{
		ID:             s.genID.Generate(),
		ApiID:          apiID,
		ConsumerID:     consumerID,
		RecordedAt:     recordedAt,
		LatencyMS:      req.LatencyMS,
		StatusCode:     statusCode,
		BytesIn:        req.BytesIn,
		BytesOut:       req.BytesOut,
		IdempotencyKey: normalizeKey(req.IdempotencyKey),
		Metadata:       datatypes.JSONMap(req.Metadata),
		CreatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &event); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.UsageEvent{}, domain.ErrDuplicateEvent
		}
		return domain.UsageEvent{}, err
	}

	s.metrics.RecordUsageIngest(ctx, apiID.String())

	return event, nil
}

func (s *Service) List(ctx context.Context, req domain.ListUsageRequest) (domain.ListUsageResponse, error) {
	filter := domain.ListFilter{}

	if raw := strings.TrimSpace(req.ApiID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return domain.ListUsageResponse{}, domain.ErrInvalidApiID
		}
		filter.ApiID = &id
	}

	if raw := strings.TrimSpace(req.ConsumerID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return domain.ListUsageResponse{}, domain.ErrInvalidConsumerID
		}
		filter.ConsumerID = &id
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter,
		option.WithSortBy(),
		option.ApplyPagination(req.Pagination),
	)
	if err != nil {
		return domain.ListUsageResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int32(pageSize), func(event *domain.UsageEvent) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        event.ID.String(),
			CreatedAt: event.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})

	if len(items) > pageSize {
		items = items[:pageSize]
	}

	events := make([]domain.UsageEvent, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		events = append(events, *item)
	}

	return domain.ListUsageResponse{Data: events, PageInfo: pageInfo}, nil
}

func (s *Service) Aggregate(ctx context.Context, req domain.AggregateRequest) (domain.Summary, error) {
	return s.repo.Aggregate(ctx, s.db, req.ApiID, req.ConsumerID, req.Start, req.End)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx, &domain.UsageEvent{})
}

func normalizeKey(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
