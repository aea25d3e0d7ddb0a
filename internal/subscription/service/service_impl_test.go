package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	apidomain "github.com/smallbiznis/tollgate/internal/apiservice/domain"
	apirepository "github.com/smallbiznis/tollgate/internal/apiservice/repository"
	consumerdomain "github.com/smallbiznis/tollgate/internal/consumer/domain"
	plandomain "github.com/smallbiznis/tollgate/internal/plan/domain"
	planrepository "github.com/smallbiznis/tollgate/internal/plan/repository"
	"github.com/smallbiznis/tollgate/internal/subscription/domain"
	"github.com/smallbiznis/tollgate/internal/subscription/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var dbSeq int

type subscriptionFixture struct {
	svc        domain.Service
	node       *snowflake.Node
	consumerID snowflake.ID
	apiID      snowflake.ID
	planID     snowflake.ID
}

func setupSubscriptionTest(t *testing.T) subscriptionFixture {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:subscription_svc_%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&apidomain.ApiService{},
		&plandomain.Plan{},
		&consumerdomain.Consumer{},
		&domain.Subscription{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	now := time.Now().UTC()
	consumerID := node.Generate()
	require.NoError(t, db.Create(&consumerdomain.Consumer{
		ID:        consumerID,
		Name:      "acme",
		Email:     "billing@acme.test",
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)

	apiID := node.Generate()
	require.NoError(t, db.Create(&apidomain.ApiService{
		ID:             apiID,
		Name:           "payments",
		Version:        "v1",
		LifecycleStage: apidomain.LifecycleStageDeploy,
		Status:         apidomain.HealthStatusHealthy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}).Error)

	planID := node.Generate()
	require.NoError(t, db.Create(&plandomain.Plan{
		ID:        planID,
		Name:      "Basic",
		Tier:      plandomain.TierBasic,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     repository.Provide(),
		ApiRepo:  apirepository.Provide(),
		PlanRepo: planrepository.Provide(),
	})

	return subscriptionFixture{svc: svc, node: node, consumerID: consumerID, apiID: apiID, planID: planID}
}

func TestCreateSubscriptionDefaults(t *testing.T) {
	f := setupSubscriptionTest(t)

	sub, err := f.svc.Create(context.Background(), domain.CreateSubscriptionRequest{
		ConsumerID: f.consumerID.String(),
		ApiID:      f.apiID.String(),
		PlanID:     f.planID.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusActive, sub.Status)
	assert.False(t, sub.StartAt.IsZero())
	assert.Equal(t, time.UTC, sub.StartAt.Location())
}

func TestCreateSubscriptionUnknownReferences(t *testing.T) {
	f := setupSubscriptionTest(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		ConsumerID: f.node.Generate().String(),
		ApiID:      f.apiID.String(),
		PlanID:     f.planID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrConsumerNotFound)

	_, err = f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		ConsumerID: f.consumerID.String(),
		ApiID:      f.node.Generate().String(),
		PlanID:     f.planID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrApiNotFound)

	_, err = f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		ConsumerID: f.consumerID.String(),
		ApiID:      f.apiID.String(),
		PlanID:     f.node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

func TestCreateSubscriptionInvalidStatus(t *testing.T) {
	f := setupSubscriptionTest(t)

	_, err := f.svc.Create(context.Background(), domain.CreateSubscriptionRequest{
		ConsumerID: f.consumerID.String(),
		ApiID:      f.apiID.String(),
		PlanID:     f.planID.String(),
		Status:     "dormant",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListSubscriptionsByStatus(t *testing.T) {
	f := setupSubscriptionTest(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		ConsumerID: f.consumerID.String(),
		ApiID:      f.apiID.String(),
		PlanID:     f.planID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		ConsumerID: f.consumerID.String(),
		ApiID:      f.apiID.String(),
		PlanID:     f.planID.String(),
		Status:     string(domain.StatusPaused),
	})
	require.NoError(t, err)

	active, err := f.svc.List(ctx, domain.ListSubscriptionsRequest{Status: "active"})
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := f.svc.List(ctx, domain.ListSubscriptionsRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.List(ctx, domain.ListSubscriptionsRequest{Status: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	count, err := f.svc.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
