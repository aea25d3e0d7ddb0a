package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/tollgate/internal/billingperiod"
	"github.com/smallbiznis/tollgate/internal/chargeback/domain"
	"github.com/smallbiznis/tollgate/internal/chargeback/repository"
	plandomain "github.com/smallbiznis/tollgate/internal/plan/domain"
	subscriptiondomain "github.com/smallbiznis/tollgate/internal/subscription/domain"
	usagedomain "github.com/smallbiznis/tollgate/internal/usage/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var dbSeq int

func setupComputeTest(t *testing.T) (*gorm.DB, domain.Service, *snowflake.Node) {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:chargeback_%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&plandomain.Plan{},
		&subscriptiondomain.Subscription{},
		&usagedomain.UsageEvent{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})

	return db, svc, node
}

func seedUsage(t *testing.T, db *gorm.DB, node *snowflake.Node, apiID, consumerID snowflake.ID, at time.Time, count int) {
	t.Helper()

	events := make([]usagedomain.UsageEvent, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, usagedomain.UsageEvent{
			ID:         node.Generate(),
			ApiID:      apiID,
			ConsumerID: consumerID,
			RecordedAt: at,
			StatusCode: 200,
			CreatedAt:  at,
		})
	}
	require.NoError(t, db.CreateInBatches(events, 500).Error)
}

func TestComputeOverageScenario(t *testing.T) {
	db, svc, node := setupComputeTest(t)

	planID := node.Generate()
	require.NoError(t, db.Create(&plandomain.Plan{
		ID:                  planID,
		Name:                "Basic",
		Tier:                plandomain.TierBasic,
		MonthlyPrice:        100,
		IncludedCalls:       10000,
		OveragePricePerCall: 0.0005,
	}).Error)

	apiID := node.Generate()
	consumerID := node.Generate()
	require.NoError(t, db.Create(&subscriptiondomain.Subscription{
		ID:         node.Generate(),
		ConsumerID: consumerID,
		ApiID:      apiID,
		PlanID:     planID,
		StartAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:     subscriptiondomain.StatusActive,
	}).Error)

	seedUsage(t, db, node, apiID, consumerID, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), 10500)

	report, err := svc.Compute(context.Background(), "2024-01")
	require.NoError(t, err)

	require.Len(t, report.Items, 1)
	line := report.Items[0]
	assert.Equal(t, "2024-01", report.Period)
	assert.Equal(t, consumerID.String(), line.ConsumerID)
	assert.Equal(t, apiID.String(), line.ApiID)
	assert.Equal(t, planID.String(), line.PlanID)
	assert.Equal(t, int64(10500), line.Calls)
	assert.Equal(t, int64(500), line.OverageCalls)
	assert.Equal(t, 100.25, line.Amount)
}

func TestComputeInvalidPeriod(t *testing.T) {
	_, svc, _ := setupComputeTest(t)

	for _, period := range []string{"", "2024", "2024-13", "garbage"} {
		_, err := svc.Compute(context.Background(), period)
		assert.ErrorIs(t, err, billingperiod.ErrInvalidPeriod, "period %q", period)
	}
}

func TestComputeMissingPlanBillsZero(t *testing.T) {
	db, svc, node := setupComputeTest(t)

	missingPlanID := node.Generate()
	apiID := node.Generate()
	consumerID := node.Generate()
	require.NoError(t, db.Create(&subscriptiondomain.Subscription{
		ID:         node.Generate(),
		ConsumerID: consumerID,
		ApiID:      apiID,
		PlanID:     missingPlanID,
		StartAt:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Status:     subscriptiondomain.StatusActive,
	}).Error)

	seedUsage(t, db, node, apiID, consumerID, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), 42)

	report, err := svc.Compute(context.Background(), "2024-03")
	require.NoError(t, err)

	require.Len(t, report.Items, 1)
	line := report.Items[0]
	assert.Equal(t, missingPlanID.String(), line.PlanID)
	assert.Equal(t, int64(42), line.Calls)
	assert.Equal(t, int64(42), line.OverageCalls)
	assert.Equal(t, 0.0, line.Amount)
}

func TestComputeNoUsageChargesMonthlyPrice(t *testing.T) {
	db, svc, node := setupComputeTest(t)

	planID := node.Generate()
	require.NoError(t, db.Create(&plandomain.Plan{
		ID:                  planID,
		Name:                "Pro",
		Tier:                plandomain.TierPro,
		MonthlyPrice:        99,
		IncludedCalls:       100000,
		OveragePricePerCall: 0.0003,
	}).Error)

	require.NoError(t, db.Create(&subscriptiondomain.Subscription{
		ID:         node.Generate(),
		ConsumerID: node.Generate(),
		ApiID:      node.Generate(),
		PlanID:     planID,
		StartAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:     subscriptiondomain.StatusActive,
	}).Error)

	report, err := svc.Compute(context.Background(), "2024-05")
	require.NoError(t, err)

	require.Len(t, report.Items, 1)
	assert.Equal(t, int64(0), report.Items[0].Calls)
	assert.Equal(t, int64(0), report.Items[0].OverageCalls)
	assert.Equal(t, 99.0, report.Items[0].Amount)
}

func TestComputeWindowBoundaries(t *testing.T) {
	db, svc, node := setupComputeTest(t)

	planID := node.Generate()
	require.NoError(t, db.Create(&plandomain.Plan{
		ID:            planID,
		Name:          "Free",
		Tier:          plandomain.TierFree,
		IncludedCalls: 1000,
	}).Error)

	apiID := node.Generate()
	consumerID := node.Generate()
	require.NoError(t, db.Create(&subscriptiondomain.Subscription{
		ID:         node.Generate(),
		ConsumerID: consumerID,
		ApiID:      apiID,
		PlanID:     planID,
		StartAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:     subscriptiondomain.StatusActive,
	}).Error)

	// Exactly at start: included. Exactly at end: excluded.
	seedUsage(t, db, node, apiID, consumerID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 1)
	seedUsage(t, db, node, apiID, consumerID, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 1)

	report, err := svc.Compute(context.Background(), "2024-03")
	require.NoError(t, err)

	require.Len(t, report.Items, 1)
	assert.Equal(t, int64(1), report.Items[0].Calls)
}

func TestComputeSubscriptionEligibility(t *testing.T) {
	db, svc, node := setupComputeTest(t)

	planID := node.Generate()
	require.NoError(t, db.Create(&plandomain.Plan{
		ID:            planID,
		Name:          "Free",
		Tier:          plandomain.TierFree,
		IncludedCalls: 1000,
	}).Error)

	end := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	// Started mid-period: eligible, no pro-ration.
	midPeriod := node.Generate()
	require.NoError(t, db.Create(&subscriptiondomain.Subscription{
		ID:         midPeriod,
		ConsumerID: node.Generate(),
		ApiID:      node.Generate(),
		PlanID:     planID,
		StartAt:    time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		Status:     subscriptiondomain.StatusActive,
	}).Error)

	// Started exactly at the period end: still selected.
	atEnd := node.Generate()
	require.NoError(t, db.Create(&subscriptiondomain.Subscription{
		ID:         atEnd,
		ConsumerID: node.Generate(),
		ApiID:      node.Generate(),
		PlanID:     planID,
		StartAt:    end,
		Status:     subscriptiondomain.StatusActive,
	}).Error)

	// Started after the period end: excluded.
	require.NoError(t, db.Create(&subscriptiondomain.Subscription{
		ID:         node.Generate(),
		ConsumerID: node.Generate(),
		ApiID:      node.Generate(),
		PlanID:     planID,
		StartAt:    end.Add(time.Second),
		Status:     subscriptiondomain.StatusActive,
	}).Error)

	// Paused: excluded.
	require.NoError(t, db.Create(&subscriptiondomain.Subscription{
		ID:         node.Generate(),
		ConsumerID: node.Generate(),
		ApiID:      node.Generate(),
		PlanID:     planID,
		StartAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:     subscriptiondomain.StatusPaused,
	}).Error)

	report, err := svc.Compute(context.Background(), "2024-06")
	require.NoError(t, err)

	assert.Len(t, report.Items, 2)
}

func TestComputeIdempotent(t *testing.T) {
	db, svc, node := setupComputeTest(t)

	planID := node.Generate()
	require.NoError(t, db.Create(&plandomain.Plan{
		ID:                  planID,
		Name:                "Basic",
		Tier:                plandomain.TierBasic,
		MonthlyPrice:        29,
		IncludedCalls:       10,
		OveragePricePerCall: 0.0005,
	}).Error)

	for i := 0; i < 3; i++ {
		apiID := node.Generate()
		consumerID := node.Generate()
		require.NoError(t, db.Create(&subscriptiondomain.Subscription{
			ID:         node.Generate(),
			ConsumerID: consumerID,
			ApiID:      apiID,
			PlanID:     planID,
			StartAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:     subscriptiondomain.StatusActive,
		}).Error)
		seedUsage(t, db, node, apiID, consumerID, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), 10+i*7)
	}

	first, err := svc.Compute(context.Background(), "2024-03")
	require.NoError(t, err)
	second, err := svc.Compute(context.Background(), "2024-03")
	require.NoError(t, err)

	sortLines(first.Items)
	sortLines(second.Items)
	assert.Equal(t, first, second)
}

func sortLines(lines []domain.Line) {
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].ConsumerID < lines[j].ConsumerID
	})
}

func TestRoundAmount(t *testing.T) {
	assert.Equal(t, 100.25, roundAmount(100.2500000004))
	assert.Equal(t, 2.0, roundAmount(1.9999996))
	assert.Equal(t, 0.0, roundAmount(0))
}
