package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/tollgate/internal/usage/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq int

func setupAggregateTest(t *testing.T) (*gorm.DB, domain.Repository, *snowflake.Node) {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:usage_repo_%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&domain.UsageEvent{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return db, Provide(), node
}

func intPtr(v int) *int { return &v }

func TestAggregateEmptyWindow(t *testing.T) {
	db, repo, _ := setupAggregateTest(t)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	summary, err := repo.Aggregate(context.Background(), db, nil, nil, &start, &end)
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.TotalCalls)
	assert.Nil(t, summary.AvgLatencyMS)
	assert.Nil(t, summary.SuccessRate)
}

func TestAggregateNullLatencies(t *testing.T) {
	db, repo, node := setupAggregateTest(t)

	apiID := node.Generate()
	consumerID := node.Generate()
	at := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		require.NoError(t, db.Create(&domain.UsageEvent{
			ID:         node.Generate(),
			ApiID:      apiID,
			ConsumerID: consumerID,
			RecordedAt: at,
			StatusCode: 200,
			CreatedAt:  at,
		}).Error)
	}

	summary, err := repo.Aggregate(context.Background(), db, nil, nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(4), summary.TotalCalls)
	assert.Nil(t, summary.AvgLatencyMS)
	require.NotNil(t, summary.SuccessRate)
	assert.Equal(t, 1.0, *summary.SuccessRate)
}

func TestAggregateMixedEvents(t *testing.T) {
	db, repo, node := setupAggregateTest(t)

	apiID := node.Generate()
	otherAPI := node.Generate()
	consumerID := node.Generate()
	at := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	events := []domain.UsageEvent{
		{ID: node.Generate(), ApiID: apiID, ConsumerID: consumerID, RecordedAt: at, StatusCode: 200, LatencyMS: intPtr(100), CreatedAt: at},
		{ID: node.Generate(), ApiID: apiID, ConsumerID: consumerID, RecordedAt: at, StatusCode: 201, LatencyMS: intPtr(200), CreatedAt: at},
		{ID: node.Generate(), ApiID: apiID, ConsumerID: consumerID, RecordedAt: at, StatusCode: 500, CreatedAt: at},
		{ID: node.Generate(), ApiID: otherAPI, ConsumerID: consumerID, RecordedAt: at, StatusCode: 200, LatencyMS: intPtr(999), CreatedAt: at},
	}
	for i := range events {
		require.NoError(t, db.Create(&events[i]).Error)
	}

	summary, err := repo.Aggregate(context.Background(), db, &apiID, nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.TotalCalls)
	require.NotNil(t, summary.AvgLatencyMS)
	assert.Equal(t, 150.0, *summary.AvgLatencyMS)
	require.NotNil(t, summary.SuccessRate)
	assert.InDelta(t, 2.0/3.0, *summary.SuccessRate, 1e-9)
}

func TestAggregateWindowBounds(t *testing.T) {
	db, repo, node := setupAggregateTest(t)

	apiID := node.Generate()
	consumerID := node.Generate()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{start, end.Add(-time.Second), end} {
		require.NoError(t, db.Create(&domain.UsageEvent{
			ID:         node.Generate(),
			ApiID:      apiID,
			ConsumerID: consumerID,
			RecordedAt: at,
			StatusCode: 200,
			CreatedAt:  at,
		}).Error)
	}

	summary, err := repo.Aggregate(context.Background(), db, nil, nil, &start, &end)
	require.NoError(t, err)

	// start included, end excluded
	assert.Equal(t, int64(2), summary.TotalCalls)
}

func TestAggregateByConsumer(t *testing.T) {
	db, repo, node := setupAggregateTest(t)

	apiID := node.Generate()
	consumerID := node.Generate()
	otherConsumer := node.Generate()
	at := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	events := []domain.UsageEvent{
		{ID: node.Generate(), ApiID: apiID, ConsumerID: consumerID, RecordedAt: at, StatusCode: 200, LatencyMS: intPtr(100), CreatedAt: at},
		{ID: node.Generate(), ApiID: apiID, ConsumerID: consumerID, RecordedAt: at, StatusCode: 503, LatencyMS: intPtr(300), CreatedAt: at},
		{ID: node.Generate(), ApiID: apiID, ConsumerID: otherConsumer, RecordedAt: at, StatusCode: 200, LatencyMS: intPtr(999), CreatedAt: at},
	}
	for i := range events {
		require.NoError(t, db.Create(&events[i]).Error)
	}

	summary, err := repo.Aggregate(context.Background(), db, nil, &consumerID, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.TotalCalls)
	require.NotNil(t, summary.AvgLatencyMS)
	assert.Equal(t, 200.0, *summary.AvgLatencyMS)
	require.NotNil(t, summary.SuccessRate)
	assert.Equal(t, 0.5, *summary.SuccessRate)

	scoped, err := repo.Aggregate(context.Background(), db, &apiID, &consumerID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), scoped.TotalCalls)
}
