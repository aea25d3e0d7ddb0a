package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apidomain "github.com/smallbiznis/tollgate/internal/apiservice/domain"
	"github.com/smallbiznis/tollgate/internal/billingperiod"
	chargebackdomain "github.com/smallbiznis/tollgate/internal/chargeback/domain"
	consumerdomain "github.com/smallbiznis/tollgate/internal/consumer/domain"
	plandomain "github.com/smallbiznis/tollgate/internal/plan/domain"
	subscriptiondomain "github.com/smallbiznis/tollgate/internal/subscription/domain"
	usagedomain "github.com/smallbiznis/tollgate/internal/usage/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChargebackService struct {
	report  chargebackdomain.Report
	err     error
	periods []string
}

func (f *fakeChargebackService) Compute(ctx context.Context, period string) (chargebackdomain.Report, error) {
	_ = ctx
	f.periods = append(f.periods, period)
	if f.err != nil {
		return chargebackdomain.Report{}, f.err
	}
	return f.report, nil
}

type fakeUsageService struct {
	event    usagedomain.UsageEvent
	err      error
	requests []usagedomain.IngestUsageRequest
}

func (f *fakeUsageService) Ingest(ctx context.Context, req usagedomain.IngestUsageRequest) (usagedomain.UsageEvent, error) {
	_ = ctx
	f.requests = append(f.requests, req)
	if f.err != nil {
		return usagedomain.UsageEvent{}, f.err
	}
	return f.event, nil
}

func (f *fakeUsageService) List(ctx context.Context, req usagedomain.ListUsageRequest) (usagedomain.ListUsageResponse, error) {
	_ = ctx
	_ = req
	return usagedomain.ListUsageResponse{}, nil
}

func (f *fakeUsageService) Aggregate(ctx context.Context, req usagedomain.AggregateRequest) (usagedomain.Summary, error) {
	_ = ctx
	_ = req
	return usagedomain.Summary{}, nil
}

func (f *fakeUsageService) Count(ctx context.Context) (int64, error) {
	_ = ctx
	return 0, nil
}

type fakeApiService struct{}

func (fakeApiService) Create(ctx context.Context, req apidomain.CreateApiServiceRequest) (apidomain.ApiService, error) {
	return apidomain.ApiService{}, nil
}

func (fakeApiService) List(ctx context.Context) ([]apidomain.ApiService, error) {
	return nil, nil
}

func (fakeApiService) Update(ctx context.Context, req apidomain.UpdateApiServiceRequest) (apidomain.ApiService, error) {
	return apidomain.ApiService{}, nil
}

func (fakeApiService) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakePlanService struct{}

func (fakePlanService) Create(ctx context.Context, req plandomain.CreatePlanRequest) (plandomain.Plan, error) {
	return plandomain.Plan{}, nil
}

func (fakePlanService) List(ctx context.Context) ([]plandomain.Plan, error) {
	return nil, nil
}

func (fakePlanService) Update(ctx context.Context, req plandomain.UpdatePlanRequest) (plandomain.Plan, error) {
	return plandomain.Plan{}, nil
}

type fakeConsumerService struct{}

func (fakeConsumerService) Create(ctx context.Context, req consumerdomain.CreateConsumerRequest) (consumerdomain.Consumer, error) {
	return consumerdomain.Consumer{}, nil
}

func (fakeConsumerService) List(ctx context.Context) ([]consumerdomain.Consumer, error) {
	return nil, nil
}

func (fakeConsumerService) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakeSubscriptionService struct{}

func (fakeSubscriptionService) Create(ctx context.Context, req subscriptiondomain.CreateSubscriptionRequest) (subscriptiondomain.Subscription, error) {
	return subscriptiondomain.Subscription{}, nil
}

func (fakeSubscriptionService) List(ctx context.Context, req subscriptiondomain.ListSubscriptionsRequest) ([]subscriptiondomain.Subscription, error) {
	return nil, nil
}

func (fakeSubscriptionService) CountActive(ctx context.Context) (int64, error) {
	return 0, nil
}

func newTestServer(chargebackSvc chargebackdomain.Service, usageSvc usagedomain.Service) *Server {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	svc := &Server{
		engine:          engine,
		apiSvc:          fakeApiService{},
		planSvc:         fakePlanService{},
		consumerSvc:     fakeConsumerService{},
		subscriptionSvc: fakeSubscriptionService{},
		usageSvc:        usageSvc,
		chargebackSvc:   chargebackSvc,
	}
	svc.registerRoutes()
	return svc
}

func TestChargebackHandler(t *testing.T) {
	fake := &fakeChargebackService{
		report: chargebackdomain.Report{
			Period: "2024-03",
			Items: []chargebackdomain.Line{
				{ConsumerID: "1", ApiID: "2", PlanID: "3", Period: "2024-03", Calls: 10500, OverageCalls: 500, Amount: 100.25},
			},
		},
	}
	srv := newTestServer(fake, &fakeUsageService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/chargeback?period=2024-03", nil)
	srv.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"2024-03"}, fake.periods)

	var report chargebackdomain.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, fake.report, report)
}

func TestChargebackHandlerInvalidPeriod(t *testing.T) {
	fake := &fakeChargebackService{err: billingperiod.ErrInvalidPeriod}
	srv := newTestServer(fake, &fakeUsageService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/chargeback?period=bogus", nil)
	srv.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	require.Len(t, resp.Error.Errors, 1)
	assert.Equal(t, "invalid_period", resp.Error.Errors[0].Code)
}

func TestChargebackHandlerStoreUnavailable(t *testing.T) {
	fake := &fakeChargebackService{err: chargebackdomain.ErrStoreUnavailable}
	srv := newTestServer(fake, &fakeUsageService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/chargeback?period=2024-03", nil)
	srv.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "service_unavailable", resp.Error.Type)
}

func TestIngestUsageHandler(t *testing.T) {
	fake := &fakeUsageService{}
	srv := newTestServer(&fakeChargebackService{}, fake)

	body, err := json.Marshal(map[string]any{
		"api_id":      "123",
		"consumer_id": "456",
		"status_code": 201,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/usage", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, fake.requests, 1)
	assert.Equal(t, "123", fake.requests[0].ApiID)
	assert.Equal(t, "456", fake.requests[0].ConsumerID)
	require.NotNil(t, fake.requests[0].StatusCode)
	assert.Equal(t, 201, *fake.requests[0].StatusCode)
}

func TestIngestUsageHandlerMalformedBody(t *testing.T) {
	fake := &fakeUsageService{}
	srv := newTestServer(&fakeChargebackService{}, fake)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/usage", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, fake.requests)
}

func TestIngestUsageHandlerValidationError(t *testing.T) {
	fake := &fakeUsageService{err: usagedomain.ErrInvalidStatusCode}
	srv := newTestServer(&fakeChargebackService{}, fake)

	body := []byte(`{"api_id":"123","consumer_id":"456","status_code":42}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/usage", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	require.Len(t, resp.Error.Errors, 1)
	assert.Equal(t, "invalid_status_code", resp.Error.Errors[0].Code)
	assert.Equal(t, "status_code", resp.Error.Errors[0].Field)
}
