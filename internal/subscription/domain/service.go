package domain

import (
	"context"
	"errors"
	"time"
)

type CreateSubscriptionRequest struct {
	ConsumerID string     `json:"consumer_id"`
	ApiID      string     `json:"api_id"`
	PlanID     string     `json:"plan_id"`
	StartAt    *time.Time `json:"start_at"`
	Status     string     `json:"status"`
}

type ListSubscriptionsRequest struct {
	Status string `form:"status"`
}

type Service interface {
	Create(context.Context, CreateSubscriptionRequest) (Subscription, error)
	List(context.Context, ListSubscriptionsRequest) ([]Subscription, error)
	CountActive(context.Context) (int64, error)
}

var (
	ErrInvalidConsumerID = errors.New("invalid_consumer_id")
	ErrInvalidApiID      = errors.New("invalid_api_id")
	ErrInvalidPlanID     = errors.New("invalid_plan_id")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrConsumerNotFound  = errors.New("consumer_not_found")
	ErrApiNotFound       = errors.New("api_not_found")
	ErrPlanNotFound      = errors.New("plan_not_found")
)
