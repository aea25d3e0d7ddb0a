package domain

import (
	"context"
	"errors"
)

type CreateApiServiceRequest struct {
	Name            string  `json:"name"`
	Version         string  `json:"version"`
	Owner           *string `json:"owner"`
	LifecycleStage  string  `json:"lifecycle_stage"`
	RateLimitPerMin *int    `json:"rate_limit_per_min"`
	Status          string  `json:"status"`
}

type UpdateApiServiceRequest struct {
	ID              string
	Name            string
	Version         string
	Owner           *string
	LifecycleStage  string
	RateLimitPerMin *int
	Status          string
}

type Service interface {
	Create(context.Context, CreateApiServiceRequest) (ApiService, error)
	List(context.Context) ([]ApiService, error)
	Update(context.Context, UpdateApiServiceRequest) (ApiService, error)
	Count(context.Context) (int64, error)
}

var (
	ErrInvalidName           = errors.New("invalid_name")
	ErrInvalidLifecycleStage = errors.New("invalid_lifecycle_stage")
	ErrInvalidStatus         = errors.New("invalid_status")
	ErrInvalidRateLimit      = errors.New("invalid_rate_limit")
	ErrInvalidID             = errors.New("invalid_id")
	ErrNotFound              = errors.New("not_found")
)
