package domain

import (
	"context"
	"errors"
)

type CreatePlanRequest struct {
	Name                string   `json:"name"`
	Tier                string   `json:"tier"`
	MonthlyPrice        *float64 `json:"monthly_price"`
	IncludedCalls       *int64   `json:"included_calls"`
	OveragePricePerCall *float64 `json:"overage_price_per_call"`
}

type UpdatePlanRequest struct {
	ID                  string
	Name                string
	Tier                string
	MonthlyPrice        *float64
	IncludedCalls       *int64
	OveragePricePerCall *float64
}

type Service interface {
	Create(context.Context, CreatePlanRequest) (Plan, error)
	List(context.Context) ([]Plan, error)
	Update(context.Context, UpdatePlanRequest) (Plan, error)
}

var (
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidTier          = errors.New("invalid_tier")
	ErrInvalidMonthlyPrice  = errors.New("invalid_monthly_price")
	ErrInvalidIncludedCalls = errors.New("invalid_included_calls")
	ErrInvalidOveragePrice  = errors.New("invalid_overage_price_per_call")
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("not_found")
)
