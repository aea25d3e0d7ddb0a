package domain

import (
	"context"
	"errors"
)

type CreateConsumerRequest struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Company  *string        `json:"company"`
	PlanID   string         `json:"plan_id"`
	Metadata map[string]any `json:"metadata"`
}

type Service interface {
	Create(context.Context, CreateConsumerRequest) (Consumer, error)
	List(context.Context) ([]Consumer, error)
	Count(context.Context) (int64, error)
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrInvalidPlanID = errors.New("invalid_plan_id")
	ErrPlanNotFound  = errors.New("plan_not_found")
)
