package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusCanceled Status = "canceled"
)

func ValidStatus(status Status) bool {
	switch status {
	case StatusActive, StatusPaused, StatusCanceled:
		return true
	}
	return false
}

// Subscription binds a consumer to one API under a plan starting at
// StartAt. Only active subscriptions are picked up by the chargeback run.
type Subscription struct {
	ID         snowflake.ID `json:"id,string" gorm:"column:id;primaryKey"`
	ConsumerID snowflake.ID `json:"consumer_id,string" gorm:"column:consumer_id"`
	ApiID      snowflake.ID `json:"api_id,string" gorm:"column:api_id"`
	PlanID     snowflake.ID `json:"plan_id,string" gorm:"column:plan_id"`
	StartAt    time.Time    `json:"start_at" gorm:"column:start_at"`
	Status     Status       `json:"status" gorm:"column:status"`
	CreatedAt  time.Time    `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time    `json:"updated_at" gorm:"column:updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
