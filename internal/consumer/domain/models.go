package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Consumer is a client application or team consuming one or more APIs.
type Consumer struct {
	ID        snowflake.ID      `json:"id,string" gorm:"column:id;primaryKey"`
	Name      string            `json:"name" gorm:"column:name"`
	Email     string            `json:"email" gorm:"column:email"`
	Company   *string           `json:"company,omitempty" gorm:"column:company"`
	PlanID    *snowflake.ID     `json:"plan_id,omitempty,string" gorm:"column:plan_id"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"column:metadata"`
	CreatedAt time.Time         `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"column:updated_at"`
}

func (Consumer) TableName() string {
	return "consumers"
}
