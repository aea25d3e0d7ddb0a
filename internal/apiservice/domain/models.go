// Package domain contains persistence models for gateway-exposed APIs.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// LifecycleStage tracks where an API sits in its delivery lifecycle.
type LifecycleStage string

const (
	LifecycleStageDesign    LifecycleStage = "design"
	LifecycleStageDevelop   LifecycleStage = "develop"
	LifecycleStageTest      LifecycleStage = "test"
	LifecycleStageDeploy    LifecycleStage = "deploy"
	LifecycleStageDeprecate LifecycleStage = "deprecate"
	LifecycleStageRetire    LifecycleStage = "retire"
)

// HealthStatus is the operator-reported health of an API.
type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "healthy"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

// ApiService identifies one API exposed through the gateway.
type ApiService struct {
	ID              snowflake.ID   `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Version         string         `gorm:"type:text;not null" json:"version"`
	Owner           *string        `gorm:"type:text" json:"owner,omitempty"`
	LifecycleStage  LifecycleStage `gorm:"type:text;not null" json:"lifecycle_stage"`
	RateLimitPerMin *int           `json:"rate_limit_per_min,omitempty"`
	Status          HealthStatus   `gorm:"type:text;not null" json:"status"`
	CreatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ApiService) TableName() string { return "api_services" }

// ValidLifecycleStage reports whether stage is a known lifecycle stage.
func ValidLifecycleStage(stage LifecycleStage) bool {
	switch stage {
	case LifecycleStageDesign, LifecycleStageDevelop, LifecycleStageTest,
		LifecycleStageDeploy, LifecycleStageDeprecate, LifecycleStageRetire:
		return true
	default:
		return false
	}
}

// ValidHealthStatus reports whether status is a known health status.
func ValidHealthStatus(status HealthStatus) bool {
	switch status {
	case HealthStatusHealthy, HealthStatusDegraded, HealthStatusDown:
		return true
	default:
		return false
	}
}
