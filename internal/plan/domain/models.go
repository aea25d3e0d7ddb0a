// Package domain contains persistence models for pricing plans.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tier buckets plans into commercial offerings.
type Tier string

const (
	TierFree       Tier = "free"
	TierBasic      Tier = "basic"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// Plan is a tiered pricing policy: a flat monthly price covering an
// included call allowance, with per-call pricing beyond it.
type Plan struct {
	ID                  snowflake.ID `gorm:"primaryKey" json:"id"`
	Name                string       `gorm:"not null" json:"name"`
	Tier                Tier         `gorm:"type:text;not null" json:"tier"`
	MonthlyPrice        float64      `gorm:"not null" json:"monthly_price"`
	IncludedCalls       int64        `gorm:"not null" json:"included_calls"`
	OveragePricePerCall float64      `gorm:"not null" json:"overage_price_per_call"`
	CreatedAt           time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Plan) TableName() string { return "plans" }

// ValidTier reports whether tier is a known plan tier.
func ValidTier(tier Tier) bool {
	switch tier {
	case TierFree, TierBasic, TierPro, TierEnterprise:
		return true
	default:
		return false
	}
}
