// Package seed bootstraps default records for local and self-hosted
// deployments.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/smallbiznis/tollgate/internal/plan/domain"
	"gorm.io/gorm"
)

type defaultPlan struct {
	Name                string
	Tier                plandomain.Tier
	MonthlyPrice        float64
	IncludedCalls       int64
	OveragePricePerCall float64
}

var defaultPlans = []defaultPlan{
	{Name: "Free", Tier: plandomain.TierFree, MonthlyPrice: 0, IncludedCalls: 1000, OveragePricePerCall: 0},
	{Name: "Basic", Tier: plandomain.TierBasic, MonthlyPrice: 29, IncludedCalls: 10000, OveragePricePerCall: 0.0005},
	{Name: "Pro", Tier: plandomain.TierPro, MonthlyPrice: 99, IncludedCalls: 100000, OveragePricePerCall: 0.0003},
	{Name: "Enterprise", Tier: plandomain.TierEnterprise, MonthlyPrice: 499, IncludedCalls: 1000000, OveragePricePerCall: 0.0001},
}

// EnsureDefaultPlans inserts the published tier plans when the plan table
// is empty. Existing plans are never touched.
func EnsureDefaultPlans(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&plandomain.Plan{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		for _, p := range defaultPlans {
			plan := plandomain.Plan{
				ID:                  node.Generate(),
				Name:                p.Name,
				Tier:                p.Tier,
				MonthlyPrice:        p.MonthlyPrice,
				IncludedCalls:       p.IncludedCalls,
				OveragePricePerCall: p.OveragePricePerCall,
				CreatedAt:           now,
				UpdatedAt:           now,
			}
			if err := tx.Create(&plan).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
