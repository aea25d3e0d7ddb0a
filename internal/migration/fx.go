package migration

import (
	apidomain "github.com/smallbiznis/tollgate/internal/apiservice/domain"
	"github.com/smallbiznis/tollgate/internal/config"
	consumerdomain "github.com/smallbiznis/tollgate/internal/consumer/domain"
	plandomain "github.com/smallbiznis/tollgate/internal/plan/domain"
	"github.com/smallbiznis/tollgate/internal/seed"
	subscriptiondomain "github.com/smallbiznis/tollgate/internal/subscription/domain"
	usagedomain "github.com/smallbiznis/tollgate/internal/usage/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite deployments are dev-oriented, AutoMigrate
			// keeps them schema-current without a second migration set.
			if err := conn.AutoMigrate(
				&apidomain.ApiService{},
				&plandomain.Plan{},
				&consumerdomain.Consumer{},
				&subscriptiondomain.Subscription{},
				&usagedomain.UsageEvent{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDefaultPlans {
			return seed.EnsureDefaultPlans(conn)
		}
		return nil
	}),
)
