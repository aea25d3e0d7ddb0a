package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/tollgate/internal/apiservice"
	apidomain "github.com/smallbiznis/tollgate/internal/apiservice/domain"
	"github.com/smallbiznis/tollgate/internal/chargeback"
	chargebackdomain "github.com/smallbiznis/tollgate/internal/chargeback/domain"
	"github.com/smallbiznis/tollgate/internal/config"
	"github.com/smallbiznis/tollgate/internal/consumer"
	consumerdomain "github.com/smallbiznis/tollgate/internal/consumer/domain"
	"github.com/smallbiznis/tollgate/internal/observability"
	obsmiddleware "github.com/smallbiznis/tollgate/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/tollgate/internal/observability/metrics"
	obstracing "github.com/smallbiznis/tollgate/internal/observability/tracing"
	"github.com/smallbiznis/tollgate/internal/plan"
	plandomain "github.com/smallbiznis/tollgate/internal/plan/domain"
	"github.com/smallbiznis/tollgate/internal/subscription"
	subscriptiondomain "github.com/smallbiznis/tollgate/internal/subscription/domain"
	"github.com/smallbiznis/tollgate/internal/usage"
	usagedomain "github.com/smallbiznis/tollgate/internal/usage/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	apiservice.Module,
	plan.Module,
	consumer.Module,
	subscription.Module,
	usage.Module,
	chargeback.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API gateway chargeback backend"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	apiSvc          apidomain.Service
	planSvc         plandomain.Service
	consumerSvc     consumerdomain.Service
	subscriptionSvc subscriptiondomain.Service
	usageSvc        usagedomain.Service
	chargebackSvc   chargebackdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	ApiSvc          apidomain.Service
	PlanSvc         plandomain.Service
	ConsumerSvc     consumerdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	UsageSvc        usagedomain.Service
	ChargebackSvc   chargebackdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		apiSvc:          p.ApiSvc,
		planSvc:         p.PlanSvc,
		consumerSvc:     p.ConsumerSvc,
		subscriptionSvc: p.SubscriptionSvc,
		usageSvc:        p.UsageSvc,
		chargebackSvc:   p.ChargebackSvc,
	}

	svc.registerRoutes()

	return svc
}

func (s *Server) registerRoutes() {
	s.engine.POST("/apis", s.CreateApi)
	s.engine.GET("/apis", s.ListApis)
	s.engine.PUT("/apis/:id", s.UpdateApi)

	s.engine.POST("/plans", s.CreatePlan)
	s.engine.GET("/plans", s.ListPlans)
	s.engine.PUT("/plans/:id", s.UpdatePlan)

	s.engine.POST("/consumers", s.CreateConsumer)
	s.engine.GET("/consumers", s.ListConsumers)

	s.engine.POST("/subscriptions", s.CreateSubscription)
	s.engine.GET("/subscriptions", s.ListSubscriptions)

	s.engine.POST("/usage", s.IngestUsage)
	s.engine.GET("/usage", s.ListUsage)

	s.engine.GET("/metrics/overview", s.MetricsOverview)
	s.engine.GET("/metrics/api/:id", s.MetricsByApi)

	s.engine.GET("/chargeback", s.Chargeback)
}
