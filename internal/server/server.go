// Package server exposes the HTTP surface of the backoffice.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/convertfy/backoffice/internal/asaas"
	"github.com/convertfy/backoffice/internal/client"
	clientdomain "github.com/convertfy/backoffice/internal/client/domain"
	"github.com/convertfy/backoffice/internal/config"
	"github.com/convertfy/backoffice/internal/klaviyo"
	"github.com/convertfy/backoffice/internal/metrics"
	metricsdomain "github.com/convertfy/backoffice/internal/metrics/domain"
	"github.com/convertfy/backoffice/internal/observability"
	obslogger "github.com/convertfy/backoffice/internal/observability/logger"
	obsmetrics "github.com/convertfy/backoffice/internal/observability/metrics"
	obstracing "github.com/convertfy/backoffice/internal/observability/tracing"
	"github.com/convertfy/backoffice/internal/revenue"
	"github.com/convertfy/backoffice/internal/subscription"
	subscriptiondomain "github.com/convertfy/backoffice/internal/subscription/domain"
	syncmodule "github.com/convertfy/backoffice/internal/sync"
	syncdomain "github.com/convertfy/backoffice/internal/sync/domain"
	"github.com/convertfy/backoffice/internal/user"
)

var Module = fx.Module("http.server",
	observability.Module,
	asaas.Module,
	klaviyo.Module,
	user.Module,
	client.Module,
	subscription.Module,
	revenue.Module,
	syncmodule.Module,
	metrics.Module,
	fx.Provide(obsmetrics.NewHTTPMetrics),
	fx.Provide(obstracing.NewProvider),
	fx.Provide(registerGin),
	fx.Invoke(ensureTracingProvider),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

// ensureTracingProvider forces construction of the tracer provider so
// the lifecycle hooks register even though nothing injects it.
func ensureTracingProvider(_ *sdktrace.TracerProvider) {}

// NewEngine assembles the middleware chain and the health/metrics routes.
func NewEngine(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Logger: log.Named("http"),
		Debug:  obsCfg.Debug(),
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, log *zap.Logger) *gin.Engine {
	return NewEngine(cfg, obsCfg, httpMetrics, log)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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
	clientSvc       clientdomain.Service
	subscriptionSvc subscriptiondomain.Service
	syncSvc         syncdomain.Service
	metricsSvc      metricsdomain.Service
	asaasClient     *asaas.Client
	klaviyoClient   *klaviyo.Client
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	ClientSvc       clientdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	SyncSvc         syncdomain.Service
	MetricsSvc      metricsdomain.Service
	AsaasClient     *asaas.Client
	KlaviyoClient   *klaviyo.Client
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		clientSvc:       p.ClientSvc,
		subscriptionSvc: p.SubscriptionSvc,
		syncSvc:         p.SyncSvc,
		metricsSvc:      p.MetricsSvc,
		asaasClient:     p.AsaasClient,
		klaviyoClient:   p.KlaviyoClient,
	}

	svc.registerAPIRoutes()
	svc.registerIntegrationRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	clients := api.Group("/clients")
	clients.GET("", s.ListClients)
	clients.POST("", s.CreateClient)
	clients.GET("/user/:user_id", s.GetClientByUser)
	clients.GET("/:id", s.GetClient)
	clients.PUT("/:id", s.UpdateClient)
	clients.DELETE("/:id", s.DeleteClient)

	subs := api.Group("/subscriptions")
	subs.GET("", s.ListSubscriptions)
	subs.POST("", s.CreateSubscription)
	subs.GET("/:id", s.GetSubscription)
	subs.PUT("/:id", s.UpdateSubscription)
	subs.POST("/:id/cancel", s.CancelSubscription)

	sync := api.Group("/sync")
	sync.POST("", s.StartSync)
	sync.GET("/reports", s.ListSyncReports)
	sync.GET("/reports/:id", s.GetSyncReport)

	m := api.Group("/metrics")
	m.GET("/financial", s.FinancialReport)
	m.GET("/monthly-comparison", s.MonthlyComparison)
	m.GET("/mrr", s.MRR)
	m.GET("/churn", s.ChurnRate)
	m.GET("/ltv", s.LTV)
	m.POST("/revenues", s.GenerateMonthlyRevenues)
}

func (s *Server) registerIntegrationRoutes() {
	proxy := s.engine.Group("/api/asaas")
	proxy.GET("/customers", s.ListAsaasCustomers)
	proxy.GET("/customers/:id", s.GetAsaasCustomer)
	proxy.GET("/test-connection", s.TestAsaasConnection)
	proxy.Any("/proxy/*path", s.ProxyAsaas)

	s.engine.GET("/klaviyo-revenue", s.KlaviyoRevenue)
}
