package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/amberhq/campaign-gateway/internal/config"
	"github.com/amberhq/campaign-gateway/internal/gateway"
	"github.com/amberhq/campaign-gateway/internal/http/middleware"
	"github.com/amberhq/campaign-gateway/internal/metrics"
	"github.com/amberhq/campaign-gateway/internal/repository"
	"github.com/amberhq/campaign-gateway/internal/service/dispatch"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Server struct{ e *echo.Echo }

func NewServer(cfg config.Config, mysqlDB, clickhouseDB *sqlx.DB, rds *redis.Client) *Server {
	// repos (MySQL)
	templatesRepo := repository.NewTemplatesRepository(mysqlDB)
	responsesRepo := repository.NewResponsesRepository(mysqlDB)
	outboxRepo := repository.NewOutboxRepository(mysqlDB)

	// repos (ClickHouse)
	dispatchLogRepo := repository.NewDispatchLogRepository(clickhouseDB)

	// gateway + service
	gw := gateway.NewWhatsAppClient(cfg.Gateway)
	dispatchSvc := dispatch.New(
		mysqlDB,
		templatesRepo,
		responsesRepo,
		outboxRepo,
		gw,
	)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())
	// CORS runs globally so failure responses and preflight carry the headers too
	e.Use(middleware.CORSMiddleware(middleware.CORSConfig{Origin: cfg.HTTP.CORSOrigin}))

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		RPS:            cfg.RateLimit.RPS,
		KeyPrefix:      "rl:ip:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	v1 := e.Group("/api/v1")
	v1.POST("/campaigns/send-notification", sendNotificationHandler(dispatchSvc), rlMW)
	v1.GET("/campaigns/:campaignID/responses", listResponsesHandler(responsesRepo))
	v1.GET("/templates/whatsapp", listTemplatesHandler(templatesRepo))
	v1.GET("/templates/whatsapp/:id", getTemplateHandler(templatesRepo))
	v1.GET("/reports/dispatches", listDispatchesHandler(dispatchLogRepo))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	log.Printf("http: listening on %s", addr)
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
