package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/millworks/planboard-api/internal/handler"
	"github.com/millworks/planboard-api/internal/middleware"
	"github.com/millworks/planboard-api/internal/repository"
	"github.com/millworks/planboard-api/internal/service"
	"github.com/millworks/planboard-api/pkg/cache"
	"github.com/millworks/planboard-api/pkg/config"
	"github.com/millworks/planboard-api/pkg/database"
	"github.com/millworks/planboard-api/pkg/logger"
	corsmiddleware "github.com/millworks/planboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/millworks/planboard-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The board falls back to recomputing snapshots on every read.
		logr.Sugar().Warnw("redis unavailable, utilization caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	orderRepo := repository.NewOrderRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	capacityRepo := repository.NewCapacityRepository(db)
	fulfillmentRepo := repository.NewFulfillmentRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, cfg.Scheduler.UtilizationCacheTTL, logr)
	} else {
		cacheSvc = service.NewCacheService(nil, cfg.Scheduler.UtilizationCacheTTL, logr)
	}

	capacitySvc := service.NewCapacityService(capacityRepo, slotRepo, cacheSvc, metricsSvc, cfg.Scheduler, logr)
	fulfillmentSvc := service.NewFulfillmentService(fulfillmentRepo, orderRepo, logr)
	rollforwardSvc := service.NewRollForwardService(slotRepo, cacheSvc, metricsSvc, logr)
	scheduleSvc := service.NewScheduleService(slotRepo, orderRepo, auditRepo, capacitySvc, fulfillmentSvc, rollforwardSvc, cacheSvc, metricsSvc, db, validate, logr)
	suggestionSvc := service.NewSuggestionService(slotRepo, capacitySvc, metricsSvc, cfg.Scheduler.SuggestionWindowDays, logr)
	orderSvc := service.NewOrderService(orderRepo, fulfillmentSvc, validate, logr)
	auditSvc := service.NewAuditService(auditRepo, logr)
	exportSvc := service.NewExportService(scheduleSvc, logr)

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, suggestionSvc, orderSvc, exportSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	capacityHandler := handler.NewCapacityHandler(capacitySvc)
	auditHandler := handler.NewAuditHandler(auditSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/orders", orderHandler.List)
		api.POST("/orders", orderHandler.Create)
		api.GET("/orders/:orderNumber", orderHandler.Get)
		api.GET("/orders/:orderNumber/suggestion", scheduleHandler.Suggest)

		api.GET("/schedule/board", scheduleHandler.Board)
		api.POST("/schedule/assignments", scheduleHandler.Assign)
		api.POST("/schedule/assignments/bulk", scheduleHandler.BulkAssign)
		api.PUT("/schedule/assignments/:id/slot", scheduleHandler.Reslot)
		api.POST("/schedule/assignments/:id/lock", scheduleHandler.Lock)
		api.GET("/schedule/locked", scheduleHandler.Viewer)
		if cfg.Exports.Enabled {
			api.GET("/schedule/locked/export/csv", scheduleHandler.ExportCSV)
			api.GET("/schedule/locked/export/pdf", scheduleHandler.ExportPDF)
		}

		api.GET("/capacity/rules", capacityHandler.Rules)
		api.GET("/capacity/utilization", capacityHandler.Utilization)
		api.GET("/capacity/utilization/grid", capacityHandler.Grid)

		api.GET("/audit/reschedules", auditHandler.List)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
