package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orderdesk/backend/internal/application/session"
	"github.com/orderdesk/backend/internal/infrastructure/auth"
	"github.com/orderdesk/backend/internal/infrastructure/config"
	"github.com/orderdesk/backend/internal/infrastructure/logger"
	"github.com/orderdesk/backend/internal/infrastructure/telemetry"
	"github.com/orderdesk/backend/internal/infrastructure/upstream"
	"github.com/orderdesk/backend/internal/interfaces/http/handler"
	"github.com/orderdesk/backend/internal/interfaces/http/middleware"
	"github.com/orderdesk/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync(log) }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	upstreamClient, err := upstream.NewClient(&upstream.Config{
		BaseURL:        cfg.Upstream.BaseURL,
		AssetBaseURL:   cfg.Upstream.AssetBaseURL,
		Token:          cfg.Upstream.Token,
		TimeoutSeconds: cfg.Upstream.TimeoutSeconds,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize upstream client", zap.Error(err))
	}

	orderClient := upstream.NewOrderClient(upstreamClient)
	batchClient := upstream.NewBatchClient(upstreamClient)
	assetClient := upstream.NewAssetClient(upstreamClient)

	var metrics *telemetry.SyncMetrics
	if cfg.Telemetry.Enabled {
		metrics, err = telemetry.NewSyncMetrics(telemetry.Meter(cfg.Telemetry.ServiceName))
		if err != nil {
			log.Fatal("failed to initialize metrics", zap.Error(err))
		}
	}

	manager := session.NewManager(orderClient, batchClient, assetClient, metrics, log)
	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"service":  cfg.App.Name,
			"sessions": manager.Count(),
		})
	})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuth(jwtService))
	r.Register(handler.NewSessionHandler(manager, log))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
