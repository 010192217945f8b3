package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	apperrors "github.com/GustavoCremonez/backend/errors"
	"github.com/GustavoCremonez/backend/internal/adapter/handler"
	"github.com/GustavoCremonez/backend/internal/adapter/repository"
	"github.com/GustavoCremonez/backend/internal/app"
	"github.com/GustavoCremonez/backend/internal/domain/entities"
	"github.com/GustavoCremonez/backend/internal/infrastructure/cache"
	"github.com/GustavoCremonez/backend/internal/infrastructure/database"
	"github.com/GustavoCremonez/backend/internal/infrastructure/metrics"
	"github.com/GustavoCremonez/backend/internal/infrastructure/storage"
	"github.com/GustavoCremonez/backend/internal/usecase/extraction"
	"github.com/GustavoCremonez/backend/pkg/config"
	pkglogger "github.com/GustavoCremonez/backend/pkg/logger"
	pkgvalidator "github.com/GustavoCremonez/backend/pkg/validator"
)

// @title           Task Extractor API
// @version         1.0
// @description     Extracts done and pending work per person from daily meeting transcripts
// @BasePath        /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := pkglogger.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Invalid timezone", zap.Error(err))
	}

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Warn("http.request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("http.request", fields...)
			return nil
		},
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.RateLimitRPS > 0 {
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/health" || c.Path() == "/metrics"
			},
			Store: middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.Server.RateLimitRPS)),
			DenyHandler: func(c echo.Context, _ string, _ error) error {
				return handler.HandleError(logger, c, apperrors.ErrTooManyRequests())
			},
		}))
	}

	ctx := context.Background()
	logger.Info("🔧 Initializing dependencies...")

	pipeline, err := app.BuildPipeline(cfg, logger, nil)
	if err != nil {
		logger.Fatal("Failed to build extraction pipeline", zap.Error(err))
	}

	deps := extraction.Dependencies{
		Strategies:      pipeline.Strategies,
		DefaultProvider: entities.ExtractionProvider(cfg.Extraction.DefaultProvider),
		Metrics:         metrics.New(),
		Location:        loc,
		Timeout:         cfg.Extraction.Timeout,
	}

	// Database (extraction history)
	if cfg.Database.Enabled {
		logger.Info("📦 Connecting to database...")
		db, err := database.NewPostgresDB(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer database.CloseDB(db)

		if cfg.Database.AutoMigrate {
			if err := database.AutoMigrate(db, logger); err != nil {
				logger.Fatal("Failed to apply migrations", zap.Error(err))
			}
		}
		deps.Runs = repository.NewExtractionRepository(db)
	}

	// Result cache
	if cfg.Redis.Enabled {
		logger.Info("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisStore.Close()
		deps.Cache = redisStore
	} else if cfg.Extraction.CacheTTL > 0 {
		memStore := cache.NewMemoryStore(cfg.Extraction.CacheTTL)
		defer memStore.Stop()
		deps.Cache = memStore
	}

	// Transcript storage
	if cfg.Storage.Enabled {
		logger.Info("📦 Connecting to object storage...", zap.String("endpoint", cfg.Storage.Endpoint))
		minioClient, err := storage.NewMinIOClient(ctx, &cfg.Storage)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
		deps.Store = minioClient
	}

	service := extraction.NewService(deps, logger.Named("extraction"))
	extractionHandler := handler.NewExtractionHandler(service, logger)

	router := handler.NewRouter(cfg, extractionHandler, service)
	router.Setup(e)

	// Start server
	go func() {
		addr := cfg.GetServerAddr()
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
			zap.String("default_provider", cfg.Extraction.DefaultProvider),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("✅ Server stopped gracefully")
}
