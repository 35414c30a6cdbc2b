package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estateagent/internal/config"
	"estateagent/internal/genai"
	"estateagent/internal/handler"
	"estateagent/internal/repository"
	"estateagent/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := buildLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting real estate agent",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	gin.SetMode(cfg.Server.GinMode)

	catalog, err := repository.NewPostgresCatalog(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer catalog.Close()
	logger.Info("connected to PostgreSQL")

	var gen genai.Generator
	if cfg.GenAI.Enabled {
		gen = genai.NewClient(&cfg.GenAI)
		logger.Info("generation client initialized",
			zap.String("api_base", cfg.GenAI.APIBase),
			zap.String("model", cfg.GenAI.Model),
			zap.Int("timeout_seconds", cfg.GenAI.Timeout))
	} else {
		logger.Warn("generation disabled, all responses will use canonical defaults",
			zap.String("hint", "set GENAI_API_KEY to enable"))
	}

	searchService := service.NewSearchService(catalog, gen, logger,
		cfg.Search.ResultCap, cfg.Search.DisplayLimit)
	amenitiesService := service.NewAmenitiesService(catalog, gen, logger)
	negotiationService := service.NewNegotiationService(catalog, gen, logger)
	closingService := service.NewClosingService(catalog, gen, logger)
	orchestrator := service.NewOrchestrator(catalog,
		searchService, amenitiesService, negotiationService, closingService, logger)

	chatHandler := handler.NewChatHandler(orchestrator)
	propertyHandler := handler.NewPropertyHandler(orchestrator)

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		api.GET("/health", chatHandler.Health)
		api.POST("/chat", chatHandler.Chat)
		api.GET("/property/:id", propertyHandler.GetProperty)
		api.GET("/property/:id/amenities", propertyHandler.GetAmenities)
		api.POST("/property/:id/negotiate", propertyHandler.Negotiate)
		api.POST("/property/:id/close-deal", propertyHandler.CloseDeal)
		api.POST("/property/:id/finalize", propertyHandler.FinalizeDeal)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{Addr: addr, Handler: router}

	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func buildLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(parsed)
	return zapCfg.Build()
}
