package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopSphere/app/echo-server/router"
	"shopSphere/business/catalog"
	"shopSphere/business/interaction"
	"shopSphere/business/product"
	"shopSphere/business/recommend"
	"shopSphere/internal/middleware"
	"shopSphere/internal/repository/memcache"
	psqlRepo "shopSphere/internal/repository/postgres"
	"shopSphere/internal/repository/recoapi"
	redisRepo "shopSphere/internal/repository/redis"
	"shopSphere/internal/rest"
	"shopSphere/pkg/config"
	"shopSphere/pkg/database"
	redisdb "shopSphere/pkg/database/redis"
	"shopSphere/pkg/logger"
	"shopSphere/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting ShopSphere", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// a missing or unreachable Redis is not fatal: the cache falls
	// back to the in-process store and interaction data goes to the
	// in-process interaction store
	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, using in-process fallback stores", "error", err)
		redisClient = nil
	}

	// Init repo
	registry := psqlRepo.NewShardRegistry(db)
	catalogRepo := psqlRepo.NewCatalogRepository(db)
	writeRepo := psqlRepo.NewCatalogWriteRepository(db)
	cacheRepo := redisRepo.NewCacheRepository(redisClient)

	var interactionStore interface {
		interaction.InteractionStore
		recommend.InteractionReader
	}
	if redisClient != nil {
		interactionStore = redisRepo.NewInteractionRepository(redisClient)
	} else {
		interactionStore = memcache.NewInteractionStore()
	}

	recoClient := recoapi.NewRecoAPIRepository(recoapi.RecoAPIConfig{
		BaseURL: cfg.Reco.ExternalURL,
		Timeout: cfg.Reco.ExternalTimeout,
	})

	// Init service
	catalogService := catalog.NewCatalogService(registry, catalogRepo, cacheRepo, cfg.Cache.ListTTL, cfg.Cache.DetailTTL)
	productService := product.NewProductService(writeRepo, registry, catalogRepo, catalogService)
	interactionService := interaction.NewInteractionService(interactionStore, catalogRepo, registry, cfg.Cache.EventTTL)
	recommendService := recommend.NewRecommendService(interactionStore, recoClient, catalogService)

	// Init handler
	catalogHandler := rest.NewCatalogHandler(catalogService)
	trackHandler := rest.NewTrackHandler(interactionService)
	recommendHandler := rest.NewRecommendHandler(recommendService)
	adminHandler := rest.NewAdminProductHandler(productService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Session-ID"},
	}))
	e.Use(middleware.Identity(cfg.JWT.SecretKey))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupCatalogRoutes(api, catalogHandler)
	router.SetupTrackRoutes(api, trackHandler)
	router.SetupRecommendRoutes(api, recommendHandler)
	router.SetupAdminProductRoutes(api, adminHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if redisClient != nil {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Redis shutdown error", "error", err)
		}
	}

	logger.Info("Server stopped")
}
