package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/marketpo/internal/api"
	"github.com/andresuchdata/marketpo/internal/cache"
	"github.com/andresuchdata/marketpo/internal/catalog"
	"github.com/andresuchdata/marketpo/internal/config"
	"github.com/andresuchdata/marketpo/internal/domain"
	"github.com/andresuchdata/marketpo/internal/service"
	"github.com/andresuchdata/marketpo/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Load the master catalog once; it is shared read-only across requests.
	master, warnings, err := catalog.LoadCSVFile(cfg.App.MasterPath)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("path", cfg.App.MasterPath).Msg("Failed to load master catalog")
	}
	for _, w := range warnings {
		logger.Log.Warn().Str("warning", w.String()).Msg("Degraded master catalog row")
	}
	logger.Log.Info().Int("listings", master.Len()).Msg("Master catalog loaded")

	// Initialize plan cache (falls back to noop when redis is unreachable)
	planCache, err := cache.NewPlanCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Plan cache unavailable, continuing without caching")
		planCache = cache.NewNoopPlanCache()
	}

	// Initialize services
	planService := service.NewPlanService(planCache)

	router := api.NewRouter(&api.Services{
		PlanService: planService,
		Master:      master,
		Defaults: domain.PlanningParams{
			SalesWindowDays:    cfg.Planning.SalesWindowDays,
			PurchaseWindowDays: cfg.Planning.PurchaseWindowDays,
			LeadTimeDays:       cfg.Planning.LeadTimeDays,
			SafetyStockDays:    cfg.Planning.SafetyStockDays,
		},
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
