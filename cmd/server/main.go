package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/carparks/internal/config"
	"github.com/stwalsh4118/carparks/internal/handlers"
	"github.com/stwalsh4118/carparks/internal/logger"
	"github.com/stwalsh4118/carparks/internal/metrics"
	"github.com/stwalsh4118/carparks/internal/middleware"
	"github.com/stwalsh4118/carparks/internal/repository"
	"github.com/stwalsh4118/carparks/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting car park API", map[string]interface{}{
		"version":     "0.1.0",
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"driver":      cfg.Database.Driver,
	})

	// Open the record store
	ctx := context.Background()
	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to open record store", err, map[string]interface{}{
			"driver": cfg.Database.Driver,
			"host":   cfg.Database.Host,
			"name":   cfg.Database.Name,
			"path":   cfg.Database.Path,
		})
	}
	defer store.Close()

	log.Info("Record store ready", map[string]interface{}{
		"driver":   store.Driver,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})
	if store.IdentityIndexErr != nil {
		log.Warn("Identity index is missing, run carparkctl dedupe to create it", map[string]interface{}{
			"error": store.IdentityIndexErr.Error(),
		})
	}

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	m := metrics.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> Metrics -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log, "/health", "/metrics"))
	router.Use(middleware.Recovery(log, m))
	router.Use(middleware.Metrics(m))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check and metrics routes
	healthHandler := handlers.NewHealthHandler(store, store.Driver, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// Initialize service layer and handlers
	carParkService := services.NewCarParkService(store.CarParks, log)
	carParkHandler := handlers.NewCarParkHandler(carParkService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	carParkHandler.RegisterRoutes(v1)

	// Create HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
