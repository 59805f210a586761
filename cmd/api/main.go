package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dayahead-procurement/internal/api/handlers"
	"dayahead-procurement/internal/api/middleware"
	"dayahead-procurement/internal/config"
	"dayahead-procurement/internal/data"
	"dayahead-procurement/internal/logging"
	"dayahead-procurement/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	st, err := store.Open(cfg.Data.DatabasePath)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer st.Close()

	zones, err := loadZones(cfg)
	if err != nil {
		logger.Fatal("zone registry", zap.Error(err))
	}

	// The refresher is optional: without a cron spec the server only serves
	// what the CLI has already downloaded.
	var refresher *data.Refresher
	if cfg.Data.RefreshCron != "" {
		start, _ := cfg.Start()
		client := data.NewClient(cfg.Data.APIKey, cfg.Data.BaseURL, logger)
		refresher = data.NewRefresher(client, st, zones, start, logger)
		if err := refresher.Schedule(cfg.Data.RefreshCron); err != nil {
			logger.Fatal("refresh schedule", zap.Error(err))
		}
		defer refresher.Stop()
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler())

	procurementHandler := handlers.NewProcurementHandler(st, logger)
	seriesHandler := handlers.NewSeriesHandler(st, logger)
	zonesHandler := handlers.NewZonesHandler(st, zones)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/sweep", procurementHandler.RunSweep)
		api.POST("/plan", procurementHandler.RunPlan)

		api.GET("/series", seriesHandler.GetSeries)
		api.GET("/countries", zonesHandler.ListZones)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		logger.Info("starting API server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func loadZones(cfg *config.Config) ([]data.Zone, error) {
	registry := data.DefaultZones()
	if cfg.Data.ZonesFile != "" {
		loaded, err := data.LoadZones(cfg.Data.ZonesFile)
		if err != nil {
			return nil, err
		}
		registry = loaded
	}
	return data.SelectZones(registry, cfg.Data.Zones)
}
