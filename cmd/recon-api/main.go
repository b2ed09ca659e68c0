package main

import (
	"os"

	"go.uber.org/zap"

	"go-deal-recon/internal/api"
	"go-deal-recon/internal/api/handler"
	"go-deal-recon/internal/cache"
	"go-deal-recon/internal/compare"
	"go-deal-recon/internal/config"
	"go-deal-recon/internal/enrich"
	"go-deal-recon/internal/store"
	"go-deal-recon/pkg/router"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(os.Getenv("RECON_CONFIG"))
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	if err := store.InitDB(cfg.DBPath); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	analysisCache := cache.New(cfg.Cache.Capacity, cfg.Cache.TTL)
	analyzer := compare.NewAnalyzer(analysisCache, logger)
	processor := enrich.NewProcessor(logger)

	h := handler.NewRecon(analyzer, analysisCache, processor, logger)
	r := router.New(logger)
	api.RegisterRoutes(r, h)

	logger.Info("starting recon API",
		zap.String("addr", cfg.Addr),
		zap.String("db_path", cfg.DBPath),
		zap.Int("cache_capacity", cfg.Cache.Capacity),
		zap.Duration("cache_ttl", cfg.Cache.TTL))

	if err := r.Start(cfg.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
