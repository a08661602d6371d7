package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/greencart/backend/config"
	httpDelivery "github.com/greencart/backend/internal/delivery/http"
	"github.com/greencart/backend/internal/domain"
	"github.com/greencart/backend/internal/infrastructure/cache"
	"github.com/greencart/backend/internal/infrastructure/catalog"
	"github.com/greencart/backend/internal/infrastructure/openfoodfacts"
	"github.com/greencart/backend/internal/usecase"
	"github.com/greencart/backend/pkg/logger"
	"github.com/greencart/backend/pkg/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("Starting GreenCart Backend v1.0.0",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("catalog", cfg.Catalog.Type),
	)

	repo, err := buildRepository(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize product catalog", zap.Error(err))
	}

	memoryCache := cache.NewMemoryCache()

	scorer := usecase.NewScorer(usecase.ScorerConfig{
		Weights: usecase.DimensionWeights{
			Economic:      cfg.Scorer.EconomicWeight,
			Environmental: cfg.Scorer.EnvironmentalWeight,
			Social:        cfg.Scorer.SocialWeight,
			Health:        cfg.Scorer.HealthWeight,
		},
		PriceReference:  cfg.Scorer.PriceReference,
		CarbonReference: cfg.Scorer.CarbonReference,
		WaterReference:  cfg.Scorer.WaterReference,
	})

	optimizer := usecase.NewOptimizer(scorer, usecase.OptimizerConfig{
		PopulationSize: cfg.Optimizer.PopulationSize,
		Generations:    cfg.Optimizer.Generations,
		MutationRate:   cfg.Optimizer.MutationRate,
		TournamentSize: cfg.Optimizer.TournamentSize,
		EliteFraction:  cfg.Optimizer.EliteFraction,
	})

	engine := usecase.NewSubstitutionEngine(scorer, usecase.SubstitutionConfig{
		SimilarityThreshold: cfg.Substitution.SimilarityThreshold,
	})

	products := usecase.NewProductService(repo, scorer, engine)

	var foodFacts domain.FoodFactsClient
	if cfg.FoodFacts.Enabled {
		foodFacts = openfoodfacts.NewClient(cfg.FoodFacts.BaseURL, zlog)
		zlog.Info("Open Food Facts fallback enabled", zap.String("base_url", cfg.FoodFacts.BaseURL))
	}

	handler := httpDelivery.NewHandler(httpDelivery.HandlerConfig{
		Products:        products,
		Optimizer:       optimizer,
		Engine:          engine,
		Scorer:          scorer,
		Repo:            repo,
		Cache:           memoryCache,
		FoodFacts:       foodFacts,
		OptimizationTTL: cfg.Cache.OptimizationTTL,
		LookupTTL:       cfg.Cache.LookupTTL,
		Country:         cfg.FoodFacts.Country,
		Logger:          zlog,
	})

	router := httpDelivery.SetupRouter(cfg, handler, zlog)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("Server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		zlog.Fatal("Server stopped", zap.Error(err))
	}
}

// buildRepository selects the catalog backend from configuration
func buildRepository(cfg *config.Config, zlog *zap.Logger) (domain.ProductRepository, error) {
	switch cfg.Catalog.Type {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), postgres.Config{
			Host:     cfg.Catalog.PostgresHost,
			Port:     cfg.Catalog.PostgresPort,
			User:     cfg.Catalog.PostgresUser,
			Password: cfg.Catalog.PostgresPassword,
			DBName:   cfg.Catalog.PostgresDB,
			SSLMode:  cfg.Catalog.PostgresSSLMode,
		}, zlog)
		if err != nil {
			return nil, err
		}
		return catalog.NewPostgresRepository(pool, zlog), nil
	default:
		return catalog.NewMemoryRepository(cfg.Catalog.DatasetPath)
	}
}
