package config

import (
	"os"
	"testing"
	"time"
)

func cleanupEnv() {
	os.Unsetenv("GREENCART_SERVER_PORT")
	os.Unsetenv("GREENCART_SERVER_ENVIRONMENT")
	os.Unsetenv("GREENCART_CATALOG_TYPE")
	os.Unsetenv("GREENCART_CATALOG_DATASET_PATH")
	os.Unsetenv("GREENCART_CATALOG_POSTGRES_HOST")
	os.Unsetenv("GREENCART_CACHE_OPTIMIZATION_TTL")
	os.Unsetenv("GREENCART_SCORER_ECONOMIC_WEIGHT")
	os.Unsetenv("GREENCART_SCORER_ENVIRONMENTAL_WEIGHT")
	os.Unsetenv("GREENCART_SCORER_SOCIAL_WEIGHT")
	os.Unsetenv("GREENCART_SCORER_HEALTH_WEIGHT")
	os.Unsetenv("GREENCART_OPTIMIZER_POPULATION_SIZE")
	os.Unsetenv("GREENCART_OPTIMIZER_MUTATION_RATE")
	os.Unsetenv("GREENCART_SUBSTITUTION_SIMILARITY_THRESHOLD")
	os.Unsetenv("GREENCART_FOODFACTS_BASE_URL")
	os.Unsetenv("GREENCART_LOG_LEVEL")
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8000" {
			t.Errorf("Server.Port = %s, want 8000", cfg.Server.Port)
		}
		if cfg.Catalog.Type != "memory" {
			t.Errorf("Catalog.Type = %s, want memory", cfg.Catalog.Type)
		}
		if cfg.Catalog.DatasetPath != "data/products.json" {
			t.Errorf("Catalog.DatasetPath = %s, want data/products.json", cfg.Catalog.DatasetPath)
		}
		if cfg.Cache.OptimizationTTL != 10*time.Minute {
			t.Errorf("Cache.OptimizationTTL = %v, want 10m", cfg.Cache.OptimizationTTL)
		}
		if cfg.Scorer.EconomicWeight != 0.30 {
			t.Errorf("Scorer.EconomicWeight = %v, want 0.30", cfg.Scorer.EconomicWeight)
		}
		if cfg.Optimizer.PopulationSize != 50 {
			t.Errorf("Optimizer.PopulationSize = %d, want 50", cfg.Optimizer.PopulationSize)
		}
		if cfg.Optimizer.Generations != 100 {
			t.Errorf("Optimizer.Generations = %d, want 100", cfg.Optimizer.Generations)
		}
		if cfg.Substitution.SimilarityThreshold != 0.3 {
			t.Errorf("Substitution.SimilarityThreshold = %v, want 0.3", cfg.Substitution.SimilarityThreshold)
		}
		if cfg.FoodFacts.BaseURL != "https://world.openfoodfacts.org" {
			t.Errorf("FoodFacts.BaseURL = %s, want the public API URL", cfg.FoodFacts.BaseURL)
		}
		if !cfg.FoodFacts.Enabled {
			t.Error("FoodFacts.Enabled = false, want true")
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("GREENCART_SERVER_PORT", "9090")
		os.Setenv("GREENCART_SERVER_ENVIRONMENT", "production")
		os.Setenv("GREENCART_CACHE_OPTIMIZATION_TTL", "30m")
		os.Setenv("GREENCART_OPTIMIZER_POPULATION_SIZE", "80")
		os.Setenv("GREENCART_FOODFACTS_BASE_URL", "https://api.example.com")
		os.Setenv("GREENCART_LOG_LEVEL", "debug")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Cache.OptimizationTTL != 30*time.Minute {
			t.Errorf("Cache.OptimizationTTL = %v, want 30m", cfg.Cache.OptimizationTTL)
		}
		if cfg.Optimizer.PopulationSize != 80 {
			t.Errorf("Optimizer.PopulationSize = %d, want 80", cfg.Optimizer.PopulationSize)
		}
		if cfg.FoodFacts.BaseURL != "https://api.example.com" {
			t.Errorf("FoodFacts.BaseURL = %s, want https://api.example.com", cfg.FoodFacts.BaseURL)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
		}
	})

	t.Run("rejects unknown catalog type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("GREENCART_CATALOG_TYPE", "cassandra")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for unknown catalog type")
		}
	})

	t.Run("rejects scorer weights that do not sum to one", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("GREENCART_SCORER_ECONOMIC_WEIGHT", "0.9")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for weight sum != 1.0")
		}
	})

	t.Run("rejects out-of-range mutation rate", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("GREENCART_OPTIMIZER_MUTATION_RATE", "1.5")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for mutation rate > 1")
		}
	})

	t.Run("rejects out-of-range similarity threshold", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("GREENCART_SUBSTITUTION_SIMILARITY_THRESHOLD", "2")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for threshold > 1")
		}
	})
}
