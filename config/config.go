package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	Catalog      CatalogConfig
	Cache        CacheConfig
	Scorer       ScorerConfig
	Optimizer    OptimizerConfig
	Substitution SubstitutionConfig
	FoodFacts    FoodFactsConfig
	Log          LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig selects and parameterizes the product repository
type CatalogConfig struct {
	Type        string `mapstructure:"type"` // "memory" or "postgres"
	DatasetPath string `mapstructure:"dataset_path"`

	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     string `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"`
	PostgresDB       string `mapstructure:"postgres_db"`
	PostgresSSLMode  string `mapstructure:"postgres_sslmode"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	OptimizationTTL time.Duration `mapstructure:"optimization_ttl"`
	LookupTTL       time.Duration `mapstructure:"lookup_ttl"`
}

// ScorerConfig holds sustainability scoring knobs
type ScorerConfig struct {
	EconomicWeight      float64 `mapstructure:"economic_weight"`
	EnvironmentalWeight float64 `mapstructure:"environmental_weight"`
	SocialWeight        float64 `mapstructure:"social_weight"`
	HealthWeight        float64 `mapstructure:"health_weight"`
	PriceReference      float64 `mapstructure:"price_reference"`
	CarbonReference     float64 `mapstructure:"carbon_reference"`
	WaterReference      float64 `mapstructure:"water_reference"`
}

// OptimizerConfig holds genetic search knobs
type OptimizerConfig struct {
	PopulationSize int     `mapstructure:"population_size"`
	Generations    int     `mapstructure:"generations"`
	MutationRate   float64 `mapstructure:"mutation_rate"`
	TournamentSize int     `mapstructure:"tournament_size"`
	EliteFraction  float64 `mapstructure:"elite_fraction"`
}

// SubstitutionConfig holds substitution engine knobs
type SubstitutionConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
}

// FoodFactsConfig holds Open Food Facts client configuration
type FoodFactsConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Country string `mapstructure:"country"`
	Enabled bool   `mapstructure:"enabled"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/greencart/")

	v.SetEnvPrefix("GREENCART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("catalog.type", "memory")
	v.SetDefault("catalog.dataset_path", "data/products.json")
	v.SetDefault("catalog.postgres_host", "localhost")
	v.SetDefault("catalog.postgres_port", "5432")
	v.SetDefault("catalog.postgres_user", "greencart")
	v.SetDefault("catalog.postgres_db", "greencart")
	v.SetDefault("catalog.postgres_sslmode", "disable")

	v.SetDefault("cache.optimization_ttl", "10m")
	v.SetDefault("cache.lookup_ttl", "24h")

	v.SetDefault("scorer.economic_weight", 0.30)
	v.SetDefault("scorer.environmental_weight", 0.30)
	v.SetDefault("scorer.social_weight", 0.20)
	v.SetDefault("scorer.health_weight", 0.20)
	v.SetDefault("scorer.price_reference", 5000.0)
	v.SetDefault("scorer.carbon_reference", 5.0)
	v.SetDefault("scorer.water_reference", 100.0)

	v.SetDefault("optimizer.population_size", 50)
	v.SetDefault("optimizer.generations", 100)
	v.SetDefault("optimizer.mutation_rate", 0.15)
	v.SetDefault("optimizer.tournament_size", 3)
	v.SetDefault("optimizer.elite_fraction", 0.20)

	v.SetDefault("substitution.similarity_threshold", 0.3)

	v.SetDefault("foodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("foodfacts.country", "chile")
	v.SetDefault("foodfacts.enabled", true)

	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.Type != "memory" && config.Catalog.Type != "postgres" {
		return fmt.Errorf("catalog type must be 'memory' or 'postgres', got: %s", config.Catalog.Type)
	}
	if config.Catalog.Type == "memory" && config.Catalog.DatasetPath == "" {
		return fmt.Errorf("dataset path is required when catalog type is 'memory'")
	}
	if config.Catalog.Type == "postgres" && config.Catalog.PostgresHost == "" {
		return fmt.Errorf("postgres host is required when catalog type is 'postgres'")
	}

	weightSum := config.Scorer.EconomicWeight + config.Scorer.EnvironmentalWeight +
		config.Scorer.SocialWeight + config.Scorer.HealthWeight
	if weightSum < 0.99 || weightSum > 1.01 {
		return fmt.Errorf("scorer dimension weights must sum to 1.0, got: %.2f", weightSum)
	}

	if config.Optimizer.MutationRate < 0 || config.Optimizer.MutationRate > 1 {
		return fmt.Errorf("mutation rate must be within [0,1], got: %v", config.Optimizer.MutationRate)
	}
	if config.Optimizer.EliteFraction < 0 || config.Optimizer.EliteFraction > 1 {
		return fmt.Errorf("elite fraction must be within [0,1], got: %v", config.Optimizer.EliteFraction)
	}

	if config.Substitution.SimilarityThreshold < 0 || config.Substitution.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be within [0,1], got: %v", config.Substitution.SimilarityThreshold)
	}

	return nil
}
