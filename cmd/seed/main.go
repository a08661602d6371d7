package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/greencart/backend/config"
	"github.com/greencart/backend/internal/infrastructure/catalog"
	"github.com/greencart/backend/pkg/logger"
	"github.com/greencart/backend/pkg/postgres"
)

const createTable = `
CREATE TABLE IF NOT EXISTS products (
	id             TEXT PRIMARY KEY,
	barcode        TEXT NOT NULL DEFAULT '',
	name           TEXT NOT NULL,
	brand          TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL,
	price          DOUBLE PRECISION NOT NULL,
	unit           TEXT NOT NULL DEFAULT '',
	quantity       DOUBLE PRECISION NOT NULL DEFAULT 1,
	store          TEXT NOT NULL DEFAULT '',
	nutrition      JSONB,
	sustainability JSONB,
	description    TEXT NOT NULL DEFAULT '',
	ingredients    JSONB,
	allergens      JSONB,
	labels         JSONB,
	in_stock       BOOLEAN NOT NULL DEFAULT TRUE,
	image_url      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products (category);
CREATE INDEX IF NOT EXISTS idx_products_barcode ON products (barcode);
`

// Seeds the products table from a JSON dataset. Existing rows are kept.
func main() {
	datasetPath := flag.String("dataset", "", "path to the products JSON file (defaults to the configured dataset)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	path := *datasetPath
	if path == "" {
		path = cfg.Catalog.DatasetPath
	}

	source, err := catalog.NewMemoryRepository(path)
	if err != nil {
		zlog.Fatal("Failed to load dataset", zap.String("path", path), zap.Error(err))
	}

	ctx := context.Background()

	products, err := source.All(ctx)
	if err != nil {
		zlog.Fatal("Failed to read dataset", zap.Error(err))
	}
	zlog.Info("Dataset loaded", zap.String("path", path), zap.Int("products", len(products)))

	pool, err := postgres.NewPool(ctx, postgres.Config{
		Host:     cfg.Catalog.PostgresHost,
		Port:     cfg.Catalog.PostgresPort,
		User:     cfg.Catalog.PostgresUser,
		Password: cfg.Catalog.PostgresPassword,
		DBName:   cfg.Catalog.PostgresDB,
		SSLMode:  cfg.Catalog.PostgresSSLMode,
	}, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, createTable); err != nil {
		zlog.Fatal("Failed to create products table", zap.Error(err))
	}

	repo := catalog.NewPostgresRepository(pool, zlog)

	inserted := 0
	for _, product := range products {
		if err := repo.Insert(ctx, product); err != nil {
			zlog.Error("Failed to insert product", zap.String("id", product.ID), zap.Error(err))
			continue
		}
		inserted++
	}

	zlog.Info("Seeding complete", zap.Int("inserted", inserted), zap.Int("total", len(products)))
}
