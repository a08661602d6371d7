package domain

import (
	"context"
	"time"
)

// ProductFilter holds the optional criteria of a product search
type ProductFilter struct {
	Query    string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Labels   []string
	Store    string
}

// ProductRepository defines catalog access. Implementations back it with an
// in-memory dataset or PostgreSQL.
type ProductRepository interface {
	All(ctx context.Context) ([]Product, error)
	ByID(ctx context.Context, id string) (*Product, error)
	ByBarcode(ctx context.Context, barcode string) (*Product, error)
	ByCategory(ctx context.Context, category string) ([]Product, error)
	Categories(ctx context.Context) ([]string, error)
	Catalog(ctx context.Context) (map[string][]Product, error)
	Search(ctx context.Context, filter ProductFilter) ([]Product, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// FoodFactsClient defines the interface for the Open Food Facts lookup
type FoodFactsClient interface {
	FetchByBarcode(ctx context.Context, barcode string) (*Product, error)
	SearchProducts(ctx context.Context, query, country string) ([]Product, error)
}
