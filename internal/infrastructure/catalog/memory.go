package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/greencart/backend/internal/domain"
)

// dataset is the on-disk shape of the product dataset
type dataset struct {
	Products []domain.Product `json:"products"`
}

// MemoryRepository serves the catalog from a JSON dataset loaded at startup
type MemoryRepository struct {
	products []domain.Product
	byID     map[string]int
}

// NewMemoryRepository loads products from the given JSON file
func NewMemoryRepository(path string) (*MemoryRepository, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}

	var data dataset
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}

	return NewMemoryRepositoryFromProducts(data.Products), nil
}

// NewMemoryRepositoryFromProducts builds a repository over a product slice
func NewMemoryRepositoryFromProducts(products []domain.Product) *MemoryRepository {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}
	return &MemoryRepository{products: products, byID: byID}
}

func (r *MemoryRepository) All(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *MemoryRepository) ByID(ctx context.Context, id string) (*domain.Product, error) {
	idx, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	product := r.products[idx]
	return &product, nil
}

func (r *MemoryRepository) ByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	for _, p := range r.products {
		if p.Barcode != "" && p.Barcode == barcode {
			product := p
			return &product, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *MemoryRepository) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Categories(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range r.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *MemoryRepository) Catalog(ctx context.Context) (map[string][]domain.Product, error) {
	catalog := make(map[string][]domain.Product)
	for _, p := range r.products {
		catalog[p.Category] = append(catalog[p.Category], p)
	}
	return catalog, nil
}

// Search applies the filter's criteria conjunctively. The text query matches
// name, description and brand, case-insensitively.
func (r *MemoryRepository) Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := strings.ToLower(filter.Query)

	var out []domain.Product
	for _, p := range r.products {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if filter.MinPrice != nil && p.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			continue
		}
		if len(filter.Labels) > 0 && !hasAnyLabel(p, filter.Labels) {
			continue
		}
		if filter.Store != "" && !strings.Contains(strings.ToLower(p.Store), strings.ToLower(filter.Store)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func matchesQuery(p domain.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.Brand), query)
}

func hasAnyLabel(p domain.Product, wanted []string) bool {
	labels := make(map[string]bool, len(p.Labels))
	for _, label := range p.Labels {
		labels[strings.ToLower(label)] = true
	}
	for _, w := range wanted {
		if labels[strings.ToLower(w)] {
			return true
		}
	}
	return false
}
