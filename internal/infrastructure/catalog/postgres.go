package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/greencart/backend/internal/domain"
)

var productColumns = []string{
	"id", "barcode", "name", "brand", "category", "price", "unit", "quantity",
	"store", "nutrition", "sustainability", "description", "ingredients",
	"allergens", "labels", "in_stock", "image_url",
}

// PostgresRepository serves the catalog from a products table. Nutrition,
// sustainability and the list columns are stored as JSONB.
type PostgresRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

// NewPostgresRepository wraps a pgx pool as a ProductRepository
func NewPostgresRepository(db *pgxpool.Pool, log *zap.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, log: log}
}

func (r *PostgresRepository) selectBuilder() squirrel.SelectBuilder {
	return squirrel.Select(productColumns...).
		From("products").
		PlaceholderFormat(squirrel.Dollar)
}

func (r *PostgresRepository) All(ctx context.Context) ([]domain.Product, error) {
	return r.queryProducts(ctx, r.selectBuilder().OrderBy("category", "price"))
}

func (r *PostgresRepository) ByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.queryOne(ctx, r.selectBuilder().Where(squirrel.Eq{"id": id}))
}

func (r *PostgresRepository) ByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	return r.queryOne(ctx, r.selectBuilder().Where(squirrel.Eq{"barcode": barcode}))
}

func (r *PostgresRepository) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.queryProducts(ctx, r.selectBuilder().
		Where("lower(category) = lower(?)", category).
		OrderBy("price"))
}

func (r *PostgresRepository) Categories(ctx context.Context) ([]string, error) {
	query := squirrel.Select("DISTINCT category").
		From("products").
		OrderBy("category").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *PostgresRepository) Catalog(ctx context.Context) (map[string][]domain.Product, error) {
	products, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	catalog := make(map[string][]domain.Product)
	for _, p := range products {
		catalog[p.Category] = append(catalog[p.Category], p)
	}
	return catalog, nil
}

func (r *PostgresRepository) Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	builder := r.selectBuilder()

	if filter.Query != "" {
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		builder = builder.Where(
			squirrel.Or{
				squirrel.Expr("lower(name) LIKE ?", pattern),
				squirrel.Expr("lower(description) LIKE ?", pattern),
				squirrel.Expr("lower(brand) LIKE ?", pattern),
			},
		)
	}
	if filter.Category != "" {
		builder = builder.Where("lower(category) = lower(?)", filter.Category)
	}
	if filter.MinPrice != nil {
		builder = builder.Where(squirrel.GtOrEq{"price": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		builder = builder.Where(squirrel.LtOrEq{"price": *filter.MaxPrice})
	}
	if len(filter.Labels) > 0 {
		var anyLabel squirrel.Or
		for _, label := range filter.Labels {
			wanted, err := json.Marshal([]string{label})
			if err != nil {
				return nil, err
			}
			anyLabel = append(anyLabel, squirrel.Expr("labels @> ?", wanted))
		}
		builder = builder.Where(anyLabel)
	}
	if filter.Store != "" {
		builder = builder.Where("lower(store) LIKE ?", "%"+strings.ToLower(filter.Store)+"%")
	}

	products, err := r.queryProducts(ctx, builder.OrderBy("price"))
	if err != nil {
		return nil, err
	}
	r.log.Debug("catalog search", zap.String("query", filter.Query), zap.Int("results", len(products)))
	return products, nil
}

// Insert stores one product, used by the seed command
func (r *PostgresRepository) Insert(ctx context.Context, p domain.Product) error {
	nutrition, err := json.Marshal(p.Nutrition)
	if err != nil {
		return err
	}
	sustainability, err := json.Marshal(p.Sustainability)
	if err != nil {
		return err
	}
	ingredients, err := json.Marshal(p.Ingredients)
	if err != nil {
		return err
	}
	allergens, err := json.Marshal(p.Allergens)
	if err != nil {
		return err
	}
	labels, err := json.Marshal(p.Labels)
	if err != nil {
		return err
	}

	query := squirrel.Insert("products").
		Columns(productColumns...).
		Values(p.ID, p.Barcode, p.Name, p.Brand, p.Category, p.Price, p.Unit, p.Quantity,
			p.Store, nutrition, sustainability, p.Description, ingredients,
			allergens, labels, p.InStock, p.ImageURL).
		Suffix("ON CONFLICT (id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *PostgresRepository) queryOne(ctx context.Context, builder squirrel.SelectBuilder) (*domain.Product, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domain.ErrProductNotFound
	}

	product, err := scanProduct(rows)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *PostgresRepository) queryProducts(ctx context.Context, builder squirrel.SelectBuilder) ([]domain.Product, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return products, nil
}

func scanProduct(rows pgx.Rows) (*domain.Product, error) {
	var (
		p              domain.Product
		nutrition      []byte
		sustainability []byte
		ingredients    []byte
		allergens      []byte
		labels         []byte
	)

	if err := rows.Scan(
		&p.ID, &p.Barcode, &p.Name, &p.Brand, &p.Category, &p.Price, &p.Unit, &p.Quantity,
		&p.Store, &nutrition, &sustainability, &p.Description, &ingredients,
		&allergens, &labels, &p.InStock, &p.ImageURL,
	); err != nil {
		return nil, fmt.Errorf("scanning product: %w", err)
	}

	if len(nutrition) > 0 && string(nutrition) != "null" {
		p.Nutrition = &domain.NutritionInfo{}
		if err := json.Unmarshal(nutrition, p.Nutrition); err != nil {
			return nil, fmt.Errorf("decoding nutrition: %w", err)
		}
	}
	if len(sustainability) > 0 && string(sustainability) != "null" {
		p.Sustainability = &domain.SustainabilityAttributes{}
		if err := json.Unmarshal(sustainability, p.Sustainability); err != nil {
			return nil, fmt.Errorf("decoding sustainability: %w", err)
		}
	}
	for raw, target := range map[*[]byte]*[]string{
		&ingredients: &p.Ingredients,
		&allergens:   &p.Allergens,
		&labels:      &p.Labels,
	} {
		if len(*raw) > 0 && string(*raw) != "null" {
			if err := json.Unmarshal(*raw, target); err != nil {
				return nil, fmt.Errorf("decoding list column: %w", err)
			}
		}
	}

	return &p, nil
}
