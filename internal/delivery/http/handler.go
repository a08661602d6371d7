package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greencart/backend/internal/domain"
	"github.com/greencart/backend/internal/infrastructure/cache"
	"github.com/greencart/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products  *usecase.ProductService
	optimizer *usecase.Optimizer
	engine    *usecase.SubstitutionEngine
	scorer    *usecase.Scorer

	repo      domain.ProductRepository
	cache     domain.CacheRepository
	foodFacts domain.FoodFactsClient

	optimizationTTL time.Duration
	lookupTTL       time.Duration
	country         string
	log             *zap.Logger
}

// HandlerConfig wires the handler's collaborators. FoodFacts may be nil,
// which disables the external barcode fallback.
type HandlerConfig struct {
	Products  *usecase.ProductService
	Optimizer *usecase.Optimizer
	Engine    *usecase.SubstitutionEngine
	Scorer    *usecase.Scorer
	Repo      domain.ProductRepository
	Cache     domain.CacheRepository
	FoodFacts domain.FoodFactsClient

	OptimizationTTL time.Duration
	LookupTTL       time.Duration
	Country         string
	Logger          *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(cfg HandlerConfig) *Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		products:        cfg.Products,
		optimizer:       cfg.Optimizer,
		engine:          cfg.Engine,
		scorer:          cfg.Scorer,
		repo:            cfg.Repo,
		cache:           cfg.Cache,
		foodFacts:       cfg.FoodFacts,
		optimizationTTL: cfg.OptimizationTTL,
		lookupTTL:       cfg.LookupTTL,
		country:         cfg.Country,
		log:             log,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "greencart-backend",
		"version": "1.0.0",
	})
}

// ListProducts returns the full catalog
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.products.All(c.Request.Context())
	if err != nil {
		h.serverError(c, "listing products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// ListCategories returns the catalog's categories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.products.Categories(c.Request.Context())
	if err != nil {
		h.serverError(c, "listing categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCatalog returns the catalog grouped by category
func (h *Handler) GetCatalog(c *gin.Context) {
	catalog, err := h.products.Catalog(c.Request.Context())
	if err != nil {
		h.serverError(c, "loading catalog", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"catalog": catalog})
}

// SearchProducts filters the catalog by the request's query parameters
func (h *Handler) SearchProducts(c *gin.Context) {
	filter := domain.ProductFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Store:    c.Query("store"),
		Labels:   c.QueryArray("label"),
	}
	if raw := c.Query("min_price"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.badRequest(c, "min_price must be a number")
			return
		}
		filter.MinPrice = &value
	}
	if raw := c.Query("max_price"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.badRequest(c, "max_price must be a number")
			return
		}
		filter.MaxPrice = &value
	}

	products, err := h.products.Search(c.Request.Context(), filter)
	if err != nil {
		h.serverError(c, "searching products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// GetProduct returns a single product by id
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.products.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.notFoundOrError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// AnalyzeProduct returns the full sustainability analysis of a product
func (h *Handler) AnalyzeProduct(c *gin.Context) {
	analysis, err := h.products.AnalyzeProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.notFoundOrError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

type compareRequest struct {
	ProductIDs []string `json:"product_ids" binding:"required"`
}

// CompareProducts analyzes two or more products side by side
func (h *Handler) CompareProducts(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "product_ids is required")
		return
	}

	comparison, err := h.products.CompareProducts(c.Request.Context(), req.ProductIDs)
	if err != nil {
		if errors.Is(err, domain.ErrNotEnoughProducts) {
			h.badRequest(c, err.Error())
			return
		}
		h.serverError(c, "comparing products", err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

// GetProductByBarcode looks a barcode up in the catalog, falling back to
// Open Food Facts when the catalog misses and the client is configured.
func (h *Handler) GetProductByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	ctx := c.Request.Context()

	product, err := h.products.ByBarcode(ctx, barcode)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"product": product, "source": "catalog"})
		return
	}
	if !errors.Is(err, domain.ErrProductNotFound) {
		h.serverError(c, "barcode lookup", err)
		return
	}

	if h.foodFacts == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	external, err := h.foodFacts.FetchByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.serverError(c, "open food facts lookup", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": external, "source": "open_food_facts"})
}

// SearchExternalProducts queries Open Food Facts for products that are not
// in the catalog. Results are cached per query.
func (h *Handler) SearchExternalProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		h.badRequest(c, "q is required")
		return
	}
	if h.foodFacts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "external product lookup is disabled"})
		return
	}

	ctx := c.Request.Context()

	cacheKey := "off_search:" + strings.ToLower(query)
	if cached, err := h.cache.Get(ctx, cacheKey); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, err := h.foodFacts.SearchProducts(ctx, query, h.country)
	if err != nil {
		h.serverError(c, "open food facts search", err)
		return
	}

	response := gin.H{
		"query":    query,
		"source":   "open_food_facts",
		"count":    len(products),
		"products": products,
	}
	if err := h.cache.Set(ctx, cacheKey, response, h.lookupTTL); err != nil {
		h.log.Warn("failed to cache external search", zap.Error(err))
	}

	c.JSON(http.StatusOK, response)
}

// EstimateCarbonFootprint estimates the footprint of a category and weight
func (h *Handler) EstimateCarbonFootprint(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		h.badRequest(c, "category is required")
		return
	}

	weight := 1.0
	if raw := c.Query("weight_kg"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value <= 0 {
			h.badRequest(c, "weight_kg must be a positive number")
			return
		}
		weight = value
	}

	c.JSON(http.StatusOK, usecase.EstimateCategoryFootprint(category, weight))
}

// OptimizeShoppingList runs the genetic optimization over the catalog.
// Results are memoized by the full request payload.
func (h *Handler) OptimizeShoppingList(c *gin.Context) {
	var list domain.ShoppingList
	if err := c.ShouldBindJSON(&list); err != nil {
		h.badRequest(c, "invalid shopping list: "+err.Error())
		return
	}
	if len(list.Items) == 0 {
		h.badRequest(c, "shopping list must contain at least one item")
		return
	}

	ctx := c.Request.Context()

	cacheKey, err := cache.RequestKey("optimize", list)
	if err == nil {
		if cached, cacheErr := h.cache.Get(ctx, cacheKey); cacheErr == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	catalog, err := h.repo.Catalog(ctx)
	if err != nil {
		h.serverError(c, "loading catalog", err)
		return
	}
	if len(catalog) == 0 {
		h.serverError(c, "loading catalog", errors.New("product catalog is empty"))
		return
	}

	result := h.optimizer.Optimize(list, catalog)

	if cacheKey != "" {
		if err := h.cache.Set(ctx, cacheKey, result, h.optimizationTTL); err != nil {
			h.log.Warn("failed to cache optimization result", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, result)
}

type estimateRequest struct {
	Items []domain.ShoppingListItem `json:"items" binding:"required"`
}

// EstimateShoppingList prices a list without optimizing it
func (h *Handler) EstimateShoppingList(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "items is required")
		return
	}

	estimate, err := h.products.EstimateList(c.Request.Context(), req.Items)
	if err != nil {
		h.notFoundOrError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimate)
}

// GetSubstitutions returns substitution suggestions for one product
func (h *Handler) GetSubstitutions(c *gin.Context) {
	focus := domain.Focus(c.DefaultQuery("focus", string(domain.FocusBalanced)))
	maxResults := h.intQuery(c, "max_results", 5)

	suggestions, err := h.products.Recommendations(c.Request.Context(), c.Param("id"), focus, maxResults)
	if err != nil {
		h.notFoundOrError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"focus":       focus,
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

type batchSubstituteRequest struct {
	ProductIDs []string     `json:"product_ids" binding:"required"`
	Focus      domain.Focus `json:"focus"`
}

// BatchSubstitute finds substitutions for several products at once
func (h *Handler) BatchSubstitute(c *gin.Context) {
	var req batchSubstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "product_ids is required")
		return
	}

	ctx := c.Request.Context()

	var products []domain.Product
	for _, id := range req.ProductIDs {
		product, err := h.products.ByID(ctx, id)
		if err != nil {
			continue
		}
		products = append(products, *product)
	}
	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no valid products found"})
		return
	}

	catalog, err := h.products.All(ctx)
	if err != nil {
		h.serverError(c, "loading catalog", err)
		return
	}

	results := h.engine.BatchSubstitute(products, catalog, req.Focus)

	c.JSON(http.StatusOK, gin.H{
		"focus":               req.Focus,
		"products_analyzed":   len(products),
		"substitutions_found": len(results),
		"results":             results,
	})
}

// GetSimilarProducts lists in-category products ordered by label overlap
func (h *Handler) GetSimilarProducts(c *gin.Context) {
	limit := h.intQuery(c, "limit", 5)

	similar, err := h.products.SimilarProducts(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.notFoundOrError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"similar_products": similar, "count": len(similar)})
}

// GetTopSustainable ranks products by sustainability score
func (h *Handler) GetTopSustainable(c *gin.Context) {
	category := c.Query("category")
	limit := h.intQuery(c, "limit", 10)

	ranked, err := h.products.TopSustainable(c.Request.Context(), category, limit)
	if err != nil {
		h.serverError(c, "ranking products", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": orAll(category),
		"count":    len(ranked),
		"products": ranked,
	})
}

// GetBestValue ranks products by sustainability per price unit
func (h *Handler) GetBestValue(c *gin.Context) {
	category := c.Query("category")
	limit := h.intQuery(c, "limit", 10)

	ranked, err := h.products.BestValue(c.Request.Context(), category, limit)
	if err != nil {
		h.serverError(c, "ranking products", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": orAll(category),
		"count":    len(ranked),
		"products": ranked,
	})
}

// GetSavingsOpportunities lists cheaper substitutes across the catalog
func (h *Handler) GetSavingsOpportunities(c *gin.Context) {
	minSavings := 10.0
	if raw := c.Query("min_savings_percentage"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			h.badRequest(c, "min_savings_percentage must be a non-negative number")
			return
		}
		minSavings = value
	}

	opportunities, err := h.products.SavingsOpportunities(c.Request.Context(), minSavings)
	if err != nil {
		h.serverError(c, "scanning savings opportunities", err)
		return
	}

	total := 0.0
	for _, opp := range opportunities {
		total += opp.Savings
	}

	c.JSON(http.StatusOK, gin.H{
		"count":                   len(opportunities),
		"total_potential_savings": total,
		"opportunities":           opportunities,
	})
}

func (h *Handler) intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func (h *Handler) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func (h *Handler) notFoundOrError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	h.serverError(c, "handling request", err)
}

func (h *Handler) serverError(c *gin.Context, action string, err error) {
	h.log.Error(action, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func orAll(category string) string {
	if category == "" {
		return "all"
	}
	return category
}
