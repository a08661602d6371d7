package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/greencart/backend/internal/domain"
)

const (
	defaultTimeout = 10 * time.Second
	maxRetries     = 3
	searchPageSize = 20
	maxSearchItems = 10
)

// Client talks to the Open Food Facts public API. Barcode lookups use the
// v0 product endpoint, text search uses v2.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	log         *zap.Logger
}

// NewClient creates an Open Food Facts client. The public API asks clients
// to stay under roughly 100 requests per minute, so the limiter allows
// 1.5 req/s with a small burst.
func NewClient(baseURL string, log *zap.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(1.5), 5),
		log:         log,
	}
}

// productResponse is the v0 barcode endpoint payload
type productResponse struct {
	Status  int        `json:"status"`
	Product rawProduct `json:"product"`
}

// searchResponse is the v2 search endpoint payload
type searchResponse struct {
	Products []rawProduct `json:"products"`
}

// FetchByBarcode looks one product up by barcode. A status of 0 in the
// response body means the barcode is unknown.
func (c *Client) FetchByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(barcode))

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var decoded productResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if decoded.Status != 1 {
		c.log.Debug("barcode unknown to open food facts", zap.String("barcode", barcode))
		return nil, domain.ErrProductNotFound
	}

	product := mapProduct(decoded.Product)
	return &product, nil
}

// SearchProducts runs a text search, restricted to one country, returning
// at most ten mapped products.
func (c *Client) SearchProducts(ctx context.Context, query, country string) ([]domain.Product, error) {
	params := url.Values{}
	params.Add("search_terms", query)
	params.Add("countries", country)
	params.Add("page_size", fmt.Sprintf("%d", searchPageSize))
	params.Add("json", "1")

	reqURL := fmt.Sprintf("%s/api/v2/search?%s", c.baseURL, params.Encode())

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	items := decoded.Products
	if len(items) > maxSearchItems {
		items = items[:maxSearchItems]
	}

	products := make([]domain.Product, 0, len(items))
	for _, raw := range items {
		products = append(products, mapProduct(raw))
	}

	c.log.Debug("open food facts search",
		zap.String("query", query),
		zap.Int("results", len(products)))
	return products, nil
}

// getWithRetry executes a GET with rate limiting and bounded retries on
// transient failures. 404 responses return immediately.
func (c *Client) getWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "GreenCart/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", domain.ErrFoodFactsAPIFailure, err)
			c.log.Warn("open food facts request failed",
				zap.Int("attempt", attempt), zap.Error(err))
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrProductNotFound
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("%w: status %d", domain.ErrFoodFactsAPIFailure, resp.StatusCode)
			c.log.Warn("open food facts API error",
				zap.Int("attempt", attempt), zap.Int("status", resp.StatusCode))
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		return body, nil
	}
	return nil, lastErr
}
