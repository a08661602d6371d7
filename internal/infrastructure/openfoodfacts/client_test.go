package openfoodfacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greencart/backend/internal/domain"
)

func TestNewClient(t *testing.T) {
	client := NewClient("https://world.openfoodfacts.org", zap.NewNop())

	assert.NotNil(t, client)
	assert.Equal(t, "https://world.openfoodfacts.org", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
}

func TestFetchByBarcode_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/product/7802900000011.json", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": 1,
			"product": {
				"code": "7802900000011",
				"product_name": "Leche Entera",
				"brands": "Colun, Otra Marca",
				"categories": "Dairies, Milks",
				"labels": "Organic, Local",
				"allergens_tags": ["en:milk"],
				"nutriments": {
					"energy-kcal_100g": 61,
					"proteins_100g": 3.1,
					"carbohydrates_100g": 4.7,
					"fat_100g": 3.2,
					"fiber_100g": 0,
					"salt_100g": 0.13
				}
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	product, err := client.FetchByBarcode(context.Background(), "7802900000011")

	require.NoError(t, err)
	assert.Equal(t, "7802900000011", product.Barcode)
	assert.Equal(t, "Leche Entera", product.Name)
	assert.Equal(t, "Colun", product.Brand)
	assert.Equal(t, "milks", product.Category)
	assert.Equal(t, []string{"Organic", "Local"}, product.Labels)
	assert.Equal(t, []string{"milk"}, product.Allergens)
	require.NotNil(t, product.Nutrition)
	assert.Equal(t, 3.1, product.Nutrition.Proteins)
	assert.NotEmpty(t, product.ID)
	assert.NotEqual(t, product.Barcode, product.ID)
}

func TestFetchByBarcode_UnknownBarcode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": 0}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.FetchByBarcode(context.Background(), "0000000000000")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestFetchByBarcode_NotFoundStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.FetchByBarcode(context.Background(), "123")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestFetchByBarcode_RetriesOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"status": 1, "product": {"code": "123", "product_name": "Test"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	product, err := client.FetchByBarcode(context.Background(), "123")

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, "Test", product.Name)
}

func TestFetchByBarcode_ExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.FetchByBarcode(context.Background(), "123")

	assert.ErrorIs(t, err, domain.ErrFoodFactsAPIFailure)
}

func TestSearchProducts_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/search", r.URL.Path)
		assert.Equal(t, "leche", r.URL.Query().Get("search_terms"))
		assert.Equal(t, "chile", r.URL.Query().Get("countries"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"products": [
				{"code": "1", "product_name": "Leche Uno"},
				{"code": "2", "product_name": "Leche Dos"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	products, err := client.SearchProducts(context.Background(), "leche", "chile")

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Leche Uno", products[0].Name)
	assert.Equal(t, "Leche Dos", products[1].Name)
}

func TestSearchProducts_CapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products": [
			{"code": "1"}, {"code": "2"}, {"code": "3"}, {"code": "4"},
			{"code": "5"}, {"code": "6"}, {"code": "7"}, {"code": "8"},
			{"code": "9"}, {"code": "10"}, {"code": "11"}, {"code": "12"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	products, err := client.SearchProducts(context.Background(), "anything", "chile")

	require.NoError(t, err)
	assert.Len(t, products, maxSearchItems)
}

func TestMapProduct(t *testing.T) {
	t.Run("empty name falls back to placeholder", func(t *testing.T) {
		product := mapProduct(rawProduct{Code: "42"})
		assert.Equal(t, "Unknown Product", product.Name)
		assert.Equal(t, "general", product.Category)
	})

	t.Run("keeps the most specific category", func(t *testing.T) {
		product := mapProduct(rawProduct{Categories: "Beverages, Juices, Orange juices"})
		assert.Equal(t, "orange juices", product.Category)
	})

	t.Run("generated ids are unique", func(t *testing.T) {
		a := mapProduct(rawProduct{Code: "1"})
		b := mapProduct(rawProduct{Code: "1"})
		assert.NotEqual(t, a.ID, b.ID)
	})
}
