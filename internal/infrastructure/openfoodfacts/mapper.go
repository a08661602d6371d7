package openfoodfacts

import (
	"strings"

	"github.com/google/uuid"

	"github.com/greencart/backend/internal/domain"
)

// rawProduct is the subset of an Open Food Facts product record we consume
type rawProduct struct {
	ID             string        `json:"id"`
	Code           string        `json:"code"`
	ProductName    string        `json:"product_name"`
	Brands         string        `json:"brands"`
	Categories     string        `json:"categories"`
	ImageURL       string        `json:"image_url"`
	IngredientsTxt string        `json:"ingredients_text"`
	Labels         string        `json:"labels"`
	AllergensTags  []string      `json:"allergens_tags"`
	Nutriments     rawNutriments `json:"nutriments"`
}

type rawNutriments struct {
	EnergyKcal    float64 `json:"energy-kcal_100g"`
	Proteins      float64 `json:"proteins_100g"`
	Carbohydrates float64 `json:"carbohydrates_100g"`
	Fat           float64 `json:"fat_100g"`
	Fiber         float64 `json:"fiber_100g"`
	Salt          float64 `json:"salt_100g"`
}

// mapProduct converts an Open Food Facts record into a domain product.
// External products get a generated UUID so they never collide with
// catalog identifiers.
func mapProduct(raw rawProduct) domain.Product {
	name := raw.ProductName
	if name == "" {
		name = "Unknown Product"
	}

	category := "general"
	if raw.Categories != "" {
		// The categories field is a comma-separated taxonomy path; keep
		// the most specific entry.
		parts := strings.Split(raw.Categories, ",")
		category = strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	}

	return domain.Product{
		ID:          "off_" + uuid.NewString(),
		Barcode:     raw.Code,
		Name:        name,
		Brand:       splitFirst(raw.Brands),
		Category:    category,
		Quantity:    1,
		Nutrition: &domain.NutritionInfo{
			EnergyKcal:    raw.Nutriments.EnergyKcal,
			Proteins:      raw.Nutriments.Proteins,
			Carbohydrates: raw.Nutriments.Carbohydrates,
			Fats:          raw.Nutriments.Fat,
			Fiber:         raw.Nutriments.Fiber,
			Salt:          raw.Nutriments.Salt,
		},
		Ingredients: splitList(raw.IngredientsTxt),
		Allergens:   cleanTags(raw.AllergensTags),
		Labels:      splitList(raw.Labels),
		ImageURL:    raw.ImageURL,
		InStock:     true,
	}
}

// splitFirst returns the first entry of a comma-separated value
func splitFirst(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(strings.Split(s, ",")[0])
}

// splitList turns a comma-separated string into trimmed entries
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// cleanTags strips the language prefix from taxonomy tags like "en:milk"
func cleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if idx := strings.Index(tag, ":"); idx >= 0 {
			tag = tag[idx+1:]
		}
		out = append(out, tag)
	}
	return out
}
