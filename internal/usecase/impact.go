package usecase

import (
	"strings"

	"github.com/greencart/backend/internal/domain"
)

// carbonFactors are estimated kg CO2 per kg of product by category,
// used when a product declares no carbon footprint of its own.
var carbonFactors = map[string]float64{
	"meat":      27.0,
	"poultry":   6.9,
	"fish":      5.1,
	"dairy":     1.4,
	"eggs":      1.8,
	"fruit":     0.3,
	"vegetable": 0.2,
	"cereals":   2.5,
	"legumes":   0.9,
	"bread":     0.5,
	"oils":      2.0,
	"beverages": 0.7,
}

const defaultCarbonFactor = 1.5

// waterFactors are estimated liters of water per kg of product by category
var waterFactors = map[string]float64{
	"meat":      15400,
	"poultry":   4300,
	"dairy":     1000,
	"eggs":      3300,
	"fruit":     960,
	"vegetable": 322,
	"cereals":   1644,
	"legumes":   4055,
	"bread":     1608,
}

const defaultWaterFactor = 1500

// EstimateCarbonFootprint returns a product's declared carbon footprint, or
// a per-category estimate scaled by quantity when none is declared.
func EstimateCarbonFootprint(product domain.Product) float64 {
	if product.Sustainability != nil && product.Sustainability.CarbonFootprintKg != nil {
		return *product.Sustainability.CarbonFootprintKg
	}

	factor, ok := carbonFactors[strings.ToLower(product.Category)]
	if !ok {
		factor = defaultCarbonFactor
	}

	quantity := product.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	return round2(factor * quantity)
}

// EstimateWaterUsage returns a product's declared water usage, or a
// per-category estimate scaled by quantity when none is declared.
func EstimateWaterUsage(product domain.Product) float64 {
	if product.Sustainability != nil && product.Sustainability.WaterUsageLiters != nil {
		return *product.Sustainability.WaterUsageLiters
	}

	factor, ok := waterFactors[strings.ToLower(product.Category)]
	if !ok {
		factor = defaultWaterFactor
	}

	quantity := product.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	return round2(factor * quantity)
}

// EstimateCategoryFootprint estimates the footprint of a given weight of an
// arbitrary category, for the standalone carbon-footprint endpoint.
func EstimateCategoryFootprint(category string, weightKg float64) domain.CarbonEstimate {
	if weightKg <= 0 {
		weightKg = 1
	}

	factor, ok := carbonFactors[strings.ToLower(category)]
	if !ok {
		factor = defaultCarbonFactor
	}
	carbonKg := factor * weightKg

	return domain.CarbonEstimate{
		CarbonFootprintKg: round2(carbonKg),
		Category:          category,
		WeightKg:          weightKg,
		FactorUsed:        factor,
		Comparison:        CarbonComparison(carbonKg),
	}
}

// CarbonComparison renders a carbon footprint as an everyday equivalence
func CarbonComparison(carbonKg float64) string {
	switch {
	case carbonKg < 0.5:
		return "very low impact, equivalent to charging a smartphone 60 times"
	case carbonKg < 2:
		return "low impact, equivalent to 10 km by car"
	case carbonKg < 5:
		return "moderate impact, equivalent to 25 km by car"
	case carbonKg < 10:
		return "high impact, equivalent to 50 km by car"
	default:
		return "very high impact, consider more sustainable alternatives"
	}
}
