package domain

// NutritionInfo holds nutritional values per 100g of product
type NutritionInfo struct {
	EnergyKcal    float64 `json:"energy_kcal"`
	Proteins      float64 `json:"proteins"`      // grams
	Carbohydrates float64 `json:"carbohydrates"` // grams
	Fats          float64 `json:"fats"`          // grams
	Fiber         float64 `json:"fiber"`         // grams
	Salt          float64 `json:"salt"`          // grams
}

// SustainabilityAttributes holds the raw sustainability data declared on a product
type SustainabilityAttributes struct {
	CarbonFootprintKg   *float64 `json:"carbon_footprint_kg,omitempty"` // CO2 kg per unit
	WaterUsageLiters    *float64 `json:"water_usage_liters,omitempty"`  // liters per unit
	PackagingRecyclable bool     `json:"packaging_recyclable"`
	FairTrade           bool     `json:"fair_trade"`
	LocalProduct        bool     `json:"local_product"`
}

// Product represents a catalog entry. It is owned by the catalog
// collaborator and treated as read-only by the scoring and optimization code.
type Product struct {
	ID       string  `json:"id"`
	Barcode  string  `json:"barcode,omitempty"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand,omitempty"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Unit     string  `json:"unit,omitempty"` // unit, kg, liter, etc.
	Quantity float64 `json:"quantity"`
	Store    string  `json:"store,omitempty"`

	Nutrition      *NutritionInfo            `json:"nutrition,omitempty"`
	Sustainability *SustainabilityAttributes `json:"sustainability,omitempty"`

	Description string   `json:"description,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Allergens   []string `json:"allergens,omitempty"`
	Labels      []string `json:"labels,omitempty"` // organic, vegan, gluten-free, etc.

	InStock  bool   `json:"in_stock"`
	ImageURL string `json:"image_url,omitempty"`
}

// SustainabilityScore is the computed multi-dimensional rating of a product.
// All dimension scores and the overall score are in [0,100]. It is recomputed
// on every scoring call and carries no identity of its own.
type SustainabilityScore struct {
	EconomicScore      float64 `json:"economic_score"`
	EnvironmentalScore float64 `json:"environmental_score"`
	SocialScore        float64 `json:"social_score"`
	HealthScore        float64 `json:"health_score"`
	OverallScore       float64 `json:"overall_score"`

	// Raw attributes passed through from the source product
	CarbonFootprintKg   *float64 `json:"carbon_footprint_kg,omitempty"`
	WaterUsageLiters    *float64 `json:"water_usage_liters,omitempty"`
	PackagingRecyclable bool     `json:"packaging_recyclable"`
	FairTrade           bool     `json:"fair_trade"`
	LocalProduct        bool     `json:"local_product"`
}

// DimensionDeltas holds per-dimension score differences between two products
type DimensionDeltas struct {
	Economic      float64 `json:"economic"`
	Environmental float64 `json:"environmental"`
	Social        float64 `json:"social"`
	Health        float64 `json:"health"`
}

// Comparison is the result of scoring two products against each other
type Comparison struct {
	ProductA        string              `json:"product_a"`
	ProductB        string              `json:"product_b"`
	ScoreA          SustainabilityScore `json:"score_a"`
	ScoreB          SustainabilityScore `json:"score_b"`
	Winner          string              `json:"winner"`
	ScoreDifference float64             `json:"score_difference"`
	Deltas          DimensionDeltas     `json:"dimension_comparison"`
}

// RankedProduct pairs a product with its computed score for ranking output
type RankedProduct struct {
	Product Product             `json:"product"`
	Score   SustainabilityScore `json:"sustainability_score"`
}

// ProductAnalysis is a full analysis of a single product: its score,
// in-category alternatives and qualitative ratings.
type ProductAnalysis struct {
	Product             Product             `json:"product"`
	Sustainability      SustainabilityScore `json:"sustainability"`
	Alternatives        []Product           `json:"alternatives"`
	SavingsPotential    float64             `json:"savings_potential"`
	EnvironmentalImpact string              `json:"environmental_impact"` // low, medium, high
	Recommendation      string              `json:"recommendation"`
	HealthRating        string              `json:"health_rating"` // excellent, good, average, poor
}

// ProductRef is a lightweight product reference used in comparison summaries
type ProductRef struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Price *float64 `json:"price,omitempty"`
}

// MultiComparison is the result of comparing two or more products,
// naming the winner of each dimension.
type MultiComparison struct {
	Products           []ProductAnalysis `json:"products"`
	BestPrice          ProductRef        `json:"best_price"`
	BestSustainability ProductRef        `json:"best_sustainability"`
	BestHealth         ProductRef        `json:"best_health"`
}

// ValueRankedProduct pairs a product with its value-for-money score
type ValueRankedProduct struct {
	Product    Product             `json:"product"`
	Score      SustainabilityScore `json:"sustainability_score"`
	ValueScore float64             `json:"value_score"`
	Rank       int                 `json:"rank"`
}

// CarbonEstimate is a category-based carbon footprint estimate
type CarbonEstimate struct {
	CarbonFootprintKg float64 `json:"carbon_footprint_kg"`
	Category          string  `json:"category"`
	WeightKg          float64 `json:"weight_kg"`
	FactorUsed        float64 `json:"factor_used"`
	Comparison        string  `json:"comparison"`
}
