package domain

// Focus selects what a substitution search should favor
type Focus string

const (
	FocusBalanced       Focus = "balanced"
	FocusPrice          Focus = "price_focused"
	FocusSustainability Focus = "sustainability_focused"
	FocusHealth         Focus = "health_focused"
)

// SubstitutionType classifies the relationship between original and substitute
type SubstitutionType string

const (
	SubstitutionSameProductDifferentBrand SubstitutionType = "same_product_different_brand"
	SubstitutionSimilarCategory           SubstitutionType = "similar_category"
	SubstitutionHealthierAlternative      SubstitutionType = "healthier_alternative"
)

// Confidence is a qualitative indicator of how trustworthy a suggestion is
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// SubstitutionSuggestion is the result of comparing an original product to
// one candidate replacement.
type SubstitutionSuggestion struct {
	OriginalProduct  Product `json:"original_product"`
	SuggestedProduct Product `json:"suggested_product"`

	SubstitutionScore float64 `json:"substitution_score"` // 0-100

	PriceDifference           float64 `json:"price_difference"`
	PriceDifferencePercentage float64 `json:"price_difference_percentage"`
	SustainabilityImprovement float64 `json:"sustainability_improvement"`
	HealthImprovement         float64 `json:"health_improvement"`

	Reasons   []string `json:"reasons"`
	TradeOffs []string `json:"trade_offs"`

	Type       SubstitutionType `json:"substitution_type"`
	Confidence Confidence       `json:"confidence"`
}

// SavingsOpportunity pairs an expensive product with a cheaper substitute
type SavingsOpportunity struct {
	ExpensiveProduct          Product `json:"expensive_product"`
	BetterAlternative         Product `json:"better_alternative"`
	Savings                   float64 `json:"savings"`
	SavingsPercentage         float64 `json:"savings_percentage"`
	SustainabilityImprovement float64 `json:"sustainability_improvement"`
}
