package domain

import "time"

// Objective selects what a shopping list optimization should favor
type Objective string

const (
	ObjectiveBalanced       Objective = "balanced"
	ObjectivePrice          Objective = "price"
	ObjectiveSustainability Objective = "sustainability"
	ObjectiveHealth         Objective = "health"
)

// ShoppingListItem is one desired purchase in a shopping list
type ShoppingListItem struct {
	ProductID   string   `json:"product_id,omitempty"` // hint: previously chosen product
	ProductName string   `json:"product_name" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit,omitempty"`
	Priority    int      `json:"priority"` // 1=essential .. 5=optional
	MaxPrice    *float64 `json:"max_price,omitempty"`
	Preferences []string `json:"preferences,omitempty"` // organic, local, etc.
}

// ShoppingList is the optimization input: desired items plus constraints
type ShoppingList struct {
	Items       []ShoppingListItem `json:"items" binding:"required"`
	Budget      *float64           `json:"budget,omitempty"` // nil = unconstrained
	OptimizeFor Objective          `json:"optimize_for"`
}

// OptimizedSelection is the chosen product for one shopping list item
type OptimizedSelection struct {
	Item                 ShoppingListItem `json:"original_item"`
	SelectedProduct      Product          `json:"selected_product"`
	Alternatives         []Product        `json:"alternatives"`
	Reason               string           `json:"reason"`
	Savings              float64          `json:"savings"`
	SustainabilityImpact string           `json:"sustainability_impact"` // low, medium, high
}

// OptimizedShoppingList is the aggregate optimization result
type OptimizedShoppingList struct {
	Selections []OptimizedSelection `json:"optimized_items"`

	TotalCost             float64             `json:"total_cost"`
	EstimatedSavings      float64             `json:"estimated_savings"`
	BudgetUsedPercentage  float64             `json:"budget_used_percentage"`
	OverallSustainability SustainabilityScore `json:"overall_sustainability"`

	TotalCarbonFootprint float64 `json:"total_carbon_footprint"`
	TotalWaterUsage      float64 `json:"total_water_usage"`
	RecyclablePercentage float64 `json:"recyclable_percentage"`

	Algorithm         string  `json:"optimization_algorithm"`
	ConstraintsMet    bool    `json:"constraints_met"`
	ItemsSubstituted  int     `json:"items_substituted"`
	OptimizationScore float64 `json:"optimization_score"`

	RecommendedStores     []string `json:"recommended_stores"`
	EstimatedShoppingTime int      `json:"estimated_shopping_time,omitempty"` // minutes

	Warnings      []string `json:"warnings"`
	ItemsNotFound []string `json:"items_not_found"`

	CreatedAt time.Time `json:"created_at"`
}

// ListEstimate is a quick cost/sustainability estimate of an unoptimized list
type ListEstimate struct {
	TotalCost                  float64         `json:"total_cost"`
	TotalItems                 int             `json:"total_items"`
	AverageSustainabilityScore float64         `json:"average_sustainability_score"`
	Breakdown                  DimensionDeltas `json:"breakdown"`
}
