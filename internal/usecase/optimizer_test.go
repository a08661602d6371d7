package usecase

import (
	"math/rand"
	"testing"

	"github.com/greencart/backend/internal/domain"
)

func testCatalog() map[string][]domain.Product {
	return map[string][]domain.Product{
		"dairy": {
			{ID: "milk-basic", Name: "Basic Milk", Category: "dairy", Price: 990, Quantity: 1, Store: "MegaMart"},
			{
				ID: "milk-organic", Name: "Organic Milk", Category: "dairy", Price: 1500, Quantity: 1,
				Store:  "GreenShop",
				Labels: []string{"organic", "local"},
				Sustainability: &domain.SustainabilityAttributes{
					CarbonFootprintKg:   floatPtr(0.9),
					PackagingRecyclable: true,
					LocalProduct:        true,
				},
			},
			{ID: "milk-premium", Name: "Premium Milk", Category: "dairy", Price: 2500, Quantity: 1, Store: "GreenShop"},
		},
		"bread": {
			{ID: "bread-white", Name: "White Bread", Category: "bread", Price: 1200, Quantity: 1, Store: "MegaMart"},
			{
				ID: "bread-whole", Name: "Whole Grain Bread", Category: "bread", Price: 1800, Quantity: 1,
				Store:     "GreenShop",
				Labels:    []string{"whole grain"},
				Nutrition: &domain.NutritionInfo{Proteins: 9, Fiber: 7, Fats: 3, Salt: 0.9},
			},
		},
		"cereals": {
			{ID: "rice", Name: "Rice", Category: "cereals", Price: 1400, Quantity: 1, Store: "MegaMart"},
		},
	}
}

func seededOptimizer(seed int64) *Optimizer {
	return NewOptimizer(nil, OptimizerConfig{
		PopulationSize: 30,
		Generations:    40,
		Rand:           rand.New(rand.NewSource(seed)),
	})
}

func TestNewOptimizer(t *testing.T) {
	t.Run("fills defaults for zero configuration", func(t *testing.T) {
		o := NewOptimizer(nil, OptimizerConfig{})
		if o.populationSize != defaultPopulationSize {
			t.Errorf("populationSize = %d, want %d", o.populationSize, defaultPopulationSize)
		}
		if o.generations != defaultGenerations {
			t.Errorf("generations = %d, want %d", o.generations, defaultGenerations)
		}
		if o.mutationRate != defaultMutationRate {
			t.Errorf("mutationRate = %v, want %v", o.mutationRate, defaultMutationRate)
		}
		if o.scorer == nil {
			t.Error("scorer is nil, want default scorer")
		}
		if o.rng == nil {
			t.Error("rng is nil, want seeded source")
		}
	})
}

func TestOptimizeRespectsBudget(t *testing.T) {
	o := seededOptimizer(1)
	budget := 4000.0
	list := domain.ShoppingList{
		Items: []domain.ShoppingListItem{
			{ProductName: "Milk", Category: "dairy", Quantity: 1, Priority: 1},
			{ProductName: "Bread", Category: "bread", Quantity: 1, Priority: 1},
		},
		Budget:      &budget,
		OptimizeFor: domain.ObjectiveBalanced,
	}

	result := o.Optimize(list, testCatalog())

	if len(result.Selections) != 2 {
		t.Fatalf("selections = %d, want 2", len(result.Selections))
	}
	if result.TotalCost > budget {
		t.Errorf("total cost = %v exceeds budget %v", result.TotalCost, budget)
	}
	if !result.ConstraintsMet {
		t.Error("ConstraintsMet = false, want true (feasible budget)")
	}
	if result.BudgetUsedPercentage <= 0 || result.BudgetUsedPercentage > 100 {
		t.Errorf("budget used = %v%%, want within (0,100]", result.BudgetUsedPercentage)
	}
}

func TestOptimizeInfeasibleBudget(t *testing.T) {
	o := seededOptimizer(2)
	budget := 500.0 // below every single product price
	list := domain.ShoppingList{
		Items: []domain.ShoppingListItem{
			{ProductName: "Milk", Category: "dairy", Quantity: 1},
			{ProductName: "Bread", Category: "bread", Quantity: 1},
		},
		Budget:      &budget,
		OptimizeFor: domain.ObjectivePrice,
	}

	result := o.Optimize(list, testCatalog())

	if result.ConstraintsMet {
		t.Error("ConstraintsMet = true, want false when no combination fits the budget")
	}
	if len(result.Selections) != 2 {
		t.Errorf("selections = %d, want 2 (best effort, not an error)", len(result.Selections))
	}
}

func TestOptimizeSingleCandidatePerItem(t *testing.T) {
	o := seededOptimizer(3)
	list := domain.ShoppingList{
		Items: []domain.ShoppingListItem{
			{ProductName: "Rice", Category: "cereals", Quantity: 2},
		},
		OptimizeFor: domain.ObjectiveBalanced,
	}

	result := o.Optimize(list, testCatalog())

	if len(result.Selections) != 1 {
		t.Fatalf("selections = %d, want 1", len(result.Selections))
	}
	if result.Selections[0].SelectedProduct.ID != "rice" {
		t.Errorf("selected = %s, want rice", result.Selections[0].SelectedProduct.ID)
	}
	if result.TotalCost != 2800 {
		t.Errorf("total cost = %v, want 2800 (1400 x 2)", result.TotalCost)
	}
	if len(result.Selections[0].Alternatives) != 0 {
		t.Errorf("alternatives = %d, want 0", len(result.Selections[0].Alternatives))
	}
}

func TestOptimizeAlternativesExcludeSelection(t *testing.T) {
	o := seededOptimizer(4)
	list := domain.ShoppingList{
		Items:       []domain.ShoppingListItem{{ProductName: "Milk", Category: "dairy", Quantity: 1}},
		OptimizeFor: domain.ObjectiveBalanced,
	}

	result := o.Optimize(list, testCatalog())

	if len(result.Selections) != 1 {
		t.Fatalf("selections = %d, want 1", len(result.Selections))
	}
	selection := result.Selections[0]
	if len(selection.Alternatives) == 0 {
		t.Fatal("alternatives empty, want in-category alternatives")
	}
	for _, alt := range selection.Alternatives {
		if alt.ID == selection.SelectedProduct.ID {
			t.Errorf("alternative %s duplicates the selection", alt.ID)
		}
	}
}

func TestOptimizeEmptyList(t *testing.T) {
	o := seededOptimizer(5)
	result := o.Optimize(domain.ShoppingList{}, testCatalog())

	if len(result.Selections) != 0 {
		t.Errorf("selections = %d, want 0", len(result.Selections))
	}
	if result.TotalCost != 0 {
		t.Errorf("total cost = %v, want 0", result.TotalCost)
	}
	if !result.ConstraintsMet {
		t.Error("ConstraintsMet = false, want true for empty list")
	}
}

func TestOptimizeUnknownCategory(t *testing.T) {
	o := seededOptimizer(6)
	list := domain.ShoppingList{
		Items: []domain.ShoppingListItem{
			{ProductName: "Caviar", Category: "luxury", Quantity: 1},
			{ProductName: "Milk", Category: "dairy", Quantity: 1},
		},
		OptimizeFor: domain.ObjectiveBalanced,
	}

	result := o.Optimize(list, testCatalog())

	if len(result.ItemsNotFound) != 1 || result.ItemsNotFound[0] != "Caviar" {
		t.Errorf("ItemsNotFound = %v, want [Caviar]", result.ItemsNotFound)
	}
	if len(result.Warnings) == 0 {
		t.Error("warnings empty, want a warning for the missing item")
	}
	if len(result.Selections) != 1 {
		t.Errorf("selections = %d, want 1 (the findable item)", len(result.Selections))
	}
}

func TestOptimizeMaxPriceFilter(t *testing.T) {
	o := seededOptimizer(7)
	maxPrice := 1000.0
	list := domain.ShoppingList{
		Items: []domain.ShoppingListItem{
			{ProductName: "Milk", Category: "dairy", Quantity: 1, MaxPrice: &maxPrice},
		},
		OptimizeFor: domain.ObjectiveBalanced,
	}

	result := o.Optimize(list, testCatalog())

	if len(result.Selections) != 1 {
		t.Fatalf("selections = %d, want 1", len(result.Selections))
	}
	if got := result.Selections[0].SelectedProduct.Price; got > maxPrice {
		t.Errorf("selected price = %v, want <= %v", got, maxPrice)
	}
}

func TestOptimizeDeterministicWithSeed(t *testing.T) {
	list := domain.ShoppingList{
		Items: []domain.ShoppingListItem{
			{ProductName: "Milk", Category: "dairy", Quantity: 1},
			{ProductName: "Bread", Category: "bread", Quantity: 1},
		},
		OptimizeFor: domain.ObjectiveBalanced,
	}

	first := seededOptimizer(42).Optimize(list, testCatalog())
	second := seededOptimizer(42).Optimize(list, testCatalog())

	if first.TotalCost != second.TotalCost {
		t.Errorf("total cost differs across runs: %v vs %v", first.TotalCost, second.TotalCost)
	}
	for i := range first.Selections {
		if first.Selections[i].SelectedProduct.ID != second.Selections[i].SelectedProduct.ID {
			t.Errorf("selection %d differs: %s vs %s", i,
				first.Selections[i].SelectedProduct.ID, second.Selections[i].SelectedProduct.ID)
		}
	}
}

func TestOptimizePriceObjectivePicksCheapest(t *testing.T) {
	o := seededOptimizer(8)
	list := domain.ShoppingList{
		Items:       []domain.ShoppingListItem{{ProductName: "Milk", Category: "dairy", Quantity: 1}},
		OptimizeFor: domain.ObjectivePrice,
	}

	result := o.Optimize(list, testCatalog())

	if len(result.Selections) != 1 {
		t.Fatalf("selections = %d, want 1", len(result.Selections))
	}
	// milk-premium (2500) should never win a price-focused run against 990
	if result.Selections[0].SelectedProduct.ID == "milk-premium" {
		t.Errorf("selected premium milk under price objective")
	}
}

func TestOptimizePreferenceFilter(t *testing.T) {
	o := seededOptimizer(9)
	list := domain.ShoppingList{
		Items: []domain.ShoppingListItem{
			{ProductName: "Milk", Category: "dairy", Quantity: 1, Preferences: []string{"organic", "local"}},
		},
		OptimizeFor: domain.ObjectiveBalanced,
	}

	result := o.Optimize(list, testCatalog())

	if len(result.Selections) != 1 {
		t.Fatalf("selections = %d, want 1", len(result.Selections))
	}
	if result.Selections[0].SelectedProduct.ID != "milk-organic" {
		t.Errorf("selected = %s, want milk-organic (only preference match)",
			result.Selections[0].SelectedProduct.ID)
	}
}

func TestOptimizeSubstitutionCount(t *testing.T) {
	o := seededOptimizer(10)
	list := domain.ShoppingList{
		Items: []domain.ShoppingListItem{
			{ProductID: "rice", ProductName: "Rice", Category: "cereals", Quantity: 1},
		},
		OptimizeFor: domain.ObjectiveBalanced,
	}

	result := o.Optimize(list, testCatalog())

	// rice is the only candidate, so the hint is honored
	if result.ItemsSubstituted != 0 {
		t.Errorf("ItemsSubstituted = %d, want 0", result.ItemsSubstituted)
	}
}

func TestOptimizeAggregates(t *testing.T) {
	o := seededOptimizer(11)
	list := domain.ShoppingList{
		Items: []domain.ShoppingListItem{
			{ProductName: "Milk", Category: "dairy", Quantity: 1, Preferences: []string{"organic"}},
		},
		OptimizeFor: domain.ObjectiveSustainability,
	}

	result := o.Optimize(list, testCatalog())

	if len(result.Selections) != 1 {
		t.Fatalf("selections = %d, want 1", len(result.Selections))
	}
	// milk-organic carries carbon data and recyclable packaging
	if result.TotalCarbonFootprint != 0.9 {
		t.Errorf("total carbon = %v, want 0.9", result.TotalCarbonFootprint)
	}
	if result.RecyclablePercentage != 100 {
		t.Errorf("recyclable %% = %v, want 100", result.RecyclablePercentage)
	}
	if len(result.RecommendedStores) == 0 || result.RecommendedStores[0] != "GreenShop" {
		t.Errorf("recommended stores = %v, want [GreenShop]", result.RecommendedStores)
	}
	if result.EstimatedShoppingTime != 17 {
		t.Errorf("estimated time = %d, want 17 (1 store x 15 + 1 item x 2)", result.EstimatedShoppingTime)
	}
	if result.OptimizationScore != result.OverallSustainability.OverallScore {
		t.Errorf("optimization score = %v, want overall %v",
			result.OptimizationScore, result.OverallSustainability.OverallScore)
	}
}

func TestWeightsFor(t *testing.T) {
	t.Run("price objective weighs cost heaviest", func(t *testing.T) {
		w := weightsFor(domain.ObjectivePrice)
		if w.cost != 0.60 {
			t.Errorf("cost weight = %v, want 0.60", w.cost)
		}
	})

	t.Run("unknown objective falls back to balanced", func(t *testing.T) {
		if weightsFor(domain.Objective("turbo")) != weightsFor(domain.ObjectiveBalanced) {
			t.Error("unknown objective should use the balanced profile")
		}
	})
}
