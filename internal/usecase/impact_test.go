package usecase

import (
	"testing"

	"github.com/greencart/backend/internal/domain"
)

func TestEstimateCarbonFootprint(t *testing.T) {
	t.Run("declared footprint wins over estimates", func(t *testing.T) {
		p := domain.Product{
			Category: "meat", Quantity: 1,
			Sustainability: &domain.SustainabilityAttributes{CarbonFootprintKg: floatPtr(2.5)},
		}
		if got := EstimateCarbonFootprint(p); got != 2.5 {
			t.Errorf("footprint = %v, want declared 2.5", got)
		}
	})

	t.Run("category factor scales with quantity", func(t *testing.T) {
		p := domain.Product{Category: "fruit", Quantity: 2}
		if got := EstimateCarbonFootprint(p); got != 0.6 {
			t.Errorf("footprint = %v, want 0.6 (0.3 x 2)", got)
		}
	})

	t.Run("unknown category uses the default factor", func(t *testing.T) {
		p := domain.Product{Category: "exotic", Quantity: 1}
		if got := EstimateCarbonFootprint(p); got != defaultCarbonFactor {
			t.Errorf("footprint = %v, want %v", got, defaultCarbonFactor)
		}
	})

	t.Run("zero quantity counts as one unit", func(t *testing.T) {
		p := domain.Product{Category: "bread"}
		if got := EstimateCarbonFootprint(p); got != 0.5 {
			t.Errorf("footprint = %v, want 0.5", got)
		}
	})
}

func TestEstimateWaterUsage(t *testing.T) {
	t.Run("meat dwarfs vegetables", func(t *testing.T) {
		meat := domain.Product{Category: "meat", Quantity: 1}
		vegetable := domain.Product{Category: "vegetable", Quantity: 1}
		if EstimateWaterUsage(meat) <= EstimateWaterUsage(vegetable) {
			t.Error("meat water usage should exceed vegetable water usage")
		}
	})

	t.Run("declared usage wins", func(t *testing.T) {
		p := domain.Product{
			Category: "meat", Quantity: 1,
			Sustainability: &domain.SustainabilityAttributes{WaterUsageLiters: floatPtr(120)},
		}
		if got := EstimateWaterUsage(p); got != 120 {
			t.Errorf("water = %v, want declared 120", got)
		}
	})
}

func TestEstimateCategoryFootprint(t *testing.T) {
	estimate := EstimateCategoryFootprint("meat", 2)
	if estimate.CarbonFootprintKg != 54 {
		t.Errorf("footprint = %v, want 54 (27 x 2)", estimate.CarbonFootprintKg)
	}
	if estimate.FactorUsed != 27 {
		t.Errorf("factor = %v, want 27", estimate.FactorUsed)
	}
	if estimate.Comparison == "" {
		t.Error("comparison text empty")
	}
}

func TestCarbonComparison(t *testing.T) {
	cases := []struct {
		carbon float64
		want   string
	}{
		{0.2, "very low impact, equivalent to charging a smartphone 60 times"},
		{1.0, "low impact, equivalent to 10 km by car"},
		{3.0, "moderate impact, equivalent to 25 km by car"},
		{7.0, "high impact, equivalent to 50 km by car"},
		{15.0, "very high impact, consider more sustainable alternatives"},
	}
	for _, tc := range cases {
		if got := CarbonComparison(tc.carbon); got != tc.want {
			t.Errorf("CarbonComparison(%v) = %q, want %q", tc.carbon, got, tc.want)
		}
	}
}
