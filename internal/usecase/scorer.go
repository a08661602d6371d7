package usecase

import (
	"math"
	"sort"
	"strings"

	"github.com/greencart/backend/internal/domain"
)

// Default normalization references for scoring
const (
	defaultPriceReference  = 5000.0 // currency units
	defaultCarbonReference = 5.0    // kg CO2 per unit
	defaultWaterReference  = 100.0  // liters per unit
)

// Scoring bonuses and caps
const (
	priceWeightInEconomic = 0.7
	valueWeightInEconomic = 0.3

	carbonWeight         = 0.4
	waterWeight          = 0.3
	recyclableBonus      = 15.0
	ecoLabelBonus        = 5.0
	ecoLabelCap          = 15.0
	fairTradeBonus       = 25.0
	localProductBonus    = 25.0
	socialLabelBonus     = 10.0
	socialLabelCap       = 20.0
	healthLabelBonus     = 5.0
	healthLabelCap       = 15.0
	manyAllergensPenalty = 10.0
)

// ecoLabels are label fragments counted toward the environmental score
var ecoLabels = []string{"organic", "eco", "sustainable", "recycled"}

// socialLabels are label fragments counted toward the social score
var socialLabels = []string{"fair trade", "local", "artisan", "cooperative", "ethical"}

// healthLabels are label fragments counted toward the health score
var healthLabels = []string{"organic", "whole grain", "low fat", "no sugar", "vegan", "vegetarian"}

// DimensionWeights are the relative weights of the four score dimensions.
// They must sum to 1.0.
type DimensionWeights struct {
	Economic      float64
	Environmental float64
	Social        float64
	Health        float64
}

// DefaultDimensionWeights returns the standard 30/30/20/20 profile
func DefaultDimensionWeights() DimensionWeights {
	return DimensionWeights{
		Economic:      0.30,
		Environmental: 0.30,
		Social:        0.20,
		Health:        0.20,
	}
}

// ScorerConfig holds configuration for the sustainability scorer
type ScorerConfig struct {
	Weights         DimensionWeights
	PriceReference  float64
	CarbonReference float64
	WaterReference  float64
}

// Scorer computes multi-dimensional sustainability scores for products.
// Score is a pure function of (product, configuration): calling it twice
// with the same inputs yields identical results.
type Scorer struct {
	weights         DimensionWeights
	priceReference  float64
	carbonReference float64
	waterReference  float64
}

// NewScorer creates a scorer with the given configuration, filling defaults
// for zero-valued fields.
func NewScorer(config ScorerConfig) *Scorer {
	weights := config.Weights
	if weights == (DimensionWeights{}) {
		weights = DefaultDimensionWeights()
	}

	priceRef := config.PriceReference
	if priceRef <= 0 {
		priceRef = defaultPriceReference
	}
	carbonRef := config.CarbonReference
	if carbonRef <= 0 {
		carbonRef = defaultCarbonReference
	}
	waterRef := config.WaterReference
	if waterRef <= 0 {
		waterRef = defaultWaterReference
	}

	return &Scorer{
		weights:         weights,
		priceReference:  priceRef,
		carbonReference: carbonRef,
		waterReference:  waterRef,
	}
}

// Score computes the full sustainability score for a product. Missing
// nutrition or sustainability data degrades to neutral contributions,
// never to an error.
func (s *Scorer) Score(product domain.Product) domain.SustainabilityScore {
	economic := s.economicScore(product)
	environmental := s.environmentalScore(product)
	social := s.socialScore(product)
	health := s.healthScore(product)

	overall := economic*s.weights.Economic +
		environmental*s.weights.Environmental +
		social*s.weights.Social +
		health*s.weights.Health

	score := domain.SustainabilityScore{
		EconomicScore:      round2(economic),
		EnvironmentalScore: round2(environmental),
		SocialScore:        round2(social),
		HealthScore:        round2(health),
		OverallScore:       round2(overall),
	}

	if product.Sustainability != nil {
		score.CarbonFootprintKg = product.Sustainability.CarbonFootprintKg
		score.WaterUsageLiters = product.Sustainability.WaterUsageLiters
		score.PackagingRecyclable = product.Sustainability.PackagingRecyclable
		score.FairTrade = product.Sustainability.FairTrade
		score.LocalProduct = product.Sustainability.LocalProduct
	}

	return score
}

// economicScore rewards cheap products and large pack sizes.
// Price score floors at 0 once price reaches twice the reference.
func (s *Scorer) economicScore(product domain.Product) float64 {
	priceScore := 100 * (1 - math.Min(product.Price/(s.priceReference*2), 1.0))

	valueScore := 50.0
	if product.Quantity > 1 {
		valueScore = math.Min(100, 50+product.Quantity*10)
	}

	return priceScore*priceWeightInEconomic + valueScore*valueWeightInEconomic
}

// environmentalScore starts neutral and shifts with carbon, water,
// packaging and eco labels.
func (s *Scorer) environmentalScore(product domain.Product) float64 {
	score := 50.0

	sus := product.Sustainability
	if sus == nil {
		return score
	}

	if sus.CarbonFootprintKg != nil {
		carbonScore := 100 * (1 - math.Min(*sus.CarbonFootprintKg/s.carbonReference, 1.0))
		score += (carbonScore - 50) * carbonWeight
	}

	if sus.WaterUsageLiters != nil {
		waterScore := 100 * (1 - math.Min(*sus.WaterUsageLiters/s.waterReference, 1.0))
		score += (waterScore - 50) * waterWeight
	}

	if sus.PackagingRecyclable {
		score += recyclableBonus
	}

	score += labelBonus(product.Labels, ecoLabels, ecoLabelBonus, ecoLabelCap)

	return clamp(score)
}

// socialScore starts neutral and rewards fair trade, local production and
// social certifications.
func (s *Scorer) socialScore(product domain.Product) float64 {
	score := 50.0

	sus := product.Sustainability
	if sus == nil {
		return score
	}

	if sus.FairTrade {
		score += fairTradeBonus
	}
	if sus.LocalProduct {
		score += localProductBonus
	}

	score += labelBonus(product.Labels, socialLabels, socialLabelBonus, socialLabelCap)

	return clamp(score)
}

// healthScore applies a simplified nutri-score: penalize fat and salt,
// reward protein and fiber. Products without nutrition data get a neutral 50.
func (s *Scorer) healthScore(product domain.Product) float64 {
	nutrition := product.Nutrition
	if nutrition == nil {
		return 50.0
	}

	score := 70.0

	if nutrition.Fats > 10 {
		score -= math.Min((nutrition.Fats-10)*2, 20)
	}
	if nutrition.Salt > 1 {
		score -= math.Min((nutrition.Salt-1)*15, 25)
	}
	if nutrition.Proteins > 5 {
		score += math.Min(nutrition.Proteins*2, 15)
	}
	if nutrition.Fiber > 3 {
		score += math.Min(nutrition.Fiber*3, 15)
	}

	score += labelBonus(product.Labels, healthLabels, healthLabelBonus, healthLabelCap)

	if len(product.Allergens) > 3 {
		score -= manyAllergensPenalty
	}

	return clamp(score)
}

// Compare scores two products and declares a winner by overall score
func (s *Scorer) Compare(a, b domain.Product) domain.Comparison {
	scoreA := s.Score(a)
	scoreB := s.Score(b)

	winner := b.Name
	if scoreA.OverallScore > scoreB.OverallScore {
		winner = a.Name
	}

	return domain.Comparison{
		ProductA:        a.Name,
		ProductB:        b.Name,
		ScoreA:          scoreA,
		ScoreB:          scoreB,
		Winner:          winner,
		ScoreDifference: round2(math.Abs(scoreA.OverallScore - scoreB.OverallScore)),
		Deltas: domain.DimensionDeltas{
			Economic:      round2(scoreA.EconomicScore - scoreB.EconomicScore),
			Environmental: round2(scoreA.EnvironmentalScore - scoreB.EnvironmentalScore),
			Social:        round2(scoreA.SocialScore - scoreB.SocialScore),
			Health:        round2(scoreA.HealthScore - scoreB.HealthScore),
		},
	}
}

// Rank sorts products descending by overall score. The sort is stable, so
// ties keep their input order.
func (s *Scorer) Rank(products []domain.Product) []domain.RankedProduct {
	ranked := make([]domain.RankedProduct, 0, len(products))
	for _, p := range products {
		ranked = append(ranked, domain.RankedProduct{Product: p, Score: s.Score(p)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.OverallScore > ranked[j].Score.OverallScore
	})

	return ranked
}

// labelBonus counts labels containing any of the given fragments,
// case-insensitively, awarding perMatch points up to limit.
func labelBonus(labels, fragments []string, perMatch, limit float64) float64 {
	matches := 0
	for _, label := range labels {
		lower := strings.ToLower(label)
		for _, fragment := range fragments {
			if strings.Contains(lower, fragment) {
				matches++
				break
			}
		}
	}
	return math.Min(float64(matches)*perMatch, limit)
}

func clamp(score float64) float64 {
	return math.Max(0, math.Min(100, score))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
