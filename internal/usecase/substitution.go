package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/greencart/backend/internal/domain"
)

// Substitution defaults
const (
	defaultSimilarityThreshold = 0.3
	defaultMaxSuggestions      = 5
)

// Similarity component weights. Brand, labels and nutrition are only
// evaluated when both products carry the data; the final similarity is
// normalized by the weights actually evaluated.
const (
	categoryWeight        = 0.4
	categoryPartialCredit = 0.2
	brandWeight           = 0.1
	labelWeight           = 0.2
	nutritionWeight       = 0.15
	priceBandWeight       = 0.15
	priceBandRatio        = 0.7
)

// categoryGroups are synonym groups that earn partial category credit
var categoryGroups = [][]string{
	{"dairy", "milk", "yogurt", "cheese"},
	{"fruit", "fruits", "fresh_fruit"},
	{"vegetable", "vegetables", "fresh_vegetables"},
	{"meat", "poultry", "beef", "chicken"},
	{"bread", "bakery", "cereals"},
	{"beverages", "drinks", "juice", "soda"},
}

// focusWeights are the substitution score component weights of one focus
type focusWeights struct {
	price          float64
	sustainability float64
	health         float64
	similarity     float64
}

// weightsForFocus maps a focus to its profile, with balanced as fallback
func weightsForFocus(focus domain.Focus) focusWeights {
	switch focus {
	case domain.FocusPrice:
		return focusWeights{price: 0.5, sustainability: 0.2, health: 0.2, similarity: 0.1}
	case domain.FocusSustainability:
		return focusWeights{price: 0.15, sustainability: 0.5, health: 0.2, similarity: 0.15}
	case domain.FocusHealth:
		return focusWeights{price: 0.15, sustainability: 0.2, health: 0.5, similarity: 0.15}
	default:
		return focusWeights{price: 0.25, sustainability: 0.25, health: 0.25, similarity: 0.25}
	}
}

// SubstitutionConfig holds configuration for the substitution engine
type SubstitutionConfig struct {
	SimilarityThreshold float64
}

// SubstitutionEngine ranks candidate replacements for a product by a
// blended improvement/similarity score and explains each suggestion.
type SubstitutionEngine struct {
	scorer              *Scorer
	similarityThreshold float64
}

// NewSubstitutionEngine creates an engine using the given scorer
func NewSubstitutionEngine(scorer *Scorer, config SubstitutionConfig) *SubstitutionEngine {
	if scorer == nil {
		scorer = NewScorer(ScorerConfig{})
	}

	threshold := config.SimilarityThreshold
	if threshold <= 0 {
		threshold = defaultSimilarityThreshold
	}

	return &SubstitutionEngine{
		scorer:              scorer,
		similarityThreshold: threshold,
	}
}

// FindSubstitutions ranks candidates as replacements for the original
// product. Candidates below the similarity threshold and the original
// itself are discarded; results are sorted descending by substitution
// score and truncated at maxSuggestions.
func (e *SubstitutionEngine) FindSubstitutions(
	original domain.Product,
	candidates []domain.Product,
	focus domain.Focus,
	maxSuggestions int,
) []domain.SubstitutionSuggestion {
	if maxSuggestions <= 0 {
		maxSuggestions = defaultMaxSuggestions
	}
	weights := weightsForFocus(focus)
	originalScore := e.scorer.Score(original)

	var suggestions []domain.SubstitutionSuggestion
	for _, candidate := range candidates {
		if candidate.ID == original.ID {
			continue
		}

		similarity := e.similarity(original, candidate)
		if similarity < e.similarityThreshold {
			continue
		}

		candidateScore := e.scorer.Score(candidate)

		priceDiff := original.Price - candidate.Price
		priceDiffPct := priceDiff / original.Price * 100
		sustainabilityImprovement := candidateScore.OverallScore - originalScore.OverallScore
		healthImprovement := candidateScore.HealthScore - originalScore.HealthScore

		score := substitutionScore(priceDiffPct, sustainabilityImprovement, healthImprovement, similarity, weights)
		reasons, tradeOffs := explainSubstitution(original, candidate, originalScore, candidateScore, priceDiff, priceDiffPct)

		suggestions = append(suggestions, domain.SubstitutionSuggestion{
			OriginalProduct:           original,
			SuggestedProduct:          candidate,
			SubstitutionScore:         round2(score),
			PriceDifference:           round2(priceDiff),
			PriceDifferencePercentage: round2(priceDiffPct),
			SustainabilityImprovement: round2(sustainabilityImprovement),
			HealthImprovement:         round2(healthImprovement),
			Reasons:                   reasons,
			TradeOffs:                 tradeOffs,
			Type:                      substitutionType(original, candidate, similarity),
			Confidence:                confidenceLevel(similarity, score),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].SubstitutionScore > suggestions[j].SubstitutionScore
	})

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// BestSubstitute returns the single best replacement, or nil when no
// candidate qualifies.
func (e *SubstitutionEngine) BestSubstitute(original domain.Product, candidates []domain.Product, focus domain.Focus) *domain.SubstitutionSuggestion {
	suggestions := e.FindSubstitutions(original, candidates, focus, 1)
	if len(suggestions) == 0 {
		return nil
	}
	return &suggestions[0]
}

// BatchSubstitute finds substitutions for each product against its own
// category within the catalog. Products with no qualifying suggestions are
// omitted from the result map.
func (e *SubstitutionEngine) BatchSubstitute(products, catalog []domain.Product, focus domain.Focus) map[string][]domain.SubstitutionSuggestion {
	results := make(map[string][]domain.SubstitutionSuggestion)

	for _, product := range products {
		var candidates []domain.Product
		for _, candidate := range catalog {
			if candidate.Category == product.Category && candidate.ID != product.ID {
				candidates = append(candidates, candidate)
			}
		}

		suggestions := e.FindSubstitutions(product, candidates, focus, defaultMaxSuggestions)
		if len(suggestions) > 0 {
			results[product.ID] = suggestions
		}
	}

	return results
}

// similarity computes a 0-1 comparability measure from category, brand,
// labels, nutrition and price band, normalized by the weights evaluated.
func (e *SubstitutionEngine) similarity(a, b domain.Product) float64 {
	score := 0.0
	components := 0.0

	if a.Category == b.Category {
		score += categoryWeight
	} else if sameCategoryGroup(a.Category, b.Category) {
		score += categoryPartialCredit
	}
	components += categoryWeight

	if a.Brand != "" && b.Brand != "" {
		if a.Brand == b.Brand {
			score += brandWeight
		}
		components += brandWeight
	}

	if len(a.Labels) > 0 && len(b.Labels) > 0 {
		score += labelJaccard(a.Labels, b.Labels) * labelWeight
		components += labelWeight
	}

	if a.Nutrition != nil && b.Nutrition != nil {
		score += nutritionSimilarity(a.Nutrition, b.Nutrition) * nutritionWeight
		components += nutritionWeight
	}

	if math.Min(a.Price, b.Price)/math.Max(a.Price, b.Price) >= priceBandRatio {
		score += priceBandWeight
	}
	components += priceBandWeight

	if components == 0 {
		return 0
	}
	return score / components
}

// sameCategoryGroup reports whether both categories belong to one synonym group
func sameCategoryGroup(a, b string) bool {
	aLower := strings.ToLower(a)
	bLower := strings.ToLower(b)

	for _, group := range categoryGroups {
		foundA, foundB := false, false
		for _, category := range group {
			if category == aLower {
				foundA = true
			}
			if category == bLower {
				foundB = true
			}
		}
		if foundA && foundB {
			return true
		}
	}
	return false
}

// labelJaccard is the intersection-over-union of two lowercased label sets
func labelJaccard(a, b []string) float64 {
	setA := make(map[string]bool, len(a))
	for _, label := range a {
		setA[strings.ToLower(label)] = true
	}
	setB := make(map[string]bool, len(b))
	for _, label := range b {
		setB[strings.ToLower(label)] = true
	}

	intersection := 0
	for label := range setA {
		if setB[label] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// nutritionSimilarity is the mean of per-metric 1-|a-b|/max(a,b) over the
// main macronutrients, skipping metrics where both values are zero.
func nutritionSimilarity(a, b *domain.NutritionInfo) float64 {
	metrics := [][2]float64{
		{a.EnergyKcal, b.EnergyKcal},
		{a.Proteins, b.Proteins},
		{a.Carbohydrates, b.Carbohydrates},
		{a.Fats, b.Fats},
		{a.Fiber, b.Fiber},
	}

	total := 0.0
	count := 0
	for _, metric := range metrics {
		maxVal := math.Max(metric[0], metric[1])
		if maxVal == 0 {
			continue
		}
		total += 1 - math.Abs(metric[0]-metric[1])/maxVal
		count++
	}

	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// substitutionScore blends the four normalized sub-scores per the focus profile
func substitutionScore(priceDiffPct, sustainabilityImprovement, healthImprovement, similarity float64, weights focusWeights) float64 {
	priceScore := clamp(50 + priceDiffPct)
	sustainabilityScore := clamp(50 + sustainabilityImprovement)
	healthScore := clamp(50 + healthImprovement)
	similarityScore := similarity * 100

	return weights.price*priceScore +
		weights.sustainability*sustainabilityScore +
		weights.health*healthScore +
		weights.similarity*similarityScore
}

// explainSubstitution generates ordered reasons and trade-offs for a suggestion
func explainSubstitution(
	original, candidate domain.Product,
	originalScore, candidateScore domain.SustainabilityScore,
	priceDiff, priceDiffPct float64,
) (reasons, tradeOffs []string) {
	if priceDiff > 0 {
		if priceDiffPct > 20 {
			reasons = append(reasons, fmt.Sprintf("significant savings: $%.0f (%.1f%%)", priceDiff, priceDiffPct))
		} else if priceDiffPct > 5 {
			reasons = append(reasons, fmt.Sprintf("saves $%.0f", priceDiff))
		}
	}

	if candidateScore.EnvironmentalScore > originalScore.EnvironmentalScore+10 {
		reasons = append(reasons, "better environmental sustainability")
	}
	if candidateScore.HealthScore > originalScore.HealthScore+10 {
		reasons = append(reasons, "better nutritional profile")
	}

	if hasLocal(candidate) && !hasLocal(original) {
		reasons = append(reasons, "local product")
	}
	if hasRecyclable(candidate) && !hasRecyclable(original) {
		reasons = append(reasons, "recyclable packaging")
	}

	if priceDiff < 0 {
		tradeOffs = append(tradeOffs, fmt.Sprintf("additional cost of $%.0f", -priceDiff))
	}
	if candidateScore.HealthScore < originalScore.HealthScore-10 {
		tradeOffs = append(tradeOffs, "lower nutritional quality")
	}
	if original.Brand != "" && candidate.Brand != "" && original.Brand != candidate.Brand {
		tradeOffs = append(tradeOffs, fmt.Sprintf("brand change (from %s to %s)", original.Brand, candidate.Brand))
	}
	if candidate.Quantity < original.Quantity {
		tradeOffs = append(tradeOffs, "smaller pack quantity")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "similar alternative with better balance")
	}

	return reasons, tradeOffs
}

func hasLocal(p domain.Product) bool {
	return p.Sustainability != nil && p.Sustainability.LocalProduct
}

func hasRecyclable(p domain.Product) bool {
	return p.Sustainability != nil && p.Sustainability.PackagingRecyclable
}

// substitutionType classifies the relationship between original and candidate
func substitutionType(original, candidate domain.Product, similarity float64) domain.SubstitutionType {
	if strings.EqualFold(original.Name, candidate.Name) && original.Brand != candidate.Brand {
		return domain.SubstitutionSameProductDifferentBrand
	}
	if similarity > 0.7 {
		return domain.SubstitutionSimilarCategory
	}
	return domain.SubstitutionHealthierAlternative
}

// confidenceLevel derives a qualitative confidence from similarity and score
func confidenceLevel(similarity, score float64) domain.Confidence {
	switch {
	case similarity >= 0.7 && score >= 70:
		return domain.ConfidenceHigh
	case similarity < 0.4 || score < 50:
		return domain.ConfidenceLow
	default:
		return domain.ConfidenceMedium
	}
}
