package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/greencart/backend/internal/domain"
)

// Analysis thresholds
const (
	maxAnalysisAlternatives = 5
	maxSavingsOpportunities = 20

	lowImpactThreshold    = 75.0
	mediumImpactThreshold = 50.0
)

// ProductService exposes catalog queries and product-level analysis built on
// the scorer and the substitution engine.
type ProductService struct {
	repo   domain.ProductRepository
	scorer *Scorer
	engine *SubstitutionEngine
}

// NewProductService wires the service; nil scorer or engine get defaults
func NewProductService(repo domain.ProductRepository, scorer *Scorer, engine *SubstitutionEngine) *ProductService {
	if scorer == nil {
		scorer = NewScorer(ScorerConfig{})
	}
	if engine == nil {
		engine = NewSubstitutionEngine(scorer, SubstitutionConfig{})
	}
	return &ProductService{repo: repo, scorer: scorer, engine: engine}
}

// All returns every product in the catalog
func (s *ProductService) All(ctx context.Context) ([]domain.Product, error) {
	return s.repo.All(ctx)
}

// ByID returns one product or domain.ErrProductNotFound
func (s *ProductService) ByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.ByID(ctx, id)
}

// ByBarcode returns the catalog product carrying the given barcode
func (s *ProductService) ByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	return s.repo.ByBarcode(ctx, barcode)
}

// Search filters the catalog by query text, category, price range, labels and store
func (s *ProductService) Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.repo.Search(ctx, filter)
}

// Categories lists the catalog's categories, sorted
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Catalog groups the full catalog by category
func (s *ProductService) Catalog(ctx context.Context) (map[string][]domain.Product, error) {
	return s.repo.Catalog(ctx)
}

// AnalyzeProduct scores one product and pairs it with in-category
// alternatives, a savings potential against the category's most expensive
// product, and qualitative ratings.
func (s *ProductService) AnalyzeProduct(ctx context.Context, id string) (*domain.ProductAnalysis, error) {
	product, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	score := s.scorer.Score(*product)

	categoryProducts, err := s.repo.ByCategory(ctx, product.Category)
	if err != nil {
		return nil, fmt.Errorf("loading category %q: %w", product.Category, err)
	}

	alternatives := make([]domain.Product, 0, maxAnalysisAlternatives)
	maxPrice := 0.0
	for _, p := range categoryProducts {
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
		if p.ID != product.ID && len(alternatives) < maxAnalysisAlternatives {
			alternatives = append(alternatives, p)
		}
	}

	savingsPotential := 0.0
	if maxPrice > product.Price {
		savingsPotential = maxPrice - product.Price
	}

	return &domain.ProductAnalysis{
		Product:             *product,
		Sustainability:      score,
		Alternatives:        alternatives,
		SavingsPotential:    round2(savingsPotential),
		EnvironmentalImpact: ImpactLevel(score.EnvironmentalScore),
		Recommendation:      recommendationText(score.OverallScore),
		HealthRating:        healthRating(score.HealthScore),
	}, nil
}

// CompareProducts analyzes two or more products and names the best of each
// dimension. Unknown ids are skipped; fewer than two resolvable products is
// domain.ErrNotEnoughProducts.
func (s *ProductService) CompareProducts(ctx context.Context, ids []string) (*domain.MultiComparison, error) {
	var products []domain.Product
	for _, id := range ids {
		product, err := s.repo.ByID(ctx, id)
		if err != nil {
			continue
		}
		products = append(products, *product)
	}

	if len(products) < 2 {
		return nil, domain.ErrNotEnoughProducts
	}

	analyses := make([]domain.ProductAnalysis, 0, len(products))
	for _, p := range products {
		analysis, err := s.AnalyzeProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, *analysis)
	}

	bestPrice := products[0]
	bestSustainability := analyses[0]
	bestHealth := analyses[0]
	for i := 1; i < len(products); i++ {
		if products[i].Price < bestPrice.Price {
			bestPrice = products[i]
		}
		if analyses[i].Sustainability.OverallScore > bestSustainability.Sustainability.OverallScore {
			bestSustainability = analyses[i]
		}
		if analyses[i].Sustainability.HealthScore > bestHealth.Sustainability.HealthScore {
			bestHealth = analyses[i]
		}
	}

	price := bestPrice.Price
	return &domain.MultiComparison{
		Products:           analyses,
		BestPrice:          domain.ProductRef{ID: bestPrice.ID, Name: bestPrice.Name, Price: &price},
		BestSustainability: domain.ProductRef{ID: bestSustainability.Product.ID, Name: bestSustainability.Product.Name},
		BestHealth:         domain.ProductRef{ID: bestHealth.Product.ID, Name: bestHealth.Product.Name},
	}, nil
}

// Recommendations returns substitution suggestions for a product drawn from
// its own category.
func (s *ProductService) Recommendations(ctx context.Context, id string, focus domain.Focus, maxResults int) ([]domain.SubstitutionSuggestion, error) {
	product, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	candidates, err := s.repo.ByCategory(ctx, product.Category)
	if err != nil {
		return nil, fmt.Errorf("loading category %q: %w", product.Category, err)
	}

	return s.engine.FindSubstitutions(*product, candidates, focus, maxResults), nil
}

// SimilarProducts returns in-category products ordered by shared label
// count. Unlike Recommendations it does not look for improvements.
func (s *ProductService) SimilarProducts(ctx context.Context, id string, limit int) ([]domain.Product, error) {
	product, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	categoryProducts, err := s.repo.ByCategory(ctx, product.Category)
	if err != nil {
		return nil, fmt.Errorf("loading category %q: %w", product.Category, err)
	}

	var similar []domain.Product
	for _, p := range categoryProducts {
		if p.ID != product.ID {
			similar = append(similar, p)
		}
	}

	if len(product.Labels) > 0 {
		ownLabels := make(map[string]bool, len(product.Labels))
		for _, label := range product.Labels {
			ownLabels[label] = true
		}
		shared := func(p domain.Product) int {
			count := 0
			for _, label := range p.Labels {
				if ownLabels[label] {
					count++
				}
			}
			return count
		}
		sort.SliceStable(similar, func(i, j int) bool {
			return shared(similar[i]) > shared(similar[j])
		})
	}

	if limit > 0 && len(similar) > limit {
		similar = similar[:limit]
	}
	return similar, nil
}

// TopSustainable ranks products by overall sustainability, optionally
// restricted to one category.
func (s *ProductService) TopSustainable(ctx context.Context, category string, limit int) ([]domain.RankedProduct, error) {
	products, err := s.productsIn(ctx, category)
	if err != nil {
		return nil, err
	}

	ranked := s.scorer.Rank(products)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// BestValue ranks products by sustainability per normalized price unit:
// overall score divided by (1 + price/1000).
func (s *ProductService) BestValue(ctx context.Context, category string, limit int) ([]domain.ValueRankedProduct, error) {
	products, err := s.productsIn(ctx, category)
	if err != nil {
		return nil, err
	}

	ranked := make([]domain.ValueRankedProduct, 0, len(products))
	for _, p := range products {
		score := s.scorer.Score(p)
		value := score.OverallScore / (1 + p.Price/1000)
		ranked = append(ranked, domain.ValueRankedProduct{
			Product:    p,
			Score:      score,
			ValueScore: round2(value),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ValueScore > ranked[j].ValueScore
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// SavingsOpportunities scans every category for products whose best
// price-focused substitute saves at least minSavingsPct percent, sorted by
// absolute savings.
func (s *ProductService) SavingsOpportunities(ctx context.Context, minSavingsPct float64) ([]domain.SavingsOpportunity, error) {
	catalog, err := s.repo.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	var opportunities []domain.SavingsOpportunity
	for _, products := range catalog {
		if len(products) < 2 {
			continue
		}

		for _, product := range products {
			var candidates []domain.Product
			for _, p := range products {
				if p.ID != product.ID {
					candidates = append(candidates, p)
				}
			}

			best := s.engine.BestSubstitute(product, candidates, domain.FocusPrice)
			if best == nil || best.PriceDifferencePercentage < minSavingsPct {
				continue
			}

			opportunities = append(opportunities, domain.SavingsOpportunity{
				ExpensiveProduct:          product,
				BetterAlternative:         best.SuggestedProduct,
				Savings:                   best.PriceDifference,
				SavingsPercentage:         best.PriceDifferencePercentage,
				SustainabilityImprovement: best.SustainabilityImprovement,
			})
		}
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Savings > opportunities[j].Savings
	})

	if len(opportunities) > maxSavingsOpportunities {
		opportunities = opportunities[:maxSavingsOpportunities]
	}
	return opportunities, nil
}

// EstimateList prices an unoptimized shopping list using the first matching
// product per item and averages the dimension scores.
func (s *ProductService) EstimateList(ctx context.Context, items []domain.ShoppingListItem) (*domain.ListEstimate, error) {
	totalCost := 0.0
	var scores []domain.SustainabilityScore

	for _, item := range items {
		products, err := s.repo.ByCategory(ctx, item.Category)
		if err != nil {
			return nil, fmt.Errorf("loading category %q: %w", item.Category, err)
		}

		var chosen *domain.Product
		for i := range products {
			if item.MaxPrice != nil && products[i].Price > *item.MaxPrice {
				continue
			}
			chosen = &products[i]
			break
		}
		if chosen == nil {
			continue
		}

		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		totalCost += chosen.Price * quantity
		scores = append(scores, s.scorer.Score(*chosen))
	}

	if len(scores) == 0 {
		return nil, fmt.Errorf("estimating list: %w", domain.ErrProductNotFound)
	}

	n := float64(len(scores))
	var sumOverall, sumEconomic, sumEnvironmental, sumSocial, sumHealth float64
	for _, score := range scores {
		sumOverall += score.OverallScore
		sumEconomic += score.EconomicScore
		sumEnvironmental += score.EnvironmentalScore
		sumSocial += score.SocialScore
		sumHealth += score.HealthScore
	}

	return &domain.ListEstimate{
		TotalCost:                  round2(totalCost),
		TotalItems:                 len(scores),
		AverageSustainabilityScore: round2(sumOverall / n),
		Breakdown: domain.DimensionDeltas{
			Economic:      round2(sumEconomic / n),
			Environmental: round2(sumEnvironmental / n),
			Social:        round2(sumSocial / n),
			Health:        round2(sumHealth / n),
		},
	}, nil
}

func (s *ProductService) productsIn(ctx context.Context, category string) ([]domain.Product, error) {
	if category != "" {
		return s.repo.ByCategory(ctx, category)
	}
	return s.repo.All(ctx)
}

// recommendationText summarizes an overall score as buying advice
func recommendationText(overall float64) string {
	switch {
	case overall >= 80:
		return "Excellent choice! This product has an optimal balance of price, sustainability and health."
	case overall >= 60:
		return "Good option, though alternatives with better sustainability are available."
	default:
		return "Consider the suggested alternatives for better environmental and health impact."
	}
}

// healthRating buckets a health score into a qualitative rating
func healthRating(health float64) string {
	switch {
	case health >= 80:
		return "excellent"
	case health >= 60:
		return "good"
	case health >= 40:
		return "average"
	default:
		return "poor"
	}
}
