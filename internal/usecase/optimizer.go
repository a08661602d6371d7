package usecase

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/greencart/backend/internal/domain"
)

// Genetic search defaults
const (
	defaultPopulationSize = 50
	defaultGenerations    = 100
	defaultMutationRate   = 0.15
	defaultTournamentSize = 3
	defaultEliteFraction  = 0.20

	// Candidates per item are capped after sorting by sustainability score
	maxCandidatesPerItem = 20

	maxAlternatives      = 3
	maxRecommendedStores = 3
)

// objectiveWeights are the fitness component weights of one optimization objective
type objectiveWeights struct {
	cost           float64
	sustainability float64
	quality        float64
	preference     float64
}

// weightsFor maps an objective to its fitness profile. Unrecognized
// objectives fall back to the balanced profile.
func weightsFor(objective domain.Objective) objectiveWeights {
	switch objective {
	case domain.ObjectivePrice:
		return objectiveWeights{cost: 0.60, sustainability: 0.15, quality: 0.15, preference: 0.10}
	case domain.ObjectiveSustainability:
		return objectiveWeights{cost: 0.20, sustainability: 0.50, quality: 0.15, preference: 0.15}
	case domain.ObjectiveHealth:
		return objectiveWeights{cost: 0.20, sustainability: 0.15, quality: 0.50, preference: 0.15}
	default:
		return objectiveWeights{cost: 0.30, sustainability: 0.30, quality: 0.25, preference: 0.15}
	}
}

// OptimizerConfig holds tuning knobs for the genetic search
type OptimizerConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteFraction  float64

	// Rand is the randomness source for the search. Providing a seeded
	// source makes optimization runs reproducible.
	Rand *rand.Rand
}

// Optimizer selects one product per shopping list item, maximizing a
// weighted combination of cost efficiency, sustainability, quality and
// preference match under an optional budget, using a generational
// genetic search.
type Optimizer struct {
	scorer         *Scorer
	populationSize int
	generations    int
	mutationRate   float64
	tournamentSize int
	eliteFraction  float64
	rng            *rand.Rand
}

// itemCandidates pairs a shopping list item with its eligible products
type itemCandidates struct {
	item       domain.ShoppingListItem
	candidates []domain.Product
}

// NewOptimizer creates an optimizer using the given scorer, filling
// defaults for zero-valued configuration.
func NewOptimizer(scorer *Scorer, config OptimizerConfig) *Optimizer {
	if scorer == nil {
		scorer = NewScorer(ScorerConfig{})
	}

	populationSize := config.PopulationSize
	if populationSize <= 0 {
		populationSize = defaultPopulationSize
	}
	generations := config.Generations
	if generations <= 0 {
		generations = defaultGenerations
	}
	mutationRate := config.MutationRate
	if mutationRate <= 0 {
		mutationRate = defaultMutationRate
	}
	tournamentSize := config.TournamentSize
	if tournamentSize <= 0 {
		tournamentSize = defaultTournamentSize
	}
	eliteFraction := config.EliteFraction
	if eliteFraction <= 0 {
		eliteFraction = defaultEliteFraction
	}
	rng := config.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Optimizer{
		scorer:         scorer,
		populationSize: populationSize,
		generations:    generations,
		mutationRate:   mutationRate,
		tournamentSize: tournamentSize,
		eliteFraction:  eliteFraction,
		rng:            rng,
	}
}

// Optimize selects the best product combination for a shopping list from
// the given catalog (category -> products). Items with no eligible
// candidates are reported in ItemsNotFound, never as an error.
func (o *Optimizer) Optimize(list domain.ShoppingList, catalog map[string][]domain.Product) domain.OptimizedShoppingList {
	budget := math.Inf(1)
	if list.Budget != nil {
		budget = *list.Budget
	}
	weights := weightsFor(list.OptimizeFor)

	var pairs []itemCandidates
	var notFound []string
	var warnings []string
	for _, item := range list.Items {
		candidates := o.findCandidates(item, catalog)
		if len(candidates) == 0 {
			notFound = append(notFound, item.ProductName)
			warnings = append(warnings, fmt.Sprintf("no products found for %q in category %q", item.ProductName, item.Category))
			continue
		}
		pairs = append(pairs, itemCandidates{item: item, candidates: candidates})
	}

	if len(pairs) == 0 {
		return o.emptyResult(notFound, warnings)
	}

	best := o.geneticSearch(pairs, budget, weights)

	return o.buildResult(pairs, best, budget, notFound, warnings)
}

// findCandidates filters a category's products by max price and preference
// match, sorts them by overall sustainability score and caps the pool.
func (o *Optimizer) findCandidates(item domain.ShoppingListItem, catalog map[string][]domain.Product) []domain.Product {
	var candidates []domain.Product

	for _, product := range catalog[item.Category] {
		if item.MaxPrice != nil && product.Price > *item.MaxPrice {
			continue
		}
		if len(item.Preferences) > 0 && !matchesPreferences(product, item.Preferences) {
			continue
		}
		candidates = append(candidates, product)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return o.scorer.Score(candidates[i]).OverallScore > o.scorer.Score(candidates[j]).OverallScore
	})

	if len(candidates) > maxCandidatesPerItem {
		candidates = candidates[:maxCandidatesPerItem]
	}
	return candidates
}

// matchesPreferences reports whether at least half of the requested
// preference tags appear in the product's labels, case-insensitively.
func matchesPreferences(product domain.Product, preferences []string) bool {
	labels := make(map[string]bool, len(product.Labels))
	for _, label := range product.Labels {
		labels[strings.ToLower(label)] = true
	}

	matches := 0
	for _, pref := range preferences {
		if labels[strings.ToLower(pref)] {
			matches++
		}
	}
	return float64(matches) >= float64(len(preferences))*0.5
}

// preferenceScore is the percentage of requested tags present in the
// product's labels, or a neutral 50 when none were requested.
func preferenceScore(product domain.Product, preferences []string) float64 {
	if len(preferences) == 0 {
		return 50.0
	}

	labels := make(map[string]bool, len(product.Labels))
	for _, label := range product.Labels {
		labels[strings.ToLower(label)] = true
	}

	matches := 0
	for _, pref := range preferences {
		if labels[strings.ToLower(pref)] {
			matches++
		}
	}
	return float64(matches) / float64(len(preferences)) * 100
}

// geneticSearch evolves a population of selected-index assignments and
// returns the fittest individual of the final generation.
func (o *Optimizer) geneticSearch(pairs []itemCandidates, budget float64, weights objectiveWeights) []int {
	nItems := len(pairs)
	population := o.initialPopulation(nItems, pairs)

	for generation := 0; generation < o.generations; generation++ {
		fitness := make([]float64, len(population))
		for i, individual := range population {
			fitness[i] = o.fitness(individual, pairs, budget, weights)
		}

		parents := o.tournamentSelection(population, fitness)
		offspring := o.crossover(parents, nItems)
		o.mutate(offspring, pairs)
		population = o.nextGeneration(population, offspring, fitness)
	}

	bestIdx := 0
	bestFitness := math.Inf(-1)
	for i, individual := range population {
		if f := o.fitness(individual, pairs, budget, weights); f > bestFitness {
			bestFitness = f
			bestIdx = i
		}
	}
	return population[bestIdx]
}

func (o *Optimizer) initialPopulation(nItems int, pairs []itemCandidates) [][]int {
	population := make([][]int, 0, o.populationSize)
	for i := 0; i < o.populationSize; i++ {
		individual := make([]int, nItems)
		for j, pair := range pairs {
			individual[j] = o.rng.Intn(len(pair.candidates))
		}
		population = append(population, individual)
	}
	return population
}

// fitness evaluates one assignment: weighted sum of cost score, mean
// sustainability, mean quality and mean preference match.
func (o *Optimizer) fitness(individual []int, pairs []itemCandidates, budget float64, weights objectiveWeights) float64 {
	var totalCost, totalSustainability, totalQuality, totalPreference float64
	count := 0

	for i, pair := range pairs {
		if i >= len(individual) || individual[i] >= len(pair.candidates) {
			continue
		}
		product := pair.candidates[individual[i]]
		totalCost += product.Price * pair.item.Quantity

		score := o.scorer.Score(product)
		totalSustainability += score.OverallScore
		totalQuality += (score.HealthScore + score.EconomicScore) / 2
		totalPreference += preferenceScore(product, pair.item.Preferences)
		count++
	}

	if count == 0 {
		return 0
	}

	avgSustainability := totalSustainability / float64(count)
	avgQuality := totalQuality / float64(count)
	avgPreference := totalPreference / float64(count)

	var costScore float64
	if !math.IsInf(budget, 1) {
		if totalCost <= budget {
			costScore = 100 * (1 - totalCost/budget)
		} else {
			excessRatio := totalCost/budget - 1
			costScore = -100 * excessRatio
		}
	} else {
		costScore = 100 / (1 + totalCost/10000)
	}

	return weights.cost*costScore +
		weights.sustainability*avgSustainability +
		weights.quality*avgQuality +
		weights.preference*avgPreference
}

// tournamentSelection picks parents by sampling k individuals and keeping
// the fittest, once per population slot.
func (o *Optimizer) tournamentSelection(population [][]int, fitness []float64) [][]int {
	parents := make([][]int, 0, len(population))
	for i := 0; i < len(population); i++ {
		winner := o.rng.Intn(len(population))
		for j := 1; j < o.tournamentSize; j++ {
			challenger := o.rng.Intn(len(population))
			if fitness[challenger] > fitness[winner] {
				winner = challenger
			}
		}
		parents = append(parents, cloneIndividual(population[winner]))
	}
	return parents
}

// crossover applies single-point crossover pairwise. With fewer than two
// items there is no crossover point, so parents pass through unchanged.
func (o *Optimizer) crossover(parents [][]int, nItems int) [][]int {
	if nItems <= 1 {
		offspring := make([][]int, 0, len(parents))
		for _, p := range parents {
			offspring = append(offspring, cloneIndividual(p))
		}
		return offspring
	}

	var offspring [][]int
	for i := 0; i+1 < len(parents); i += 2 {
		point := 1 + o.rng.Intn(nItems-1)

		child1 := make([]int, nItems)
		child2 := make([]int, nItems)
		copy(child1, parents[i][:point])
		copy(child1[point:], parents[i+1][point:])
		copy(child2, parents[i+1][:point])
		copy(child2[point:], parents[i][point:])

		offspring = append(offspring, child1, child2)
	}
	return offspring
}

// mutate replaces one random gene of an individual with a new random valid
// index, with probability mutationRate per individual.
func (o *Optimizer) mutate(offspring [][]int, pairs []itemCandidates) {
	for _, individual := range offspring {
		if o.rng.Float64() >= o.mutationRate {
			continue
		}
		gene := o.rng.Intn(len(individual))
		if gene < len(pairs) {
			individual[gene] = o.rng.Intn(len(pairs[gene].candidates))
		}
	}
}

// nextGeneration keeps the elite share of the previous generation and
// fills the remainder with offspring.
func (o *Optimizer) nextGeneration(population, offspring [][]int, fitness []float64) [][]int {
	indices := make([]int, len(population))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return fitness[indices[a]] > fitness[indices[b]]
	})

	eliteSize := int(float64(o.populationSize) * o.eliteFraction)
	if eliteSize < 1 {
		eliteSize = 1
	}

	next := make([][]int, 0, o.populationSize)
	for _, idx := range indices[:min(eliteSize, len(indices))] {
		next = append(next, population[idx])
	}
	for _, child := range offspring {
		if len(next) >= o.populationSize {
			break
		}
		next = append(next, child)
	}
	return next
}

// buildResult assembles the OptimizedShoppingList for the winning individual
func (o *Optimizer) buildResult(pairs []itemCandidates, solution []int, budget float64, notFound, warnings []string) domain.OptimizedShoppingList {
	var selections []domain.OptimizedSelection
	var scores []domain.SustainabilityScore
	var totalCost, totalCarbon, totalWater float64
	recyclableCount := 0
	itemsSubstituted := 0

	for i, pair := range pairs {
		if i >= len(solution) || solution[i] >= len(pair.candidates) {
			continue
		}

		selected := pair.candidates[solution[i]]
		score := o.scorer.Score(selected)

		var alternatives []domain.Product
		for j, candidate := range pair.candidates {
			if j == solution[i] || len(alternatives) >= maxAlternatives {
				continue
			}
			alternatives = append(alternatives, candidate)
		}

		if pair.item.ProductID != "" && pair.item.ProductID != selected.ID {
			itemsSubstituted++
		}

		maxPrice := selected.Price
		for _, candidate := range pair.candidates {
			if candidate.Price > maxPrice {
				maxPrice = candidate.Price
			}
		}
		savings := (maxPrice - selected.Price) * pair.item.Quantity

		selections = append(selections, domain.OptimizedSelection{
			Item:                 pair.item,
			SelectedProduct:      selected,
			Alternatives:         alternatives,
			Reason:               selectionReason(score),
			Savings:              round2(savings),
			SustainabilityImpact: ImpactLevel(score.EnvironmentalScore),
		})

		totalCost += selected.Price * pair.item.Quantity
		scores = append(scores, score)

		if score.CarbonFootprintKg != nil {
			totalCarbon += *score.CarbonFootprintKg * pair.item.Quantity
		}
		if score.WaterUsageLiters != nil {
			totalWater += *score.WaterUsageLiters * pair.item.Quantity
		}
		if score.PackagingRecyclable {
			recyclableCount++
		}
	}

	overall := meanScore(scores)

	var estimatedSavings float64
	for _, selection := range selections {
		estimatedSavings += selection.Savings
	}

	budgetUsed := 0.0
	constraintsMet := true
	if !math.IsInf(budget, 1) {
		budgetUsed = totalCost / budget * 100
		constraintsMet = totalCost <= budget
	}

	recyclablePct := 0.0
	if len(selections) > 0 {
		recyclablePct = float64(recyclableCount) / float64(len(selections)) * 100
	}

	stores := recommendedStores(selections)

	return domain.OptimizedShoppingList{
		Selections:            selections,
		TotalCost:             round2(totalCost),
		EstimatedSavings:      round2(estimatedSavings),
		BudgetUsedPercentage:  round2(budgetUsed),
		OverallSustainability: overall,
		TotalCarbonFootprint:  round2(totalCarbon),
		TotalWaterUsage:       round2(totalWater),
		RecyclablePercentage:  round2(recyclablePct),
		Algorithm:             "multi-objective genetic search",
		ConstraintsMet:        constraintsMet,
		ItemsSubstituted:      itemsSubstituted,
		OptimizationScore:     overall.OverallScore,
		RecommendedStores:     stores,
		EstimatedShoppingTime: len(stores)*15 + len(selections)*2,
		Warnings:              warnings,
		ItemsNotFound:         notFound,
		CreatedAt:             time.Now(),
	}
}

func (o *Optimizer) emptyResult(notFound, warnings []string) domain.OptimizedShoppingList {
	return domain.OptimizedShoppingList{
		Selections:     []domain.OptimizedSelection{},
		Algorithm:      "multi-objective genetic search",
		ConstraintsMet: true,
		Warnings:       warnings,
		ItemsNotFound:  notFound,
		CreatedAt:      time.Now(),
	}
}

// selectionReason synthesizes a human-readable reason from score thresholds
func selectionReason(score domain.SustainabilityScore) string {
	var reasons []string

	if score.OverallScore >= 80 {
		reasons = append(reasons, "excellent sustainability-price balance")
	} else if score.OverallScore >= 60 {
		reasons = append(reasons, "good balanced option")
	}

	if score.EnvironmentalScore >= 75 {
		reasons = append(reasons, "low environmental impact")
	}
	if score.HealthScore >= 75 {
		reasons = append(reasons, "high nutritional quality")
	}
	if score.EconomicScore >= 75 {
		reasons = append(reasons, "excellent price")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "best available option")
	}

	return capitalize(strings.Join(reasons, ", "))
}

// ImpactLevel converts an environmental score into a qualitative bucket
func ImpactLevel(environmentalScore float64) string {
	switch {
	case environmentalScore >= 75:
		return "low"
	case environmentalScore >= 50:
		return "medium"
	default:
		return "high"
	}
}

// recommendedStores returns the up-to-3 most represented stores among selections
func recommendedStores(selections []domain.OptimizedSelection) []string {
	counts := make(map[string]int)
	for _, selection := range selections {
		store := selection.SelectedProduct.Store
		if store == "" {
			store = "general store"
		}
		counts[store]++
	}

	stores := make([]string, 0, len(counts))
	for store := range counts {
		stores = append(stores, store)
	}
	sort.SliceStable(stores, func(i, j int) bool {
		if counts[stores[i]] != counts[stores[j]] {
			return counts[stores[i]] > counts[stores[j]]
		}
		return stores[i] < stores[j]
	})

	if len(stores) > maxRecommendedStores {
		stores = stores[:maxRecommendedStores]
	}
	return stores
}

// meanScore averages each dimension across the given scores
func meanScore(scores []domain.SustainabilityScore) domain.SustainabilityScore {
	if len(scores) == 0 {
		return domain.SustainabilityScore{}
	}

	var economic, environmental, social, health, overall float64
	for _, score := range scores {
		economic += score.EconomicScore
		environmental += score.EnvironmentalScore
		social += score.SocialScore
		health += score.HealthScore
		overall += score.OverallScore
	}

	n := float64(len(scores))
	return domain.SustainabilityScore{
		EconomicScore:      round2(economic / n),
		EnvironmentalScore: round2(environmental / n),
		SocialScore:        round2(social / n),
		HealthScore:        round2(health / n),
		OverallScore:       round2(overall / n),
	}
}

func cloneIndividual(individual []int) []int {
	clone := make([]int, len(individual))
	copy(clone, individual)
	return clone
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
