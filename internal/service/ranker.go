package service

import (
	"math"
	"sort"
	"strings"

	"github.com/mercil/npa-search/internal/config"
	"github.com/mercil/npa-search/internal/model"
)

// Ranker combines vector similarity with filter-tightness bonuses into one
// final score per listing. Weights are fixed per process (no per-request
// learning), so identical inputs always produce identical orderings.
type Ranker struct {
	weights config.RankingConfig
}

// NewRanker creates a new ranker with the given weight set
func NewRanker(weights config.RankingConfig) *Ranker {
	return &Ranker{weights: weights}
}

// Rank scores candidates and returns them in strict total order: final
// score descending, ties broken by listing id ascending, with unique
// 1-based rank positions.
func (r *Ranker) Rank(candidates []model.Candidate, fs *model.FilterSet) []model.ScoredResult {
	results := make([]model.ScoredResult, 0, len(candidates))

	for _, c := range candidates {
		score := r.weights.WeightSimilarity*c.Similarity +
			r.weights.WeightType*typeBonus(&c.Listing, fs) +
			r.weights.WeightPrice*priceFit(c.Price, fs) +
			r.weights.WeightLocation*locationBonus(&c.Listing, fs)

		results = append(results, model.ScoredResult{
			Listing:    c.Listing,
			Similarity: c.Similarity,
			FinalScore: score,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		return results[i].ID < results[j].ID
	})

	for i := range results {
		results[i].Rank = i + 1
	}

	return results
}

// typeBonus rewards listings whose type matches a constrained type. The
// retriever already guarantees the constraint, so this is a tightness
// signal, not a correctness check.
func typeBonus(l *model.Listing, fs *model.FilterSet) float64 {
	if fs == nil || fs.TypeName == nil {
		return 0
	}
	if l.TypeName != nil && strings.EqualFold(strings.TrimSpace(*l.TypeName), strings.TrimSpace(*fs.TypeName)) {
		return 1.0
	}
	return 0
}

// priceFit scores how well a listing price sits inside the requested
// range. Prices near the middle of a two-sided range score highest.
func priceFit(price *float64, fs *model.FilterSet) float64 {
	if fs == nil || (fs.MinPrice == nil && fs.MaxPrice == nil) {
		return 0
	}
	if price == nil {
		return 0
	}
	p := *price

	if fs.MinPrice != nil && fs.MaxPrice != nil {
		lo, hi := *fs.MinPrice, *fs.MaxPrice
		if p < lo || p > hi {
			return 0
		}
		if hi == lo {
			return 1.0
		}
		mid := (lo + hi) / 2
		score := 1.0 - math.Abs(p-mid)/((hi-lo)/2)
		if score < 0 {
			score = 0
		}
		return score
	}

	if fs.MaxPrice != nil {
		if p > *fs.MaxPrice {
			return 0
		}
		if *fs.MaxPrice == 0 {
			return 1.0
		}
		// Closer to the budget ceiling is better.
		return p / *fs.MaxPrice
	}

	if p < *fs.MinPrice {
		return 0
	}
	return 1.0
}

// locationBonus rewards listings that mention the detected location in
// their address, name or description.
func locationBonus(l *model.Listing, fs *model.FilterSet) float64 {
	if fs == nil || fs.Location == nil {
		return 0
	}
	loc := strings.TrimSpace(*fs.Location)
	if loc == "" {
		return 0
	}
	for _, field := range []*string{l.Location, l.Name, l.Description} {
		if field != nil && strings.Contains(*field, loc) {
			return 1.0
		}
	}
	return 0
}
