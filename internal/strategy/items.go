package strategy

import (
	"math"
	"sort"
	"strings"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

const (
	exactLimit    = 8
	weightedLimit = 8
	fuzzyLimit    = 6
	fulltextLimit = 6

	fuzzyThreshold   = 0.3
	fuzzyConfidence  = 0.85
	fulltextWeight   = 0.7
	minRelevance     = 1.0
	weightedScale    = 10.0
	weightedMaxConf  = 0.95
	ratingBoostFloor = 4.0
	reviewBoostFloor = 100
)

// Field weights for the weighted strategy, highest first.
const (
	weightNameExact     = 10.0
	weightNameSubstring = 6.0
	weightCategoryExact = 5.0
	weightCategorySub   = 4.0
	weightSubcategory   = 3.0
	weightTag           = 2.5
	weightFeature       = 1.5
	weightUseCase       = 1.0
)

// Per-token increments for the weighted strategy.
const (
	tokenName        = 1.5
	tokenCategory    = 1.0
	tokenSubcategory = 0.8
	tokenTag         = 0.8
	tokenFeature     = 0.5
	tokenUseCase     = 0.4
	tokenDescription = 0.3
)

// scored pairs an item with a strategy-local score.
type scored struct {
	item  catalog.Item
	score float64
}

// sortScored orders by score descending, then name.
func sortScored(s []scored) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].score != s[j].score {
			return s[i].score > s[j].score
		}
		return strings.ToLower(s[i].item.Name) < strings.ToLower(s[j].item.Name)
	})
}

// exactMatch matches item names equal to, starting with, or containing the query.
func exactMatch(q Query, c *Context) ([]suggest.Suggestion, error) {
	var hits []scored
	for _, it := range c.items() {
		name := strings.ToLower(it.Name)
		switch {
		case name == q.Text:
			hits = append(hits, scored{it, 1.0})
		case strings.HasPrefix(name, q.Text):
			hits = append(hits, scored{it, 0.9})
		case strings.Contains(name, q.Text):
			hits = append(hits, scored{it, 0.8})
		}
	}
	sortScored(hits)
	return toItems(hits, exactLimit, func(s scored) float64 { return s.score }), nil
}

// weightedScore computes an additive field score per item, normalized by
// the number of contributing factors, plus a small quality boost.
func weightedScore(q Query, c *Context) ([]suggest.Suggestion, error) {
	type result struct {
		scored
		exactName bool
	}

	var results []result
	for _, it := range c.items() {
		relevance, factors := fieldScore(q, it)
		if factors == 0 {
			continue
		}
		normalized := relevance / float64(factors)
		if normalized < minRelevance {
			continue
		}
		results = append(results, result{
			scored:    scored{it, normalized + qualityBoost(it)},
			exactName: strings.EqualFold(it.Name, q.Text),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return strings.ToLower(results[i].item.Name) < strings.ToLower(results[j].item.Name)
	})
	if len(results) > weightedLimit {
		results = results[:weightedLimit]
	}

	out := make([]suggest.Suggestion, 0, len(results))
	for _, r := range results {
		conf := r.score / weightedScale
		if !r.exactName {
			conf = math.Min(conf, weightedMaxConf)
		}
		out = append(out, suggest.ItemOf(r.item, conf))
	}
	return out, nil
}

// fieldScore returns the raw relevance of it for q and the number of
// non-zero factors. All token increments together count as one factor.
func fieldScore(q Query, it catalog.Item) (float64, int) {
	score := 0.0
	factors := 0
	add := func(w float64) {
		score += w
		factors++
	}

	name := strings.ToLower(it.Name)
	category := strings.ToLower(it.Category)

	switch {
	case name == q.Text:
		add(weightNameExact)
	case strings.Contains(name, q.Text):
		add(weightNameSubstring)
	}
	switch {
	case category == q.Text:
		add(weightCategoryExact)
	case strings.Contains(category, q.Text):
		add(weightCategorySub)
	}
	if containsFold(it.Subcategory, q.Text) {
		add(weightSubcategory)
	}
	if anyContains(it.Tags, q.Text) {
		add(weightTag)
	}
	if anyContains(it.Features, q.Text) {
		add(weightFeature)
	}
	if anyContains(it.UseCases, q.Text) {
		add(weightUseCase)
	}

	tokenScore := 0.0
	for _, tok := range q.Tokens {
		if runeLen(tok) <= 1 {
			continue
		}
		if strings.Contains(name, tok) {
			tokenScore += tokenName
		}
		if strings.Contains(category, tok) {
			tokenScore += tokenCategory
		}
		if containsFold(it.Subcategory, tok) {
			tokenScore += tokenSubcategory
		}
		if anyContains(it.Tags, tok) {
			tokenScore += tokenTag
		}
		if anyContains(it.Features, tok) {
			tokenScore += tokenFeature
		}
		if anyContains(it.UseCases, tok) {
			tokenScore += tokenUseCase
		}
		if containsFold(it.Description, tok) {
			tokenScore += tokenDescription
		}
	}
	if tokenScore > 0 {
		add(tokenScore)
	}

	return score, factors
}

// qualityBoost rewards well-rated and well-reviewed items.
func qualityBoost(it catalog.Item) float64 {
	boost := 0.0
	if it.Rating >= ratingBoostFloor {
		boost += (it.Rating-ratingBoostFloor)*0.5 + 0.5
	}
	if it.Reviews >= reviewBoostFloor {
		boost += 0.25 * math.Log10(float64(it.Reviews))
	}
	return boost
}

// fuzzyMatch scores token similarity between the query and each item's
// name, category and tags.
func fuzzyMatch(q Query, c *Context) ([]suggest.Suggestion, error) {
	var hits []scored
	for _, it := range c.items() {
		target := it.Name + " " + it.Category + " " + strings.Join(it.Tags, " ")
		sim := TokenSimilarity(q.Text, target)
		if sim >= fuzzyThreshold {
			hits = append(hits, scored{it, sim})
		}
	}
	sortScored(hits)
	return toItems(hits, fuzzyLimit, func(s scored) float64 { return fuzzyConfidence * s.score }), nil
}

// fulltextMatch runs a BM25 query against the catalog index and scales
// scores by the best hit.
func fulltextMatch(q Query, c *Context) ([]suggest.Suggestion, error) {
	idx := c.Catalog.Index()
	if idx == nil {
		return []suggest.Suggestion{}, nil
	}

	hits, err := idx.Search(q.Text, fulltextLimit)
	if err != nil {
		return nil, err
	}

	best := 0.0
	for _, h := range hits {
		best = math.Max(best, h.Score)
	}
	if best <= 0 {
		return []suggest.Suggestion{}, nil
	}

	results := make([]scored, 0, len(hits))
	for _, h := range hits {
		results = append(results, scored{h.Item, h.Score / best})
	}
	sortScored(results)
	return toItems(results, fulltextLimit, func(s scored) float64 { return fulltextWeight * s.score }), nil
}

func toItems(hits []scored, limit int, conf func(scored) float64) []suggest.Suggestion {
	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]suggest.Suggestion, 0, len(hits))
	for _, h := range hits {
		out = append(out, suggest.ItemOf(h.item, conf(h)))
	}
	return out
}
