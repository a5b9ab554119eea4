package strategy

import (
	"math"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

const (
	trendingLimit      = 5
	trendingConfidence = 0.7
	trendingMinRating  = 4.5
	trendingMinReviews = 1000

	predictiveItemLimit     = 3
	predictiveConfidence    = 0.65
	recentSimilarityMin     = 0.5
	recentConfidenceScale   = 0.8
	predictiveMinTokenLen   = 3
	matchTokenMinLen        = 2
	popularityRatingWeight  = 0.7
	popularityReviewsWeight = 0.3
)

// popularity blends rating and review count.
func popularity(it catalog.Item) float64 {
	return it.Rating*popularityRatingWeight + math.Log10(float64(it.Reviews)+1)*popularityReviewsWeight
}

// isTrending reports whether it is flagged or popular enough to count as trending.
func isTrending(it catalog.Item) bool {
	return it.Trending || (it.Rating >= trendingMinRating && it.Reviews >= trendingMinReviews)
}

// matchesAnyToken reports whether a query token of at least minLen runes
// occurs in the item's name, category or tags.
func matchesAnyToken(it catalog.Item, tokens []string, minLen int) bool {
	for _, tok := range tokens {
		if runeLen(tok) < minLen {
			continue
		}
		if containsFold(it.Name, tok) || containsFold(it.Category, tok) || anyContains(it.Tags, tok) {
			return true
		}
	}
	return false
}

// trendingMatch surfaces trending items related to the query.
func trendingMatch(q Query, c *Context) ([]suggest.Suggestion, error) {
	var hits []scored
	for _, it := range c.items() {
		if isTrending(it) && matchesAnyToken(it, q.Tokens, matchTokenMinLen) {
			hits = append(hits, scored{it, popularity(it)})
		}
	}
	sortScored(hits)
	if len(hits) > trendingLimit {
		hits = hits[:trendingLimit]
	}

	out := make([]suggest.Suggestion, 0, len(hits))
	for _, h := range hits {
		out = append(out, suggest.Trending(h.item, trendingConfidence))
	}
	return out, nil
}

// predictiveMatch suggests similar recent searches and the most popular
// matching items.
func predictiveMatch(q Query, c *Context) ([]suggest.Suggestion, error) {
	out := []suggest.Suggestion{}

	seen := make(map[string]bool)
	for _, recent := range c.RecentSearches {
		norm := Normalize(recent)
		if norm == "" || norm == q.Text || seen[norm] {
			continue
		}
		seen[norm] = true
		sim := math.Max(TokenSimilarity(q.Text, norm), SemanticSimilarity(q.Text, norm))
		if sim >= recentSimilarityMin {
			out = append(out, suggest.Recent(recent, sim*recentConfidenceScale))
		}
	}

	var hits []scored
	for _, it := range c.items() {
		if containsFold(it.Name, q.Text) || containsFold(it.Category, q.Text) || anyContains(it.Tags, q.Text) ||
			matchesAnyToken(it, q.Tokens, predictiveMinTokenLen) {
			hits = append(hits, scored{it, popularity(it)})
		}
	}
	sortScored(hits)
	if len(hits) > predictiveItemLimit {
		hits = hits[:predictiveItemLimit]
	}
	for _, h := range hits {
		out = append(out, suggest.ItemOf(h.item, predictiveConfidence))
	}

	return out, nil
}
