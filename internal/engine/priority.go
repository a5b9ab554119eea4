package engine

import "github.com/khanglvm/catalog-search/internal/suggest"

// kindPriority orders kinds in the final list. Lower sorts first.
var kindPriority = map[suggest.Kind]int{
	suggest.KindInsight:     0,
	suggest.KindEnhancement: 1,
	suggest.KindIntent:      2,
	suggest.KindComparison:  3,
	suggest.KindQuestion:    4,
	suggest.KindAlternative: 5,
	suggest.KindItem:        6,
	suggest.KindCategory:    7,
	suggest.KindTag:         8,
	suggest.KindRecent:      9,
	suggest.KindPricing:     10,
	suggest.KindRating:      11,
	suggest.KindTrending:    12,
	suggest.KindWorkflow:    13,
	suggest.KindIntegration: 14,
}

func priority(k suggest.Kind) int {
	if p, ok := kindPriority[k]; ok {
		return p
	}
	return len(kindPriority)
}
