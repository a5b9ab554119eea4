package engine

import (
	"sort"
	"strings"

	"github.com/khanglvm/catalog-search/internal/learning"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

// candidate is a suggestion with its fused score.
type candidate struct {
	s         suggest.Suggestion
	composite float64
	lower     string
}

// fuse combines per-strategy results. results[i] belongs to names[i];
// the slot order is the strategy order, so the outcome does not depend on
// which strategy finished first.
func fuse(results [][]suggest.Suggestion, names []string, cfg Config, scorer *learning.Scorer) []suggest.Suggestion {
	list := dedupe(results, names, cfg, scorer)
	sortCandidates(list)
	return applyCaps(list, cfg)
}

// dedupe keeps one candidate per key. A later candidate replaces an
// earlier one only with a strictly higher composite.
func dedupe(results [][]suggest.Suggestion, names []string, cfg Config, scorer *learning.Scorer) []candidate {
	index := make(map[suggest.Key]int)
	list := make([]candidate, 0)

	for slot, suggestions := range results {
		w := cfg.weight(names[slot])
		for _, s := range suggestions {
			if s.Detail == nil || strings.TrimSpace(s.Text) == "" {
				continue
			}
			s = s.Clamp()
			key := s.Key()

			composite := w * s.Confidence
			if scorer != nil {
				composite += scorer.Boost(key)
			}

			c := candidate{s: s, composite: composite, lower: key.Text}
			if i, ok := index[key]; ok {
				if composite > list[i].composite {
					list[i] = c
				}
				continue
			}
			index[key] = len(list)
			list = append(list, c)
		}
	}
	return list
}

// sortCandidates orders by kind priority, composite descending, then text.
func sortCandidates(list []candidate) {
	sort.SliceStable(list, func(i, j int) bool {
		pi, pj := priority(list[i].s.Kind()), priority(list[j].s.Kind())
		if pi != pj {
			return pi < pj
		}
		if list[i].composite != list[j].composite {
			return list[i].composite > list[j].composite
		}
		return list[i].lower < list[j].lower
	})
}

// applyCaps walks the sorted list and skips suggestions whose kind is
// already at its cap, stopping at the overall maximum.
func applyCaps(list []candidate, cfg Config) []suggest.Suggestion {
	out := make([]suggest.Suggestion, 0, min(len(list), cfg.MaxResults))
	counts := make(map[suggest.Kind]int)

	for _, c := range list {
		if len(out) >= cfg.MaxResults {
			break
		}
		kind := c.s.Kind()
		if counts[kind] >= cfg.capFor(kind) {
			continue
		}
		counts[kind]++
		out = append(out, c.s)
	}
	return out
}
