package strategy

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

const (
	insightLimit          = 3
	insightMinItems       = 2
	insightBase           = 0.75
	insightStep           = 0.05
	insightSaturation     = 4
	enhancementConfidence = 0.8
	minCorrectionLen      = 4
)

// insightMatch groups matching items by category and summarizes each group.
func insightMatch(q Query, c *Context) ([]suggest.Suggestion, error) {
	type group struct {
		category string
		count    int
		rated    int
		sum      float64
	}

	groups := make(map[string]*group)
	for _, it := range c.items() {
		if it.Category == "" || !itemMatches(it, q) {
			continue
		}
		key := strings.ToLower(it.Category)
		g, ok := groups[key]
		if !ok {
			g = &group{category: it.Category}
			groups[key] = g
		}
		g.count++
		if it.Rating > 0 {
			g.rated++
			g.sum += it.Rating
		}
	}

	list := make([]*group, 0, len(groups))
	for _, g := range groups {
		if g.count >= insightMinItems {
			list = append(list, g)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return strings.ToLower(list[i].category) < strings.ToLower(list[j].category)
	})
	if len(list) > insightLimit {
		list = list[:insightLimit]
	}

	out := make([]suggest.Suggestion, 0, len(list))
	for _, g := range list {
		desc := "No ratings yet"
		if g.rated > 0 {
			desc = fmt.Sprintf("Average rating %.1f", g.sum/float64(g.rated))
		}
		conf := insightBase + insightStep*float64(min(g.count, insightSaturation))/insightSaturation
		text := fmt.Sprintf("%d %s tools match", g.count, g.category)
		out = append(out, suggest.Insight(text, g.category, g.count, desc, conf))
	}
	return out, nil
}

// itemMatches reports whether the whole query occurs in any text field, or
// a query token of three or more runes occurs in name, category or tags.
func itemMatches(it catalog.Item, q Query) bool {
	if containsFold(it.Name, q.Text) || containsFold(it.Category, q.Text) ||
		containsFold(it.Subcategory, q.Text) || anyContains(it.Tags, q.Text) ||
		containsFold(it.Description, q.Text) {
		return true
	}
	return matchesAnyToken(it, q.Tokens, predictiveMinTokenLen)
}

// enhancementMatch proposes a spelling-corrected query when words are
// missing from the catalog vocabulary.
func enhancementMatch(q Query, c *Context) ([]suggest.Suggestion, error) {
	words := strings.Fields(q.Text)
	corrected := false

	for i, w := range words {
		if runeLen(w) < minCorrectionLen || !isWord(w) || c.Catalog.InVocabulary(w) {
			continue
		}
		if fix, ok := nearestWord(w, c.Catalog.Vocabulary()); ok {
			words[i] = fix
			corrected = true
		}
	}
	if !corrected {
		return []suggest.Suggestion{}, nil
	}

	text := "Did you mean: " + strings.Join(words, " ")
	return []suggest.Suggestion{suggest.Enhancement(text, q.Raw, enhancementConfidence)}, nil
}

func isWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// nearestWord returns the closest vocabulary word within the edit
// threshold. vocab is sorted, so ties resolve lexically.
func nearestWord(w string, vocab []string) (string, bool) {
	best := ""
	bestDist := maxEditDistance + 1
	wl := runeLen(w)
	for _, v := range vocab {
		vl := runeLen(v)
		if vl < minCorrectionLen || vl-wl > maxEditDistance || wl-vl > maxEditDistance {
			continue
		}
		if d := Levenshtein(w, v); d < bestDist {
			best, bestDist = v, d
		}
	}
	return best, best != ""
}
