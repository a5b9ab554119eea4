package strategy

import (
	"strings"
)

// Token match tiers used by TokenSimilarity.
const (
	exactTokenWeight    = 1.0
	containsTokenWeight = 0.7
	editTokenWeight     = 0.4
	minFuzzyTokenLen    = 2
)

// TokenSimilarity scores how well the tokens of query are covered by the
// tokens of target, in [0,1]. Each query token scores its best tier against
// any target token: exact equality, containment either way, or a close
// edit distance. Query tokens shorter than two runes are skipped.
func TokenSimilarity(query, target string) float64 {
	var qTokens []string
	for _, t := range Tokenize(query) {
		if runeLen(t) >= minFuzzyTokenLen {
			qTokens = append(qTokens, t)
		}
	}
	if len(qTokens) == 0 {
		return 0
	}
	tTokens := Tokenize(target)

	total := 0.0
	for _, q := range qTokens {
		best := 0.0
		for _, t := range tTokens {
			switch {
			case q == t:
				best = exactTokenWeight
			case runeLen(t) >= minFuzzyTokenLen && (strings.Contains(t, q) || strings.Contains(q, t)):
				best = max(best, containsTokenWeight)
			case closeSpelling(q, t):
				best = max(best, editTokenWeight)
			}
			if best == exactTokenWeight {
				break
			}
		}
		total += best
	}
	return total / float64(len(qTokens))
}

// synonymGroups are words treated as interchangeable by SemanticSimilarity.
var synonymGroups = [][]string{
	{"image", "images", "photo", "photos", "picture", "pictures", "visual", "art", "graphic", "graphics", "illustration"},
	{"video", "videos", "film", "movie", "clip", "animation"},
	{"write", "writing", "writer", "copy", "copywriting", "content", "text", "blog", "article"},
	{"code", "coding", "programming", "developer", "dev", "software"},
	{"chat", "chatbot", "assistant", "conversation", "conversational", "bot"},
	{"voice", "speech", "tts", "narration", "voiceover"},
	{"music", "song", "songs", "melody", "audio"},
	{"free", "gratis", "freemium"},
	{"best", "top", "leading", "popular"},
	{"tool", "tools", "app", "apps", "software", "platform"},
	{"generate", "generator", "create", "creator", "make", "maker"},
	{"edit", "editor", "editing"},
	{"summarize", "summary", "summarizer", "notes"},
}

var synonymIndex = buildSynonymIndex()

func buildSynonymIndex() map[string]int {
	idx := make(map[string]int)
	for g, words := range synonymGroups {
		for _, w := range words {
			if _, taken := idx[w]; !taken {
				idx[w] = g
			}
		}
	}
	return idx
}

// canonical maps a token to its synonym group, or to itself.
func canonical(token string) string {
	if g, ok := synonymIndex[token]; ok {
		return synonymGroups[g][0]
	}
	return token
}

// SemanticSimilarity is the Jaccard overlap of the synonym-expanded token
// sets of a and b, in [0,1]. It is a word-list heuristic, not a model.
func SemanticSimilarity(a, b string) float64 {
	setA := canonicalSet(a)
	setB := canonicalSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	inter := 0
	for t := range setA {
		if setB[t] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func canonicalSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range Tokenize(s) {
		set[canonical(t)] = true
	}
	return set
}
