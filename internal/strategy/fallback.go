package strategy

import (
	"strings"

	"github.com/khanglvm/catalog-search/internal/suggest"
)

// DefaultTrending is the fixed list shown for an empty query.
var DefaultTrending = []string{
	"ChatGPT",
	"Midjourney",
	"Claude",
	"GitHub Copilot",
	"Stable Diffusion",
	"ElevenLabs",
}

const fallbackStep = 0.05

// FallbackTrending returns names as trending suggestions in the given
// order, with confidence stepping down from 1.0. Blank names and
// case-insensitive repeats are dropped. It never consults the catalog.
func FallbackTrending(names []string) []suggest.Suggestion {
	out := make([]suggest.Suggestion, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, suggest.TrendingText(name, 1.0-fallbackStep*float64(len(out))))
	}
	return out
}
