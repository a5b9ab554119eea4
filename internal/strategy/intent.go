package strategy

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/khanglvm/catalog-search/internal/suggest"
)

const (
	intentConfidence  = 0.9
	pricingConfidence = 0.85
	ratingConfidence  = 0.9
	minIntentTokenLen = 4
)

// intentRule maps keywords to a catalog category.
type intentRule struct {
	category string
	keywords []string
}

var intentRules = []intentRule{
	{"Image Generation", []string{"image", "photo", "picture", "visual", "art", "drawing", "illustration"}},
	{"Video Creation", []string{"video", "film", "movie", "animation", "clip"}},
	{"Writing", []string{"write", "writing", "copywriting", "content", "blog", "article", "essay"}},
	{"Code Assistant", []string{"code", "coding", "programming", "developer", "debug"}},
	{"Chatbots", []string{"chat", "chatbot", "assistant", "conversation"}},
	{"Audio & Voice", []string{"voice", "speech", "podcast", "tts", "narration"}},
	{"Music", []string{"music", "song", "melody", "beat"}},
	{"Productivity", []string{"productivity", "notes", "meeting", "schedule", "task"}},
	{"Design", []string{"design", "logo", "mockup", "ui", "ux"}},
	{"Marketing", []string{"marketing", "seo", "ads", "campaign"}},
	{"Research", []string{"research", "paper", "study", "citation"}},
	{"Data Analysis", []string{"data", "analytics", "spreadsheet", "chart", "dashboard"}},
}

// intentMatch maps query keywords to category intents.
func intentMatch(q Query, c *Context) ([]suggest.Suggestion, error) {
	out := []suggest.Suggestion{}
	for _, rule := range intentRules {
		if !rule.matches(q) {
			continue
		}
		out = append(out, suggest.Intent(rule.category, rule.category, c.Catalog.CountInCategory(rule.category), intentConfidence))
	}
	return out, nil
}

// matches reports whether a keyword occurs in the query, or a query token
// longer than three runes overlaps a keyword.
//
// Keywords of three runes or fewer must equal a query token, which is
// stricter than a plain substring test: "art" does not fire on "start"
// and "ads" does not fire on "loads".
func (r intentRule) matches(q Query) bool {
	for _, kw := range r.keywords {
		if runeLen(kw) <= 3 {
			if hasToken(q.Tokens, kw) {
				return true
			}
			continue
		}
		if strings.Contains(q.Text, kw) {
			return true
		}
		for _, tok := range q.Tokens {
			if runeLen(tok) >= minIntentTokenLen && (strings.Contains(tok, kw) || strings.Contains(kw, tok)) {
				return true
			}
		}
	}
	return false
}

// pricingRule maps pricing words to a filter suggestion.
type pricingRule struct {
	text     string
	model    string
	keywords []string
}

var pricingRules = []pricingRule{
	{"Free tools", "free", []string{"free", "no cost", "gratis", "open source"}},
	{"Premium tools", "paid", []string{"paid", "premium", "pro", "enterprise"}},
	{"Tools with a free trial", "trial", []string{"trial", "free trial", "try"}},
}

var ratingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*-?\s*stars?\b`),
	regexp.MustCompile(`\brated\s+(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:out of|/)\s*5\b`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+\s*rating`),
}

var topRatedPattern = regexp.MustCompile(`\b(?:top|best|highly)[ -]rated\b`)

// patternMatch extracts pricing and rating filters.
func patternMatch(q Query, _ *Context) ([]suggest.Suggestion, error) {
	out := []suggest.Suggestion{}

	for _, rule := range pricingRules {
		if matchesKeyword(q, rule.keywords) {
			out = append(out, suggest.Pricing(rule.text, rule.model, pricingConfidence))
		}
	}

	seen := make(map[float64]bool)
	for _, re := range ratingPatterns {
		for _, m := range re.FindAllStringSubmatch(q.Text, -1) {
			n, err := strconv.ParseFloat(m[1], 64)
			if err != nil || n <= 0 || n > 5 || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, suggest.Rating(ratingText(n), n, ratingConfidence))
		}
	}
	if topRatedPattern.MatchString(q.Text) && !seen[4.5] {
		out = append(out, suggest.Rating(ratingText(4.5), 4.5, ratingConfidence-0.1))
	}

	return out, nil
}

func ratingText(n float64) string {
	return "Tools rated " + strconv.FormatFloat(n, 'f', -1, 64) + "+ stars"
}

// matchesKeyword treats single words as tokens and phrases as substrings.
func matchesKeyword(q Query, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(q.Text, kw) {
				return true
			}
		} else if hasToken(q.Tokens, kw) {
			return true
		}
	}
	return false
}
