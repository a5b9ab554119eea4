package strategy

import (
	"strings"
	"unicode"
)

// Query is a search query normalized once at engine entry.
type Query struct {
	// Raw is the text as typed.
	Raw string

	// Text is trimmed, lower-cased, with inner whitespace collapsed.
	Text string

	// Tokens are the alphanumeric words of Text.
	Tokens []string
}

// NewQuery normalizes raw.
func NewQuery(raw string) Query {
	text := Normalize(raw)
	return Query{Raw: raw, Text: text, Tokens: Tokenize(text)}
}

// Empty reports whether the normalized query has no text.
func (q Query) Empty() bool {
	return q.Text == ""
}

// Normalize trims and lower-cases s and collapses runs of whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Tokenize splits s into lower-cased alphanumeric words.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func runeLen(s string) int {
	return len([]rune(s))
}

func containsFold(haystack, needle string) bool {
	return needle != "" && strings.Contains(strings.ToLower(haystack), needle)
}

func anyContains(values []string, needle string) bool {
	for _, v := range values {
		if containsFold(v, needle) {
			return true
		}
	}
	return false
}

func hasToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

// titleCase upper-cases the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
