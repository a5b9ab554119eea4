package strategy

import (
	"sort"
	"strings"

	"github.com/khanglvm/catalog-search/internal/suggest"
)

const (
	taxonomyLimit = 5

	categoryContainsQuery = 0.85
	queryContainsCategory = 0.75
	tagPrefixConfidence   = 0.8
	tagContainsConfidence = 0.65
)

// taxonomyMatch suggests categories and tags related to the query.
func taxonomyMatch(q Query, c *Context) ([]suggest.Suggestion, error) {
	out := []suggest.Suggestion{}

	var cats []suggest.Suggestion
	for _, cat := range c.Catalog.Categories() {
		lower := strings.ToLower(cat)
		switch {
		case strings.Contains(lower, q.Text):
			cats = append(cats, suggest.Category(cat, c.Catalog.CountInCategory(cat), categoryContainsQuery))
		case strings.Contains(q.Text, lower):
			cats = append(cats, suggest.Category(cat, c.Catalog.CountInCategory(cat), queryContainsCategory))
		}
	}
	out = append(out, limitByConfidence(cats, taxonomyLimit)...)

	var tags []suggest.Suggestion
	prefixed := make(map[string]bool)
	for _, tag := range c.Tags.WithPrefix(q.Text) {
		prefixed[strings.ToLower(tag)] = true
		tags = append(tags, suggest.Tag(tag, c.Catalog.TagCount(tag), tagPrefixConfidence))
	}
	for _, tag := range c.Tags.Containing(q.Text) {
		if prefixed[strings.ToLower(tag)] {
			continue
		}
		tags = append(tags, suggest.Tag(tag, c.Catalog.TagCount(tag), tagContainsConfidence))
	}
	out = append(out, limitByConfidence(tags, taxonomyLimit)...)

	return out, nil
}

// limitByConfidence keeps the n most confident suggestions, ties by text.
func limitByConfidence(s []suggest.Suggestion, n int) []suggest.Suggestion {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Confidence != s[j].Confidence {
			return s[i].Confidence > s[j].Confidence
		}
		return strings.ToLower(s[i].Text) < strings.ToLower(s[j].Text)
	})
	if len(s) > n {
		s = s[:n]
	}
	return s
}
