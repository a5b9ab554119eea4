/*
Package catalog holds the read-only collection of listed products and tools
that the suggestion engine ranks.

A Catalog is built once per process from a JSON or YAML file and never
mutated afterwards. Construction derives the lookup structures every search
needs: category groups, a tag trie, the token vocabulary used for spelling
correction, and an optional in-memory Bleve full-text index.
*/
package catalog

import "strings"

// Item is a single catalog record.
type Item struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	Category     string   `json:"category" yaml:"category"`
	Subcategory  string   `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Tags         []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Features     []string `json:"features,omitempty" yaml:"features,omitempty"`
	UseCases     []string `json:"useCases,omitempty" yaml:"useCases,omitempty"`
	Rating       float64  `json:"rating,omitempty" yaml:"rating,omitempty"`
	Reviews      int      `json:"reviews,omitempty" yaml:"reviews,omitempty"`
	Integrations []string `json:"integrations,omitempty" yaml:"integrations,omitempty"`
	Pricing      string   `json:"pricing,omitempty" yaml:"pricing,omitempty"`
	Trending     bool     `json:"trending,omitempty" yaml:"trending,omitempty"`
}

// HasTag reports whether the item carries tag (case-insensitive).
func (it Item) HasTag(tag string) bool {
	return containsFold(it.Tags, tag)
}

// IntegratesWith reports whether the item lists platform as an integration.
func (it Item) IntegratesWith(platform string) bool {
	return containsFold(it.Integrations, platform)
}

// InCategory reports whether category matches the item's category or subcategory.
func (it Item) InCategory(category string) bool {
	return strings.EqualFold(it.Category, category) || strings.EqualFold(it.Subcategory, category)
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
