package catalog

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// TagIndex answers prefix and substring lookups over a set of tags.
// Keys are lower-cased; values keep the first spelling seen.
type TagIndex struct {
	trie *patricia.Trie
	tags []string
}

// NewTagIndex builds an index over tags, dropping blanks and
// case-insensitive duplicates.
func NewTagIndex(tags []string) *TagIndex {
	idx := &TagIndex{trie: patricia.NewTrie()}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if idx.trie.Insert(patricia.Prefix(strings.ToLower(tag)), tag) {
			idx.tags = append(idx.tags, tag)
		}
	}
	sort.Slice(idx.tags, func(i, j int) bool {
		return strings.ToLower(idx.tags[i]) < strings.ToLower(idx.tags[j])
	})
	return idx
}

// All returns every indexed tag in lexical order.
func (t *TagIndex) All() []string {
	out := make([]string, len(t.tags))
	copy(out, t.tags)
	return out
}

// Len returns the number of indexed tags.
func (t *TagIndex) Len() int {
	return len(t.tags)
}

// WithPrefix returns tags starting with prefix, in lexical order.
func (t *TagIndex) WithPrefix(prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return []string{}
	}

	var out []string
	err := t.trie.VisitSubtree(patricia.Prefix(prefix), func(_ patricia.Prefix, item patricia.Item) error {
		if tag, ok := item.(string); ok {
			out = append(out, tag)
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting tag trie: %v", err)
	}

	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// Containing returns tags that contain sub anywhere, in lexical order.
func (t *TagIndex) Containing(sub string) []string {
	sub = strings.ToLower(strings.TrimSpace(sub))
	out := []string{}
	if sub == "" {
		return out
	}
	for _, tag := range t.tags {
		if strings.Contains(strings.ToLower(tag), sub) {
			out = append(out, tag)
		}
	}
	return out
}

// Has reports whether tag is indexed (case-insensitive).
func (t *TagIndex) Has(tag string) bool {
	return t.trie.Get(patricia.Prefix(strings.ToLower(strings.TrimSpace(tag)))) != nil
}
