package catalog

import (
	"sort"
	"strings"
	"unicode"
)

// minVocabularyLen is the shortest token kept in the spelling vocabulary.
const minVocabularyLen = 3

// Catalog is an immutable set of items plus the indexes derived from them.
type Catalog struct {
	items      []Item
	byID       map[string]int
	byName     map[string]int
	categories []string
	byCategory map[string][]int
	tagIndex   *TagIndex
	tagCounts  map[string]int
	vocabulary map[string]struct{}
	words      []string
	index      *Index
}

// New builds a catalog. When tags is empty the known tags are the union of
// the item tags.
func New(items []Item, tags []string) *Catalog {
	c := &Catalog{
		items:      make([]Item, len(items)),
		byID:       make(map[string]int, len(items)),
		byName:     make(map[string]int, len(items)),
		byCategory: make(map[string][]int),
		tagCounts:  make(map[string]int),
		vocabulary: make(map[string]struct{}),
	}
	copy(c.items, items)

	var itemTags []string
	for i, it := range c.items {
		if it.ID != "" {
			c.byID[it.ID] = i
		}
		name := strings.ToLower(strings.TrimSpace(it.Name))
		if _, exists := c.byName[name]; !exists && name != "" {
			c.byName[name] = i
		}
		if it.Category != "" {
			key := strings.ToLower(it.Category)
			if _, seen := c.byCategory[key]; !seen {
				c.categories = append(c.categories, it.Category)
			}
			c.byCategory[key] = append(c.byCategory[key], i)
		}
		for _, tag := range it.Tags {
			c.tagCounts[strings.ToLower(tag)]++
			itemTags = append(itemTags, tag)
		}
		c.addWords(it.Name, it.Category, it.Subcategory)
		c.addWords(it.Tags...)
	}

	if len(tags) == 0 {
		tags = itemTags
	}
	c.tagIndex = NewTagIndex(tags)
	c.addWords(c.tagIndex.All()...)

	sort.Strings(c.categories)
	c.words = make([]string, 0, len(c.vocabulary))
	for w := range c.vocabulary {
		c.words = append(c.words, w)
	}
	sort.Strings(c.words)

	return c
}

func (c *Catalog) addWords(texts ...string) {
	for _, text := range texts {
		for _, w := range strings.FieldsFunc(strings.ToLower(text), isSeparator) {
			if len([]rune(w)) >= minVocabularyLen {
				c.vocabulary[w] = struct{}{}
			}
		}
	}
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Items returns the catalog items. Callers must not modify the slice.
func (c *Catalog) Items() []Item {
	if c == nil {
		return nil
	}
	return c.items
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// ItemByID looks an item up by identifier.
func (c *Catalog) ItemByID(id string) (Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// FindByName looks an item up by exact name, ignoring case and outer spaces.
func (c *Catalog) FindByName(name string) (Item, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Categories returns the distinct item categories in lexical order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// ItemsInCategory returns the items whose category equals category (case-insensitive).
func (c *Catalog) ItemsInCategory(category string) []Item {
	idx := c.byCategory[strings.ToLower(category)]
	out := make([]Item, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.items[i])
	}
	return out
}

// CountInCategory counts items whose category or subcategory equals category.
func (c *Catalog) CountInCategory(category string) int {
	n := 0
	for _, it := range c.items {
		if it.InCategory(category) {
			n++
		}
	}
	return n
}

// Tags returns the known tags in lexical order.
func (c *Catalog) Tags() []string {
	return c.tagIndex.All()
}

// TagIndex returns the prefix index over the known tags.
func (c *Catalog) TagIndex() *TagIndex {
	return c.tagIndex
}

// TagCount returns how many items carry tag.
func (c *Catalog) TagCount(tag string) int {
	return c.tagCounts[strings.ToLower(tag)]
}

// InVocabulary reports whether word appears in item names, categories or tags.
func (c *Catalog) InVocabulary(word string) bool {
	_, ok := c.vocabulary[strings.ToLower(word)]
	return ok
}

// Vocabulary returns the sorted spelling vocabulary.
func (c *Catalog) Vocabulary() []string {
	return c.words
}

// Index returns the full-text index, or nil when BuildIndex was not called.
func (c *Catalog) Index() *Index {
	return c.index
}

// BuildIndex creates the in-memory full-text index. It is part of
// construction and must run before the catalog is shared.
func (c *Catalog) BuildIndex() error {
	idx, err := NewIndex(c.items)
	if err != nil {
		return err
	}
	c.index = idx
	return nil
}

// Close releases the full-text index.
func (c *Catalog) Close() error {
	if c == nil || c.index == nil {
		return nil
	}
	return c.index.Close()
}
