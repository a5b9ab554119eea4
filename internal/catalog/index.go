package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/charmbracelet/log"
)

// Hit is a full-text match with its BM25 score.
type Hit struct {
	Item  Item
	Score float64
}

// Index is an in-memory Bleve index over catalog items.
type Index struct {
	bleveIndex bleve.Index
	items      []Item
	mu         sync.RWMutex
}

// NewIndex indexes items into a fresh in-memory Bleve index.
func NewIndex(items []Item) (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	batch := index.NewBatch()
	for i, it := range items {
		doc := map[string]interface{}{
			"name":        it.Name,
			"description": it.Description,
			"category":    strings.TrimSpace(it.Category + " " + it.Subcategory),
			"tags":        strings.Join(it.Tags, " "),
			"features":    strings.Join(append(append([]string{}, it.Features...), it.UseCases...), " "),
		}
		// Positions are stable for the life of the catalog.
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			log.Warnf("failed to index item %q: %v", it.Name, err)
		}
	}

	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to batch index items: %w", err)
	}

	return &Index{bleveIndex: index, items: items}, nil
}

// buildIndexMapping creates the Bleve document mapping for items.
func buildIndexMapping() mapping.IndexMapping {
	itemMapping := bleve.NewDocumentMapping()
	for _, field := range []string{"name", "description", "category", "tags", "features"} {
		itemMapping.AddFieldMappingsAt(field, bleve.NewTextFieldMapping())
	}

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", itemMapping)
	return indexMapping
}

// Search runs a BM25 match query and returns up to limit hits, best first.
func (i *Index) Search(text string, limit int) ([]Hit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	req := bleve.NewSearchRequestOptions(buildMatchQuery(text), limit, 0, false)
	results, err := i.bleveIndex.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	hits := make([]Hit, 0, len(results.Hits))
	for _, h := range results.Hits {
		pos, err := strconv.Atoi(h.ID)
		if err != nil || pos < 0 || pos >= len(i.items) {
			continue
		}
		hits = append(hits, Hit{Item: i.items[pos], Score: h.Score})
	}
	return hits, nil
}

// Count returns the number of indexed documents.
func (i *Index) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	n, err := i.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}
	return n, nil
}

// Close releases the index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.bleveIndex != nil {
		return i.bleveIndex.Close()
	}
	return nil
}

func buildMatchQuery(text string) query.Query {
	return bleve.NewMatchQuery(text)
}
