/*
Package strategy implements the independent scoring strategies that turn a
query into candidate suggestions.

Each Strategy is a pure function of the normalized query and a read-only
Context (catalog, tags, recent searches, feedback). Absence of a match is an
empty result, never an error. Strategies never share mutable state, so the
engine may run them in parallel.
*/
package strategy

import (
	"fmt"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/history"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

// Strategy names.
const (
	NameExact       = "exact"
	NameWeighted    = "weighted"
	NameFuzzy       = "fuzzy"
	NameFulltext    = "fulltext"
	NameIntent      = "intent"
	NamePattern     = "pattern"
	NameTaxonomy    = "taxonomy"
	NameTrending    = "trending"
	NamePredictive  = "predictive"
	NameQuestion    = "question"
	NameWorkflow    = "workflow"
	NameIntegration = "integration"
	NameAlternative = "alternative"
	NameComparison  = "comparison"
	NameInsight     = "insight"
	NameEnhancement = "enhancement"
)

// Strategy produces candidate suggestions for a query.
type Strategy interface {
	Name() string
	Suggest(q Query, c *Context) ([]suggest.Suggestion, error)
}

// Func adapts a plain function to Strategy.
type Func func(q Query, c *Context) ([]suggest.Suggestion, error)

type funcStrategy struct {
	name string
	fn   Func
}

func (f funcStrategy) Name() string { return f.name }

func (f funcStrategy) Suggest(q Query, c *Context) ([]suggest.Suggestion, error) {
	return f.fn(q, c)
}

// New wraps fn as a named strategy.
func New(name string, fn Func) Strategy {
	return funcStrategy{name: name, fn: fn}
}

// Context is the read-only input shared by every strategy in one search.
type Context struct {
	Catalog        *catalog.Catalog
	Tags           *catalog.TagIndex
	RecentSearches []string
	Feedback       map[string]history.FeedbackRecord
}

// NewContext builds a context. When tags is empty the catalog's own tag
// index is used.
func NewContext(c *catalog.Catalog, tags, recent []string, feedback map[string]history.FeedbackRecord) *Context {
	ctx := &Context{
		Catalog:        c,
		RecentSearches: recent,
		Feedback:       feedback,
	}
	switch {
	case len(tags) > 0:
		ctx.Tags = catalog.NewTagIndex(tags)
	case c != nil:
		ctx.Tags = c.TagIndex()
	default:
		ctx.Tags = catalog.NewTagIndex(nil)
	}
	return ctx
}

func (c *Context) items() []catalog.Item {
	return c.Catalog.Items()
}

var registry = []Strategy{
	New(NameExact, exactMatch),
	New(NameWeighted, weightedScore),
	New(NameFuzzy, fuzzyMatch),
	New(NameFulltext, fulltextMatch),
	New(NameIntent, intentMatch),
	New(NamePattern, patternMatch),
	New(NameTaxonomy, taxonomyMatch),
	New(NameTrending, trendingMatch),
	New(NamePredictive, predictiveMatch),
	New(NameQuestion, questionMatch),
	New(NameWorkflow, workflowMatch),
	New(NameIntegration, integrationMatch),
	New(NameAlternative, alternativeMatch),
	New(NameComparison, comparisonMatch),
	New(NameInsight, insightMatch),
	New(NameEnhancement, enhancementMatch),
}

// Defaults returns every built-in strategy in a fixed order.
func Defaults() []Strategy {
	out := make([]Strategy, len(registry))
	copy(out, registry)
	return out
}

// Names returns the names of the built-in strategies.
func Names() []string {
	names := make([]string, len(registry))
	for i, s := range registry {
		names[i] = s.Name()
	}
	return names
}

// ByName returns the built-in strategies with the given names, in the
// order given. An empty list selects all of them.
func ByName(names []string) ([]Strategy, error) {
	if len(names) == 0 {
		return Defaults(), nil
	}

	out := make([]Strategy, 0, len(names))
	for _, name := range names {
		s, ok := lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown strategy %q", name)
		}
		out = append(out, s)
	}
	return out, nil
}

func lookup(name string) (Strategy, bool) {
	for _, s := range registry {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}
