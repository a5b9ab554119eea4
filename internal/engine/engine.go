/*
Package engine fuses the output of the suggestion strategies into one
ranked, de-duplicated and diversity-capped list.

Strategies run concurrently on an ants worker pool. Each result lands in the
slot of its strategy, so fusion sees the same input regardless of scheduling
and a search is deterministic for a given query, catalog and history. A
strategy that errors or panics is logged and contributes nothing.
*/
package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/panjf2000/ants/v2"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/history"
	"github.com/khanglvm/catalog-search/internal/learning"
	"github.com/khanglvm/catalog-search/internal/logger"
	"github.com/khanglvm/catalog-search/internal/strategy"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

// ErrNoStrategies is returned when an engine is built without strategies.
var ErrNoStrategies = errors.New("at least one strategy required")

// Request is the input of one search.
type Request struct {
	Query          string
	Catalog        *catalog.Catalog
	Tags           []string
	RecentSearches []string
	Feedback       map[string]history.FeedbackRecord
}

// Engine runs strategies and fuses their suggestions.
type Engine struct {
	cfg        Config
	strategies []strategy.Strategy
	pool       *ants.Pool
	logger     *log.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithConfig replaces the fusion settings.
func WithConfig(cfg Config) Option {
	return func(e *Engine) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		e.cfg = cfg
		return nil
	}
}

// WithStrategies replaces the strategy set. Order matters for tie-breaks.
func WithStrategies(s ...strategy.Strategy) Option {
	return func(e *Engine) error {
		if len(s) == 0 {
			return ErrNoStrategies
		}
		e.strategies = s
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) error {
		if l == nil {
			l = logger.New("engine")
		}
		e.logger = l
		return nil
	}
}

// WithPoolSize sets the number of strategy workers.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		e.cfg.PoolSize = size
		return nil
	}
}

// New builds an engine with the default strategies and configuration.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:        DefaultConfig(),
		strategies: strategy.Defaults(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.logger == nil {
		e.logger = logger.New("engine")
	}

	pool, err := ants.NewPool(e.cfg.PoolSize)
	if err != nil {
		return nil, err
	}
	e.pool = pool
	return e, nil
}

// Config returns the fusion settings in use.
func (e *Engine) Config() Config {
	return e.cfg
}

// Strategies returns the names of the enabled strategies in order.
func (e *Engine) Strategies() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name()
	}
	return names
}

// Close releases the worker pool.
func (e *Engine) Close() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// Search returns at most MaxResults suggestions for req. It never panics
// and never returns nil.
func (e *Engine) Search(ctx context.Context, req Request) []suggest.Suggestion {
	q := strategy.NewQuery(req.Query)
	if q.Empty() {
		return e.fallback()
	}
	if req.Catalog.Len() == 0 {
		return []suggest.Suggestion{}
	}

	sctx := strategy.NewContext(req.Catalog, req.Tags, req.RecentSearches, req.Feedback)
	results := e.runAll(ctx, q, sctx)

	var scorer *learning.Scorer
	if len(req.Feedback) > 0 && e.cfg.FeedbackBoost > 0 {
		scorer = learning.NewScorer(req.Feedback, e.cfg.FeedbackBoost)
	}

	out := fuse(results, e.Strategies(), e.cfg, scorer)
	e.logger.Debug("search complete", "query", q.Text, "suggestions", len(out))
	return out
}

// fallback answers an empty query.
func (e *Engine) fallback() []suggest.Suggestion {
	out := strategy.FallbackTrending(e.cfg.Fallback)
	if len(out) > e.cfg.MaxResults {
		out = out[:e.cfg.MaxResults]
	}
	return out
}

// runAll executes every strategy and waits for all of them. Strategies not
// yet submitted when ctx is done are skipped.
func (e *Engine) runAll(ctx context.Context, q strategy.Query, sctx *strategy.Context) [][]suggest.Suggestion {
	results := make([][]suggest.Suggestion, len(e.strategies))
	var wg sync.WaitGroup

	for i, s := range e.strategies {
		if ctx.Err() != nil {
			e.logger.Debug("search cancelled", "skipped", len(e.strategies)-i)
			break
		}
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[i] = e.run(s, q, sctx)
		}
		if err := e.pool.Submit(task); err != nil {
			e.logger.Warn("worker pool unavailable, running inline", "strategy", s.Name(), "err", err)
			task()
		}
	}

	wg.Wait()
	return results
}

// run invokes one strategy, converting errors and panics into an empty
// contribution.
func (e *Engine) run(s strategy.Strategy, q strategy.Query, sctx *strategy.Context) (out []suggest.Suggestion) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("strategy panicked", "strategy", s.Name(), "panic", r)
			out = nil
		}
	}()

	res, err := s.Suggest(q, sctx)
	if err != nil {
		e.logger.Warn("strategy failed", "strategy", s.Name(), "err", err)
		return nil
	}
	return res
}
