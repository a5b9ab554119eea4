/*
Package service ties a catalog, the fusion engine, the history store and the
feedback recorder together behind the operations exposed by the CLI and the
MCP server.

History is best effort: a search reads a snapshot bounded by HistoryTimeout
and falls back to empty history on error or timeout, and history writes that
fail are logged and dropped.
*/
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/engine"
	"github.com/khanglvm/catalog-search/internal/history"
	"github.com/khanglvm/catalog-search/internal/learning"
	"github.com/khanglvm/catalog-search/internal/logger"
	"github.com/khanglvm/catalog-search/internal/storage"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

// DefaultHistoryTimeout bounds the history read of one search.
const DefaultHistoryTimeout = 200 * time.Millisecond

// ErrCatalogRequired is returned when a service is created without a catalog.
var ErrCatalogRequired = errors.New("catalog required")

// Service is the search facade.
type Service struct {
	catalog        *catalog.Catalog
	engine         *engine.Engine
	store          *history.Store
	recorder       *learning.Recorder
	historyTimeout time.Duration
	logger         *log.Logger

	stop      chan struct{}
	sweepers  sync.WaitGroup
	closeOnce sync.Once
}

// Option configures a Service.
type Option func(*Service) error

// WithEngine uses e instead of an engine with default settings. The
// service takes ownership and closes it.
func WithEngine(e *engine.Engine) Option {
	return func(s *Service) error {
		if e == nil {
			return errors.New("engine must not be nil")
		}
		s.engine = e
		return nil
	}
}

// WithStore uses store for history instead of an in-memory store.
func WithStore(store *history.Store) Option {
	return func(s *Service) error {
		if store == nil {
			return errors.New("store must not be nil")
		}
		s.store = store
		return nil
	}
}

// WithHistoryTimeout sets the bound on history reads during a search.
func WithHistoryTimeout(d time.Duration) Option {
	return func(s *Service) error {
		if d <= 0 {
			d = DefaultHistoryTimeout
		}
		s.historyTimeout = d
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) error {
		if l != nil {
			s.logger = l
		}
		return nil
	}
}

// New creates a service over c.
func New(c *catalog.Catalog, opts ...Option) (*Service, error) {
	if c == nil {
		return nil, ErrCatalogRequired
	}

	s := &Service{
		catalog:        c,
		historyTimeout: DefaultHistoryTimeout,
		logger:         logger.New("service"),
		stop:           make(chan struct{}),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			if s.engine != nil {
				s.engine.Close()
			}
			return nil, err
		}
	}

	if s.engine == nil {
		e, err := engine.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create engine: %w", err)
		}
		s.engine = e
	}
	if s.store == nil {
		s.store = history.New(storage.NewMemory())
	}
	s.recorder = learning.NewRecorder(s.store)
	return s, nil
}

// Catalog returns the catalog being searched.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Engine returns the fusion engine.
func (s *Service) Engine() *engine.Engine {
	return s.engine
}

// Store returns the history store.
func (s *Service) Store() *history.Store {
	return s.store
}

// Search returns ranked suggestions for query using the current history.
func (s *Service) Search(ctx context.Context, query string) []suggest.Suggestion {
	snap := s.snapshot(ctx)
	return s.engine.Search(ctx, engine.Request{
		Query:          query,
		Catalog:        s.catalog,
		RecentSearches: snap.RecentSearches,
		Feedback:       snap.Feedback,
	})
}

// snapshot reads history within historyTimeout. The read runs in its own
// goroutine because backends may ignore ctx.
func (s *Service) snapshot(ctx context.Context) history.Snapshot {
	ctx, cancel := context.WithTimeout(ctx, s.historyTimeout)
	defer cancel()

	type result struct {
		snap history.Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := s.store.Snapshot(ctx)
		done <- result{snap, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			s.logger.Warn("history unavailable, searching without it", "err", r.err)
			return history.Snapshot{}
		}
		return r.snap
	case <-ctx.Done():
		s.logger.Warn("history read timed out, searching without it", "timeout", s.historyTimeout)
		return history.Snapshot{}
	}
}

// RecordFeedback queues a feedback event. It never blocks.
func (s *Service) RecordFeedback(query string, sg suggest.Suggestion, wasSelected bool) {
	s.recorder.RecordFeedback(query, sg, wasSelected)
}

// AddRecentSearch records a search term. Failures are logged.
func (s *Service) AddRecentSearch(ctx context.Context, term string) {
	if err := s.store.AddRecentSearch(ctx, term); err != nil {
		s.logger.Warn("failed to record recent search", "err", err)
	}
}

// RecentSearches returns the recent-search log, most recent first.
func (s *Service) RecentSearches(ctx context.Context) ([]string, error) {
	return s.store.RecentSearches(ctx)
}

// PruneFeedback deletes feedback older than retention and returns how many
// records were removed.
func (s *Service) PruneFeedback(ctx context.Context, retention time.Duration) (int, error) {
	return s.store.PruneFeedback(ctx, retention)
}

// StartSweeper prunes feedback older than retention once immediately and
// then every interval, until ctx is done or the service is closed.
func (s *Service) StartSweeper(ctx context.Context, interval, retention time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = history.DefaultRetention
	}

	s.sweepers.Add(1)
	go func() {
		defer s.sweepers.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			s.sweep(ctx, retention)
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

func (s *Service) sweep(ctx context.Context, retention time.Duration) {
	n, err := s.store.PruneFeedback(ctx, retention)
	if err != nil {
		s.logger.Warn("feedback prune failed", "err", err)
		return
	}
	if n > 0 {
		s.logger.Info("pruned feedback", "records", n, "retention", retention)
	}
}

// Close stops sweepers, flushes pending feedback and releases the engine
// and the store.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stop)
		s.sweepers.Wait()
		s.recorder.Stop()
		s.engine.Close()
		err = s.store.Close()
	})
	return err
}
