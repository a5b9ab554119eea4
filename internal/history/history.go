/*
Package history persists the recent-search log and the feedback log.

All keys live under the "catalog-search:" namespace of a storage.KV:

	catalog-search:recent                       msgpack []string, most recent first
	catalog-search:feedback:<unixnano>-<uuid>   msgpack FeedbackRecord

Feedback keys embed a zero-padded timestamp so a prefix listing returns
records oldest first. The Store serializes its own mutations; readers get
a consistent snapshot of each key.
*/
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/khanglvm/catalog-search/internal/logger"
	"github.com/khanglvm/catalog-search/internal/storage"
)

const (
	// Namespace prefixes every key written by the store.
	Namespace = "catalog-search:"

	// MaxRecentSearches bounds the recent-search log.
	MaxRecentSearches = 5

	// DefaultRetention is how long feedback records are kept.
	DefaultRetention = 30 * 24 * time.Hour

	recentKey      = Namespace + "recent"
	feedbackPrefix = Namespace + "feedback:"
)

var log = logger.New("history")

// FeedbackRecord is one user interaction with a suggestion.
type FeedbackRecord struct {
	ID             string    `msgpack:"id" json:"id"`
	Query          string    `msgpack:"query" json:"query"`
	SuggestionKind string    `msgpack:"kind" json:"suggestionKind"`
	SuggestionText string    `msgpack:"text" json:"suggestionText"`
	WasSelected    bool      `msgpack:"selected" json:"wasSelected"`
	Timestamp      time.Time `msgpack:"ts" json:"timestamp"`
}

// Snapshot is a point-in-time copy of the history used by one search.
type Snapshot struct {
	RecentSearches []string
	Feedback       map[string]FeedbackRecord
}

// Store is the namespaced history store over a KV backend.
type Store struct {
	kv  storage.KV
	mu  sync.Mutex
	now func() time.Time
}

// New creates a store over kv.
func New(kv storage.KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// AddRecentSearch moves term to the front of the recent log, removing any
// case-insensitive duplicate and keeping at most MaxRecentSearches entries.
func (s *Store) AddRecentSearch(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.recent(ctx)
	if err != nil {
		return err
	}

	updated := make([]string, 0, MaxRecentSearches)
	updated = append(updated, term)
	for _, existing := range current {
		if len(updated) == MaxRecentSearches {
			break
		}
		if !strings.EqualFold(existing, term) {
			updated = append(updated, existing)
		}
	}

	data, err := msgpack.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to encode recent searches: %w", err)
	}
	return s.kv.Set(ctx, recentKey, data)
}

// RecentSearches returns the recent log, most recent first.
func (s *Store) RecentSearches(ctx context.Context) ([]string, error) {
	return s.recent(ctx)
}

func (s *Store) recent(ctx context.Context) ([]string, error) {
	data, err := s.kv.Get(ctx, recentKey)
	if errors.Is(err, storage.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var terms []string
	if err := msgpack.Unmarshal(data, &terms); err != nil {
		// A corrupt list is replaced on the next insert.
		log.Warn("discarding unreadable recent searches", "err", err)
		return []string{}, nil
	}
	if terms == nil {
		terms = []string{}
	}
	return terms, nil
}

// AppendFeedback stores rec, assigning an ID and timestamp when missing.
// It returns the stored record.
func (s *Store) AppendFeedback(ctx context.Context, rec FeedbackRecord) (FeedbackRecord, error) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now()
	}
	if rec.ID == "" {
		rec.ID = feedbackID(rec.Timestamp)
	}

	data, err := msgpack.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("failed to encode feedback: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, feedbackPrefix+rec.ID, data); err != nil {
		return rec, err
	}
	return rec, nil
}

// feedbackID returns a key suffix that sorts by time and never collides.
func feedbackID(ts time.Time) string {
	return fmt.Sprintf("%020d-%s", ts.UnixNano(), uuid.NewString())
}

// Feedback returns every stored feedback record keyed by ID.
func (s *Store) Feedback(ctx context.Context) (map[string]FeedbackRecord, error) {
	entries, err := s.kv.List(ctx, feedbackPrefix)
	if err != nil {
		return nil, err
	}

	records := make(map[string]FeedbackRecord, len(entries))
	for _, e := range entries {
		var rec FeedbackRecord
		if err := msgpack.Unmarshal(e.Value, &rec); err != nil {
			log.Warn("skipping unreadable feedback record", "key", e.Key, "err", err)
			continue
		}
		records[strings.TrimPrefix(e.Key, feedbackPrefix)] = rec
	}
	return records, nil
}

// PruneFeedback deletes records older than olderThan and returns how many
// were removed.
func (s *Store) PruneFeedback(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := s.now().Add(-olderThan)
	return s.deleteFeedback(ctx, func(rec FeedbackRecord) bool {
		return rec.Timestamp.Before(cutoff)
	})
}

// ClearFeedback deletes every feedback record.
func (s *Store) ClearFeedback(ctx context.Context) (int, error) {
	return s.deleteFeedback(ctx, func(FeedbackRecord) bool { return true })
}

func (s *Store) deleteFeedback(ctx context.Context, match func(FeedbackRecord) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.kv.List(ctx, feedbackPrefix)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		var rec FeedbackRecord
		if err := msgpack.Unmarshal(e.Value, &rec); err != nil {
			// Unreadable records can never be used again.
			rec = FeedbackRecord{}
		}
		if !match(rec) {
			continue
		}
		if err := s.kv.Delete(ctx, e.Key); err != nil {
			return removed, fmt.Errorf("failed to delete %s: %w", e.Key, err)
		}
		removed++
	}
	return removed, nil
}

// Snapshot reads the recent log and the feedback log.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	recent, err := s.RecentSearches(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read recent searches: %w", err)
	}
	feedback, err := s.Feedback(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read feedback: %w", err)
	}
	return Snapshot{RecentSearches: recent, Feedback: feedback}, nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.kv.Close()
}
