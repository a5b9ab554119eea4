package history

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanglvm/catalog-search/internal/storage"
)

func TestAddRecentSearch(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory())

	for _, term := range []string{"chat", "image", "Video", "chat", "music", "code", "  ", "CHAT"} {
		require.NoError(t, s.AddRecentSearch(ctx, term))
	}

	recent, err := s.RecentSearches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CHAT", "code", "music", "Video", "image"}, recent)
}

func TestRecentSearchesEmpty(t *testing.T) {
	s := New(storage.NewMemory())
	recent, err := s.RecentSearches(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, recent)
	assert.Empty(t, recent)
}

func TestRecentSearchesCorruptValue(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, recentKey, []byte{0xc1}))

	s := New(kv)
	recent, err := s.RecentSearches(ctx)
	require.NoError(t, err)
	assert.Empty(t, recent)

	require.NoError(t, s.AddRecentSearch(ctx, "fresh"))
	recent, err = s.RecentSearches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, recent)
}

func TestAppendFeedbackAssignsIDs(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory())

	a, err := s.AppendFeedback(ctx, FeedbackRecord{Query: "chat", SuggestionKind: "item", SuggestionText: "ChatGPT", WasSelected: true})
	require.NoError(t, err)
	b, err := s.AppendFeedback(ctx, FeedbackRecord{Query: "chat", SuggestionKind: "item", SuggestionText: "ChatGPT", WasSelected: true})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID, "replays are stored as separate records")
	assert.False(t, a.Timestamp.IsZero())
	assert.Len(t, a.ID, 20+1+36)

	records, err := s.Feedback(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ChatGPT", records[a.ID].SuggestionText)
	assert.True(t, records[b.ID].WasSelected)
}

func TestFeedbackKeysSortByTime(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := New(kv)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 2; i >= 0; i-- {
		_, err := s.AppendFeedback(ctx, FeedbackRecord{Query: "q", Timestamp: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	entries, err := kv.List(ctx, feedbackPrefix)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	assert.True(t, sort.StringsAreSorted(keys))
}

func TestPruneFeedback(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	ages := []time.Duration{time.Hour, 10 * 24 * time.Hour, 31 * 24 * time.Hour, 90 * 24 * time.Hour}
	for _, age := range ages {
		_, err := s.AppendFeedback(ctx, FeedbackRecord{Query: "q", Timestamp: now.Add(-age)})
		require.NoError(t, err)
	}

	removed, err := s.PruneFeedback(ctx, DefaultRetention)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	records, err := s.Feedback(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	for _, rec := range records {
		assert.True(t, now.Sub(rec.Timestamp) < DefaultRetention)
	}

	removed, err = s.PruneFeedback(ctx, DefaultRetention)
	require.NoError(t, err)
	assert.Zero(t, removed, "prune is idempotent")
}

func TestClearFeedbackKeepsRecent(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory())

	require.NoError(t, s.AddRecentSearch(ctx, "chat"))
	_, err := s.AppendFeedback(ctx, FeedbackRecord{Query: "chat"})
	require.NoError(t, err)

	removed, err := s.ClearFeedback(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Feedback)
	assert.Equal(t, []string{"chat"}, snap.RecentSearches)
}

func TestSnapshotOnSQLite(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewSQLite(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, kv.Init())

	s := New(kv)
	defer s.Close()

	require.NoError(t, s.AddRecentSearch(ctx, "image"))
	rec, err := s.AppendFeedback(ctx, FeedbackRecord{Query: "image", SuggestionKind: "intent", SuggestionText: "Image Generation", WasSelected: true})
	require.NoError(t, err)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"image"}, snap.RecentSearches)
	require.Contains(t, snap.Feedback, rec.ID)
	assert.True(t, snap.Feedback[rec.ID].Timestamp.Equal(rec.Timestamp))
}

func TestConcurrentRecentSearches(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.AddRecentSearch(ctx, []string{"a", "b", "c", "d", "e", "f"}[i%6])
		}(i)
	}
	wg.Wait()

	recent, err := s.RecentSearches(ctx)
	require.NoError(t, err)
	assert.Len(t, recent, MaxRecentSearches)

	seen := map[string]bool{}
	for _, r := range recent {
		assert.False(t, seen[r], "duplicate %q", r)
		seen[r] = true
	}
}

type failingKV struct{ storage.KV }

var errUnavailable = errors.New("unavailable")

func (failingKV) Get(context.Context, string) ([]byte, error)           { return nil, errUnavailable }
func (failingKV) List(context.Context, string) ([]storage.Entry, error) { return nil, errUnavailable }

func TestSnapshotPropagatesErrors(t *testing.T) {
	s := New(failingKV{storage.NewMemory()})
	_, err := s.Snapshot(context.Background())
	assert.ErrorIs(t, err, errUnavailable)
}
