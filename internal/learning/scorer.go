package learning

import (
	"math"
	"sort"
	"time"

	"github.com/khanglvm/catalog-search/internal/history"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

const (
	// frequencyWeight is the weight for frequency in the score (0.6 = 60%).
	frequencyWeight = 0.6

	// recencyWeight is the weight for recency in the score (0.3 = 30%).
	recencyWeight = 0.3

	// selectRateWeight is the weight for the selection rate (0.1 = 10%).
	selectRateWeight = 0.1

	// frequencySaturation is the selection count treated as "high frequency".
	frequencySaturation = 10.0

	// recencyHalfLife is the half-life for exponential decay (24 hours).
	recencyHalfLife = 24 * time.Hour

	// DefaultMaxBoost caps the boost added to a suggestion's composite score.
	DefaultMaxBoost = 0.15
)

// stats aggregates the feedback for one suggestion key.
type stats struct {
	shown    int
	selected []time.Time
}

// Scorer turns a feedback snapshot into per-suggestion boosts. Recency is
// measured against the newest record in the snapshot, so the same snapshot
// always yields the same scores.
type Scorer struct {
	byKey    map[suggest.Key]*stats
	newest   time.Time
	maxBoost float64
}

// NewScorer indexes feedback. A negative maxBoost selects DefaultMaxBoost;
// zero yields a scorer whose boosts are all zero.
func NewScorer(feedback map[string]history.FeedbackRecord, maxBoost float64) *Scorer {
	if maxBoost < 0 {
		maxBoost = DefaultMaxBoost
	}

	s := &Scorer{byKey: make(map[suggest.Key]*stats), maxBoost: maxBoost}
	for _, rec := range feedback {
		key := suggest.KeyOf(suggest.Kind(rec.SuggestionKind), rec.SuggestionText)
		st, ok := s.byKey[key]
		if !ok {
			st = &stats{}
			s.byKey[key] = st
		}
		st.shown++
		if rec.WasSelected {
			st.selected = append(st.selected, rec.Timestamp)
		}
		if rec.Timestamp.After(s.newest) {
			s.newest = rec.Timestamp
		}
	}
	return s
}

// Len returns the number of distinct suggestion keys with feedback.
func (s *Scorer) Len() int {
	return len(s.byKey)
}

// Score returns the raw 0-1 score for key.
// Formula: 0.6*frequency + 0.3*recency + 0.1*selectRate
func (s *Scorer) Score(key suggest.Key) float64 {
	st, ok := s.byKey[key]
	if !ok || len(st.selected) == 0 {
		return 0
	}

	freq := math.Min(float64(len(st.selected))/frequencySaturation, 1.0)
	recency := s.recency(st.selected)
	rate := float64(len(st.selected)) / float64(st.shown)

	return frequencyWeight*freq + recencyWeight*recency + selectRateWeight*rate
}

// Boost returns the additive composite boost for key, at most the
// configured maximum. Keys never selected get no boost.
func (s *Scorer) Boost(key suggest.Key) float64 {
	return s.maxBoost * s.Score(key)
}

// recency averages exponential decay over the selection times.
func (s *Scorer) recency(times []time.Time) float64 {
	if len(times) == 0 {
		return 0
	}

	sum := 0.0
	for _, ts := range times {
		hours := s.newest.Sub(ts).Hours()
		if hours < 0 {
			hours = 0
		}
		// After 24 hours: weight = 0.5
		sum += math.Exp(-math.Ln2 * hours / recencyHalfLife.Hours())
	}
	return math.Min(sum/float64(len(times)), 1.0)
}

// KeyScore is a suggestion key with its feedback score.
type KeyScore struct {
	Key      suggest.Key
	Score    float64
	Selected int
	Shown    int
}

// Rank returns every key with feedback, best first. Ties sort by key.
func (s *Scorer) Rank() []KeyScore {
	out := make([]KeyScore, 0, len(s.byKey))
	for key, st := range s.byKey {
		out = append(out, KeyScore{Key: key, Score: s.Score(key), Selected: len(st.selected), Shown: st.shown})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Key.String() < out[j].Key.String()
	})
	return out
}
