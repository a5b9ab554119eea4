package learning

import (
	"math"
	"testing"
	"time"

	"github.com/khanglvm/catalog-search/internal/history"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

var base = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func record(kind, text string, selected bool, at time.Time) history.FeedbackRecord {
	return history.FeedbackRecord{SuggestionKind: kind, SuggestionText: text, WasSelected: selected, Timestamp: at}
}

func feedbackMap(recs ...history.FeedbackRecord) map[string]history.FeedbackRecord {
	m := make(map[string]history.FeedbackRecord, len(recs))
	for i, r := range recs {
		m[string(rune('a'+i))] = r
	}
	return m
}

func TestScore_EmptyFeedback(t *testing.T) {
	s := NewScorer(nil, -1)
	if got := s.Boost(suggest.KeyOf(suggest.KindItem, "ChatGPT")); got != 0 {
		t.Errorf("expected no boost, got %f", got)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty scorer, got %d keys", s.Len())
	}
}

func TestScore_ShownOnly(t *testing.T) {
	s := NewScorer(feedbackMap(record("item", "ChatGPT", false, base)), -1)
	if got := s.Score(suggest.KeyOf(suggest.KindItem, "chatgpt")); got != 0 {
		t.Errorf("unselected suggestions should not score, got %f", got)
	}
}

func TestScore_SingleSelection(t *testing.T) {
	s := NewScorer(feedbackMap(record("item", "ChatGPT", true, base)), -1)

	// freq 0.1, recency 1.0, rate 1.0
	want := 0.6*0.1 + 0.3*1.0 + 0.1*1.0
	got := s.Score(suggest.KeyOf(suggest.KindItem, "CHATGPT"))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, got)
	}

	boost := s.Boost(suggest.KeyOf(suggest.KindItem, "chatgpt"))
	if math.Abs(boost-DefaultMaxBoost*want) > 1e-9 {
		t.Errorf("expected boost %f, got %f", DefaultMaxBoost*want, boost)
	}
}

func TestBoost_ZeroMax(t *testing.T) {
	s := NewScorer(feedbackMap(record("item", "ChatGPT", true, base)), 0)
	key := suggest.KeyOf(suggest.KindItem, "chatgpt")
	if s.Score(key) <= 0 {
		t.Fatal("expected a positive score")
	}
	if got := s.Boost(key); got != 0 {
		t.Errorf("zero max boost should disable boosting, got %f", got)
	}
}

func TestScore_RecencyRelativeToNewest(t *testing.T) {
	s := NewScorer(feedbackMap(
		record("item", "Old", true, base.Add(-24*time.Hour)),
		record("item", "New", true, base),
	), -1)

	oldScore := s.Score(suggest.KeyOf(suggest.KindItem, "old"))
	newScore := s.Score(suggest.KeyOf(suggest.KindItem, "new"))

	if newScore <= oldScore {
		t.Errorf("newer selection should score higher: new=%f old=%f", newScore, oldScore)
	}
	// One half-life apart: recency 0.5 vs 1.0.
	if diff := newScore - oldScore; math.Abs(diff-0.3*0.5) > 1e-9 {
		t.Errorf("expected recency difference 0.15, got %f", diff)
	}
}

func TestScore_FrequencySaturates(t *testing.T) {
	recs := make([]history.FeedbackRecord, 0, 15)
	for i := 0; i < 15; i++ {
		recs = append(recs, record("tag", "video", true, base))
	}
	s := NewScorer(feedbackMap(recs...), -1)

	got := s.Score(suggest.KeyOf(suggest.KindTag, "video"))
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("expected saturated score 1.0, got %f", got)
	}
	if boost := s.Boost(suggest.KeyOf(suggest.KindTag, "video")); boost > DefaultMaxBoost+1e-9 {
		t.Errorf("boost %f exceeds max", boost)
	}
}

func TestScore_SelectRate(t *testing.T) {
	s := NewScorer(feedbackMap(
		record("item", "A", true, base),
		record("item", "A", false, base),
		record("item", "B", true, base),
	), 0.2)

	a := s.Score(suggest.KeyOf(suggest.KindItem, "a"))
	b := s.Score(suggest.KeyOf(suggest.KindItem, "b"))
	if math.Abs((b-a)-0.1*0.5) > 1e-9 {
		t.Errorf("expected select-rate difference 0.05, got %f", b-a)
	}
}

func TestScore_Deterministic(t *testing.T) {
	fb := feedbackMap(
		record("item", "A", true, base.Add(-3*time.Hour)),
		record("item", "B", true, base),
	)
	first := NewScorer(fb, -1).Rank()
	second := NewScorer(fb, -1).Rank()

	if len(first) != len(second) {
		t.Fatal("rank length differs")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("rank %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRank_Sorting(t *testing.T) {
	s := NewScorer(feedbackMap(
		record("item", "Low", true, base.Add(-72*time.Hour)),
		record("item", "High", true, base),
		record("item", "High", true, base),
		record("tag", "Never", false, base),
	), -1)

	ranked := s.Rank()
	if len(ranked) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(ranked))
	}
	if ranked[0].Key.Text != "high" {
		t.Errorf("expected high first, got %s", ranked[0].Key.Text)
	}
	if ranked[0].Selected != 2 || ranked[0].Shown != 2 {
		t.Errorf("unexpected counts: %+v", ranked[0])
	}
	if ranked[2].Key.Text != "never" || ranked[2].Score != 0 {
		t.Errorf("expected never last with zero score, got %+v", ranked[2])
	}
}
