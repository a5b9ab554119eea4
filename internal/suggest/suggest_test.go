package suggest

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/khanglvm/catalog-search/internal/catalog"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{3.7, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConstructorsClamp(t *testing.T) {
	s := Recent("chat", 1.8)
	if s.Confidence != 1 {
		t.Errorf("expected clamped confidence 1, got %v", s.Confidence)
	}
	s = Tag("video", 3, -2)
	if s.Confidence != 0 {
		t.Errorf("expected clamped confidence 0, got %v", s.Confidence)
	}
}

func TestKindDerivedFromDetail(t *testing.T) {
	it := catalog.Item{ID: "x", Name: "Foo", Category: "X", Rating: 4.5}

	tests := []struct {
		s    Suggestion
		want Kind
	}{
		{Recent("foo", 1), KindRecent},
		{ItemOf(it, 1), KindItem},
		{Tag("t", 1, 1), KindTag},
		{Trending(it, 1), KindTrending},
		{Intent("i", "c", 1, 1), KindIntent},
		{Category("c", 1, 1), KindCategory},
		{Pricing("p", "free", 1), KindPricing},
		{Rating("r", 4, 1), KindRating},
		{Insight("i", "c", 1, "d", 1), KindInsight},
		{Enhancement("e", "o", 1), KindEnhancement},
		{Comparison("a vs b", ItemRef{Name: "a"}, ItemRef{Name: "b"}, 1), KindComparison},
		{Question("q", "t", 1), KindQuestion},
		{Workflow("w", "t", "c", 1), KindWorkflow},
		{Integration("i", "Slack", 1, 1), KindIntegration},
		{Alternative(it, "Bar", 1), KindAlternative},
	}

	if len(tests) != len(Kinds) {
		t.Fatalf("constructor table covers %d kinds, want %d", len(tests), len(Kinds))
	}
	for _, tt := range tests {
		if got := tt.s.Kind(); got != tt.want {
			t.Errorf("Kind() = %s, want %s", got, tt.want)
		}
	}

	if (Suggestion{}).Kind() != "" {
		t.Error("zero suggestion should have empty kind")
	}
}

func TestKey(t *testing.T) {
	a := ItemOf(catalog.Item{Name: "Acme AI"}, 0.5)
	b := ItemOf(catalog.Item{Name: "ACME ai"}, 0.9)
	c := Trending(catalog.Item{Name: "Acme AI"}, 0.5)

	if a.Key() != b.Key() {
		t.Error("keys should ignore case")
	}
	if a.Key() == c.Key() {
		t.Error("keys should differ by kind")
	}
	if got := a.Key().String(); got != "item:acme ai" {
		t.Errorf("unexpected key string %q", got)
	}
}

func TestParseKindAndNew(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(strings.ToUpper(string(k)))
		if err != nil {
			t.Fatalf("ParseKind(%s): %v", k, err)
		}
		s, err := New(parsed, "text", 0.5)
		if err != nil {
			t.Fatalf("New(%s): %v", k, err)
		}
		if s.Kind() != k {
			t.Errorf("New(%s) produced kind %s", k, s.Kind())
		}
	}

	if _, err := ParseKind("bogus"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := New("bogus", "x", 1); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestMarshalJSON(t *testing.T) {
	it := catalog.Item{ID: "bar", Name: "Bar", Category: "X", Rating: 4}
	data, err := json.Marshal(Alternative(it, "Foo", 0.9))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if got["type"] != "alternative" {
		t.Errorf("expected type alternative, got %v", got["type"])
	}
	if got["itemId"] != "bar" {
		t.Errorf("expected itemId bar, got %v", got["itemId"])
	}
	if got["category"] != "X" {
		t.Errorf("expected category X, got %v", got["category"])
	}
	if got["description"] != "Alternative to Foo" {
		t.Errorf("unexpected description %v", got["description"])
	}

	data, err = json.Marshal(Recent("chat", 0.4))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "count") {
		t.Errorf("recent suggestion should omit empty fields: %s", data)
	}
}
