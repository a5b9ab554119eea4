package strategy

import (
	"math"
	"strings"
	"testing"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New([]catalog.Item{
		{ID: "acme", Name: "Acme AI", Description: "General assistant", Category: "Chatbots", Tags: []string{"chatbot"}, Rating: 4.2, Reviews: 150},
		{ID: "acme-pro", Name: "Acme AI Pro", Description: "Acme for teams", Category: "Chatbots", Tags: []string{"chatbot"}, Rating: 4.0},
		{ID: "foo", Name: "Foo", Description: "Foo draws pictures", Category: "Image Generation", Tags: []string{"image-generation"}, Rating: 4.5, Reviews: 2000, Integrations: []string{"Slack"}},
		{ID: "bar", Name: "Bar", Description: "Bar paints", Category: "Image Generation", Tags: []string{"image-generation", "art"}, Rating: 4.0, Integrations: []string{"Slack", "Notion"}},
		{ID: "baz", Name: "Baz", Description: "Baz renders", Category: "Image Generation", Tags: []string{"image-editing"}, Rating: 3.1},
		{ID: "clip", Name: "Clipster", Description: "Short video editor", Category: "Video Creation", Subcategory: "Editing", Tags: []string{"video"}, Features: []string{"auto captions"}, UseCases: []string{"social clips"}, Trending: true},
	}, nil)
	if err := c.BuildIndex(); err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func run(t *testing.T, name, query string, c *catalog.Catalog, recent ...string) []suggest.Suggestion {
	t.Helper()
	s, ok := lookup(name)
	if !ok {
		t.Fatalf("unknown strategy %s", name)
	}
	out, err := s.Suggest(NewQuery(query), NewContext(c, nil, recent, nil))
	if err != nil {
		t.Fatalf("%s(%q) failed: %v", name, query, err)
	}
	if out == nil {
		t.Fatalf("%s(%q) returned nil slice", name, query)
	}
	for _, s := range out {
		if s.Confidence < 0 || s.Confidence > 1 {
			t.Errorf("%s(%q): confidence %f out of range for %q", name, query, s.Confidence, s.Text)
		}
	}
	return out
}

func texts(s []suggest.Suggestion) []string {
	out := make([]string, len(s))
	for i, x := range s {
		out[i] = x.Text
	}
	return out
}

func find(s []suggest.Suggestion, text string) (suggest.Suggestion, bool) {
	for _, x := range s {
		if strings.EqualFold(x.Text, text) {
			return x, true
		}
	}
	return suggest.Suggestion{}, false
}

func TestNewQuery(t *testing.T) {
	q := NewQuery("  Best   IMAGE\ttools?  ")
	if q.Text != "best image tools?" {
		t.Errorf("unexpected normalized text %q", q.Text)
	}
	if strings.Join(q.Tokens, ",") != "best,image,tools" {
		t.Errorf("unexpected tokens %v", q.Tokens)
	}
	if !NewQuery(" \t ").Empty() {
		t.Error("whitespace query should be empty")
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"flaw", "lawn", 2},
		{"café", "cafe", 1},
	}
	for _, tt := range tests {
		if got := Levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTokenSimilarity(t *testing.T) {
	tests := []struct {
		query, target string
		want          float64
	}{
		{"acme", "Acme AI Chatbots", 1.0},
		{"acm", "Acme AI", 0.7},
		{"acne", "Acme AI", 0.4},
		{"zzzz", "Acme AI", 0},
		{"a", "Acme AI", 0},
		{"acme zzzz", "Acme AI", 0.5},
	}
	for _, tt := range tests {
		if got := TokenSimilarity(tt.query, tt.target); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("TokenSimilarity(%q, %q) = %f, want %f", tt.query, tt.target, got, tt.want)
		}
	}
}

func TestCloseSpellingRejectsShortTokens(t *testing.T) {
	if closeSpelling("ab", "cd") {
		t.Error("two-letter tokens with distance 2 should not be close")
	}
	if !closeSpelling("image", "imagr") {
		t.Error("one edit on a five-letter token should be close")
	}
}

func TestSemanticSimilarity(t *testing.T) {
	if got := SemanticSimilarity("photo editor", "image edit"); got != 1 {
		t.Errorf("synonyms should fully overlap, got %f", got)
	}
	if got := SemanticSimilarity("video", "music"); got != 0 {
		t.Errorf("unrelated words should not overlap, got %f", got)
	}
	if got := SemanticSimilarity("", "music"); got != 0 {
		t.Errorf("empty input should score 0, got %f", got)
	}
}

func TestExactMatch(t *testing.T) {
	c := testCatalog(t)
	out := run(t, NameExact, "acme ai", c)

	if len(out) != 2 {
		t.Fatalf("expected 2 matches, got %v", texts(out))
	}
	if out[0].Text != "Acme AI" || out[0].Confidence != 1.0 {
		t.Errorf("expected exact match first with 1.0, got %q %f", out[0].Text, out[0].Confidence)
	}
	if out[1].Confidence != 0.9 {
		t.Errorf("expected prefix match 0.9, got %f", out[1].Confidence)
	}

	out = run(t, NameExact, "ster", c)
	if len(out) != 1 || out[0].Confidence != 0.8 {
		t.Errorf("expected substring match 0.8, got %v", out)
	}
}

func TestWeightedScore(t *testing.T) {
	c := testCatalog(t)

	out := run(t, NameWeighted, "acme ai", c)
	if len(out) == 0 {
		t.Fatal("expected weighted matches")
	}
	if out[0].Text != "Acme AI" {
		t.Errorf("expected exact name to rank first, got %v", texts(out))
	}

	out = run(t, NameWeighted, "image generation", c)
	if len(out) != 3 {
		t.Fatalf("expected three category matches, got %v", texts(out))
	}
	// Foo has the best quality boost.
	if out[0].Text != "Foo" {
		t.Errorf("expected Foo first, got %v", texts(out))
	}
	for _, s := range out {
		if s.Confidence > 0.95 {
			t.Errorf("non-exact confidence should be capped, got %f", s.Confidence)
		}
	}

	if out := run(t, NameWeighted, "zzzz", c); len(out) != 0 {
		t.Errorf("expected no matches, got %v", texts(out))
	}
}

func TestFuzzyMatch(t *testing.T) {
	c := testCatalog(t)
	out := run(t, NameFuzzy, "clipstr", c)
	if _, ok := find(out, "Clipster"); !ok {
		t.Errorf("expected fuzzy match on Clipster, got %v", texts(out))
	}
	for _, s := range out {
		if s.Confidence > fuzzyConfidence {
			t.Errorf("fuzzy confidence %f above %f", s.Confidence, fuzzyConfidence)
		}
	}
}

func TestFulltextMatch(t *testing.T) {
	c := testCatalog(t)
	out := run(t, NameFulltext, "captions", c)
	if len(out) == 0 || out[0].Text != "Clipster" {
		t.Fatalf("expected Clipster from feature text, got %v", texts(out))
	}
	if math.Abs(out[0].Confidence-fulltextWeight) > 1e-9 {
		t.Errorf("best hit should score %f, got %f", fulltextWeight, out[0].Confidence)
	}

	bare := catalog.New(c.Items(), nil)
	if out := run(t, NameFulltext, "captions", bare); len(out) != 0 {
		t.Errorf("catalog without index should yield nothing, got %v", texts(out))
	}
}

func TestIntentMatch(t *testing.T) {
	c := testCatalog(t)

	out := run(t, NameIntent, "photo tools", c)
	s, ok := find(out, "Image Generation")
	if !ok {
		t.Fatalf("expected image intent, got %v", texts(out))
	}
	if d := s.Detail.(suggest.IntentDetail); d.Count != 3 {
		t.Errorf("expected count 3, got %d", d.Count)
	}

	// Keyword inside a longer word.
	if _, ok := find(run(t, NameIntent, "short videos", c), "Video Creation"); !ok {
		t.Error("expected video intent from token overlap")
	}

	// Short keywords need whole tokens.
	if _, ok := find(run(t, NameIntent, "guide", c), "Design"); ok {
		t.Error("'ui' inside 'guide' should not trigger design intent")
	}
	if _, ok := find(run(t, NameIntent, "start", c), "Image Generation"); ok {
		t.Error("'art' inside 'start' should not trigger image intent")
	}
	if _, ok := find(run(t, NameIntent, "art ideas", c), "Image Generation"); !ok {
		t.Error("expected image intent from whole-token 'art'")
	}
}

func TestPatternMatch(t *testing.T) {
	c := testCatalog(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"free image tools", []string{"Free tools"}},
		{"4 star chatbots", []string{"Tools rated 4+ stars"}},
		{"rated 4.5 apps", []string{"Tools rated 4.5+ stars"}},
		{"3 out of 5", []string{"Tools rated 3+ stars"}},
		{"4+ rating", []string{"Tools rated 4+ stars"}},
		{"top rated", []string{"Tools rated 4.5+ stars"}},
		{"9 stars", nil},
		{"free trial", []string{"Free tools", "Tools with a free trial"}},
	}
	for _, tt := range tests {
		got := texts(run(t, NamePattern, tt.query, c))
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("pattern(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestTaxonomyMatch(t *testing.T) {
	c := testCatalog(t)

	out := run(t, NameTaxonomy, "image", c)
	cat, ok := find(out, "Image Generation")
	if !ok || cat.Kind() != suggest.KindCategory || cat.Confidence != categoryContainsQuery {
		t.Errorf("expected category suggestion, got %+v", out)
	}
	tag, ok := find(out, "image-generation")
	if !ok || tag.Confidence != tagPrefixConfidence {
		t.Errorf("expected prefix tag, got %+v", out)
	}
	if d := tag.Detail.(suggest.TagDetail); d.Count != 2 {
		t.Errorf("expected tag count 2, got %d", d.Count)
	}

	out = run(t, NameTaxonomy, "generation", c)
	tag, ok = find(out, "image-generation")
	if !ok || tag.Confidence != tagContainsConfidence {
		t.Errorf("expected substring tag, got %+v", out)
	}
}

func TestTrendingMatch(t *testing.T) {
	c := testCatalog(t)

	out := run(t, NameTrending, "image", c)
	if len(out) != 1 || out[0].Text != "Foo" || out[0].Kind() != suggest.KindTrending {
		t.Errorf("expected popular Foo only, got %v", texts(out))
	}
	out = run(t, NameTrending, "video", c)
	if len(out) != 1 || out[0].Text != "Clipster" {
		t.Errorf("expected flagged Clipster, got %v", texts(out))
	}
}

func TestPredictiveMatch(t *testing.T) {
	c := testCatalog(t)

	out := run(t, NamePredictive, "image", c, "image generators", "Image", "music")
	recent, ok := find(out, "image generators")
	if !ok || recent.Kind() != suggest.KindRecent {
		t.Fatalf("expected similar recent search, got %v", texts(out))
	}
	if _, ok := find(out, "music"); ok {
		t.Error("dissimilar recent search should be filtered")
	}
	for _, s := range out {
		if s.Kind() == suggest.KindRecent && strings.EqualFold(s.Text, "image") {
			t.Error("recent search equal to query should be skipped")
		}
	}

	var items []string
	for _, s := range out {
		if s.Kind() == suggest.KindItem {
			items = append(items, s.Text)
		}
	}
	if strings.Join(items, ",") != "Foo,Bar,Baz" {
		t.Errorf("expected items by popularity, got %v", items)
	}
}

func TestQuestionMatch(t *testing.T) {
	c := testCatalog(t)

	tests := map[string]string{
		"how do i edit videos":      "How to edit videos",
		"how to make a logo":        "How to make a logo",
		"what is a chatbot?":        "What is chatbot?",
		"which image tool":          "Which image tool?",
		"best ai for writing":       "Best ai for writing",
		"the best image generators": "Best image generators",
	}
	for query, want := range tests {
		out := run(t, NameQuestion, query, c)
		if len(out) != 1 || out[0].Text != want {
			t.Errorf("question(%q) = %v, want %q", query, texts(out), want)
		}
	}
	if out := run(t, NameQuestion, "image generators", c); len(out) != 0 {
		t.Errorf("expected no question, got %v", texts(out))
	}
}

func TestWorkflowMatch(t *testing.T) {
	c := testCatalog(t)

	out := run(t, NameWorkflow, "i want to edit a video", c)
	if len(out) != 1 || out[0].Text != "Workflow: Edit a video" {
		t.Fatalf("unexpected workflow result %v", texts(out))
	}
	if d := out[0].Detail.(suggest.WorkflowDetail); d.Category != "Video Creation" {
		t.Errorf("unexpected category %q", d.Category)
	}
}

func TestIntegrationMatch(t *testing.T) {
	c := testCatalog(t)

	out := run(t, NameIntegration, "works with slack", c)
	if len(out) != 1 {
		t.Fatalf("expected one integration, got %v", texts(out))
	}
	d := out[0].Detail.(suggest.IntegrationDetail)
	if d.Count != 2 || out[0].Confidence != integrationConfidence {
		t.Errorf("expected 2 Slack tools at %f, got %d at %f", integrationConfidence, d.Count, out[0].Confidence)
	}

	out = run(t, NameIntegration, "figma plugin", c)
	if len(out) != 1 || out[0].Confidence != integrationNoMatches {
		t.Errorf("expected low-confidence Figma suggestion, got %+v", out)
	}
}

func TestAlternativeMatch(t *testing.T) {
	c := testCatalog(t)

	for _, query := range []string{"alternative to foo", "foo alternatives", "tools like foo", "instead of foo"} {
		out := run(t, NameAlternative, query, c)
		if strings.Join(texts(out), ",") != "Bar,Baz" {
			t.Errorf("alternative(%q) = %v, want Bar,Baz", query, texts(out))
			continue
		}
		if out[0].Confidence != alternativeTop || math.Abs(out[1].Confidence-(alternativeTop-alternativeStep)) > 1e-9 {
			t.Errorf("unexpected confidences %f %f", out[0].Confidence, out[1].Confidence)
		}
		if d := out[0].Detail.(suggest.AlternativeDetail); d.Of != "Foo" {
			t.Errorf("expected source Foo, got %q", d.Of)
		}
	}

	if out := run(t, NameAlternative, "alternative to nothing", c); len(out) != 0 {
		t.Errorf("unknown source should yield nothing, got %v", texts(out))
	}
}

func TestComparisonMatch(t *testing.T) {
	c := testCatalog(t)

	out := run(t, NameComparison, "foo vs bar", c)
	if len(out) != 1 || out[0].Text != "Foo vs Bar" || out[0].Confidence != comparisonResolved {
		t.Fatalf("unexpected comparison %+v", out)
	}

	out = run(t, NameComparison, "foo versus unknown thing", c)
	if len(out) != 1 || out[0].Text != "Foo vs Unknown Thing" || out[0].Confidence != comparisonUnresolved {
		t.Errorf("unexpected partial comparison %+v", out)
	}

	if out := run(t, NameComparison, "vs bar", c); len(out) != 0 {
		t.Errorf("empty side should not compare, got %v", texts(out))
	}
}

func TestInsightMatch(t *testing.T) {
	c := testCatalog(t)

	out := run(t, NameInsight, "image", c)
	if len(out) != 1 || out[0].Text != "3 Image Generation tools match" {
		t.Fatalf("unexpected insight %v", texts(out))
	}
	d := out[0].Detail.(suggest.InsightDetail)
	if d.Description != "Average rating 3.9" {
		t.Errorf("unexpected description %q", d.Description)
	}
	want := insightBase + insightStep*3/4
	if math.Abs(out[0].Confidence-want) > 1e-9 {
		t.Errorf("expected confidence %f, got %f", want, out[0].Confidence)
	}

	if out := run(t, NameInsight, "clipster", c); len(out) != 0 {
		t.Errorf("single-item groups should not produce insights, got %v", texts(out))
	}
}

func TestEnhancementMatch(t *testing.T) {
	c := testCatalog(t)

	out := run(t, NameEnhancement, "imgae generaton", c)
	if len(out) != 1 || out[0].Text != "Did you mean: image generation" {
		t.Fatalf("unexpected correction %v", texts(out))
	}
	if d := out[0].Detail.(suggest.EnhancementDetail); d.Original != "imgae generaton" {
		t.Errorf("unexpected original %q", d.Original)
	}

	if out := run(t, NameEnhancement, "image generation", c); len(out) != 0 {
		t.Errorf("known words need no correction, got %v", texts(out))
	}
}

func TestFallbackTrending(t *testing.T) {
	out := FallbackTrending(DefaultTrending)
	if len(out) != len(DefaultTrending) {
		t.Fatalf("expected %d suggestions, got %d", len(DefaultTrending), len(out))
	}
	for i, s := range out {
		if s.Text != DefaultTrending[i] || s.Kind() != suggest.KindTrending {
			t.Errorf("unexpected fallback %d: %+v", i, s)
		}
	}
	if out[0].Confidence != 1.0 || math.Abs(out[5].Confidence-0.75) > 1e-9 {
		t.Errorf("unexpected confidences %f..%f", out[0].Confidence, out[5].Confidence)
	}
}

func TestFallbackTrendingDedupe(t *testing.T) {
	out := FallbackTrending([]string{"Claude", "", "claude", "CLAUDE ", "Gemini"})
	got := make([]string, 0, len(out))
	for _, s := range out {
		got = append(got, s.Text)
	}
	if len(got) != 2 || got[0] != "Claude" || got[1] != "Gemini" {
		t.Fatalf("expected [Claude Gemini], got %v", got)
	}
	if math.Abs(out[1].Confidence-0.95) > 1e-9 {
		t.Errorf("expected confidence to step from kept names, got %f", out[1].Confidence)
	}
}

func TestByName(t *testing.T) {
	all, err := ByName(nil)
	if err != nil || len(all) != len(Names()) {
		t.Fatalf("expected all strategies, got %d (%v)", len(all), err)
	}

	some, err := ByName([]string{NameFuzzy, NameExact})
	if err != nil {
		t.Fatal(err)
	}
	if some[0].Name() != NameFuzzy || some[1].Name() != NameExact {
		t.Errorf("unexpected order %s,%s", some[0].Name(), some[1].Name())
	}

	if _, err := ByName([]string{"neural"}); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestStrategiesHandleEmptyCatalog(t *testing.T) {
	empty := catalog.New(nil, nil)
	for _, s := range Defaults() {
		out, err := s.Suggest(NewQuery("alternative to foo vs bar 4 stars"), NewContext(empty, nil, nil, nil))
		if err != nil {
			t.Errorf("%s failed on empty catalog: %v", s.Name(), err)
		}
		if out == nil {
			t.Errorf("%s returned nil on empty catalog", s.Name())
		}
	}
}
