// Package suggest defines the Suggestion value returned by every search.
//
// A Suggestion is a tagged variant: the Kind is derived from the concrete
// Detail type, and each Detail carries only the optional fields that make
// sense for its kind. Constructors clamp confidence to [0,1].
package suggest

import (
	"fmt"
	"math"
	"strings"
)

// Kind identifies what a suggestion refers to.
type Kind string

const (
	KindRecent      Kind = "recent"
	KindItem        Kind = "item"
	KindTag         Kind = "tag"
	KindTrending    Kind = "trending"
	KindIntent      Kind = "intent"
	KindCategory    Kind = "category"
	KindPricing     Kind = "pricing"
	KindRating      Kind = "rating"
	KindInsight     Kind = "insight"
	KindEnhancement Kind = "enhancement"
	KindComparison  Kind = "comparison"
	KindQuestion    Kind = "question"
	KindWorkflow    Kind = "workflow"
	KindIntegration Kind = "integration"
	KindAlternative Kind = "alternative"
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{
	KindRecent, KindItem, KindTag, KindTrending, KindIntent,
	KindCategory, KindPricing, KindRating, KindInsight, KindEnhancement,
	KindComparison, KindQuestion, KindWorkflow, KindIntegration, KindAlternative,
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind parses a kind name, ignoring case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown suggestion kind %q", s)
	}
	return k, nil
}

// Suggestion is a ranked, typed recommendation.
type Suggestion struct {
	Text       string
	Confidence float64
	Detail     Detail
}

// Kind returns the suggestion kind, or "" for a suggestion without detail.
func (s Suggestion) Kind() Kind {
	if s.Detail == nil {
		return ""
	}
	return kindOf(s.Detail)
}

// Key is the identity used for deduplication: kind plus lower-cased text.
type Key struct {
	Kind Kind
	Text string
}

func (k Key) String() string {
	return string(k.Kind) + ":" + k.Text
}

// Key returns the suggestion's identity key.
func (s Suggestion) Key() Key {
	return Key{Kind: s.Kind(), Text: strings.ToLower(s.Text)}
}

// KeyOf builds an identity key from raw parts.
func KeyOf(kind Kind, text string) Key {
	return Key{Kind: kind, Text: strings.ToLower(text)}
}

// Clamp returns s with its confidence forced into [0,1].
func (s Suggestion) Clamp() Suggestion {
	s.Confidence = Clamp(s.Confidence)
	return s
}

// Clamp forces v into [0,1]. NaN becomes 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func build(text string, conf float64, d Detail) Suggestion {
	return Suggestion{Text: text, Confidence: Clamp(conf), Detail: d}
}
