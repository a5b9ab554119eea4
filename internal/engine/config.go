package engine

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/khanglvm/catalog-search/internal/learning"
	"github.com/khanglvm/catalog-search/internal/strategy"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

const (
	// DefaultMaxResults is the overall cap on returned suggestions.
	DefaultMaxResults = 20

	// DefaultKindCap applies to every kind without an explicit cap.
	DefaultKindCap = 2

	// defaultLayerWeight applies to strategies missing from LayerWeights.
	defaultLayerWeight = 1.0
)

// DefaultLayerWeights is the per-strategy confidence multiplier.
var DefaultLayerWeights = map[string]float64{
	strategy.NameExact:       1.0,
	strategy.NameAlternative: 1.0,
	strategy.NameWeighted:    0.95,
	strategy.NameComparison:  0.95,
	strategy.NameIntent:      0.95,
	strategy.NameQuestion:    0.9,
	strategy.NameInsight:     0.9,
	strategy.NameEnhancement: 0.9,
	strategy.NamePattern:     0.9,
	strategy.NameTaxonomy:    0.85,
	strategy.NameWorkflow:    0.85,
	strategy.NameIntegration: 0.85,
	strategy.NamePredictive:  0.8,
	strategy.NameTrending:    0.75,
	strategy.NameFulltext:    0.7,
	strategy.NameFuzzy:       0.6,
}

// Config controls fusion.
type Config struct {
	MaxResults     int
	KindCaps       map[suggest.Kind]int
	DefaultKindCap int
	LayerWeights   map[string]float64
	FeedbackBoost  float64
	Fallback       []string
	PoolSize       int
}

// DefaultConfig returns the standard fusion settings.
func DefaultConfig() Config {
	weights := make(map[string]float64, len(DefaultLayerWeights))
	for k, v := range DefaultLayerWeights {
		weights[k] = v
	}
	fallback := make([]string, len(strategy.DefaultTrending))
	copy(fallback, strategy.DefaultTrending)

	return Config{
		MaxResults: DefaultMaxResults,
		KindCaps: map[suggest.Kind]int{
			suggest.KindItem:    8,
			suggest.KindInsight: 3,
		},
		DefaultKindCap: DefaultKindCap,
		LayerWeights:   weights,
		FeedbackBoost:  learning.DefaultMaxBoost,
		Fallback:       fallback,
		PoolSize:       defaultPoolSize(),
	}
}

func defaultPoolSize() int {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return n
}

// Validate reports settings that would make fusion meaningless.
func (c Config) Validate() error {
	if c.MaxResults < 1 {
		return fmt.Errorf("max results must be positive, got %d", c.MaxResults)
	}
	if c.DefaultKindCap < 1 {
		return fmt.Errorf("default kind cap must be positive, got %d", c.DefaultKindCap)
	}
	for kind, n := range c.KindCaps {
		if !kind.Valid() {
			return fmt.Errorf("unknown kind %q in caps", kind)
		}
		if n < 0 {
			return fmt.Errorf("cap for %s must not be negative, got %d", kind, n)
		}
	}
	for name, w := range c.LayerWeights {
		if w < 0 {
			return fmt.Errorf("layer weight for %s must not be negative, got %f", name, w)
		}
	}
	if c.FeedbackBoost < 0 || c.FeedbackBoost > 1 {
		return fmt.Errorf("feedback boost must be in [0,1], got %f", c.FeedbackBoost)
	}
	if len(c.Fallback) > c.MaxResults {
		return fmt.Errorf("fallback has %d names, more than max results %d", len(c.Fallback), c.MaxResults)
	}
	seen := make(map[string]bool, len(c.Fallback))
	for _, name := range c.Fallback {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return fmt.Errorf("fallback names must not be blank")
		}
		if seen[key] {
			return fmt.Errorf("duplicate fallback name %q", name)
		}
		seen[key] = true
	}
	return nil
}

func (c Config) weight(name string) float64 {
	if w, ok := c.LayerWeights[name]; ok {
		return w
	}
	return defaultLayerWeight
}

func (c Config) capFor(kind suggest.Kind) int {
	if n, ok := c.KindCaps[kind]; ok {
		return n
	}
	return c.DefaultKindCap
}
