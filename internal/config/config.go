/*
Package config handles loading and saving catalog-search configuration.

Configuration is stored in ~/.catalog-search.json. Every field is optional;
missing values fall back to the defaults from NewConfig. Environment
variables (CATALOG_SEARCH_*, optionally from a .env file) override the file.

Schema:

	{
	  "catalog": "/path/to/catalog.yaml",
	  "logLevel": "info",
	  "history": {
	    "backend": "sqlite",
	    "path": "~/.catalog-search/history.db",
	    "retentionDays": 30,
	    "timeoutMs": 200,
	    "sweepIntervalMinutes": 60
	  },
	  "search": {
	    "maxResults": 20,
	    "strategies": ["exact", "weighted", "fuzzy"],
	    "layerWeights": {"fuzzy": 0.6},
	    "kindCaps": {"item": 8, "insight": 3},
	    "defaultKindCap": 2,
	    "feedbackBoost": 0.15,
	    "fallback": ["ChatGPT", "Midjourney"],
	    "poolSize": 4
	  }
	}
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/khanglvm/catalog-search/internal/engine"
	"github.com/khanglvm/catalog-search/internal/history"
	"github.com/khanglvm/catalog-search/internal/service"
	"github.com/khanglvm/catalog-search/internal/storage"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

// Config represents the root configuration structure.
type Config struct {
	// Catalog is the path of the YAML or JSON catalog file.
	Catalog string `json:"catalog,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// History configures the history store.
	History *HistorySettings `json:"history,omitempty"`

	// Search configures the fusion engine.
	Search *SearchSettings `json:"search,omitempty"`
}

// HistorySettings configures recent searches and feedback storage.
type HistorySettings struct {
	// Backend is sqlite, badger or memory.
	Backend string `json:"backend,omitempty"`

	// Path is the SQLite file or Badger directory.
	Path string `json:"path,omitempty"`

	// RetentionDays is how long feedback is kept.
	RetentionDays int `json:"retentionDays,omitempty"`

	// TimeoutMs bounds the history read of a search.
	TimeoutMs int `json:"timeoutMs,omitempty"`

	// SweepIntervalMinutes is how often the server prunes old feedback.
	SweepIntervalMinutes int `json:"sweepIntervalMinutes,omitempty"`
}

// SearchSettings configures fusion.
type SearchSettings struct {
	MaxResults     int                `json:"maxResults,omitempty"`
	Strategies     []string           `json:"strategies,omitempty"`
	LayerWeights   map[string]float64 `json:"layerWeights,omitempty"`
	KindCaps       map[string]int     `json:"kindCaps,omitempty"`
	DefaultKindCap int                `json:"defaultKindCap,omitempty"`
	FeedbackBoost  *float64           `json:"feedbackBoost,omitempty"` // nil keeps the default, 0 disables
	Fallback       []string           `json:"fallback,omitempty"`
	PoolSize       int                `json:"poolSize,omitempty"`
}

// NewConfig creates a configuration with default settings.
func NewConfig() *Config {
	return &Config{
		LogLevel: "info",
		History: &HistorySettings{
			Backend:              storage.BackendSQLite,
			RetentionDays:        int(history.DefaultRetention / (24 * time.Hour)),
			TimeoutMs:            int(service.DefaultHistoryTimeout / time.Millisecond),
			SweepIntervalMinutes: 60,
		},
		Search: &SearchSettings{
			MaxResults:     engine.DefaultMaxResults,
			DefaultKindCap: engine.DefaultKindCap,
		},
	}
}

// GetDefaultConfigPath returns the path to ~/.catalog-search.json
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".catalog-search.json"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// fillDefaults sets every unset field to its default.
func (c *Config) fillDefaults() {
	def := NewConfig()
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.History == nil {
		c.History = def.History
	} else {
		if c.History.Backend == "" {
			c.History.Backend = def.History.Backend
		}
		if c.History.RetentionDays == 0 {
			c.History.RetentionDays = def.History.RetentionDays
		}
		if c.History.TimeoutMs == 0 {
			c.History.TimeoutMs = def.History.TimeoutMs
		}
		if c.History.SweepIntervalMinutes == 0 {
			c.History.SweepIntervalMinutes = def.History.SweepIntervalMinutes
		}
	}
	if c.Search == nil {
		c.Search = def.Search
	} else {
		if c.Search.MaxResults == 0 {
			c.Search.MaxResults = def.Search.MaxResults
		}
		if c.Search.DefaultKindCap == 0 {
			c.Search.DefaultKindCap = def.Search.DefaultKindCap
		}
	}
}

// Retention returns the feedback retention window.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.History.RetentionDays) * 24 * time.Hour
}

// HistoryTimeout returns the bound on history reads.
func (c *Config) HistoryTimeout() time.Duration {
	return time.Duration(c.History.TimeoutMs) * time.Millisecond
}

// SweepInterval returns how often old feedback is pruned.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.History.SweepIntervalMinutes) * time.Minute
}

// EngineConfig overlays the search settings on the engine defaults.
func (c *Config) EngineConfig() (engine.Config, error) {
	ec := engine.DefaultConfig()
	s := c.Search
	if s == nil {
		return ec, nil
	}

	if s.MaxResults > 0 {
		ec.MaxResults = s.MaxResults
	}
	if s.DefaultKindCap > 0 {
		ec.DefaultKindCap = s.DefaultKindCap
	}
	for name, w := range s.LayerWeights {
		ec.LayerWeights[name] = w
	}
	for name, n := range s.KindCaps {
		kind, err := suggest.ParseKind(name)
		if err != nil {
			return ec, err
		}
		ec.KindCaps[kind] = n
	}
	if s.FeedbackBoost != nil {
		ec.FeedbackBoost = *s.FeedbackBoost
	}
	if len(s.Fallback) > 0 {
		ec.Fallback = append([]string(nil), s.Fallback...)
	}
	if s.PoolSize > 0 {
		ec.PoolSize = s.PoolSize
	}
	return ec, ec.Validate()
}
