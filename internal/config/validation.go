package config

import (
	"fmt"
	"strings"

	charmlog "github.com/charmbracelet/log"

	"github.com/khanglvm/catalog-search/internal/logger"
	"github.com/khanglvm/catalog-search/internal/storage"
	"github.com/khanglvm/catalog-search/internal/strategy"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

var log = logger.New("config")

// Validate checks every setting. Unset sections are valid.
func (c *Config) Validate() error {
	if c.LogLevel != "" {
		if _, err := charmlog.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("logLevel: unknown level %q", c.LogLevel)
		}
	}
	if c.History != nil {
		if err := c.History.validate(); err != nil {
			return fmt.Errorf("history: %w", err)
		}
	}
	if c.Search != nil {
		if err := c.Search.validate(); err != nil {
			return fmt.Errorf("search: %w", err)
		}
		if _, err := c.EngineConfig(); err != nil {
			return fmt.Errorf("search: %w", err)
		}
	}
	return nil
}

// ValidBackend reports whether name is a known history backend.
func ValidBackend(name string) bool {
	switch name {
	case storage.BackendSQLite, storage.BackendBadger, storage.BackendMemory:
		return true
	}
	return false
}

func (h *HistorySettings) validate() error {
	if h.Backend != "" && !ValidBackend(h.Backend) {
		return fmt.Errorf("backend %q is not one of sqlite, badger, memory", h.Backend)
	}
	if h.RetentionDays < 0 {
		return fmt.Errorf("retentionDays must not be negative, got %d", h.RetentionDays)
	}
	if h.TimeoutMs < 0 {
		return fmt.Errorf("timeoutMs must not be negative, got %d", h.TimeoutMs)
	}
	if h.SweepIntervalMinutes < 0 {
		return fmt.Errorf("sweepIntervalMinutes must not be negative, got %d", h.SweepIntervalMinutes)
	}
	return nil
}

func (s *SearchSettings) validate() error {
	if s.MaxResults < 0 {
		return fmt.Errorf("maxResults must not be negative, got %d", s.MaxResults)
	}
	if _, err := strategy.ByName(s.Strategies); err != nil {
		return fmt.Errorf("strategies: %w (known: %s)", err, strings.Join(strategy.Names(), ", "))
	}

	known := make(map[string]bool)
	for _, name := range strategy.Names() {
		known[name] = true
	}
	for name := range s.LayerWeights {
		if !known[name] {
			return fmt.Errorf("layerWeights: unknown strategy %q", name)
		}
	}
	for name := range s.KindCaps {
		if _, err := suggest.ParseKind(name); err != nil {
			return fmt.Errorf("kindCaps: %w", err)
		}
	}
	return nil
}
