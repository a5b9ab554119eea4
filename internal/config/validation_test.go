/*
Package config provides unit tests for validation functions.
*/
package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults",
			modify: func(*Config) {},
		},
		{
			name:   "empty sections",
			modify: func(c *Config) { c.History = nil; c.Search = nil },
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: "logLevel",
		},
		{
			name:    "bad backend",
			modify:  func(c *Config) { c.History.Backend = "redis" },
			wantErr: "redis",
		},
		{
			name:    "negative retention",
			modify:  func(c *Config) { c.History.RetentionDays = -1 },
			wantErr: "retentionDays",
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.History.TimeoutMs = -5 },
			wantErr: "timeoutMs",
		},
		{
			name:    "unknown strategy",
			modify:  func(c *Config) { c.Search.Strategies = []string{"exact", "vibes"} },
			wantErr: "vibes",
		},
		{
			name:    "unknown weight",
			modify:  func(c *Config) { c.Search.LayerWeights = map[string]float64{"vibes": 1} },
			wantErr: "layerWeights",
		},
		{
			name:    "negative weight",
			modify:  func(c *Config) { c.Search.LayerWeights = map[string]float64{"exact": -1} },
			wantErr: "layer weight",
		},
		{
			name:    "unknown kind cap",
			modify:  func(c *Config) { c.Search.KindCaps = map[string]int{"gadget": 1} },
			wantErr: "kindCaps",
		},
		{
			name: "boost too large",
			modify: func(c *Config) {
				boost := 2.0
				c.Search.FeedbackBoost = &boost
			},
			wantErr: "feedback boost",
		},
		{
			name:    "duplicate fallback",
			modify:  func(c *Config) { c.Search.Fallback = []string{"dup", "DUP"} },
			wantErr: "duplicate fallback name",
		},
		{
			name:    "negative max results",
			modify:  func(c *Config) { c.Search.MaxResults = -1 },
			wantErr: "maxResults",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should contain %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestValidBackend(t *testing.T) {
	for _, name := range []string{"sqlite", "badger", "memory"} {
		if !ValidBackend(name) {
			t.Errorf("%s should be valid", name)
		}
	}
	if ValidBackend("") || ValidBackend("SQLite") {
		t.Error("empty and mis-cased names should be invalid")
	}
}
