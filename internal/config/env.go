package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CATALOG_SEARCH_"

// LoadEnvFile loads variables from the given .env files into the process
// environment without overriding variables that are already set. With no
// paths it loads ./.env if present.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
	}
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides file settings with CATALOG_SEARCH_* variables:
//
//	CATALOG_SEARCH_CATALOG             catalog file
//	CATALOG_SEARCH_LOG_LEVEL           log level
//	CATALOG_SEARCH_HISTORY             history backend
//	CATALOG_SEARCH_HISTORY_PATH        history file or directory
//	CATALOG_SEARCH_RETENTION_DAYS      feedback retention
//	CATALOG_SEARCH_HISTORY_TIMEOUT_MS  history read bound
//	CATALOG_SEARCH_MAX_RESULTS         overall result cap
//	CATALOG_SEARCH_STRATEGIES          comma-separated strategy names
//	CATALOG_SEARCH_FALLBACK            comma-separated trending names
//	CATALOG_SEARCH_POOL_SIZE           strategy workers
func (c *Config) ApplyEnv() error {
	c.fillDefaults()

	if v, ok := lookupEnv("CATALOG"); ok {
		c.Catalog = v
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookupEnv("HISTORY"); ok {
		c.History.Backend = v
	}
	if v, ok := lookupEnv("HISTORY_PATH"); ok {
		c.History.Path = v
	}
	if v, ok := lookupEnv("STRATEGIES"); ok {
		c.Search.Strategies = splitList(v)
	}
	if v, ok := lookupEnv("FALLBACK"); ok {
		c.Search.Fallback = splitList(v)
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"RETENTION_DAYS", &c.History.RetentionDays},
		{"HISTORY_TIMEOUT_MS", &c.History.TimeoutMs},
		{"MAX_RESULTS", &c.Search.MaxResults},
		{"POOL_SIZE", &c.Search.PoolSize},
	}
	for _, e := range ints {
		v, ok := lookupEnv(e.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return &InvalidConfigError{
				Path:    EnvPrefix + e.name,
				Message: fmt.Sprintf("not an integer: %q", v),
				Hint:    "Unset the variable or fix its value",
				Err:     err,
			}
		}
		*e.dst = n
	}

	if err := c.Validate(); err != nil {
		return &InvalidConfigError{
			Path:    "environment",
			Message: err.Error(),
			Hint:    "Check the " + EnvPrefix + "* variables",
			Err:     err,
		}
	}
	return nil
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
