/*
Package cli implements the catalog-search commands.

Every command shares the same start-up path: read ~/.catalog-search.json
(or --config), load a .env file, apply CATALOG_SEARCH_* variables, then
apply command-line flags. Flags win over the environment, which wins over
the file.
*/
package cli

import (
	"errors"
	"fmt"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/config"
	"github.com/khanglvm/catalog-search/internal/engine"
	"github.com/khanglvm/catalog-search/internal/history"
	"github.com/khanglvm/catalog-search/internal/logger"
	"github.com/khanglvm/catalog-search/internal/service"
	"github.com/khanglvm/catalog-search/internal/storage"
	"github.com/khanglvm/catalog-search/internal/strategy"
	"github.com/spf13/cobra"
)

// ErrNoCatalog is returned by commands that need a catalog when none is configured.
var ErrNoCatalog = errors.New("no catalog configured: set \"catalog\" in the config file, CATALOG_SEARCH_CATALOG, or pass --catalog")

// Options holds the global flags shared by every command.
type Options struct {
	ConfigPath string
	Catalog    string
	History    string
	LogLevel   string
}

// AddFlags registers the global flags on cmd as persistent flags.
func (o *Options) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.ConfigPath, "config", "", "Config file (default ~/.catalog-search.json)")
	cmd.PersistentFlags().StringVar(&o.Catalog, "catalog", "", "Catalog file (YAML or JSON)")
	cmd.PersistentFlags().StringVar(&o.History, "history", "", "History backend: sqlite, badger or memory")
	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// configPath resolves --config or the default location.
func (o *Options) configPath() (string, error) {
	if o.ConfigPath != "" {
		return o.ConfigPath, nil
	}
	return config.GetDefaultConfigPath()
}

// LoadConfig builds the effective configuration and applies its log level.
func (o *Options) LoadConfig() (*config.Config, error) {
	path, err := o.configPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if err := config.LoadEnvFile(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if o.Catalog != "" {
		cfg.Catalog = o.Catalog
	}
	if o.History != "" {
		cfg.History.Backend = o.History
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCatalog reads the configured catalog and builds its index.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog == "" {
		return nil, ErrNoCatalog
	}
	return catalog.Load(cfg.Catalog)
}

// openStore opens the configured history backend.
func openStore(cfg *config.Config) (*history.Store, error) {
	kv, err := storage.Open(cfg.History.Backend, cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return history.New(kv), nil
}

// newEngine builds the fusion engine from the search settings.
func newEngine(cfg *config.Config) (*engine.Engine, error) {
	ec, err := cfg.EngineConfig()
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{engine.WithConfig(ec)}
	if len(cfg.Search.Strategies) > 0 {
		strategies, err := strategy.ByName(cfg.Search.Strategies)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithStrategies(strategies...))
	}
	return engine.New(opts...)
}

// OpenService wires catalog, history and engine into a service. Release
// it with closeService, which also closes the catalog index.
func (o *Options) OpenService() (*service.Service, *config.Config, error) {
	cfg, err := o.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	c, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}

	e, err := newEngine(cfg)
	if err != nil {
		c.Close()
		return nil, nil, err
	}

	store, err := openStore(cfg)
	if err != nil {
		e.Close()
		c.Close()
		return nil, nil, err
	}

	svc, err := service.New(c,
		service.WithEngine(e),
		service.WithStore(store),
		service.WithHistoryTimeout(cfg.HistoryTimeout()),
	)
	if err != nil {
		store.Close()
		e.Close()
		c.Close()
		return nil, nil, err
	}
	return svc, cfg, nil
}

// closeService closes svc and the catalog it serves.
func closeService(svc *service.Service) error {
	err := svc.Close()
	if cerr := svc.Catalog().Close(); err == nil {
		err = cerr
	}
	return err
}

// NewRootCmd assembles the full command tree.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:   "catalog-search",
		Short: "Query understanding and ranking over a product catalog",
		Long: `catalog-search turns a partial search query into a ranked list of typed
suggestions: matching items, categories, tags, spelling fixes, intents,
comparisons, alternatives and more.

The catalog is a YAML or JSON file. Recent searches and suggestion
feedback are kept in a local history store (SQLite by default) and feed
back into ranking.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.AddFlags(root)

	root.AddCommand(NewSearchCmd(opts))
	root.AddCommand(NewServeCmd(opts))
	root.AddCommand(NewRecentCmd(opts))
	root.AddCommand(NewFeedbackCmd(opts))
	root.AddCommand(NewCatalogCmd(opts))
	root.AddCommand(NewVerifyCmd(opts))
	root.AddCommand(NewBenchmarkCmd(opts))
	root.AddCommand(NewConfigCmd(opts))
	root.AddCommand(NewVersionCmd())

	return root
}
