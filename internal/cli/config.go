package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/khanglvm/catalog-search/internal/config"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the 'config' command group.
func NewConfigCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or show the configuration file",
	}

	cmd.AddCommand(newConfigInitCmd(opts))
	cmd.AddCommand(newConfigShowCmd(opts))

	return cmd
}

func newConfigInitCmd(opts *Options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Example: `  catalog-search config init --catalog ~/catalog.yaml
  catalog-search config init --config ./dev.json --history memory --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.configPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			cfg := config.NewConfig()
			if opts.Catalog != "" {
				cfg.Catalog = opts.Catalog
			}
			if opts.History != "" {
				cfg.History.Backend = opts.History
			}
			if opts.LogLevel != "" {
				cfg.LogLevel = opts.LogLevel
			}

			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
			if cfg.Catalog == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "  Set \"catalog\" to your catalog file before searching.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after the config file, .env file,
CATALOG_SEARCH_* variables and flags have been applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.LoadConfig()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}
}
