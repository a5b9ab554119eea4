package cli

import (
	"fmt"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the 'verify' command for verifying configuration.
func NewVerifyCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify configuration and catalog",
		Long: `Verify that the configuration is valid, the catalog loads, and every
catalog record has what ranking needs: a name, a category, a unique id
and a rating between 0 and 5.`,
		Example: `  catalog-search verify
  catalog-search verify --catalog ./catalog.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, opts)
		},
	}

	return cmd
}

// runVerify validates the configuration and catalog.
func runVerify(cmd *cobra.Command, opts *Options) error {
	out := cmd.OutOrStdout()

	path, err := opts.configPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	cfg, err := opts.LoadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	fmt.Fprintf(out, "✓ Config file: %s\n", path)
	fmt.Fprintf(out, "✓ History: %s\n", cfg.History.Backend)

	c, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("catalog error: %w", err)
	}
	defer c.Close()

	fmt.Fprintf(out, "✓ Catalog: %s\n", cfg.Catalog)
	fmt.Fprintf(out, "✓ Items: %d in %d categories, %d tags\n", c.Len(), len(c.Categories()), c.TagIndex().Len())

	problems := catalog.Validate(c.Items())
	for _, p := range problems {
		fmt.Fprintf(out, "✗ %s: %s\n", p.Item, p.Message)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d catalog problems found", len(problems))
	}
	return nil
}
