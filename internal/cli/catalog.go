package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/spf13/cobra"
)

// NewCatalogCmd creates the 'catalog' command group.
func NewCatalogCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the configured catalog",
	}

	cmd.AddCommand(newCatalogListCmd(opts))
	cmd.AddCommand(newCatalogCategoriesCmd(opts))

	return cmd
}

func newCatalogListCmd(opts *Options) *cobra.Command {
	var jsonOutput bool
	var category string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List catalog items",
		Example: `  catalog-search catalog list
  catalog-search catalog ls --category Writing
  catalog-search catalog list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(opts)
			if err != nil {
				return err
			}
			defer c.Close()

			items := c.Items()
			if category != "" {
				items = c.ItemsInCategory(category)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if items == nil {
					items = []catalog.Item{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			if len(items) == 0 {
				fmt.Fprintln(out, "No items.")
				return nil
			}
			fmt.Fprintf(out, "Catalog Items (%d):\n\n", len(items))
			for _, it := range items {
				fmt.Fprintf(out, "  %s\n", it.Name)
				fmt.Fprintf(out, "    Category: %s\n", it.Category)
				if it.Rating > 0 {
					fmt.Fprintf(out, "    Rating:   %.1f (%s reviews)\n", it.Rating, humanize.Comma(int64(it.Reviews)))
				}
				if it.Pricing != "" {
					fmt.Fprintf(out, "    Pricing:  %s\n", it.Pricing)
				}
				if len(it.Tags) > 0 {
					fmt.Fprintf(out, "    Tags:     %v\n", it.Tags)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only items in this category")

	return cmd
}

func newCatalogCategoriesCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with item counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(opts)
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			for _, name := range c.Categories() {
				fmt.Fprintf(out, "  %-24s %d\n", name, c.CountInCategory(name))
			}
			return nil
		},
	}
}

// openCatalog loads the configured catalog without opening history.
func openCatalog(opts *Options) (*catalog.Catalog, error) {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return nil, err
	}
	return loadCatalog(cfg)
}
