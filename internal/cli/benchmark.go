package cli

import (
	"encoding/json"
	"fmt"

	"github.com/khanglvm/catalog-search/internal/benchmark"
	"github.com/spf13/cobra"
)

// NewBenchmarkCmd creates the 'benchmark' command for search latency testing.
func NewBenchmarkCmd(opts *Options) *cobra.Command {
	var jsonOutput bool
	var iterations int
	var queries []string

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Measure search latency over the configured catalog",
		Long: `Run a latency benchmark over the configured catalog.

The full engine is timed first, then each strategy on its own, so slow
strategies stand out. History is not consulted.`,
		Example: `  # Run benchmark with the default query set
  catalog-search benchmark

  # Custom queries, more iterations, JSON output
  catalog-search benchmark -q chat -q "free writing" --iterations 200 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.LoadConfig()
			if err != nil {
				return err
			}
			c, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			e, err := newEngine(cfg)
			if err != nil {
				return err
			}
			defer e.Close()

			result, err := benchmark.Run(cmd.Context(), e, c, queries, iterations)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, benchmark.FormatResult(result))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	cmd.Flags().IntVarP(&iterations, "iterations", "i", benchmark.DefaultIterations, "Iterations per query")
	cmd.Flags().StringArrayVarP(&queries, "query", "q", nil, "Query to benchmark (repeatable; default built-in set)")

	return cmd
}
