package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/khanglvm/catalog-search/internal/suggest"
	"github.com/spf13/cobra"
)

// NewSearchCmd creates the 'search' command.
func NewSearchCmd(opts *Options) *cobra.Command {
	var jsonOutput bool
	var limit int
	var noRecord bool

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Suggest completions for a search query",
		Long: `Run every configured strategy over the catalog and print the fused,
ranked suggestions. With no query the trending fallback list is shown.

The query is added to recent searches unless --no-record is set.`,
		Example: `  catalog-search search chat
  catalog-search search "notion vs obsidian" --json
  catalog-search search free writing tools --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd.OutOrStdout(), opts, strings.Join(args, " "), limit, jsonOutput, !noRecord)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum suggestions to print (0 = all)")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Do not add the query to recent searches")

	return cmd
}

func runSearch(ctx context.Context, w io.Writer, opts *Options, query string, limit int, jsonOutput, record bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	svc, _, err := opts.OpenService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	results := svc.Search(ctx, query)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if record && strings.TrimSpace(query) != "" {
		svc.AddRecentSearch(ctx, query)
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	printSuggestions(w, query, results)
	return nil
}

func printSuggestions(w io.Writer, query string, results []suggest.Suggestion) {
	if len(results) == 0 {
		fmt.Fprintf(w, "No suggestions for %q.\n", query)
		return
	}

	if strings.TrimSpace(query) == "" {
		fmt.Fprintf(w, "Trending (%d):\n\n", len(results))
	} else {
		fmt.Fprintf(w, "Suggestions for %q (%d):\n\n", query, len(results))
	}
	for i, s := range results {
		fmt.Fprintf(w, "  %2d. %-12s %s  (%.2f)\n", i+1, "["+string(s.Kind())+"]", s.Text, s.Confidence)
		if d, ok := s.Detail.(suggest.ItemDetail); ok && d.Description != "" {
			fmt.Fprintf(w, "      %s\n", d.Description)
		}
	}
}
