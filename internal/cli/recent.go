package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewRecentCmd creates the 'recent' command group.
func NewRecentCmd(opts *Options) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent searches",
		Long: `Show the most recent distinct searches, newest first. Only the last
five are kept.`,
		Example: `  catalog-search recent
  catalog-search recent add "password manager"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.LoadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			recent, err := store.RecentSearches(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if recent == nil {
					recent = []string{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(recent)
			}
			if len(recent) == 0 {
				fmt.Fprintln(out, "No recent searches.")
				return nil
			}
			for i, term := range recent {
				fmt.Fprintf(out, "  %d. %s\n", i+1, term)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	cmd.AddCommand(newRecentAddCmd(opts))

	return cmd
}

func newRecentAddCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <term...>",
		Short: "Add a term to recent searches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.TrimSpace(strings.Join(args, " "))
			if term == "" {
				return fmt.Errorf("term must not be blank")
			}

			cfg, err := opts.LoadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.AddRecentSearch(cmd.Context(), term); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %q\n", term)
			return nil
		},
	}
}
