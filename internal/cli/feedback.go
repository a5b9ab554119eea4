package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/khanglvm/catalog-search/internal/history"
	"github.com/khanglvm/catalog-search/internal/learning"
	"github.com/khanglvm/catalog-search/internal/suggest"
	"github.com/spf13/cobra"
)

// NewFeedbackCmd creates the feedback command group.
func NewFeedbackCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Manage suggestion feedback (shown/selected history)",
		Long: `Feedback records which suggestions were shown and which were selected.
Selected suggestions get a small ranking boost in later searches,
decaying with age. Records older than history.retentionDays are pruned.

Commands:
  record  Record one shown or selected suggestion
  stats   Show the suggestions that currently receive a boost
  export  Export all feedback records as JSON
  prune   Delete records older than N days
  clear   Delete all feedback`,
	}

	cmd.AddCommand(newFeedbackRecordCmd(opts))
	cmd.AddCommand(newFeedbackStatsCmd(opts))
	cmd.AddCommand(newFeedbackExportCmd(opts))
	cmd.AddCommand(newFeedbackPruneCmd(opts))
	cmd.AddCommand(newFeedbackClearCmd(opts))

	return cmd
}

// openFeedbackStore loads the config and opens the history store.
func openFeedbackStore(opts *Options) (*history.Store, time.Duration, error) {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return nil, 0, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, 0, err
	}
	return store, cfg.Retention(), nil
}

func newFeedbackRecordCmd(opts *Options) *cobra.Command {
	var query, kind string
	var shownOnly bool

	cmd := &cobra.Command{
		Use:   "record <text>",
		Short: "Record feedback for a suggestion",
		Example: `  catalog-search feedback record ChatGPT --kind item --query chat
  catalog-search feedback record Writing --kind category --shown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(args[0])
			if text == "" {
				return fmt.Errorf("suggestion text must not be blank")
			}
			k, err := suggest.ParseKind(kind)
			if err != nil {
				return err
			}
			sg, err := suggest.New(k, text, 1)
			if err != nil {
				return err
			}

			store, _, err := openFeedbackStore(opts)
			if err != nil {
				return err
			}
			defer store.Close()

			event := learning.NewEvent(query, sg, !shownOnly)
			rec, err := store.AppendFeedback(cmd.Context(), event.ToRecord())
			if err != nil {
				return err
			}

			action := "selected"
			if shownOnly {
				action = "shown"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Recorded %s %s %q (%s)\n", action, k, text, rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(suggest.KindItem), "Suggestion kind")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Query the suggestion was shown for")
	cmd.Flags().BoolVar(&shownOnly, "shown", false, "Record as shown but not selected")

	return cmd
}

func newFeedbackStatsCmd(opts *Options) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show feedback statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, retention, err := openFeedbackStore(opts)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Feedback(cmd.Context())
			if err != nil {
				return err
			}
			writeFeedbackStats(cmd.OutOrStdout(), records, retention, top)
			return nil
		},
	}

	cmd.Flags().IntVarP(&top, "top", "n", 10, "Number of suggestions to show")
	return cmd
}

func writeFeedbackStats(w io.Writer, records map[string]history.FeedbackRecord, retention time.Duration, top int) {
	scorer := learning.NewScorer(records, learning.DefaultMaxBoost)

	lastSeen := make(map[suggest.Key]time.Time)
	selected := 0
	for _, rec := range records {
		key := suggest.KeyOf(suggest.Kind(rec.SuggestionKind), rec.SuggestionText)
		if rec.Timestamp.After(lastSeen[key]) {
			lastSeen[key] = rec.Timestamp
		}
		if rec.WasSelected {
			selected++
		}
	}

	fmt.Fprintln(w, "Feedback Status")
	fmt.Fprintln(w, "===============")
	fmt.Fprintf(w, "Records:    %s (%s selected)\n", humanize.Comma(int64(len(records))), humanize.Comma(int64(selected)))
	fmt.Fprintf(w, "Retention:  %d days\n", int(retention.Hours()/24))
	fmt.Fprintf(w, "Max boost:  %.2f\n", learning.DefaultMaxBoost)
	fmt.Fprintln(w)

	ranked := scorer.Rank()
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No feedback recorded yet.")
		return
	}
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}
	for i, ks := range ranked {
		fmt.Fprintf(w, "  %2d. %-30s score %.3f  selected %d/%d  last %s\n",
			i+1, ks.Key.String(), ks.Score, ks.Selected, ks.Shown, humanize.Time(lastSeen[ks.Key]))
	}
}

func newFeedbackExportCmd(opts *Options) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export feedback records as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openFeedbackStore(opts)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Feedback(cmd.Context())
			if err != nil {
				return err
			}
			data, err := formatJSON(sortedRecords(records))
			if err != nil {
				return err
			}

			if outputFile == "" {
				fmt.Fprintln(cmd.OutOrStdout(), data)
				return nil
			}
			if err := os.WriteFile(outputFile, []byte(data+"\n"), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputFile, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d records to %s\n", len(records), outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

// sortedRecords orders records oldest first, ties by id.
func sortedRecords(records map[string]history.FeedbackRecord) []history.FeedbackRecord {
	out := make([]history.FeedbackRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// formatJSON pretty-prints JSON for export.
func formatJSON(data interface{}) (string, error) {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func newFeedbackPruneCmd(opts *Options) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete feedback older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, retention, err := openFeedbackStore(opts)
			if err != nil {
				return err
			}
			defer store.Close()

			if days > 0 {
				retention = time.Duration(days) * 24 * time.Hour
			}
			n, err := store.PruneFeedback(cmd.Context(), retention)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Pruned %d feedback records older than %d days\n", n, int(retention.Hours()/24))
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "Retention in days (default: history.retentionDays)")
	return cmd
}

func newFeedbackClearCmd(opts *Options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !yes {
				fmt.Fprint(out, "This will delete all feedback. Continue? (y/N): ")
				response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				response = strings.TrimSpace(response)
				if response != "y" && response != "Y" {
					fmt.Fprintln(out, "Cancelled")
					return nil
				}
			}

			store, _, err := openFeedbackStore(opts)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.ClearFeedback(cmd.Context())
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(out, "No feedback found")
				return nil
			}
			fmt.Fprintf(out, "✓ Deleted %d feedback records\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
