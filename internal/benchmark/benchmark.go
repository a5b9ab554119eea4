/*
Package benchmark measures search latency for catalog-search.

It runs a fixed set of representative queries through the full engine and
through each enabled strategy on its own, and reports mean, median, p95 and
worst-case latency per measurement.
*/
package benchmark

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/engine"
	"github.com/khanglvm/catalog-search/internal/strategy"
)

// DefaultIterations is how many times each query runs.
const DefaultIterations = 50

// DefaultQueries covers every strategy at least once.
var DefaultQueries = []string{
	"chatgpt",
	"image generation",
	"imgae generaton",
	"free video tools",
	"rated 4.5 stars",
	"how to edit a video",
	"alternative to midjourney",
	"chatgpt vs claude",
	"works with slack",
	"write blog post",
	"photo",
	"",
}

// Stats summarizes the latency of one measurement.
type Stats struct {
	Name        string        `json:"name"`
	Runs        int           `json:"runs"`
	Mean        time.Duration `json:"mean"`
	P50         time.Duration `json:"p50"`
	P95         time.Duration `json:"p95"`
	Max         time.Duration `json:"max"`
	Suggestions int           `json:"suggestions"`
}

// Result contains the engine and per-strategy measurements.
type Result struct {
	Items      int     `json:"items"`
	Queries    int     `json:"queries"`
	Iterations int     `json:"iterations"`
	Engine     Stats   `json:"engine"`
	Strategies []Stats `json:"strategies"`
}

// Run benchmarks e over c. A nil or empty query list selects
// DefaultQueries; iterations < 1 selects DefaultIterations.
func Run(ctx context.Context, e *engine.Engine, c *catalog.Catalog, queries []string, iterations int) (*Result, error) {
	if len(queries) == 0 {
		queries = DefaultQueries
	}
	if iterations < 1 {
		iterations = DefaultIterations
	}

	result := &Result{Items: c.Len(), Queries: len(queries), Iterations: iterations}

	var samples []time.Duration
	produced := 0
	for i := 0; i < iterations; i++ {
		for _, q := range queries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			start := time.Now()
			out := e.Search(ctx, engine.Request{Query: q, Catalog: c})
			samples = append(samples, time.Since(start))
			produced += len(out)
		}
	}
	result.Engine = summarize("engine", samples, produced)

	strategies, err := strategy.ByName(e.Strategies())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve strategies: %w", err)
	}
	sctx := strategy.NewContext(c, nil, nil, nil)
	for _, s := range strategies {
		samples = samples[:0]
		produced = 0
		for i := 0; i < iterations; i++ {
			for _, q := range queries {
				query := strategy.NewQuery(q)
				if query.Empty() {
					continue
				}
				start := time.Now()
				out, _ := s.Suggest(query, sctx)
				samples = append(samples, time.Since(start))
				produced += len(out)
			}
		}
		result.Strategies = append(result.Strategies, summarize(s.Name(), samples, produced))
	}

	sort.SliceStable(result.Strategies, func(i, j int) bool {
		return result.Strategies[i].Mean > result.Strategies[j].Mean
	})
	return result, nil
}

// summarize computes latency statistics. samples is reordered.
func summarize(name string, samples []time.Duration, suggestions int) Stats {
	st := Stats{Name: name, Runs: len(samples), Suggestions: suggestions}
	if len(samples) == 0 {
		return st
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	var total time.Duration
	for _, d := range samples {
		total += d
	}
	st.Mean = total / time.Duration(len(samples))
	st.P50 = percentile(samples, 50)
	st.P95 = percentile(samples, 95)
	st.Max = samples[len(samples)-1]
	return st
}

// percentile uses the nearest-rank method on sorted samples.
func percentile(sorted []time.Duration, p int) time.Duration {
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

// FormatResult formats the benchmark result for display.
func FormatResult(result *Result) string {
	var sb strings.Builder

	sb.WriteString("╔══════════════════════════════════════════════════════════════╗\n")
	sb.WriteString("║               SEARCH LATENCY BENCHMARK RESULTS               ║\n")
	sb.WriteString("╚══════════════════════════════════════════════════════════════╝\n\n")

	sb.WriteString(fmt.Sprintf("  Catalog:    %s items\n", humanize.Comma(int64(result.Items))))
	sb.WriteString(fmt.Sprintf("  Searches:   %s (%d queries x %d iterations)\n\n",
		humanize.Comma(int64(result.Engine.Runs)), result.Queries, result.Iterations))

	sb.WriteString(fmt.Sprintf("  %-12s %10s %10s %10s %10s %12s\n", "", "mean", "p50", "p95", "max", "suggestions"))
	writeRow(&sb, result.Engine)
	sb.WriteString("\n")
	for _, st := range result.Strategies {
		writeRow(&sb, st)
	}

	return sb.String()
}

func writeRow(sb *strings.Builder, st Stats) {
	sb.WriteString(fmt.Sprintf("  %-12s %10s %10s %10s %10s %12s\n",
		st.Name, round(st.Mean), round(st.P50), round(st.P95), round(st.Max),
		humanize.Comma(int64(st.Suggestions))))
}

func round(d time.Duration) string {
	switch {
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond).String()
	case d >= time.Microsecond:
		return d.Round(100 * time.Nanosecond).String()
	default:
		return d.String()
	}
}
