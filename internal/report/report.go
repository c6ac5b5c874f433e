// Package report writes a side-by-side comparison of test results to CSV,
// one column per test and one row per metric.
package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/yigitbektasgursoy/cachesim/internal/metrics"
)

// Result pairs a test's name with the metrics collected for it.
type Result struct {
	TestName string
	Report   metrics.Report
}

// Write renders results to path as CSV, overwriting any existing file.
func Write(path string, results []Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{"Metric"}
	for _, r := range results {
		header = append(header, r.TestName)
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("report: writing header: %w", err)
	}

	for _, row := range rows(results) {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("report: writing row %q: %w", row[0], err)
		}
	}

	w.Flush()

	return w.Error()
}

func rows(results []Result) [][]string {
	if len(results) == 0 {
		return nil
	}

	numLevels := len(results[0].Report.Levels)

	var out [][]string

	for i := 0; i < numLevels; i++ {
		out = append(out,
			row(fmt.Sprintf("L%d Hits", i+1), results, func(r metrics.Report) string {
				return fmt.Sprintf("%d", r.Levels[i].Hits)
			}),
			row(fmt.Sprintf("L%d Misses", i+1), results, func(r metrics.Report) string {
				return fmt.Sprintf("%d", r.Levels[i].Misses)
			}),
			row(fmt.Sprintf("L%d Hit Rate", i+1), results, func(r metrics.Report) string {
				return fmt.Sprintf("%.2f", r.Levels[i].HitRate*100)
			}),
			row(fmt.Sprintf("L%d AMAT Contribution", i+1), results, func(r metrics.Report) string {
				return fmt.Sprintf("%.4f", r.Levels[i].AMATContribution)
			}),
		)

		if i > 0 {
			out = append(out, row(fmt.Sprintf("L%d Inclusion Policy", i+1), results, func(r metrics.Report) string {
				return string(r.Levels[i].InclusionPolicy)
			}))
		}
	}

	out = append(out,
		row("Total AMAT", results, func(r metrics.Report) string {
			return fmt.Sprintf("%.4f", r.TotalAMAT)
		}),
		row("Memory Reads", results, func(r metrics.Report) string {
			return fmt.Sprintf("%d", r.MemoryReads)
		}),
		row("Memory Writes", results, func(r metrics.Report) string {
			return fmt.Sprintf("%d", r.MemoryWrites)
		}),
		row("Traffic Bytes", results, func(r metrics.Report) string {
			return fmt.Sprintf("%d", r.Traffic)
		}),
	)

	return out
}

func row(name string, results []Result, value func(metrics.Report) string) []string {
	out := []string{name}
	for _, r := range results {
		out = append(out, value(r.Report))
	}

	return out
}
