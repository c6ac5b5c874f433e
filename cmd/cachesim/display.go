package main

import (
	"fmt"
	"strings"

	"github.com/yigitbektasgursoy/cachesim/internal/report"
)

func printVerbose(res *report.Result) {
	fmt.Printf("test %q:\n", res.TestName)

	for _, lvl := range res.Report.Levels {
		fmt.Printf("  L%d: hits=%d misses=%d hitRate=%.2f%% amat=%.4f\n",
			lvl.Index+1, lvl.Hits, lvl.Misses, lvl.HitRate*100, lvl.AMATContribution)
	}

	fmt.Printf("  total AMAT: %.4f cycles\n", res.Report.TotalAMAT)
}

func printComparison(results []report.Result) {
	if len(results) == 0 {
		fmt.Println("no results to compare")

		return
	}

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.TestName
	}

	fmt.Printf("%-24s | %s\n", "Metric", strings.Join(names, " | "))
	fmt.Println(strings.Repeat("-", 24+3+len(strings.Join(names, " | "))))

	for i := range results[0].Report.Levels {
		fmt.Printf("%-24s", fmt.Sprintf("L%d Hit Rate", i+1))
		for _, r := range results {
			fmt.Printf(" | %.2f%%", r.Report.Levels[i].HitRate*100)
		}
		fmt.Println()
	}

	fmt.Printf("%-24s", "Total AMAT")
	for _, r := range results {
		fmt.Printf(" | %.4f", r.Report.TotalAMAT)
	}
	fmt.Println()
}
