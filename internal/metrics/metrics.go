// Package metrics derives AMAT, per-level hit rates and traffic totals
// from a finished trace run over a hierarchy and its backing memory.
package metrics

import (
	"time"

	"github.com/yigitbektasgursoy/cachesim/internal/cachelevel"
	"github.com/yigitbektasgursoy/cachesim/internal/hierarchy"
	"github.com/yigitbektasgursoy/cachesim/internal/memory"
)

// LevelReport holds one cache level's statistics and its contribution to
// the system AMAT.
type LevelReport struct {
	Index            int
	HitRate          float64
	Hits             uint64
	Misses           uint64
	AccessLatency    uint64
	AMATContribution float64
	InclusionPolicy  cachelevel.InclusionPolicy
}

// Report is the full set of derived statistics for one test run.
type Report struct {
	Levels             []LevelReport
	MemoryContribution float64
	TotalAMAT          float64
	MemoryReads        uint64
	MemoryWrites       uint64
	// Traffic is the total bytes moved to/from main memory:
	// (MemoryReads+MemoryWrites) * the last level's block size.
	Traffic       uint64
	ExecutionTime time.Duration
}

func hitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}

	return float64(hits) / float64(total)
}

// Collect walks h's levels and m's counters and produces a Report. elapsed
// is the wall-clock duration of the trace run that produced these
// counters; it is observational and never feeds the AMAT computation.
func Collect(h *hierarchy.Hierarchy, m *memory.Memory, elapsed time.Duration) Report {
	levels := h.Levels()

	report := Report{
		Levels:        make([]LevelReport, len(levels)),
		MemoryReads:   m.Reads(),
		MemoryWrites:  m.Writes(),
		ExecutionTime: elapsed,
	}

	missPathProbability := 1.0

	for i, lvl := range levels {
		stats := lvl.Stats()
		rate := hitRate(stats.Hits, stats.Misses)
		latency := lvl.Config().AccessLatency

		contribution := missPathProbability * float64(latency)
		report.TotalAMAT += contribution
		missPathProbability *= 1 - rate

		report.Levels[i] = LevelReport{
			Index:            i,
			HitRate:          rate,
			Hits:             stats.Hits,
			Misses:           stats.Misses,
			AccessLatency:    latency,
			AMATContribution: contribution,
			InclusionPolicy:  lvl.Config().InclusionPolicy,
		}
	}

	report.MemoryContribution = missPathProbability * float64(m.Latency())
	report.TotalAMAT += report.MemoryContribution

	lastBlockSize := levels[len(levels)-1].Config().BlockSize
	report.Traffic = (report.MemoryReads + report.MemoryWrites) * lastBlockSize

	return report
}
