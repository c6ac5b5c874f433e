// Package memory models main memory as a fixed-latency accessor. It holds
// no contents: every address is always present, with a single constant
// latency and two monotonic traffic counters.
package memory

import "github.com/yigitbektasgursoy/cachesim/internal/cachelevel"

// Memory is stateless with respect to contents and holds only the
// constant access latency and the read/write counters.
type Memory struct {
	latency uint64
	reads   uint64
	writes  uint64
}

// New constructs a Memory with the given fixed access latency.
func New(latency uint64) *Memory {
	return &Memory{latency: latency}
}

// Access records a read or write and returns the configured latency.
func (m *Memory) Access(kind cachelevel.Kind) uint64 {
	if kind == cachelevel.Write {
		m.writes++
	} else {
		m.reads++
	}

	return m.latency
}

// Latency returns the configured access latency.
func (m *Memory) Latency() uint64 {
	return m.latency
}

// Reads returns the number of read accesses observed so far.
func (m *Memory) Reads() uint64 {
	return m.reads
}

// Writes returns the number of write accesses observed so far.
func (m *Memory) Writes() uint64 {
	return m.writes
}

// Reset zeros the read/write counters.
func (m *Memory) Reset() {
	m.reads = 0
	m.writes = 0
}
