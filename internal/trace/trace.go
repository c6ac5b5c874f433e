// Package trace supplies memory-access producers for the simulator: a
// file-backed producer reading recorded traces and a synthetic producer
// generating access patterns programmatically.
package trace

//go:generate mockgen -destination=mock_producer.go -package=trace -write_package_comment=false github.com/yigitbektasgursoy/cachesim/internal/trace Producer

import "github.com/yigitbektasgursoy/cachesim/internal/cachelevel"

// AccessKind mirrors cachelevel.Kind at the trace boundary so producers
// do not need to import the cache-access engine's constant names.
type AccessKind = cachelevel.Kind

// Read and Write are the two access kinds a producer can emit.
const (
	Read  = cachelevel.Read
	Write = cachelevel.Write
)

// MemoryAccess is one reference drawn from a Producer.
type MemoryAccess struct {
	Address uint64
	Kind    AccessKind
}

// Producer is a lazy, finite, resettable sequence of memory accesses.
type Producer interface {
	// Next returns the next access, or ok=false when the sequence is
	// exhausted.
	Next() (MemoryAccess, bool)
	// Reset rewinds the producer to its first access.
	Reset()
	// Clone returns an independent, rewound copy of the producer. ok is
	// false if this producer cannot be cloned (e.g. callback-backed).
	Clone() (Producer, bool)
}

// TraceError reports a malformed trace line or an unreadable trace file.
// Line is 1-indexed; Line == 0 means the error is not tied to a specific
// line (e.g. the file could not be opened).
type TraceError struct {
	Line int
	Msg  string
}

func (e *TraceError) Error() string {
	return "trace: " + e.Msg
}
