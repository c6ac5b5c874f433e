// Package cachelevel implements a single set-associative cache level: the
// entry matrix, lookup, allocation, dirty-writeback and replacement
// machinery described by the cache-access engine.
package cachelevel

import (
	"fmt"

	"github.com/yigitbektasgursoy/cachesim/internal/addr"
	"github.com/yigitbektasgursoy/cachesim/internal/policy"
)

// Organization names the set layout of a cache level.
type Organization string

// Supported organizations.
const (
	DirectMapped     Organization = "DirectMapped"
	SetAssociative   Organization = "SetAssociative"
	FullyAssociative Organization = "FullyAssociative"
)

// InclusionPolicy names the relationship between a level and the level
// below it. Meaningful from level 2 onward; level 1 is implicitly
// inclusive-of-nothing.
type InclusionPolicy string

// Supported inclusion policies.
const (
	Inclusive InclusionPolicy = "Inclusive"
	Exclusive InclusionPolicy = "Exclusive"
	NINE      InclusionPolicy = "NINE"
)

// Kind is the access type of a memory reference.
type Kind int

// Supported access kinds.
const (
	Read Kind = iota
	Write
)

// Entry is a single cache line's state: no data payload is represented.
type Entry struct {
	Valid bool
	Dirty bool
	Tag   uint64
}

// ConfigError reports an invalid cache geometry, raised at construction.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "cachelevel: " + e.Msg
}

// Config describes the geometry and policies of one cache level.
type Config struct {
	Organization    Organization
	Size            uint64
	BlockSize       uint64
	Associativity   uint64
	AccessLatency   uint64
	WriteBack       bool
	WriteAllocate   bool
	InclusionPolicy InclusionPolicy
	PolicyKind      policy.Kind
	// Seed drives the Random replacement policy; ignored by LRU/FIFO.
	Seed int64
}

// AccessOutcome is the result of one Access or ForceInstall call.
type AccessOutcome struct {
	Hit bool
	// Latency is this level's access latency, reported on every access
	// regardless of hit or miss.
	Latency uint64
	// Writeback is true iff a dirty victim was displaced.
	Writeback bool
	// EvictedValid is true iff replacement displaced a valid entry; in
	// that case EvictedAddress and EvictedEntry describe it.
	EvictedValid   bool
	EvictedAddress uint64
	EvictedEntry   Entry
}

// Stats holds the hit/miss counters of a cache level.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Level is one set-associative cache.
type Level struct {
	cfg Config

	numSets int
	numWays int

	blockOffsetBits uint8
	indexBits       uint8

	entries [][]Entry
	pol     policy.Policy

	stats Stats
}

func isPowerOfTwo(x uint64) bool {
	return x > 0 && x&(x-1) == 0
}

func log2(x uint64) uint8 {
	var n uint8
	for x > 1 {
		x >>= 1
		n++
	}

	return n
}

// New validates cfg and constructs a Level. It returns a *ConfigError if
// the geometry is invalid.
func New(cfg Config) (*Level, error) {
	if !isPowerOfTwo(cfg.Size) {
		return nil, &ConfigError{Msg: fmt.Sprintf("size %d is not a power of two", cfg.Size)}
	}
	if !isPowerOfTwo(cfg.BlockSize) {
		return nil, &ConfigError{Msg: fmt.Sprintf("block size %d is not a power of two", cfg.BlockSize)}
	}
	if cfg.Size%cfg.BlockSize != 0 {
		return nil, &ConfigError{Msg: fmt.Sprintf("block size %d does not divide size %d", cfg.BlockSize, cfg.Size)}
	}

	var numSets, numWays uint64

	switch cfg.Organization {
	case DirectMapped:
		numSets = cfg.Size / cfg.BlockSize
		numWays = 1
	case FullyAssociative:
		numSets = 1
		numWays = cfg.Size / cfg.BlockSize
	case SetAssociative:
		if !isPowerOfTwo(cfg.Associativity) {
			return nil, &ConfigError{Msg: fmt.Sprintf("associativity %d is not a power of two", cfg.Associativity)}
		}
		if (cfg.BlockSize*cfg.Associativity) == 0 || cfg.Size%(cfg.BlockSize*cfg.Associativity) != 0 {
			return nil, &ConfigError{Msg: "block size * associativity does not divide size"}
		}
		if cfg.Associativity > cfg.Size/cfg.BlockSize {
			return nil, &ConfigError{Msg: fmt.Sprintf("associativity %d exceeds size/blockSize %d", cfg.Associativity, cfg.Size/cfg.BlockSize)}
		}

		numSets = cfg.Size / (cfg.BlockSize * cfg.Associativity)
		numWays = cfg.Associativity
	default:
		return nil, &ConfigError{Msg: fmt.Sprintf("unknown organization %q", cfg.Organization)}
	}

	entries := make([][]Entry, numSets)
	for i := range entries {
		entries[i] = make([]Entry, numWays)
	}

	l := &Level{
		cfg:             cfg,
		numSets:         int(numSets),
		numWays:         int(numWays),
		blockOffsetBits: log2(cfg.BlockSize),
		indexBits:       log2(numSets),
		entries:         entries,
		pol:             policy.New(cfg.PolicyKind, cfg.Seed),
	}

	return l, nil
}

// Config returns the level's configuration.
func (l *Level) Config() Config {
	return l.cfg
}

// NumSets returns the number of sets in the level.
func (l *Level) NumSets() int {
	return l.numSets
}

// NumWays returns the number of ways per set in the level.
func (l *Level) NumWays() int {
	return l.numWays
}

// Stats returns a copy of the level's hit/miss counters.
func (l *Level) Stats() Stats {
	return l.stats
}

func (l *Level) decode(address uint64) (set int, tag uint64) {
	return int(addr.Index(address, l.blockOffsetBits, l.indexBits)), addr.Tag(address, l.blockOffsetBits, l.indexBits)
}

func (l *Level) findWay(set int, tag uint64) (way int, ok bool) {
	for w, e := range l.entries[set] {
		if e.Valid && e.Tag == tag {
			return w, true
		}
	}

	return 0, false
}

// Probe is a pure lookup: it does not update statistics or policy state.
func (l *Level) Probe(address uint64) (set, way int, ok bool) {
	set, tag := l.decode(address)
	way, ok = l.findWay(set, tag)

	return set, way, ok
}

// Access performs a user-visible memory reference against this level,
// updating hit/miss counters and the replacement policy.
func (l *Level) Access(address uint64, kind Kind) AccessOutcome {
	set, tag := l.decode(address)

	if way, ok := l.findWay(set, tag); ok {
		l.stats.Hits++
		l.pol.OnAccess(set, way)

		if kind == Write && l.cfg.WriteBack {
			l.entries[set][way].Dirty = true
		}

		return AccessOutcome{Hit: true, Latency: l.cfg.AccessLatency}
	}

	l.stats.Misses++

	if kind == Read || (kind == Write && l.cfg.WriteAllocate) {
		outcome := l.allocate(set, tag, kind)
		outcome.Latency = l.cfg.AccessLatency

		return outcome
	}

	return AccessOutcome{Hit: false, Latency: l.cfg.AccessLatency}
}

// AccessNoAllocate performs a lookup identical to Access on a hit —
// counters and the replacement policy update the same way — but never
// allocates on a miss. Exclusive levels use this for every Step C search
// access: an Exclusive level's occupancy is only ever changed by
// ForceInstall (victim caching, promotion), never by a plain miss.
func (l *Level) AccessNoAllocate(address uint64, kind Kind) AccessOutcome {
	set, tag := l.decode(address)

	if way, ok := l.findWay(set, tag); ok {
		l.stats.Hits++
		l.pol.OnAccess(set, way)

		if kind == Write && l.cfg.WriteBack {
			l.entries[set][way].Dirty = true
		}

		return AccessOutcome{Hit: true, Latency: l.cfg.AccessLatency}
	}

	l.stats.Misses++

	return AccessOutcome{Hit: false, Latency: l.cfg.AccessLatency}
}

func (l *Level) allocate(set int, tag uint64, kind Kind) AccessOutcome {
	way := l.pol.Victim(set, l.numWays)
	victim := &l.entries[set][way]

	var outcome AccessOutcome

	if victim.Valid {
		outcome.EvictedValid = true
		outcome.EvictedAddress = addr.Reconstruct(victim.Tag, uint64(set), l.blockOffsetBits, l.indexBits)
		outcome.EvictedEntry = *victim

		if l.cfg.WriteBack && victim.Dirty {
			outcome.Writeback = true
		}
	}

	victim.Valid = true
	victim.Tag = tag
	victim.Dirty = kind == Write && l.cfg.WriteBack

	l.pol.OnAccess(set, way)

	return outcome
}

// ForceInstall installs a caller-provided entry, as used by the hierarchy
// for victim caching and exclusive promotion. It never changes hit/miss
// counters. If the tag is already resident, that way is overwritten;
// otherwise a victim is selected exactly as in allocate.
func (l *Level) ForceInstall(address uint64, e Entry, kind Kind) AccessOutcome {
	set, tag := l.decode(address)

	outcome := AccessOutcome{Latency: l.cfg.AccessLatency}

	way, ok := l.findWay(set, tag)
	if !ok {
		way = l.pol.Victim(set, l.numWays)
		victim := &l.entries[set][way]

		if victim.Valid {
			outcome.EvictedValid = true
			outcome.EvictedAddress = addr.Reconstruct(victim.Tag, uint64(set), l.blockOffsetBits, l.indexBits)
			outcome.EvictedEntry = *victim

			if l.cfg.WriteBack && victim.Dirty {
				outcome.Writeback = true
			}
		}
	}

	installed := e
	installed.Valid = true
	installed.Tag = tag

	if kind == Write && l.cfg.WriteBack {
		installed.Dirty = true
	}

	l.entries[set][way] = installed
	l.pol.OnAccess(set, way)

	return outcome
}

// Invalidate marks the entry resident at address invalid, if any. Calling
// it twice in a row is idempotent.
func (l *Level) Invalidate(address uint64) {
	set, tag := l.decode(address)

	if way, ok := l.findWay(set, tag); ok {
		l.entries[set][way] = Entry{}
	}
}

// GetEntry returns a copy of the entry resident at address, if any.
func (l *Level) GetEntry(address uint64) (Entry, bool) {
	set, tag := l.decode(address)

	if way, ok := l.findWay(set, tag); ok {
		return l.entries[set][way], true
	}

	return Entry{}, false
}

// Reset marks every entry invalid, zeroes the hit/miss counters, and
// resets the replacement policy. After Reset, the level is
// indistinguishable from a freshly constructed one with the same Config.
func (l *Level) Reset() {
	for s := range l.entries {
		for w := range l.entries[s] {
			l.entries[s][w] = Entry{}
		}
	}

	l.stats = Stats{}
	l.pol.Reset()
}
