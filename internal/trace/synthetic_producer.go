package trace

import (
	"fmt"
	"math/rand"
)

// Pattern names the addressing scheme a SyntheticProducer walks.
type Pattern string

// Supported synthetic patterns.
const (
	Sequential Pattern = "Sequential"
	Random     Pattern = "Random"
	Strided    Pattern = "Strided"
	Looping    Pattern = "Looping"
)

const (
	strideBytes  = 64
	loopPoolSize = 100
)

// ConfigError reports an invalid SyntheticProducer configuration.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "trace: " + e.Msg
}

// SyntheticProducer generates an access stream programmatically instead of
// reading one from disk.
type SyntheticProducer struct {
	pattern      Pattern
	startAddress uint64
	endAddress   uint64
	numAccesses  int
	readRatio    float64
	seed         int64

	rng  *rand.Rand
	pos  int
	next uint64
	pool []uint64
}

// SyntheticConfig configures a SyntheticProducer. Seed drives every random
// decision this producer makes (address draws and read/write selection),
// so two producers built with the same SyntheticConfig are reproducible
// and, run side by side, independent of each other and of any other
// generator in the process.
type SyntheticConfig struct {
	Pattern      Pattern
	StartAddress uint64
	EndAddress   uint64
	NumAccesses  int
	ReadRatio    float64
	Seed         int64
}

// NewSyntheticProducer validates cfg and builds a SyntheticProducer.
func NewSyntheticProducer(cfg SyntheticConfig) (*SyntheticProducer, error) {
	if cfg.ReadRatio < 0 || cfg.ReadRatio > 1 {
		return nil, &ConfigError{Msg: fmt.Sprintf("read ratio %v out of [0,1]", cfg.ReadRatio)}
	}
	if cfg.EndAddress <= cfg.StartAddress {
		return nil, &ConfigError{Msg: "end address must be greater than start address"}
	}

	switch cfg.Pattern {
	case Sequential, Random, Strided, Looping:
	default:
		return nil, &ConfigError{Msg: fmt.Sprintf("unknown pattern %q", cfg.Pattern)}
	}

	p := &SyntheticProducer{
		pattern:      cfg.Pattern,
		startAddress: cfg.StartAddress,
		endAddress:   cfg.EndAddress,
		numAccesses:  cfg.NumAccesses,
		readRatio:    cfg.ReadRatio,
		seed:         cfg.Seed,
	}
	p.Reset()

	return p, nil
}

func (p *SyntheticProducer) addressRange() uint64 {
	return p.endAddress - p.startAddress
}

func (p *SyntheticProducer) buildPool() []uint64 {
	span := p.addressRange()
	size := loopPoolSize

	pool := make([]uint64, size)
	for i := range pool {
		pool[i] = p.startAddress + uint64(p.rng.Int63n(int64(span)))
	}

	return pool
}

func (p *SyntheticProducer) kindForDraw() AccessKind {
	if p.rng.Float64() < p.readRatio {
		return Read
	}

	return Write
}

// Next implements Producer.
func (p *SyntheticProducer) Next() (MemoryAccess, bool) {
	if p.pos >= p.numAccesses {
		return MemoryAccess{}, false
	}

	var address uint64

	switch p.pattern {
	case Sequential:
		address = p.next
		p.next++
		if p.next >= p.endAddress {
			p.next = p.startAddress
		}
	case Strided:
		address = p.next
		p.next += strideBytes
		if p.next >= p.endAddress {
			p.next = p.startAddress
		}
	case Random:
		address = p.startAddress + uint64(p.rng.Int63n(int64(p.addressRange())))
	case Looping:
		address = p.pool[p.rng.Intn(len(p.pool))]
	}

	p.pos++

	return MemoryAccess{Address: address, Kind: p.kindForDraw()}, true
}

// Reset implements Producer.
func (p *SyntheticProducer) Reset() {
	p.rng = rand.New(rand.NewSource(p.seed))
	p.pos = 0
	p.next = p.startAddress

	if p.pattern == Looping {
		p.pool = p.buildPool()
	}
}

// Clone implements Producer. The clone gets an independent RNG seeded one
// past this producer's seed, so it draws a different but still
// reproducible sequence.
func (p *SyntheticProducer) Clone() (Producer, bool) {
	clone := &SyntheticProducer{
		pattern:      p.pattern,
		startAddress: p.startAddress,
		endAddress:   p.endAddress,
		numAccesses:  p.numAccesses,
		readRatio:    p.readRatio,
		seed:         p.seed + 1,
	}
	clone.Reset()

	return clone, true
}
