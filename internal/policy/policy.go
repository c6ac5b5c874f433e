// Package policy implements per-set cache replacement policies.
//
// A Policy is notified of every access to a set via OnAccess and is asked
// for a victim way via Victim. State is kept per set, lazily created on
// first use, so a Policy instance can serve an entire cache level.
package policy

// Kind names a replacement policy variant.
type Kind string

// Supported replacement policy kinds.
const (
	LRU    Kind = "LRU"
	FIFO   Kind = "FIFO"
	Random Kind = "RANDOM"
)

// Policy is the per-cache-level replacement policy contract. All methods
// operate on a single set identified by its set index.
type Policy interface {
	// OnAccess records that way was just touched (hit) or installed (miss
	// allocation) in set.
	OnAccess(set, way int)

	// Victim returns a way in [0, numWays) to replace in set. An
	// unoccupied way is always preferred over a valid one; ties break on
	// the lowest-numbered empty way.
	Victim(set, numWays int) int

	// Reset forgets all per-set state.
	Reset()

	// Clone returns a deep, independent copy of the policy. Random
	// implementations may re-seed rather than copy RNG state verbatim.
	Clone() Policy
}

// New constructs the Policy variant named by kind. Unknown names default
// to LRU, per the factory contract.
func New(kind Kind, seed int64) Policy {
	switch kind {
	case FIFO:
		return newFIFO()
	case Random:
		return newRandom(seed)
	case LRU:
		return newLRU()
	default:
		return newLRU()
	}
}
