// Package hierarchy implements the multi-level cache inclusion state
// machine: it coordinates Inclusive, Exclusive and NINE propagation
// between an ordered list of cache levels, including victim caching and
// back-invalidation. Main memory access itself is performed by the
// caller once Access reports a miss in every level.
package hierarchy

import "github.com/yigitbektasgursoy/cachesim/internal/cachelevel"

// Hierarchy is an ordered list of cache levels, L[0] closest to the CPU.
type Hierarchy struct {
	levels []*cachelevel.Level
}

// New constructs a Hierarchy over levels, in order from closest-to-CPU to
// farthest. levels must be non-empty.
func New(levels []*cachelevel.Level) *Hierarchy {
	return &Hierarchy{levels: levels}
}

// Levels returns the underlying level list, closest-to-CPU first.
func (h *Hierarchy) Levels() []*cachelevel.Level {
	return h.levels
}

// eviction is the single-slot scratch buffer described in §4.4.2: it
// holds the most recent displacement from L[0] for the duration of one
// Access call.
type eviction struct {
	valid   bool
	address uint64
	entry   cachelevel.Entry
}

// Access propagates one memory reference through the hierarchy. It
// returns the total latency accumulated across every level it touched and
// whether the reference was satisfied by some cache level (false means
// the caller must additionally charge main-memory latency).
func (h *Hierarchy) Access(address uint64, kind cachelevel.Kind) (totalLatency uint64, hitInAnyCache bool) {
	n := len(h.levels)
	l1 := h.levels[0]

	var tracker eviction

	// Step B — L1 access.
	out := l1.Access(address, kind)
	totalLatency += out.Latency

	if out.EvictedValid {
		tracker = eviction{valid: true, address: out.EvictedAddress, entry: out.EvictedEntry}
	}

	if out.Hit {
		if kind == cachelevel.Write && !l1.Config().WriteBack && n > 1 {
			next := h.levels[1]
			if next.Config().InclusionPolicy == cachelevel.Exclusive {
				totalLatency += next.AccessNoAllocate(address, cachelevel.Write).Latency
			} else {
				totalLatency += next.Access(address, cachelevel.Write).Latency
			}
		}

		return totalLatency, true
	}

	// Step C — lower-level search.
	hitIndex := -1
	outcomes := make([]cachelevel.AccessOutcome, n)

	for i := 1; i < n; i++ {
		var res cachelevel.AccessOutcome

		if h.levels[i].Config().InclusionPolicy == cachelevel.Exclusive {
			// Exclusive levels never self-allocate on a miss: they are
			// only ever populated by ForceInstall below (promotion on
			// an exclusive hit, victim caching on a full miss).
			res = h.levels[i].AccessNoAllocate(address, kind)
		} else {
			res = h.levels[i].Access(address, kind)
		}

		totalLatency += res.Latency
		outcomes[i] = res

		if res.Hit {
			hitIndex = i

			break
		}
	}

	if hitIndex != -1 {
		if h.levels[hitIndex].Config().InclusionPolicy == cachelevel.Exclusive {
			entry, ok := h.levels[hitIndex].GetEntry(address)
			if ok {
				h.levels[hitIndex].Invalidate(address)

				installOut := l1.ForceInstall(address, entry, kind)
				if installOut.EvictedValid {
					tracker = eviction{valid: true, address: installOut.EvictedAddress, entry: installOut.EvictedEntry}
				}
			}
		}

		if kind == cachelevel.Write && !h.levels[hitIndex].Config().WriteBack && hitIndex+1 < n {
			next := h.levels[hitIndex+1]
			if next.Config().InclusionPolicy == cachelevel.Exclusive {
				totalLatency += next.AccessNoAllocate(address, cachelevel.Write).Latency
			} else {
				totalLatency += next.Access(address, cachelevel.Write).Latency
			}
		}

		h.processTracker(tracker, address)

		return totalLatency, true
	}

	// Step D — miss through every level: each Inclusive/NINE level's own
	// Access call above already performed its own allocation decision
	// (per the per-level Access contract); this pass corrects that per
	// the hierarchy's inclusion policy instead of issuing a second
	// access. Exclusive levels used AccessNoAllocate above, so they
	// never allocated in the first place and need no correction here —
	// their occupancy is untouched by a full miss, per spec.
	if kind == cachelevel.Read || (kind == cachelevel.Write && l1.Config().WriteAllocate) {
		for i := 1; i < n; i++ {
			lvl := h.levels[i]

			switch lvl.Config().InclusionPolicy {
			case cachelevel.Inclusive:
				if outcomes[i].EvictedValid {
					h.backInvalidate(outcomes[i].EvictedAddress, i)
				}
			case cachelevel.Exclusive, cachelevel.NINE:
				// Exclusive: nothing to undo (see above). NINE: each
				// level allocates on its own miss decisions; no
				// back-invalidation, no victim caching.
			}
		}
	}

	h.processTracker(tracker, address)

	return totalLatency, false
}

// backInvalidate removes address from every level above fromLevel,
// preserving the Inclusive invariant when a block leaves a lower level.
func (h *Hierarchy) backInvalidate(address uint64, fromLevel int) {
	for j := 0; j < fromLevel; j++ {
		h.levels[j].Invalidate(address)
	}
}

// processTracker implements Step E: if L[1] is Exclusive and the tracker
// holds a displacement distinct from the address just accessed, move it
// into L[1] (victim caching).
func (h *Hierarchy) processTracker(tracker eviction, address uint64) {
	if len(h.levels) < 2 {
		return
	}

	if h.levels[1].Config().InclusionPolicy != cachelevel.Exclusive {
		return
	}

	if !tracker.valid || tracker.address == address {
		return
	}

	h.levels[1].ForceInstall(tracker.address, tracker.entry, cachelevel.Write)
}
