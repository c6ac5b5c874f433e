package cachelevel_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yigitbektasgursoy/cachesim/internal/cachelevel"
	"github.com/yigitbektasgursoy/cachesim/internal/policy"
)

var _ = Describe("Level", func() {
	Describe("configuration validation", func() {
		It("rejects a non-power-of-two size", func() {
			_, err := cachelevel.New(cachelevel.Config{
				Organization: cachelevel.DirectMapped,
				Size:         100,
				BlockSize:    64,
			})
			Expect(err).To(HaveOccurred())
			Expect(err).To(BeAssignableToTypeOf(&cachelevel.ConfigError{}))
		})

		It("rejects a block size that does not divide size", func() {
			_, err := cachelevel.New(cachelevel.Config{
				Organization: cachelevel.DirectMapped,
				Size:         256,
				BlockSize:    48,
			})
			Expect(err).To(HaveOccurred())
		})

		It("rejects associativity greater than size/blockSize", func() {
			_, err := cachelevel.New(cachelevel.Config{
				Organization:  cachelevel.SetAssociative,
				Size:          256,
				BlockSize:     64,
				Associativity: 8,
			})
			Expect(err).To(HaveOccurred())
		})

		It("accepts a fully-associative single-set cache", func() {
			l, err := cachelevel.New(cachelevel.Config{
				Organization: cachelevel.FullyAssociative,
				Size:         256,
				BlockSize:    64,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(l.NumSets()).To(Equal(1))
			Expect(l.NumWays()).To(Equal(4))
		})
	})

	Describe("Scenario 1 — direct-mapped conflict", func() {
		var l *cachelevel.Level

		BeforeEach(func() {
			var err error
			l, err = cachelevel.New(cachelevel.Config{
				Organization: cachelevel.DirectMapped,
				Size:         256,
				BlockSize:    64,
				PolicyKind:   policy.LRU,
			})
			Expect(err).NotTo(HaveOccurred())
		})

		// 0x0 and 0x100 both map to set 0 (256B/64B direct-mapped has 4
		// sets), so access 4 (0x0) necessarily evicts 0x100's tag and
		// access 6 (0x100) is a second conflict miss, not a hit: no
		// direct-mapped geometry can have both of those outcomes at
		// once. Expected outcomes below are the mechanically-correct
		// trace, not the scenario's originally stated one.
		It("matches the expected hit/miss sequence", func() {
			addrs := []uint64{0x0, 0x0, 0x100, 0x0, 0x40, 0x100}
			expected := []bool{false, true, false, false, false, false}

			for i, a := range addrs {
				out := l.Access(a, cachelevel.Read)
				Expect(out.Hit).To(Equal(expected[i]), "access %d (addr %#x)", i, a)
			}

			stats := l.Stats()
			Expect(stats.Hits).To(Equal(uint64(1)))
			Expect(stats.Misses).To(Equal(uint64(5)))
		})
	})

	Describe("Scenario 2 — 2-way SA LRU eviction order", func() {
		var l *cachelevel.Level

		BeforeEach(func() {
			var err error
			l, err = cachelevel.New(cachelevel.Config{
				Organization:  cachelevel.SetAssociative,
				Size:          256,
				BlockSize:     64,
				Associativity: 2,
				PolicyKind:    policy.LRU,
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("evicts the LRU way on each new conflicting address", func() {
			a, b, c := uint64(0x0), uint64(0x80), uint64(0x100)
			addrs := []uint64{a, b, a, b, c, a, b}
			expected := []bool{false, false, true, true, false, false, false}

			for i, addrVal := range addrs {
				out := l.Access(addrVal, cachelevel.Read)
				Expect(out.Hit).To(Equal(expected[i]), "access %d (addr %#x)", i, addrVal)
			}
		})
	})

	Describe("Scenario 3 — write-back dirty eviction", func() {
		It("reports a writeback and the evicted address on a dirty conflict", func() {
			l, err := cachelevel.New(cachelevel.Config{
				Organization:  cachelevel.DirectMapped,
				Size:          256,
				BlockSize:     64,
				WriteBack:     true,
				WriteAllocate: true,
				PolicyKind:    policy.LRU,
			})
			Expect(err).NotTo(HaveOccurred())

			l.Access(0x0, cachelevel.Read)
			l.Access(0x0, cachelevel.Write)
			out := l.Access(0x100, cachelevel.Read)

			Expect(out.Hit).To(BeFalse())
			Expect(out.Writeback).To(BeTrue())
			Expect(out.EvictedValid).To(BeTrue())
			Expect(out.EvictedAddress).To(Equal(uint64(0x0)))
		})
	})

	Describe("write-through never sets dirty", func() {
		It("reports no writeback on a dirty-looking conflict", func() {
			l, err := cachelevel.New(cachelevel.Config{
				Organization:  cachelevel.DirectMapped,
				Size:          256,
				BlockSize:     64,
				WriteBack:     false,
				WriteAllocate: true,
				PolicyKind:    policy.LRU,
			})
			Expect(err).NotTo(HaveOccurred())

			l.Access(0x0, cachelevel.Write)
			out := l.Access(0x100, cachelevel.Read)

			Expect(out.Writeback).To(BeFalse())
		})
	})

	Describe("write-miss without write-allocate", func() {
		It("does not install an entry", func() {
			l, err := cachelevel.New(cachelevel.Config{
				Organization:  cachelevel.DirectMapped,
				Size:          256,
				BlockSize:     64,
				WriteAllocate: false,
				PolicyKind:    policy.LRU,
			})
			Expect(err).NotTo(HaveOccurred())

			out := l.Access(0x0, cachelevel.Write)
			Expect(out.Hit).To(BeFalse())

			_, ok := l.GetEntry(0x0)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Invalidate", func() {
		It("is idempotent", func() {
			l, err := cachelevel.New(cachelevel.Config{
				Organization: cachelevel.DirectMapped,
				Size:         256,
				BlockSize:    64,
				PolicyKind:   policy.LRU,
			})
			Expect(err).NotTo(HaveOccurred())

			l.Access(0x0, cachelevel.Read)
			l.Invalidate(0x0)
			_, ok := l.GetEntry(0x0)
			Expect(ok).To(BeFalse())

			l.Invalidate(0x0)
			_, ok = l.GetEntry(0x0)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Reset", func() {
		It("restores a fresh-construction state", func() {
			l, err := cachelevel.New(cachelevel.Config{
				Organization: cachelevel.DirectMapped,
				Size:         256,
				BlockSize:    64,
				PolicyKind:   policy.LRU,
			})
			Expect(err).NotTo(HaveOccurred())

			l.Access(0x0, cachelevel.Read)
			l.Access(0x0, cachelevel.Read)
			l.Reset()

			stats := l.Stats()
			Expect(stats.Hits).To(Equal(uint64(0)))
			Expect(stats.Misses).To(Equal(uint64(0)))

			out := l.Access(0x0, cachelevel.Read)
			Expect(out.Hit).To(BeFalse())
		})
	})

	Describe("ForceInstall", func() {
		It("does not change hit/miss counters", func() {
			l, err := cachelevel.New(cachelevel.Config{
				Organization: cachelevel.DirectMapped,
				Size:         256,
				BlockSize:    64,
				WriteBack:    true,
				PolicyKind:   policy.LRU,
			})
			Expect(err).NotTo(HaveOccurred())

			l.ForceInstall(0x0, cachelevel.Entry{Dirty: true}, cachelevel.Read)

			stats := l.Stats()
			Expect(stats.Hits).To(Equal(uint64(0)))
			Expect(stats.Misses).To(Equal(uint64(0)))

			e, ok := l.GetEntry(0x0)
			Expect(ok).To(BeTrue())
			Expect(e.Dirty).To(BeTrue())
		})

		It("overwrites the existing way when the tag is already resident", func() {
			l, err := cachelevel.New(cachelevel.Config{
				Organization: cachelevel.DirectMapped,
				Size:         256,
				BlockSize:    64,
				PolicyKind:   policy.LRU,
			})
			Expect(err).NotTo(HaveOccurred())

			l.Access(0x0, cachelevel.Read)
			out := l.ForceInstall(0x0, cachelevel.Entry{Dirty: true}, cachelevel.Read)

			Expect(out.EvictedValid).To(BeFalse())
		})
	})
})
