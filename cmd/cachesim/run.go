package main

import (
	"fmt"
	"time"

	"github.com/yigitbektasgursoy/cachesim/internal/cachelevel"
	"github.com/yigitbektasgursoy/cachesim/internal/config"
	"github.com/yigitbektasgursoy/cachesim/internal/hierarchy"
	"github.com/yigitbektasgursoy/cachesim/internal/memory"
	"github.com/yigitbektasgursoy/cachesim/internal/metrics"
	"github.com/yigitbektasgursoy/cachesim/internal/policy"
	"github.com/yigitbektasgursoy/cachesim/internal/report"
	"github.com/yigitbektasgursoy/cachesim/internal/trace"
)

var policyKinds = map[string]policy.Kind{
	"LRU":    policy.LRU,
	"FIFO":   policy.FIFO,
	"RANDOM": policy.Random,
}

func buildLevel(spec config.CacheSpec) (*cachelevel.Level, error) {
	return cachelevel.New(cachelevel.Config{
		Organization:    spec.Organization,
		Size:            spec.Size,
		BlockSize:       spec.BlockSize,
		Associativity:   spec.Associativity,
		AccessLatency:   spec.AccessLatency,
		WriteBack:       spec.WriteBack,
		WriteAllocate:   spec.WriteAllocate,
		InclusionPolicy: spec.InclusionPolicy,
		PolicyKind:      policyKinds[spec.Policy],
	})
}

func buildProducer(spec config.TraceSpec) (trace.Producer, error) {
	switch spec.Kind {
	case "file":
		return trace.NewFileProducer(spec.Path)
	case "synthetic":
		return trace.NewSyntheticProducer(trace.SyntheticConfig{
			Pattern:      trace.Pattern(spec.Pattern),
			StartAddress: spec.StartAddress,
			EndAddress:   spec.EndAddress,
			NumAccesses:  spec.NumAccesses,
			ReadRatio:    spec.ReadRatio,
			Seed:         spec.Seed,
		})
	default:
		return nil, fmt.Errorf("unknown trace kind %q", spec.Kind)
	}
}

// runOneConfig loads path, replays its trace through a fresh hierarchy
// and returns the collected report.
func runOneConfig(path string) (*report.Result, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	levels := make([]*cachelevel.Level, len(cfg.CacheHierarchy))
	for i, spec := range cfg.CacheHierarchy {
		lvl, err := buildLevel(spec)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}

		levels[i] = lvl
	}

	h := hierarchy.New(levels)
	mem := memory.New(cfg.Memory.AccessLatency)

	producer, err := buildProducer(cfg.Trace)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	replay(h, mem, producer)
	elapsed := time.Since(start)

	return &report.Result{
		TestName: cfg.TestName,
		Report:   metrics.Collect(h, mem, elapsed),
	}, nil
}

// replay drains producer through h, charging mem for every access h
// reports as a full miss. Split out of runOneConfig so it can be
// exercised against a mocked trace.Producer.
func replay(h *hierarchy.Hierarchy, mem *memory.Memory, producer trace.Producer) {
	for {
		access, ok := producer.Next()
		if !ok {
			break
		}

		_, hit := h.Access(access.Address, access.Kind)
		if !hit {
			mem.Access(access.Kind)
		}
	}
}
