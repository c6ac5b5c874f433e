// Package config loads and validates the JSON description of a cache
// hierarchy, memory stub and trace source from disk.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yigitbektasgursoy/cachesim/internal/cachelevel"
)

// ConfigError names the file and field responsible for a rejected
// configuration.
type ConfigError struct {
	File string
	Msg  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.File, e.Msg)
}

// CacheSpec describes one level of the hierarchy as read from JSON.
type CacheSpec struct {
	Level           uint64                       `json:"level"`
	Organization    cachelevel.Organization      `json:"organization"`
	Size            uint64                       `json:"size"`
	BlockSize       uint64                       `json:"block_size"`
	Associativity   uint64                       `json:"associativity"`
	Policy          string                       `json:"policy"`
	AccessLatency   uint64                       `json:"access_latency"`
	WriteBack       bool                         `json:"write_back"`
	WriteAllocate   bool                         `json:"write_allocate"`
	InclusionPolicy cachelevel.InclusionPolicy   `json:"inclusion_policy,omitempty"`
}

// MemorySpec describes the main-memory stub.
type MemorySpec struct {
	AccessLatency uint64 `json:"access_latency"`
}

// TraceSpec describes how to produce the access stream for a run.
type TraceSpec struct {
	Kind string `json:"kind"`

	// File-producer fields.
	Path string `json:"path,omitempty"`

	// Synthetic-producer fields.
	Pattern      string  `json:"pattern,omitempty"`
	StartAddress uint64  `json:"start_address,omitempty"`
	EndAddress   uint64  `json:"end_address,omitempty"`
	NumAccesses  int     `json:"num_accesses,omitempty"`
	ReadRatio    float64 `json:"read_ratio,omitempty"`
	Seed         int64   `json:"seed,omitempty"`
}

// HierarchyConfig is the full JSON document describing one test.
type HierarchyConfig struct {
	TestName       string      `json:"test_name"`
	CacheHierarchy []CacheSpec `json:"cache_hierarchy"`
	Memory         MemorySpec  `json:"memory"`
	Trace          TraceSpec   `json:"trace"`
}

var validOrganizations = map[cachelevel.Organization]bool{
	cachelevel.DirectMapped:     true,
	cachelevel.SetAssociative:   true,
	cachelevel.FullyAssociative: true,
}

var validPolicies = map[string]bool{
	"LRU":    true,
	"FIFO":   true,
	"RANDOM": true,
}

var validInclusionPolicies = map[cachelevel.InclusionPolicy]bool{
	cachelevel.Inclusive: true,
	cachelevel.Exclusive: true,
	cachelevel.NINE:      true,
}

var validTracePatterns = map[string]bool{
	"Sequential": true,
	"Random":     true,
	"Strided":    true,
	"Looping":    true,
}

// Load reads path, decodes it as a HierarchyConfig and validates it.
func Load(path string) (HierarchyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HierarchyConfig{}, &ConfigError{File: path, Msg: err.Error()}
	}

	var cfg HierarchyConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return HierarchyConfig{}, &ConfigError{File: path, Msg: fmt.Sprintf("invalid JSON: %v", err)}
	}

	if err := validate(cfg); err != nil {
		return HierarchyConfig{}, &ConfigError{File: path, Msg: err.Error()}
	}

	normalize(&cfg)

	return cfg, nil
}

func validate(cfg HierarchyConfig) error {
	if len(cfg.CacheHierarchy) == 0 {
		return fmt.Errorf("cache_hierarchy must be non-empty")
	}

	for i, spec := range cfg.CacheHierarchy {
		if !validOrganizations[spec.Organization] {
			return fmt.Errorf("level %d: unknown organization %q", i, spec.Organization)
		}
		if !validPolicies[spec.Policy] {
			return fmt.Errorf("level %d: unknown policy %q", i, spec.Policy)
		}
		if i > 0 && spec.InclusionPolicy != "" && !validInclusionPolicies[spec.InclusionPolicy] {
			return fmt.Errorf("level %d: unknown inclusion policy %q", i, spec.InclusionPolicy)
		}
	}

	switch cfg.Trace.Kind {
	case "file":
		if cfg.Trace.Path == "" {
			return fmt.Errorf("trace: file producer requires a path")
		}
	case "synthetic":
		if !validTracePatterns[cfg.Trace.Pattern] {
			return fmt.Errorf("trace: unknown pattern %q", cfg.Trace.Pattern)
		}
		if cfg.Trace.ReadRatio < 0 || cfg.Trace.ReadRatio > 1 {
			return fmt.Errorf("trace: read_ratio %v out of [0,1]", cfg.Trace.ReadRatio)
		}
	default:
		return fmt.Errorf("trace: unknown kind %q", cfg.Trace.Kind)
	}

	return nil
}

// normalize fills in defaults the JSON is allowed to omit: level 1's
// inclusion policy is meaningless and ignored, deeper levels default to
// Inclusive.
func normalize(cfg *HierarchyConfig) {
	for i := range cfg.CacheHierarchy {
		if i == 0 {
			continue
		}

		if cfg.CacheHierarchy[i].InclusionPolicy == "" {
			cfg.CacheHierarchy[i].InclusionPolicy = cachelevel.Inclusive
		}
	}
}
