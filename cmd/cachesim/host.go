package main

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/process"
)

// printHostStats reports this process's CPU and memory usage. It is
// observational, not part of the simulated model.
func printHostStats() {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cachesim: host stats: %v\n", err)

		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cachesim: host stats: %v\n", err)

		return
	}

	mem, err := proc.MemoryInfo()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cachesim: host stats: %v\n", err)

		return
	}

	fmt.Printf("host: cpu=%.2f%% rss=%dKB\n", cpuPercent, mem.RSS/1024)
}
