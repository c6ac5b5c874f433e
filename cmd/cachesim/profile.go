package main

import (
	"bytes"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/google/pprof/profile"
)

// startProfile begins CPU profiling into an in-memory buffer and returns a
// function that stops profiling, parses the captured samples, and writes
// them to path in pprof's native format.
func startProfile(path string) (func(), error) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		return nil, fmt.Errorf("cachesim: starting CPU profile: %w", err)
	}

	return func() {
		pprof.StopCPUProfile()

		prof, err := profile.ParseData(buf.Bytes())
		if err != nil {
			fmt.Fprintf(os.Stderr, "cachesim: parsing profile: %v\n", err)

			return
		}

		file, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cachesim: creating %s: %v\n", path, err)

			return
		}
		defer file.Close()

		if err := prof.Write(file); err != nil {
			fmt.Fprintf(os.Stderr, "cachesim: writing %s: %v\n", path, err)
		}
	}, nil
}
