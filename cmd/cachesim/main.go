// Command cachesim drives the trace-based cache-hierarchy simulator from
// one or more JSON configuration files.
package main

func main() {
	Execute()
}
