package main

import (
	"fmt"
	"os"

	"github.com/pkg/browser"
)

// openResult opens url in the local browser, falling back to the
// generated CSV when --serve was not used.
func openResult(url string) {
	target := url
	if target == "" {
		target = flagCSV
	}

	if target == "" {
		return
	}

	if err := browser.OpenURL(target); err != nil {
		fmt.Fprintf(os.Stderr, "cachesim: opening %s: %v\n", target, err)
	}
}
