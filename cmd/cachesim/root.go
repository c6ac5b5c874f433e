// Package main implements the cachesim command-line driver: it loads one
// or more hierarchy configurations, replays each configuration's trace
// through a simulated cache hierarchy, and reports AMAT and traffic
// statistics.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/xid"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/yigitbektasgursoy/cachesim/internal/report"
)

var (
	flagCompare    bool
	flagCSV        string
	flagVerbose    bool
	flagProfile    string
	flagServe      string
	flagDB         string
	flagHostStats  bool
	flagOpen       bool
)

var rootCmd = &cobra.Command{
	Use:   "cachesim [config...]",
	Short: "Simulate a multi-level cache hierarchy against a memory trace.",
	Long: `cachesim replays one or more memory-access traces through a ` +
		`configurable tower of caches and reports per-level hit rates, ` +
		`average memory access time and aggregate traffic.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCachesim,
}

func init() {
	rootCmd.Flags().BoolVar(&flagCompare, "compare", false, "run every config and print a side-by-side table")
	rootCmd.Flags().StringVar(&flagCSV, "csv", "", "write the comparison to this CSV path")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "print per-level stats as each test runs")
	rootCmd.Flags().StringVar(&flagProfile, "profile", "", "write a CPU profile for the run to this path")
	rootCmd.Flags().StringVar(&flagServe, "serve", "", "serve the comparison results over HTTP at this address")
	rootCmd.Flags().StringVar(&flagDB, "db", "", "persist every result into this SQLite database")
	rootCmd.Flags().BoolVar(&flagHostStats, "host-stats", false, "print host CPU/memory usage alongside simulated metrics")
	rootCmd.Flags().BoolVar(&flagOpen, "open", false, "open the generated CSV, or the --serve URL, in a browser")
}

// Execute runs the root command, then runs the handlers registered with
// atexit and exits the process with status 1 on failure, 0 otherwise.
func Execute() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("cachesim: .env: %v", err)
	}

	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func runCachesim(cmd *cobra.Command, args []string) error {
	runID := xid.New()
	if flagVerbose {
		log.Printf("run %s: %d config(s)", runID, len(args))
	}

	if flagProfile != "" {
		stop, err := startProfile(flagProfile)
		if err != nil {
			return err
		}
		atexit.Register(stop)
	}

	var writer *resultWriter
	if flagDB != "" {
		w, err := newResultWriter(flagDB, runID)
		if err != nil {
			return err
		}
		writer = w
		atexit.Register(func() { writer.Close() })
	}

	results := make([]report.Result, 0, len(args))
	failures := 0

	for _, path := range args {
		res, err := runOneConfig(path)
		if err != nil {
			log.Printf("cachesim: %s: %v", path, err)
			failures++

			if !flagCompare {
				return err
			}

			continue
		}

		if flagVerbose {
			printVerbose(res)
		}

		results = append(results, *res)

		if writer != nil {
			if err := writer.Write(*res); err != nil {
				log.Printf("cachesim: db write for %s: %v", res.TestName, err)
			}
		}
	}

	if len(args) > 0 && failures == len(args) {
		return fmt.Errorf("every configuration failed")
	}

	if flagCompare {
		printComparison(results)
	}

	if flagCSV != "" {
		if err := report.Write(flagCSV, results); err != nil {
			return err
		}
	}

	if flagHostStats {
		printHostStats()
	}

	var serveURL string
	if flagServe != "" {
		url, err := startServer(flagServe, results)
		if err != nil {
			return err
		}
		serveURL = url
	}

	if flagOpen {
		openResult(serveURL)
	}

	if flagServe != "" {
		log.Printf("cachesim: serving results at %s, press ctrl-c to stop", serveURL)
		select {}
	}

	return nil
}
