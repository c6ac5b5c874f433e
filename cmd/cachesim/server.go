package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/yigitbektasgursoy/cachesim/internal/report"
)

// startServer exposes results as JSON at /results and as CSV at
// /results.csv, listening on addr in the background. It returns the URL
// a human should open to view them.
func startServer(addr string, results []report.Result) (string, error) {
	r := mux.NewRouter()

	r.HandleFunc("/results", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(results); err != nil {
			log.Printf("cachesim: encoding results: %v", err)
		}
	})

	r.HandleFunc("/results.csv", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")

		buf, err := csvBuffer(results)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}

		if _, err := w.Write(buf.Bytes()); err != nil {
			log.Printf("cachesim: writing CSV response: %v", err)
		}
	})

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("cachesim: listening on %s: %w", addr, err)
	}

	go func() {
		if err := http.Serve(listener, r); err != nil {
			log.Printf("cachesim: server stopped: %v", err)
		}
	}()

	return "http://" + listener.Addr().String() + "/results", nil
}

func csvBuffer(results []report.Result) (*bytes.Buffer, error) {
	tmp, err := os.CreateTemp("", "cachesim-*.csv")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := report.Write(tmp.Name(), results); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(tmp.Name())
	if err != nil {
		return nil, err
	}

	return bytes.NewBuffer(data), nil
}
