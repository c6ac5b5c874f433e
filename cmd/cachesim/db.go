package main

import (
	"database/sql"
	"fmt"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"

	"github.com/yigitbektasgursoy/cachesim/internal/report"
)

// resultWriter persists every completed report.Result into a SQLite
// database, one row per test per metric, tagged with the run's xid so
// repeated --compare invocations accumulate a queryable history.
type resultWriter struct {
	db    *sql.DB
	stmt  *sql.Stmt
	runID xid.ID
}

func newResultWriter(path string, runID xid.ID) (*resultWriter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("cachesim: opening %s: %w", path, err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS results (
		run_id TEXT,
		test_name TEXT,
		metric TEXT,
		value REAL
	)`)
	if err != nil {
		db.Close()

		return nil, fmt.Errorf("cachesim: creating table: %w", err)
	}

	stmt, err := db.Prepare(`INSERT INTO results (run_id, test_name, metric, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		db.Close()

		return nil, fmt.Errorf("cachesim: preparing statement: %w", err)
	}

	return &resultWriter{db: db, stmt: stmt, runID: runID}, nil
}

// Write inserts one row per level metric plus the total AMAT and memory
// traffic counters for res.
func (w *resultWriter) Write(res report.Result) error {
	rep := res.Report

	for _, lvl := range rep.Levels {
		metric := fmt.Sprintf("L%d Hit Rate", lvl.Index+1)
		if _, err := w.stmt.Exec(w.runID.String(), res.TestName, metric, lvl.HitRate*100); err != nil {
			return err
		}

		metric = fmt.Sprintf("L%d AMAT Contribution", lvl.Index+1)
		if _, err := w.stmt.Exec(w.runID.String(), res.TestName, metric, lvl.AMATContribution); err != nil {
			return err
		}
	}

	if _, err := w.stmt.Exec(w.runID.String(), res.TestName, "Total AMAT", rep.TotalAMAT); err != nil {
		return err
	}

	if _, err := w.stmt.Exec(w.runID.String(), res.TestName, "Memory Reads", float64(rep.MemoryReads)); err != nil {
		return err
	}

	if _, err := w.stmt.Exec(w.runID.String(), res.TestName, "Memory Writes", float64(rep.MemoryWrites)); err != nil {
		return err
	}

	if _, err := w.stmt.Exec(w.runID.String(), res.TestName, "Traffic Bytes", float64(rep.Traffic)); err != nil {
		return err
	}

	return nil
}

// Close closes the prepared statement and the database handle.
func (w *resultWriter) Close() {
	w.stmt.Close()
	w.db.Close()
}
