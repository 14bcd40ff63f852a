package sinks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/gridstudy/core/results"
	"github.com/kilianp07/gridstudy/core/simulation"
)

// SQLiteConfig locates the results database.
type SQLiteConfig struct {
	Path string `json:"path"`
}

// SQLiteSink stores result tables in long format, one row per
// (table, step, element).
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens or creates the database at path and ensures schema.
func NewSQLiteSink(cfg SQLiteConfig) (*SQLiteSink, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite sink: path is required")
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS study_runs (
        run_id TEXT PRIMARY KEY,
        name TEXT,
        study_date TEXT,
        written_at INTEGER
    );
    CREATE TABLE IF NOT EXISTS study_results (
        run_id TEXT,
        key TEXT,
        step INTEGER,
        time TEXT,
        element TEXT,
        value REAL
    );
    CREATE INDEX IF NOT EXISTS study_results_run ON study_results (run_id, key);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteSink{db: db}, nil
}

// Write stores every table of the run in one transaction. Missing samples
// are stored as NULL.
func (s *SQLiteSink) Write(ctx context.Context, run results.Run, tables simulation.Results) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO study_runs (run_id, name, study_date, written_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Name, run.Date.Format("2006-01-02"), time.Now().Unix()); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO study_results (run_id, key, step, time, element, value) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range tables {
		for step, tod := range t.Frame.Index {
			for c, element := range t.Frame.Columns {
				var value any
				if v := t.Frame.Values[c][step]; !math.IsNaN(v) {
					value = v
				}
				if _, err := stmt.ExecContext(ctx, run.ID, t.Key(), step, tod.String(), element, value); err != nil {
					return fmt.Errorf("insert %s step %d: %w", t.Key(), step, err)
				}
			}
		}
	}
	return tx.Commit()
}

// Series returns the stored values of element in table key for run, in step
// order. NULL values are returned as NaN.
func (s *SQLiteSink) Series(ctx context.Context, runID, key, element string) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT value FROM study_results WHERE run_id = ? AND key = ? AND element = ? ORDER BY step`,
		runID, key, element)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []float64
	for rows.Next() {
		var v sql.NullFloat64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if !v.Valid {
			out = append(out, math.NaN())
			continue
		}
		out = append(out, v.Float64)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
