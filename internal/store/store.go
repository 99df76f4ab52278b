// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store appends converted tables to a SQLite database so that many
// exports can be queried together. Each import is a run with its own id; rows
// keep their input order through a per-run sequence number.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/vevolab-parser/pkg/types"
)

// Store manages the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and creates the schema if it does
// not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Files convert concurrently; sqlite takes one writer at a time.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			input TEXT NOT NULL,
			imported_at TEXT NOT NULL,
			measurements INTEGER NOT NULL,
			calculations INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS measurements (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			series_id TEXT NOT NULL,
			protocol TEXT NOT NULL,
			measurement TEXT,
			mode TEXT,
			parameter TEXT,
			units TEXT,
			avg TEXT,
			std TEXT,
			instance_1 TEXT,
			instance_2 TEXT,
			avg_value REAL,
			std_value REAL,
			instance_1_value REAL,
			instance_2_value REAL,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE TABLE IF NOT EXISTS calculations (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			series_id TEXT NOT NULL,
			protocol TEXT NOT NULL,
			calculation TEXT,
			units TEXT,
			value TEXT,
			value_num REAL,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_measurements_series ON measurements(series_id, protocol)`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_series ON calculations(series_id, protocol)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Import stores both tables of one conversion in a single transaction and
// returns the new run id.
func (s *Store) Import(ctx context.Context, input string, tables types.Tables) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, input, imported_at, measurements, calculations) VALUES (?, ?, ?, ?, ?)`,
		runID, input, time.Now().UTC().Format(time.RFC3339), len(tables.Measurements), len(tables.Calculations),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	mstmt, err := tx.PrepareContext(ctx,
		`INSERT INTO measurements (run_id, seq, series_id, protocol, measurement, mode, parameter, units,
			avg, std, instance_1, instance_2, avg_value, std_value, instance_1_value, instance_2_value)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing measurement insert: %w", err)
	}
	defer mstmt.Close()

	for i, m := range tables.Measurements {
		avg, std, i1, i2 := m.Numbers()
		_, err := mstmt.ExecContext(ctx,
			runID, i, m.SeriesID, m.Protocol, m.Measurement, m.Mode, m.Parameter, m.Units,
			m.Avg, m.Std, m.Instance1, m.Instance2, avg, std, i1, i2,
		)
		if err != nil {
			return "", fmt.Errorf("inserting measurement %d: %w", i, err)
		}
	}

	cstmt, err := tx.PrepareContext(ctx,
		`INSERT INTO calculations (run_id, seq, series_id, protocol, calculation, units, value, value_num)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing calculation insert: %w", err)
	}
	defer cstmt.Close()

	for i, c := range tables.Calculations {
		_, err := cstmt.ExecContext(ctx,
			runID, i, c.SeriesID, c.Protocol, c.Calculation, c.Units, c.Value, c.Number(),
		)
		if err != nil {
			return "", fmt.Errorf("inserting calculation %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}
