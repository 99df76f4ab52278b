// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pdiddy/vevolab-parser/pkg/types"
)

// ErrRunNotFound is returned by Tables when no run has the given id.
var ErrRunNotFound = errors.New("run not found")

// Run describes one import.
type Run struct {
	ID           string `json:"id"`
	Input        string `json:"input"`
	ImportedAt   string `json:"imported_at"`
	Measurements int    `json:"measurements"`
	Calculations int    `json:"calculations"`
}

// Runs lists all imports, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input, imported_at, measurements, calculations FROM runs ORDER BY imported_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Input, &r.ImportedAt, &r.Measurements, &r.Calculations); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Tables reads back the tables of one run in their original order.
func (s *Store) Tables(ctx context.Context, runID string) (types.Tables, error) {
	var (
		t   types.Tables
		one int
	)
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, runID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return t, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return t, fmt.Errorf("looking up run: %w", err)
	}
	if t.Measurements, err = s.measurements(ctx, runID); err != nil {
		return t, err
	}
	t.Calculations, err = s.calculations(ctx, runID)
	return t, err
}

func (s *Store) measurements(ctx context.Context, runID string) ([]types.MeasurementRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT series_id, protocol, measurement, mode, parameter, units, avg, std, instance_1, instance_2
		 FROM measurements WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying measurements: %w", err)
	}
	defer rows.Close()

	var out []types.MeasurementRecord
	for rows.Next() {
		var m types.MeasurementRecord
		if err := rows.Scan(&m.SeriesID, &m.Protocol, &m.Measurement, &m.Mode, &m.Parameter,
			&m.Units, &m.Avg, &m.Std, &m.Instance1, &m.Instance2); err != nil {
			return nil, fmt.Errorf("scanning measurement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) calculations(ctx context.Context, runID string) ([]types.CalculationRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT series_id, protocol, calculation, units, value
		 FROM calculations WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying calculations: %w", err)
	}
	defer rows.Close()

	var out []types.CalculationRecord
	for rows.Next() {
		var c types.CalculationRecord
		if err := rows.Scan(&c.SeriesID, &c.Protocol, &c.Calculation, &c.Units, &c.Value); err != nil {
			return nil, fmt.Errorf("scanning calculation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
