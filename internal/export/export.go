// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes finished measurement and calculation tables to disk as
// delimited text or an Excel workbook, and writes diagnostics reports.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/vevolab-parser/pkg/types"
)

const (
	measurementsName = "measurements"
	calculationsName = "calculations"
	workbookName     = "tables"
)

// OutputPath returns the file path for table name derived from input. An
// empty dir places the output next to the input.
func OutputPath(input, dir, name string, naming types.Naming, format types.OutputFormat) string {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	base := stem + "_" + name
	if naming == types.NamingPrefix {
		base = name + "_" + stem
	}
	return filepath.Join(dir, base+"."+string(format))
}

// OutputPaths returns the files WriteTables would write for input under cfg,
// in writing order.
func OutputPaths(input string, cfg types.ConvertConfig) ([]string, error) {
	switch cfg.Format {
	case types.FormatXLSX:
		return []string{OutputPath(input, cfg.OutputDir, workbookName, cfg.Naming, cfg.Format)}, nil
	case types.FormatCSV, types.FormatTSV, "":
		format := cfg.Format
		if format == "" {
			format = types.FormatCSV
		}
		return []string{
			OutputPath(input, cfg.OutputDir, measurementsName, cfg.Naming, format),
			OutputPath(input, cfg.OutputDir, calculationsName, cfg.Naming, format),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", cfg.Format)
	}
}

// WriteTables writes both tables for input according to cfg and returns the
// paths written.
func WriteTables(input string, tables types.Tables, cfg types.ConvertConfig) ([]string, error) {
	paths, err := OutputPaths(input, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	sheets := Sheets(tables)
	if cfg.Format == types.FormatXLSX {
		if err := WriteWorkbook(paths[0], sheets); err != nil {
			return nil, err
		}
		return paths, nil
	}

	comma := ','
	if cfg.Format == types.FormatTSV {
		comma = '\t'
	}
	for i, s := range sheets {
		if err := WriteDelimited(paths[i], comma, s); err != nil {
			return paths[:i], err
		}
	}
	return paths, nil
}

// Sheet is one table ready for output: a header row and data rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Sheets returns the measurement and calculation tables of t as sheets, in
// that order.
func Sheets(t types.Tables) []Sheet {
	m := Sheet{Name: measurementsName, Header: types.MeasurementColumns}
	for _, r := range t.Measurements {
		m.Rows = append(m.Rows, r.Row())
	}
	c := Sheet{Name: calculationsName, Header: types.CalculationColumns}
	for _, r := range t.Calculations {
		c.Rows = append(c.Rows, r.Row())
	}
	return []Sheet{m, c}
}

// WriteDelimited writes s to path with the given field separator.
func WriteDelimited(path string, comma rune, s Sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteSheet(f, comma, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteSheet writes the header and rows of s to w.
func WriteSheet(w io.Writer, comma rune, s Sheet) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(s.Header); err != nil {
		return fmt.Errorf("writing %s: %w", s.Name, err)
	}
	if err := cw.WriteAll(s.Rows); err != nil {
		return fmt.Errorf("writing %s: %w", s.Name, err)
	}
	return nil
}
