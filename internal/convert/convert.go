// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the parser over input files and hands the finished
// tables to the configured sinks: delimited or workbook files, and optionally
// the SQLite store.
package convert

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/vevolab-parser/internal/export"
	"github.com/pdiddy/vevolab-parser/internal/parse"
	"github.com/pdiddy/vevolab-parser/pkg/types"
)

// Importer stores converted tables. *store.Store implements it.
type Importer interface {
	Import(ctx context.Context, input string, tables types.Tables) (string, error)
}

// FileResult holds the outcome of converting one file.
type FileResult struct {
	Input       string
	Status      types.ConversionStatus
	Tables      types.Tables
	Diagnostics []types.Diagnostic
	Outputs     []string
	RunID       string
	Err         error
}

// Report returns the diagnostics report entry for the file.
func (r FileResult) Report() export.FileReport {
	fr := export.FileReport{
		Input:        r.Input,
		Status:       r.Status,
		Measurements: len(r.Tables.Measurements),
		Calculations: len(r.Tables.Calculations),
		Outputs:      r.Outputs,
		Diagnostics:  r.Diagnostics,
	}
	if r.Err != nil {
		fr.Error = r.Err.Error()
	}
	return fr
}

// Converter converts Vevo LAB exports according to a ConvertConfig.
type Converter struct {
	cfg      types.ConvertConfig
	asm      *parse.Assembler
	importer Importer
}

// New returns a Converter. importer may be nil when no database is configured.
func New(cfg types.ConvertConfig, importer Importer) *Converter {
	policy := parse.Policy{
		Unrecognized:   cfg.Unrecognized,
		MissingContext: cfg.MissingContext,
	}
	return &Converter{cfg: cfg, asm: parse.NewAssembler(policy), importer: importer}
}

// ConvertFile parses input and writes its tables. Nothing is written when the
// parse fails; the partial tables and diagnostics are still returned.
func (c *Converter) ConvertFile(ctx context.Context, input string) FileResult {
	result := FileResult{Input: input}

	res, err := c.asm.RunFile(ctx, input)
	result.Tables = res.Tables
	result.Diagnostics = res.Diagnostics
	if err != nil {
		result.Status = types.ConversionFailed
		result.Err = err
		return result
	}

	outputs, err := export.WriteTables(input, res.Tables, c.cfg)
	result.Outputs = outputs
	if err != nil {
		result.Status = types.ConversionFailed
		result.Err = err
		return result
	}

	if c.importer != nil {
		runID, err := c.importer.Import(ctx, input, res.Tables)
		if err != nil {
			result.Status = types.ConversionFailed
			result.Err = fmt.Errorf("importing into database: %w", err)
			return result
		}
		result.RunID = runID
	}

	result.Status = types.ConversionDone
	if res.Warnings() > 0 {
		result.Status = types.ConversionPartial
	}
	return result
}

// printFile writes the status lines for one file to w.
func printFile(w io.Writer, r FileResult) {
	for _, d := range r.Diagnostics {
		fmt.Fprintf(w, "%s: %s: line %d: %s\n", d.Severity, r.Input, d.Line, d.Message)
	}
	switch r.Status {
	case types.ConversionFailed:
		fmt.Fprintf(w, "failed:    %s (%v)\n", r.Input, r.Err)
	default:
		fmt.Fprintf(w, "converted: %s (%d measurements, %d calculations)\n",
			r.Input, len(r.Tables.Measurements), len(r.Tables.Calculations))
	}
}
