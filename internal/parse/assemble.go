// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/vevolab-parser/pkg/types"
)

// Policy decides, per recoverable error kind, whether the pass aborts or skips
// the row. Malformed lines always abort: a line that could not be split may
// have been a header, so nothing after it can be attributed safely.
type Policy struct {
	Unrecognized   types.ErrorAction
	MissingContext types.ErrorAction
}

// DefaultPolicy skips unrecognized rows and aborts on missing context.
func DefaultPolicy() Policy {
	return Policy{Unrecognized: types.ActionSkip, MissingContext: types.ActionAbort}
}

// Result is the outcome of one pass. Tables hold every record accepted before
// the pass ended, so they are partial when Run also returns an error.
type Result struct {
	types.Tables
	Diagnostics []types.Diagnostic
}

// Warnings returns the number of skipped rows.
func (r *Result) Warnings() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == types.SeverityWarning {
			n++
		}
	}
	return n
}

// Assembler drives the single conversion pass over one export.
type Assembler struct {
	Layout Layout
	Policy Policy
}

// NewAssembler returns an Assembler for the Vevo LAB layout.
func NewAssembler(p Policy) *Assembler {
	return &Assembler{Layout: VevoLAB, Policy: p}
}

// RunFile opens path and converts it.
func (a *Assembler) RunFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return &Result{}, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()
	return a.Run(ctx, f)
}

// Run reads the export from r row by row. Each row is either a header that
// updates the context, an ignorable row, or a data row that is classified,
// stamped with the current context and appended to its table.
//
// On a fatal error Run returns the partial Result together with the error; the
// fatal row is the last entry of Result.Diagnostics.
func (a *Assembler) Run(ctx context.Context, r io.Reader) (*Result, error) {
	var (
		tok     = NewTokenizer(r)
		tracker Tracker
		builder Builder
		res     = &Result{}
	)
	finish := func(err error) (*Result, error) {
		res.Tables = builder.Finish()
		return res, err
	}

	for {
		select {
		case <-ctx.Done():
			return finish(ctx.Err())
		default:
		}

		row, err := tok.Next()
		if err == io.EOF {
			return finish(nil)
		}
		if err != nil {
			var le *LineError
			if errors.As(err, &le) {
				res.Diagnostics = append(res.Diagnostics, le.Diagnostic(types.SeverityFatal))
				return finish(err)
			}
			return finish(fmt.Errorf("reading input: %w", err))
		}

		if tracker.Observe(row) {
			continue
		}

		kind, err := a.Layout.Classify(row)
		if err != nil {
			if err := a.handle(res, err, a.Policy.Unrecognized); err != nil {
				return finish(err)
			}
			continue
		}
		if kind == Ignorable {
			continue
		}

		tagged, err := tracker.Tag(row)
		if err != nil {
			if err := a.handle(res, err, a.Policy.MissingContext); err != nil {
				return finish(err)
			}
			continue
		}

		switch kind {
		case Measurement:
			builder.AddMeasurement(a.Layout.Measurement(tagged))
		case Calculation:
			builder.AddCalculation(a.Layout.Calculation(tagged))
		}
	}
}

// handle records a row error as a diagnostic and returns it when the action
// is abort, or nil when the row is skipped.
func (a *Assembler) handle(res *Result, err error, action types.ErrorAction) error {
	var le *LineError
	if !errors.As(err, &le) {
		return err
	}
	if action == types.ActionSkip {
		res.Diagnostics = append(res.Diagnostics, le.Diagnostic(types.SeverityWarning))
		return nil
	}
	res.Diagnostics = append(res.Diagnostics, le.Diagnostic(types.SeverityFatal))
	return err
}
