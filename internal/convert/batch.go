// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/vevolab-parser/internal/export"
	"github.com/pdiddy/vevolab-parser/pkg/types"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Partial   int
	Failed    int
	Files     []FileResult
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Partial + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// HasWarnings reports whether any file had rows skipped.
func (r BatchResult) HasWarnings() bool {
	return r.Partial > 0
}

// Report returns the diagnostics report for the batch, in input order.
func (r BatchResult) Report() export.Report {
	rep := export.Report{Files: make([]export.FileReport, len(r.Files))}
	for i, f := range r.Files {
		rep.Files[i] = f.Report()
	}
	return rep
}

// ConvertBatch converts inputs independently, at most jobs at a time. A
// failing file does not stop the others. A file whose output paths were
// already claimed by an earlier input fails without being parsed. Status
// lines go to w in input order once all files are done, followed by a summary.
func (c *Converter) ConvertBatch(ctx context.Context, inputs []string, w io.Writer) BatchResult {
	jobs := c.cfg.Jobs
	if jobs < 1 {
		jobs = 1
	}

	files := make([]FileResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	owners := make(map[string]string)
	for i, input := range inputs {
		if err := c.claimOutputs(owners, input); err != nil {
			files[i] = FileResult{Input: input, Status: types.ConversionFailed, Err: err}
			continue
		}
		i, input := i, input
		g.Go(func() error {
			files[i] = c.ConvertFile(gctx, input)
			return nil
		})
	}
	g.Wait()

	result := BatchResult{Files: files}
	for _, f := range files {
		printFile(w, f)
		switch f.Status {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionPartial:
			result.Partial++
		case types.ConversionFailed:
			result.Failed++
		}
	}
	if len(files) > 1 {
		fmt.Fprintf(w, "\nBatch summary: %d converted, %d with skipped rows, %d failed (total: %d)\n",
			result.Converted, result.Partial, result.Failed, result.Total())
	}
	return result
}

// claimOutputs records input as the writer of its output paths in owners. It
// fails when another input already writes any of them.
func (c *Converter) claimOutputs(owners map[string]string, input string) error {
	paths, err := export.OutputPaths(input, c.cfg)
	if err != nil {
		// ConvertFile reports the bad configuration.
		return nil
	}
	keys := make([]string, len(paths))
	for i, p := range paths {
		keys[i] = filepath.Clean(p)
		if abs, err := filepath.Abs(p); err == nil {
			keys[i] = abs
		}
		if owner, ok := owners[keys[i]]; ok {
			return fmt.Errorf("output %s is already written for %s", p, owner)
		}
	}
	for _, k := range keys {
		owners[k] = input
	}
	return nil
}
