// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vevolab-parser/pkg/types"
)

const goodExport = `Series Name,10-a
Protocol Name,MV Flow
Measurement,Mode,Parameter,Units,Avg,Std,Instance 1,Instance 2
"E","PW Doppler Mode","Velocity","mm/s","612.3","12.1","603.7","620.9"
"A","PW Doppler Mode","Velocity","mm/s","401.0",,"401.0",
Calculation,,Units,Value
"E/A",,"none","1.526933"
`

const partialExport = `Series Name,10-a
Protocol Name,SAX M-Mode
"LVID;d","M-Mode","Depth","mm","4.12","0.05","4.07","4.17"
"LVID;s","M-Mode","Depth","mm","2.91"
"EF",,"%","55.4"
`

const headerlessExport = `"E","PW Doppler Mode","Velocity","mm/s","612.3","12.1","603.7","620.9"
`

// fakeImporter records imports and can be told to fail.
type fakeImporter struct {
	mu     sync.Mutex
	inputs []string
	err    error
}

func (f *fakeImporter) Import(_ context.Context, input string, _ types.Tables) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	return "run-" + filepath.Base(input), nil
}

// writeInput creates an export file in dir and returns its path.
func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(t *testing.T) types.ConvertConfig {
	t.Helper()
	cfg := types.DefaultConvertConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	return cfg
}

func TestConvertFile(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		importer    *fakeImporter
		wantStatus  types.ConversionStatus
		wantOutputs int
		wantErr     string
	}{
		{
			name:        "clean export",
			content:     goodExport,
			wantStatus:  types.ConversionDone,
			wantOutputs: 2,
		},
		{
			name:        "skipped row makes partial",
			content:     partialExport,
			wantStatus:  types.ConversionPartial,
			wantOutputs: 2,
		},
		{
			name:       "missing context fails without output",
			content:    headerlessExport,
			wantStatus: types.ConversionFailed,
			wantErr:    "missing context",
		},
		{
			name:        "database failure",
			content:     goodExport,
			importer:    &fakeImporter{err: errors.New("disk full")},
			wantStatus:  types.ConversionFailed,
			wantOutputs: 2,
			wantErr:     "importing into database: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			input := writeInput(t, t.TempDir(), "run1.csv", tt.content)

			var importer Importer
			if tt.importer != nil {
				importer = tt.importer
			}
			got := New(cfg, importer).ConvertFile(context.Background(), input)

			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Len(t, got.Outputs, tt.wantOutputs)
			if tt.wantErr != "" {
				require.Error(t, got.Err)
				assert.Contains(t, got.Err.Error(), tt.wantErr)
			} else {
				require.NoError(t, got.Err)
			}
			for _, p := range got.Outputs {
				_, err := os.Stat(p)
				assert.NoError(t, err)
			}
		})
	}
}

func TestConvertFile_OutputContent(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, t.TempDir(), "run1.csv", goodExport)
	importer := &fakeImporter{}

	got := New(cfg, importer).ConvertFile(context.Background(), input)
	require.NoError(t, got.Err)
	assert.Equal(t, "run-run1.csv", got.RunID)
	assert.Equal(t, []string{input}, importer.inputs)

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "run1_measurements.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "10-a,MV Flow,A,PW Doppler Mode,Velocity,mm/s,401.0,,401.0,", lines[2])
}

func TestConvertBatch(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		writeInput(t, dir, "a.csv", goodExport),
		writeInput(t, dir, "b.csv", partialExport),
		writeInput(t, dir, "c.csv", headerlessExport),
		filepath.Join(dir, "missing.csv"),
	}
	cfg := testConfig(t)
	cfg.Jobs = 2

	var log bytes.Buffer
	result := New(cfg, nil).ConvertBatch(context.Background(), inputs, &log)

	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 1, result.Partial)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 4, result.Total())
	assert.True(t, result.HasFailures())
	assert.True(t, result.HasWarnings())

	require.Len(t, result.Files, 4)
	for i, f := range result.Files {
		assert.Equal(t, inputs[i], f.Input, "results keep input order")
	}

	output := log.String()
	assert.Contains(t, output, "converted: "+inputs[0]+" (2 measurements, 1 calculations)")
	assert.Contains(t, output, "warning: "+inputs[1]+": line 4: unrecognized record")
	assert.Contains(t, output, "failed:    "+inputs[2])
	assert.Contains(t, output, "opening input")
	assert.Contains(t, output, "Batch summary: 1 converted, 1 with skipped rows, 2 failed (total: 4)")
	assert.Less(t, strings.Index(output, inputs[0]), strings.Index(output, inputs[1]))
}

func TestConvertBatch_OutputCollision(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	first := writeInput(t, dir, filepath.Join("a", "run.csv"), goodExport)
	second := writeInput(t, dir, filepath.Join("b", "run.csv"),
		strings.ReplaceAll(goodExport, "Series Name,10-a", "Series Name,11-b"))
	cfg := testConfig(t)

	var log bytes.Buffer
	result := New(cfg, nil).ConvertBatch(context.Background(), []string{first, second, first}, &log)

	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Files, 3)
	assert.Equal(t, types.ConversionDone, result.Files[0].Status)
	for _, f := range result.Files[1:] {
		assert.Equal(t, types.ConversionFailed, f.Status)
		require.Error(t, f.Err)
		assert.Contains(t, f.Err.Error(), "is already written for "+first)
		assert.Empty(t, f.Outputs)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "run_measurements.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "10-a,MV Flow,E")
	assert.NotContains(t, string(data), "11-b")
}

func TestConvertBatch_DistinctStemsShareOutputDir(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		writeInput(t, dir, "run1.csv", goodExport),
		writeInput(t, dir, "run2.csv", goodExport),
	}

	var log bytes.Buffer
	result := New(testConfig(t), nil).ConvertBatch(context.Background(), inputs, &log)
	assert.Equal(t, 2, result.Converted)
	assert.False(t, result.HasFailures())
}

func TestBatchResult_Report(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		writeInput(t, dir, "a.csv", goodExport),
		writeInput(t, dir, "c.csv", headerlessExport),
	}

	var log bytes.Buffer
	rep := New(testConfig(t), nil).ConvertBatch(context.Background(), inputs, &log).Report()

	require.Len(t, rep.Files, 2)
	assert.Equal(t, types.ConversionDone, rep.Files[0].Status)
	assert.Equal(t, 2, rep.Files[0].Measurements)
	assert.Len(t, rep.Files[0].Outputs, 2)

	assert.Equal(t, types.ConversionFailed, rep.Files[1].Status)
	assert.Contains(t, rep.Files[1].Error, "missing context")
	require.Len(t, rep.Files[1].Diagnostics, 1)
	assert.Equal(t, types.DiagMissingContext, rep.Files[1].Diagnostics[0].Kind)
}
