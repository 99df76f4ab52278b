// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vevolab-parser/pkg/types"
)

func run(t *testing.T, input string, p Policy) (*Result, error) {
	t.Helper()
	return NewAssembler(p).Run(context.Background(), strings.NewReader(input))
}

func TestAssembler_Fixture(t *testing.T) {
	res, err := NewAssembler(DefaultPolicy()).RunFile(context.Background(), filepath.Join("testdata", "two_series.csv"))
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)

	require.Len(t, res.Measurements, 8)
	require.Len(t, res.Calculations, 4)

	type key struct{ id, protocol, name string }
	var gotM []key
	for _, m := range res.Measurements {
		gotM = append(gotM, key{m.SeriesID, m.Protocol, m.Measurement})
	}
	assert.Equal(t, []key{
		{"10-a", "MV Flow", "E"},
		{"10-a", "MV Flow", "A"},
		{"10-a", "SAX M-Mode", "LVID;d"},
		{"10-a", "SAX M-Mode", "LVID;s"},
		{"12-0", "MV Flow", "E"},
		{"12-0", "MV Flow", "A'"},
		{"12-0", "SAX M-Mode", "LVID;d"},
		{"12-0", "SAX M-Mode", "LVID;s"},
	}, gotM)

	var gotC []key
	for _, c := range res.Calculations {
		gotC = append(gotC, key{c.SeriesID, c.Protocol, c.Calculation})
	}
	assert.Equal(t, []key{
		{"10-a", "MV Flow", "E/A"},
		{"10-a", "SAX M-Mode", "EF"},
		{"12-0", "MV Flow", "A'/E'"},
		{"12-0", "SAX M-Mode", "EF"},
	}, gotC)

	// Empty source fields stay empty.
	assert.Equal(t, "", res.Measurements[1].Std)
	assert.Equal(t, "", res.Measurements[1].Instance2)
	assert.Equal(t, "Depth, systolic", res.Measurements[7].Parameter)

	again, err := NewAssembler(DefaultPolicy()).RunFile(context.Background(), filepath.Join("testdata", "two_series.csv"))
	require.NoError(t, err)
	assert.Equal(t, res.Tables, again.Tables)
}

func TestAssembler_MissingContext(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "lone measurement row",
			input: "E,PW Doppler Mode,Velocity,mm/s,1,2,3,4\n",
		},
		{
			name:  "series header without protocol",
			input: "Series Name,10-a\nEF,,%,55.4\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := run(t, tt.input, DefaultPolicy())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingContext))
			assert.Empty(t, res.Measurements)
			assert.Empty(t, res.Calculations)
			require.Len(t, res.Diagnostics, 1)
			assert.Equal(t, types.DiagMissingContext, res.Diagnostics[0].Kind)
			assert.Equal(t, types.SeverityFatal, res.Diagnostics[0].Severity)
		})
	}
}

func TestAssembler_MissingContextSkip(t *testing.T) {
	input := strings.Join([]string{
		"EF,,%,55.4",
		"Series Name,10-a",
		"Protocol Name,MV Flow",
		"E/A,,none,1.5",
	}, "\n")

	res, err := run(t, input, Policy{Unrecognized: types.ActionSkip, MissingContext: types.ActionSkip})
	require.NoError(t, err)
	require.Len(t, res.Calculations, 1)
	assert.Equal(t, "E/A", res.Calculations[0].Calculation)
	assert.Equal(t, 1, res.Warnings())
	assert.Equal(t, 1, res.Diagnostics[0].Line)
}

func TestAssembler_LeadingMetadataIsIgnored(t *testing.T) {
	input := strings.Join([]string{
		"Export Name,Vevo LAB Measurements",
		"",
		"Series Name,10-a",
		"Protocol Name,MV Flow",
		"E/A,,none,1.5",
	}, "\n")

	res, err := run(t, input, DefaultPolicy())
	require.NoError(t, err)
	assert.Len(t, res.Calculations, 1)
	assert.Empty(t, res.Diagnostics)
}

func TestAssembler_UnrecognizedRowTolerance(t *testing.T) {
	input := strings.Join([]string{
		"Series Name,10-a",
		"Protocol Name,SAX M-Mode",
		"LVID;d,M-Mode,Depth,mm,4.12,0.05,4.07,4.17",
		"LVID;s,M-Mode,Depth,mm,2.91,0.03",
		"IVS;d,M-Mode,Depth,mm,0.81,0.01,0.80,0.82",
	}, "\n")

	res, err := run(t, input, DefaultPolicy())
	require.NoError(t, err)

	require.Len(t, res.Measurements, 2)
	assert.Equal(t, "LVID;d", res.Measurements[0].Measurement)
	assert.Equal(t, "IVS;d", res.Measurements[1].Measurement)
	assert.Equal(t, "0.82", res.Measurements[1].Instance2)

	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, 4, d.Line)
	assert.Equal(t, types.DiagUnrecognizedRecord, d.Kind)
	assert.Equal(t, types.SeverityWarning, d.Severity)
	assert.Equal(t, []string{"LVID;s", "M-Mode", "Depth", "mm", "2.91", "0.03"}, d.Fields)
}

func TestAssembler_UnrecognizedAbort(t *testing.T) {
	input := "Series Name,10-a\nProtocol Name,MV Flow\nE,PW,Velocity,mm/s\nEF,,%,55\n"

	res, err := run(t, input, Policy{Unrecognized: types.ActionAbort, MissingContext: types.ActionAbort})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnrecognizedRecord))
	assert.Empty(t, res.Calculations)
	assert.Equal(t, 0, res.Warnings())
}

func TestAssembler_OrderAcrossInterleavedKinds(t *testing.T) {
	input := strings.Join([]string{
		"Series Name,S1",
		"Protocol Name,P1",
		"M1,Mode,Param,u,1,,,",
		"C1,,u,1",
		"C2,,u,2",
		"M2,Mode,Param,u,2,,,",
		"C3,,u,3",
		"Protocol Name,P2",
		"M3,Mode,Param,u,3,,,",
		"M1,Mode,Param,u,1,,,",
	}, "\n")

	res, err := run(t, input, DefaultPolicy())
	require.NoError(t, err)

	var m, c []string
	for _, r := range res.Measurements {
		m = append(m, r.Measurement+"@"+r.Protocol)
	}
	for _, r := range res.Calculations {
		c = append(c, r.Calculation+"@"+r.Protocol)
	}
	assert.Equal(t, []string{"M1@P1", "M2@P1", "M3@P2", "M1@P2"}, m)
	assert.Equal(t, []string{"C1@P1", "C2@P1", "C3@P1"}, c)
}

func TestAssembler_MalformedLineIsFatal(t *testing.T) {
	input := "Series Name,10-a\nProtocol Name,MV Flow\nEF,,%,55\n\"E/A,,none,1.5\n"

	res, err := run(t, input, DefaultPolicy())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedLine))
	assert.Len(t, res.Calculations, 1, "rows before the bad line are kept")
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, types.DiagMalformedLine, res.Diagnostics[0].Kind)
	assert.Equal(t, 4, res.Diagnostics[0].Line)
}

func TestAssembler_QuotesInsideFields(t *testing.T) {
	input := "Series Name,10-a\nProtocol Name,SAX M-Mode\n" +
		"LVID;d,M-Mode,Depth,mm,4.12,0.05,4.07,4.17\n" +
		"Probe 5\" note,M-Mode,Depth,mm,1,2,3,4\n" +
		"\"A\"x\",M,D,mm,1,2,3,4\n" +
		"LVID;s,M-Mode,Depth,mm,2.91,0.04,2.87,2.95\n"

	res, err := run(t, input, DefaultPolicy())
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	require.Len(t, res.Measurements, 4)
	assert.Equal(t, `Probe 5" note`, res.Measurements[1].Measurement)
	assert.Equal(t, `A"x`, res.Measurements[2].Measurement)
	assert.Equal(t, "LVID;s", res.Measurements[3].Measurement)
}

func TestAssembler_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAssembler(DefaultPolicy()).Run(ctx, strings.NewReader("Series Name,10-a\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssembler_MissingFile(t *testing.T) {
	_, err := NewAssembler(DefaultPolicy()).RunFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening input")
}
