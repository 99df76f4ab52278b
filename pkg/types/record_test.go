// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{in: "612.3", want: ptr(612.3)},
		{in: " -14.43 ", want: ptr(-14.43)},
		{in: "", want: nil},
		{in: "n/a", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.in))
		})
	}
}

func TestMeasurementRecord_Numbers(t *testing.T) {
	m := MeasurementRecord{Avg: "612.3", Std: "", Instance1: "603.7", Instance2: "620.9"}
	avg, std, i1, i2 := m.Numbers()
	require.NotNil(t, avg)
	assert.InDelta(t, 612.3, *avg, 1e-9)
	assert.Nil(t, std)
	assert.InDelta(t, 603.7, *i1, 1e-9)
	assert.InDelta(t, 620.9, *i2, 1e-9)
	assert.Len(t, m.Row(), len(MeasurementColumns))
}

func TestContext_Complete(t *testing.T) {
	assert.False(t, Context{}.Complete())
	assert.False(t, Context{SeriesID: "10-a"}.Complete())
	assert.True(t, Context{SeriesID: "10-a", Protocol: "MV Flow"}.Complete())
}

func ptr(f float64) *float64 { return &f }
