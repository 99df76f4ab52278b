// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import "github.com/pdiddy/vevolab-parser/pkg/types"

// field returns the cleaned field at i, or "" when the row is shorter.
func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return clean(fields[i])
}

// ToMeasurement maps a Vevo LAB measurement row:
//
//	measurement, mode, parameter, units, avg, std, instance 1, instance 2
func ToMeasurement(row TaggedRow) types.MeasurementRecord {
	f := row.Fields
	return types.MeasurementRecord{
		SeriesID:    row.Context.SeriesID,
		Protocol:    row.Context.Protocol,
		Measurement: field(f, 0),
		Mode:        field(f, 1),
		Parameter:   field(f, 2),
		Units:       field(f, 3),
		Avg:         field(f, 4),
		Std:         field(f, 5),
		Instance1:   field(f, 6),
		Instance2:   field(f, 7),
	}
}

// ToCalculation maps a Vevo LAB calculation row. Column 1 is an empty spacer:
//
//	calculation, , units, value
func ToCalculation(row TaggedRow) types.CalculationRecord {
	f := row.Fields
	return types.CalculationRecord{
		SeriesID:    row.Context.SeriesID,
		Protocol:    row.Context.Protocol,
		Calculation: field(f, 0),
		Units:       field(f, 2),
		Value:       field(f, 3),
	}
}
