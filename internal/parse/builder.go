// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import "github.com/pdiddy/vevolab-parser/pkg/types"

// Builder accumulates records in call order. It does no validation; ordering
// and context guarantees come from the stages in front of it.
type Builder struct {
	tables   types.Tables
	finished bool
}

// AddMeasurement appends r to the measurement table.
func (b *Builder) AddMeasurement(r types.MeasurementRecord) {
	b.mustBeOpen()
	b.tables.Measurements = append(b.tables.Measurements, r)
}

// AddCalculation appends r to the calculation table.
func (b *Builder) AddCalculation(r types.CalculationRecord) {
	b.mustBeOpen()
	b.tables.Calculations = append(b.tables.Calculations, r)
}

// Finish closes the builder and returns both tables. Appending afterwards panics.
func (b *Builder) Finish() types.Tables {
	b.finished = true
	return b.tables
}

func (b *Builder) mustBeOpen() {
	if b.finished {
		panic("parse: append to finished Builder")
	}
}
