// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import "github.com/pdiddy/vevolab-parser/pkg/types"

// Layout bundles everything that depends on the exporter version: the row
// signatures and the two field mappers. Supporting a new export version means
// adding a Layout, not changing the pass.
type Layout struct {
	Name        string
	Signatures  []Signature
	Measurement func(TaggedRow) types.MeasurementRecord
	Calculation func(TaggedRow) types.CalculationRecord
}

// Classify decides the kind of a non-header row from its own fields.
func (l Layout) Classify(row RawRow) (Kind, error) {
	return classify(l.Signatures, row)
}

// VevoLAB is the layout of the VisualSonics Vevo LAB CSV export. Column label
// rows come first so they are not mistaken for data.
var VevoLAB = Layout{
	Name: "vevolab",
	Signatures: []Signature{
		{
			Name:  "measurement header",
			Kind:  Ignorable,
			Width: 8,
			Rules: map[int]FieldRule{0: HasPrefix("Measurement"), 7: HasPrefix("Instance 2")},
			Exact: true,
		},
		{
			Name:  "calculation header",
			Kind:  Ignorable,
			Width: 4,
			Rules: map[int]FieldRule{0: HasPrefix("Calculation"), 2: HasPrefix("Units")},
			Exact: true,
		},
		{
			Name:  "measurement",
			Kind:  Measurement,
			Width: 8,
			Rules: map[int]FieldRule{0: NonEmpty, 1: NonEmpty, 2: NonEmpty},
		},
		{
			Name:  "calculation",
			Kind:  Calculation,
			Width: 4,
			Rules: map[int]FieldRule{0: NonEmpty, 1: Empty},
		},
	},
	Measurement: ToMeasurement,
	Calculation: ToCalculation,
}
