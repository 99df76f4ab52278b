// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse turns a VisualSonics Vevo LAB CSV export into a measurement
// table and a calculation table.
//
// The export is a flat stream that interleaves section headers ("Series Name",
// "Protocol Name") with data rows. Conversion is a single pass:
//
//	Tokenizer -> Tracker -> Layout.Classify -> mapper -> Builder
//
// The Tracker carries the only state between rows: the current series and
// protocol, copied onto each data row when it is read. Classification looks at
// a row's own fields only. The Assembler drives the pass and applies the error
// Policy.
package parse
