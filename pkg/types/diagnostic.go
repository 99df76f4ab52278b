// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DiagnosticKind names the class of problem found on an input line.
type DiagnosticKind string

const (
	DiagMalformedLine      DiagnosticKind = "malformed_line"
	DiagMissingContext     DiagnosticKind = "missing_context"
	DiagUnrecognizedRecord DiagnosticKind = "unrecognized_record"
)

// Severity tells whether a diagnostic stopped the conversion.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityFatal   Severity = "fatal"
)

// Diagnostic describes one problem row. Warnings mean the row was skipped and
// conversion went on; a fatal diagnostic is the row that aborted the pass.
type Diagnostic struct {
	Line     int            `json:"line" yaml:"line"`
	Kind     DiagnosticKind `json:"kind" yaml:"kind"`
	Severity Severity       `json:"severity" yaml:"severity"`
	Message  string         `json:"message" yaml:"message"`
	Fields   []string       `json:"fields,omitempty" yaml:"fields,omitempty,flow"`
}

// ConversionStatus is the outcome of converting one input file.
type ConversionStatus string

const (
	ConversionDone    ConversionStatus = "converted"
	ConversionPartial ConversionStatus = "partial"
	ConversionFailed  ConversionStatus = "failed"
)
