// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/vevolab-parser/pkg/types"
)

// Error kinds. Every *LineError matches exactly one of these with errors.Is.
var (
	// ErrMalformedLine means the CSV quoting of a line could not be resolved.
	ErrMalformedLine = errors.New("malformed line")

	// ErrMissingContext means a data row appeared before a series and protocol
	// header established where it belongs.
	ErrMissingContext = errors.New("missing context")

	// ErrUnrecognizedRecord means a row looked like data but matched no record
	// layout completely.
	ErrUnrecognizedRecord = errors.New("unrecognized record")
)

// LineError reports a problem with one input row.
type LineError struct {
	Kind   error
	Line   int
	Fields []string
	// Err is the underlying cause, if any (for example a *csv.ParseError reason).
	Err error
}

func (e *LineError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d: %v", e.Line, e.Kind)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " %q", e.Fields)
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *LineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Diagnostic converts the error into a report entry.
func (e *LineError) Diagnostic(sev types.Severity) types.Diagnostic {
	d := types.Diagnostic{
		Line:     e.Line,
		Kind:     diagnosticKind(e.Kind),
		Severity: sev,
		Message:  e.Kind.Error(),
		Fields:   e.Fields,
	}
	if e.Err != nil {
		d.Message += ": " + e.Err.Error()
	}
	return d
}

func diagnosticKind(kind error) types.DiagnosticKind {
	switch kind {
	case ErrMalformedLine:
		return types.DiagMalformedLine
	case ErrMissingContext:
		return types.DiagMissingContext
	default:
		return types.DiagUnrecognizedRecord
	}
}
